package placeholder

import (
	"fmt"
	"strings"
)

// TypeKind is the bind type of a parameter.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypeString
	TypeShort
	TypeInteger
	TypeLong
	TypeFloat
	TypeDouble
	TypeBoolean
	TypeDate
	TypeTime
	TypeTimestamp
)

// Fixed patterns carried by the temporal kinds.
const (
	DatePattern      = "yyyy-MM-dd"
	TimePattern      = "HH:mm:ssZ"
	TimestampPattern = "yyyy-MM-ddHH:mm:ss"
)

var typeNames = [...]string{
	TypeUnknown:   "unknown",
	TypeString:    "string",
	TypeShort:     "short",
	TypeInteger:   "integer",
	TypeLong:      "long",
	TypeFloat:     "float",
	TypeDouble:    "double",
	TypeBoolean:   "boolean",
	TypeDate:      "date",
	TypeTime:      "time",
	TypeTimestamp: "timestamp",
}

func (t TypeKind) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[TypeUnknown]
}

func (t TypeKind) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TypeKind) UnmarshalText(text []byte) error {
	k, ok := ParseType(string(text))
	if !ok {
		return fmt.Errorf("%w %q", ErrUnrecognizedType, text)
	}
	*t = k
	return nil
}

// Pattern returns the fixed format pattern of a temporal kind, or "".
func (t TypeKind) Pattern() string {
	switch t {
	case TypeDate:
		return DatePattern
	case TypeTime:
		return TimePattern
	case TypeTimestamp:
		return TimestampPattern
	default:
		return ""
	}
}

func (t TypeKind) IsTemporal() bool {
	return t.Pattern() != ""
}

// Types lists the recognised kinds in declaration order.
func Types() []TypeKind {
	return []TypeKind{
		TypeString, TypeShort, TypeInteger, TypeLong, TypeFloat,
		TypeDouble, TypeBoolean, TypeDate, TypeTime, TypeTimestamp,
	}
}

// ParseType resolves a type keyword, ignoring case.
func ParseType(keyword string) (TypeKind, bool) {
	for _, t := range Types() {
		if strings.EqualFold(t.String(), keyword) {
			return t, true
		}
	}
	return TypeUnknown, false
}
