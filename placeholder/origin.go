package placeholder

import (
	"fmt"
	"strings"
)

// OriginKind selects where a parameter value is fetched from at bind time.
type OriginKind uint8

const (
	OriginUnknown OriginKind = iota
	OriginID
	OriginPayload
	OriginMetadata
	OriginConstant
)

var originNames = [...]string{
	OriginUnknown:  "unknown",
	OriginID:       "id",
	OriginPayload:  "payload",
	OriginMetadata: "metadata",
	OriginConstant: "constant",
}

func (o OriginKind) String() string {
	if int(o) < len(originNames) {
		return originNames[o]
	}
	return originNames[OriginUnknown]
}

// MarshalText lets the origin travel as its keyword in yaml/json documents.
func (o OriginKind) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *OriginKind) UnmarshalText(text []byte) error {
	k, ok := ParseOrigin(string(text))
	if !ok {
		return fmt.Errorf("%w %q", ErrUnrecognizedOrigin, text)
	}
	*o = k
	return nil
}

// Origins lists the recognised origins in declaration order.
func Origins() []OriginKind {
	return []OriginKind{OriginID, OriginPayload, OriginMetadata, OriginConstant}
}

// ParseOrigin resolves an origin keyword, ignoring case.
func ParseOrigin(keyword string) (OriginKind, bool) {
	for _, o := range Origins() {
		if strings.EqualFold(o.String(), keyword) {
			return o, true
		}
	}
	return OriginUnknown, false
}
