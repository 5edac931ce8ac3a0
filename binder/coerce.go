package binder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/sqlstmt/placeholder"
)

// Coerce converts a raw value into the Go type bound for kind. A nil raw value
// is returned as nil. Strings are parsed; values that already have the target
// type pass through.
func Coerce(kind placeholder.TypeKind, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch kind {
	case placeholder.TypeString:
		return toString(raw), nil
	case placeholder.TypeShort:
		return toInt[int16](raw, 16)
	case placeholder.TypeInteger:
		return toInt[int32](raw, 32)
	case placeholder.TypeLong:
		return toInt[int64](raw, 64)
	case placeholder.TypeFloat:
		return toFloat[float32](raw, 32)
	case placeholder.TypeDouble:
		return toFloat[float64](raw, 64)
	case placeholder.TypeBoolean:
		return toBool(raw)
	case placeholder.TypeDate:
		return toTime(raw, DateLayout)
	case placeholder.TypeTime:
		return toTime(raw, TimeLayout)
	case placeholder.TypeTimestamp:
		return toTime(raw, TimestampLayout)
	default:
		return nil, fmt.Errorf("no conversion for type %s", kind)
	}
}

func toString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func toInt[T int16 | int32 | int64](raw any, bits int) (any, error) {
	switch v := raw.(type) {
	case T:
		return v, nil
	case int:
		return toInt[T](strconv.Itoa(v), bits)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(toString(raw)), 10, bits)
	if err != nil {
		return nil, err
	}
	return T(n), nil
}

func toFloat[T float32 | float64](raw any, bits int) (any, error) {
	if v, ok := raw.(T); ok {
		return v, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(toString(raw)), bits)
	if err != nil {
		return nil, err
	}
	return T(f), nil
}

func toBool(raw any) (any, error) {
	if v, ok := raw.(bool); ok {
		return v, nil
	}
	s := strings.ToLower(strings.TrimSpace(toString(raw)))
	switch s {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func toTime(raw any, layout string) (any, error) {
	if v, ok := raw.(time.Time); ok {
		return v, nil
	}
	return time.Parse(layout, strings.TrimSpace(toString(raw)))
}
