package placeholder

import "strings"

// Descriptor is one typed bind parameter produced from a placeholder.
type Descriptor struct {
	Name        string     `json:"name" yaml:"name"`
	Origin      OriginKind `json:"origin" yaml:"origin"`
	Type        TypeKind   `json:"type" yaml:"type"`
	QueryString string     `json:"query_string" yaml:"query_string"`
	// ConvertNull is always false: a nil value is bound as NULL, never replaced
	// with the zero value of the type.
	ConvertNull bool   `json:"convert_null" yaml:"convert_null"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	Source      string `json:"-" yaml:"-"`
}

// Constructor builds the descriptor variant for one type kind.
type Constructor func(source, name string, origin OriginKind) Descriptor

type typeEntry struct {
	kind TypeKind
	ctor Constructor
}

// typeRegistry is built once at init and only read afterwards.
var typeRegistry = buildTypeRegistry()

func buildTypeRegistry() map[string]typeEntry {
	reg := make(map[string]typeEntry, len(Types()))
	for _, t := range Types() {
		reg[t.String()] = typeEntry{kind: t, ctor: constructorFor(t)}
	}
	return reg
}

func constructorFor(t TypeKind) Constructor {
	switch t {
	case TypeString, TypeShort, TypeInteger, TypeLong, TypeFloat, TypeDouble, TypeBoolean:
		return func(source, name string, origin OriginKind) Descriptor {
			return Descriptor{
				Name:        name,
				Origin:      origin,
				Type:        t,
				QueryString: name,
				Source:      source,
			}
		}
	case TypeDate, TypeTime, TypeTimestamp:
		pattern := t.Pattern()
		return func(source, name string, origin OriginKind) Descriptor {
			return Descriptor{
				Name:        name,
				Origin:      origin,
				Type:        t,
				QueryString: name,
				Format:      pattern,
				Source:      source,
			}
		}
	default:
		return nil
	}
}

// LookupType returns the constructor registered for a type keyword.
func LookupType(keyword string) (TypeKind, Constructor, bool) {
	e, ok := typeRegistry[strings.ToLower(keyword)]
	if !ok {
		return TypeUnknown, nil, false
	}
	return e.kind, e.ctor, true
}
