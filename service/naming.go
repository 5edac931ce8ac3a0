package service

import (
	"fmt"
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

var pluralizeClient = pluralizer.NewClient()

// KeyStyle decides how column names become document keys.
type KeyStyle uint8

const (
	KeyColumn KeyStyle = iota // as returned by the driver
	KeySnake                  // first_name
	KeyCamel                  // firstName
	KeyPascal                 // FirstName
)

func ParseKeyStyle(name string) (KeyStyle, error) {
	switch strings.ToLower(name) {
	case "", "column":
		return KeyColumn, nil
	case "snake":
		return KeySnake, nil
	case "camel":
		return KeyCamel, nil
	case "pascal":
		return KeyPascal, nil
	default:
		return 0, fmt.Errorf("unknown key style %q", name)
	}
}

func (k KeyStyle) Key(column string) string {
	switch k {
	case KeySnake:
		return toSnakeCase(column)
	case KeyCamel:
		return toCamelCase(column)
	case KeyPascal:
		return toPascalCase(column)
	default:
		return column
	}
}

// toSnakeCase handles acronyms: UserID -> user_id, HTTPServer -> http_server.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}
	if !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

func toCamelCase(name string) string {
	pascal := toPascalCase(name)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func toPascalCase(name string) string {
	var result strings.Builder
	for _, part := range strings.Split(toSnakeCase(name), "_") {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		result.WriteString(string(runes))
	}
	return result.String()
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// pluralize turns a singular element name into its collection name.
func pluralize(name string) string {
	if name == "" {
		return ""
	}
	return pluralizeClient.Plural(name)
}
