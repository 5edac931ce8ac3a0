// Package format encodes documents as YAML or JSON with one set of options.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

type Format string

const (
	YAML  Format = "yaml"
	JSON  Format = "json"
	Table Format = "table"
)

// Parse resolves a format name. An empty name means YAML.
func Parse(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return YAML, nil
	case YAML, JSON, Table:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want yaml, json or table)", name)
	}
}

func (f Format) options() []yaml.EncodeOption {
	options := []yaml.EncodeOption{yaml.UseJSONMarshaler()}
	if f == JSON {
		options = append(options, yaml.JSON())
	}
	return options
}

// Marshal encodes data in f. Table falls back to YAML.
func (f Format) Marshal(data any) ([]byte, error) {
	return yaml.MarshalWithOptions(data, f.options()...)
}

// NewEncoder returns a streaming encoder for f.
func (f Format) NewEncoder(w io.Writer) *yaml.Encoder {
	return yaml.NewEncoder(w, f.options()...)
}

// Unmarshal decodes either format.
func Unmarshal(data []byte, v any) error {
	return yaml.UnmarshalWithOptions(data, v, yaml.UseJSONUnmarshaler())
}
