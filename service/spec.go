package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/sqlstmt/connector"
	"github.com/Konsultn-Engineering/sqlstmt/format"
	"github.com/Konsultn-Engineering/sqlstmt/message"
)

// Service is the lifecycle every builder exposes.
type Service interface {
	Name() string
	State() State
	Prepare() error
	Init(ctx context.Context) error
	Start() error
	Stop() error
	Close() error
	Service(ctx context.Context, msg *message.Message) error
}

var (
	_ Service = (*CaptureBuilder)(nil)
	_ Service = (*QueryBuilder)(nil)
)

type Kind string

const (
	KindCapture Kind = "capture"
	KindQuery   Kind = "query"
)

const (
	TranslatorNone             = "none"
	TranslatorFirstRowMetadata = "first-row-metadata"
	TranslatorDocument         = "document"
)

// Spec describes one builder in configuration.
type Spec struct {
	Name         string         `json:"name" yaml:"name"`
	Kind         Kind           `json:"kind" yaml:"kind"`
	Statement    string         `json:"statement" yaml:"statement"`
	QueryTimeout time.Duration  `json:"query_timeout,omitempty" yaml:"query_timeout,omitempty"`
	Translator   TranslatorSpec `json:"translator,omitempty" yaml:"translator,omitempty"`
}

type TranslatorSpec struct {
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Prefix  string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Element string `json:"element,omitempty" yaml:"element,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Keys    string `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// Validate checks the shape of the spec. The statement itself is only
// checked by Prepare.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("service name is required")
	}
	switch s.Kind {
	case KindCapture:
		if s.Translator.Type != "" {
			return fmt.Errorf("service %s: capture services take no translator", s.Name)
		}
	case KindQuery:
		if _, err := NewTranslator(s.Translator); err != nil {
			return fmt.Errorf("service %s: %w", s.Name, err)
		}
	default:
		return fmt.Errorf("service %s: unknown kind %q", s.Name, s.Kind)
	}
	return nil
}

// NewTranslator builds the translator a spec names. An empty type is NoOp.
func NewTranslator(ts TranslatorSpec) (ResultSetTranslator, error) {
	switch ts.Type {
	case "", TranslatorNone:
		return NoOpTranslator{}, nil
	case TranslatorFirstRowMetadata:
		return FirstRowMetadataTranslator{Prefix: ts.Prefix}, nil
	case TranslatorDocument:
		f, err := format.Parse(ts.Format)
		if err != nil {
			return nil, err
		}
		keys, err := ParseKeyStyle(ts.Keys)
		if err != nil {
			return nil, err
		}
		return DocumentTranslator{Element: ts.Element, Format: f, Keys: keys}, nil
	default:
		return nil, fmt.Errorf("unknown translator %q", ts.Type)
	}
}

// New builds an unprepared builder from spec.
func New(spec Spec, conn connector.Connection, opts ...Option) (Service, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.QueryTimeout > 0 {
		opts = append(opts, WithQueryTimeout(spec.QueryTimeout))
	}
	switch spec.Kind {
	case KindQuery:
		t, err := NewTranslator(spec.Translator)
		if err != nil {
			return nil, err
		}
		return NewQueryBuilder(spec.Name, spec.Statement, conn, t, opts...), nil
	default:
		return NewCaptureBuilder(spec.Name, spec.Statement, conn, opts...), nil
	}
}
