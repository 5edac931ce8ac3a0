// Package message holds the unit of work a statement builder services: a
// payload, string metadata and a unique identifier.
package message

import (
	"maps"
	"slices"
)

// Message is not safe for concurrent mutation.
type Message struct {
	id       string
	payload  []byte
	metadata map[string]string
}

// Factory creates messages with identifiers from one generator.
type Factory struct {
	gen IDGenerator
}

func NewFactory(gen IDGenerator) *Factory {
	if gen == nil {
		gen = UUIDGenerator{}
	}
	return &Factory{gen: gen}
}

var defaultFactory = NewFactory(UUIDGenerator{})

// New creates a message with a generated UUID identifier.
func New(payload []byte) (*Message, error) {
	return defaultFactory.New(payload)
}

func (f *Factory) New(payload []byte) (*Message, error) {
	id, err := f.gen.Generate()
	if err != nil {
		return nil, err
	}
	return NewWithID(id, payload), nil
}

// NewWithID creates a message with a caller-supplied identifier.
func NewWithID(id string, payload []byte) *Message {
	return &Message{
		id:       id,
		payload:  payload,
		metadata: make(map[string]string),
	}
}

func (m *Message) ID() string { return m.id }

func (m *Message) Payload() []byte { return m.payload }

func (m *Message) Content() string { return string(m.payload) }

func (m *Message) SetPayload(p []byte) { m.payload = p }

// Metadata returns the value for key and whether it was present.
func (m *Message) Metadata(key string) (string, bool) {
	v, ok := m.metadata[key]
	return v, ok
}

func (m *Message) SetMetadata(key, value string) {
	m.metadata[key] = value
}

func (m *Message) AddMetadata(kv map[string]string) {
	maps.Copy(m.metadata, kv)
}

func (m *Message) RemoveMetadata(key string) {
	delete(m.metadata, key)
}

// MetadataKeys returns the metadata keys in sorted order.
func (m *Message) MetadataKeys() []string {
	return slices.Sorted(maps.Keys(m.metadata))
}

// MetadataMap returns a copy of the metadata.
func (m *Message) MetadataMap() map[string]string {
	return maps.Clone(m.metadata)
}
