// Package bridge keeps the serialized schema buffer in step with a store.
//
// The buffer is a JSON object whose "fields" key holds the collection. Other
// top-level keys already in the buffer are kept, in their original order,
// whenever the buffer is rewritten.
package bridge

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/store"
)

// FieldsKey is the buffer key holding the collection.
const FieldsKey = "fields"

// ErrUnrecognizedShape is returned by Import for JSON that is neither an
// array of descriptors nor an object with a "fields" array.
var ErrUnrecognizedShape = errors.New("bridge: expected an array of fields or an object with a \"fields\" array")

// ParseError wraps the parser message for malformed import text.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "bridge: invalid JSON: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Bridge renders a store into a schema buffer and imports collections back.
type Bridge struct {
	store  *store.Store
	buffer string
}

// New creates a bridge over s with an empty buffer.
func New(s *store.Store) *Bridge {
	return &Bridge{store: s}
}

// SetBuffer seeds the buffer with host provided text. It is not parsed until
// the next Sync.
func (b *Bridge) SetBuffer(text string) {
	b.buffer = text
}

// Buffer returns the current buffer text.
func (b *Bridge) Buffer() string {
	return b.buffer
}

// Sync rewrites the buffer from the store and returns it. A buffer that does
// not hold a JSON object is replaced by a fresh one and a warning is logged.
func (b *Bridge) Sync() (string, error) {
	out, err := ToBuffer(b.buffer, b.store.All())
	if err != nil {
		return b.buffer, err
	}
	b.buffer = out
	return out, nil
}

// Import replaces the store with the collection in text and re-syncs the
// buffer. Entries are stored as they are, without validation. It returns the
// number of imported fields.
func (b *Bridge) Import(text string) (int, error) {
	fields, err := Decode(text)
	if err != nil {
		return 0, err
	}
	b.store.Reset(fields)
	if _, err := b.Sync(); err != nil {
		return len(fields), err
	}
	return len(fields), nil
}

// Export renders the store as an indented {"fields": [...]} document.
func (b *Bridge) Export() (string, error) {
	return ToBuffer("", b.store.All())
}

// ToBuffer merges fields into the existing buffer text.
func ToBuffer(existing string, fields []model.Descriptor) (string, error) {
	members := existingMembers(existing)

	encoded, err := encodeFields(fields)
	if err != nil {
		return "", err
	}

	replaced := false
	out := members[:0]
	for _, m := range members {
		if m.key != FieldsKey {
			out = append(out, m)
			continue
		}
		if replaced {
			continue
		}
		out = append(out, member{key: FieldsKey, value: encoded})
		replaced = true
	}
	if !replaced {
		out = append(out, member{key: FieldsKey, value: encoded})
	}

	var buf bytes.Buffer
	if err := writeObject(&buf, out); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Decode parses import text: a bare array of descriptors or an object whose
// "fields" key holds one.
func Decode(text string) ([]model.Descriptor, error) {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 || !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		if err == nil {
			err = errors.New("unexpected end of input")
		}
		return nil, &ParseError{Err: err}
	}

	var list json.RawMessage
	switch data[0] {
	case '[':
		list = data
	case '{':
		members, err := splitObject(data)
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		for _, m := range members {
			if m.key == FieldsKey {
				list = m.value
			}
		}
		if len(list) == 0 || list[0] != '[' {
			return nil, ErrUnrecognizedShape
		}
	default:
		return nil, ErrUnrecognizedShape
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(list, &entries); err != nil {
		return nil, &ParseError{Err: err}
	}
	fields := make([]model.Descriptor, 0, len(entries))
	for i, entry := range entries {
		trimmed := bytes.TrimSpace(entry)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("%w: entry %d is not an object", ErrUnrecognizedShape, i)
		}
		var field model.Descriptor
		if err := field.UnmarshalJSON(trimmed); err != nil {
			return nil, &ParseError{Err: fmt.Errorf("entry %d: %w", i, err)}
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func existingMembers(existing string) []member {
	data := bytes.TrimSpace([]byte(existing))
	if len(data) == 0 {
		return nil
	}
	if !json.Valid(data) {
		logger.Warning("bridge: schema buffer is not valid JSON, starting from an empty object")
		return nil
	}
	members, err := splitObject(data)
	if err != nil {
		logger.Warning("bridge: schema buffer is not a JSON object, starting from an empty object:", err)
		return nil
	}
	return members
}

func encodeFields(fields []model.Descriptor) (json.RawMessage, error) {
	if fields == nil {
		fields = []model.Descriptor{}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("bridge: encode fields: %w", err)
	}
	return encoded, nil
}
