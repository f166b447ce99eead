package bridge

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

var errNotObject = errors.New("bridge: top-level value is not an object")

// member is one top-level key of a JSON object with its raw value.
type member struct {
	key   string
	value json.RawMessage
}

// splitObject returns the top-level members of a JSON object in document
// order.
func splitObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("bridge: read object: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("bridge: read key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("bridge: expected key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("bridge: decode %q: %w", key, err)
		}
		members = append(members, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("bridge: unterminated object: %w", err)
	}
	return members, nil
}

// writeObject renders members as a two-space indented object.
func writeObject(buf *bytes.Buffer, members []member) error {
	if len(members) == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return err
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		if err := json.Indent(buf, m.value, "  ", "  "); err != nil {
			return fmt.Errorf("bridge: format %q: %w", m.key, err)
		}
	}
	buf.WriteString("\n}")
	return nil
}
