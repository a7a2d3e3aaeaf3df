package httputil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// OptionalID is a folder/file id field in a request body. Ids are accepted
// as JSON numbers or decimal strings, since responses serialize them as
// strings. Tri-state like a JSON merge patch field:
//   - Present=false: field absent from JSON
//   - Present=true, Value=nil: field is JSON null
//   - Present=true, Value=&id: field has an id
type OptionalID struct {
	Present bool
	Value   *int64
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Present = true

	raw, err := decodeIntLiteral(data)
	if err != nil || raw == "" {
		o.Value = nil
		return err
	}

	id, err := ParseID(raw)
	if err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// OptionalInt64 is an integer body field that, like ids, may arrive as a
// JSON number or a decimal string. Range checks are left to validation.
type OptionalInt64 struct {
	Present bool
	Value   *int64
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Present = true

	raw, err := decodeIntLiteral(data)
	if err != nil || raw == "" {
		o.Value = nil
		return err
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q", raw)
	}
	o.Value = &n
	return nil
}

// decodeIntLiteral returns the digits of a JSON number or string literal.
// null and "" yield an empty result.
func decodeIntLiteral(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return "", nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return "", err
		}
	}
	return raw, nil
}

// ParseID parses a positive decimal id
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// ParseOptionalID parses an id query parameter; empty or "null" means none
func ParseOptionalID(s string) (*int64, error) {
	if s == "" || s == "null" {
		return nil, nil
	}
	id, err := ParseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
