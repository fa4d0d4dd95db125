package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a backend record. The backend emits numeric primary keys;
// clients treat them as opaque strings.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

// UnmarshalJSON accepts JSON numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Ref is the nested {id, name} shape the backend uses for related records.
type Ref struct {
	ID   ID     `json:"id"`
	Name string `json:"name,omitempty"`
}

// RefID returns the id of r, or the zero ID when r is nil.
func RefID(r *Ref) ID {
	if r == nil {
		return ""
	}
	return r.ID
}

// RefName returns the name of r, or "" when r is nil.
func RefName(r *Ref) string {
	if r == nil {
		return ""
	}
	return r.Name
}
