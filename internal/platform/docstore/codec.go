package docstore

import (
	"fmt"

	"github.com/goccy/go-json"
)

// DataTo decodes the document fields into v using its json tags.
func (d *Doc) DataTo(v any) error {
	if d == nil {
		return ErrNotFound
	}
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", d.ID, err)
	}
	return nil
}

// Has reports whether field is present, even when its value is empty.
func (d *Doc) Has(field string) bool {
	if d == nil {
		return false
	}
	_, ok := d.Data[field]
	return ok
}

// String returns a string field or "".
func (d *Doc) String(field string) string {
	if d == nil {
		return ""
	}
	s, _ := d.Data[field].(string)
	return s
}

// Strings returns an array field as strings, skipping non-string elements.
func (d *Doc) Strings(field string) []string {
	if d == nil {
		return nil
	}
	arr, _ := normalize(d.Data[field]).([]any)
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
