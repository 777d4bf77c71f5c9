package model

import (
	"encoding/json"
	"fmt"
)

// Table is a restaurant table in the catalog. ID is the catalog key and
// Number is what reservations refer to. Any other fields sent by the
// client (places, isVip, minOrder, ...) are kept verbatim in Attributes
// and written back out flattened next to id and number.
type Table struct {
	ID         int64
	Number     int
	Attributes map[string]any
}

// MarshalJSON flattens Attributes into the top-level object.
func (t Table) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Attributes)+2)
	for k, v := range t.Attributes {
		out[k] = v
	}
	out["id"] = t.ID
	out["number"] = t.Number
	return json.Marshal(out)
}

// UnmarshalJSON accepts an arbitrary object. id and number must be
// integers when present; everything else lands in Attributes.
func (t *Table) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = Table{}
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &t.ID); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		delete(raw, "id")
	}
	if v, ok := raw["number"]; ok {
		if err := json.Unmarshal(v, &t.Number); err != nil {
			return fmt.Errorf("number: %w", err)
		}
		delete(raw, "number")
	}
	if len(raw) == 0 {
		return nil
	}
	t.Attributes = make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		t.Attributes[k] = val
	}
	return nil
}
