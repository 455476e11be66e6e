package types

import (
	"database/sql/driver"
	"encoding/json"
)

// RawJSON stores an opaque JSON document inside a JSONB column. Used where
// the payload must survive even when it does not match the current schema,
// e.g. legacy cart snapshots migrated on read.
type RawJSON json.RawMessage

// Value serializes the raw document.
func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return []byte(r), nil
}

// Scan copies the JSONB payload.
func (r *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	*r = buf
	return nil
}

// MarshalJSON returns the document as-is.
func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return []byte(r), nil
}

// UnmarshalJSON stores the document as-is.
func (r *RawJSON) UnmarshalJSON(data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	*r = buf
	return nil
}
