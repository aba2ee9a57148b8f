package models

import (
	"encoding/json"
)

// RawDocument is free-form text that may itself be a serialized JSON payload,
// such as captured pod logs or event dumps. It is stored as plain text; on
// serialization a parseable payload is emitted as structured JSON, anything
// else as a raw string.
type RawDocument string

// Structured returns the stored text as a JSON payload when it parses as one.
func (d RawDocument) Structured() (json.RawMessage, bool) {
	if d == "" || !json.Valid([]byte(d)) {
		return nil, false
	}
	return json.RawMessage(d), true
}

func (d RawDocument) MarshalJSON() ([]byte, error) {
	if raw, ok := d.Structured(); ok {
		return raw, nil
	}
	return json.Marshal(string(d))
}

func (d *RawDocument) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	// A JSON string is unwrapped; any other payload is kept verbatim.
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = RawDocument(s)
		return nil
	}

	*d = RawDocument(data)
	return nil
}
