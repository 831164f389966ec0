package service

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

var jsonNull = []byte("null")

// JSONField holds the raw JSON of one request body field and records whether the field was
// present at all. It keeps "omitted", "null" and "wrong type" distinguishable after decoding.
type JSONField struct {
	raw     json.RawMessage
	present bool
}

// NewJSONField returns a present field holding raw, which must be valid JSON.
func NewJSONField(raw string) JSONField {
	return JSONField{raw: json.RawMessage(raw), present: true}
}

// UnmarshalJSON is only invoked for keys present in the body, null included.
func (f *JSONField) UnmarshalJSON(data []byte) error {
	f.raw = append(f.raw[:0], data...)
	f.present = true
	return nil
}

// MarshalJSON writes the raw value back, or null when the field was omitted.
func (f JSONField) MarshalJSON() ([]byte, error) {
	if !f.present {
		return jsonNull, nil
	}
	return f.raw, nil
}

// LogValue implements slog.LogValuer.
func (f JSONField) LogValue() slog.Value {
	if !f.present {
		return slog.StringValue("<absent>")
	}
	return slog.StringValue(string(f.raw))
}

// Present reports whether the field appeared in the body.
func (f JSONField) Present() bool {
	return f.present
}

// IsNull reports whether the field was present with an explicit null.
func (f JSONField) IsNull() bool {
	return f.present && bytes.Equal(bytes.TrimSpace(f.raw), jsonNull)
}

// AsString returns the value if the field holds a JSON string.
func (f JSONField) AsString() (string, bool) {
	if !f.present || f.IsNull() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(f.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// AsNumber returns the value if the field holds a JSON number.
func (f JSONField) AsNumber() (float64, bool) {
	if !f.present || f.IsNull() {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(f.raw, &n); err != nil {
		return 0, false
	}
	return n, true
}
