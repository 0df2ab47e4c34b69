// Package sanitize cleans and coerces single export records before they are
// written to PostgreSQL. Nothing in here returns an error for bad field data:
// unusable values become absent and callers apply their own defaults.
package sanitize

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// MaxRawPayload caps the text kept when a scalar payload is wrapped.
const MaxRawPayload = 500

// RawKey is the field a wrapped scalar payload is stored under.
const RawKey = "_raw"

// String removes NUL characters, which PostgreSQL text and jsonb reject.
func String(s string) string {
	if strings.IndexByte(s, 0) < 0 {
		return s
	}
	return strings.ReplaceAll(s, "\x00", "")
}

// Value walks decoded JSON and strips NULs from every string, including map
// keys. Other scalars are returned untouched.
func Value(v any) any {
	switch t := v.(type) {
	case string:
		return String(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[String(k)] = Value(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Value(val)
		}
		return out
	default:
		return v
	}
}

// Payload turns a submission value into something safe for a jsonb column.
// Objects and arrays are sanitized recursively; any other scalar is wrapped as
// {"_raw": "<text>"} truncated to MaxRawPayload characters. A missing or null
// value returns nil.
func Payload(raw json.RawMessage) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	v, err := decode(raw)
	if err != nil {
		return wrap(string(raw))
	}

	switch t := v.(type) {
	case map[string]any, []any:
		out, err := encode(Value(t))
		if err != nil {
			return wrap(string(raw))
		}
		return out
	case string:
		return wrap(t)
	case json.Number:
		return wrap(t.String())
	case bool:
		if t {
			return wrap("true")
		}
		return wrap("false")
	default:
		return wrap(string(raw))
	}
}

func wrap(s string) json.RawMessage {
	s = truncate(String(s), MaxRawPayload)
	out, err := encode(map[string]any{RawKey: s})
	if err != nil {
		return nil
	}
	return out
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func encode(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
