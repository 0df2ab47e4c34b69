package sanitize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Bool is a lenient boolean field. JSON booleans, numbers and strings are
// accepted; null, a missing key, or anything else leaves it unset.
type Bool struct {
	Value bool
	Valid bool
}

// UnmarshalJSON never fails.
func (b *Bool) UnmarshalJSON(data []byte) error {
	*b = Bool{}
	v, err := decode(data)
	if err != nil {
		return nil
	}
	switch t := v.(type) {
	case bool:
		*b = Bool{Value: t, Valid: true}
	case json.Number:
		f, err := t.Float64()
		if err == nil {
			*b = Bool{Value: f != 0, Valid: true}
		}
	case string:
		s := strings.TrimSpace(t)
		if parsed, err := strconv.ParseBool(s); err == nil {
			*b = Bool{Value: parsed, Valid: true}
		} else {
			*b = Bool{Value: s != "", Valid: true}
		}
	}
	return nil
}

// Or returns the value, or def when unset.
func (b Bool) Or(def bool) bool {
	if !b.Valid {
		return def
	}
	return b.Value
}

// Int is a lenient integer field. Fractions are truncated and numeric strings
// are parsed.
type Int struct {
	Value int64
	Valid bool
}

// UnmarshalJSON never fails.
func (n *Int) UnmarshalJSON(data []byte) error {
	*n = Int{}
	v, err := decode(data)
	if err != nil {
		return nil
	}
	switch t := v.(type) {
	case json.Number:
		n.set(t.String())
	case string:
		n.set(strings.TrimSpace(t))
	case bool:
		if t {
			*n = Int{Value: 1, Valid: true}
		} else {
			*n = Int{Value: 0, Valid: true}
		}
	}
	return nil
}

func (n *Int) set(s string) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = Int{Value: i, Valid: true}
		return
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return
	}
	*n = Int{Value: int64(f), Valid: true}
}

// Or returns the value, or def when unset.
func (n Int) Or(def int) int {
	if !n.Valid {
		return def
	}
	return int(n.Value)
}

// Text is a lenient string field. Numbers and booleans keep their JSON
// spelling. NULs are stripped on read.
type Text struct {
	Value string
	Valid bool
}

// UnmarshalJSON never fails.
func (s *Text) UnmarshalJSON(data []byte) error {
	*s = Text{}
	v, err := decode(data)
	if err != nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		*s = Text{Value: t, Valid: true}
	case json.Number:
		*s = Text{Value: t.String(), Valid: true}
	case bool:
		*s = Text{Value: strconv.FormatBool(t), Valid: true}
	}
	return nil
}

// Or returns the cleaned value, or def when it is unset or empty.
func (s Text) Or(def string) string {
	if v := String(s.Value); s.Valid && v != "" {
		return v
	}
	return def
}

// Ptr returns the cleaned value, or nil when it is unset or empty.
func (s Text) Ptr() *string {
	v := String(s.Value)
	if !s.Valid || v == "" {
		return nil
	}
	return &v
}

// Time parses the value with ParseTime and returns nil when absent.
func (s Text) Time() *time.Time {
	if !s.Valid {
		return nil
	}
	t, ok := ParseTime(s.Value)
	if !ok {
		return nil
	}
	return &t
}
