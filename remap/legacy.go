package remap

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// LegacyID is an identifier as it appeared in the export. Numbers and strings
// are kept apart, so 7 and "7" are different ids, and the original spelling is
// written back out unchanged.
type LegacyID struct {
	raw     string
	numeric bool
}

// IntID returns a numeric legacy id.
func IntID(n int64) LegacyID {
	return LegacyID{raw: strconv.FormatInt(n, 10), numeric: true}
}

// StringID returns a string legacy id.
func StringID(s string) LegacyID {
	return LegacyID{raw: s}
}

// IsZero reports whether the id was missing or null in the source.
func (id LegacyID) IsZero() bool {
	return id == LegacyID{}
}

func (id LegacyID) String() string {
	return id.raw
}

// UnmarshalJSON accepts a number or a string. Null and other JSON values leave
// the id zero.
func (id *LegacyID) UnmarshalJSON(data []byte) error {
	*id = LegacyID{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*id = LegacyID{raw: n.String(), numeric: true}
	}
	return nil
}

// MarshalJSON writes numbers bare and strings quoted.
func (id LegacyID) MarshalJSON() ([]byte, error) {
	switch {
	case id.IsZero():
		return []byte("null"), nil
	case id.numeric:
		return []byte(id.raw), nil
	default:
		return json.Marshal(id.raw)
	}
}
