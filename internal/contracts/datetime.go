package contracts

import (
	"encoding/json"
	"strings"
	"time"
)

// DateTime is a nullable timestamp with lenient decoding. Provider payloads
// carry dates in several shapes (RFC3339, date-only, empty, garbage); a value
// that cannot be parsed decodes as absent rather than failing the whole
// record.
type DateTime struct {
	Time  time.Time
	Valid bool
}

// NewDateTime creates a valid DateTime from t
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t, Valid: true}
}

// ParseDateTime parses s leniently. Unparseable input yields an absent value.
func ParseDateTime(s string) DateTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateTime{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTime{Time: t.UTC(), Valid: true}
		}
	}
	return DateTime{}
}

// Equal reports whether two DateTimes are both present and the same instant,
// or both absent
func (d DateTime) Equal(other DateTime) bool {
	if d.Valid != other.Valid {
		return false
	}
	if !d.Valid {
		return true
	}
	return d.Time.Equal(other.Time)
}

// MarshalJSON encodes the timestamp as RFC3339 or null when absent
func (d DateTime) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}

// UnmarshalJSON decodes null, RFC3339 and date-only strings. It never
// returns an error for malformed dates; they decode as absent.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*d = DateTime{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Not a string (e.g. a number or object) - treat as absent
		*d = DateTime{}
		return nil
	}

	*d = ParseDateTime(s)
	return nil
}
