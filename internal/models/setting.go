package models

import "time"

// Setting is a settings-store record: a logical key plus an arbitrary JSON
// value. The write path upserts by key; the cleanup routine enforces the
// at-most-one-live-record-per-key invariant after out-of-band writes such as
// imports or restores.
type Setting struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Value     any       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NextSettingID derives the next setting identifier: 1 for an empty
// collection, max(existing ids)+1 otherwise.
func NextSettingID(settings []Setting) int64 {
	var max int64
	for _, s := range settings {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}

// BoolValue interprets the setting's value as a boolean. Missing or
// non-boolean values yield the provided default.
func (s *Setting) BoolValue(def bool) bool {
	if b, ok := s.Value.(bool); ok {
		return b
	}
	return def
}

// IntValue interprets the setting's value as an integer. JSON numbers decode
// as float64, so both numeric kinds are accepted. Missing or non-numeric
// values yield the provided default.
func (s *Setting) IntValue(def int) int {
	switch v := s.Value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return def
	}
}
