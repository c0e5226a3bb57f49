// Package models defines the data structures persisted by the file-backed
// store: open records, audit entries, settings and backup snapshots.
package models

import "time"

// TimestampLayout is the wire format of record timestamps. Timestamps are
// stored as strings so that records survive arbitrary load/save cycles
// without type drift.
const TimestampLayout = time.RFC3339

// Record is one entity instance: an open key/value map with a unique integer
// id within its collection. All fields other than id are opaque to the store
// and interpreted only by callers.
type Record map[string]any

// ID returns the record's integer identifier, or 0 if absent or not numeric.
// JSON decoding produces float64 for numbers, so both numeric kinds are
// accepted.
func (r Record) ID() int64 {
	switch v := r["id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// SetID sets the record's integer identifier.
func (r Record) SetID(id int64) {
	r["id"] = id
}

// StringField returns the named field as a string, or "" when absent or of a
// different type.
func (r Record) StringField(name string) string {
	s, _ := r[name].(string)
	return s
}

// Stamp sets the record's created_at timestamp if not already present.
func (r Record) Stamp(now time.Time) {
	if _, ok := r["created_at"]; !ok {
		r["created_at"] = now.Format(TimestampLayout)
	}
}

// Merge shallow-merges the fields of patch over the record, preserving id and
// created_at. Callers send only the fields they want changed.
func (r Record) Merge(patch Record) {
	for k, v := range patch {
		if k == "id" || k == "created_at" {
			continue
		}
		r[k] = v
	}
}

// Clone returns a shallow copy of the record. Nested values are shared.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// NextID derives the next identifier for a collection from its current
// contents: 1 for an empty collection, max(existing ids)+1 otherwise.
// Callers must hold the collection lock across the surrounding
// load-allocate-save cycle, since the allocation itself is stateless.
func NextID(records []Record) int64 {
	var max int64
	for _, rec := range records {
		if id := rec.ID(); id > max {
			max = id
		}
	}
	return max + 1
}
