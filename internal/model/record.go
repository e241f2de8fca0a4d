package model

import "sort"

// Reserved field names in output records.
const (
	// TimeField holds the event time of every record.
	TimeField = "_time"
	// RawField holds the serialized source hit when raw inclusion is on.
	RawField = "_raw"
)

// Record is one flat output event delivered to the host. Every record carries
// exactly one TimeField key; all other keys are document fields hoisted to the
// top level.
type Record map[string]any

// Keys returns the record's keys with TimeField first and the rest in lexical
// order. Renderers that need a stable column order use this.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		if k == TimeField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if _, ok := r[TimeField]; ok {
		keys = append([]string{TimeField}, keys...)
	}
	return keys
}
