package errors

import (
	"sort"
	"strings"
)

// FieldErrors collects validation messages keyed by attribute name.
// The empty key holds messages that apply to the record as a whole.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Empty reports whether no messages were recorded.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// On returns the messages recorded for field.
func (fe FieldErrors) On(field string) []string {
	return fe[field]
}

// Merge copies every message of other into fe.
func (fe FieldErrors) Merge(other FieldErrors) {
	for field, messages := range other {
		for _, m := range messages {
			fe.Add(field, m)
		}
	}
}

// FullMessages renders "field message" strings in field order.
func (fe FieldErrors) FullMessages() []string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out []string
	for _, field := range fields {
		label := strings.ReplaceAll(field, "_", " ")
		for _, m := range fe[field] {
			if label == "" {
				out = append(out, m)
				continue
			}
			out = append(out, label+" "+m)
		}
	}
	return out
}

func (fe FieldErrors) String() string {
	return strings.Join(fe.FullMessages(), "; ")
}
