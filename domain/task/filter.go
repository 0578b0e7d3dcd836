package task

import (
	"strings"
)

// Filter narrows a task listing. Zero-value fields impose no constraint:
// an empty string means "match all", never "match empty". All set fields
// are combined with logical AND.
type Filter struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Search   string `json:"search,omitempty"`
}

// IsZero reports whether the filter imposes no constraints.
func (f Filter) IsZero() bool {
	return f.Status == "" && f.Priority == "" && f.Search == ""
}

// Matches reports whether t satisfies every constraint the filter carries.
// Search is a case-insensitive substring match against title or description.
func (f Filter) Matches(t *Task) bool {
	if f.Status != "" && string(t.Status) != f.Status {
		return false
	}
	if f.Priority != "" && string(t.Priority) != f.Priority {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}
