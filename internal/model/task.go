package model

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Priority orders tasks. HIGH sorts first.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Priorities lists every priority in rank order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank is the sort key: HIGH=0, MEDIUM=1, LOW=2.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Label is the capitalized form used by the UI ("High").
func (p Priority) Label() string {
	s := string(p.normalize())
	return s[:1] + strings.ToLower(s[1:])
}

func (p Priority) normalize() Priority {
	if q, ok := ParsePriority(string(p)); ok {
		return q
	}
	return PriorityMedium
}

// ParsePriority accepts any casing and the short forms h/m/l.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH", "H":
		return PriorityHigh, true
	case "MEDIUM", "M", "MED":
		return PriorityMedium, true
	case "LOW", "L":
		return PriorityLow, true
	}
	return "", false
}

// UnmarshalJSON maps unknown values to MEDIUM instead of failing the whole file.
func (p *Priority) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = Priority(s).normalize()
	return nil
}

// Task is a single todo entry.
type Task struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	IsDone   bool     `json:"isDone"`
	Priority Priority `json:"priority"`
}

// UnmarshalJSON fills defaults for fields older files do not carry.
func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	w := plain{Priority: PriorityMedium}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*t = Task(w)
	return nil
}

// NewID returns a fresh random identifier.
func NewID() string { return uuid.NewString() }
