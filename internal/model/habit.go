package model

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date stored in habit history.
const DateLayout = "2006-01-02"

// Frequency says how often a habit is expected to be done.
type Frequency string

const (
	Daily  Frequency = "DAILY"
	Weekly Frequency = "WEEKLY"
)

// ParseFrequency accepts any casing.
func ParseFrequency(s string) (Frequency, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DAILY", "D":
		return Daily, true
	case "WEEKLY", "W":
		return Weekly, true
	}
	return "", false
}

func (f *Frequency) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v, ok := ParseFrequency(s); ok {
		*f = v
	} else {
		*f = Daily
	}
	return nil
}

// Habit is a recurring practice with a history of completion dates.
type Habit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Frequency Frequency `json:"frequency"`
	History   []string  `json:"history"`
	Priority  string    `json:"priority"`
}

func (h *Habit) UnmarshalJSON(b []byte) error {
	type plain Habit
	w := plain{Frequency: Daily, Priority: string(PriorityMedium)}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.History == nil {
		w.History = []string{}
	}
	*h = Habit(w)
	return nil
}

// Day formats t as its local calendar date.
func Day(t time.Time) string { return t.Format(DateLayout) }

// CompletedOn reports whether the history holds day's calendar date.
func (h Habit) CompletedOn(day time.Time) bool {
	return slices.Contains(h.History, Day(day))
}

// CompletedInWeekOf reports whether any history date falls in the same
// ISO-8601 week as day. Unparsable entries are skipped.
func (h Habit) CompletedInWeekOf(day time.Time) bool {
	y, w := day.ISOWeek()
	for _, d := range h.dates(day.Location()) {
		if dy, dw := d.ISOWeek(); dy == y && dw == w {
			return true
		}
	}
	return false
}

// Done applies the check matching the habit's frequency.
func (h Habit) Done(today time.Time) bool {
	if h.Frequency == Weekly {
		return h.CompletedInWeekOf(today)
	}
	return h.CompletedOn(today)
}

// WithCompletion returns a copy with day added to the history. The
// receiver is returned unchanged when day is already present.
func (h Habit) WithCompletion(day time.Time) Habit {
	if h.CompletedOn(day) {
		return h
	}
	next := h
	next.History = append(slices.Clip(h.History), Day(day))
	return next
}

// Streak counts consecutive completed periods (days or ISO weeks) ending
// at today. An open current period does not break the streak.
func (h Habit) Streak(today time.Time) int {
	step := func(t time.Time) time.Time { return t.AddDate(0, 0, -1) }
	done := h.CompletedOn
	if h.Frequency == Weekly {
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, -7) }
		done = h.CompletedInWeekOf
	}

	cur := today
	if !done(cur) {
		cur = step(cur)
	}
	n := 0
	for done(cur) {
		n++
		cur = step(cur)
	}
	return n
}

// LastDays reports completion for the n days ending at today, oldest first.
func (h Habit) LastDays(today time.Time, n int) []bool {
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = h.CompletedOn(today.AddDate(0, 0, i-n+1))
	}
	return out
}

func (h Habit) dates(loc *time.Location) []time.Time {
	out := make([]time.Time, 0, len(h.History))
	for _, s := range h.History {
		d, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}
