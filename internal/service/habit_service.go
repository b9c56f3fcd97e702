package service

import (
	"strings"
	"time"

	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/observable"
	"github.com/idilsaglam/mytasks/internal/store"
)

// HabitStatus is a habit with its date-dependent values for today.
type HabitStatus struct {
	Habit             model.Habit
	CompletedToday    bool
	CompletedThisWeek bool
	Done              bool // per the habit's frequency
	Streak            int
	LastWeek          []bool // last 7 days, oldest first
}

// HabitService wraps habit-related commands. Date-dependent values are
// computed against the service clock; call Refresh after midnight.
type HabitService struct {
	presenter[model.Habit, []HabitStatus]
	now Clock
}

func NewHabitService(s *store.Store[model.Habit], now Clock) *HabitService {
	if now == nil {
		now = time.Now
	}
	svc := &HabitService{now: now}
	svc.bind(s, svc.project)
	return svc
}

func (s *HabitService) project(items []model.Habit) []HabitStatus {
	today := s.now()
	out := make([]HabitStatus, 0, len(items))
	for _, h := range items {
		out = append(out, HabitStatus{
			Habit:             h,
			CompletedToday:    h.CompletedOn(today),
			CompletedThisWeek: h.CompletedInWeekOf(today),
			Done:              h.Done(today),
			Streak:            h.Streak(today),
			LastWeek:          h.LastDays(today, 7),
		})
	}
	return out
}

// View streams habit statuses in insertion order.
func (s *HabitService) View() *observable.Subject[[]HabitStatus] { return s.view }

// Current is the latest status list.
func (s *HabitService) Current() []HabitStatus { return s.current() }

// AddHabit appends a habit with an empty history. A blank name is ignored;
// an unknown priority label becomes MEDIUM.
func (s *HabitService) AddHabit(name string, f model.Frequency, priority string) (model.Habit, bool) {
	if blank(name) {
		return model.Habit{}, false
	}
	if f != model.Weekly {
		f = model.Daily
	}
	p, ok := model.ParsePriority(priority)
	if !ok {
		p = model.PriorityMedium
	}
	h := model.Habit{
		ID:        model.NewID(),
		Name:      strings.TrimSpace(name),
		Frequency: f,
		History:   []string{},
		Priority:  string(p),
	}
	s.store.Update(func(cur []model.Habit) ([]model.Habit, bool) {
		return store.Append(cur, h), true
	})
	return h, true
}

// MarkCompleted records today for id. Marking twice on the same date
// changes nothing.
func (s *HabitService) MarkCompleted(id string) bool {
	today := s.now()
	return s.store.Update(func(cur []model.Habit) ([]model.Habit, bool) {
		for i, h := range cur {
			if h.ID != id {
				continue
			}
			if h.CompletedOn(today) {
				return cur, false
			}
			next := make([]model.Habit, len(cur))
			copy(next, cur)
			next[i] = h.WithCompletion(today)
			return next, true
		}
		return cur, false
	})
}

// DeleteHabit removes id.
func (s *HabitService) DeleteHabit(id string) bool {
	return s.store.Update(func(cur []model.Habit) ([]model.Habit, bool) {
		return store.RemoveWhere(cur, func(h model.Habit) bool { return h.ID == id })
	})
}

// Refresh recomputes the statuses for the current date.
func (s *HabitService) Refresh() { s.republish(nil) }
