package service

import (
	"slices"
	"strings"

	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/observable"
	"github.com/idilsaglam/mytasks/internal/store"
)

// GoalStatus is a goal with its progress.
type GoalStatus struct {
	Goal      model.Goal
	Progress  float64
	Completed int
	Total     int
}

// GoalService wraps goal and subtask commands. Subtasks only exist inside
// their goal, so every subtask command rewrites the owning goal.
type GoalService struct {
	presenter[model.Goal, []GoalStatus]
}

func NewGoalService(s *store.Store[model.Goal]) *GoalService {
	svc := &GoalService{}
	svc.bind(s, projectGoals)
	return svc
}

func projectGoals(items []model.Goal) []GoalStatus {
	out := make([]GoalStatus, 0, len(items))
	for _, g := range items {
		out = append(out, GoalStatus{
			Goal:      g,
			Progress:  g.Progress(),
			Completed: g.CompletedCount(),
			Total:     len(g.Subtasks),
		})
	}
	return out
}

// View streams goal statuses in insertion order.
func (s *GoalService) View() *observable.Subject[[]GoalStatus] { return s.view }

// Current is the latest status list.
func (s *GoalService) Current() []GoalStatus { return s.current() }

// AddGoal appends a goal without subtasks. A blank title is ignored.
func (s *GoalService) AddGoal(title, description string) (model.Goal, bool) {
	if blank(title) {
		return model.Goal{}, false
	}
	g := model.Goal{
		ID:          model.NewID(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Subtasks:    []model.Subtask{},
	}
	s.store.Update(func(cur []model.Goal) ([]model.Goal, bool) {
		return store.Append(cur, g), true
	})
	return g, true
}

// DeleteGoal removes id together with its subtasks.
func (s *GoalService) DeleteGoal(id string) bool {
	return s.store.Update(func(cur []model.Goal) ([]model.Goal, bool) {
		return store.RemoveWhere(cur, byGoalID(id))
	})
}

// AddSubtask appends a subtask to goalID. A blank title or unknown goal is
// ignored.
func (s *GoalService) AddSubtask(goalID, title string) (model.Subtask, bool) {
	if blank(title) {
		return model.Subtask{}, false
	}
	st := model.Subtask{ID: model.NewID(), Title: strings.TrimSpace(title)}
	ok := s.editSubtasks(goalID, func(subs []model.Subtask) ([]model.Subtask, bool) {
		return store.Append(subs, st), true
	})
	if !ok {
		return model.Subtask{}, false
	}
	return st, true
}

// ToggleSubtask flips the completed flag of subtaskID inside goalID.
func (s *GoalService) ToggleSubtask(goalID, subtaskID string) bool {
	return s.editSubtasks(goalID, func(subs []model.Subtask) ([]model.Subtask, bool) {
		return store.ReplaceWhere(subs, bySubtaskID(subtaskID), func(st model.Subtask) model.Subtask {
			st.Completed = !st.Completed
			return st
		})
	})
}

// DeleteSubtask removes subtaskID from goalID.
func (s *GoalService) DeleteSubtask(goalID, subtaskID string) bool {
	return s.editSubtasks(goalID, func(subs []model.Subtask) ([]model.Subtask, bool) {
		return store.RemoveWhere(subs, bySubtaskID(subtaskID))
	})
}

func (s *GoalService) editSubtasks(goalID string, edit func([]model.Subtask) ([]model.Subtask, bool)) bool {
	return s.store.Update(func(cur []model.Goal) ([]model.Goal, bool) {
		i := slices.IndexFunc(cur, byGoalID(goalID))
		if i < 0 {
			return cur, false
		}
		subs, changed := edit(cur[i].Subtasks)
		if !changed {
			return cur, false
		}
		next := slices.Clone(cur)
		next[i].Subtasks = subs
		return next, true
	})
}

func byGoalID(id string) func(model.Goal) bool {
	return func(g model.Goal) bool { return g.ID == id }
}

func bySubtaskID(id string) func(model.Subtask) bool {
	return func(st model.Subtask) bool { return st.ID == id }
}
