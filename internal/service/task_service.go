package service

import (
	"slices"
	"strings"

	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/observable"
	"github.com/idilsaglam/mytasks/internal/store"
)

// TaskGroup is one priority bucket of the task list.
type TaskGroup struct {
	Priority model.Priority
	Tasks    []model.Task
}

// TaskView is what the task list renders.
type TaskView struct {
	Tasks   []model.Task // sorted by priority, filtered
	Groups  []TaskGroup  // non-empty groups in rank order
	Filter  *model.Priority
	Done    int // over all tasks, ignoring the filter
	Pending int
}

// TaskService wraps task-related commands.
type TaskService struct {
	presenter[model.Task, TaskView]
	filter *model.Priority
}

func NewTaskService(s *store.Store[model.Task]) *TaskService {
	svc := &TaskService{}
	svc.bind(s, svc.project)
	return svc
}

func (s *TaskService) project(items []model.Task) TaskView {
	v := TaskView{Filter: s.filter}
	for _, t := range items {
		if t.IsDone {
			v.Done++
		} else {
			v.Pending++
		}
	}
	sorted := SortTasks(items)
	if s.filter != nil {
		f := *s.filter
		sorted = slices.DeleteFunc(sorted, func(t model.Task) bool { return t.Priority != f })
	}
	v.Tasks = sorted
	v.Groups = GroupTasks(sorted)
	return v
}

// SortTasks returns a copy ordered by priority rank; ties keep their
// original order.
func SortTasks(items []model.Task) []model.Task {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
	return out
}

// GroupTasks partitions tasks by priority, in rank order, keeping the
// relative order inside each group. Empty groups are omitted.
func GroupTasks(tasks []model.Task) []TaskGroup {
	var groups []TaskGroup
	for _, p := range model.Priorities {
		var in []model.Task
		for _, t := range tasks {
			if t.Priority == p {
				in = append(in, t)
			}
		}
		if len(in) > 0 {
			groups = append(groups, TaskGroup{Priority: p, Tasks: in})
		}
	}
	return groups
}

// View streams TaskView snapshots.
func (s *TaskService) View() *observable.Subject[TaskView] { return s.view }

// Current is the latest TaskView.
func (s *TaskService) Current() TaskView { return s.current() }

// Sorted is the current filtered, sorted list.
func (s *TaskService) Sorted() []model.Task { return s.current().Tasks }

// Grouped is the current list grouped by priority.
func (s *TaskService) Grouped() []TaskGroup { return s.current().Groups }

// AddTask appends a new task. A blank title is ignored.
func (s *TaskService) AddTask(title string, p model.Priority) (model.Task, bool) {
	if blank(title) {
		return model.Task{}, false
	}
	if _, ok := model.ParsePriority(string(p)); !ok {
		p = model.PriorityMedium
	}
	t := model.Task{ID: model.NewID(), Title: strings.TrimSpace(title), Priority: p}
	s.store.Update(func(cur []model.Task) ([]model.Task, bool) {
		return store.Append(cur, t), true
	})
	return t, true
}

// ToggleTask sets the done flag of id.
func (s *TaskService) ToggleTask(id string, done bool) bool {
	return s.store.Update(func(cur []model.Task) ([]model.Task, bool) {
		return store.ReplaceWhere(cur, byTaskID(id), func(t model.Task) model.Task {
			t.IsDone = done
			return t
		})
	})
}

// RenameTask changes the title of id. A blank title is ignored.
func (s *TaskService) RenameTask(id, title string) bool {
	if blank(title) {
		return false
	}
	return s.store.Update(func(cur []model.Task) ([]model.Task, bool) {
		return store.ReplaceWhere(cur, byTaskID(id), func(t model.Task) model.Task {
			t.Title = strings.TrimSpace(title)
			return t
		})
	})
}

// DeleteTask removes id.
func (s *TaskService) DeleteTask(id string) bool {
	return s.store.Update(func(cur []model.Task) ([]model.Task, bool) {
		return store.RemoveWhere(cur, byTaskID(id))
	})
}

// SetFilter limits the view to one priority; nil shows all.
func (s *TaskService) SetFilter(p *model.Priority) {
	s.republish(func() {
		if p == nil {
			s.filter = nil
			return
		}
		f := *p
		s.filter = &f
	})
}

// Filter returns the selected priority, nil when unfiltered.
func (s *TaskService) Filter() *model.Priority { return s.current().Filter }

// All returns the store snapshot in insertion order.
func (s *TaskService) All() []model.Task { return s.store.Snapshot() }

func byTaskID(id string) func(model.Task) bool {
	return func(t model.Task) bool { return t.ID == id }
}
