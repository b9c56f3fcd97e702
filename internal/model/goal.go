package model

import "encoding/json"

// Subtask is owned by exactly one Goal.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Goal groups subtasks under a title; removing a goal removes its subtasks.
type Goal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Subtasks    []Subtask `json:"subtasks"`
}

func (g *Goal) UnmarshalJSON(b []byte) error {
	type plain Goal
	var w plain
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.Subtasks == nil {
		w.Subtasks = []Subtask{}
	}
	*g = Goal(w)
	return nil
}

// CompletedCount is the number of completed subtasks.
func (g Goal) CompletedCount() int {
	n := 0
	for _, s := range g.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// Progress is completed/total in [0,1]; a goal without subtasks is at 0.
func (g Goal) Progress() float64 {
	if len(g.Subtasks) == 0 {
		return 0
	}
	return float64(g.CompletedCount()) / float64(len(g.Subtasks))
}
