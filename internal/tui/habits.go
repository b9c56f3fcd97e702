package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/service"
	"github.com/idilsaglam/mytasks/internal/ui"
)

func (m *Model) applyHabits(v []service.HabitStatus) {
	m.habitView = v
	if m.habitAt >= len(v) {
		m.habitAt = max(0, len(v)-1)
	}
}

func (m Model) updateHabits(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(km, keys.quit):
		return m, tea.Quit
	case key.Matches(km, keys.pane):
		m.pane = tasksPane
	case key.Matches(km, keys.up):
		if m.habitAt > 0 {
			m.habitAt--
		}
	case key.Matches(km, keys.down):
		if m.habitAt < len(m.habitView)-1 {
			m.habitAt++
		}
	case key.Matches(km, keys.toggle):
		if m.habitAt < len(m.habitView) {
			m.habits.MarkCompleted(m.habitView[m.habitAt].Habit.ID)
		}
	}
	return m, nil
}

func (m Model) habitsView() string {
	th := ui.Current()
	done := 0
	for _, s := range m.habitView {
		if s.Done {
			done++
		}
	}
	lines := []string{
		fmt.Sprintf("%s   %s %d/%d", th.Title.Render("Habits"), th.Success.Render(th.SymDone), done, len(m.habitView)),
		"",
	}
	if len(m.habitView) == 0 {
		lines = append(lines, th.Muted.Render("no habits yet"))
	}
	for i, s := range m.habitView {
		prefix := "  "
		if i == m.habitAt {
			prefix = th.Selected.Render("> ")
		}
		box := th.Muted.Render(th.BoxUnchecked)
		if s.Done {
			box = th.Success.Render(th.BoxChecked)
		}
		unit := "d"
		if s.Habit.Frequency == model.Weekly {
			unit = "w"
		}
		lines = append(lines, fmt.Sprintf("%s%s %s  %s  %s",
			prefix, box, s.Habit.Name, ui.Week(s.LastWeek),
			th.Accent.Render(fmt.Sprintf("streak %d%s", s.Streak, unit)),
		))
	}
	lines = append(lines, "", th.Muted.Render("space mark today · ↑/↓ move · tab tasks · q quit"))
	return ui.PanelString(lines)
}
