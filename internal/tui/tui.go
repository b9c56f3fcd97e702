// Package tui is the interactive task list with a habits pane. Neither
// pane edits its own rows: every key goes through a service, and rows are
// rebuilt from the snapshots the services publish.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/observable"
	"github.com/idilsaglam/mytasks/internal/service"
	"github.com/idilsaglam/mytasks/internal/ui"
)

// row adapts a task to bubbles/list.Item. first marks the first row of a
// priority group.
type row struct {
	task  model.Task
	first bool
}

func (r row) Title() string       { return r.task.Title }
func (r row) Description() string { return "" }
func (r row) FilterValue() string { return r.task.Title }

// delegate renders one line per task, with the priority label on the
// first row of each group.
type delegate struct{}

func (d delegate) Height() int                               { return 1 }
func (d delegate) Spacing() int                              { return 0 }
func (d delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}
	th := ui.Current()

	group := strings.Repeat(" ", 6)
	if r.first {
		label := r.task.Priority.Label()
		group = ui.Priority(label) + strings.Repeat(" ", 6-len(label))
	}
	box, text := th.Muted.Render(th.BoxUnchecked), r.task.Title
	if r.task.IsDone {
		box, text = th.Success.Render(th.BoxChecked), th.Done.Render(r.task.Title)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = th.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s %s", prefix, group, box, text)
}

type mode int

const (
	browsing mode = iota
	adding
	editing
)

type pane int

const (
	tasksPane pane = iota
	habitsPane
)

// viewMsg carries a snapshot from the task view subscription.
type viewMsg service.TaskView

// habitMsg carries a snapshot from the habit view subscription.
type habitMsg []service.HabitStatus

var keys = struct {
	toggle, add, edit, del, undo, priority, filter, pane, up, down, quit key.Binding
}{
	toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	del:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo delete")),
	priority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "new priority")),
	filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	pane:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "habits")),
	up:       key.NewBinding(key.WithKeys("up", "k")),
	down:     key.NewBinding(key.WithKeys("down", "j")),
	quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea model of the task list and the habits pane.
type Model struct {
	svc *service.TaskService
	sub *observable.Subscription[service.TaskView]

	habits    *service.HabitService
	habitSub  *observable.Subscription[[]service.HabitStatus]
	habitView []service.HabitStatus
	habitAt   int

	list list.Model
	ti   textinput.Model
	view service.TaskView

	pane        pane
	mode        mode
	editID      string
	newPriority model.Priority
	inputErr    string

	deleted *model.Task // single-level undo
}

// New builds the model and subscribes it to both views. Call Close when
// the program ends.
func New(svc *service.TaskService, habits *service.HabitService) Model {
	l := list.New(nil, delegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	th := ui.Current()
	l.Styles.Title = th.Title
	l.Styles.HelpStyle = th.Muted
	l.Styles.PaginationStyle = th.Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	// d, f and u belong to the task keys below
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l/pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "h", "pgup", "b"), key.WithHelp("←/h/pgup", "prev page"))

	extra := func() []key.Binding {
		return []key.Binding{keys.toggle, keys.add, keys.edit, keys.del, keys.undo, keys.priority, keys.filter, keys.pane}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		svc:         svc,
		sub:         svc.View().Subscribe(),
		habits:      habits,
		habitSub:    habits.View().Subscribe(),
		habitView:   habits.Current(),
		list:        l,
		ti:          ti,
		newPriority: model.PriorityMedium,
	}
	m.apply(svc.Current())
	return m
}

// Close ends both subscriptions.
func (m Model) Close() {
	m.sub.Close()
	m.habitSub.Close()
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(svc *service.TaskService, habits *service.HabitService) error {
	m := New(svc, habits)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// listen turns the next value on sub into a message.
func listen[T any](sub *observable.Subscription[T], wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-sub.C()
		if !ok {
			return nil
		}
		return wrap(v)
	}
}

func (m Model) waitForView() tea.Cmd {
	return listen(m.sub, func(v service.TaskView) tea.Msg { return viewMsg(v) })
}

func (m Model) waitForHabits() tea.Cmd {
	return listen(m.habitSub, func(v []service.HabitStatus) tea.Msg { return habitMsg(v) })
}

func (m Model) Init() tea.Cmd { return tea.Batch(m.waitForView(), m.waitForHabits()) }

// apply replaces the rows with v, keeping the cursor on the same task.
func (m *Model) apply(v service.TaskView) tea.Cmd {
	selected := ""
	if r, ok := m.list.SelectedItem().(row); ok {
		selected = r.task.ID
	}
	m.view = v

	items := make([]list.Item, 0, len(v.Tasks))
	cursor := -1
	for i, t := range v.Tasks {
		first := i == 0 || v.Tasks[i-1].Priority != t.Priority
		items = append(items, row{task: t, first: first})
		if t.ID == selected {
			cursor = i
		}
	}
	cmd := m.list.SetItems(items)
	if cursor >= 0 {
		m.list.Select(cursor)
	}
	m.list.Title = m.title()
	return cmd
}

func (m Model) title() string {
	th := ui.Current()
	t := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		th.Title.Render("Tasks"),
		th.Success.Render(th.SymDone), m.view.Done,
		th.Pending.Render(th.SymPending), m.view.Pending,
		th.Accent.Render("Total"), m.view.Done+m.view.Pending,
	)
	if m.view.Filter != nil {
		t += "   " + th.Muted.Render("only") + " " + ui.Priority(m.view.Filter.Label())
	}
	return t
}

func (m Model) selected() (model.Task, bool) {
	r, ok := m.list.SelectedItem().(row)
	return r.task, ok
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		cmd := m.apply(service.TaskView(msg))
		return m, tea.Batch(cmd, m.waitForView())
	case habitMsg:
		m.applyHabits(msg)
		return m, m.waitForHabits()
	case tea.WindowSizeMsg:
		h := msg.Height - 4
		if m.mode != browsing {
			h -= 2
		}
		m.list.SetSize(msg.Width-4, h)
		return m, nil
	}

	if m.mode != browsing {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	if m.pane == habitsPane {
		return m.updateHabits(km)
	}

	switch {
	case key.Matches(km, keys.pane):
		m.pane = habitsPane
		return m, nil
	case key.Matches(km, keys.quit):
		if m.list.FilterState() == list.FilterApplied && km.String() == "esc" {
			break
		}
		return m, tea.Quit
	case key.Matches(km, keys.toggle):
		if t, ok := m.selected(); ok {
			m.svc.ToggleTask(t.ID, !t.IsDone)
		}
		return m, nil
	case key.Matches(km, keys.del):
		if t, ok := m.selected(); ok {
			if m.svc.DeleteTask(t.ID) {
				m.deleted = &t
			}
		}
		return m, nil
	case key.Matches(km, keys.undo):
		if d := m.deleted; d != nil {
			if t, ok := m.svc.AddTask(d.Title, d.Priority); ok && d.IsDone {
				m.svc.ToggleTask(t.ID, true)
			}
			m.deleted = nil
		}
		return m, nil
	case key.Matches(km, keys.priority):
		m.newPriority = nextPriority(m.newPriority)
		return m, nil
	case key.Matches(km, keys.filter):
		m.svc.SetFilter(nextFilter(m.view.Filter))
		return m, nil
	case key.Matches(km, keys.add):
		m.mode = adding
		m.inputErr = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "New task title..."
		cmd := m.ti.Focus()
		return m, cmd
	case key.Matches(km, keys.edit):
		if t, ok := m.selected(); ok {
			m.mode = editing
			m.editID = t.ID
			m.inputErr = ""
			m.ti.SetValue(t.Title)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Edit task title..."
			cmd := m.ti.Focus()
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			if m.mode == adding {
				m.svc.AddTask(title, m.newPriority)
			} else {
				m.svc.RenameTask(m.editID, title)
			}
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		case "tab":
			if m.mode == adding {
				m.newPriority = nextPriority(m.newPriority)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = browsing
	m.editID = ""
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) View() string {
	if m.pane == habitsPane {
		return m.habitsView()
	}
	content := m.list.View()
	if m.mode != browsing {
		th := ui.Current()
		bar := lipgloss.NewStyle().Border(th.Border).BorderForeground(th.BorderColor).Padding(0, 1)
		title := "Add task " + ui.Priority(m.newPriority.Label()) + th.Muted.Render("  (tab: priority)")
		if m.mode == editing {
			title = "Edit task"
		}
		if m.inputErr != "" {
			title += "  " + th.Error.Render(m.inputErr)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	} else {
		content += "\n" + ui.Current().Muted.Render("new tasks: ") + ui.Priority(m.newPriority.Label())
	}
	return ui.PanelString([]string{content})
}

func nextPriority(p model.Priority) model.Priority {
	ps := model.Priorities
	for i, q := range ps {
		if q == p {
			return ps[(i+1)%len(ps)]
		}
	}
	return model.PriorityMedium
}

// nextFilter cycles all -> HIGH -> MEDIUM -> LOW -> all.
func nextFilter(p *model.Priority) *model.Priority {
	if p == nil {
		f := model.Priorities[0]
		return &f
	}
	for i, q := range model.Priorities {
		if q == *p && i+1 < len(model.Priorities) {
			f := model.Priorities[i+1]
			return &f
		}
	}
	return nil
}
