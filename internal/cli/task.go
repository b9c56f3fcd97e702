package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/service"
	"github.com/idilsaglam/mytasks/internal/ui"
)

func newTaskCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage tasks",
	}

	var priority string
	add := &cobra.Command{
		Use:   "add [--priority high|medium|low] <title...>",
		Short: "Add a task (title can be multiple words)",
		Args:  needArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := model.ParsePriority(priority)
			if !ok {
				return usagef("add: unknown priority %q", priority)
			}
			a, err := e.open()
			if err != nil {
				return err
			}
			t, ok := a.Tasks.AddTask(strings.Join(args, " "), p)
			if !ok {
				return usagef("add: empty title")
			}
			ui.OK(e.out, fmt.Sprintf("added %s %s", shortID(t.ID), t.Title))
			return nil
		},
	}
	add.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "high, medium or low")

	var (
		filter string
		group  bool
	)
	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks, highest priority first",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			if filter != "" {
				p, ok := model.ParsePriority(filter)
				if !ok {
					return usagef("ls: unknown priority %q", filter)
				}
				a.Tasks.SetFilter(&p)
			}
			ui.Panel(e.out, taskLines(a.Tasks.Current(), group))
			return nil
		},
	}
	ls.Flags().StringVarP(&filter, "priority", "p", "", "only show this priority")
	ls.Flags().BoolVarP(&group, "group", "g", false, "group by priority")

	var undo bool
	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done (or not done with --undo)",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			t, err := resolve(a.Tasks.All(), taskID, args[0], "task")
			if err != nil {
				return err
			}
			if t.IsDone == !undo {
				ui.OK(e.out, "unchanged")
				return nil
			}
			a.Tasks.ToggleTask(t.ID, !undo)
			if undo {
				ui.OK(e.out, "reopened "+t.Title)
			} else {
				ui.OK(e.out, "done "+t.Title)
			}
			return nil
		},
	}
	done.Flags().BoolVar(&undo, "undo", false, "mark as not done")

	rename := &cobra.Command{
		Use:   "rename <id> <title...>",
		Short: "Change a task's title",
		Args:  needArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			t, err := resolve(a.Tasks.All(), taskID, args[0], "task")
			if err != nil {
				return err
			}
			if !a.Tasks.RenameTask(t.ID, strings.Join(args[1:], " ")) {
				return usagef("rename: empty title")
			}
			ui.OK(e.out, "renamed")
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a task",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			t, err := resolve(a.Tasks.All(), taskID, args[0], "task")
			if err != nil {
				return err
			}
			a.Tasks.DeleteTask(t.ID)
			ui.OK(e.out, "removed "+t.Title)
			return nil
		},
	}

	cmd.AddCommand(add, ls, done, rename, rm)
	return cmd
}

func taskID(t model.Task) string { return t.ID }

func taskLines(v service.TaskView, group bool) []string {
	th := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		th.Title.Render("Tasks"),
		th.Success.Render(th.SymDone), v.Done,
		th.Pending.Render(th.SymPending), v.Pending,
		th.Accent.Render("Total"), v.Done+v.Pending,
	)
	lines := []string{header, th.Muted.Render(ui.ProgressBar(v.Done, v.Done+v.Pending, 28))}
	if v.Filter != nil {
		lines = append(lines, th.Muted.Render("priority: "+v.Filter.Label()))
	}
	lines = append(lines, "")

	switch {
	case len(v.Tasks) == 0:
		lines = append(lines, th.Muted.Render("no tasks"))
	case group:
		for i, g := range v.Groups {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, ui.Priority(g.Priority.Label()))
			for _, t := range g.Tasks {
				lines = append(lines, taskLine(t, false))
			}
		}
	default:
		for _, t := range v.Tasks {
			lines = append(lines, taskLine(t, true))
		}
	}
	lines = append(lines, "", th.Muted.Render("Tip: add with `mytasks task add \"Buy milk\"`"))
	return lines
}

func taskLine(t model.Task, withPriority bool) string {
	th := ui.Current()
	box, title := th.Muted.Render(th.BoxUnchecked), t.Title
	if t.IsDone {
		box, title = th.Success.Render(th.BoxChecked), th.Done.Render(t.Title)
	}
	line := fmt.Sprintf("%s %s %s", th.Muted.Render(shortID(t.ID)), box, title)
	if withPriority {
		line += " " + ui.Priority(t.Priority.Label())
	}
	return line
}
