package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/mytasks/internal/app"
	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/service"
	"github.com/idilsaglam/mytasks/internal/ui"
)

func newGoalCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals", "g"},
		Short:   "Manage goals and their subtasks",
	}

	var desc string
	add := &cobra.Command{
		Use:   "add [--desc d] <title...>",
		Short: "Add a goal",
		Args:  needArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			g, ok := a.Goals.AddGoal(strings.Join(args, " "), desc)
			if !ok {
				return usagef("add: empty title")
			}
			ui.OK(e.out, fmt.Sprintf("added %s %s", shortID(g.ID), g.Title))
			return nil
		},
	}
	add.Flags().StringVarP(&desc, "desc", "d", "", "description")

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List goals with progress",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			ui.Panel(e.out, goalLines(a.Goals.Current()))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a goal and its subtasks",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			g, err := findGoal(a, args[0])
			if err != nil {
				return err
			}
			a.Goals.DeleteGoal(g.ID)
			ui.OK(e.out, fmt.Sprintf("removed %s (%d subtasks)", g.Title, len(g.Subtasks)))
			return nil
		},
	}

	cmd.AddCommand(add, ls, rm, newSubtaskCmd(e))
	return cmd
}

func newSubtaskCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sub",
		Aliases: []string{"subtask"},
		Short:   "Manage the subtasks of a goal",
	}

	add := &cobra.Command{
		Use:   "add <goal> <title...>",
		Short: "Add a subtask",
		Args:  needArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			g, err := findGoal(a, args[0])
			if err != nil {
				return err
			}
			st, ok := a.Goals.AddSubtask(g.ID, strings.Join(args[1:], " "))
			if !ok {
				return usagef("add: empty title")
			}
			ui.OK(e.out, fmt.Sprintf("added %s %s to %s", shortID(st.ID), st.Title, g.Title))
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <goal> <subtask>",
		Short: "Flip a subtask between open and completed",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			g, st, err := findSubtask(a, args[0], args[1])
			if err != nil {
				return err
			}
			a.Goals.ToggleSubtask(g.ID, st.ID)
			state := "completed"
			if st.Completed {
				state = "reopened"
			}
			ui.OK(e.out, state+" "+st.Title)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <goal> <subtask>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a subtask",
		Args:    exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			g, st, err := findSubtask(a, args[0], args[1])
			if err != nil {
				return err
			}
			a.Goals.DeleteSubtask(g.ID, st.ID)
			ui.OK(e.out, "removed "+st.Title)
			return nil
		},
	}

	cmd.AddCommand(add, toggle, rm)
	return cmd
}

func findGoal(a *app.App, prefix string) (model.Goal, error) {
	st := a.Goals.Current()
	goals := make([]model.Goal, len(st))
	for i, s := range st {
		goals[i] = s.Goal
	}
	return resolve(goals, func(g model.Goal) string { return g.ID }, prefix, "goal")
}

func findSubtask(a *app.App, goal, sub string) (model.Goal, model.Subtask, error) {
	g, err := findGoal(a, goal)
	if err != nil {
		return model.Goal{}, model.Subtask{}, err
	}
	st, err := resolve(g.Subtasks, func(s model.Subtask) string { return s.ID }, sub, "subtask")
	if err != nil {
		return model.Goal{}, model.Subtask{}, err
	}
	return g, st, nil
}

func goalLines(st []service.GoalStatus) []string {
	th := ui.Current()
	lines := []string{th.Title.Render("Goals"), ""}
	if len(st) == 0 {
		return append(lines, th.Muted.Render("no goals"))
	}
	for i, s := range st {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, fmt.Sprintf("%s %s", th.Muted.Render(shortID(s.Goal.ID)), th.Accent.Render(s.Goal.Title)))
		if s.Goal.Description != "" {
			lines = append(lines, "         "+th.Muted.Render(s.Goal.Description))
		}
		lines = append(lines, fmt.Sprintf("         %s  %d/%d",
			ui.ProgressBar(s.Completed, s.Total, 20), s.Completed, s.Total))
		for _, sub := range s.Goal.Subtasks {
			box, title := th.Muted.Render(th.BoxUnchecked), sub.Title
			if sub.Completed {
				box, title = th.Success.Render(th.BoxChecked), th.Done.Render(sub.Title)
			}
			lines = append(lines, fmt.Sprintf("  %s %s %s", th.Muted.Render(shortID(sub.ID)), box, title))
		}
	}
	return lines
}
