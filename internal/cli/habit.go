package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/service"
	"github.com/idilsaglam/mytasks/internal/ui"
)

func newHabitCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "habit",
		Aliases: []string{"habits", "h"},
		Short:   "Track daily and weekly habits",
	}

	var (
		weekly   bool
		priority string
	)
	add := &cobra.Command{
		Use:   "add [--weekly] [--priority p] <name...>",
		Short: "Add a habit",
		Args:  needArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := model.ParsePriority(priority)
			if !ok {
				return usagef("add: unknown priority %q", priority)
			}
			f := model.Daily
			if weekly {
				f = model.Weekly
			}
			a, err := e.open()
			if err != nil {
				return err
			}
			h, ok := a.Habits.AddHabit(strings.Join(args, " "), f, string(p))
			if !ok {
				return usagef("add: empty name")
			}
			ui.OK(e.out, fmt.Sprintf("added %s %s", shortID(h.ID), h.Name))
			return nil
		},
	}
	add.Flags().BoolVarP(&weekly, "weekly", "w", false, "complete once per ISO week instead of daily")
	add.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "high, medium or low")

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List habits with streaks and the last seven days",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			ui.Panel(e.out, habitLines(a.Habits.Current()))
			return nil
		},
	}

	mark := &cobra.Command{
		Use:     "mark <id>",
		Aliases: []string{"done"},
		Short:   "Mark a habit completed today",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			h, err := resolve(habits(a.Habits.Current()), habitID, args[0], "habit")
			if err != nil {
				return err
			}
			if !a.Habits.MarkCompleted(h.ID) {
				ui.OK(e.out, "already done today: "+h.Name)
				return nil
			}
			ui.OK(e.out, "marked "+h.Name)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a habit and its history",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			h, err := resolve(habits(a.Habits.Current()), habitID, args[0], "habit")
			if err != nil {
				return err
			}
			a.Habits.DeleteHabit(h.ID)
			ui.OK(e.out, "removed "+h.Name)
			return nil
		},
	}

	cmd.AddCommand(add, ls, mark, rm)
	return cmd
}

func habitID(h model.Habit) string { return h.ID }

func habits(st []service.HabitStatus) []model.Habit {
	out := make([]model.Habit, len(st))
	for i, s := range st {
		out[i] = s.Habit
	}
	return out
}

func habitLines(st []service.HabitStatus) []string {
	th := ui.Current()
	done := 0
	for _, s := range st {
		if s.Done {
			done++
		}
	}
	lines := []string{
		fmt.Sprintf("%s  %s %d/%d", th.Title.Render("Habits"), th.Success.Render(th.SymDone), done, len(st)),
		"",
	}
	if len(st) == 0 {
		return append(lines, th.Muted.Render("no habits"))
	}
	for _, s := range st {
		box := th.Muted.Render(th.BoxUnchecked)
		if s.Done {
			box = th.Success.Render(th.BoxChecked)
		}
		freq := "daily"
		unit := "d"
		if s.Habit.Frequency == model.Weekly {
			freq, unit = "weekly", "w"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s %s",
			th.Muted.Render(shortID(s.Habit.ID)), box, s.Habit.Name,
			th.Muted.Render(freq), ui.Priority(model.Priority(s.Habit.Priority).Label()),
		))
		lines = append(lines, fmt.Sprintf("         %s  %s",
			ui.Week(s.LastWeek), th.Accent.Render(fmt.Sprintf("streak %d%s", s.Streak, unit)),
		))
	}
	return lines
}
