package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/service"
	"github.com/idilsaglam/mytasks/internal/ui"
)

func newExpenseCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses", "x"},
		Short:   "Record income and spending",
	}

	var (
		income   bool
		category string
	)
	add := &cobra.Command{
		Use:   "add [--income] [--category c] <amount> <title...>",
		Short: "Record an expense, or income with --income",
		Args:  needArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, ok := model.ParseCategory(category)
			if !ok {
				return usagef("add: unknown category %q", category)
			}
			typ := model.Outgo
			if income {
				typ = model.Income
			}
			a, err := e.open()
			if err != nil {
				return err
			}
			x, ok := a.Expenses.AddExpense(strings.Join(args[1:], " "), args[0], typ, cat)
			if !ok {
				return usagef("add: amount must be a positive number, got %q", args[0])
			}
			ui.OK(e.out, fmt.Sprintf("added %s %s %s", shortID(x.ID), ui.SignedMoney(x.Signed()), x.Title))
			return nil
		},
	}
	add.Flags().BoolVarP(&income, "income", "i", false, "record income instead of an expense")
	add.Flags().StringVarP(&category, "category", "c", string(model.CategoryOther), categoryNames())

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List entries, newest first",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			ui.Panel(e.out, expenseLines(a.Expenses.Current()))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove an entry",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			x, err := resolve(a.Expenses.Current().Expenses, func(x model.Expense) string { return x.ID }, args[0], "expense")
			if err != nil {
				return err
			}
			a.Expenses.DeleteExpense(x.ID)
			ui.OK(e.out, "removed "+x.Title)
			return nil
		},
	}

	balance := &cobra.Command{
		Use:   "balance",
		Short: "Print income minus expenses",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open()
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, ui.Money(a.Expenses.Balance()))
			return nil
		},
	}

	cmd.AddCommand(add, ls, rm, balance)
	return cmd
}

func categoryNames() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = strings.ToLower(string(c))
	}
	return strings.Join(names, ", ")
}

func expenseLines(s service.ExpenseSummary) []string {
	th := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %s  %s %s  %s %s",
			th.Title.Render("Expenses"),
			th.Success.Render("in"), ui.Money(s.Income),
			th.Error.Render("out"), ui.Money(s.Spent),
			th.Accent.Render("balance"), ui.SignedMoney(s.Balance),
		),
		"",
	}
	if len(s.Expenses) == 0 {
		return append(lines, th.Muted.Render("no entries"))
	}
	for _, x := range s.Expenses {
		amount := th.Error.Render(ui.SignedMoney(x.Signed()))
		if x.Type == model.Income {
			amount = th.Success.Render(ui.SignedMoney(x.Signed()))
		}
		lines = append(lines, fmt.Sprintf("%s %s %12s  %-13s %s",
			th.Muted.Render(shortID(x.ID)),
			th.Muted.Render(x.Time().Format("2006-01-02")),
			amount,
			strings.ToLower(string(x.Category)),
			x.Title,
		))
	}

	var cats []string
	for _, c := range model.Categories {
		if d, ok := s.ByCategory[c]; ok && !d.IsZero() {
			cats = append(cats, fmt.Sprintf("%s %s", strings.ToLower(string(c)), ui.SignedMoney(d)))
		}
	}
	if len(cats) > 0 {
		lines = append(lines, "", th.Muted.Render(strings.Join(cats, "  ")))
	}
	return lines
}
