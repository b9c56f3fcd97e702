package service

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/idilsaglam/mytasks/internal/model"
	"github.com/idilsaglam/mytasks/internal/observable"
	"github.com/idilsaglam/mytasks/internal/store"
)

// ExpenseSummary is recomputed from the whole collection on every change.
type ExpenseSummary struct {
	Expenses   []model.Expense // newest first
	Income     decimal.Decimal
	Spent      decimal.Decimal
	Balance    decimal.Decimal
	ByCategory map[model.Category]decimal.Decimal
}

// ExpenseService wraps income/expense commands.
type ExpenseService struct {
	presenter[model.Expense, ExpenseSummary]
	now Clock
}

func NewExpenseService(s *store.Store[model.Expense], now Clock) *ExpenseService {
	if now == nil {
		now = time.Now
	}
	svc := &ExpenseService{now: now}
	svc.bind(s, summarize)
	return svc
}

func summarize(items []model.Expense) ExpenseSummary {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b model.Expense) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		}
		return 0
	})
	income, spent := model.Totals(items)
	return ExpenseSummary{
		Expenses:   sorted,
		Income:     income,
		Spent:      spent,
		Balance:    model.Balance(items),
		ByCategory: model.TotalsByCategory(items),
	}
}

// View streams summaries.
func (s *ExpenseService) View() *observable.Subject[ExpenseSummary] { return s.view }

// Current is the latest summary.
func (s *ExpenseService) Current() ExpenseSummary { return s.current() }

// Balance is income minus expenses over every record.
func (s *ExpenseService) Balance() decimal.Decimal { return s.current().Balance }

// AddExpense records an entry. The title must not be blank and amount
// must parse as a positive decimal; anything else is ignored. An empty
// category becomes OTHER.
func (s *ExpenseService) AddExpense(title, amount string, typ model.ExpenseType, cat model.Category) (model.Expense, bool) {
	if blank(title) {
		return model.Expense{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || !d.IsPositive() {
		return model.Expense{}, false
	}
	if typ != model.Income {
		typ = model.Outgo
	}
	if c, ok := model.ParseCategory(string(cat)); ok {
		cat = c
	} else {
		cat = model.CategoryOther
	}
	e := model.Expense{
		ID:        model.NewID(),
		Title:     strings.TrimSpace(title),
		Amount:    d,
		Type:      typ,
		Category:  cat,
		Timestamp: s.now().UnixMilli(),
	}
	s.store.Update(func(cur []model.Expense) ([]model.Expense, bool) {
		return store.Append(cur, e), true
	})
	return e, true
}

// DeleteExpense removes id.
func (s *ExpenseService) DeleteExpense(id string) bool {
	return s.store.Update(func(cur []model.Expense) ([]model.Expense, bool) {
		return store.RemoveWhere(cur, func(e model.Expense) bool { return e.ID == id })
	})
}
