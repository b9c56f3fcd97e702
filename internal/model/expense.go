package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType separates money coming in from money going out.
type ExpenseType string

const (
	Income ExpenseType = "INCOME"
	Outgo  ExpenseType = "EXPENSE"
)

// Category tags where money came from or went to.
type Category string

const (
	CategoryFood          Category = "FOOD"
	CategoryTransport     Category = "TRANSPORT"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryHealth        Category = "HEALTH"
	CategorySalary        Category = "SALARY"
	CategoryOther         Category = "OTHER"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFood, CategoryTransport, CategoryEntertainment,
	CategoryHealth, CategorySalary, CategoryOther,
}

// ParseCategory accepts any casing.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Expense is one income or expense entry. Timestamp is Unix milliseconds.
type Expense struct {
	ID        string
	Title     string
	Amount    decimal.Decimal
	Type      ExpenseType
	Category  Category
	Timestamp int64
}

// expenseJSON keeps the amount a bare JSON number on disk.
type expenseJSON struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Amount    json.Number `json:"amount"`
	Type      string      `json:"type"`
	Category  string      `json:"category"`
	Timestamp int64       `json:"timestamp"`
}

func (e Expense) MarshalJSON() ([]byte, error) {
	return json.Marshal(expenseJSON{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    json.Number(e.Amount.String()),
		Type:      string(e.Type),
		Category:  string(e.Category),
		Timestamp: e.Timestamp,
	})
}

func (e *Expense) UnmarshalJSON(b []byte) error {
	var w expenseJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	amount := decimal.Zero
	if w.Amount != "" {
		d, err := decimal.NewFromString(w.Amount.String())
		if err != nil {
			return fmt.Errorf("amount %q: %w", w.Amount, err)
		}
		amount = d
	}
	typ := Outgo
	if strings.EqualFold(w.Type, string(Income)) {
		typ = Income
	}
	cat, ok := ParseCategory(w.Category)
	if !ok {
		cat = CategoryOther
	}
	*e = Expense{
		ID:        w.ID,
		Title:     w.Title,
		Amount:    amount,
		Type:      typ,
		Category:  cat,
		Timestamp: w.Timestamp,
	}
	return nil
}

// Time converts the stored timestamp.
func (e Expense) Time() time.Time { return time.UnixMilli(e.Timestamp) }

// Signed is the amount as it affects the balance.
func (e Expense) Signed() decimal.Decimal {
	if e.Type == Income {
		return e.Amount
	}
	return e.Amount.Neg()
}

// Balance is total income minus total expense.
func Balance(items []Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range items {
		sum = sum.Add(e.Signed())
	}
	return sum
}

// Totals sums income and expense amounts separately.
func Totals(items []Expense) (income, spent decimal.Decimal) {
	income, spent = decimal.Zero, decimal.Zero
	for _, e := range items {
		if e.Type == Income {
			income = income.Add(e.Amount)
		} else {
			spent = spent.Add(e.Amount)
		}
	}
	return income, spent
}

// TotalsByCategory nets every category (income positive, expense negative).
// Categories without entries are absent.
func TotalsByCategory(items []Expense) map[Category]decimal.Decimal {
	out := make(map[Category]decimal.Decimal)
	for _, e := range items {
		out[e.Category] = out[e.Category].Add(e.Signed())
	}
	return out
}
