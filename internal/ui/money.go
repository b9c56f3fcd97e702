package ui

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	group = ","
	point = "."
)

// SetLocale picks the grouping and decimal marks used by Money.
// An unparsable tag keeps the current marks.
func SetLocale(tag string) error {
	t, err := language.Parse(tag)
	if err != nil {
		return err
	}
	group, point = separators(message.NewPrinter(t))
	return nil
}

// separators reads the marks off a formatted sample. Locales that do not
// print ASCII digits fall back to the English marks.
func separators(p *message.Printer) (string, string) {
	s := p.Sprintf("%.1f", 1000.5)
	if !strings.HasPrefix(s, "1") || !strings.HasSuffix(s, "5") {
		return ",", "."
	}
	s = s[1 : len(s)-1]
	i := strings.Index(s, "000")
	if i < 0 || i+3 == len(s) {
		return ",", "."
	}
	return s[:i], s[i+3:]
}

// Money formats d with two decimals and locale grouping, e.g. 1,234.50.
// Rounding happens on the decimal itself.
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = "-", rest
	}
	whole, frac, _ := strings.Cut(s, ".")
	return sign + groupDigits(whole) + point + frac
}

func groupDigits(digits string) string {
	if group == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(group)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// SignedMoney prefixes positive values with "+".
func SignedMoney(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + Money(d)
	}
	return Money(d)
}
