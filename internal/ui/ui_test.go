package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProgressBar(t *testing.T) {
	got := ProgressBar(1, 4, 8)
	if !strings.HasPrefix(got, "██░░░░░░") || !strings.HasSuffix(got, " 25%") {
		t.Errorf("ProgressBar = %q", got)
	}
	if got := ProgressBar(0, 0, 2); !strings.HasSuffix(got, "  0%") {
		t.Errorf("empty ProgressBar = %q", got)
	}
}

func TestMoney(t *testing.T) {
	if err := SetLocale("en"); err != nil {
		t.Fatal(err)
	}
	tests := map[string]string{
		"1234.5":  "1,234.50",
		"60":      "60.00",
		"-40":     "-40.00",
		"0.005":   "0.01",
		"-1234.5": "-1,234.50",
		"999":     "999.00",
		"100000":  "100,000.00",

		"12345678901234567.89": "12,345,678,901,234,567.89",
	}
	for in, want := range tests {
		if got := Money(decimal.RequireFromString(in)); got != want {
			t.Errorf("Money(%s) = %q, want %q", in, got, want)
		}
	}
	if got := SignedMoney(decimal.NewFromInt(5)); got != "+5.00" {
		t.Errorf("SignedMoney = %q", got)
	}
	if err := SetLocale("not a tag!"); err == nil {
		t.Error("bad tag accepted")
	}
}

func TestMoneyFollowsLocale(t *testing.T) {
	if err := SetLocale("de"); err != nil {
		t.Fatal(err)
	}
	defer SetLocale("en")
	if got := Money(decimal.RequireFromString("1234567.5")); got != "1.234.567,50" {
		t.Errorf("Money = %q, want 1.234.567,50", got)
	}
}

func TestMonoTheme(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	OK(&buf, "added")
	if buf.String() != "x added\n" {
		t.Errorf("OK = %q", buf.String())
	}
	if got := Week([]bool{true, false}); got != "[x] [ ]" {
		t.Errorf("Week = %q", got)
	}
}
