package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAmount_HugeExponentReturnsPromptly(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		l := NewLedger()
		for _, in := range []string{"0e2000000000", "1e-2000000000"} {
			if _, _, err := l.AddEntry(Income, "x", in); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("AddEntry(%q) error = %v, want ErrInvalidAmount", in, err)
			}
		}
		_ = l.Summary().Report()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("AddEntry did not return within 5s")
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1000", "1000", true},
		{"200", "200", true},
		{"12.5", "12.5", true},
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{"-15", "-15", true},
		{"+3", "3", true},
		{"1e3", "1000", true},
		{".5", "0.5", true},
		{"0x1p4", "16", true},
		{"abc", "", false},
		{"", "", false},
		{"   ", "", false},
		{"1.2.3", "", false},
		{"12,34", "", false},
		{"NaN", "", false},
		{"Inf", "", false},
		{"-Infinity", "", false},
		{"1e400", "", false},
		{"1e30", "1e30", true},
		{"0.000000000000000000000000000001", "1e-30", true},
		{"0e2000000000", "", false},
		{"1e-2000000000", "", false},
		{"0e-99999", "", false},
		{"1e31", "", false},
		{"0.0000000000000000000000000000001", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q expected ok, got %v", tc.in, err)
			}
			if want := decimal.RequireFromString(tc.out); !got.Equal(want) {
				t.Fatalf("%q expected %s, got %s", tc.in, want, got)
			}
		} else if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"0":       "0.00",
		"1000":    "1000.00",
		"-200":    "-200.00",
		"12.5":    "12.50",
		"0.125":   "0.13",
		"1234.56": "1234.56",
	}
	for in, want := range cases {
		if got := FormatAmount(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatAmount(%s) = %q, want %q", in, got, want)
		}
	}
	if got := FormatDollars(decimal.NewFromInt(-200)); got != "$-200.00" {
		t.Errorf("FormatDollars(-200) = %q", got)
	}
}
