package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"Income", Income, true},
		{"income", Income, true},
		{" EXPENSE ", Expense, true},
		{"Expense", Expense, true},
		{"", "", false},
		{"Incomes", "", false},
		{"transfer", "", false},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
		} else if !errors.Is(err, ErrInvalidKind) {
			t.Fatalf("%q expected ErrInvalidKind, got %v", tc.in, err)
		}
	}
}

func TestKindIsValid(t *testing.T) {
	for _, k := range Kinds() {
		if !k.IsValid() {
			t.Fatalf("%s should be valid", k)
		}
	}
	if Kind("Transfer").IsValid() {
		t.Fatal("Transfer should not be valid")
	}
}

func TestRender(t *testing.T) {
	e := Entry{Kind: Expense, Category: "Food", Amount: decimal.NewFromInt(200)}
	if got, want := Render(e), "Expense | Food | 200.00"; got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
	if e.String() != Render(e) {
		t.Fatal("String should match Render")
	}
	// Stable across calls.
	if Render(e) != Render(e) {
		t.Fatal("Render is not stable")
	}
}
