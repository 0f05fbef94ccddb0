package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Summary is the triple of totals derived from a ledger's current entries.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
}

// Summarize computes totals over entries with a full scan.
func Summarize(entries []Entry) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, e := range entries {
		switch e.Kind {
		case Income:
			income = income.Add(e.Amount)
		case Expense:
			expense = expense.Add(e.Amount)
		}
	}
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}

// Equal reports whether both summaries hold the same values.
func (s Summary) Equal(o Summary) bool {
	return s.TotalIncome.Equal(o.TotalIncome) &&
		s.TotalExpense.Equal(o.TotalExpense) &&
		s.Balance.Equal(o.Balance)
}

// IncomeLine returns "Total Income: $<totalIncome>".
func (s Summary) IncomeLine() string {
	return "Total Income: " + FormatDollars(s.TotalIncome)
}

// ExpenseLine returns "Total Expense: $<totalExpense>".
func (s Summary) ExpenseLine() string {
	return "Total Expense: " + FormatDollars(s.TotalExpense)
}

// BalanceLine returns "Balance: $<balance>".
func (s Summary) BalanceLine() string {
	return "Balance: " + FormatDollars(s.Balance)
}

// Lines returns the three summary labels in display order.
func (s Summary) Lines() []string {
	return []string{s.IncomeLine(), s.ExpenseLine(), s.BalanceLine()}
}

// Report joins the summary labels with newlines, as shown on print.
func (s Summary) Report() string {
	return strings.Join(s.Lines(), "\n")
}
