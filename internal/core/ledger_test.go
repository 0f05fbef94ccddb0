package core

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
)

func mustAdd(t *testing.T, l *Ledger, k Kind, cat, amt string) (int, Summary) {
	t.Helper()
	idx, s, err := l.AddEntry(k, cat, amt)
	if err != nil {
		t.Fatalf("AddEntry(%s, %q, %q): %v", k, cat, amt, err)
	}
	return idx, s
}

func assertSummary(t *testing.T, s Summary, income, expense, balance string) {
	t.Helper()
	want := Summary{TotalIncome: d(income), TotalExpense: d(expense), Balance: d(balance)}
	if !s.Equal(want) {
		t.Fatalf("summary = (%s, %s, %s), want (%s, %s, %s)",
			s.TotalIncome, s.TotalExpense, s.Balance, income, expense, balance)
	}
}

func TestLedgerScenario(t *testing.T) {
	l := NewLedger()
	assertSummary(t, l.Summary(), "0", "0", "0")

	idx, s := mustAdd(t, l, Income, "Salary", "1000")
	if idx != 0 {
		t.Fatalf("first index = %d", idx)
	}
	assertSummary(t, s, "1000", "0", "1000")

	idx, s = mustAdd(t, l, Expense, "Food", "200")
	if idx != 1 {
		t.Fatalf("second index = %d", idx)
	}
	assertSummary(t, s, "1000", "200", "800")

	s, err := l.RemoveEntry(0)
	if err != nil {
		t.Fatalf("RemoveEntry(0): %v", err)
	}
	assertSummary(t, s, "0", "200", "-200")

	e, ok := l.Entry(0)
	if !ok || e.Category != "Food" || e.Kind != Expense {
		t.Fatalf("remaining entry at 0 = %+v (ok=%v)", e, ok)
	}
	if l.Len() != 1 {
		t.Fatalf("Len = %d", l.Len())
	}
}

func TestAddEntryInvalidAmount(t *testing.T) {
	l := NewLedger()
	mustAdd(t, l, Income, "Salary", "10")
	for _, amt := range []string{"abc", "", "1.2.3", "NaN"} {
		_, _, err := l.AddEntry(Expense, "Food", amt)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q: expected ErrInvalidAmount, got %v", amt, err)
		}
	}
	if l.Len() != 1 {
		t.Fatalf("ledger changed: Len = %d", l.Len())
	}
}

func TestAddEntryEmptyCategory(t *testing.T) {
	l := NewLedger()
	_, _, err := l.AddEntry(Income, "", "100")
	if !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("ledger changed: Len = %d", l.Len())
	}
	// Whitespace is not trimmed: a blank category is still a category.
	mustAdd(t, l, Income, " ", "100")
}

func TestAddEntryAmountCheckedFirst(t *testing.T) {
	l := NewLedger()
	_, _, err := l.AddEntry(Income, "", "abc")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount before ErrEmptyCategory, got %v", err)
	}
}

func TestAddEntryInvalidKind(t *testing.T) {
	l := NewLedger()
	_, _, err := l.AddEntry(Kind("Transfer"), "x", "1")
	if !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if l.Len() != 0 {
		t.Fatal("ledger changed")
	}
}

func TestRemoveEntryNoSelection(t *testing.T) {
	l := NewLedger()
	for _, idx := range []int{-1, 0, 1, 42} {
		if _, err := l.RemoveEntry(idx); !errors.Is(err, ErrNoSelection) {
			t.Fatalf("empty ledger, index %d: expected ErrNoSelection, got %v", idx, err)
		}
	}

	mustAdd(t, l, Income, "Salary", "1")
	for _, idx := range []int{-1, 1, 2} {
		if _, err := l.RemoveEntry(idx); !errors.Is(err, ErrNoSelection) {
			t.Fatalf("index %d: expected ErrNoSelection, got %v", idx, err)
		}
	}
	if l.Len() != 1 {
		t.Fatal("ledger changed")
	}
}

func TestRemoveEntryShiftsLaterEntries(t *testing.T) {
	l := NewLedger()
	mustAdd(t, l, Income, "a", "1")
	mustAdd(t, l, Income, "b", "2")
	mustAdd(t, l, Income, "c", "3")

	c, err := l.TakeEntry(1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Entry.Category != "b" || c.Index != 1 {
		t.Fatalf("removed %q at %d", c.Entry.Category, c.Index)
	}
	if len(c.Entries) != 2 || c.Entries[1].Category != "c" {
		t.Fatalf("change entries = %+v", c.Entries)
	}
	got := l.Entries()
	if len(got) != 2 || got[0].Category != "a" || got[1].Category != "c" {
		t.Fatalf("entries after removal = %+v", got)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := NewLedger()
	mustAdd(t, l, Income, "Salary", "1000")
	got := l.Entries()
	got[0].Category = "tampered"
	got = append(got, Entry{Kind: Income, Category: "extra", Amount: d("1")})
	if e, _ := l.Entry(0); e.Category != "Salary" {
		t.Fatal("internal sequence was exposed")
	}
	if l.Len() != 1 {
		t.Fatal("internal sequence was extended")
	}
	_ = got
}

func TestSummaryIdempotent(t *testing.T) {
	l := NewLedger()
	mustAdd(t, l, Income, "Salary", "0.1")
	mustAdd(t, l, Income, "Bonus", "0.2")
	mustAdd(t, l, Expense, "Food", "0.3")
	first := l.Summary()
	for i := 0; i < 5; i++ {
		if !l.Summary().Equal(first) {
			t.Fatalf("call %d changed the summary", i)
		}
	}
	if l.Len() != 3 {
		t.Fatal("Summary mutated the ledger")
	}
}

func TestBalanceEqualsIncomeMinusExpense(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	l := NewLedger()
	amounts := []string{"0.1", "0.2", "0.3", "19.99", "1e2", "-5", "1234.5678", "3"}
	for i := 0; i < 200; i++ {
		k := Kinds()[r.Intn(2)]
		_, s := mustAdd(t, l, k, "c", amounts[r.Intn(len(amounts))])
		if !s.Balance.Equal(s.TotalIncome.Sub(s.TotalExpense)) {
			t.Fatalf("step %d: balance %s != %s - %s", i, s.Balance, s.TotalIncome, s.TotalExpense)
		}
	}
}

func TestSummaryOrderIndependent(t *testing.T) {
	type in struct {
		k   Kind
		amt string
	}
	base := []in{
		{Income, "0.1"}, {Income, "0.2"}, {Expense, "0.3"},
		{Income, "1e-3"}, {Expense, "1000000.01"}, {Expense, "7"},
	}
	build := func(order []in) Summary {
		l := NewLedger()
		for _, x := range order {
			mustAdd(t, l, x.k, "c", x.amt)
		}
		return l.Summary()
	}
	want := build(base)

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		perm := make([]in, len(base))
		for j, p := range r.Perm(len(base)) {
			perm[j] = base[p]
		}
		if got := build(perm); !got.Equal(want) {
			t.Fatalf("permutation %d: %+v != %+v", i, got, want)
		}
	}
}

func TestLedgerConcurrentAdds(t *testing.T) {
	l := NewLedger()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = l.AddEntry(Income, "c", "1")
		}()
	}
	wg.Wait()
	if l.Len() != 50 {
		t.Fatalf("Len = %d", l.Len())
	}
	assertSummary(t, l.Summary(), "50", "0", "50")
}

func TestLedger_AppendEntryReturnsStoredEntry(t *testing.T) {
	l := NewLedger()
	if _, _, err := l.AddEntry(Income, "Salary", "1000"); err != nil {
		t.Fatal(err)
	}

	c, err := l.AppendEntry(Expense, "Rent", " 1e2 ")
	if err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}
	if c.Index != 1 {
		t.Errorf("index = %d, want 1", c.Index)
	}
	stored, ok := l.Entry(1)
	if !ok || stored.Category != c.Entry.Category || !stored.Amount.Equal(c.Entry.Amount) {
		t.Errorf("returned entry %+v does not match stored %+v", c.Entry, stored)
	}
	if got := c.Summary.BalanceLine(); got != "Balance: $900.00" {
		t.Errorf("BalanceLine() = %q", got)
	}
	if len(c.Entries) != 2 || !Summarize(c.Entries).Equal(c.Summary) {
		t.Errorf("change entries %+v disagree with summary %+v", c.Entries, c.Summary)
	}

	if c, err := l.AppendEntry(Expense, "", "5"); err != ErrEmptyCategory || c.Index != -1 {
		t.Errorf("AppendEntry with empty category = (%d, %v)", c.Index, err)
	}
}

func TestLedger_SnapshotAgreesUnderConcurrency(t *testing.T) {
	l := NewLedger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, _ = l.AddEntry(Income, "c", "1")
		}()
		go func() {
			defer wg.Done()
			_, _ = l.RemoveEntry(0)
		}()
	}
	for i := 0; i < 50; i++ {
		entries, s := l.Snapshot()
		if !Summarize(entries).Equal(s) {
			t.Fatalf("snapshot summary %+v does not match its %d entries", s, len(entries))
		}
	}
	wg.Wait()
}
