package core

import "sync"

// Ledger is an ordered, in-memory sequence of entries.
//
// All operations are serialized by a single mutex so that one ledger can be
// shared by several callers (e.g. HTTP clients). The sequence itself is never
// handed out; readers get copies.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Change describes one mutation and the ledger exactly as it stood right
// after it, captured under the same lock.
type Change struct {
	Index   int
	Entry   Entry
	Entries []Entry
	Summary Summary
}

// AddEntry validates the raw inputs and appends a new entry.
//
// The amount is checked first, then the category. On failure the ledger is
// left untouched. On success it returns the position of the new entry and the
// recomputed summary.
func (l *Ledger) AddEntry(kind Kind, category, amountText string) (int, Summary, error) {
	c, err := l.AppendEntry(kind, category, amountText)
	if err != nil {
		return -1, Summary{}, err
	}
	return c.Index, c.Summary, nil
}

// AppendEntry is AddEntry returning the full Change.
func (l *Ledger) AppendEntry(kind Kind, category, amountText string) (Change, error) {
	if !kind.IsValid() {
		return Change{Index: -1}, ErrInvalidKind
	}
	amount, err := ParseAmount(amountText)
	if err != nil {
		return Change{Index: -1}, err
	}
	if category == "" {
		return Change{Index: -1}, ErrEmptyCategory
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e := Entry{Kind: kind, Category: category, Amount: amount}
	l.entries = append(l.entries, e)
	return l.changeLocked(len(l.entries)-1, e), nil
}

// RemoveEntry deletes the entry at index; later entries shift down by one.
func (l *Ledger) RemoveEntry(index int) (Summary, error) {
	c, err := l.TakeEntry(index)
	if err != nil {
		return Summary{}, err
	}
	return c.Summary, nil
}

// TakeEntry is RemoveEntry returning the full Change, whose Entry is the
// removed one.
func (l *Ledger) TakeEntry(index int) (Change, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.entries) {
		return Change{Index: -1}, ErrNoSelection
	}
	removed := l.entries[index]
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	return l.changeLocked(index, removed), nil
}

func (l *Ledger) changeLocked(index int, e Entry) Change {
	return Change{
		Index:   index,
		Entry:   e,
		Entries: l.copyLocked(),
		Summary: Summarize(l.entries),
	}
}

// Snapshot returns a copy of the entries and their summary read under one
// lock, so the two always agree.
func (l *Ledger) Snapshot() ([]Entry, Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.copyLocked(), Summarize(l.entries)
}

func (l *Ledger) copyLocked() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Summary recomputes the totals from every entry. It never mutates the ledger.
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Summarize(l.entries)
}

// Entries returns a copy of the current sequence.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.copyLocked()
}

// Entry returns the entry at index, if any.
func (l *Ledger) Entry(index int) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[index], true
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
