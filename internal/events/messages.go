// Package events describes the notifications a ledger emits when it changes
// and the publisher port used to send them to a broker.
//
// Events are announcements only: nothing in this module rebuilds a ledger
// from them.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finman/internal/core"
)

// Type names a ledger event.
type Type string

const (
	EntryAdded     Type = "entry.added"
	EntryRemoved   Type = "entry.removed"
	SummaryPrinted Type = "summary.printed"
)

// IsValid returns true for the known event types
func (t Type) IsValid() bool {
	switch t {
	case EntryAdded, EntryRemoved, SummaryPrinted:
		return true
	default:
		return false
	}
}

// EntryPayload carries the entry an event is about.
type EntryPayload struct {
	Kind     core.Kind       `json:"kind"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// SummaryPayload carries the ledger totals right after the change.
type SummaryPayload struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

// Event is the JSON message published for every ledger change.
type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	Index      *int           `json:"index,omitempty"`
	Entry      *EntryPayload  `json:"entry,omitempty"`
	Summary    SummaryPayload `json:"summary"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func newEvent(t Type, s core.Summary) Event {
	return Event{
		ID:   uuid.NewString(),
		Type: t,
		Summary: SummaryPayload{
			TotalIncome:  s.TotalIncome,
			TotalExpense: s.TotalExpense,
			Balance:      s.Balance,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func withEntry(ev Event, index int, e core.Entry) Event {
	ev.Index = &index
	ev.Entry = &EntryPayload{Kind: e.Kind, Category: e.Category, Amount: e.Amount}
	return ev
}

// NewEntryAdded describes an append at index.
func NewEntryAdded(index int, e core.Entry, s core.Summary) Event {
	return withEntry(newEvent(EntryAdded, s), index, e)
}

// NewEntryRemoved describes the removal of e from index.
func NewEntryRemoved(index int, e core.Entry, s core.Summary) Event {
	return withEntry(newEvent(EntryRemoved, s), index, e)
}

// NewSummaryPrinted describes a print request.
func NewSummaryPrinted(s core.Summary) Event {
	return newEvent(SummaryPrinted, s)
}

// CoreSummary converts the payload back into a core.Summary.
func (p SummaryPayload) CoreSummary() core.Summary {
	return core.Summary{TotalIncome: p.TotalIncome, TotalExpense: p.TotalExpense, Balance: p.Balance}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON validates data against the event schema and decodes it.
func EventFromJSON(data []byte) (Event, error) {
	if err := ValidateJSON(data); err != nil {
		return Event{}, err
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return ev, nil
}
