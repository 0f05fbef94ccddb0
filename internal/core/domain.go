package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

type (
	// Kind classifies an entry. The sign of an amount is never used for
	// classification; only the kind is.
	Kind string

	// Entry is one recorded income or expense event. Entries are values and
	// are never modified once appended to a ledger.
	Entry struct {
		Kind     Kind
		Category string
		Amount   decimal.Decimal
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrNoSelection   = errors.New("no entry selected")
	ErrInvalidKind   = errors.New("invalid entry kind")
)

// Kinds lists every valid kind in display order.
func Kinds() []Kind {
	return []Kind{Income, Expense}
}

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if the kind is one of Income or Expense
func (k Kind) IsValid() bool {
	switch k {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// ParseKind maps user text onto a Kind, ignoring case and surrounding spaces.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds() {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", ErrInvalidKind
}

// Render produces the display form "<kind> | <category> | <amount>".
func Render(e Entry) string {
	return e.Kind.String() + " | " + e.Category + " | " + FormatAmount(e.Amount)
}

// String implements fmt.Stringer using Render.
func (e Entry) String() string {
	return Render(e)
}
