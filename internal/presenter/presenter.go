// Package presenter turns ledger results into what a screen shows: the
// rendered rows, the three summary labels, the entry form and an optional
// notice. It knows nothing about HTML or terminals.
package presenter

import (
	"context"
	"errors"

	"finman/internal/core"
	"finman/internal/services"
)

// NoticeLevel selects how a notice is shown.
type NoticeLevel string

const (
	LevelInfo    NoticeLevel = "info"
	LevelWarning NoticeLevel = "warning"
	LevelError   NoticeLevel = "error"
)

// User-facing messages.
const (
	MsgInvalidAmount = "Invalid amount!"
	MsgEmptyCategory = "Category cannot be empty!"
	MsgInvalidKind   = "Invalid type!"
	MsgNoSelection   = "No transaction selected!"

	TitleError   = "Error"
	TitleWarning = "Warning"
	TitleSummary = "Transaction Summary"
)

// Ledger is the narrow contract the presenter drives.
type Ledger interface {
	AddEntry(ctx context.Context, kind core.Kind, category, amountText string) (services.Result, error)
	RemoveEntry(ctx context.Context, index int) (services.Result, error)
	Snapshot() ([]core.Entry, core.Summary)
	PrintSummary(ctx context.Context) string
}

// Form holds the raw entry inputs as typed by the user.
type Form struct {
	Kind     string
	Category string
	Amount   string
}

// Labels are the three summary lines.
type Labels struct {
	TotalIncome  string
	TotalExpense string
	Balance      string
}

// Notice is a blocking message for the user.
type Notice struct {
	Level   NoticeLevel
	Title   string
	Message string
}

// Screen is everything a front end needs to draw.
type Screen struct {
	Rows   []string
	Labels Labels
	Form   Form
	Notice *Notice
	// Touched is the row the last operation added or removed, -1 if none.
	Touched int
}

type Presenter struct {
	ledger Ledger
}

func New(ledger Ledger) *Presenter {
	return &Presenter{ledger: ledger}
}

// DefaultForm is the empty form with Income preselected.
func DefaultForm() Form {
	return Form{Kind: core.Income.String()}
}

// Current draws the ledger with an empty form.
func (p *Presenter) Current() Screen {
	return p.current(DefaultForm(), nil)
}

// Submit adds the entry described by form. On a validation error the form is
// kept as typed and the returned error is the core sentinel. On success the
// category and amount inputs are cleared and the kind is kept.
func (p *Presenter) Submit(ctx context.Context, form Form) (Screen, error) {
	kind, err := core.ParseKind(form.Kind)
	if err != nil {
		return p.current(form, errorNotice(err)), err
	}
	res, err := p.ledger.AddEntry(ctx, kind, form.Category, form.Amount)
	if err != nil {
		return screenOf(res, form, errorNotice(err)), err
	}

	return screenOf(res, Form{Kind: kind.String()}, nil), nil
}

// Remove deletes the selected row. A negative or stale selection yields a
// warning and leaves the display unchanged.
func (p *Presenter) Remove(ctx context.Context, selected int) (Screen, error) {
	res, err := p.ledger.RemoveEntry(ctx, selected)
	if err != nil {
		return screenOf(res, DefaultForm(), errorNotice(err)), err
	}
	return screenOf(res, DefaultForm(), nil), nil
}

// Print shows the summary report in an info notice.
func (p *Presenter) Print(ctx context.Context) Screen {
	report := p.ledger.PrintSummary(ctx)
	return p.current(DefaultForm(), &Notice{Level: LevelInfo, Title: TitleSummary, Message: report})
}

func (p *Presenter) current(form Form, notice *Notice) Screen {
	entries, summary := p.ledger.Snapshot()
	return screenOf(services.Result{Index: -1, Entries: entries, Summary: summary}, form, notice)
}

// screenOf draws the ledger state carried by res, so rows, labels and the
// touched row all describe the same moment.
func screenOf(res services.Result, form Form, notice *Notice) Screen {
	rows := make([]string, len(res.Entries))
	for i, e := range res.Entries {
		rows[i] = core.Render(e)
	}
	return Screen{
		Rows:    rows,
		Labels:  LabelsFor(res.Summary),
		Form:    form,
		Notice:  notice,
		Touched: res.Index,
	}
}

// LabelsFor formats a summary as the three label lines.
func LabelsFor(s core.Summary) Labels {
	return Labels{
		TotalIncome:  s.IncomeLine(),
		TotalExpense: s.ExpenseLine(),
		Balance:      s.BalanceLine(),
	}
}

// Message maps a ledger error onto the text shown to the user. Unknown errors
// map to their own text.
func Message(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return MsgInvalidAmount
	case errors.Is(err, core.ErrEmptyCategory):
		return MsgEmptyCategory
	case errors.Is(err, core.ErrInvalidKind):
		return MsgInvalidKind
	case errors.Is(err, core.ErrNoSelection):
		return MsgNoSelection
	default:
		return err.Error()
	}
}

func errorNotice(err error) *Notice {
	if errors.Is(err, core.ErrNoSelection) {
		return &Notice{Level: LevelWarning, Title: TitleWarning, Message: MsgNoSelection}
	}
	return &Notice{Level: LevelError, Title: TitleError, Message: Message(err)}
}
