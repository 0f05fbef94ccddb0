package services

import (
	"context"
	"errors"
	"fmt"

	"finman/internal/core"
	"finman/internal/events"
	applog "finman/internal/log"
)

// Result describes one add or remove together with the ledger as it stood
// right after it. A failed operation leaves Index at -1 and carries the
// current entries and summary.
type Result struct {
	Index   int
	Entry   core.Entry
	Entries []core.Entry
	Summary core.Summary
}

func resultOf(c core.Change) Result {
	return Result{Index: c.Index, Entry: c.Entry, Entries: c.Entries, Summary: c.Summary}
}

// LedgerService owns the process ledger, logs every operation and announces
// changes through an events.Publisher.
type LedgerService struct {
	ledger    *core.Ledger
	publisher events.Publisher
	logger    *applog.Logger
	slog      *applog.StructuredLogger
}

func NewLedgerService(ledger *core.Ledger, publisher events.Publisher, logger *applog.Logger) *LedgerService {
	if ledger == nil {
		ledger = core.NewLedger()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentLedger)
	return &LedgerService{
		ledger:    ledger,
		publisher: publisher,
		logger:    logger,
		slog:      applog.NewStructuredLogger(logger),
	}
}

// AddEntry validates and appends an entry. Validation failures are returned
// unchanged so callers can match them with errors.Is.
func (s *LedgerService) AddEntry(ctx context.Context, kind core.Kind, category, amountText string) (Result, error) {
	c, err := s.ledger.AppendEntry(kind, category, amountText)
	if err != nil {
		s.slog.LogRejected(ctx, applog.OpAdd, err)
		return s.current(), err
	}

	s.slog.LogEntryAdded(ctx, c.Index, c.Entry.Kind.String(), c.Entry.Category, core.FormatAmount(c.Entry.Amount))

	// Ledger is already updated, a failed announcement is only logged
	if err := s.publish(ctx, events.NewEntryAdded(c.Index, c.Entry, c.Summary)); err != nil {
		s.logPublishError(ctx, applog.OpAdd, err)
	}

	return resultOf(c), nil
}

// RemoveEntry deletes the entry at index.
func (s *LedgerService) RemoveEntry(ctx context.Context, index int) (Result, error) {
	c, err := s.ledger.TakeEntry(index)
	if err != nil {
		s.slog.LogRejected(ctx, applog.OpRemove, err)
		return s.current(), err
	}

	s.slog.LogEntryRemoved(ctx, c.Index, c.Entry.Kind.String(), c.Entry.Category, core.FormatAmount(c.Entry.Amount))

	if err := s.publish(ctx, events.NewEntryRemoved(c.Index, c.Entry, c.Summary)); err != nil {
		s.logPublishError(ctx, applog.OpRemove, err)
	}

	return resultOf(c), nil
}

func (s *LedgerService) current() Result {
	entries, summary := s.ledger.Snapshot()
	return Result{Index: -1, Entries: entries, Summary: summary}
}

// Snapshot returns the entries and their summary as one consistent view.
func (s *LedgerService) Snapshot() ([]core.Entry, core.Summary) {
	return s.ledger.Snapshot()
}

func (s *LedgerService) Summary() core.Summary {
	return s.ledger.Summary()
}

func (s *LedgerService) Entries() []core.Entry {
	return s.ledger.Entries()
}

// PrintSummary returns the three-line report and writes it to the log.
func (s *LedgerService) PrintSummary(ctx context.Context) string {
	entries, summary := s.ledger.Snapshot()
	report := summary.Report()

	fields := applog.NewFields().
		WithSummary(
			core.FormatAmount(summary.TotalIncome),
			core.FormatAmount(summary.TotalExpense),
			core.FormatAmount(summary.Balance)).
		WithOperation(applog.OpPrint)
	fields[applog.FieldEntries] = len(entries)
	fields["report"] = report
	s.logger.InfoContext(ctx, "Transaction summary", fields.ToSlice()...)

	if err := s.publish(ctx, events.NewSummaryPrinted(summary)); err != nil {
		s.logPublishError(ctx, applog.OpPrint, err)
	}

	return report
}

func (s *LedgerService) publish(ctx context.Context, ev events.Event) error {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

func (s *LedgerService) logPublishError(ctx context.Context, op string, err error) {
	errorType := applog.ErrorTypeNetwork
	if errors.Is(err, context.DeadlineExceeded) {
		errorType = applog.ErrorTypeTimeout
	}
	s.slog.LogError(ctx, "Failed to publish ledger event", err,
		applog.ComponentEvents, op, applog.NewFields().WithErrorType(errorType))
}

// Close releases the publisher.
func (s *LedgerService) Close() error {
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
