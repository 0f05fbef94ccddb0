package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"finman/internal/events"
	applog "finman/internal/log"
)

// Consumer delivers broker events to a handler until ctx is done.
type Consumer interface {
	ConsumeEvents(ctx context.Context, handler events.Handler) error
}

// AuditWorker logs every ledger event it receives and keeps a per-type tally.
type AuditWorker struct {
	consumer Consumer
	logger   *applog.Logger

	mu     sync.Mutex
	counts map[events.Type]int
}

func NewAuditWorker(consumer Consumer, logger *applog.Logger) *AuditWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	return &AuditWorker{
		consumer: consumer,
		logger:   logger.WithComponent(applog.ComponentWorker),
		counts:   make(map[events.Type]int),
	}
}

// Run consumes events until ctx is cancelled. Cancellation is not an error.
func (w *AuditWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Audit worker started")
	err := w.consumer.ConsumeEvents(ctx, w.HandleEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume events: %w", err)
	}
	w.logger.InfoContext(ctx, "Audit worker stopped", "handled", w.Total())
	return nil
}

// HandleEvent logs a single event. Unknown event types are rejected so the
// broker does not requeue them forever.
func (w *AuditWorker) HandleEvent(ctx context.Context, ev events.Event) error {
	if !ev.Type.IsValid() {
		w.logger.WarnContext(ctx, "Dropping event with unknown type",
			applog.FieldEventID, ev.ID,
			applog.FieldEventType, string(ev.Type))
		return nil
	}

	fields := applog.NewFields().
		WithEvent(ev.ID, string(ev.Type)).
		WithOperation(applog.OpConsume).
		WithSummary(
			ev.Summary.TotalIncome.StringFixed(2),
			ev.Summary.TotalExpense.StringFixed(2),
			ev.Summary.Balance.StringFixed(2))
	if ev.Index != nil {
		fields = fields.WithIndex(*ev.Index)
	}
	if ev.Entry != nil {
		fields = fields.WithEntry(ev.Entry.Kind.String(), ev.Entry.Category, ev.Entry.Amount.StringFixed(2))
	}

	w.mu.Lock()
	w.counts[ev.Type]++
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Ledger event", append(fields.ToSlice(), "occurred_at", ev.OccurredAt)...)
	return nil
}

// Count returns how many events of type t were handled.
func (w *AuditWorker) Count(t events.Type) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.counts[t]
}

// Total returns how many events were handled overall.
func (w *AuditWorker) Total() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	total := 0
	for _, n := range w.counts {
		total += n
	}
	return total
}
