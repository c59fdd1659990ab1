package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"foodorder/internal/core/application/usecases/commands"
	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/pkg/clock"
	"foodorder/internal/pkg/errs"
)

// OrderCompleter finalizes an order through the regular status-update path.
// *commands.UpdateOrderStatusCommandHandler satisfies it; the indirection
// exists because the handler and the scheduler reference each other.
type OrderCompleter interface {
	Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
}

// AutoCompletionScheduler completes orders that went out for delivery once
// their estimated delivery time passes. One timer is kept per order;
// rescheduling an order replaces its pending timer.
//
// The completer is bound after construction via SetCompleter because the
// status-update handler itself takes the scheduler as a dependency.
type AutoCompletionScheduler struct {
	clk    clock.Clock
	logger *slog.Logger

	mu        sync.Mutex
	completer OrderCompleter
	timers    map[int64]clock.Timer
	stopped   bool
}

// NewAutoCompletionScheduler creates a scheduler driven by the given clock.
func NewAutoCompletionScheduler(clk clock.Clock, logger *slog.Logger) *AutoCompletionScheduler {
	return &AutoCompletionScheduler{
		clk:    clk,
		logger: logger.With("component", "auto_completion_scheduler"),
		timers: make(map[int64]clock.Timer),
	}
}

// SetCompleter binds the handler used to complete orders when timers fire.
// Must be called before the first timer can fire.
func (s *AutoCompletionScheduler) SetCompleter(completer OrderCompleter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completer = completer
}

// ScheduleAt arms a completion timer for the order. Scheduling the same order
// again cancels the previous timer, so repeated dispatches converge on the
// latest estimate.
func (s *AutoCompletionScheduler) ScheduleAt(orderID, restaurantID int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if existing, ok := s.timers[orderID]; ok {
		existing.Stop()
	}

	delay := at.Sub(s.clk.Now())
	s.timers[orderID] = s.clk.AfterFunc(delay, func() {
		s.complete(orderID, restaurantID)
	})
}

// Stop cancels all pending timers. Orders left incomplete are picked up by the
// overdue delivery sweep after restart.
func (s *AutoCompletionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *AutoCompletionScheduler) complete(orderID, restaurantID int64) {
	s.mu.Lock()
	delete(s.timers, orderID)
	completer := s.completer
	s.mu.Unlock()

	ctx := context.Background()

	if completer == nil {
		s.logger.WarnContext(ctx, "Completion timer fired without a bound completer", "order_id", orderID)
		return
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, order.StatusCompleted, restaurantID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build completion command", "order_id", orderID, "error", err)
		return
	}

	if _, err = completer.Handle(ctx, cmd); err != nil {
		// The order may have been completed or cancelled by hand in the
		// meantime; that is not a failure of the scheduler.
		if errors.Is(err, errs.ErrConflict) || errors.Is(err, errs.ErrObjectNotFound) {
			s.logger.DebugContext(ctx, "Order no longer eligible for auto-completion",
				"order_id", orderID, "error", err)
			return
		}
		s.logger.ErrorContext(ctx, "Order auto-completion failed", "order_id", orderID, "error", err)
	}
}
