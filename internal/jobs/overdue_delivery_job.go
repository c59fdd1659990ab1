package jobs

import (
	"context"
	"errors"
	"log/slog"

	"foodorder/internal/core/application/usecases/commands"
	"foodorder/internal/core/application/usecases/queries"
	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/pkg/clock"
	"foodorder/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// OverdueDeliveryJob sweeps for orders stuck in OUT_FOR_DELIVERY past their
// estimated delivery time and completes them. It backs up the in-process
// completion timers: after a restart the timers are gone, the sweep is not.
type OverdueDeliveryJob struct {
	overdueHandler queries.GetOverdueDeliveriesQueryHandler
	completer      OrderCompleter
	clk            clock.Clock
	cron           *cron.Cron
	logger         *slog.Logger
}

// NewOverdueDeliveryJob creates the sweep job. It reuses the status-update
// path through the completer, so completions from the sweep carry the same
// side effects as timer-driven ones.
func NewOverdueDeliveryJob(
	overdueHandler queries.GetOverdueDeliveriesQueryHandler,
	completer OrderCompleter,
	clk clock.Clock,
	logger *slog.Logger,
) *OverdueDeliveryJob {
	return &OverdueDeliveryJob{
		overdueHandler: overdueHandler,
		completer:      completer,
		clk:            clk,
		cron:           cron.New(cron.WithSeconds()),
		logger:         logger.With("component", "overdue_delivery_job"),
	}
}

// Start begins the sweep, running every fifteen seconds.
func (j *OverdueDeliveryJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		j.sweep(context.Background())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue delivery job started (running every 15 seconds)")
	return nil
}

// Stop stops the sweep.
func (j *OverdueDeliveryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Overdue delivery job stopped")
}

func (j *OverdueDeliveryJob) sweep(ctx context.Context) {
	query, err := queries.NewGetOverdueDeliveriesQuery(j.clk.Now())
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build overdue deliveries query", "error", err)
		return
	}

	overdue, err := j.overdueHandler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Overdue delivery sweep failed", "error", err)
		return
	}

	for _, delivery := range overdue {
		cmd, cmdErr := commands.NewUpdateOrderStatusCommand(delivery.OrderID, order.StatusCompleted, delivery.RestaurantID)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build completion command",
				"order_id", delivery.OrderID, "error", cmdErr)
			continue
		}

		if _, handleErr := j.completer.Handle(ctx, cmd); handleErr != nil {
			// A timer may have beaten the sweep to the same order.
			if errors.Is(handleErr, errs.ErrConflict) || errors.Is(handleErr, errs.ErrObjectNotFound) {
				continue
			}
			j.logger.ErrorContext(ctx, "Failed to complete overdue delivery",
				"order_id", delivery.OrderID, "error", handleErr)
		}
	}
}
