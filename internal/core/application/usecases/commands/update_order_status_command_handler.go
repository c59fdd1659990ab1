package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/core/ports"
	"foodorder/internal/pkg/clock"
	"foodorder/internal/pkg/errs"
)

const (
	// updateStatusTimeout bounds the status update, including the in-transaction
	// call to the delivery service.
	updateStatusTimeout = 10 * time.Second

	// deliveryEstimateBase and deliveryEstimateJitter define the window for the
	// auto-completion deadline of an order going out for delivery.
	deliveryEstimateBase   = 30 * time.Second
	deliveryEstimateJitter = 15 * time.Second
)

// UpdateOrderStatusCommandHandler handles restaurant-driven status
// transitions. It loads the order under an exclusive row lock so that
// concurrent updates on the same order serialize, delegates the transition
// decision to the aggregate, and runs side effects the target status demands:
// agent assignment for OUT_FOR_DELIVERY, delivery stamping and best-effort
// notification for COMPLETED.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	deliveries ports.DeliveryClient
	scheduler  CompletionScheduler
	clock      clock.Clock
	logger     *slog.Logger
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	deliveries ports.DeliveryClient,
	scheduler CompletionScheduler,
	clk clock.Clock,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		deliveries: deliveries,
		scheduler:  scheduler,
		clock:      clk,
		logger:     logger,
	}
}

// Handle processes the status update command and returns the updated order.
//
// The transaction runs at repeatable read; GetForUpdate's row lock does the
// serializing between concurrent updates. Auto-completion scheduling and the
// delivered notification run after commit: neither may hold the row lock, and
// neither can fail the already-committed transition.
func (h *UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, updateStatusTimeout)
	defer cancel()

	uow := h.uowFactory.Create()
	if err := uow.BeginWithIsolation(ctx, sql.LevelRepeatableRead); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if aggregate.RestaurantID() != cmd.RestaurantID() {
		return nil, errs.NewUnauthorizedError(
			fmt.Sprintf("order %d does not belong to restaurant %d",
				cmd.OrderID(), cmd.RestaurantID()))
	}

	if err = aggregate.ChangeStatus(cmd.Status()); err != nil {
		return nil, err
	}

	var estimatedAt time.Time
	switch cmd.Status() {
	case order.StatusOutForDelivery:
		estimatedAt, err = h.dispatchForDelivery(ctx, aggregate)
		if err != nil {
			return nil, err
		}
	case order.StatusCompleted:
		if err = aggregate.MarkDelivered(h.clock.Now()); err != nil {
			return nil, err
		}
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	switch cmd.Status() {
	case order.StatusOutForDelivery:
		h.scheduler.ScheduleAt(aggregate.ID(), aggregate.RestaurantID(), estimatedAt)
	case order.StatusCompleted:
		h.notifyDelivered(ctx, aggregate)
	}

	return aggregate, nil
}

// dispatchForDelivery assigns a delivery agent and stamps the estimated
// delivery instant. An assignment failure aborts the transition: an order
// must not be OUT_FOR_DELIVERY with nobody carrying it.
func (h *UpdateOrderStatusCommandHandler) dispatchForDelivery(
	ctx context.Context,
	aggregate *order.Order,
) (time.Time, error) {
	result, err := h.deliveries.AssignAgent(ctx, ports.AgentAssignment{
		OrderID:         aggregate.ID(),
		RestaurantID:    aggregate.RestaurantID(),
		DeliveryAddress: aggregate.DeliveryAddress(),
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("assign delivery agent for order %d: %w", aggregate.ID(), err)
	}

	if err = aggregate.AssignDeliveryAgent(result.AgentID, result.DeliveryID); err != nil {
		return time.Time{}, err
	}

	estimatedAt := h.clock.Now().
		Add(deliveryEstimateBase).
		Add(time.Duration(rand.Int63n(int64(deliveryEstimateJitter))))
	if err = aggregate.ScheduleDelivery(estimatedAt); err != nil {
		return time.Time{}, err
	}

	return estimatedAt, nil
}

// notifyDelivered tells the delivery service the trip finished. Best-effort:
// the order is already COMPLETED, so failures are logged and swallowed.
func (h *UpdateOrderStatusCommandHandler) notifyDelivered(ctx context.Context, aggregate *order.Order) {
	deliveryID := aggregate.DeliveryID()
	if deliveryID == nil {
		h.logger.WarnContext(ctx, "completed order has no delivery record, skipping notification",
			slog.Int64("order_id", aggregate.ID()))
		return
	}

	deliveredAt := aggregate.DeliveryTime()
	if deliveredAt == nil {
		return
	}

	if err := h.deliveries.NotifyDelivered(ctx, *deliveryID, *deliveredAt); err != nil {
		h.logger.WarnContext(ctx, "delivered notification failed",
			slog.Int64("order_id", aggregate.ID()),
			slog.Int64("delivery_id", *deliveryID),
			slog.String("error", err.Error()))
	}
}
