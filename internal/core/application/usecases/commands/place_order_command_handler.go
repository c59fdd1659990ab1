package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/core/ports"
	"foodorder/internal/pkg/clock"
	"foodorder/internal/pkg/errs"
)

// placeOrderTimeout bounds the whole placement flow, external calls included.
const placeOrderTimeout = 30 * time.Second

// PlaceOrderCommandHandler orchestrates order placement: it snapshots the
// user's cart, persists a PENDING order under the idempotency key, charges the
// payment service, and clears the cart.
//
// The PENDING order is committed before payment runs. If payment fails the
// order stays PENDING and the placement returns a conflict; a retry with the
// same idempotency key returns that same order instead of creating a new one.
//
// Example:
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, carts, payments, clk, logger)
//	cmd, _ := NewPlaceOrderCommand("a1b2c3", 1, 2, "42 Main St")
//
//	placed, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order placement failed: %w", err)
//	}
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	carts      ports.CartClient
	payments   ports.PaymentClient
	clock      clock.Clock
	logger     *slog.Logger
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	carts ports.CartClient,
	payments ports.PaymentClient,
	clk clock.Clock,
	logger *slog.Logger,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		carts:      carts,
		payments:   payments,
		clock:      clk,
		logger:     logger,
	}
}

// Handle processes the placement command and returns the placed order.
//
// Repeated submissions with the same idempotency key return the order created
// by the first one, whatever state it has reached since. The key is checked
// before anything else: the first placement already consumed the cart and may
// have charged payment, so a replay must not touch either. The
// check-then-insert runs under serializable isolation; a racing duplicate
// surfaces as a unique key conflict, which is resolved by re-reading the
// winner's order.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, placeOrderTimeout)
	defer cancel()

	existing, err := h.findExistingOrder(ctx, cmd.IdempotencyKey())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	cart, err := h.carts.GetOrCreateCart(ctx, cmd.UserID())
	if err != nil {
		return nil, fmt.Errorf("fetch cart for user %d: %w", cmd.UserID(), err)
	}
	if len(cart.Items) == 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("cart",
			errors.New("cannot place order with empty cart"))
	}

	items := make([]order.Item, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		item, err := order.NewItem(cartItem.MenuItemID, cartItem.Name, cartItem.Quantity, cartItem.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	placed, created, err := h.createPendingOrder(ctx, cmd, cart.RestaurantID, items)
	if err != nil {
		return nil, err
	}

	// A concurrent placement with the same key won the insert; that flow owns
	// payment and the cart.
	if !created {
		return placed, nil
	}

	if err = h.processPayment(ctx, placed); err != nil {
		return nil, err
	}

	if err = h.carts.ClearCart(ctx, cmd.UserID()); err != nil {
		return nil, fmt.Errorf("clear cart for user %d: %w", cmd.UserID(), err)
	}

	return placed, nil
}

// findExistingOrder is the idempotency guard's fast path: a plain read by key
// before the cart is touched. A miss falls through to the serializable
// check-then-insert, which re-checks the key inside its transaction.
func (h *PlaceOrderCommandHandler) findExistingOrder(ctx context.Context, key string) (*order.Order, error) {
	existing, err := h.uowFactory.Create().OrderRepository().GetByIdempotencyKey(ctx, key)
	if err == nil {
		return existing, nil
	}
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return nil, err
}

// createPendingOrder persists the PENDING order under serializable isolation.
// If the idempotency key already has an order, that order is returned with
// created=false so the caller skips payment and the cart.
func (h *PlaceOrderCommandHandler) createPendingOrder(
	ctx context.Context,
	cmd PlaceOrderCommand,
	restaurantID int64,
	items []order.Item,
) (*order.Order, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.BeginWithIsolation(ctx, sql.LevelSerializable); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	existing, err := orderRepo.GetByIdempotencyKey(ctx, cmd.IdempotencyKey())
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	newOrder, err := order.NewOrder(
		cmd.UserID(),
		restaurantID,
		cmd.DeliveryAddress(),
		cmd.IdempotencyKey(),
		items,
		h.clock.Now(),
	)
	if err != nil {
		return nil, false, err
	}

	if err = orderRepo.Add(ctx, newOrder); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			winner, readErr := h.readExistingOrder(ctx, cmd.IdempotencyKey())
			return winner, false, readErr
		}
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	return newOrder, true, nil
}

// readExistingOrder re-reads the order that won a concurrent placement race
// for the same idempotency key. Runs in its own transaction: the losing
// insert's transaction is already poisoned by the unique key conflict.
func (h *PlaceOrderCommandHandler) readExistingOrder(ctx context.Context, key string) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	existing, err := uow.OrderRepository().GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return existing, nil
}

// processPayment charges the order and records the payment reference in a
// second transaction. A payment failure leaves the PENDING order in place and
// surfaces as a conflict to the caller.
func (h *PlaceOrderCommandHandler) processPayment(ctx context.Context, placed *order.Order) error {
	result, err := h.payments.ProcessPayment(ctx, ports.PaymentRequest{
		OrderID: placed.ID(),
		Amount:  placed.TotalAmount(),
		Method:  ports.PaymentMethodCard,
		PayerID: placed.UserID(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "payment failed, order stays pending",
			slog.Int64("order_id", placed.ID()),
			slog.String("error", err.Error()))
		return errs.NewConflictErrorWithCause("payment processing failed", err)
	}

	if err = placed.AttachPayment(result.PaymentID); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Update(ctx, placed); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
