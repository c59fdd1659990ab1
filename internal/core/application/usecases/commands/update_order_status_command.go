package commands

import (
	"errors"

	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/pkg/errs"
	"foodorder/internal/pkg/guard"
)

var (
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
)

// UpdateOrderStatusCommand represents a restaurant's request to move an order
// to a new lifecycle status. The restaurant id is the caller's identity; the
// handler rejects updates against orders belonging to another restaurant.
type UpdateOrderStatusCommand struct {
	orderID      int64
	status       order.Status
	restaurantID int64

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a command to update an order's status.
// The status must be one of the defined lifecycle statuses; whether the
// transition is allowed from the order's current status is decided later,
// under the order's row lock.
func NewUpdateOrderStatusCommand(
	orderID int64,
	status order.Status,
	restaurantID int64,
) (UpdateOrderStatusCommand, error) {
	if orderID <= 0 {
		return UpdateOrderStatusCommand{}, errs.NewValueIsRequiredError("orderId")
	}
	if err := status.Validate(); err != nil {
		return UpdateOrderStatusCommand{}, err
	}
	if restaurantID <= 0 {
		return UpdateOrderStatusCommand{}, errs.NewValueIsRequiredError("restaurantId")
	}

	return UpdateOrderStatusCommand{
		orderID:      orderID,
		status:       status,
		restaurantID: restaurantID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateOrderStatusCommandIsNotConstructed if validation fails.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the id of the order to update.
func (c UpdateOrderStatusCommand) OrderID() int64 {
	return c.orderID
}

// Status returns the requested target status.
func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

// RestaurantID returns the id of the restaurant performing the update.
func (c UpdateOrderStatusCommand) RestaurantID() int64 {
	return c.restaurantID
}
