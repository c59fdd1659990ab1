package commands

import (
	"errors"

	"foodorder/internal/pkg/errs"
	"foodorder/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
)

// PlaceOrderCommand represents a request to turn a user's cart into a durable
// order. The idempotency key is the sole defense against duplicate orders from
// network retries or double-clicks: repeated submissions with the same key
// must produce exactly one order.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand("a1b2c3", 1, 2, "42 Main St")
//	if err != nil {
//	    return fmt.Errorf("invalid order request: %w", err)
//	}
//
//	placed, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct {
	idempotencyKey  string
	userID          int64
	restaurantID    int64
	deliveryAddress string

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place an order. Validates that the
// idempotency key and delivery address are present and that user and
// restaurant ids are positive.
func NewPlaceOrderCommand(
	idempotencyKey string,
	userID int64,
	restaurantID int64,
	deliveryAddress string,
) (PlaceOrderCommand, error) {
	if idempotencyKey == "" {
		return PlaceOrderCommand{}, errs.NewValueIsRequiredError("idempotencyKey")
	}
	if userID <= 0 {
		return PlaceOrderCommand{}, errs.NewValueIsRequiredError("userId")
	}
	if restaurantID <= 0 {
		return PlaceOrderCommand{}, errs.NewValueIsRequiredError("restaurantId")
	}
	if deliveryAddress == "" {
		return PlaceOrderCommand{}, errs.NewValueIsRequiredError("deliveryAddress")
	}

	return PlaceOrderCommand{
		idempotencyKey:  idempotencyKey,
		userID:          userID,
		restaurantID:    restaurantID,
		deliveryAddress: deliveryAddress,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrPlaceOrderCommandIsNotConstructed if validation fails.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// IdempotencyKey returns the client-supplied placement key.
func (c PlaceOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

// UserID returns the id of the customer placing the order.
func (c PlaceOrderCommand) UserID() int64 {
	return c.userID
}

// RestaurantID returns the id of the restaurant the order targets.
func (c PlaceOrderCommand) RestaurantID() int64 {
	return c.restaurantID
}

// DeliveryAddress returns the free-text delivery address.
func (c PlaceOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}
