// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases and bypass the
// aggregate layer: they read rows, not domain objects.
package queries

import (
	"errors"
	"time"

	"foodorder/internal/pkg/errs"
	"foodorder/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves a single order with its line items.
//
// Example:
//
//	query, _ := NewGetOrderQuery(41)
//	handler := NewGetOrderQueryHandler(db)
//
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve order: %w", err)
//	}
//	fmt.Printf("order %d is %s\n", resp.ID, resp.Status)
type GetOrderQuery struct {
	orderID int64

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the given order id.
func NewGetOrderQuery(orderID int64) (GetOrderQuery, error) {
	if orderID <= 0 {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("orderId")
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the id of the order to retrieve.
func (q GetOrderQuery) OrderID() int64 {
	return q.orderID
}

// OrderResponse is the read model of an order as served to clients.
type OrderResponse struct {
	ID                  int64
	UserID              int64
	RestaurantID        int64
	Status              string
	TotalAmount         decimal.Decimal
	OrderTime           time.Time
	DeliveryTime        *time.Time
	DeliveryAddress     string
	PaymentID           *int64
	DeliveryAgentID     *int64
	EstimatedDeliveryAt *time.Time
	Items               []OrderItemResponse
}

// OrderItemResponse is one order line in the read model.
type OrderItemResponse struct {
	MenuItemID int64
	Name       string
	Quantity   int
	Price      decimal.Decimal
}
