package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodCard is the only payment method the ordering flow uses today.
const PaymentMethodCard = "CARD"

// CartSnapshot is the read-only state of a user's cart at the moment of order
// placement. It is consumed once; the source cart is cleared after a
// successful placement.
type CartSnapshot struct {
	UserID       int64
	RestaurantID int64
	Items        []CartItem
}

// CartItem is one cart line: the menu item with the name and price in effect
// when the user added it.
type CartItem struct {
	MenuItemID int64
	Name       string
	Quantity   int
	Price      decimal.Decimal
}

// CartClient is the cart service collaborator.
type CartClient interface {
	// GetOrCreateCart returns the user's current cart, creating an empty one
	// if none exists.
	GetOrCreateCart(ctx context.Context, userID int64) (*CartSnapshot, error)

	// ClearCart empties the user's cart after a successful placement.
	ClearCart(ctx context.Context, userID int64) error
}

// PaymentRequest carries everything the payment service needs to charge for
// an order.
type PaymentRequest struct {
	OrderID int64
	Amount  decimal.Decimal
	Method  string
	PayerID int64
}

// PaymentResult is the payment service's answer for a successful charge.
// Failure is signaled as an error from ProcessPayment, never as a status field.
type PaymentResult struct {
	PaymentID int64
	Status    string
}

// PaymentClient is the payment service collaborator.
type PaymentClient interface {
	// ProcessPayment charges the payer for the order. Any failure is a hard
	// failure of the step that invoked it.
	ProcessPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// AgentAssignment asks the delivery service for an agent to carry an order.
type AgentAssignment struct {
	OrderID         int64
	RestaurantID    int64
	DeliveryAddress string
}

// AgentAssignmentResult identifies the assigned agent and the delivery record
// tracking the trip.
type AgentAssignmentResult struct {
	AgentID    int64
	DeliveryID int64
}

// DeliveryClient is the delivery service collaborator.
type DeliveryClient interface {
	// AssignAgent requests a delivery agent for an order going out for delivery.
	AssignAgent(ctx context.Context, assignment AgentAssignment) (*AgentAssignmentResult, error)

	// NotifyDelivered tells the delivery service a delivery finished. Callers
	// treat failures as best-effort: logged, never propagated.
	NotifyDelivered(ctx context.Context, deliveryID int64, deliveredAt time.Time) error
}
