package order

import (
	"errors"
	"fmt"
	"time"

	"foodorder/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrIDAlreadyAssigned is returned when AssignID is called on an order that
	// already carries its persistent identity.
	ErrIDAlreadyAssigned = errors.New("order id is immutable once assigned")

	// ErrPaymentAlreadyAttached is returned when a second payment reference is
	// attached to the same order.
	ErrPaymentAlreadyAttached = errors.New("payment reference is set at most once")
)

// Order is the aggregate root of the ordering domain. It is created once from
// a cart snapshot, advances through the Status state machine, and is never
// deleted: a placed order is an append-only audit trail of a real-world
// transaction.
//
// Order maintains these invariants:
//   - the idempotency key is set at construction and never changes
//   - the total amount is the exact decimal sum of line subtotals, computed
//     once at creation and never recomputed
//   - the persistent id is assigned by the store exactly once
//   - status changes only through ChangeStatus, which consults the state machine
//   - the delivery timestamp is stamped only when the order is COMPLETED
//   - the payment reference is attached at most once
//
// The struct uses private fields to ensure encapsulation; use NewOrder for new
// aggregates and RestoreOrder when rehydrating from persistence.
type Order struct {
	id             int64
	userID         int64
	restaurantID   int64
	status         Status
	totalAmount    decimal.Decimal
	orderTime      time.Time
	deliveryTime   *time.Time
	address        string
	paymentID      *int64
	agentID        *int64
	deliveryID     *int64
	idempotencyKey string
	estimatedAt    *time.Time
	items          []Item

	isConstructed bool
}

// NewOrder creates a PENDING order from a cart snapshot. The total amount is
// computed here, once, as the exact decimal sum of item subtotals. The order
// has no persistent id yet; the repository assigns one via AssignID.
func NewOrder(
	userID int64,
	restaurantID int64,
	deliveryAddress string,
	idempotencyKey string,
	items []Item,
	orderTime time.Time,
) (*Order, error) {
	if userID <= 0 {
		return nil, errs.NewValueIsRequiredError("userId")
	}
	if restaurantID <= 0 {
		return nil, errs.NewValueIsRequiredError("restaurantId")
	}
	if deliveryAddress == "" {
		return nil, errs.NewValueIsRequiredError("deliveryAddress")
	}
	if idempotencyKey == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("items",
			errors.New("cannot place order with empty cart"))
	}

	total := decimal.Zero
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		total = total.Add(item.Subtotal())
	}

	return &Order{
		userID:         userID,
		restaurantID:   restaurantID,
		status:         StatusPending,
		totalAmount:    total,
		orderTime:      orderTime,
		address:        deliveryAddress,
		idempotencyKey: idempotencyKey,
		items:          items,
		isConstructed:  true,
	}, nil
}

// RestoreOrder rehydrates an order from persistence. Unlike NewOrder it trusts
// the stored total amount and status; the status is still validated against
// the enumeration so corrupt rows surface immediately.
func RestoreOrder(
	id int64,
	userID int64,
	restaurantID int64,
	status Status,
	totalAmount decimal.Decimal,
	orderTime time.Time,
	deliveryTime *time.Time,
	deliveryAddress string,
	paymentID *int64,
	agentID *int64,
	deliveryID *int64,
	idempotencyKey string,
	estimatedDeliveryAt *time.Time,
	items []Item,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Order{
		id:             id,
		userID:         userID,
		restaurantID:   restaurantID,
		status:         status,
		totalAmount:    totalAmount,
		orderTime:      orderTime,
		deliveryTime:   deliveryTime,
		address:        deliveryAddress,
		paymentID:      paymentID,
		agentID:        agentID,
		deliveryID:     deliveryID,
		idempotencyKey: idempotencyKey,
		estimatedAt:    estimatedDeliveryAt,
		items:          items,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
// Call it when reconstructing orders from persistence or accepting them
// across a package boundary.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the store-assigned identity, or 0 if the order is not persisted yet.
func (o *Order) ID() int64 {
	return o.id
}

// AssignID sets the store-assigned identity. The identity is immutable:
// assigning it twice is an error.
func (o *Order) AssignID(id int64) error {
	if o.id != 0 {
		return ErrIDAlreadyAssigned
	}
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orderId",
			fmt.Errorf("%d is not a valid order id", id))
	}
	o.id = id
	return nil
}

// UserID returns the id of the customer who placed the order.
func (o *Order) UserID() int64 {
	return o.userID
}

// RestaurantID returns the id of the restaurant the order was placed with.
func (o *Order) RestaurantID() int64 {
	return o.restaurantID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// TotalAmount returns the total computed at creation time.
func (o *Order) TotalAmount() decimal.Decimal {
	return o.totalAmount
}

// OrderTime returns when the order was placed.
func (o *Order) OrderTime() time.Time {
	return o.orderTime
}

// DeliveryTime returns when the order was delivered, or nil before completion.
func (o *Order) DeliveryTime() *time.Time {
	return o.deliveryTime
}

// DeliveryAddress returns the free-text delivery address.
func (o *Order) DeliveryAddress() string {
	return o.address
}

// PaymentID returns the payment reference, or nil until payment succeeds.
func (o *Order) PaymentID() *int64 {
	return o.paymentID
}

// DeliveryAgentID returns the assigned agent id, or nil until assignment.
func (o *Order) DeliveryAgentID() *int64 {
	return o.agentID
}

// DeliveryID returns the delivery record id, or nil until assignment.
func (o *Order) DeliveryID() *int64 {
	return o.deliveryID
}

// IdempotencyKey returns the client-supplied placement key.
func (o *Order) IdempotencyKey() string {
	return o.idempotencyKey
}

// EstimatedDeliveryAt returns the expected delivery instant stamped when the
// order went out for delivery, or nil before that.
func (o *Order) EstimatedDeliveryAt() *time.Time {
	return o.estimatedAt
}

// Items returns the order line items.
func (o *Order) Items() []Item {
	return o.items
}

// ChangeStatus moves the order to the requested status if the state machine
// allows it. A disallowed transition is a business conflict, not a crash; the
// returned error names both statuses.
func (o *Order) ChangeStatus(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(to) {
		return errs.NewConflictError(
			fmt.Sprintf("invalid status transition from %s to %s", o.status, to))
	}
	o.status = to
	return nil
}

// AttachPayment records the payment reference returned by the payment
// collaborator. The reference is set at most once.
func (o *Order) AttachPayment(paymentID int64) error {
	if o.paymentID != nil {
		return ErrPaymentAlreadyAttached
	}
	if paymentID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("paymentId",
			fmt.Errorf("%d is not a valid payment id", paymentID))
	}
	o.paymentID = &paymentID
	return nil
}

// AssignDeliveryAgent records the agent and delivery record returned by the
// delivery collaborator. Only an order going out for delivery can carry them.
func (o *Order) AssignDeliveryAgent(agentID, deliveryID int64) error {
	if o.status != StatusOutForDelivery {
		return errs.NewConflictError(
			fmt.Sprintf("cannot assign delivery agent while order is %s", o.status))
	}
	if agentID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("agentId",
			fmt.Errorf("%d is not a valid agent id", agentID))
	}
	if deliveryID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("deliveryId",
			fmt.Errorf("%d is not a valid delivery id", deliveryID))
	}
	o.agentID = &agentID
	o.deliveryID = &deliveryID
	return nil
}

// ScheduleDelivery stamps the expected delivery instant for an order that is
// out for delivery. The auto-completion machinery fires at this instant.
func (o *Order) ScheduleDelivery(at time.Time) error {
	if o.status != StatusOutForDelivery {
		return errs.NewConflictError(
			fmt.Sprintf("cannot schedule delivery while order is %s", o.status))
	}
	o.estimatedAt = &at
	return nil
}

// MarkDelivered stamps the delivery timestamp. Only a COMPLETED order can be
// stamped, and only once.
func (o *Order) MarkDelivered(at time.Time) error {
	if o.status != StatusCompleted {
		return errs.NewConflictError(
			fmt.Sprintf("cannot stamp delivery time while order is %s", o.status))
	}
	if o.deliveryTime != nil {
		return errs.NewConflictError("delivery time is already stamped")
	}
	o.deliveryTime = &at
	return nil
}
