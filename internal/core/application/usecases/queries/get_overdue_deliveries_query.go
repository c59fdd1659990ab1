package queries

import (
	"errors"
	"time"

	"foodorder/internal/pkg/errs"
	"foodorder/internal/pkg/guard"
)

var (
	ErrGetOverdueDeliveriesQueryIsNotConstructed = errors.New(
		"GetOverdueDeliveriesQuery must be created via NewGetOverdueDeliveriesQuery constructor",
	)
)

// GetOverdueDeliveriesQuery finds orders still out for delivery past their
// estimated delivery instant. In-process completion timers are lost on
// restart; this query is how the sweep job finds the orders those timers
// would have completed.
type GetOverdueDeliveriesQuery struct {
	asOf time.Time

	guard guard.ConstructorGuard
}

// NewGetOverdueDeliveriesQuery creates a query for deliveries overdue at the
// given instant.
func NewGetOverdueDeliveriesQuery(asOf time.Time) (GetOverdueDeliveriesQuery, error) {
	if asOf.IsZero() {
		return GetOverdueDeliveriesQuery{}, errs.NewValueIsRequiredError("asOf")
	}
	return GetOverdueDeliveriesQuery{asOf: asOf, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOverdueDeliveriesQueryIsNotConstructed if validation fails.
func (q GetOverdueDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetOverdueDeliveriesQueryIsNotConstructed)
}

// AsOf returns the instant deliveries are measured against.
func (q GetOverdueDeliveriesQuery) AsOf() time.Time {
	return q.asOf
}

// OverdueDeliveryResponse identifies one overdue delivery: just enough to
// drive the completion transition on the restaurant's behalf.
type OverdueDeliveryResponse struct {
	OrderID      int64
	RestaurantID int64
}
