package queries

import (
	"errors"

	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/pkg/errs"
	"foodorder/internal/pkg/guard"
)

var (
	ErrGetRestaurantOrdersQueryIsNotConstructed = errors.New(
		"GetRestaurantOrdersQuery must be created via NewGetRestaurantOrdersQuery constructor",
	)
)

// GetRestaurantOrdersQuery retrieves a restaurant's orders filtered by status.
// The status filter is mandatory: a restaurant works one queue at a time
// (new PENDING orders, the IN_COOKING board, and so on).
type GetRestaurantOrdersQuery struct {
	restaurantID int64
	status       order.Status

	guard guard.ConstructorGuard
}

// NewGetRestaurantOrdersQuery creates a query for a restaurant's orders in the
// given status.
func NewGetRestaurantOrdersQuery(restaurantID int64, status order.Status) (GetRestaurantOrdersQuery, error) {
	if restaurantID <= 0 {
		return GetRestaurantOrdersQuery{}, errs.NewValueIsRequiredError("restaurantId")
	}
	if err := status.Validate(); err != nil {
		return GetRestaurantOrdersQuery{}, err
	}

	return GetRestaurantOrdersQuery{
		restaurantID: restaurantID,
		status:       status,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetRestaurantOrdersQueryIsNotConstructed if validation fails.
func (q GetRestaurantOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetRestaurantOrdersQueryIsNotConstructed)
}

// RestaurantID returns the id of the restaurant whose orders are listed.
func (q GetRestaurantOrdersQuery) RestaurantID() int64 {
	return q.restaurantID
}

// Status returns the status filter.
func (q GetRestaurantOrdersQuery) Status() order.Status {
	return q.status
}
