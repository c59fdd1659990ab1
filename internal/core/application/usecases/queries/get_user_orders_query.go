package queries

import (
	"errors"

	"foodorder/internal/pkg/errs"
	"foodorder/internal/pkg/guard"
)

var (
	ErrGetUserOrdersQueryIsNotConstructed = errors.New(
		"GetUserOrdersQuery must be created via NewGetUserOrdersQuery constructor",
	)
)

// GetUserOrdersQuery retrieves a customer's order history, newest first.
type GetUserOrdersQuery struct {
	userID int64

	guard guard.ConstructorGuard
}

// NewGetUserOrdersQuery creates a query for the given user's orders.
func NewGetUserOrdersQuery(userID int64) (GetUserOrdersQuery, error) {
	if userID <= 0 {
		return GetUserOrdersQuery{}, errs.NewValueIsRequiredError("userId")
	}
	return GetUserOrdersQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUserOrdersQueryIsNotConstructed if validation fails.
func (q GetUserOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUserOrdersQueryIsNotConstructed)
}

// UserID returns the id of the customer whose orders are listed.
func (q GetUserOrdersQuery) UserID() int64 {
	return q.userID
}
