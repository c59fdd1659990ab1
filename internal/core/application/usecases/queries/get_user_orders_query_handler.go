package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetUserOrdersQueryHandler lists a customer's orders with their line items.
type GetUserOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUserOrdersQueryHandler creates a handler for user order history queries.
func NewGetUserOrdersQueryHandler(db *gorm.DB) GetUserOrdersQueryHandler {
	return GetUserOrdersQueryHandler{db: db}
}

// Handle executes the query. An empty history yields an empty slice, not an error.
func (h GetUserOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUserOrdersQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+selectOrderColumns+`
		FROM orders
		WHERE user_id = ?
		ORDER BY order_time DESC, id DESC
	`, query.UserID()).Rows()
	if err != nil {
		return nil, err
	}

	orders, err := collectOrderRows(rows)
	if err != nil {
		return nil, err
	}

	if err = attachItems(ctx, h.db, orders); err != nil {
		return nil, err
	}

	return orders, nil
}
