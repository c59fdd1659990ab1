package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetRestaurantOrdersQueryHandler lists a restaurant's orders in a given
// status, oldest first so the kitchen works the queue in placement order.
type GetRestaurantOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetRestaurantOrdersQueryHandler creates a handler for restaurant order
// queue queries.
func NewGetRestaurantOrdersQueryHandler(db *gorm.DB) GetRestaurantOrdersQueryHandler {
	return GetRestaurantOrdersQueryHandler{db: db}
}

// Handle executes the query. An empty queue yields an empty slice, not an error.
func (h GetRestaurantOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetRestaurantOrdersQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+selectOrderColumns+`
		FROM orders
		WHERE restaurant_id = ? AND status = ?
		ORDER BY order_time, id
	`, query.RestaurantID(), query.Status().String()).Rows()
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
