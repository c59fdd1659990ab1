package queries

import (
	"context"

	"foodorder/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetOverdueDeliveriesQueryHandler retrieves orders out for delivery whose
// estimated delivery instant has passed.
type GetOverdueDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetOverdueDeliveriesQueryHandler creates a handler for overdue delivery
// queries.
func NewGetOverdueDeliveriesQueryHandler(db *gorm.DB) GetOverdueDeliveriesQueryHandler {
	return GetOverdueDeliveriesQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by estimated delivery instant
// so the longest-overdue orders complete first.
func (h GetOverdueDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetOverdueDeliveriesQuery,
) ([]OverdueDeliveryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			restaurant_id
		FROM orders
		WHERE status = ?
		  AND estimated_delivery_at IS NOT NULL
		  AND estimated_delivery_at <= ?
		ORDER BY estimated_delivery_at, id
	`, order.StatusOutForDelivery.String(), query.AsOf()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overdue := make([]OverdueDeliveryResponse, 0)
	for rows.Next() {
		var resp OverdueDeliveryResponse
		if err = rows.Scan(&resp.OrderID, &resp.RestaurantID); err != nil {
			return nil, err
		}
		overdue = append(overdue, resp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return overdue, nil
}
