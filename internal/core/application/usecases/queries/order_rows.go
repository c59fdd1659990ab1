package queries

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// selectOrderColumns is the column list every order read shares. The scan
// order in scanOrderRow must match it.
const selectOrderColumns = `
	id,
	user_id,
	restaurant_id,
	status,
	total_amount,
	order_time,
	delivery_time,
	delivery_address,
	payment_id,
	delivery_agent_id,
	estimated_delivery_at
`

// scanOrderRow scans one row produced by selectOrderColumns into the read model.
func scanOrderRow(rows *sql.Rows) (OrderResponse, error) {
	var resp OrderResponse
	var totalAmount decimal.Decimal
	var deliveryTime, estimatedAt sql.NullTime
	var paymentID, agentID sql.NullInt64

	err := rows.Scan(
		&resp.ID,
		&resp.UserID,
		&resp.RestaurantID,
		&resp.Status,
		&totalAmount,
		&resp.OrderTime,
		&deliveryTime,
		&resp.DeliveryAddress,
		&paymentID,
		&agentID,
		&estimatedAt,
	)
	if err != nil {
		return OrderResponse{}, err
	}

	resp.TotalAmount = totalAmount
	if deliveryTime.Valid {
		t := deliveryTime.Time
		resp.DeliveryTime = &t
	}
	if estimatedAt.Valid {
		t := estimatedAt.Time
		resp.EstimatedDeliveryAt = &t
	}
	if paymentID.Valid {
		id := paymentID.Int64
		resp.PaymentID = &id
	}
	if agentID.Valid {
		id := agentID.Int64
		resp.DeliveryAgentID = &id
	}

	return resp, nil
}

// collectOrderRows drains a result set of selectOrderColumns rows.
func collectOrderRows(rows *sql.Rows) ([]OrderResponse, error) {
	defer rows.Close()

	orders := make([]OrderResponse, 0)
	for rows.Next() {
		resp, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the line items for every order in the slice with a single
// query and distributes them by order id.
func attachItems(ctx context.Context, db *gorm.DB, orders []OrderResponse) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			menu_item_id,
			name,
			quantity,
			price
		FROM order_items
		WHERE order_id IN ?
		ORDER BY id
	`, orderIDs).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	itemsByOrder := make(map[int64][]OrderItemResponse, len(orders))
	for rows.Next() {
		var orderID int64
		var item OrderItemResponse
		var price decimal.Decimal

		if err = rows.Scan(&orderID, &item.MenuItemID, &item.Name, &item.Quantity, &price); err != nil {
			return err
		}
		item.Price = price
		itemsByOrder[orderID] = append(itemsByOrder[orderID], item)
	}
	if err = rows.Err(); err != nil {
		return err
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}
	return nil
}
