// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"foodorder/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The id is store-assigned. The idempotency key carries a unique index; the
// database, not the application, is the final arbiter of placement uniqueness.
type OrderDTO struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement"`
	UserID              int64           `gorm:"index;not null"`
	RestaurantID        int64           `gorm:"index:idx_orders_restaurant_status;not null"`
	Status              string          `gorm:"type:varchar(32);index:idx_orders_restaurant_status;not null"`
	TotalAmount         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	OrderTime           time.Time       `gorm:"not null"`
	DeliveryTime        *time.Time
	DeliveryAddress     string `gorm:"not null"`
	PaymentID           *int64
	DeliveryAgentID     *int64
	DeliveryID          *int64
	IdempotencyKey      string         `gorm:"type:varchar(128);uniqueIndex;not null"`
	EstimatedDeliveryAt *time.Time     `gorm:"index"`
	Items               []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one order line. Name and price are copied from the
// cart at placement time: later menu edits must not rewrite order history.
type OrderItemDTO struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	OrderID    int64           `gorm:"index;not null"`
	MenuItemID int64           `gorm:"not null"`
	Name       string          `gorm:"not null"`
	Quantity   int             `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:    aggregate.ID(),
			MenuItemID: item.MenuItemID(),
			Name:       item.Name(),
			Quantity:   item.Quantity(),
			Price:      item.Price(),
		})
	}

	return OrderDTO{
		ID:                  aggregate.ID(),
		UserID:              aggregate.UserID(),
		RestaurantID:        aggregate.RestaurantID(),
		Status:              aggregate.Status().String(),
		TotalAmount:         aggregate.TotalAmount(),
		OrderTime:           aggregate.OrderTime(),
		DeliveryTime:        aggregate.DeliveryTime(),
		DeliveryAddress:     aggregate.DeliveryAddress(),
		PaymentID:           aggregate.PaymentID(),
		DeliveryAgentID:     aggregate.DeliveryAgentID(),
		DeliveryID:          aggregate.DeliveryID(),
		IdempotencyKey:      aggregate.IdempotencyKey(),
		EstimatedDeliveryAt: aggregate.EstimatedDeliveryAt(),
		Items:               items,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including line items using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewItem(itemDTO.MenuItemID, itemDTO.Name, itemDTO.Quantity, itemDTO.Price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		dto.ID,
		dto.UserID,
		dto.RestaurantID,
		status,
		dto.TotalAmount,
		dto.OrderTime,
		dto.DeliveryTime,
		dto.DeliveryAddress,
		dto.PaymentID,
		dto.DeliveryAgentID,
		dto.DeliveryID,
		dto.IdempotencyKey,
		dto.EstimatedDeliveryAt,
		items,
	)
}
