package ports

import (
	"context"

	"foodorder/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and locking order entities
// together with their line items.
type OrderRepository interface {
	// Add persists a new order aggregate and its line items, assigning the
	// store-generated id onto the aggregate. A duplicate idempotency key is
	// reported as a conflict error.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetForUpdate retrieves an order by id holding an exclusive row lock for
	// the duration of the surrounding transaction. Concurrent status updates
	// on the same order serialize behind this lock.
	GetForUpdate(ctx context.Context, id int64) (*order.Order, error)

	// GetByIdempotencyKey retrieves the order created for the given placement
	// key, or an object-not-found error when no such order exists.
	GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error)
}
