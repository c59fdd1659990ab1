// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"database/sql"
	"time"

	"foodorder/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle. The isolation level is
	// a per-operation choice: serializable only where check-then-insert races
	// matter, repeatable read where a row lock does the serializing.
	TxManager interface {
		Begin(ctx context.Context) error
		BeginWithIsolation(ctx context.Context, level sql.IsolationLevel) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order aggregate operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// CompletionScheduler schedules the deferred auto-completion of an order that
// went out for delivery. Implementations must be idempotent per order id and
// cancellable on shutdown; they re-enter the status-update path at fire time
// and therefore must not hold any order lock while waiting.
type CompletionScheduler interface {
	ScheduleAt(orderID, restaurantID int64, at time.Time)
}
