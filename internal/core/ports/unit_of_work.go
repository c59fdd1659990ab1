package ports

import (
	"context"
	"database/sql"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
//
// Isolation is a per-operation knob, independent of row locking: order
// placement needs serializable isolation for its check-then-insert, while
// status updates run repeatable-read and rely on GetForUpdate's row lock.
type UnitOfWork interface {
	// Begin starts a new database transaction at the store's default isolation.
	Begin(ctx context.Context) error

	// BeginWithIsolation starts a new database transaction at the requested
	// isolation level.
	BeginWithIsolation(ctx context.Context, level sql.IsolationLevel) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository instance bound to the current
	// transaction. Repository will use the transaction started by Begin().
	OrderRepository() OrderRepository
}
