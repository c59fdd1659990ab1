// Package order provides domain entities and business logic for order management
// in the food ordering system. It implements the Order aggregate root with
// lifecycle management and state transitions.
//
// The package includes:
//   - Order: The aggregate root owning identity, money, line items, and lifecycle
//   - Item: An immutable line-item snapshot of a cart line at placement time
//   - Status: A state machine that enforces valid order status transitions
//
// Key business rules:
//   - The total amount is computed once at creation as an exact decimal sum
//   - Status follows the workflow PENDING -> ACCEPTED -> IN_COOKING ->
//     OUT_FOR_DELIVERY -> COMPLETED, with DECLINED and CANCELLED branches
//   - DECLINED, COMPLETED, and CANCELLED are terminal
//   - The idempotency key and the store-assigned id are immutable
//   - The payment reference is attached at most once
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
