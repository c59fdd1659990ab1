package order

import (
	"fmt"

	"foodorder/internal/pkg/errs"
)

// Status represents the lifecycle state of a food order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct business workflow.
//
// State transitions:
//
//	PENDING ──┬──> ACCEPTED ──> IN_COOKING ──> OUT_FOR_DELIVERY ──> COMPLETED
//	          │        │             │
//	          │        └─────────────┴──> CANCELLED
//	          └──> DECLINED
//
// DECLINED, COMPLETED, and CANCELLED are terminal: no outgoing transitions.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status string

const (
	// StatusPending is the initial status assigned when an order is placed.
	// The restaurant has not yet accepted or declined it.
	StatusPending Status = "PENDING"

	// StatusAccepted indicates the restaurant accepted the order.
	StatusAccepted Status = "ACCEPTED"

	// StatusDeclined indicates the restaurant declined the order. Terminal.
	StatusDeclined Status = "DECLINED"

	// StatusInCooking indicates the restaurant is preparing the order.
	StatusInCooking Status = "IN_COOKING"

	// StatusOutForDelivery indicates a delivery agent is carrying the order.
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"

	// StatusCompleted indicates the order was delivered. Terminal.
	StatusCompleted Status = "COMPLETED"

	// StatusCancelled indicates the order was cancelled before going out
	// for delivery. Terminal.
	StatusCancelled Status = "CANCELLED"
)

// getValidStatuses returns the set of all defined statuses.
// Used to validate values coming from external sources (database, API).
func getValidStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusPending:        {},
		StatusAccepted:       {},
		StatusDeclined:       {},
		StatusInCooking:      {},
		StatusOutForDelivery: {},
		StatusCompleted:      {},
		StatusCancelled:      {},
	}
}

// ParseStatus converts a raw string into a Status.
// Returns a validation error for anything outside the closed enumeration.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate checks that the Status value belongs to the closed enumeration.
func (s Status) Validate() error {
	if _, ok := getValidStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String returns the persisted name of the status.
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether moving from the current status to the
// requested one is allowed. It is pure, has no side effects, and is total
// over all status pairs: undefined statuses simply have no outgoing edges.
func (s Status) CanTransitionTo(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusAccepted || to == StatusDeclined
	case StatusAccepted:
		return to == StatusInCooking || to == StatusCancelled
	case StatusInCooking:
		return to == StatusOutForDelivery || to == StatusCancelled
	case StatusOutForDelivery:
		return to == StatusCompleted
	default:
		// DECLINED, COMPLETED, CANCELLED and anything undefined.
		return false
	}
}

// IsFinal reports whether the status is terminal: no outgoing transitions.
func (s Status) IsFinal() bool {
	return s == StatusDeclined || s == StatusCompleted || s == StatusCancelled
}

// IsCancellable reports whether an order in this status can still be
// cancelled. Orders already out for delivery cannot.
func (s Status) IsCancellable() bool {
	return !s.IsFinal() && s != StatusOutForDelivery
}

// ValidTransitions returns every status reachable from the current one.
func (s Status) ValidTransitions() []Status {
	all := []Status{
		StatusPending,
		StatusAccepted,
		StatusDeclined,
		StatusInCooking,
		StatusOutForDelivery,
		StatusCompleted,
		StatusCancelled,
	}

	var next []Status
	for _, to := range all {
		if s.CanTransitionTo(to) {
			next = append(next, to)
		}
	}
	return next
}
