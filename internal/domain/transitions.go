package domain

import "fmt"

// transitions is the authoritative status state machine. Any status change
// not listed here is illegal and must be rejected, never silently applied.
var transitions = map[string][]string{
	StatusPending:           {StatusProcessing, StatusCancelled},
	StatusProcessing:        {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted:         {StatusRefunded, StatusPartiallyRefunded},
	StatusPartiallyRefunded: {StatusRefunded, StatusPartiallyRefunded},
	StatusFailed:            {},
	StatusCancelled:         {},
	StatusRefunded:          {},
}

// CanTransition reports whether from → to is a legal status change.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an error describing the illegal change, or nil.
func ValidateTransition(from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("illegal status transition %s -> %s", from, to)
	}
	return nil
}

// IsTerminal reports whether a transaction in this status has reached the end
// of the payment lifecycle. Completed counts as terminal for idempotency even
// though it may later move to a refunded state.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded, StatusPartiallyRefunded:
		return true
	}
	return false
}
