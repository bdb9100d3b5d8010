package service

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Handlers map these onto HTTP statuses; none of them
// carries internal detail unsafe to show a client.
var (
	// ErrValidation marks a request rejected before any I/O was attempted.
	ErrValidation = errors.New("validation failed")
	// ErrBatchNotFound means no In-Stock lot carries the requested batch code.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrNotFound is the generic missing-record error.
	ErrNotFound = errors.New("not found")
)

// InsufficientStockError declines a release that exceeds the batch's on-hand
// total. Nothing was mutated. The caller is expected to re-prompt the
// operator, not retry.
type InsufficientStockError struct {
	BatchNo   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for batch %s: %d available, %d requested",
		e.BatchNo, e.Available, e.Requested)
}
