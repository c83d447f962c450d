package repository

import "context"

// Sequence names used for human-readable code generation.
const (
	SequenceCustomerCode = "customer_code"
	SequenceBillNumber   = "bill_number"
)

// SequenceRepository hands out monotonically increasing values for named
// sequences. Next must be called inside the transaction that consumes the
// value so an aborted sale never burns a visible gap mid-request, and the
// row lock on the sequence serializes concurrent generators.
type SequenceRepository interface {
	// Next increments and returns the next value of the named sequence,
	// creating it at 1 on first use.
	Next(ctx context.Context, name string) (int64, error)
}
