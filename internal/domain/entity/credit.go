package entity

import (
	"time"
)

// CreditState describes where a customer sits in the credit grace-period
// state machine. The state is never stored; it is derived from the episode
// timestamps whenever a decision depends on it.
type CreditState string

const (
	// CreditStateNormal means the customer has no running grace period.
	CreditStateNormal CreditState = "NORMAL"

	// CreditStateLimitReached means spend has exceeded the limit and the
	// grace-period timer is running. Purchases are still allowed.
	CreditStateLimitReached CreditState = "LIMIT_REACHED"

	// CreditStateExpired means the grace period has lapsed. Further credit
	// purchases are blocked until the balance is settled in full.
	CreditStateExpired CreditState = "EXPIRED"
)

// CreditStanding is the read-model of a customer's credit position,
// evaluated lazily at a given instant.
type CreditStanding struct {
	State         CreditState `json:"state"`
	CanPurchase   bool        `json:"can_purchase"`
	DaysRemaining int         `json:"days_remaining"` // whole days left in the grace period, 0 outside one
	DaysOverdue   int         `json:"days_overdue"`   // whole days past expiry, 0 before expiry
}

// EvaluateCreditState is the pure, total transition function of the
// grace-period state machine: given the episode timestamps and a clock
// reading, it returns the current state. Callers pass the timestamps
// straight off the customer row; no mutation-on-read happens here.
func EvaluateCreditState(periodExpiresAt *time.Time, now time.Time) CreditState {
	if periodExpiresAt == nil {
		return CreditStateNormal
	}
	if now.After(*periodExpiresAt) {
		return CreditStateExpired
	}

	return CreditStateLimitReached
}

// daysBetween returns the number of whole days from a to b, rounding any
// partial day up. Returns 0 when b is not after a.
func daysBetween(a, b time.Time) int {
	if !b.After(a) {
		return 0
	}
	d := b.Sub(a)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}

	return days
}
