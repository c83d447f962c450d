// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerrors "posledger/internal/domain/errors"
)

// Customer represents a registered customer together with its credit ledger.
//
// CreditSpend is the outstanding amount the customer currently owes. The pair
// CreditLimitReachedAt/CreditPeriodExpiresAt describes at most one "exceed
// episode": both are set the first time spend crosses the limit and are only
// cleared when the outstanding balance returns to exactly zero.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Code  string    `json:"code"` // generated, human readable, e.g. CUST000123
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Email string    `json:"email"`

	CreditLimit      decimal.Decimal `json:"credit_limit"`
	CreditSpend      decimal.Decimal `json:"credit_spend"`
	CashBalance      decimal.Decimal `json:"cash_balance"`
	CardBalance      decimal.Decimal `json:"card_balance"`
	CreditBalance    decimal.Decimal `json:"credit_balance"`
	NetBalance       decimal.Decimal `json:"net_balance"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	CreditPeriodDays int             `json:"credit_period_days"`

	CreditLimitReachedAt  *time.Time `json:"credit_limit_reached_at,omitempty"`
	CreditPeriodExpiresAt *time.Time `json:"credit_period_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreditState evaluates the grace-period state machine at the given instant.
func (c *Customer) CreditState(now time.Time) CreditState {
	return EvaluateCreditState(c.CreditPeriodExpiresAt, now)
}

// CanPurchase reports whether a credit-bearing sale is currently allowed.
// Cash and card sales are never blocked by the credit ledger.
func (c *Customer) CanPurchase(now time.Time) bool {
	return c.CreditState(now) != CreditStateExpired
}

// Standing returns the customer's credit position at the given instant.
// It is a pure read; calling it twice without intervening writes yields
// identical results.
func (c *Customer) Standing(now time.Time) CreditStanding {
	state := c.CreditState(now)
	standing := CreditStanding{
		State:       state,
		CanPurchase: state != CreditStateExpired,
	}

	switch state {
	case CreditStateLimitReached:
		standing.DaysRemaining = daysBetween(now, *c.CreditPeriodExpiresAt)
	case CreditStateExpired:
		standing.DaysOverdue = daysBetween(*c.CreditPeriodExpiresAt, now)
	}

	return standing
}

// ApplyCreditCharge records a credit-bearing purchase against the customer.
// It returns true when this charge starts a new exceed episode, so the caller
// can emit a credit-exceeded event. Fails with PurchaseBlockedError when the
// grace period has already expired; the customer state is left untouched on
// any error.
func (c *Customer) ApplyCreditCharge(amount decimal.Decimal, now time.Time) (exceeded bool, err error) {
	if amount.Sign() <= 0 {
		return false, domainerrors.ErrValidationFailed.WithDetails("credit charge amount must be positive")
	}
	if c.CreditState(now) == CreditStateExpired {
		return false, domainerrors.NewPurchaseBlockedError(c.ID)
	}

	c.CreditSpend = c.CreditSpend.Add(amount)
	c.CreditBalance = c.CreditBalance.Add(amount)
	c.NetBalance = c.NetBalance.Add(amount)

	// A new episode starts only when crossing the limit with no episode
	// already running.
	if c.CreditPeriodExpiresAt == nil && c.CreditSpend.GreaterThan(c.CreditLimit) {
		reachedAt := now
		expiresAt := now.AddDate(0, 0, c.CreditPeriodDays)
		c.CreditLimitReachedAt = &reachedAt
		c.CreditPeriodExpiresAt = &expiresAt

		return true, nil
	}

	return false, nil
}

// SettleCredit applies a payment against the outstanding credit balance,
// accumulating it into the balance matching the tender method. The amount
// must be positive and must not exceed the outstanding spend. Bringing the
// spend to exactly zero closes the exceed episode.
func (c *Customer) SettleCredit(amount decimal.Decimal, method PaymentMethod, now time.Time) error {
	if amount.Sign() <= 0 {
		return domainerrors.NewInvalidSettlementError(amount, c.CreditSpend)
	}
	if amount.GreaterThan(c.CreditSpend) {
		return domainerrors.NewInvalidSettlementError(amount, c.CreditSpend)
	}

	c.CreditSpend = c.CreditSpend.Sub(amount)
	switch method {
	case PaymentMethodCard:
		c.CardBalance = c.CardBalance.Add(amount)
	default:
		c.CashBalance = c.CashBalance.Add(amount)
	}
	c.NetBalance = c.NetBalance.Sub(amount)

	if c.CreditSpend.IsZero() {
		c.CreditLimitReachedAt = nil
		c.CreditPeriodExpiresAt = nil
	}

	return nil
}

// RecordSalePayment accumulates the non-credit portions of a sale into the
// running balances. The credit portion goes through ApplyCreditCharge.
func (c *Customer) RecordSalePayment(cash, card, total decimal.Decimal) {
	c.CashBalance = c.CashBalance.Add(cash)
	c.CardBalance = c.CardBalance.Add(card)
	c.TotalBalance = c.TotalBalance.Add(total)
}
