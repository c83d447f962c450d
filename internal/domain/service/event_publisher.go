// Package service declares collaborator interfaces consumed by the use-case
// layer: event publishing, receipt QR generation and token handling.
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is a domain event emitted after a transaction commits. Subscribers
// (cache invalidation, alerting) are fire-and-forget; publishing never blocks
// or fails the committed operation.
type Event interface {
	// EventName identifies the event type on the wire.
	EventName() string
}

// CreditExceededEvent fires when a credit-bearing sale starts a new exceed
// episode for a customer.
type CreditExceededEvent struct {
	RequestID      string          `json:"request_id,omitempty"` // For distributed tracing
	CustomerID     uuid.UUID       `json:"customer_id"`
	ExceededAmount decimal.Decimal `json:"exceeded_amount"` // spend beyond the limit
}

func (CreditExceededEvent) EventName() string { return "credit.exceeded" }

// StockUpdatedEvent fires on every stock mutation, sale deduction and restock
// alike.
type StockUpdatedEvent struct {
	RequestID   string    `json:"request_id,omitempty"`
	ProductID   uuid.UUID `json:"product_id"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
	Action      string    `json:"action"` // e.g. "sale", "restock", "purchase_order_receipt"
}

func (StockUpdatedEvent) EventName() string { return "stock.updated" }

// SaleCompletedEvent fires once a sale has been committed.
type SaleCompletedEvent struct {
	RequestID    string          `json:"request_id,omitempty"`
	SaleID       uuid.UUID       `json:"sale_id"`
	BillNumber   string          `json:"bill_number"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ProfitAmount decimal.Decimal `json:"profit_amount"`
}

func (SaleCompletedEvent) EventName() string { return "sale.completed" }

// EventPublisher defines the interface for publishing domain events to a
// message queue.
type EventPublisher interface {
	// Publish publishes a single domain event for async processing.
	Publish(ctx context.Context, event Event) error

	// Close releases any resources held by the publisher.
	Close() error
}
