// Package errors defines the application's typed error taxonomy. Domain and
// use-case code returns these so delivery can branch on kind instead of
// matching strings.
package errors

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posledger/internal/errors"
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy of the error carrying detailed information.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	ErrCustomerNotFound = NewBaseError(
		http.StatusNotFound,
		"CUSTOMER_NOT_FOUND",
		"customer not found",
		"",
	)

	ErrCustomerAlreadyExists = NewBaseError(
		http.StatusConflict,
		"CUSTOMER_ALREADY_EXISTS",
		"a customer with this code already exists",
		"",
	)

	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"product not found",
		"",
	)

	ErrProductAlreadyExists = NewBaseError(
		http.StatusConflict,
		"PRODUCT_ALREADY_EXISTS",
		"a product with this code or batch number already exists",
		"",
	)

	ErrSaleNotFound = NewBaseError(
		http.StatusNotFound,
		"SALE_NOT_FOUND",
		"sale not found",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	ErrWalkInCredit = NewBaseError(
		http.StatusBadRequest,
		"WALK_IN_CREDIT_NOT_ALLOWED",
		"walk-in sales cannot carry a credit portion",
		"",
	)

	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"database transaction failed",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
		"",
	)
)

// InsufficientStockError is returned when a sale requests more units than are
// on hand. The whole sale is rolled back; no partial deduction survives.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

// NewInsufficientStockError creates a stock shortfall error for one product.
func NewInsufficientStockError(productID uuid.UUID, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) HTTPCode() int     { return http.StatusUnprocessableEntity }
func (e *InsufficientStockError) ErrorCode() string { return "INSUFFICIENT_STOCK" }
func (e *InsufficientStockError) Message() string   { return "insufficient stock" }
func (e *InsufficientStockError) Details() string {
	return fmt.Sprintf("product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// PurchaseBlockedError is returned when a credit-bearing sale is attempted
// after the customer's grace period has expired. It is distinct from
// insufficient stock so the caller can prompt settlement.
type PurchaseBlockedError struct {
	CustomerID uuid.UUID
	Reason     string
}

// NewPurchaseBlockedError creates a blocked-purchase error for a customer
// whose credit period has expired.
func NewPurchaseBlockedError(customerID uuid.UUID) *PurchaseBlockedError {
	return &PurchaseBlockedError{
		CustomerID: customerID,
		Reason:     "credit_period_expired",
	}
}

func (e *PurchaseBlockedError) Error() string {
	return fmt.Sprintf("purchase blocked for customer %s: %s", e.CustomerID, e.Reason)
}

func (e *PurchaseBlockedError) HTTPCode() int     { return http.StatusUnprocessableEntity }
func (e *PurchaseBlockedError) ErrorCode() string { return "PURCHASE_BLOCKED" }
func (e *PurchaseBlockedError) Message() string   { return "credit period expired, settlement required" }
func (e *PurchaseBlockedError) Details() string   { return e.Reason }

// InvalidSettlementError is returned when a settlement amount falls outside
// the valid range (0, outstanding].
type InvalidSettlementError struct {
	Amount      decimal.Decimal
	Outstanding decimal.Decimal
}

// NewInvalidSettlementError creates an out-of-bounds settlement error.
func NewInvalidSettlementError(amount, outstanding decimal.Decimal) *InvalidSettlementError {
	return &InvalidSettlementError{Amount: amount, Outstanding: outstanding}
}

func (e *InvalidSettlementError) Error() string {
	return fmt.Sprintf("invalid settlement amount %s: outstanding credit is %s",
		e.Amount, e.Outstanding)
}

func (e *InvalidSettlementError) HTTPCode() int     { return http.StatusUnprocessableEntity }
func (e *InvalidSettlementError) ErrorCode() string { return "INVALID_SETTLEMENT" }
func (e *InvalidSettlementError) Message() string   { return "settlement amount out of bounds" }
func (e *InvalidSettlementError) Details() string {
	return fmt.Sprintf("amount must be greater than 0 and at most %s", e.Outstanding)
}

// ConcurrencyConflictError is returned when lock or version contention
// prevented an update. Callers retry once at the boundary before surfacing
// it as a transient failure.
type ConcurrencyConflictError struct {
	Entity string
}

// NewConcurrencyConflictError creates a contention error for the named entity.
func NewConcurrencyConflictError(entity string) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Entity: entity}
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrent update conflict on %s", e.Entity)
}

func (e *ConcurrencyConflictError) HTTPCode() int     { return http.StatusConflict }
func (e *ConcurrencyConflictError) ErrorCode() string { return "CONCURRENCY_CONFLICT" }
func (e *ConcurrencyConflictError) Message() string   { return "the record was modified concurrently, please retry" }
func (e *ConcurrencyConflictError) Details() string   { return e.Entity }

// DatabaseExecuteError represents a database execution error, implementing
// the AppError interface.
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error.
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface.
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code.
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code.
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message.
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information.
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
