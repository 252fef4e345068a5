package domain

import "fmt"

// ValidationError marks a malformed cart. No mutation was attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid order: " + e.Reason }

// InsufficientStockError marks an order rejected because an ingredient of
// the named menu item cannot cover the requested quantity. The enclosing
// transaction was rolled back before any write became visible.
type InsufficientStockError struct {
	ItemName string
}

func (e *InsufficientStockError) Error() string {
	if e.ItemName == "" {
		return "insufficient stock"
	}
	return fmt.Sprintf("insufficient stock for %q", e.ItemName)
}

// TransactionError wraps any storage or infrastructure fault. The order
// transaction is guaranteed rolled back.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string { return "order transaction failed: " + e.Err.Error() }
func (e *TransactionError) Unwrap() error { return e.Err }
