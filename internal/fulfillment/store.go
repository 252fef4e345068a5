package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"pos-system/internal/domain"
)

// RecipeLine maps one ingredient consumed per unit of a menu item.
type RecipeLine struct {
	IngredientID    int64
	QuantityPerUnit decimal.Decimal
}

type LoyaltyUpdate struct {
	CustomerID     int64
	PointsEarned   int64
	PointsRedeemed int64
	Subtotal       decimal.Decimal
}

var (
	// ErrInsufficientPoints is returned by ApplyLoyalty when the stored
	// balance cannot cover the requested redemption.
	ErrInsufficientPoints = errors.New("insufficient loyalty points")
	// ErrUnknownCustomer is returned by ApplyLoyalty for a customer id
	// with no loyalty row.
	ErrUnknownCustomer = errors.New("unknown customer")
)

// SupplyConflictError is returned by DeductSupplies when the guarded
// decrement skipped rows: a concurrent order drained the supply between
// the advisory check and the write.
type SupplyConflictError struct {
	IngredientIDs []int64
}

func (e *SupplyConflictError) Error() string {
	return fmt.Sprintf("supply exhausted for ingredients %v", e.IngredientIDs)
}

// Store is one order's transaction-scoped view of the relational state.
// Every method reads and writes through the transaction the Runner opened;
// implementations never commit or roll back themselves.
type Store interface {
	// Recipe returns the ingredient consumption list of a menu item.
	// An empty result marks a non-inventory-tracked item.
	Recipe(ctx context.Context, menuItemID int64) ([]RecipeLine, error)

	// Supplies returns current transaction-visible supply per ingredient.
	Supplies(ctx context.Context, ingredientIDs []int64) (map[int64]decimal.Decimal, error)

	// NextOrderID allocates the next order id from the store sequence,
	// independent of row insertion.
	NextOrderID(ctx context.Context) (int64, error)

	// InsertOrderLines persists every line of the order in a single
	// set-oriented statement.
	InsertOrderLines(ctx context.Context, orderID int64, cart domain.ValidatedCart) error

	// DeductSupplies applies all decrements in one guarded statement.
	// Supply never goes below zero; a skipped row yields
	// *SupplyConflictError.
	DeductSupplies(ctx context.Context, deltas []domain.Deduction) error

	// ApplyLoyalty adjusts points and lifetime spend in one statement,
	// refusing redemptions beyond the stored balance.
	ApplyLoyalty(ctx context.Context, upd LoyaltyUpdate) error
}

// Runner is the transaction coordinator: it owns begin/commit/rollback
// around fn and guarantees partial work never becomes visible on failure.
type Runner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
