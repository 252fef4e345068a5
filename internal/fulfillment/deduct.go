package fulfillment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"pos-system/internal/domain"
)

// DeductForLines resolves each line's recipe, aggregates the per-ingredient
// consumption, and applies every decrement through one guarded set-based
// statement. It returns the deductions applied. A guard conflict (supply
// drained by a concurrent order after the advisory check) surfaces as
// *domain.InsufficientStockError naming the first line that consumes the
// exhausted ingredient.
func DeductForLines(ctx context.Context, s Store, lines []domain.ValidatedLine) ([]domain.Deduction, error) {
	needs := make(map[int64]decimal.Decimal)
	firstConsumer := make(map[int64]string)
	var order []int64

	for _, ln := range lines {
		recipe, err := s.Recipe(ctx, ln.MenuItemID)
		if err != nil {
			return nil, err
		}
		qty := decimal.NewFromInt(int64(ln.Quantity))
		for _, rl := range recipe {
			amount := rl.QuantityPerUnit.Mul(qty)
			if _, seen := needs[rl.IngredientID]; !seen {
				order = append(order, rl.IngredientID)
				firstConsumer[rl.IngredientID] = ln.ItemName
			}
			needs[rl.IngredientID] = needs[rl.IngredientID].Add(amount)
		}
	}
	if len(order) == 0 {
		return nil, nil
	}

	deltas := make([]domain.Deduction, 0, len(order))
	for _, id := range order {
		deltas = append(deltas, domain.Deduction{IngredientID: id, Amount: needs[id]})
	}

	if err := s.DeductSupplies(ctx, deltas); err != nil {
		var conflict *SupplyConflictError
		if errors.As(err, &conflict) && len(conflict.IngredientIDs) > 0 {
			return nil, &domain.InsufficientStockError{ItemName: firstConsumer[conflict.IngredientIDs[0]]}
		}
		return nil, err
	}
	return deltas, nil
}
