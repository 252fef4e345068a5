package fulfillment

import (
	"context"

	"github.com/shopspring/decimal"
)

// CheckAvailability reports whether the requested quantity of a menu item
// is coverable by current supply. Reads go through the active transaction,
// not a stale snapshot. An item with no recipe is always available.
func CheckAvailability(ctx context.Context, s Store, menuItemID int64, quantity int) (bool, error) {
	recipe, err := s.Recipe(ctx, menuItemID)
	if err != nil {
		return false, err
	}
	if len(recipe) == 0 {
		return true, nil
	}

	ids := make([]int64, 0, len(recipe))
	for _, rl := range recipe {
		ids = append(ids, rl.IngredientID)
	}
	supplies, err := s.Supplies(ctx, ids)
	if err != nil {
		return false, err
	}

	qty := decimal.NewFromInt(int64(quantity))
	for _, rl := range recipe {
		needed := rl.QuantityPerUnit.Mul(qty)
		supply, ok := supplies[rl.IngredientID]
		if !ok || supply.LessThan(needed) {
			return false, nil
		}
	}
	return true, nil
}
