package domain

import "github.com/shopspring/decimal"

// Deduction records one applied inventory decrement, for audit logs and
// the load generator's bookkeeping.
type Deduction struct {
	IngredientID int64           `json:"ingredient_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// OrderReceipt is the orchestrator's success result.
type OrderReceipt struct {
	OrderID      int64           `json:"order_id"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	PointsEarned int64           `json:"points_earned"`
	Deductions   []Deduction     `json:"-"`
}
