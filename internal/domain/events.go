package domain

import "github.com/shopspring/decimal"

type OrderLineMsg struct {
	MenuItemID int64           `json:"menu_item_id"`
	ItemName   string          `json:"item_name"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// OrderCompletedEvent is published to the orders topic exchange after a
// successful commit.
type OrderCompletedEvent struct {
	OrderID       int64           `json:"order_id"`
	CustomerID    int64           `json:"customer_id"`
	CashierID     int64           `json:"cashier_id"`
	PaymentMethod string          `json:"payment_method"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	PointsEarned  int64           `json:"points_earned"`
	Lines         []OrderLineMsg  `json:"items"`
}
