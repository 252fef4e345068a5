package domain

import "github.com/shopspring/decimal"

// MenuItem is the sellable catalog entry the load generator samples from.
// Menu management itself lives outside the fulfillment core.
type MenuItem struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}
