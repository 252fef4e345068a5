package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// AnonymousCustomer is the sentinel customer id for walk-in orders.
// Orders carrying it never touch the loyalty ledger.
const AnonymousCustomer int64 = 0

// CartLine is one not-yet-validated entry of a submitted cart. Quantity
// arrives as a float because kiosk clients are loosely typed; validation
// floors it.
type CartLine struct {
	MenuItemID    int64           `json:"menu_item_id"`
	ItemName      string          `json:"item_name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      float64         `json:"quantity"`
	Customization json.RawMessage `json:"customization,omitempty"`
}

// Cart is the raw request-shaped order payload. The fulfillment engine
// never trusts it: everything past ValidateCart handles ValidatedCart.
type Cart struct {
	Lines          []CartLine `json:"items"`
	CustomerID     int64      `json:"customer_id,omitempty"`
	CashierID      int64      `json:"cashier_id,omitempty"`
	PaymentMethod  string     `json:"payment_method,omitempty"`
	PointsToRedeem int64      `json:"points_to_redeem,omitempty"`
}

type ValidatedLine struct {
	MenuItemID    int64
	ItemName      string
	Quantity      int
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
	Customization json.RawMessage
}

type ValidatedCart struct {
	Lines          []ValidatedLine
	CustomerID     int64
	CashierID      int64
	PaymentMethod  string
	PointsToRedeem int64
	Subtotal       decimal.Decimal
}

type Defaults struct {
	PaymentMethod string
}

// ValidateCart checks the cart shape and produces the strict form consumed
// by the fulfillment engine. Missing optional fields get policy defaults;
// any structural fault returns a *ValidationError with nothing mutated.
func ValidateCart(c Cart, d Defaults) (ValidatedCart, error) {
	if len(c.Lines) == 0 {
		return ValidatedCart{}, &ValidationError{Reason: "cart is empty"}
	}
	if c.CustomerID < 0 || c.CashierID < 0 {
		return ValidatedCart{}, &ValidationError{Reason: "negative customer or cashier id"}
	}
	if c.PointsToRedeem < 0 {
		return ValidatedCart{}, &ValidationError{Reason: "negative points_to_redeem"}
	}
	if c.PointsToRedeem > 0 && c.CustomerID == AnonymousCustomer {
		return ValidatedCart{}, &ValidationError{Reason: "points_to_redeem requires a customer id"}
	}

	out := ValidatedCart{
		Lines:          make([]ValidatedLine, 0, len(c.Lines)),
		CustomerID:     c.CustomerID,
		CashierID:      c.CashierID,
		PaymentMethod:  c.PaymentMethod,
		PointsToRedeem: c.PointsToRedeem,
		Subtotal:       decimal.Zero,
	}
	if out.PaymentMethod == "" {
		out.PaymentMethod = d.PaymentMethod
	}

	for i, ln := range c.Lines {
		if ln.MenuItemID <= 0 {
			return ValidatedCart{}, &ValidationError{Reason: fmt.Sprintf("line %d: missing menu_item_id", i)}
		}
		if ln.ItemName == "" {
			return ValidatedCart{}, &ValidationError{Reason: fmt.Sprintf("line %d: missing item_name", i)}
		}
		qty := int(math.Floor(ln.Quantity))
		if qty <= 0 {
			return ValidatedCart{}, &ValidationError{Reason: fmt.Sprintf("line %d: quantity must be a positive integer", i)}
		}
		if ln.UnitPrice.IsNegative() {
			return ValidatedCart{}, &ValidationError{Reason: fmt.Sprintf("line %d: negative unit_price", i)}
		}
		total := ln.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		out.Lines = append(out.Lines, ValidatedLine{
			MenuItemID:    ln.MenuItemID,
			ItemName:      ln.ItemName,
			Quantity:      qty,
			UnitPrice:     ln.UnitPrice,
			LineTotal:     total,
			Customization: ln.Customization,
		})
		out.Subtotal = out.Subtotal.Add(total)
	}
	return out, nil
}
