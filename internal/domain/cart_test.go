package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func validLine() CartLine {
	return CartLine{MenuItemID: 1, ItemName: "Taro Milk Tea", UnitPrice: price("4.50"), Quantity: 2}
}

func TestValidateCartComputesTotals(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		validLine(),
		{MenuItemID: 2, ItemName: "Espresso", UnitPrice: price("2.25"), Quantity: 1},
	}}
	vc, err := ValidateCart(cart, Defaults{PaymentMethod: "cash"})
	require.NoError(t, err)

	require.Len(t, vc.Lines, 2)
	assert.True(t, vc.Lines[0].LineTotal.Equal(price("9.00")), "line total %s", vc.Lines[0].LineTotal)
	assert.True(t, vc.Subtotal.Equal(price("11.25")), "subtotal %s", vc.Subtotal)
	assert.Equal(t, "cash", vc.PaymentMethod)
	assert.Equal(t, AnonymousCustomer, vc.CustomerID)
}

func TestValidateCartFloorsQuantities(t *testing.T) {
	ln := validLine()
	ln.Quantity = 2.9
	vc, err := ValidateCart(Cart{Lines: []CartLine{ln}}, Defaults{PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, 2, vc.Lines[0].Quantity)
	assert.True(t, vc.Lines[0].LineTotal.Equal(price("9.00")))
}

func TestValidateCartKeepsExplicitPaymentMethod(t *testing.T) {
	cart := Cart{Lines: []CartLine{validLine()}, PaymentMethod: "card"}
	vc, err := ValidateCart(cart, Defaults{PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, "card", vc.PaymentMethod)
}

func TestValidateCartRejections(t *testing.T) {
	base := func() Cart { return Cart{Lines: []CartLine{validLine()}} }

	tests := []struct {
		name   string
		mutate func(*Cart)
	}{
		{"empty cart", func(c *Cart) { c.Lines = nil }},
		{"zero quantity", func(c *Cart) { c.Lines[0].Quantity = 0 }},
		{"fractional quantity below one", func(c *Cart) { c.Lines[0].Quantity = 0.5 }},
		{"negative quantity", func(c *Cart) { c.Lines[0].Quantity = -1 }},
		{"missing item id", func(c *Cart) { c.Lines[0].MenuItemID = 0 }},
		{"missing item name", func(c *Cart) { c.Lines[0].ItemName = "" }},
		{"negative unit price", func(c *Cart) { c.Lines[0].UnitPrice = price("-1") }},
		{"negative customer id", func(c *Cart) { c.CustomerID = -5 }},
		{"negative redemption", func(c *Cart) { c.PointsToRedeem = -1 }},
		{"redemption without customer", func(c *Cart) { c.PointsToRedeem = 10 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cart := base()
			tc.mutate(&cart)
			_, err := ValidateCart(cart, Defaults{PaymentMethod: "cash"})
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}
