package fulfillment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-system/internal/fulfillment"
)

func TestCheckAvailabilityBoundary(t *testing.T) {
	st := newMemState()
	st.recipes[1] = []fulfillment.RecipeLine{{IngredientID: 10, QuantityPerUnit: dec("0.25")}}
	st.supplies[10] = dec("0.5")
	s := &memStore{st: st}

	ok, err := fulfillment.CheckAvailability(context.Background(), s, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok, "exactly sufficient supply must pass")

	ok, err = fulfillment.CheckAvailability(context.Background(), s, 1, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckAvailabilityUnknownIngredient(t *testing.T) {
	st := newMemState()
	st.recipes[1] = []fulfillment.RecipeLine{{IngredientID: 99, QuantityPerUnit: dec("1")}}
	s := &memStore{st: st}

	ok, err := fulfillment.CheckAvailability(context.Background(), s, 1, 1)
	require.NoError(t, err)
	assert.False(t, ok, "missing inventory row counts as no supply")
}
