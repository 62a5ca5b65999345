package inventory

import (
	"errors"
	"testing"

	"github.com/Asekrisaif/mediasoft-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAvailability(t *testing.T) {
	products := map[uint]*models.Product{
		1: {ID: 1, Name: "Mug", Stock: 2},
		2: {ID: 2, Name: "Poster", Stock: 10},
	}

	t.Run("all lines in stock", func(t *testing.T) {
		items := []models.CartItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		}
		assert.NoError(t, CheckAvailability(items, products))
	})

	t.Run("requested more than stock", func(t *testing.T) {
		items := []models.CartItem{{ProductID: 1, Quantity: 3}}
		err := CheckAvailability(items, products)
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Mug", stockErr.ProductName)
		assert.Equal(t, 3, stockErr.Requested)
		assert.Equal(t, 2, stockErr.Available)
	})

	t.Run("unknown product", func(t *testing.T) {
		items := []models.CartItem{{ProductID: 99, Quantity: 1}}
		err := CheckAvailability(items, products)
		var missingErr *ProductMissingError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, uint(99), missingErr.ProductID)
	})
}

func TestApplyDecrement(t *testing.T) {
	p := &models.Product{ID: 1, Name: "Mug", Stock: 10}

	newStock, err := ApplyDecrement(p, 6)
	require.NoError(t, err)
	assert.Equal(t, 4, newStock)
	assert.Equal(t, 4, p.Stock)

	_, err = ApplyDecrement(p, 5)
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 4, p.Stock) // untouched on failure
}

func TestIsLowStock(t *testing.T) {
	assert.True(t, IsLowStock(4, 5))
	assert.True(t, IsLowStock(5, 5)) // at threshold counts
	assert.False(t, IsLowStock(6, 5))
	assert.True(t, IsLowStock(0, 0))
}
