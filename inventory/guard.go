// Package inventory validates requested quantities against current stock and
// computes post-sale stock levels. The checkout flow runs CheckAvailability
// twice: once before the transaction as a fast fail, and once on locked rows
// inside it, which is the authoritative check under concurrent checkouts.
package inventory

import (
	"fmt"

	"github.com/Asekrisaif/mediasoft-api/models"
)

// InsufficientStockError reports a cart line asking for more units than the
// product currently has. It is a client error, not a server failure.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// ProductMissingError reports a cart line whose product cannot be resolved.
type ProductMissingError struct {
	ProductID uint
}

func (e *ProductMissingError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// CheckAvailability fails on the first cart line whose product is missing or
// whose requested quantity exceeds current stock.
func CheckAvailability(items []models.CartItem, products map[uint]*models.Product) error {
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok || product == nil {
			return &ProductMissingError{ProductID: item.ProductID}
		}
		if item.Quantity > product.Stock {
			return &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Stock,
			}
		}
	}
	return nil
}

// ApplyDecrement deducts qty from the product's stock. The guard must already
// have passed; a negative result means the callers raced without locks.
func ApplyDecrement(product *models.Product, qty int) (int, error) {
	newStock := product.Stock - qty
	if newStock < 0 {
		return product.Stock, &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   qty,
			Available:   product.Stock,
		}
	}
	product.Stock = newStock
	return newStock, nil
}

// IsLowStock reports whether a post-sale stock level is at or under the
// product's reorder threshold. Low stock triggers an alert, never a block.
func IsLowStock(newStock, threshold int) bool {
	return newStock <= threshold
}
