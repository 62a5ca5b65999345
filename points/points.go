// Package points implements the loyalty point economy: points earned from a
// cart and the discount a customer can buy with their balance. Everything here
// is pure arithmetic; the checkout transaction decides when to apply it.
package points

import (
	"math"

	"github.com/Asekrisaif/mediasoft-api/models"
)

const (
	// BatchSize points buy one discount batch.
	BatchSize = 100
	// PercentPerBatch of the cart total is discounted per redeemed batch.
	PercentPerBatch = 10
	// MaxBatches caps redemption, bounding the discount at 50%.
	MaxBatches = 5
)

// Discount is the outcome of redeeming a point balance against a cart total.
// A zero Discount means the balance was too small to redeem, not an error.
type Discount struct {
	Percentage     int     `json:"percentage"`
	Amount         float64 `json:"amount"`
	PointsRedeemed int     `json:"points_redeemed"`
}

// Earned sums the points a cart accrues: points-per-unit captured on each
// line, times quantity.
func Earned(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.PointsPerUnit * item.Quantity
	}
	return total
}

// ComputeDiscount converts an available point balance into a percentage
// discount on cartTotal. Points redeem in batches of 100, each worth 10%,
// capped at 5 batches. cartTotal must be non-negative; the caller validates.
func ComputeDiscount(availablePoints int, cartTotal float64) Discount {
	batches := availablePoints / BatchSize
	if batches > MaxBatches {
		batches = MaxBatches
	}
	if batches <= 0 {
		return Discount{}
	}
	percentage := batches * PercentPerBatch
	return Discount{
		Percentage:     percentage,
		Amount:         Round2(cartTotal * float64(percentage) / 100),
		PointsRedeemed: batches * BatchSize,
	}
}

// Round2 rounds a monetary amount to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
