package orderControllers

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Asekrisaif/mediasoft-api/inventory"
	"github.com/Asekrisaif/mediasoft-api/models"
	"github.com/Asekrisaif/mediasoft-api/points"
)

// deliveryLeadDays is added to the order date to get the target delivery date.
const deliveryLeadDays = 3

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCartTotalMismatch    = errors.New("cart total does not match its line subtotals")
	ErrMissingAddress       = errors.New("delivery address is required for home delivery")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// CheckoutRequest is the create-order payload.
type CheckoutRequest struct {
	CartID          uint   `json:"cart_id" binding:"required"`
	RedeemPoints    bool   `json:"redeem_points"`
	PaymentMethod   string `json:"payment_method" binding:"required"` // "cash" or "card"
	HomeDelivery    bool   `json:"home_delivery"`
	DeliveryAddress string `json:"delivery_address"`
}

// LowStockProduct is a product whose stock crossed its reorder threshold
// during checkout. Collected for the post-commit notifier; never blocks.
type LowStockProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	NewStock  int    `json:"new_stock"`
	Threshold int    `json:"threshold"`
}

// CheckoutResult is what PlaceOrder hands back after its transaction commits.
type CheckoutResult struct {
	Order    models.Order
	User     models.User
	LowStock []LowStockProduct
}

// Map string to PaymentMethod
func mapPaymentMethod(method string) (models.PaymentMethod, error) {
	switch strings.ToLower(method) {
	case string(models.PaymentMethodCash):
		return models.PaymentMethodCash, nil
	case string(models.PaymentMethodCard):
		return models.PaymentMethodCard, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// Generate unique order reference
func generateOrderRef() string {
	// Example: 20250908130500-<uuid4>
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// amountDue applies the order money invariant: total - discount + delivery fee.
func amountDue(total, discount, deliveryFee float64) float64 {
	return points.Round2(total - discount + deliveryFee)
}

// PlaceOrder converts a cart into a committed order. Everything that mutates
// state — stock decrements, order and delivery creation, the point balance
// update and both ledger appends — runs in a single transaction over FOR
// UPDATE locked rows, so a failed attempt leaves nothing behind and two
// concurrent checkouts can never both spend the same stock or points.
//
// Payment dispatch and low-stock alerts happen strictly after this returns.
func PlaceOrder(db *gorm.DB, deliveryFee float64, req CheckoutRequest) (*CheckoutResult, error) {
	method, err := mapPaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if req.HomeDelivery && strings.TrimSpace(req.DeliveryAddress) == "" {
		return nil, ErrMissingAddress
	}

	var cart models.Cart
	if err := db.Preload("Items").First(&cart, "cart_id = ?", req.CartID).Error; err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Customer lookup is a precondition, checked before the transaction.
	var user models.User
	if err := db.First(&user, "id = ?", cart.UserID).Error; err != nil {
		return nil, err
	}

	// The cart total must equal its line subtotals. Enforced upstream,
	// verified here before any money math depends on it.
	var lineSum float64
	for _, item := range cart.Items {
		lineSum += item.Subtotal
	}
	if points.Round2(lineSum) != points.Round2(cart.Total) {
		return nil, ErrCartTotalMismatch
	}

	// Fast-fail availability check against unlocked stock. The authoritative
	// check runs again inside the transaction on locked rows.
	preProducts := make(map[uint]*models.Product)
	for _, item := range cart.Items {
		var product models.Product
		if err := db.First(&product, "id = ?", item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &inventory.ProductMissingError{ProductID: item.ProductID}
			}
			return nil, err
		}
		preProducts[product.ID] = &product
	}
	if err := inventory.CheckAvailability(cart.Items, preProducts); err != nil {
		return nil, err
	}

	result := &CheckoutResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		// Re-resolve every product under a row lock and re-run the guard:
		// a concurrent checkout may have depleted stock since the pre-check.
		locked := make(map[uint]*models.Product)
		for _, item := range cart.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &inventory.ProductMissingError{ProductID: item.ProductID}
				}
				return err
			}
			locked[product.ID] = &product
		}
		if err := inventory.CheckAvailability(cart.Items, locked); err != nil {
			return err
		}

		// Debit stock, flagging anything that crosses its reorder threshold.
		var lowStock []LowStockProduct
		for _, item := range cart.Items {
			product := locked[item.ProductID]
			newStock, err := inventory.ApplyDecrement(product, item.Quantity)
			if err != nil {
				return err
			}
			if err := tx.Save(product).Error; err != nil {
				return err
			}
			if inventory.IsLowStock(newStock, product.ReorderThreshold) {
				lowStock = append(lowStock, LowStockProduct{
					ProductID: product.ID,
					Name:      product.Name,
					NewStock:  newStock,
					Threshold: product.ReorderThreshold,
				})
			}
		}

		// Lock the customer row: the discount must come from the current
		// balance, and the balance update below must not race another order.
		var customer models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&customer, "id = ?", cart.UserID).Error; err != nil {
			return err
		}

		earned := points.Earned(cart.Items)
		var discount points.Discount
		if req.RedeemPoints {
			discount = points.ComputeDiscount(customer.Points, cart.Total)
		}

		fee := 0.0
		note := models.PickupNote
		if req.HomeDelivery {
			fee = deliveryFee
			note = req.DeliveryAddress
		}

		now := time.Now()
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			items = append(items, models.OrderItem{
				ProductID:     item.ProductID,
				ProductName:   item.ProductName,
				UnitPrice:     item.UnitPrice,
				Subtotal:      item.Subtotal,
				PointsPerUnit: item.PointsPerUnit,
				Quantity:      item.Quantity,
			})
		}

		order := models.Order{
			OrderRef:       generateOrderRef(),
			UserID:         cart.UserID,
			CartID:         cart.CartID,
			Items:          items,
			Total:          points.Round2(cart.Total),
			Discount:       discount.Amount,
			DeliveryFee:    fee,
			AmountDue:      amountDue(cart.Total, discount.Amount, fee),
			PointsEarned:   earned,
			PointsRedeemed: discount.PointsRedeemed,
			DeliveryDate:   now.AddDate(0, 0, deliveryLeadDays),
			Delivery: models.Delivery{
				Status: models.DeliveryStatusPending,
				Note:   note,
			},
			PaymentMethod: method,
			PaymentStatus: models.PaymentStatusPending,
			CreatedAt:     now,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		newBalance := customer.Points - discount.PointsRedeemed + earned
		if newBalance < 0 {
			// ComputeDiscount caps redemption at the available balance.
			return errors.New("point balance would go negative")
		}
		if err := tx.Model(&models.User{}).Where("id = ?", customer.ID).
			Update("points", newBalance).Error; err != nil {
			return err
		}

		entryType := models.PointEntryAccrual
		if discount.PointsRedeemed > 0 {
			entryType = models.PointEntryRedemption
		}
		if err := tx.Create(&models.PurchaseEntry{
			UserID:         customer.ID,
			OrderID:        order.ID,
			ItemCount:      len(order.Items),
			Total:          order.Total,
			Discount:       order.Discount,
			DeliveryFee:    order.DeliveryFee,
			AmountDue:      order.AmountDue,
			PointsEarned:   earned,
			PointsRedeemed: discount.PointsRedeemed,
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.PointEntry{
			UserID:  customer.ID,
			OrderID: order.ID,
			Type:    entryType,
			Delta:   earned - discount.PointsRedeemed,
			Balance: newBalance,
		}).Error; err != nil {
			return err
		}

		// The cart is consumed exactly once.
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		customer.Points = newBalance
		result.Order = order
		result.User = customer
		result.LowStock = lowStock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
