package orderControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Asekrisaif/mediasoft-api/inventory"
	"github.com/Asekrisaif/mediasoft-api/models"
)

// CardGateway opens a hosted payment session for a committed order. It is
// called only after the checkout transaction has committed, so no lock is
// ever held across the network round trip.
type CardGateway interface {
	CreateSession(order models.Order, user models.User) (redirectURL, sessionRef string, err error)
}

// LowStockNotifier receives the low-stock batch collected during checkout.
// Implementations run post-commit and must swallow their own failures.
type LowStockNotifier interface {
	NotifyLowStock(batch []LowStockProduct)
}

// -------- Request Structs --------

type ConfirmDeliveryRequest struct {
	AmountCollected float64 `json:"amount_collected" binding:"required"`
	Method          string  `json:"method" binding:"required"`
	CarrierName     string  `json:"carrier_name"`
}

// -------- Handlers --------

// CreateOrderHandler runs the checkout: coordinator transaction first, then
// the payment branch and fire-and-forget notifications.
func CreateOrderHandler(db *gorm.DB, deliveryFee float64, gateway CardGateway, notifier LowStockNotifier, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}

		result, err := PlaceOrder(db, deliveryFee, req)
		if err != nil {
			respondCheckoutError(c, err)
			return
		}
		order := result.Order

		// Side effects below run against a committed order; none of them can
		// undo it.
		if notifier != nil && len(result.LowStock) > 0 {
			go notifier.NotifyLowStock(result.LowStock)
		}
		if hub != nil {
			hub.Broadcast(order)
		}

		if order.PaymentMethod == models.PaymentMethodCash {
			c.JSON(http.StatusCreated, gin.H{
				"payment_required": false,
				"order_id":         order.ID,
				"order_ref":        order.OrderRef,
				"amount_due":       order.AmountDue,
			})
			return
		}

		redirectURL, sessionRef, err := gateway.CreateSession(order, result.User)
		if err != nil {
			// The order stands; only the payment session failed to open.
			log.Printf("payment session for order %s failed: %v", order.OrderRef, err)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":    "failed to open payment session",
				"order_id": order.ID,
			})
			return
		}

		// Card orders start preparing while the customer completes payment.
		if err := db.Model(&models.Delivery{}).Where("order_id = ?", order.ID).
			Update("status", models.DeliveryStatusPreparing).Error; err != nil {
			log.Printf("failed to mark order %s preparing: %v", order.OrderRef, err)
		}

		c.JSON(http.StatusCreated, gin.H{
			"payment_required": true,
			"order_id":         order.ID,
			"order_ref":        order.OrderRef,
			"amount_due":       order.AmountDue,
			"redirect_url":     redirectURL,
			"payment_ref":      sessionRef,
		})
	}
}

// ConfirmDeliveryHandler finalizes a delivery. For cash orders this is also
// the moment the payment record is written.
func ConfirmDeliveryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req ConfirmDeliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
		method, err := mapPaymentMethod(req.Method)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		var delivery models.Delivery
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
				return err
			}
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&delivery, "order_id = ?", order.ID).Error; err != nil {
				return err
			}

			delivery.Status = models.DeliveryStatusDelivered
			if strings.TrimSpace(req.CarrierName) != "" {
				agent := strings.TrimSpace(req.CarrierName)
				delivery.Agent = &agent
			}
			delivery.Note = fmt.Sprintf("%s | settled %s %.2f", delivery.Note, method, req.AmountCollected)
			delivery.UpdatedAt = time.Now()
			if err := tx.Save(&delivery).Error; err != nil {
				return err
			}

			if method == models.PaymentMethodCash {
				// Cash is collected at handover; the payment record exists
				// only from this point.
				var existing models.Payment
				err := tx.First(&existing, "order_id = ?", order.ID).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					if err := tx.Create(&models.Payment{
						OrderID: order.ID,
						Amount:  req.AmountCollected,
						Method:  models.PaymentMethodCash,
						Status:  models.PaymentStatusPaid,
					}).Error; err != nil {
						return err
					}
				} else if err != nil {
					return err
				}
				if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
					Update("payment_status", models.PaymentStatusPaid).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			log.Printf("confirm delivery for order %s failed: %v", orderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm delivery"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id":    order.ID,
			"delivery_id": delivery.ID,
		})
	}
}

func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Delivery").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Preload("Delivery").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderByIDHandler accepts a numeric id or an order_ref.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Delivery").
			Where("id::text = ? OR order_ref = ?", id, id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// respondCheckoutError maps coordinator failures onto HTTP statuses. Client
// errors carry the offending detail; server errors stay generic and go to
// the log instead.
func respondCheckoutError(c *gin.Context, err error) {
	var stockErr *inventory.InsufficientStockError
	var missingErr *inventory.ProductMissingError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":   stockErr.Error(),
			"product": stockErr.ProductName,
		})
	case errors.As(err, &missingErr):
		c.JSON(http.StatusNotFound, gin.H{"error": missingErr.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart or customer not found"})
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrCartTotalMismatch),
		errors.Is(err, ErrMissingAddress),
		errors.Is(err, ErrInvalidPaymentMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("checkout failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
	}
}
