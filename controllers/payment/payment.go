package paymentControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	invoiceControllers "github.com/Asekrisaif/mediasoft-api/controllers/invoice"
	"github.com/Asekrisaif/mediasoft-api/models"
)

// ErrNotConfirmed means the gateway session exists but has not captured the
// payment (declined, cancelled, or still in progress).
var ErrNotConfirmed = errors.New("payment not confirmed")

type ConfirmPaymentRequest struct {
	OrderID    string `json:"order_id" binding:"required"`
	PaymentRef string `json:"payment_ref" binding:"required"`
}

// recordCardPayment writes the paid Payment row for a captured session.
// First-wins: the unique index on gateway_ref plus the in-transaction lookup
// make a repeated confirmation return the existing row instead of a second
// one.
func recordCardPayment(db *gorm.DB, order models.Order, status *SessionStatus) (models.Payment, error) {
	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&payment, "gateway_ref = ?", status.Ref).Error
		if err == nil {
			return nil // already recorded by an earlier confirmation
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		ref := status.Ref
		payment = models.Payment{
			OrderID:    order.ID,
			Amount:     order.AmountDue,
			Method:     models.PaymentMethodCard,
			Status:     models.PaymentStatusPaid,
			CardBrand:  status.CardBrand,
			CardLast4:  status.CardLast4,
			CardExpiry: status.CardExpiry,
			GatewayRef: &ref,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("payment_status", models.PaymentStatusPaid).Error
	})
	if err != nil {
		// Two simultaneous confirmations can both miss the lookup; the
		// unique index lets only one insert through. The loser finds the
		// winner's row here.
		var existing models.Payment
		if lookupErr := db.First(&existing, "gateway_ref = ?", status.Ref).Error; lookupErr == nil {
			return existing, nil
		}
		return models.Payment{}, err
	}
	return payment, nil
}

// confirmCardPayment verifies a session against the gateway and records the
// payment. Shared by the client-initiated confirm endpoint and the webhook.
func confirmCardPayment(db *gorm.DB, gateway *Gateway, order models.Order, paymentRef string) (models.Payment, error) {
	status, err := gateway.CheckSession(paymentRef)
	if err != nil {
		return models.Payment{}, err
	}
	if !status.Succeeded() {
		return models.Payment{}, fmt.Errorf("%w: gateway status %q", ErrNotConfirmed, status.StatusText)
	}
	if status.OrderRef != "" && status.OrderRef != order.OrderRef {
		return models.Payment{}, fmt.Errorf("payment session belongs to order %s, not %s",
			status.OrderRef, order.OrderRef)
	}
	return recordCardPayment(db, order, status)
}

// ConfirmCardPaymentHandler finishes the card flow: verify the capture with
// the gateway, record the payment idempotently, then stream the invoice.
func ConfirmCardPaymentHandler(db *gorm.DB, gateway *Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}

		var order models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Delivery").
			Where("id::text = ? OR order_ref = ?", req.OrderID, req.OrderID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
			return
		}

		if _, err := confirmCardPayment(db, gateway, order, req.PaymentRef); err != nil {
			if errors.Is(err, ErrNotConfirmed) {
				c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
				return
			}
			log.Printf("confirm payment for order %s failed: %v", order.OrderRef, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to confirm payment"})
			return
		}

		// The payment is recorded; an invoice failure is its own error and
		// never unwinds the order.
		if err := invoiceControllers.Send(c, order, order.User); err != nil {
			log.Printf("invoice generation for order %s failed: %v", order.OrderRef, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    "payment confirmed but invoice generation failed",
				"order_id": order.ID,
			})
		}
	}
}

// GatewayWebhookHandler is the gateway-initiated confirmation path. The
// signature middleware has already verified the form payload.
func GatewayWebhookHandler(db *gorm.DB, gateway *Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			return
		}

		orderRef := c.PostForm("tran_cartid")
		sessionRef := c.PostForm("tran_ref")
		tranStatus := c.PostForm("tran_status") // "A" = approved

		if orderRef == "" || sessionRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing tran_cartid or tran_ref"})
			return
		}
		if tranStatus != "A" {
			c.JSON(http.StatusOK, gin.H{"message": "Payment not successful"})
			return
		}

		var order models.Order
		if err := db.First(&order, "order_ref = ?", orderRef).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
			return
		}

		if _, err := confirmCardPayment(db, gateway, order, sessionRef); err != nil {
			log.Printf("webhook confirmation for order %s failed: %v", orderRef, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Payment recorded"})
	}
}
