package invoiceControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Asekrisaif/mediasoft-api/models"
)

// Send writes the invoice PDF to the response as a download.
func Send(c *gin.Context, order models.Order, user models.User) error {
	data, err := Build(order, user)
	if err != nil {
		return err
	}
	c.Header("Content-Disposition", "attachment; filename="+Filename(order))
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, "application/pdf", data)
	return nil
}

// DownloadInvoiceHandler serves an order's invoice to its owning customer.
// The JWT middleware has already placed user_id in the context.
func DownloadInvoiceHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, _ := userIDVal.(string)

		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Delivery").
			Where("id::text = ? OR order_ref = ?", orderID, orderID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
			return
		}

		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
			return
		}

		if err := Send(c, order, order.User); err != nil {
			log.Printf("invoice generation for order %s failed: %v", order.OrderRef, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate invoice"})
		}
	}
}
