package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Asekrisaif/mediasoft-api/config"
	paymentControllers "github.com/Asekrisaif/mediasoft-api/controllers/payment"
	"github.com/Asekrisaif/mediasoft-api/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, gateway *paymentControllers.Gateway) {
	payment := r.Group("/payment")
	{
		// Client-side confirmation after the hosted payment page redirect
		payment.POST("/confirm", paymentControllers.ConfirmCardPaymentHandler(db, gateway))

		// Webhook endpoint: middleware handles sandbox/prod verification
		payment.POST("/webhook",
			middleware.GatewayWebhookAuth(cfg.Gateway),
			paymentControllers.GatewayWebhookHandler(db, gateway),
		)
	}
}
