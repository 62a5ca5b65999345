package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Asekrisaif/mediasoft-api/config"
	notifierControllers "github.com/Asekrisaif/mediasoft-api/controllers/notifier"
	orderControllers "github.com/Asekrisaif/mediasoft-api/controllers/order"
	paymentControllers "github.com/Asekrisaif/mediasoft-api/controllers/payment"
)

// SetupRoutes is the single entry-point that wires up the order, payment,
// invoice and admin route groups.
func SetupRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg config.Config,
	gateway *paymentControllers.Gateway,
	notifier *notifierControllers.Notifier,
	hub *orderControllers.Hub,
) {
	SetupOrderRoutes(r, db, cfg, gateway, notifier, hub)

	SetupPaymentRoutes(r, db, cfg, gateway)

	SetupInvoiceRoutes(r, db, cfg)

	SetupAdminRoutes(r, db, cfg)
}
