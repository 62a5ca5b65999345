package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Asekrisaif/mediasoft-api/config"
	invoiceControllers "github.com/Asekrisaif/mediasoft-api/controllers/invoice"
	"github.com/Asekrisaif/mediasoft-api/middleware"
)

func SetupInvoiceRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	invoice := r.Group("/invoice", middleware.ValidateToken(cfg.JWTSecret))
	{
		// Download is restricted to the order's owning customer
		invoice.GET("/:orderID", invoiceControllers.DownloadInvoiceHandler(db))
	}
}
