package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Asekrisaif/mediasoft-api/config"
	adminControllers "github.com/Asekrisaif/mediasoft-api/controllers/admin"
	"github.com/Asekrisaif/mediasoft-api/middleware"
)

func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	admin := r.Group("/admin", middleware.ValidateAPIKey(cfg.AdminAPIKey))
	{
		// Order book spreadsheet export
		admin.GET("/orders/export", adminControllers.ExportOrdersToExcel(db))
	}
}
