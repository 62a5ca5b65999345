package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Asekrisaif/mediasoft-api/config"
	notifierControllers "github.com/Asekrisaif/mediasoft-api/controllers/notifier"
	orderControllers "github.com/Asekrisaif/mediasoft-api/controllers/order"
	paymentControllers "github.com/Asekrisaif/mediasoft-api/controllers/payment"
	"github.com/Asekrisaif/mediasoft-api/middleware"
)

func SetupOrderRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg config.Config,
	gateway *paymentControllers.Gateway,
	notifier *notifierControllers.Notifier,
	hub *orderControllers.Hub,
) {
	orders := r.Group("/orders")
	{
		// Create a new order from the caller's cart
		orders.POST("/", orderControllers.CreateOrderHandler(db, cfg.DeliveryFee, gateway, notifier, hub))

		// Finalize a delivery; creates the payment record for cash orders
		orders.POST("/:orderID/confirm-delivery", orderControllers.ConfirmDeliveryHandler(db))

		// Fetch a single order by id or order_ref
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		// Fetch orders for a specific user
		orders.GET("/user/:userID", orderControllers.GetUserOrdersHandler(db))

		// Fetch all orders (admin)
		orders.GET("/", middleware.ValidateAPIKey(cfg.AdminAPIKey), orderControllers.GetAllOrdersHandler(db))

		// websocket endpoint for real-time order updates (admin dashboards)
		orders.GET("/ws", hub.Handler())
	}
}
