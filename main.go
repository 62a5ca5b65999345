package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Asekrisaif/mediasoft-api/config"
	notifierControllers "github.com/Asekrisaif/mediasoft-api/controllers/notifier"
	orderControllers "github.com/Asekrisaif/mediasoft-api/controllers/order"
	paymentControllers "github.com/Asekrisaif/mediasoft-api/controllers/payment"
	"github.com/Asekrisaif/mediasoft-api/models"
	"github.com/Asekrisaif/mediasoft-api/routes"
)

func main() {
	log.Println("✅ Starting application...")

	cfg := config.Load()

	// Init DB
	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Admin{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Delivery{},
		&models.Payment{},
		&models.PurchaseEntry{},
		&models.PointEntry{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Engine collaborators, constructed once and injected
	gateway := paymentControllers.NewGateway(cfg.Gateway)
	notifier := notifierControllers.NewNotifier(db, notifierControllers.NewSMTPMailer(cfg.SMTP))
	hub := orderControllers.NewHub()

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, cfg, gateway, notifier, hub)

	// Start server
	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	return db
}
