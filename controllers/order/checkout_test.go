package orderControllers

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Asekrisaif/mediasoft-api/inventory"
	"github.com/Asekrisaif/mediasoft-api/models"
)

func TestMapPaymentMethod(t *testing.T) {
	m, err := mapPaymentMethod("cash")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCash, m)

	m, err = mapPaymentMethod("CARD")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCard, m)

	_, err = mapPaymentMethod("cheque")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestGenerateOrderRef(t *testing.T) {
	ref := generateOrderRef()
	assert.Regexp(t, regexp.MustCompile(`^\d{14}-[0-9a-f-]{36}$`), ref)
	assert.NotEqual(t, ref, generateOrderRef())
}

func TestAmountDue(t *testing.T) {
	assert.Equal(t, 183.0, amountDue(250, 75, 8))
	assert.Equal(t, 250.0, amountDue(250, 0, 0))
	assert.Equal(t, 90.0, amountDue(99.99, 9.999, 0.009))
}

// ---- DB-backed tests below run against TEST_DATABASE_URL (postgres) ----

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Admin{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Delivery{},
		&models.Payment{}, &models.PurchaseEntry{}, &models.PointEntry{},
	))
	db.Exec(`TRUNCATE users, products, admins, carts, cart_items, orders, order_items,
		deliveries, payments, purchase_entries, point_entries RESTART IDENTITY CASCADE`)
	return db
}

func seedCheckout(t *testing.T, db *gorm.DB, userID string, balance int, stock int, qty int) models.Cart {
	t.Helper()
	user := models.User{ID: userID, Email: userID + "@example.com", Name: "Test User", Points: balance}
	require.NoError(t, db.Create(&user).Error)

	product := models.Product{Name: "Desk Lamp " + userID, Price: 125, Stock: stock, ReorderThreshold: 5, PointsPerUnit: 5}
	require.NoError(t, db.Create(&product).Error)

	cart := models.Cart{
		UserID: userID,
		Total:  125 * float64(qty),
		Items: []models.CartItem{{
			ProductID:     product.ID,
			ProductName:   product.Name,
			UnitPrice:     125,
			Subtotal:      125 * float64(qty),
			PointsPerUnit: 5,
			Quantity:      qty,
			AddedAt:       time.Now(),
		}},
	}
	require.NoError(t, db.Create(&cart).Error)
	return cart
}

func TestPlaceOrder_RedeemAndHomeDelivery(t *testing.T) {
	db := openTestDB(t)
	cart := seedCheckout(t, db, "u1", 350, 10, 2) // total 250.00

	result, err := PlaceOrder(db, 8, CheckoutRequest{
		CartID:          cart.CartID,
		RedeemPoints:    true,
		PaymentMethod:   "cash",
		HomeDelivery:    true,
		DeliveryAddress: "12 Rue de la Paix",
	})
	require.NoError(t, err)
	order := result.Order

	assert.Equal(t, 250.0, order.Total)
	assert.Equal(t, 75.0, order.Discount) // 3 batches -> 30%
	assert.Equal(t, 8.0, order.DeliveryFee)
	assert.Equal(t, 183.0, order.AmountDue)
	assert.Equal(t, 300, order.PointsRedeemed)
	assert.Equal(t, 10, order.PointsEarned) // 5 points x 2 units
	assert.Equal(t, models.DeliveryStatusPending, order.Delivery.Status)
	assert.Equal(t, "12 Rue de la Paix", order.Delivery.Note)

	// balance = 350 - 300 + 10
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "u1").Error)
	assert.Equal(t, 60, user.Points)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", order.Items[0].ProductID).Error)
	assert.Equal(t, 8, product.Stock)

	var purchases []models.PurchaseEntry
	require.NoError(t, db.Where("user_id = ?", "u1").Find(&purchases).Error)
	require.Len(t, purchases, 1)
	assert.Equal(t, 183.0, purchases[0].AmountDue)

	var entries []models.PointEntry
	require.NoError(t, db.Where("user_id = ?", "u1").Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.PointEntryRedemption, entries[0].Type)
	assert.Equal(t, -290, entries[0].Delta)
	assert.Equal(t, 60, entries[0].Balance)

	// the cart was consumed
	var remaining int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&remaining)
	assert.Zero(t, remaining)
}

func TestPlaceOrder_PickupWithoutRedemption(t *testing.T) {
	db := openTestDB(t)
	cart := seedCheckout(t, db, "u2", 350, 10, 2)

	result, err := PlaceOrder(db, 8, CheckoutRequest{
		CartID:        cart.CartID,
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	order := result.Order

	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 0.0, order.DeliveryFee)
	assert.Equal(t, 250.0, order.AmountDue)
	assert.Equal(t, models.PickupNote, order.Delivery.Note)

	// balance only accrues
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "u2").Error)
	assert.Equal(t, 360, user.Points)

	var entries []models.PointEntry
	require.NoError(t, db.Where("user_id = ?", "u2").Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.PointEntryAccrual, entries[0].Type)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	db := openTestDB(t)
	cart := seedCheckout(t, db, "u3", 0, 2, 3) // stock 2, wants 3

	_, err := PlaceOrder(db, 8, CheckoutRequest{CartID: cart.CartID, PaymentMethod: "cash"})
	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Contains(t, stockErr.ProductName, "Desk Lamp")

	// no side effects
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
	var product models.Product
	require.NoError(t, db.First(&product, "name = ?", "Desk Lamp u3").Error)
	assert.Equal(t, 2, product.Stock)
}

func TestPlaceOrder_LowStockFlagged(t *testing.T) {
	db := openTestDB(t)
	cart := seedCheckout(t, db, "u4", 0, 10, 6) // 10 - 6 = 4 <= threshold 5

	result, err := PlaceOrder(db, 8, CheckoutRequest{CartID: cart.CartID, PaymentMethod: "cash"})
	require.NoError(t, err)
	require.Len(t, result.LowStock, 1)
	assert.Equal(t, 4, result.LowStock[0].NewStock)
	assert.Equal(t, 5, result.LowStock[0].Threshold)
}

func TestPlaceOrder_RollbackLeavesNothing(t *testing.T) {
	db := openTestDB(t)
	cart := seedCheckout(t, db, "u5", 350, 10, 2)

	// Force the ledger append to fail after the stock decrement has run.
	require.NoError(t, db.Migrator().DropTable(&models.PointEntry{}))
	defer func() { _ = db.AutoMigrate(&models.PointEntry{}) }()

	_, err := PlaceOrder(db, 8, CheckoutRequest{
		CartID:        cart.CartID,
		RedeemPoints:  true,
		PaymentMethod: "cash",
	})
	require.Error(t, err)

	var product models.Product
	require.NoError(t, db.First(&product, "name = ?", "Desk Lamp u5").Error)
	assert.Equal(t, 10, product.Stock)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "u5").Error)
	assert.Equal(t, 350, user.Points)

	var orders, items int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&items)
	assert.Zero(t, orders)
	assert.EqualValues(t, 1, items) // cart not consumed
}

func TestPlaceOrder_ConcurrentCheckoutsOneWins(t *testing.T) {
	db := openTestDB(t)

	product := models.Product{Name: "Last Unit", Price: 50, Stock: 1, ReorderThreshold: 0, PointsPerUnit: 1}
	require.NoError(t, db.Create(&product).Error)

	carts := make([]models.Cart, 2)
	for i := range carts {
		userID := fmt.Sprintf("racer-%d", i)
		require.NoError(t, db.Create(&models.User{ID: userID, Email: userID + "@example.com"}).Error)
		carts[i] = models.Cart{
			UserID: userID,
			Total:  50,
			Items: []models.CartItem{{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   50,
				Subtotal:    50,
				Quantity:    1,
			}},
		}
		require.NoError(t, db.Create(&carts[i]).Error)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = PlaceOrder(db, 8, CheckoutRequest{
				CartID:        carts[i].CartID,
				PaymentMethod: "cash",
			})
		}(i)
	}
	wg.Wait()

	var stockErrs, successes int
	for _, err := range results {
		var stockErr *inventory.InsufficientStockError
		switch {
		case err == nil:
			successes++
		case errors.As(err, &stockErr):
			stockErrs++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, stockErrs)

	require.NoError(t, db.First(&product, "id = ?", product.ID).Error)
	assert.Equal(t, 0, product.Stock)
}
