package invoiceControllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asekrisaif/mediasoft-api/models"
)

func sampleOrder() (models.Order, models.User) {
	order := models.Order{
		ID:             7,
		OrderRef:       "20250901120000-abc",
		Total:          250,
		Discount:       75,
		DeliveryFee:    8,
		AmountDue:      183,
		PointsEarned:   10,
		PointsRedeemed: 300,
		DeliveryDate:   time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductName: "Desk Lamp", UnitPrice: 125, Subtotal: 250, Quantity: 2},
		},
		Delivery: models.Delivery{Note: "12 Rue de la Paix"},
	}
	user := models.User{ID: "u1", Name: "Test User", Email: "u1@example.com"}
	return order, user
}

func TestFilename(t *testing.T) {
	order, _ := sampleOrder()
	assert.Equal(t, "invoice-20250901120000-abc.pdf", Filename(order))
}

func TestBuild(t *testing.T) {
	order, user := sampleOrder()

	data, err := Build(order, user)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestBuild_PickupOrder(t *testing.T) {
	order, user := sampleOrder()
	order.Delivery.Note = models.PickupNote
	order.DeliveryFee = 0

	data, err := Build(order, user)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
