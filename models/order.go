package models

import "time"

type DeliveryStatus string
type PaymentStatus string
type PaymentMethod string

const (
	// Delivery statuses. Card orders pass through "preparing" while the
	// customer completes payment; cash orders may go straight to "delivered"
	// at collection.
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusPreparing DeliveryStatus = "preparing"
	DeliveryStatusDelivered DeliveryStatus = "delivered"

	// Payment statuses
	PaymentStatusPending PaymentStatus = "pending" // Payment not completed yet
	PaymentStatusPaid    PaymentStatus = "paid"    // Payment completed successfully

	// Payment methods
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

// PickupNote is stored on a Delivery when no home delivery was requested.
const PickupNote = "pickup"

type Order struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	OrderRef       string        `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID         string        `gorm:"not null;index" json:"user_id"`
	User           User          `gorm:"foreignKey:UserID" json:"user"`
	CartID         uint          `json:"cart_id"`
	Items          []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total          float64       `json:"total"`
	Discount       float64       `json:"discount"`
	DeliveryFee    float64       `json:"delivery_fee"`
	AmountDue      float64       `json:"amount_due"` // total - discount + delivery_fee
	PointsEarned   int           `json:"points_earned"`
	PointsRedeemed int           `json:"points_redeemed"`
	DeliveryDate   time.Time     `json:"delivery_date"`
	Delivery       Delivery      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"delivery"`
	PaymentMethod  PaymentMethod `gorm:"type:VARCHAR(20)" json:"payment_method"`
	PaymentStatus  PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	CreatedAt      time.Time     `json:"created_at"`
}

type OrderItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	OrderID       uint    `gorm:"index" json:"order_id"`
	ProductID     uint    `json:"product_id"`
	ProductName   string  `json:"product_name"`
	UnitPrice     float64 `json:"unit_price"`
	Subtotal      float64 `json:"subtotal"`
	PointsPerUnit int     `json:"points_per_unit"`
	Quantity      int     `json:"quantity"`
}

type Delivery struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"uniqueIndex" json:"order_id"`
	Status    DeliveryStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	Agent     *string        `json:"agent"` // carrier name, nil until assigned
	Note      string         `json:"note"`  // delivery address, or "pickup"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
