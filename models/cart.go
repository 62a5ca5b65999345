package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem snapshots the product at add-to-cart time. Checkout charges these
// captured prices, never the live catalog price.
type CartItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CartID        uint      `gorm:"index" json:"cart_id"`
	ProductID     uint      `json:"product_id"`
	ProductName   string    `json:"product_name"`
	UnitPrice     float64   `json:"unit_price"`
	Subtotal      float64   `json:"subtotal"`
	PointsPerUnit int       `json:"points_per_unit"`
	Quantity      int       `json:"quantity"`
	AddedAt       time.Time `json:"added_at"`
}
