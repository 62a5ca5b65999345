package models

import "time"

type PointEntryType string

const (
	PointEntryAccrual    PointEntryType = "accrual"
	PointEntryRedemption PointEntryType = "redemption"
)

// PurchaseEntry is one append-only purchase-history row per committed order.
// Itemized lines live on the order's own OrderItem snapshots.
type PurchaseEntry struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"index;not null" json:"user_id"`
	OrderID        uint      `gorm:"index;not null" json:"order_id"`
	ItemCount      int       `json:"item_count"`
	Total          float64   `json:"total"`
	Discount       float64   `json:"discount"`
	DeliveryFee    float64   `json:"delivery_fee"`
	AmountDue      float64   `json:"amount_due"`
	PointsEarned   int       `json:"points_earned"`
	PointsRedeemed int       `json:"points_redeemed"`
	CreatedAt      time.Time `json:"created_at"`
}

// PointEntry is one append-only point-history row per balance change.
type PointEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"index;not null" json:"user_id"`
	OrderID   uint           `gorm:"index" json:"order_id"`
	Type      PointEntryType `gorm:"type:VARCHAR(20)" json:"type"`
	Delta     int            `json:"delta"`   // earned - redeemed for this order
	Balance   int            `json:"balance"` // balance after applying Delta
	CreatedAt time.Time      `json:"created_at"`
}
