package models

import "time"

type Payment struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	OrderID    uint          `gorm:"index;not null" json:"order_id"`
	Amount     float64       `json:"amount"`
	Method     PaymentMethod `gorm:"type:VARCHAR(20)" json:"method"`
	Status     PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CardBrand  string        `json:"card_brand,omitempty"`
	CardLast4  string        `json:"card_last4,omitempty"`
	CardExpiry string        `json:"card_expiry,omitempty"`
	// GatewayRef is the card payment session reference, nil for cash. The
	// unique index is what makes payment confirmation idempotent: a second
	// confirm for the same session can never insert a second row.
	GatewayRef *string   `gorm:"uniqueIndex" json:"gateway_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
