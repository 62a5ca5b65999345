package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID               uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string  `gorm:"not null" json:"name"`
	Description      string  `json:"description"`
	Price            float64 `gorm:"not null" json:"price"`
	Stock            int     `json:"stock"`
	ReorderThreshold int     `json:"reorder_threshold"` // low-stock alert level
	PointsPerUnit    int     `json:"points_per_unit"`   // loyalty points earned per unit sold
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
