package models

// Admin accounts receive low-stock alert mail.
type Admin struct {
	ID       uint   `gorm:"primaryKey"`
	Email    string `gorm:"unique"`
	Name     string
	Approved bool
}
