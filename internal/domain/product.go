package domain

import "time"

// Product quantity never goes below zero; the repository enforces that with
// a guarded decrement.
type Product struct {
	ID        string `gorm:"primaryKey"`
	SKU       string `gorm:"uniqueIndex"` // catalog id, distinct from the storage id
	Name      string
	Price     float64
	Category  string
	Quantity  int64
	ImageURLs []string `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
