package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item of fishing tackle in the catalog. Stock is only
// mutated through the product repository's atomic stock operations so it can
// never go negative under concurrent placements.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:100;not null" validate:"required,min=3,max=100"`
	Brand       string          `json:"brand" gorm:"size:100"`
	Description string          `json:"description" gorm:"type:text" validate:"omitempty,max=500"`
	Image       string          `json:"image" gorm:"type:text"`
	Category    string          `json:"category" gorm:"size:100"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0" validate:"gte=0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
