package models

import "time"

// CartLine is one product entry in a user's cart. The composite unique index
// keeps at most one row per (user, product); additions to an existing line
// accumulate quantity instead of inserting a second row.
type CartLine struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Product   Product   `json:"-"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
