package repositories

import (
	"gorm.io/gorm"

	"tiendapesca/internal/models"
)

// CartRepository defines the interface for cart line data access.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository

	GetByID(id uint) (*models.CartLine, error)
	// GetByUserID returns the user's cart lines with their products loaded.
	GetByUserID(userID uint) ([]models.CartLine, error)
	FindByUserAndProduct(userID, productID uint) (*models.CartLine, error)
	Create(line *models.CartLine) error
	Save(line *models.CartLine) error
	Delete(line *models.CartLine) error
	DeleteByUserID(userID uint) error
}
