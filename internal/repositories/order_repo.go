package repositories

import (
	"gorm.io/gorm"

	"tiendapesca/internal/models"
)

// OrderRepository defines the interface for order data access. The
// "WithDetails" readers eagerly load details, their products and the owning
// user, so callers never traverse relations after the transaction ends.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository

	Create(order *models.Order) error
	Save(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByIDWithDetails(id uint) (*models.Order, error)
	GetByUserIDWithDetails(userID uint) ([]models.Order, error)
	GetAllWithDetails() ([]models.Order, error)
}
