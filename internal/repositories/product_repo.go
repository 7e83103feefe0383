package repositories

import (
	"errors"

	"gorm.io/gorm"

	"tiendapesca/internal/models"
)

// ErrInsufficientStock is returned by DecrementStock when the conditional
// update matched no row: either the product is gone or its stock is below the
// requested quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) ProductRepository

	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	ExistsByID(id uint) (bool, error)
	FindRecent(limit int) ([]models.Product, error)
	Create(product *models.Product) error
	Save(product *models.Product) error

	// DecrementStock atomically subtracts qty from the product's stock,
	// guarded by stock >= qty. It returns ErrInsufficientStock when the
	// guard fails, which is how concurrent over-sells are rejected.
	DecrementStock(productID uint, qty int) error

	// IncrementStock adds qty back to the product's stock, used when a
	// PROCESSING order is cancelled.
	IncrementStock(productID uint, qty int) error
}
