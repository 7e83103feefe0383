package repositories

import (
	"gorm.io/gorm"

	"tiendapesca/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository

	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ExistsByID(id uint) (bool, error)
	Create(user *models.User) error
}
