package repositories

import (
	"gorm.io/gorm"

	"tiendapesca/internal/models"
)

// InvoiceRepository defines the interface for invoice data access.
type InvoiceRepository interface {
	WithTx(tx *gorm.DB) InvoiceRepository

	// Create inserts a new invoice row. A gorm.ErrDuplicatedKey result
	// signals a unique violation; the invoice service retries number
	// collisions against it.
	Create(invoice *models.Invoice) error
	Save(invoice *models.Invoice) error
	GetByOrderID(orderID uint) (*models.Invoice, error)
	ExistsByOrderID(orderID uint) (bool, error)
}
