package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"tiendapesca/internal/models"
)

// GORMInvoiceRepository is a GORM implementation of InvoiceRepository.
type GORMInvoiceRepository struct {
	db *gorm.DB
}

// NewGORMInvoiceRepository creates a new instance of GORMInvoiceRepository.
func NewGORMInvoiceRepository(db *gorm.DB) *GORMInvoiceRepository {
	return &GORMInvoiceRepository{db: db}
}

func (r *GORMInvoiceRepository) WithTx(tx *gorm.DB) InvoiceRepository {
	return &GORMInvoiceRepository{db: tx}
}

func (r *GORMInvoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

func (r *GORMInvoiceRepository) Save(invoice *models.Invoice) error {
	if err := r.db.Save(invoice).Error; err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

func (r *GORMInvoiceRepository) GetByOrderID(orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.First(&invoice, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *GORMInvoiceRepository) ExistsByOrderID(orderID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Invoice{}).Where("order_id = ?", orderID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check invoice existence: %w", err)
	}
	return count > 0, nil
}
