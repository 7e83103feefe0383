package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"tiendapesca/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &GORMOrderRepository{db: tx}
}

// Create persists the order together with its details (cascaded by the
// association).
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Save persists scalar mutations of the order (e.g. status changes) without
// rewriting its associations.
func (r *GORMOrderRepository) Save(order *models.Order) error {
	if err := r.db.Omit("Details", "User").Save(order).Error; err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GORMOrderRepository) GetByIDWithDetails(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("User").
		Preload("Details").
		Preload("Details.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GORMOrderRepository) GetByUserIDWithDetails(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("User").
		Preload("Details").
		Preload("Details.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) GetAllWithDetails() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("User").
		Preload("Details").
		Preload("Details.Product").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}
