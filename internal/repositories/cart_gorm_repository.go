package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"tiendapesca/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &GORMCartRepository{db: tx}
}

func (r *GORMCartRepository) GetByID(id uint) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.Preload("Product").First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *GORMCartRepository) GetByUserID(userID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cart lines for user %d: %w", userID, err)
	}
	return lines, nil
}

func (r *GORMCartRepository) FindByUserAndProduct(userID, productID uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *GORMCartRepository) Create(line *models.CartLine) error {
	return r.db.Create(line).Error
}

func (r *GORMCartRepository) Save(line *models.CartLine) error {
	return r.db.Save(line).Error
}

func (r *GORMCartRepository) Delete(line *models.CartLine) error {
	return r.db.Delete(line).Error
}

func (r *GORMCartRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error
}
