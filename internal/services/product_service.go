package services

import (
	"errors"

	"gorm.io/gorm"

	"tiendapesca/internal/apperrors"
	"tiendapesca/internal/models"
	"tiendapesca/internal/repositories"
)

// featuredCount bounds the featured-products listing.
const featuredCount = 10

// ProductService exposes catalog reads plus the admin mutations.
type ProductService struct {
	products repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(products repositories.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// List returns the whole catalog.
func (s *ProductService) List() ([]models.Product, error) {
	products, err := s.products.GetAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load products", err)
	}
	return products, nil
}

// Get returns a single product by id.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "product %d not found", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load product", err)
	}
	return product, nil
}

// Featured returns the most recently added products for the storefront.
func (s *ProductService) Featured() ([]models.Product, error) {
	products, err := s.products.FindRecent(featuredCount)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load featured products", err)
	}
	return products, nil
}

// Create adds a new product to the catalog.
func (s *ProductService) Create(product *models.Product) error {
	if product.Price.IsNegative() {
		return apperrors.New(apperrors.CodeValidation, "price must not be negative")
	}
	if product.Stock < 0 {
		return apperrors.New(apperrors.CodeValidation, "stock must not be negative")
	}
	if err := s.products.Create(product); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to create product", err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing product.
func (s *ProductService) Update(id uint, updated *models.Product) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if updated.Price.IsNegative() {
		return nil, apperrors.New(apperrors.CodeValidation, "price must not be negative")
	}
	if updated.Stock < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "stock must not be negative")
	}

	product.Name = updated.Name
	product.Brand = updated.Brand
	product.Description = updated.Description
	product.Image = updated.Image
	product.Category = updated.Category
	product.Price = updated.Price
	product.Stock = updated.Stock
	if err := s.products.Save(product); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to save product", err)
	}
	return product, nil
}
