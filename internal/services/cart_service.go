package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tiendapesca/internal/apperrors"
	"tiendapesca/internal/models"
	"tiendapesca/internal/repositories"
)

// CartService enforces the per-user cart invariants: at most one line per
// (user, product), quantities validated against current stock, ownership
// checked on every mutation.
type CartService struct {
	db       *gorm.DB
	carts    repositories.CartRepository
	products repositories.ProductRepository
	users    repositories.UserRepository
}

// NewCartService creates a new CartService.
func NewCartService(db *gorm.DB, carts repositories.CartRepository, products repositories.ProductRepository, users repositories.UserRepository) *CartService {
	return &CartService{db: db, carts: carts, products: products, users: users}
}

// Add puts qty units of a product into the user's cart. An existing line for
// the same product accumulates; the resulting quantity must not exceed the
// product's current stock.
func (s *CartService) Add(userID, productID uint, qty int) error {
	if qty <= 0 {
		return apperrors.New(apperrors.CodeValidation, "quantity must be greater than zero")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		carts := s.carts.WithTx(tx)

		product, err := products.GetByID(productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.CodeNotFound, "product not found")
			}
			return apperrors.Wrap(apperrors.CodeInternal, "failed to load product", err)
		}

		line, err := carts.FindByUserAndProduct(userID, productID)
		switch {
		case err == nil:
			newQty := line.Quantity + qty
			if err := validateStock(product, newQty); err != nil {
				return err
			}
			line.Quantity = newQty
			if err := carts.Save(line); err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, "failed to update cart line", err)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := validateStock(product, qty); err != nil {
				return err
			}
			newLine := &models.CartLine{UserID: userID, ProductID: productID, Quantity: qty}
			if err := carts.Create(newLine); err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, "failed to create cart line", err)
			}
			return nil
		default:
			return apperrors.Wrap(apperrors.CodeInternal, "failed to look up cart line", err)
		}
	})
}

// List returns the user's cart lines projected for the API.
func (s *CartService) List(userID uint) ([]CartItemResponse, error) {
	exists, err := s.users.ExistsByID(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to check user", err)
	}
	if !exists {
		return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
	}

	lines, err := s.carts.GetByUserID(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load cart", err)
	}

	items := make([]CartItemResponse, 0, len(lines))
	for _, line := range lines {
		items = append(items, CartItemResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Image:     line.Product.Image,
			Brand:     line.Product.Brand,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			Subtotal:  line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return items, nil
}

// UpdateQuantity sets the quantity of a cart line owned by the user. A
// quantity of zero or less removes the line.
func (s *CartService) UpdateQuantity(userID, lineID uint, qty int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)

		line, err := s.getOwnedLine(carts, userID, lineID)
		if err != nil {
			return err
		}

		if qty <= 0 {
			if err := carts.Delete(line); err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, "failed to delete cart line", err)
			}
			return nil
		}

		if err := validateStock(&line.Product, qty); err != nil {
			return err
		}
		line.Quantity = qty
		if err := carts.Save(line); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "failed to update cart line", err)
		}
		return nil
	})
}

// Remove deletes a cart line owned by the user.
func (s *CartService) Remove(userID, lineID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)

		line, err := s.getOwnedLine(carts, userID, lineID)
		if err != nil {
			return err
		}
		if err := carts.Delete(line); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "failed to delete cart line", err)
		}
		return nil
	})
}

// Clear deletes every cart line owned by the user.
func (s *CartService) Clear(userID uint) error {
	if err := s.carts.DeleteByUserID(userID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to clear cart", err)
	}
	return nil
}

// Total sums unit price x quantity over the user's cart lines. Tax is not
// included; it is computed at placement time.
func (s *CartService) Total(userID uint) (decimal.Decimal, error) {
	lines, err := s.carts.GetByUserID(userID)
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.CodeInternal, "failed to load cart", err)
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

func (s *CartService) getOwnedLine(carts repositories.CartRepository, userID, lineID uint) (*models.CartLine, error) {
	line, err := carts.GetByID(lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "cart line not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load cart line", err)
	}
	if line.UserID != userID {
		return nil, apperrors.New(apperrors.CodeForbidden, "cart line belongs to another user")
	}
	return line, nil
}

func validateStock(product *models.Product, qty int) error {
	if product.Stock < qty {
		return apperrors.Newf(apperrors.CodeConflictStock,
			"insufficient stock for %s: %d available", product.Name, product.Stock)
	}
	return nil
}
