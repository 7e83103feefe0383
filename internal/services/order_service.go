package services

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tiendapesca/internal/apperrors"
	"tiendapesca/internal/models"
	"tiendapesca/internal/repositories"
)

var phonePattern = regexp.MustCompile(`^[0-9]{8,20}$`)

// OrderService orchestrates the placement pipeline: pricing the cart,
// persisting the order with its details, decrementing stock atomically and
// clearing the cart, all inside one transaction. Invoice issuance and event
// publication run after commit and never undo a placed order.
type OrderService struct {
	db       *gorm.DB
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	users    repositories.UserRepository
	carts    repositories.CartRepository
	invoices *InvoiceService
	events   EventPublisher
	taxRate  decimal.Decimal
}

// NewOrderService creates a new OrderService. events may be nil when no
// broker is configured.
func NewOrderService(db *gorm.DB, orders repositories.OrderRepository, products repositories.ProductRepository,
	users repositories.UserRepository, carts repositories.CartRepository,
	invoices *InvoiceService, events EventPublisher, taxRate decimal.Decimal) *OrderService {
	return &OrderService{
		db:       db,
		orders:   orders,
		products: products,
		users:    users,
		carts:    carts,
		invoices: invoices,
		events:   events,
		taxRate:  taxRate,
	}
}

// Place turns the user's cart into a PROCESSING order. Stock is decremented
// with a conditional update so concurrent placements can never over-sell;
// the losing request fails with CONFLICT_STOCK and nothing is committed.
func (s *OrderService) Place(user *models.User, req OrderRequest) (*OrderResponse, error) {
	if user == nil {
		return nil, apperrors.New(apperrors.CodeForbidden, "user not authenticated")
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "shipping address is required")
	}
	if !phonePattern.MatchString(req.Phone) {
		return nil, apperrors.New(apperrors.CodeValidation, "phone must be 8 to 20 digits")
	}
	paymentMethod, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "invalid payment method", err)
	}

	var order *models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		products := s.products.WithTx(tx)
		orders := s.orders.WithTx(tx)

		lines, err := carts.GetByUserID(user.ID)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "failed to load cart", err)
		}
		if len(lines) == 0 {
			return apperrors.New(apperrors.CodeConflictEmptyCart, "cart is empty")
		}

		subtotal := decimal.Zero
		details := make([]models.OrderDetail, 0, len(lines))
		for _, line := range lines {
			product, err := products.GetByID(line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.Newf(apperrors.CodeNotFound, "product %d not found", line.ProductID)
				}
				return apperrors.Wrap(apperrors.CodeInternal, "failed to load product", err)
			}
			if product.Stock < line.Quantity {
				return stockConflict(product)
			}

			qty := decimal.NewFromInt(int64(line.Quantity))
			lineSubtotal := product.Price.Mul(qty)
			lineTax := lineSubtotal.Mul(s.taxRate).Round(2)
			details = append(details, models.OrderDetail{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				Subtotal:  lineSubtotal,
				Tax:       lineTax,
				Total:     lineSubtotal.Add(lineTax),
			})
			subtotal = subtotal.Add(lineSubtotal)
		}

		// Order tax is computed from the order subtotal, not summed from
		// the line taxes; the two may differ by one rounding increment.
		tax := subtotal.Mul(s.taxRate).Round(2)
		order = &models.Order{
			UserID:          user.ID,
			ShippingAddress: req.ShippingAddress,
			Phone:           req.Phone,
			Subtotal:        subtotal,
			Tax:             tax,
			Total:           subtotal.Add(tax),
			PaymentMethod:   paymentMethod,
			Status:          models.StatusProcessing,
			Details:         details,
		}
		if err := orders.Create(order); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "failed to persist order", err)
		}

		for _, line := range lines {
			if err := products.DecrementStock(line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					product, loadErr := products.GetByID(line.ProductID)
					if loadErr != nil {
						return apperrors.Newf(apperrors.CodeConflictStock,
							"insufficient stock for product %d", line.ProductID)
					}
					return stockConflict(product)
				}
				return apperrors.Wrap(apperrors.CodeInternal, "failed to decrement stock", err)
			}
		}

		if err := carts.DeleteByUserID(user.ID); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "failed to clear cart", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("order_id", order.ID).Uint("user_id", user.ID).
		Str("total", order.Total.StringFixed(2)).Msg("order placed")

	// Post-commit: the order stands even if issuance or publication fail.
	invoice, err := s.invoices.Issue(order.ID)
	if err != nil {
		log.Error().Err(err).Uint("order_id", order.ID).Msg("invoice issuance failed")
	}
	s.publishEvent("order.created", order)

	full, err := s.orders.GetByIDWithDetails(order.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to reload order", err)
	}
	response := buildOrderResponse(full)
	if invoice != nil {
		response.attachInvoice(invoice)
	}
	return response, nil
}

// ListForUser returns the user's orders, newest first, with invoice
// summaries attached where available.
func (s *OrderService) ListForUser(userID uint) ([]OrderResponse, error) {
	exists, err := s.users.ExistsByID(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to check user", err)
	}
	if !exists {
		return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
	}

	orders, err := s.orders.GetByUserIDWithDetails(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load orders", err)
	}
	return s.buildResponses(orders), nil
}

// Get returns one order; only the owner may read it.
func (s *OrderService) Get(orderID uint, user *models.User) (*OrderResponse, error) {
	if user == nil {
		return nil, apperrors.New(apperrors.CodeForbidden, "user not authenticated")
	}
	order, err := s.orders.GetByIDWithDetails(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "order %d not found", orderID)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load order", err)
	}
	if order.UserID != user.ID {
		return nil, apperrors.New(apperrors.CodeForbidden, "order belongs to another user")
	}

	response := buildOrderResponse(order)
	s.attachInvoiceSummary(response, order.ID)
	return response, nil
}

// Cancel cancels a PROCESSING order on behalf of its owner, restoring every
// detail's quantity to product stock inside the same transaction. The
// invoice cancellation afterwards is best-effort.
func (s *OrderService) Cancel(orderID uint, user *models.User) error {
	if user == nil {
		return apperrors.New(apperrors.CodeForbidden, "user not authenticated")
	}

	var cancelled *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)

		order, err := orders.GetByIDWithDetails(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Newf(apperrors.CodeNotFound, "order %d not found", orderID)
			}
			return apperrors.Wrap(apperrors.CodeInternal, "failed to load order", err)
		}
		if order.UserID != user.ID {
			return apperrors.New(apperrors.CodeForbidden, "order belongs to another user")
		}

		if err := s.cancelInTx(tx, order); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return err
	}

	s.afterCancel(cancelled)
	return nil
}

// AllOrders returns every order with invoice summaries, for administrators.
func (s *OrderService) AllOrders() ([]OrderResponse, error) {
	orders, err := s.orders.GetAllWithDetails()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load orders", err)
	}
	return s.buildResponses(orders), nil
}

// UpdateStatus applies an admin status transition. Only PROCESSING ->
// COMPLETED and PROCESSING -> CANCELLED are allowed; in particular a
// COMPLETED order can no longer be cancelled. Cancelling restores stock the
// same way owner cancellation does, and completing an order without an
// invoice triggers a best-effort issuance.
func (s *OrderService) UpdateStatus(orderID uint, status models.OrderStatus) error {
	var updated *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)

		order, err := orders.GetByIDWithDetails(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Newf(apperrors.CodeNotFound, "order %d not found", orderID)
			}
			return apperrors.Wrap(apperrors.CodeInternal, "failed to load order", err)
		}

		if order.Status != models.StatusProcessing || status == models.StatusProcessing {
			return apperrors.Newf(apperrors.CodeConflictState,
				"cannot transition order from %s to %s", order.Status, status)
		}

		if status == models.StatusCancelled {
			if err := s.cancelInTx(tx, order); err != nil {
				return err
			}
		} else {
			order.Status = status
			if err := orders.Save(order); err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, "failed to save order", err)
			}
		}
		updated = order
		return nil
	})
	if err != nil {
		return err
	}

	switch status {
	case models.StatusCancelled:
		s.afterCancel(updated)
	case models.StatusCompleted:
		exists, err := s.invoices.invoices.ExistsByOrderID(orderID)
		if err != nil {
			log.Error().Err(err).Uint("order_id", orderID).Msg("invoice existence check failed")
			return nil
		}
		if !exists {
			if _, err := s.invoices.Issue(orderID); err != nil {
				log.Error().Err(err).Uint("order_id", orderID).
					Msg("invoice issuance on completion failed")
			}
		}
	}
	return nil
}

// cancelInTx restores stock for every detail and marks the order CANCELLED.
// The order must be PROCESSING.
func (s *OrderService) cancelInTx(tx *gorm.DB, order *models.Order) error {
	if order.Status != models.StatusProcessing {
		return apperrors.Newf(apperrors.CodeConflictState,
			"only PROCESSING orders can be cancelled, current status is %s", order.Status)
	}

	orders := s.orders.WithTx(tx)
	products := s.products.WithTx(tx)

	for _, detail := range order.Details {
		if err := products.IncrementStock(detail.ProductID, detail.Quantity); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "failed to restore stock", err)
		}
	}

	order.Status = models.StatusCancelled
	if err := orders.Save(order); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to save order", err)
	}
	return nil
}

func (s *OrderService) afterCancel(order *models.Order) {
	if err := s.invoices.Cancel(order.ID); err != nil {
		log.Error().Err(err).Uint("order_id", order.ID).Msg("invoice cancellation failed")
	}
	s.publishEvent("order.cancelled", order)
	log.Info().Uint("order_id", order.ID).Msg("order cancelled")
}

func (s *OrderService) buildResponses(orders []models.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		response := buildOrderResponse(&orders[i])
		s.attachInvoiceSummary(response, orders[i].ID)
		responses = append(responses, *response)
	}
	return responses
}

func (s *OrderService) attachInvoiceSummary(response *OrderResponse, orderID uint) {
	invoice, err := s.invoices.invoices.GetByOrderID(orderID)
	if err != nil {
		// Not every order has an invoice; that is not an error here.
		return
	}
	response.attachInvoice(invoice)
}

func (s *OrderService) publishEvent(eventType string, order *models.Order) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]any{
		"orderId": order.ID,
		"userId":  order.UserID,
		"status":  order.Status,
		"total":   order.Total,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal order event")
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		log.Warn().Err(err).Str("event", eventType).Uint("order_id", order.ID).
			Msg("failed to publish order event")
	}
}

func stockConflict(product *models.Product) error {
	return apperrors.Newf(apperrors.CodeConflictStock,
		"insufficient stock for %s: %d available", product.Name, product.Stock)
}
