package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// ParseOrderStatus converts a raw string into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusProcessing, StatusCompleted, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status: %q", s)
}

// PaymentMethod is the recorded payment method. Payments are recorded, not
// charged; there is no gateway integration.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

// ParsePaymentMethod converts a raw string into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method: %q", s)
}

// Order is an immutable record of a purchase intent. Totals are denormalized
// at placement time: Subtotal is the sum of the detail subtotals, Tax is
// round(Subtotal*rate, 2) and Total = Subtotal + Tax.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	User            User            `json:"-"`
	ShippingAddress string          `json:"shipping_address" gorm:"type:text;not null"`
	Phone           string          `json:"phone" gorm:"size:20;not null"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Tax             decimal.Decimal `json:"tax" gorm:"type:decimal(10,2);not null"`
	Total           decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"size:20;not null"`
	Status          OrderStatus     `json:"status" gorm:"size:20;not null"`
	Details         []OrderDetail   `json:"details" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderDetail is one product line within an order. UnitPrice is the product
// price snapshot taken at placement; details are immutable after the
// placement transaction commits.
type OrderDetail struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null"`
	Product   Product         `json:"-"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Tax       decimal.Decimal `json:"tax" gorm:"type:decimal(10,2);not null"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
}
