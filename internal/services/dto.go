package services

import (
	"time"

	"github.com/shopspring/decimal"

	"tiendapesca/internal/models"
	"tiendapesca/internal/pdf"
)

// OrderRequest is the payload for placing an order from the current cart.
type OrderRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" validate:"required"`
}

// AddToCartRequest is the payload for adding a product to the cart.
type AddToCartRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required"`
}

// CartItemResponse is one cart line projected for the API, with the product
// fields a storefront needs and the line subtotal (unit price x quantity).
type CartItemResponse struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Brand     string          `json:"brand"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// UserResponse is the safe projection of a user: no password, no role.
type UserResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// OrderDetailResponse is one order line projected for the API.
type OrderDetailResponse struct {
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// OrderResponse is the full order projection returned by the order endpoints.
// Invoice fields are present only when the order has an invoice.
type OrderResponse struct {
	OrderID         uint                  `json:"orderId"`
	OrderDate       time.Time             `json:"orderDate"`
	ShippingAddress string                `json:"shippingAddress"`
	Phone           string                `json:"phone"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	Tax             decimal.Decimal       `json:"tax"`
	Total           decimal.Decimal       `json:"total"`
	PaymentMethod   models.PaymentMethod  `json:"paymentMethod"`
	Status          models.OrderStatus    `json:"status"`
	User            UserResponse          `json:"user"`
	OrderDetails    []OrderDetailResponse `json:"orderDetails"`
	InvoiceNumber   string                `json:"invoiceNumber,omitempty"`
	InvoiceDate     *time.Time            `json:"invoiceDate,omitempty"`
	PdfURL          string                `json:"pdfUrl,omitempty"`
}

// InvoiceResponse is the invoice summary returned by the invoice endpoints.
type InvoiceResponse struct {
	OrderID       uint                  `json:"orderId"`
	InvoiceNumber string                `json:"invoiceNumber"`
	InvoiceDate   time.Time             `json:"invoiceDate"`
	CustomerEmail string                `json:"customerEmail"`
	Total         decimal.Decimal       `json:"total"`
	Cancelled     bool                  `json:"cancelled"`
	OrderDetails  []OrderDetailResponse `json:"orderDetails"`
}

func buildUserResponse(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		RegistrationDate: user.CreatedAt,
	}
}

func buildDetailResponses(details []models.OrderDetail) []OrderDetailResponse {
	out := make([]OrderDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, OrderDetailResponse{
			ProductID:   d.ProductID,
			ProductName: d.Product.Name,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
			Tax:         d.Tax,
			Total:       d.Total,
		})
	}
	return out
}

func buildOrderResponse(order *models.Order) *OrderResponse {
	return &OrderResponse{
		OrderID:         order.ID,
		OrderDate:       order.CreatedAt,
		ShippingAddress: order.ShippingAddress,
		Phone:           order.Phone,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		Total:           order.Total,
		PaymentMethod:   order.PaymentMethod,
		Status:          order.Status,
		User:            buildUserResponse(&order.User),
		OrderDetails:    buildDetailResponses(order.Details),
	}
}

func (r *OrderResponse) attachInvoice(invoice *models.Invoice) {
	r.InvoiceNumber = invoice.Number
	issuedAt := invoice.IssuedAt
	r.InvoiceDate = &issuedAt
	r.PdfURL = invoice.PDFPath
}

// buildInvoiceData projects an order and its invoice into the flat structure
// the renderer consumes, cutting the Order<->Invoice cycle.
func buildInvoiceData(invoice *models.Invoice, order *models.Order) pdf.InvoiceData {
	lines := make([]pdf.InvoiceLine, 0, len(order.Details))
	for _, d := range order.Details {
		lines = append(lines, pdf.InvoiceLine{
			Name:      d.Product.Name,
			UnitPrice: d.UnitPrice,
			Quantity:  d.Quantity,
			Subtotal:  d.Subtotal,
			Tax:       d.Tax,
		})
	}
	return pdf.InvoiceData{
		Number:          invoice.Number,
		IssuedAt:        invoice.IssuedAt,
		PaymentMethod:   string(order.PaymentMethod),
		CustomerName:    order.User.Name,
		CustomerEmail:   order.User.Email,
		ShippingAddress: order.ShippingAddress,
		Phone:           order.Phone,
		Lines:           lines,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		Total:           order.Total,
	}
}
