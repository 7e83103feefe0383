package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tiendapesca/internal/services"
)

// InvoiceHandler handles HTTP requests for invoices.
type InvoiceHandler struct {
	invoiceService *services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes registers the invoice routes for authenticated users.
func (h *InvoiceHandler) RegisterRoutes(router fiber.Router) {
	invoiceRoutes := router.Group("/invoices")
	invoiceRoutes.Post("/generate/:orderId", h.HandleGenerate)
	invoiceRoutes.Get("/order/:orderId", h.HandleGet)
	invoiceRoutes.Get("/:orderId/pdf", h.HandleDocument)
	invoiceRoutes.Post("/:orderId/send", h.HandleSend)
	invoiceRoutes.Put("/:orderId/cancel", h.HandleCancel)
	invoiceRoutes.Post("/:orderId/regenerate", h.HandleRegenerate)
}

// HandleGenerate issues the invoice for an order.
func (h *InvoiceHandler) HandleGenerate(c *fiber.Ctx) error {
	orderID, err := parseUintParam(c, "orderId")
	if err != nil {
		return respondError(c, err)
	}
	invoice, err := h.invoiceService.Issue(orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// HandleGet returns the invoice summary for an order.
func (h *InvoiceHandler) HandleGet(c *fiber.Ctx) error {
	orderID, err := parseUintParam(c, "orderId")
	if err != nil {
		return respondError(c, err)
	}
	response, err := h.invoiceService.GetResponse(orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}

// HandleDocument streams the rendered PDF for an order's invoice.
func (h *InvoiceHandler) HandleDocument(c *fiber.Ctx) error {
	orderID, err := parseUintParam(c, "orderId")
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.invoiceService.GetDocument(orderID)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(data)
}

// HandleSend mails the invoice document to the ?email address.
func (h *InvoiceHandler) HandleSend(c *fiber.Ctx) error {
	orderID, err := parseUintParam(c, "orderId")
	if err != nil {
		return respondError(c, err)
	}
	address := c.Query("email")
	if address == "" {
		return badRequest(c, "email query parameter is required")
	}
	if err := h.invoiceService.SendByEmail(orderID, address); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invoice sent"})
}

// HandleCancel marks the invoice of an order as cancelled.
func (h *InvoiceHandler) HandleCancel(c *fiber.Ctx) error {
	orderID, err := parseUintParam(c, "orderId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.invoiceService.Cancel(orderID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invoice cancelled"})
}

// HandleRegenerate re-renders the document of an existing invoice.
func (h *InvoiceHandler) HandleRegenerate(c *fiber.Ctx) error {
	orderID, err := parseUintParam(c, "orderId")
	if err != nil {
		return respondError(c, err)
	}
	invoice, err := h.invoiceService.Regenerate(orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}
