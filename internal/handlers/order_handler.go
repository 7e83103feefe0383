package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tiendapesca/internal/models"
	"tiendapesca/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *services.OrderService
	validate     *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the order routes for authenticated users. Static
// paths go first so they are not captured by the :id route.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/add", h.HandlePlace)
	orderRoutes.Get("/get", h.HandleListMine)
	orderRoutes.Get("/:id", h.HandleGet)
	orderRoutes.Post("/:id/cancel", h.HandleCancel)
}

// RegisterAdminRoutes registers the administration routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	adminRoutes := router.Group("/orders/admin")
	adminRoutes.Get("/all", h.HandleListAll)
	adminRoutes.Put("/:id/status", h.HandleUpdateStatus)
}

// HandlePlace turns the user's cart into an order.
func (h *OrderHandler) HandlePlace(c *fiber.Ctx) error {
	var req services.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	response, err := h.orderService.Place(currentUser(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// HandleListMine returns the authenticated user's orders, newest first.
func (h *OrderHandler) HandleListMine(c *fiber.Ctx) error {
	user := currentUser(c)
	responses, err := h.orderService.ListForUser(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(responses)
}

// HandleGet returns one order owned by the authenticated user.
func (h *OrderHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	response, err := h.orderService.Get(id, currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}

// HandleCancel cancels a PROCESSING order owned by the authenticated user.
func (h *OrderHandler) HandleCancel(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.orderService.Cancel(id, currentUser(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListAll returns every order in the system.
func (h *OrderHandler) HandleListAll(c *fiber.Ctx) error {
	responses, err := h.orderService.AllOrders()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(responses)
}

// HandleUpdateStatus applies the ?status transition to an order.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	status, err := models.ParseOrderStatus(c.Query("status"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.orderService.UpdateStatus(id, status); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
