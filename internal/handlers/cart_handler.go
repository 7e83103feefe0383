package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tiendapesca/internal/services"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes. All of them require an
// authenticated user.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/add", h.HandleAdd)
	cartRoutes.Get("/get", h.HandleList)
	cartRoutes.Get("/total", h.HandleTotal)
	cartRoutes.Delete("/clear", h.HandleClear)
	cartRoutes.Put("/items/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemove)
}

// HandleAdd puts a product into the cart, accumulating onto an existing line.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req services.AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user := currentUser(c)
	if err := h.cartService.Add(user.ID, req.ProductID, req.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// HandleList returns the user's cart lines.
func (h *CartHandler) HandleList(c *fiber.Ctx) error {
	user := currentUser(c)
	items, err := h.cartService.List(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// HandleTotal returns the cart's running total before tax.
func (h *CartHandler) HandleTotal(c *fiber.Ctx) error {
	user := currentUser(c)
	total, err := h.cartService.Total(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(total)
}

// HandleUpdateQuantity sets the quantity of one cart line from the
// ?quantity query parameter.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	lineID, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	qty, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		return badRequest(c, "quantity must be an integer")
	}

	user := currentUser(c)
	if err := h.cartService.UpdateQuantity(user.ID, lineID, qty); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRemove deletes one cart line.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	lineID, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	user := currentUser(c)
	if err := h.cartService.Remove(user.ID, lineID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClear empties the user's cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := h.cartService.Clear(user.ID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
