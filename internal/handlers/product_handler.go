package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tiendapesca/internal/models"
	"tiendapesca/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the public catalog routes. Static paths go first
// so they are not captured by the :id route.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/featured", h.HandleFeatured)
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/:id", h.HandleGet)
}

// RegisterAdminRoutes registers the catalog mutations for administrators.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Put("/:id", h.HandleUpdate)
}

// HandleList returns the whole catalog.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	products, err := h.productService.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGet returns one product by id.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.productService.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleFeatured returns the most recently added products.
func (h *ProductHandler) HandleFeatured(c *fiber.Ctx) error {
	products, err := h.productService.Featured()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleCreate adds a product to the catalog.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.productService.Create(&product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate overwrites an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body")
	}
	updated, err := h.productService.Update(id, &product)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}
