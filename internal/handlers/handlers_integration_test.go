package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tiendapesca/internal/handlers"
	"tiendapesca/internal/mailer"
	"tiendapesca/internal/middleware"
	"tiendapesca/internal/models"
	"tiendapesca/internal/pdf"
	"tiendapesca/internal/repositories"
	"tiendapesca/internal/services"
)

type noopMailer struct{}

func (noopMailer) Send(to, subject, body, attachmentName string, attachment []byte) error {
	return nil
}

var _ services.Mailer = (*mailer.SMTPMailer)(nil)

// setupApp wires the full HTTP stack against an in-memory SQLite database,
// mirroring the route registration in main.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Invoice{},
	))

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	invoiceRepo := repositories.NewGORMInvoiceRepository(db)

	renderer := pdf.NewRenderer(t.TempDir())
	authService := services.NewAuthService(userRepo, "0123456789abcdef0123456789abcdef", time.Hour)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(db, cartRepo, productRepo, userRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, orderRepo, renderer, noopMailer{}, nil)
	orderService := services.NewOrderService(db, orderRepo, productRepo, userRepo, cartRepo,
		invoiceService, nil, decimal.RequireFromString("0.13"))

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)

	app := fiber.New()
	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService))
	cartHandler.RegisterRoutes(protected)
	invoiceHandler.RegisterRoutes(protected)

	admin := protected.Group("", middleware.AdminRequired())
	orderHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterRoutes(protected)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Ana",
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loginBody struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginBody))
	require.NotEmpty(t, loginBody.Token)
	return loginBody.Token
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Brand:    "Kraken",
		Category: "lures",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRegisterLoginAndAuthGuard(t *testing.T) {
	app, _ := setupApp(t)

	token := registerAndLogin(t, app, "ana@example.com")
	assert.NotEmpty(t, token)

	// Protected routes refuse requests without a bearer token.
	resp := doJSON(t, app, http.MethodGet, "/api/cart/get", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/cart/get", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/cart/get", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterDuplicateEmailReturns400(t *testing.T) {
	app, _ := setupApp(t)
	registerAndLogin(t, app, "ana@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Other",
		"email":    "ana@example.com",
		"password": "different1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductEndpointsArePublic(t *testing.T) {
	app, db := setupApp(t)
	product := seedProduct(t, db, "Deep Diver", "10.00", 5)

	resp := doJSON(t, app, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 1)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The featured path must not be captured by the :id route.
	resp = doJSON(t, app, http.MethodGet, "/api/products/featured", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartAndOrderFlow(t *testing.T) {
	app, db := setupApp(t)
	product := seedProduct(t, db, "Deep Diver", "10.00", 5)
	token := registerAndLogin(t, app, "ana@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/cart/add", token, map[string]any{
		"productId": product.ID,
		"quantity":  2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/orders/add", token, map[string]string{
		"shippingAddress": "123 Dock Street",
		"phone":           "88887777",
		"paymentMethod":   "CARD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order struct {
		OrderID       uint            `json:"orderId"`
		Subtotal      decimal.Decimal `json:"subtotal"`
		Tax           decimal.Decimal `json:"tax"`
		Total         decimal.Decimal `json:"total"`
		Status        string          `json:"status"`
		InvoiceNumber string          `json:"invoiceNumber"`
		PdfURL        string          `json:"pdfUrl"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("20.00")), "subtotal %s", order.Subtotal)
	assert.True(t, order.Tax.Equal(decimal.RequireFromString("2.60")), "tax %s", order.Tax)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("22.60")), "total %s", order.Total)
	assert.Equal(t, "PROCESSING", order.Status)
	assert.NotEmpty(t, order.InvoiceNumber)
	assert.NotEmpty(t, order.PdfURL)

	// Stock was decremented, cart cleared.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 3, reloaded.Stock)

	resp = doJSON(t, app, http.MethodGet, "/api/cart/get", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	assert.Empty(t, items)

	// The invoice PDF is streamed with the right content type.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/invoices/%d/pdf", order.OrderID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	// Cancel restores stock.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", order.OrderID), token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 5, reloaded.Stock)
}

func TestPlaceOrderEmptyCartReturns400(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app, "ana@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/orders/add", token, map[string]string{
		"shippingAddress": "123 Dock Street",
		"phone":           "88887777",
		"paymentMethod":   "CARD",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app, db := setupApp(t)
	token := registerAndLogin(t, app, "ana@example.com")

	resp := doJSON(t, app, http.MethodGet, "/api/orders/admin/all", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Promote the user and retry.
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "ana@example.com").
		Update("role", models.RoleAdmin).Error)
	adminToken := loginAgain(t, app, "ana@example.com")

	resp = doJSON(t, app, http.MethodGet, "/api/orders/admin/all", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func loginAgain(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Token
}
