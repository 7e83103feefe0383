package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tiendapesca/internal/models"
	"tiendapesca/internal/pdf"
	"tiendapesca/internal/repositories"
	"tiendapesca/internal/services"
)

// setupTestDB opens an isolated in-memory SQLite database. The named shared
// cache keeps every pooled connection on the same database; the test name
// keeps databases apart between tests.
func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// fakeMailer records sent messages instead of talking to a relay.
type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to             string
	subject        string
	body           string
	attachmentName string
	attachment     []byte
}

func (m *fakeMailer) Send(to, subject, body, attachmentName string, attachment []byte) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body, attachmentName, attachment})
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	eventType string
	body      []byte
}

func (p *fakePublisher) Publish(eventType string, body []byte) error {
	p.events = append(p.events, publishedEvent{eventType, body})
	return nil
}

// testEnv wires the full service stack against an in-memory database, a real
// PDF renderer writing to a temp dir, and fakes for mail and events.
type testEnv struct {
	db         *gorm.DB
	users      repositories.UserRepository
	products   repositories.ProductRepository
	carts      repositories.CartRepository
	orders     repositories.OrderRepository
	invoices   repositories.InvoiceRepository
	cartSvc    *services.CartService
	orderSvc   *services.OrderService
	invoiceSvc *services.InvoiceService
	mailer     *fakeMailer
	events     *fakePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	env := &testEnv{
		db:       db,
		users:    repositories.NewGORMUserRepository(db),
		products: repositories.NewGORMProductRepository(db),
		carts:    repositories.NewGORMCartRepository(db),
		orders:   repositories.NewGORMOrderRepository(db),
		invoices: repositories.NewGORMInvoiceRepository(db),
		mailer:   &fakeMailer{},
		events:   &fakePublisher{},
	}

	renderer := pdf.NewRenderer(t.TempDir())
	env.invoiceSvc = services.NewInvoiceService(env.invoices, env.orders, renderer, env.mailer, nil)
	env.cartSvc = services.NewCartService(db, env.carts, env.products, env.users)
	env.orderSvc = services.NewOrderService(db, env.orders, env.products, env.users, env.carts,
		env.invoiceSvc, env.events, decimal.RequireFromString("0.13"))
	return env
}

func (e *testEnv) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, Password: "hashed", Role: models.RoleUser}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) seedProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Brand:    "Kraken",
		Category: "lures",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, e.products.Create(product))
	return product
}

func (e *testEnv) reloadProduct(t *testing.T, id uint) *models.Product {
	t.Helper()
	product, err := e.products.GetByID(id)
	require.NoError(t, err)
	return product
}
