package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tiendapesca/internal/config"
	"tiendapesca/internal/handlers"
	"tiendapesca/internal/mailer"
	"tiendapesca/internal/middleware"
	"tiendapesca/internal/models"
	"tiendapesca/internal/pdf"
	"tiendapesca/internal/repositories"
	"tiendapesca/internal/services"
	"tiendapesca/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// --- Database ---
	// TranslateError turns driver unique violations into gorm.ErrDuplicatedKey,
	// which the invoice number retry loop and registration depend on.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Invoice{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- Message broker ---
	// The API runs without a broker; events are simply not published then.
	var events services.EventPublisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Warn().Err(err).Msg("message broker unavailable, order events disabled")
	} else {
		defer mqClient.Close()
		events = mqClient
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	invoiceRepo := repositories.NewGORMInvoiceRepository(db)

	// --- Services ---
	renderer := pdf.NewRenderer(cfg.InvoiceDir)
	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(db, cartRepo, productRepo, userRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, orderRepo, renderer, smtpMailer, nil)
	orderService := services.NewOrderService(db, orderRepo, productRepo, userRepo, cartRepo,
		invoiceService, events, cfg.TaxRate)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)

	app := fiber.New()
	app.Use(fiberlogger.New())

	api := app.Group("/api")

	// Public routes.
	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)

	// Authenticated routes.
	protected := api.Group("", middleware.AuthRequired(authService))
	cartHandler.RegisterRoutes(protected)
	invoiceHandler.RegisterRoutes(protected)

	// Admin routes must be registered before the parameterized order routes
	// so /orders/admin/... is not captured by /orders/:id.
	admin := protected.Group("", middleware.AdminRequired())
	orderHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}
