package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"farmstore/internal/config"
	"farmstore/internal/database"
	"farmstore/internal/handlers"
	"farmstore/internal/middleware"
	"farmstore/internal/repositories"
	"farmstore/internal/services"
	"farmstore/internal/worker"
	"farmstore/pkg/hubtel"
	"farmstore/pkg/logger"
	"farmstore/pkg/mailer"
	"farmstore/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

// eventConsumer delivers broker events until ctx ends or the broker goes away.
type eventConsumer interface {
	Consume(ctx context.Context, handler rabbitmq.Handler) error
}

// App is the HTTP application plus the background jobs that run beside it.
type App struct {
	Fiber         *fiber.App
	Products      *services.ProductService
	Notifications *services.NotificationService
	Worker        *worker.ReconciliationWorker
	// Events is nil when RABBITMQ_URL is not set.
	Events eventConsumer

	closers []func() error
}

// NewApp wires repositories, services and handlers on top of an open database.
func NewApp(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*App, error) {
	a := &App{}

	// --- Repositories ---
	var productRepo repositories.ProductRepository = repositories.NewGORMProductRepository(db)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable, product reads go to the database until it recovers", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		productRepo = repositories.NewCachedProductRepository(productRepo, rdb, cfg.Redis.TTL, log)
		a.closers = append(a.closers, rdb.Close)
	}
	orderRepo := repositories.NewGORMOrderRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)

	// --- Outbound integrations ---
	var notifier services.Notifier
	if m := mailer.New(mailer.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		To:       cfg.Mail.NotifyTo,
	}); m.Enabled() {
		notifier = m
	} else {
		log.Info("EMAIL_HOST not set, notifications disabled")
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
			Bindings: []string{"order.*", "payment.*"},
		}, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Events = mq
		a.closers = append(a.closers, mq.Close)
		publisher = mq
	}

	gateway := hubtel.NewClient(hubtel.Config{
		MerchantAccount: cfg.Hubtel.MerchantAccount,
		APIKey:          cfg.Hubtel.APIKey,
		InitiateURL:     cfg.Hubtel.InitiateURL,
		StatusURL:       cfg.Hubtel.StatusURL,
		SiteURL:         cfg.App.SiteURL,
		Timeout:         cfg.Hubtel.Timeout,
	})
	if !gateway.Configured() {
		log.Warn("hubtel credentials not configured, only cash on delivery will work")
	}

	metrics := middleware.NewMetrics("farmstore")

	// --- Services ---
	a.Products = services.NewProductService(productRepo, log)
	pricer := services.NewPricer(productRepo, cfg.Pricing.TaxRate, log)
	orderService := services.NewOrderService(orderRepo, productRepo, pricer, publisher, log)
	paymentService := services.NewPaymentService(orderRepo, paymentRepo, gateway, publisher, metrics, log)
	contactService := services.NewContactService(contactRepo, notifier)
	a.Notifications = services.NewNotificationService(notifier, log)
	a.Worker = worker.NewReconciliationWorker(paymentService, cfg.Reconcile, log)

	// --- Fiber ---
	app := fiber.New(fiber.Config{
		AppName: "farmstore",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.App.CORSOrigins}))
	app.Use(middleware.RequestID(log))
	if !cfg.IsProduction() {
		app.Use(fiberlogger.New())
	}
	app.Use(metrics.Handler())

	app.Get("/health", func(c *fiber.Ctx) error {
		stats := database.Health(db)
		code, status := fiber.StatusOK, "healthy"
		if stats["status"] != "up" {
			code, status = fiber.StatusServiceUnavailable, "unhealthy"
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": stats,
			"events":   a.Events != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	handlers.NewProductHandler(a.Products, log).RegisterRoutes(api)
	handlers.NewCatalogHandler(services.NewCatalogService()).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, log).RegisterRoutes(api)
	handlers.NewPaymentHandler(paymentService, log).RegisterRoutes(api)
	handlers.NewContactHandler(contactService, log).RegisterRoutes(api)

	if cfg.App.FrontendDir != "" {
		app.Static("/", cfg.App.FrontendDir)
	}

	a.Fiber = app
	return a, nil
}

// Close releases the broker and cache connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run serves HTTP and runs the background jobs until ctx is cancelled.
func (a *App) Run(ctx context.Context, addr string, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", zap.String("addr", addr))
		if err := a.Fiber.Listen(addr); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		return a.Fiber.ShutdownWithTimeout(shutdownTimeout)
	})
	g.Go(func() error {
		return a.Worker.Run(gctx)
	})
	if a.Events != nil {
		// Notifications are optional, losing the broker must not stop the storefront.
		g.Go(func() error {
			if err := a.Events.Consume(gctx, a.Notifications.HandleEvent); err != nil {
				log.Error("event consumer stopped, notifications paused until restart", zap.Error(err))
			}
			return nil
		})
	}

	return g.Wait()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.App.Env,
		ServiceName: "farmstore",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if err := run(cfg, zl); err != nil {
		zl.Fatal("farmstore stopped with error", zap.Error(err))
	}
	zl.Info("server gracefully stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(cfg, db, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("error while closing connections", zap.Error(err))
		}
	}()

	if cfg.App.SeedProducts {
		created, err := app.Products.SeedDefaults(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		log.Info("product seeding finished", zap.Int("created", created))
	}

	return app.Run(ctx, cfg.App.Port, log)
}
