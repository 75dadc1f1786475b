// Package app assembles the development products API: storage, optional
// RabbitMQ events and the fiber routes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"productdesk/internal/config"
	"productdesk/internal/handlers"
	"productdesk/internal/repositories"
	"productdesk/internal/services"
	"productdesk/pkg/rabbitmq"
)

// Deps are the collaborators of the HTTP app.
type Deps struct {
	Repo      repositories.ProductRepository
	Publisher services.EventPublisher
	Logger    *slog.Logger
	// AccessLog receives one line per request; nil disables request logging.
	AccessLog io.Writer
	// Now overrides the clock used by date rules.
	Now func() time.Time
}

// NewApp builds the fiber app serving /bp/products and /health.
func NewApp(deps Deps) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	opts := []services.Option{services.WithLogger(deps.Logger)}
	if deps.Publisher != nil {
		opts = append(opts, services.WithPublisher(deps.Publisher))
	}
	if deps.Now != nil {
		opts = append(opts, services.WithClock(deps.Now))
	}
	productService := services.NewProductService(deps.Repo, opts...)
	productHandler := handlers.NewProductHandler(productService, deps.Logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	if deps.AccessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{Output: deps.AccessLog}))
	}

	productHandler.RegisterRoutes(app.Group("/bp"))

	eventsStatus := "disabled"
	if deps.Publisher != nil {
		eventsStatus = "enabled"
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": eventsStatus,
		})
	})

	return app
}

// OpenRepository returns the product store selected by cfg.DatabaseDriver.
// The returned close function releases the database handle.
func OpenRepository(cfg *config.Config) (repositories.ProductRepository, func() error, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverMemory, "":
		return repositories.NewMemoryProductRepository(), func() error { return nil }, nil
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	repo := repositories.NewGORMProductRepository(db)
	if err := repo.Migrate(); err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return repo, sqlDB.Close, nil
}

// ServeOptions tune Serve.
type ServeOptions struct {
	// Seed fills an empty store with sample products.
	Seed bool
	// Listener overrides cfg.Port.
	Listener net.Listener
	// AccessLog is passed to the request logger.
	AccessLog io.Writer
}

// Serve runs the development API until ctx is cancelled, then shuts down.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ServeOptions) error {
	repo, closeRepo, err := OpenRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	if opts.Seed {
		if err := Seed(repo, time.Now()); err != nil {
			return err
		}
	}

	deps := Deps{Repo: repo, Logger: logger, AccessLog: opts.AccessLog}
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			return err
		}
		defer mqClient.Close()
		deps.Publisher = mqClient
	}

	app := NewApp(deps)

	errCh := make(chan error, 1)
	go func() {
		if opts.Listener != nil {
			logger.Info("starting server", "addr", opts.Listener.Addr().String(), "driver", cfg.DatabaseDriver)
			errCh <- app.Listener(opts.Listener)
			return
		}
		logger.Info("starting server", "addr", cfg.Port, "driver", cfg.DatabaseDriver)
		errCh <- app.Listen(cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		logger.Warn("listener stopped with error", "error", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}
