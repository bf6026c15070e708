// @title arcgate API
// @version 1.0
// @description Email login, weekly Stripe subscriptions and a two-tier OpenAI proxy.
// @BasePath /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name arc_session
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pratik-mahalle/arcgate/internal/api/handlers"
	"github.com/pratik-mahalle/arcgate/internal/api/router"
	"github.com/pratik-mahalle/arcgate/internal/config"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
	"github.com/pratik-mahalle/arcgate/internal/pkg/validator"
	"github.com/pratik-mahalle/arcgate/internal/providers"
	"github.com/pratik-mahalle/arcgate/internal/repository/memory"
	"github.com/pratik-mahalle/arcgate/internal/repository/mongodb"
	"github.com/pratik-mahalle/arcgate/internal/repository/postgres"
	redisrepo "github.com/pratik-mahalle/arcgate/internal/repository/redis"
	"github.com/pratik-mahalle/arcgate/internal/services"
	"github.com/pratik-mahalle/arcgate/migrations"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{
		Service:    "arcgate-api",
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	log.WithFields(map[string]interface{}{
		"environment": cfg.Server.Environment,
		"db_driver":   cfg.Database.Driver,
		"redis":       cfg.Redis.Enabled,
	}).Info("Starting arcgate")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handlers.Checker{}

	// User store
	users, closeUsers, err := openUserStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeUsers()
	checks["users"] = users.Ping

	// Sessions and checkout locks
	var (
		sessionStore session.Store
		locker       session.Locker
	)
	if cfg.Redis.Enabled {
		client, err := redisrepo.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		sessionStore = redisrepo.NewSessionStore(client)
		locker = redisrepo.NewLocker(client)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		log.With("addr", cfg.Redis.Addr()).Info("Using Redis session store")
	} else {
		sessionStore = memory.NewSessionStore(cfg.Session.CacheSize, cfg.Session.TTL)
		locker = memory.NewLocker(cfg.Session.CacheSize, cfg.Billing.CheckoutLockTTL)
		log.Info("Using in-memory session store")
	}

	if cfg.Billing.StripeSecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY is not set; checkout will fail")
	}
	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set; completions will fail")
	}

	// Services
	userService := services.NewUserService(users, log)
	sessionService := services.NewSessionService(userService, sessionStore, cfg.Session.Secret, cfg.Session.TTL, log)
	billingService := services.NewBillingService(users, providers.NewStripeGateway(cfg.Billing), locker, cfg.Billing.CheckoutLockTTL, log)
	completionService := services.NewCompletionService(providers.NewOpenAIClient(cfg.OpenAI), users, cfg.OpenAI, log)

	// Handlers
	landing, err := handlers.NewLandingHandler(cfg.Billing.StripePublishableKey, log)
	if err != nil {
		return fmt.Errorf("failed to load landing page: %w", err)
	}
	h := &router.Handlers{
		Health: handlers.NewHealthHandler(checks, log),
		Auth: handlers.NewAuthHandler(sessionService, userService, handlers.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Server.IsProduction(),
			TTL:    cfg.Session.TTL,
		}, log, validator.New()),
		Billing:    handlers.NewBillingHandler(billingService, cfg.Server.PublicURL, log),
		Completion: handlers.NewCompletionHandler(completionService),
		Landing:    landing,
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.New(cfg, log, sessionService, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.With("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	log.Info("Server stopped")
	return nil
}

// openUserStore connects the configured backend and prepares its schema
func openUserStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (user.Repository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		if _, err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		log.With("database", cfg.Mongo.Database).Info("Connected to MongoDB")

		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return mongodb.NewUserRepository(db), closeFn, nil
	default:
		db, err := postgres.New(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		applied, err := postgres.RunMigrations(ctx, db, migrations.GetFS())
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		if len(applied) > 0 {
			log.With("migrations", applied).Info("Applied migrations")
		}
		log.With("driver", cfg.Database.Driver).Info("Connected to database")

		return postgres.NewUserRepository(db), func() { db.Close() }, nil
	}
}
