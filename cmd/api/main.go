package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookly/internal/auth"
	"bookly/internal/cache"
	"bookly/internal/config"
	"bookly/internal/database"
	"bookly/internal/handler"
	"bookly/internal/payments"
	"bookly/internal/repository"
	"bookly/internal/router"
	"bookly/internal/service"
	"bookly/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting bookly API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	bookRepo := repository.NewBookRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize the optional book cache
	var bookCache *cache.BookCache
	if cfg.Redis.Enabled {
		rdb, err := cache.NewClient(ctx, cfg.Redis.Address(), cfg.Redis.Password, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis, continuing without cache")
		} else {
			defer rdb.Close()
			bookCache = cache.NewBookCache(rdb, cfg.Redis.TTL, logger)
		}
	}

	// Initialize image storage with S3 and local fallback
	var store storage.Store
	if cfg.Uploads.S3Enabled {
		store, err = storage.NewS3Store(ctx, cfg.Uploads.S3Bucket, cfg.Uploads.S3Region, cfg.Uploads.S3Prefix, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 storage, falling back to local file system")
			store = nil
		}
	}
	if store == nil {
		store, err = storage.NewLocalStore(cfg.Uploads.Dir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	// Initialize the payment processor and auth helpers
	processor := payments.NewStripeProcessor(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, logger)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	google := auth.NewGoogleExchanger(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL, logger)

	// Initialize services
	bookService := service.NewBookService(bookRepo, store, bookCache, logger)
	cartService := service.NewCartService(cartRepo, bookRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, bookRepo, logger)
	paymentService := service.NewPaymentService(orderRepo, cartRepo, bookRepo, processor, store, bookCache, cfg.Stripe, logger)
	authService := service.NewAuthService(userRepo, tokens, google, cfg.Auth, logger)

	// Create the bootstrap admin account if configured
	if err := authService.EnsureAdmin(ctx); err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Book:    handler.NewBookHandler(bookService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Review:  handler.NewReviewHandler(reviewService, logger),
		Payment: handler.NewPaymentHandler(paymentService, logger),
		Auth:    handler.NewAuthHandler(authService, logger),
	}

	uploadsDir := ""
	if !cfg.Uploads.S3Enabled {
		uploadsDir = cfg.Uploads.Dir
	}

	// Initialize router
	mux := router.New(handlers, tokens, userRepo, uploadsDir, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
