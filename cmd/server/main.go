package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"flanes/docs"
	"flanes/internal/auth"
	"flanes/internal/config"
	"flanes/internal/db"
	"flanes/internal/handler"
	"flanes/internal/kvstore"
	"flanes/internal/logging"
	"flanes/internal/metrics"
	"flanes/internal/repository"
	"flanes/internal/router"
	"flanes/internal/service"
	"flanes/internal/view"
)

// @title Flanes Admin API
// @version 1.0
// @description Catalog management API of the flan shop. Requires an admin session cookie.
// @BasePath /admin/api
// @schemes http https
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Session cookie issued by POST /login/.
func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Run the flan shop web server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.ServerPort, "port", cfg.ServerPort, "HTTP listen port (SERVER_PORT)")
	cmd.Flags().StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "Database driver: mysql or postgres (DB_DRIVER)")
	cmd.Flags().StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "Database DSN (DATABASE_DSN)")
	cmd.Flags().BoolVar(&cfg.ResetDB, "reset-db", cfg.ResetDB, "Drop all tables before migrating (RESET_DB)")
	cmd.Flags().StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for session revocation; empty keeps it in memory (REDIS_ADDR)")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error (LOG_LEVEL)")
	cmd.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: json or text (LOG_FORMAT)")

	return cmd
}

func run(cfg *config.Config) error {
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, logging.GormLogger(log))
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	if cfg.ResetDB {
		log.Warn("RESET_DB set, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store := sessionStore(cfg, log)

	// Initialize repositories
	flanRepo := repository.NewFlanRepository(gormDB)
	cartRepo := repository.NewCartRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	tokenStore := auth.NewTokenStore(store)
	m := metrics.New()

	// Initialize services
	catalogService := service.NewCatalogService(flanRepo, reviewRepo)
	cartService := service.NewCartService(cartRepo, flanRepo, m)
	contactService := service.NewContactService(contactRepo, m)
	reviewService := service.NewReviewService(reviewRepo, flanRepo, m)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, m)
	adminService := service.NewAdminService(flanRepo, contactRepo, reviewRepo)

	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Log:        log,
		Metrics:    m,
		JWTService: jwtService,
		TokenStore: tokenStore,
		Renderer:   renderer,
	}, router.Handlers{
		Catalog: handler.NewCatalogHandler(catalogService),
		Product: handler.NewProductHandler(catalogService, reviewService),
		Cart:    handler.NewCartHandler(cartService),
		Contact: handler.NewContactHandler(contactService),
		Auth:    handler.NewAuthHandler(authService, cfg.CookieSecure),
		Review:  handler.NewReviewHandler(reviewService),
		Admin:   handler.NewAdminHandler(adminService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.WithField("url", swaggerURL(cfg)).Info("swagger documentation available")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		log.WithField("addr", addr).Info("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if c, ok := store.(*kvstore.Client); ok {
		_ = c.Close()
	}
	return nil
}

// sessionStore picks Redis when an address is configured and an in-process
// store otherwise.
func sessionStore(cfg *config.Config, log *logrus.Logger) kvstore.Store {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, revoked sessions are kept in memory")
		return kvstore.NewMemory()
	}

	client := kvstore.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		log.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unreachable, sessions resolve as anonymous until it recovers")
	}
	return client
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
