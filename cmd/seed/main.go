package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"flanes/internal/auth"
	"flanes/internal/config"
	"flanes/internal/db"
	"flanes/internal/kvstore"
	"flanes/internal/logging"
	"flanes/internal/repository"
	"flanes/internal/seed"
	"flanes/internal/service"
)

const maxCatalogSize = 1 << 20

type options struct {
	file          string
	url           string
	adminUsername string
	adminEmail    string
	adminPassword string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.Load()
	var opts options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the flan catalog and an optional admin account",
		Long: `Seed creates the catalog flans that are missing and updates the ones
whose slug already exists. Without --file or --url the built-in catalog is used.
Running it twice leaves the database unchanged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Catalog YAML file")
	cmd.Flags().StringVar(&opts.url, "url", "", "Fetch the catalog YAML from this URL")
	cmd.Flags().StringVar(&opts.adminUsername, "admin-username", os.Getenv("ADMIN_USERNAME"), "Create this admin user when it does not exist (ADMIN_USERNAME)")
	cmd.Flags().StringVar(&opts.adminEmail, "admin-email", os.Getenv("ADMIN_EMAIL"), "Admin email (ADMIN_EMAIL)")
	cmd.Flags().StringVar(&opts.adminPassword, "admin-password", os.Getenv("ADMIN_PASSWORD"), "Admin password (ADMIN_PASSWORD)")
	cmd.Flags().BoolVar(&cfg.ResetDB, "reset-db", cfg.ResetDB, "Drop all tables before migrating (RESET_DB)")
	cmd.MarkFlagsMutuallyExclusive("file", "url")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	cat, err := loadCatalog(ctx, opts)
	if err != nil {
		return err
	}
	log.WithField("flans", len(cat.Flans)).Info("catalog loaded")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, logging.GormLogger(log))
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	res, err := seed.NewSeeder(repository.NewFlanRepository(gormDB), log).Apply(ctx, cat)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"created":   res.Created,
		"updated":   res.Updated,
		"unchanged": res.Unchanged,
	}).Info("catalog seeded")

	if opts.adminUsername == "" {
		return nil
	}
	if opts.adminPassword == "" {
		return fmt.Errorf("--admin-password is required with --admin-username")
	}

	// The seeder never issues sessions, so the revocation store stays local.
	authService := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL),
		auth.NewTokenStore(kvstore.NewMemory()),
		nil,
	)
	user, created, err := authService.EnsureAdmin(ctx, opts.adminUsername, opts.adminEmail, opts.adminPassword)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	log.WithFields(logrus.Fields{"username": user.Username, "created": created}).Info("admin account ready")
	return nil
}

func loadCatalog(ctx context.Context, opts options) (*seed.Catalog, error) {
	switch {
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		return seed.Parse(data)
	case opts.url != "":
		data, err := fetchCatalog(ctx, opts.url)
		if err != nil {
			return nil, err
		}
		return seed.Parse(data)
	default:
		return seed.Default(), nil
	}
}

func fetchCatalog(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return data, nil
}
