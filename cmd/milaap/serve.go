package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/milaap/internal/api"
	"github.com/erazemk/milaap/internal/config"
	"github.com/erazemk/milaap/internal/db"
	"github.com/erazemk/milaap/internal/events"
	"github.com/erazemk/milaap/internal/i18n"
	"github.com/erazemk/milaap/internal/portal"
	"github.com/erazemk/milaap/internal/store"
	"github.com/erazemk/milaap/internal/uploads"
	"github.com/erazemk/milaap/internal/web"
)

var (
	addr         string
	templatesDir string
)

// serveCmd runs the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portal web server",
	Long: `Run the web pages and the JSON API. A missing database is created
first, printing the generated administrator password.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default: $MILAAP_ADDR or :8080)")
	serveCmd.Flags().StringVar(&templatesDir, "templates", "", "page template directory (default: $MILAAP_TEMPLATES)")
}

const (
	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 5 * time.Second
	// purgeInterval is how often expired token revocations are deleted.
	purgeInterval = time.Hour
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if templatesDir != "" {
		cfg.TemplatesDir = templatesDir
	}

	closeLog, err := setupLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(cfg.DBPath); errors.Is(err, os.ErrNotExist) {
		database, password, err := initDatabase(ctx, cfg.DBPath, adminName, adminEmail, true)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		database.Close()
		printInitResult(cfg.DBPath, adminEmail, password)
		fmt.Println()
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath)

	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return err
	}

	text, err := i18n.Load()
	if err != nil {
		return err
	}

	up, err := openUploads(ctx, cfg)
	if err != nil {
		return err
	}

	pub, err := openEvents(cfg)
	if err != nil {
		return err
	}
	defer pub.Close()

	svc := portal.New(database, pub, up, text)

	apiRouter := api.NewRouter(svc, jwtSecret)
	webRouter, err := web.NewRouter(svc, web.Options{
		JWTSecret:    jwtSecret,
		TemplatesDir: cfg.TemplatesDir,
		DefaultLang:  cfg.DefaultLang,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server started", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		purgeRevokedTokens(gctx, database)
		return nil
	})

	err = g.Wait()
	slog.Info("server stopped, closing database")
	return err
}

// purgeRevokedTokens deletes expired token revocations until ctx is done.
func purgeRevokedTokens(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.PurgeRevokedTokens(ctx, database, now)
			if err != nil {
				slog.Error("failed to purge revoked tokens", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged revoked tokens", "count", n)
			}
		}
	}
}

// openUploads returns the configured image store.
func openUploads(ctx context.Context, cfg *config.Config) (uploads.Store, error) {
	if cfg.Storage == config.StorageMinIO {
		m, err := uploads.NewMinIO(ctx, uploads.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("storing uploads in minio", "endpoint", cfg.MinIOEndpoint, "bucket", cfg.MinIOBucket)
		return m, nil
	}

	d, err := uploads.NewDisk(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	slog.Info("storing uploads on disk", "dir", cfg.UploadDir)
	return d, nil
}

// openEvents connects to RabbitMQ when configured and discards events
// otherwise.
func openEvents(cfg *config.Config) (events.Publisher, error) {
	if cfg.RabbitMQURL == "" {
		slog.Info("event publishing disabled")
		return events.Nop{}, nil
	}
	p, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		return nil, err
	}
	return p, nil
}
