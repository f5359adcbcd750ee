package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/lecenter/dashboard/internal/auth/http"
	"github.com/lecenter/dashboard/internal/auth/service"
	"github.com/lecenter/dashboard/internal/auth/store"
	"github.com/lecenter/dashboard/internal/auth/store/drivers/sqlite"
	"github.com/lecenter/dashboard/pkg/linex"
	"github.com/lecenter/dashboard/pkg/sessionx"
	"github.com/lecenter/dashboard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the dashboard auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *sessionx.Signer

	whitelistService *service.WhitelistService
	authService      *service.AuthService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application. It fails when production runs without a secret.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "dashboard-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	devSecret, err := app.cfg.Validate()
	if err != nil {
		return nil, err
	}
	if devSecret {
		app.logger.Warn("AUTH_SECRET not set, signing sessions with the development secret")
	}
	if app.cfg.LineChannelID == "" {
		// Not fatal: login answers 500 until it is configured.
		app.logger.Warn("LINE_CHANNEL_ID and LIFF_ID not set, login is unavailable")
	}

	app.signer, err = sessionx.NewSigner([]byte(app.cfg.Secret))
	if err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"secure_cookie", app.cfg.IsProduction(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// OpenStore opens the SQLite database at path and applies migrations.
func OpenStore(path string) (store.Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg.DatabaseFile)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

func (app *Application) initServices() {
	verifier := linex.NewVerifier(app.cfg.LineChannelID, app.cfg.LineTimeout)
	verifier.Endpoint = app.cfg.LineVerifyURL

	app.whitelistService = &service.WhitelistService{Store: app.db}
	app.authService = &service.AuthService{
		Verifier:       verifier,
		Signer:         app.signer,
		Whitelist:      app.whitelistService,
		Store:          app.db,
		RecordUnlisted: app.cfg.RecordUnlisted,
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		sessionx.CookieOptions{Secure: app.cfg.IsProduction(), MaxAge: app.signer.TTL()},
		BuildVersion,
		app.db,
		app.logger,
	)
	router.AuthService = app.authService
	router.AllowedOrigins = app.cfg.AllowedOrigins
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
