// Package app assembles the service: config, logging, store, cache, mail,
// media, services and the HTTP server, plus the run/shutdown lifecycle.
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

	"github.com/contacthub/contacthub/internal/cache"
	httpapi "github.com/contacthub/contacthub/internal/http"
	"github.com/contacthub/contacthub/internal/mail"
	"github.com/contacthub/contacthub/internal/media"
	"github.com/contacthub/contacthub/internal/service"
	"github.com/contacthub/contacthub/internal/store"
	"github.com/contacthub/contacthub/internal/store/drivers/sqlite"
	"github.com/contacthub/contacthub/pkg/slogx"
	"github.com/contacthub/contacthub/pkg/tokens"
	"github.com/redis/go-redis/v9"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	redis  *redis.Client
	mailer *mail.Dispatcher

	identityService *service.IdentityService
	accountService  *service.AccountService
	contactService  *service.ContactService
	avatarService   *service.AvatarService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "contacthub",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.Secret == "" {
		return nil, errors.New("APP_SECRET is required")
	}
	if app.cfg.BaseURL == "" {
		app.cfg.BaseURL = fmt.Sprintf("http://localhost:%d/", cfg.Port)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	rdb, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = rdb

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		_ = app.redis.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("contacthub starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains in-flight requests, waits for queued mail and releases the
// backing connections.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down contacthub...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Let queued confirmation/reset mails finish before the process exits.
	app.mailer.Wait()

	if err := app.redis.Close(); err != nil {
		app.logger.Error("error closing redis client", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("contacthub stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() error {
	tokenService := &tokens.Service{
		Secret:     []byte(app.cfg.Secret),
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
	}

	app.mailer = mail.NewDispatcher(&mail.SMTPSender{
		Addr:     app.cfg.SMTPAddr,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.MailFrom,
		FromName: app.cfg.MailFromName,
	})

	uploader, err := media.NewS3Uploader(context.Background(), media.Config{
		Region:       app.cfg.S3Region,
		BaseEndpoint: app.cfg.S3Endpoint,
		AccessKey:    app.cfg.S3AccessKey,
		SecretKey:    app.cfg.S3SecretKey,
		Bucket:       app.cfg.S3Bucket,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize avatar storage: %w", err)
	}

	app.identityService = &service.IdentityService{
		Store:  app.db,
		Tokens: tokenService,
		Cache:  cache.NewSessions(app.redis),
	}
	app.accountService = &service.AccountService{
		Store:   app.db,
		Tokens:  tokenService,
		Mail:    app.mailer,
		BaseURL: app.cfg.BaseURL,
	}
	app.contactService = &service.ContactService{Store: app.db}
	app.avatarService = &service.AvatarService{Store: app.db, Uploader: uploader}

	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.redis, app.logger)

	router.Identity = app.identityService
	router.Accounts = app.accountService
	router.Contacts = app.contactService
	router.Avatars = app.avatarService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
