// Package server initializes and runs the reference backend.
// It selects storage backends from the config, wires the services and serves
// the REST API until the process is signalled.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/themisai/themis/internal/logging"
	"github.com/themisai/themis/internal/server/blobstore"
	"github.com/themisai/themis/internal/server/config"
	"github.com/themisai/themis/internal/server/httpapi"
	"github.com/themisai/themis/internal/server/mailer"
	"github.com/themisai/themis/internal/server/repositories/repomanager"
	"github.com/themisai/themis/internal/server/resettokens"
	"github.com/themisai/themis/internal/server/responder"
	"github.com/themisai/themis/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	server  *httpapi.Server
	closers []io.Closer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, logging.FormatJSON, c.LogLevel)
	if logging.ParseLevel(c.LogLevel) > logging.ParseLevel("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{config: c, logger: logger}

	rm, err := app.openRepositories(ctx)
	if err != nil {
		return nil, err
	}

	blobs, err := app.openBlobStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	tokens, err := app.openResetTokens(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	m, err := app.newMailer(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	us := services.NewUserService(rm, tokens, m, logger, c)
	cs := services.NewChatService(rm, responder.Canned{}, logger)
	ds := services.NewDocumentService(rm, blobs, logger)

	app.server = httpapi.NewServer(c.HTTPAddr, logger, httpapi.NewHandler(us, cs, ds, logger))
	return app, nil
}

// openRepositories uses PostgreSQL when a DSN is configured and process
// memory otherwise.
func (app *App) openRepositories(ctx context.Context) (repomanager.RepositoryManager, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, data is kept in memory")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	m, err := repomanager.OpenPostgres(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, m)
	return m, nil
}

func (app *App) openBlobStore(ctx context.Context) (blobstore.Store, error) {
	if app.config.S3Bucket == "" {
		s, err := blobstore.NewLocalStore(app.config.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("upload dir init error: %w", err)
		}
		app.logger.Info(ctx, "storing uploads on disk", "dir", app.config.UploadDir)
		return s, nil
	}

	s, err := blobstore.NewS3Store(ctx, blobstore.S3Config{
		Region:       app.config.S3Region,
		AccessKey:    app.config.S3RootUser,
		SecretKey:    app.config.S3RootPassword,
		Bucket:       app.config.S3Bucket,
		BaseEndpoint: app.config.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	app.logger.Info(ctx, "storing uploads in S3", "bucket", app.config.S3Bucket)
	return s, nil
}

func (app *App) openResetTokens(ctx context.Context) (resettokens.Store, error) {
	if app.config.RedisAddr == "" {
		return resettokens.NewMemoryStore(), nil
	}

	client, err := resettokens.Dial(ctx, app.config.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.closers = append(app.closers, client)
	return resettokens.NewRedisStore(client), nil
}

// newMailer sends reset links over SMTP when a host is configured and logs
// them otherwise.
func (app *App) newMailer(ctx context.Context) (mailer.Mailer, error) {
	c := app.config
	if c.SMTPHost == "" {
		app.logger.Warn(ctx, "no SMTP host configured, reset links are only logged")
		return mailer.NewLogMailer(app.logger, c.ResetURL), nil
	}

	m, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:       c.SMTPHost,
		Port:       c.SMTPPort,
		Username:   c.SMTPUser,
		Password:   c.SMTPPassword,
		From:       c.SMTPFrom,
		RequireTLS: c.SMTPRequireTLS,
		ResetURL:   c.ResetURL,
		TokenTTL:   c.ResetTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("smtp init error: %w", err)
	}
	app.logger.Info(ctx, "sending reset links by mail", "host", c.SMTPHost)
	return m, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.Close()
}

// Close releases database and Redis connections.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Error(context.Background(), "close failed", "err", err)
		}
	}
	app.closers = nil
}
