// Package app initializes and runs the resource server. It configures
// logging, picks a storage backend, wires the services into the router,
// and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akozyrev-dev/ordersvc/internal/config"
	"github.com/akozyrev-dev/ordersvc/internal/logger"
	"github.com/akozyrev-dev/ordersvc/internal/models"
	"github.com/akozyrev-dev/ordersvc/internal/repository"
	"github.com/akozyrev-dev/ordersvc/internal/repository/filestore"
	"github.com/akozyrev-dev/ordersvc/internal/repository/memstore"
	"github.com/akozyrev-dev/ordersvc/internal/repository/pgstore"
	"github.com/akozyrev-dev/ordersvc/internal/router"
	"github.com/akozyrev-dev/ordersvc/internal/service"
)

type storage interface {
	Users() repository.Users
	Orders() repository.Orders
	Ping(ctx context.Context) error
	Close() error
}

// App encapsulates the configuration, HTTP handler, and storage backend
// needed to run the resource server.
type App struct {
	cfg         *config.Config
	db          storage
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and setting up storage
// - setting up the router and middleware
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.New(
		service.NewUsers(app.db.Users()),
		service.NewOrders(app.db.Orders()),
		app.db,
		app.cfg.StaticDir,
	)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Saving database and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return pgstore.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeFile:
		return filestore.New(cfg.DBFileName)
	}

	return memstore.New()
}
