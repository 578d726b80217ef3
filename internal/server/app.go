// Package server wires the document store: storage backend, services and
// the gRPC transport, and runs it until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/studysync/internal/logging"
	"github.com/dmitrijs2005/studysync/internal/server/config"
	"github.com/dmitrijs2005/studysync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studysync/internal/server/services"

	gs "github.com/dmitrijs2005/studysync/internal/server/grpc"
)

var openDB = sql.Open

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	documentService   *services.DocumentService
	attachmentService *services.AttachmentService
	runGRPCServerHook func(ctx context.Context, s *gs.GRPCServer) error
}

// NewApp opens the storage backend described by c. An empty DatabaseDSN
// keeps documents in memory; otherwise the PostgreSQL schema is migrated
// before the app is returned.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, documents are kept in memory")
		rm = repomanager.NewMemoryRepositoryManager()
	} else {
		var err error
		db, err = openDB(repomanager.DriverName, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db migration error: %w", err)
		}
	}

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		documentService:   services.NewDocumentService(db, rm),
		attachmentService: services.NewAttachmentService(c),
		runGRPCServerHook: func(ctx context.Context, s *gs.GRPCServer) error { return s.Run(ctx) },
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.documentService, app.attachmentService, app.config.SecretKey)

	if err := app.runGRPCServerHook(ctx, s); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM/SIGQUIT is received.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
