package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/studysync/internal/client/cache"
	"github.com/dmitrijs2005/studysync/internal/client/client"
	"github.com/dmitrijs2005/studysync/internal/client/config"
	"github.com/dmitrijs2005/studysync/internal/client/repositories/kv"
	"github.com/dmitrijs2005/studysync/internal/client/services"
	"github.com/dmitrijs2005/studysync/internal/filex"
	"github.com/dmitrijs2005/studysync/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pinger reports whether the remote store is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger

	sync        *services.Synchronizer
	schedule    *services.ScheduleService
	session     *services.SessionService
	attachments *services.AttachmentService
	remote      pinger
	closers     []func() error

	reader *bufio.Reader

	mu      sync.Mutex
	owner   string
	mode    Mode
	touched map[string]struct{}
}

// NewApp opens the local cache at c.CacheFile, connects the remote client
// and builds the services on top of them.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	store, err := openStore(ctx, c.CacheFile, logger)
	if err != nil {
		return nil, err
	}

	remote, err := client.NewGRPCClient(c.ServerEndpointAddr,
		client.WithTimeout(c.RemoteTimeout),
		client.WithRetry(3, 200*time.Millisecond),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	syncer := services.NewSynchronizer(cache.New(store, logger), remote, logger,
		services.WithRemoteTimeout(c.RemoteTimeout),
		services.WithDiagnostics(func(d services.Diagnostic) {
			logger.Debug(ctx, "sync diagnostic", "op", d.Op, "partition", d.Partition, "id", d.RecordID, "error", d.Err)
		}),
	)

	a := &App{
		config:      c,
		logger:      logger.With("module", "cli"),
		sync:        syncer,
		schedule:    services.NewScheduleService(syncer, logger),
		session:     services.NewSessionService(store, remote, logger),
		attachments: services.NewAttachmentService(remote, &http.Client{Timeout: 5 * time.Minute}),
		remote:      remote,
		closers:     []func() error{remote.Close, store.Close},
		reader:      bufio.NewReader(os.Stdin),
		mode:        ModeOffline,
		touched:     map[string]struct{}{},
	}
	return a, nil
}

type closableStore interface {
	kv.Store
	Close() error
}

// openStore opens the SQLite cache at path. An empty path keeps the cache
// in memory for the lifetime of the process.
func openStore(ctx context.Context, path string, logger logging.Logger) (closableStore, error) {
	if path == "" {
		logger.Warn(ctx, "no cache file configured, local data is not persisted")
		return memoryStore{kv.NewMemoryStore()}, nil
	}

	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	store, err := kv.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return store, nil
}

type memoryStore struct {
	*kv.MemoryStore
}

func (memoryStore) Close() error { return nil }

// Run restores the previous session, starts the online status watcher and
// blocks in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to studysync (type 'help' for commands)")

	if owner := a.session.Restore(ctx); owner != "" {
		a.setOwner(owner)
		printlnFn("Signed in as", owner)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

// Close releases the remote connection and the local store.
func (a *App) Close() {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn(context.Background(), "close failed", "error", err)
	}
}

func (a *App) currentOwner() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.owner
}

func (a *App) setOwner(owner string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.owner = owner
}

func (a *App) isLoggedIn() bool {
	return a.currentOwner() != ""
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// setMode records mode and reports whether it changed.
func (a *App) setMode(ctx context.Context, mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode == mode {
		return false
	}
	a.mode = mode
	a.logger.Info(ctx, "switched mode", "mode", string(mode))
	return true
}

func (a *App) touch(collection string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.touched == nil {
		a.touched = map[string]struct{}{}
	}
	a.touched[collection] = struct{}{}
}

func (a *App) touchedCollections() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.touched))
	for c := range a.touched {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (a *App) status() string {
	s := "anonymous"
	if owner := a.currentOwner(); owner != "" {
		s = owner
	}
	if m := a.currentMode(); m != "" {
		s += " " + string(m)
	}
	return "(" + s + ")"
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
// Going online pushes the offline records of every collection touched in
// this session.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if a.remote == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.remote.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	if a.setMode(ctx, ModeOnline) {
		a.pushOffline(ctx)
	}
}

func (a *App) pushOffline(ctx context.Context) {
	owner := a.currentOwner()
	if owner == "" {
		return
	}
	for _, collection := range a.touchedCollections() {
		if err := a.sync.SyncOfflineRecords(ctx, collection, owner); err != nil {
			a.logger.Warn(ctx, "offline sync failed", "collection", collection, "error", err)
		}
	}
}
