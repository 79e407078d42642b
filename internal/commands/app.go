package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/keiri-dev/keiri/internal/accounts"
	"github.com/keiri-dev/keiri/internal/config"
	"github.com/keiri-dev/keiri/internal/history"
	"github.com/keiri-dev/keiri/internal/journal"
	"github.com/keiri-dev/keiri/internal/ledger"
	"github.com/keiri-dev/keiri/internal/report"
	"github.com/keiri-dev/keiri/internal/store"
	"github.com/keiri-dev/keiri/internal/store/csvfile"
	"github.com/keiri-dev/keiri/internal/store/memory"
	"github.com/keiri-dev/keiri/internal/store/postgres"
	"github.com/keiri-dev/keiri/internal/store/sqlite"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	dir   string
	owner string
	debug bool
}

// app is an opened project: config, chart and store.
type app struct {
	root    string
	cfg     *config.Config
	catalog *accounts.Catalog
	store   store.Store
	loc     *time.Location
	logger  *slog.Logger
}

func openApp(ctx context.Context, g *globals) (*app, error) {
	root, err := filepath.Abs(g.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, err
	}

	catalog, err := accounts.Load(root)
	if errors.Is(err, fs.ErrNotExist) {
		catalog = accounts.Default()
	} else if err != nil {
		return nil, err
	}

	logger := slog.Default()
	s, err := openStore(ctx, root, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("project opened", "root", root, "driver", cfg.Store.Driver)

	return &app{
		root:    root,
		cfg:     cfg,
		catalog: catalog,
		store:   s,
		loc:     loc,
		logger:  logger,
	}, nil
}

func openStore(ctx context.Context, root string, sc config.StoreConfig, logger *slog.Logger) (store.Store, error) {
	path := sc.Path
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	switch sc.Driver {
	case "", "csv":
		if path == "" {
			path = filepath.Join(root, "data")
		}
		return csvfile.Open(path)
	case "sqlite":
		if path == "" {
			path = filepath.Join(root, "data")
		}
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "keiri.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
		return sqlite.Open(path)
	case "postgres":
		if sc.DSN == "" {
			return nil, errors.New("postgres driver needs store.dsn or KEIRI_DATABASE_URL")
		}
		return postgres.Open(ctx, sc.DSN, logger)
	case "memory":
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", sc.Driver)
}

func (a *app) Close() error {
	return a.store.Close()
}

// ownerRef picks the --owner flag, falling back to the configured owner.
func (a *app) ownerRef(g *globals) (string, error) {
	if g.owner != "" {
		return g.owner, nil
	}
	if a.cfg.Business.Owner != "" {
		return a.cfg.Business.Owner, nil
	}
	return "", errors.New("no owner: pass --owner or set business.owner")
}

func (a *app) builder() *journal.Builder {
	return journal.NewBuilder(a.store,
		journal.WithAccounts(a.catalog),
		journal.WithLocation(a.loc),
		journal.WithLogger(a.logger),
	)
}

func (a *app) aggregator() *ledger.Aggregator {
	return ledger.NewAggregator(a.store, a.cfg.Accounts, a.logger)
}

func (a *app) composer() *report.Composer {
	return report.NewComposer(a.aggregator(), report.WithLocation(a.loc), report.WithOwners(a.store))
}

// today is the current date in the configured timezone.
func (a *app) today() time.Time {
	return store.Date(time.Now().In(a.loc))
}

// record commits the project directory when history is enabled. A failed
// commit is logged and does not fail the command.
func (a *app) record(message string) {
	if !a.cfg.History.Enabled || !history.IsRepo(a.root) {
		return
	}
	rec := history.NewRecorder(a.root, a.cfg.History.AuthorName, a.cfg.History.AuthorEmail)
	hash, err := rec.Commit(message)
	if err != nil {
		a.logger.Warn("history commit failed", "message", message, "error", err)
		return
	}
	if hash != "" {
		a.logger.Debug("history committed", "hash", hash, "message", message)
	}
}

// withApp opens the project for the duration of fn.
func withApp(ctx context.Context, g *globals, fn func(*app) error) error {
	a, err := openApp(ctx, g)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
