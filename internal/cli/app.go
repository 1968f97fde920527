package cli

import (
	"context"
	"fmt"

	"github.com/lifelab-app/lifelab/internal/backup"
	"github.com/lifelab-app/lifelab/internal/daemon"
	"github.com/lifelab-app/lifelab/internal/entries"
	"github.com/lifelab-app/lifelab/internal/infra/remote"
	"github.com/lifelab-app/lifelab/internal/infra/sqlite"
	"github.com/lifelab-app/lifelab/internal/notebook"
	"github.com/lifelab-app/lifelab/internal/settings"
	"github.com/lifelab-app/lifelab/internal/store"
	"github.com/lifelab-app/lifelab/internal/wins"
)

// app wires the feature stores over the provider switch. Every command goes
// through here so CLI and HTTP surfaces share one storage path.
type app struct {
	cfg       daemon.Config
	db        *sqlite.DB
	provider  *store.Switch
	settings  *settings.Store
	entries   *entries.Store
	notebooks *notebook.Store
	wins      *wins.Ledger
	backup    *backup.Service
}

func newApp(ctx context.Context, cfg daemon.Config) (*app, error) {
	db, err := sqlite.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	local := store.NewLocal(db)
	auth := store.StaticAuth{ID: cfg.Remote.UserID}
	var remoteProvider store.Provider
	if cfg.Remote.Endpoint != "" {
		client := remote.New(cfg.Remote.Endpoint, cfg.Remote.Token, cfg.Remote.Timeout())
		remoteProvider = store.NewRemote(client, auth)
	}

	sw := store.NewSwitch(local, remoteProvider, auth)
	if err := sw.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	ss := settings.New(sw)
	es := entries.New(sw)
	nb := notebook.New(sw, es, ss)
	nb.SetDebounce(cfg.Sync.Debounce())

	return &app{
		cfg:       cfg,
		db:        db,
		provider:  sw,
		settings:  ss,
		entries:   es,
		notebooks: nb,
		wins:      wins.New(sw),
		backup:    backup.New(sw),
	}, nil
}

// close flushes pending work and releases the local store.
func (a *app) close(ctx context.Context) {
	a.notebooks.FlushReflection(ctx)
	a.notebooks.Shutdown()
	a.db.Close()
}
