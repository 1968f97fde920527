package store

import (
	"context"

	"github.com/lifelab-app/lifelab/internal/infra/observability"
	"github.com/lifelab-app/lifelab/internal/infra/sqlite"
)

// LocalProvider persists collections in the local SQLite store.
// It is the default backend and must keep working with no network at all.
type LocalProvider struct {
	db *sqlite.DB
}

// NewLocal creates a local provider over an opened database.
func NewLocal(db *sqlite.DB) *LocalProvider {
	return &LocalProvider{db: db}
}

// Init is a no-op; the database is migrated on Open.
func (p *LocalProvider) Init(ctx context.Context) error { return nil }

// Save replaces a collection's value.
func (p *LocalProvider) Save(ctx context.Context, collection string, value []byte) error {
	if err := p.db.PutCollection(collection, value); err != nil {
		return err
	}
	observability.StoreSaves.WithLabelValues("local").Inc()
	return nil
}

// Fetch returns a collection's value, nil when absent.
func (p *LocalProvider) Fetch(ctx context.Context, collection string) ([]byte, error) {
	return p.db.GetCollection(collection)
}

// Collections lists all stored collection keys.
func (p *LocalProvider) Collections(ctx context.Context) ([]string, error) {
	return p.db.ListCollections()
}

// Export returns a full snapshot of every collection.
func (p *LocalProvider) Export(ctx context.Context) (map[string][]byte, error) {
	return p.db.Snapshot()
}
