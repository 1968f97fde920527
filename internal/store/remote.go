package store

import (
	"context"

	"github.com/lifelab-app/lifelab/internal/domain"
	"github.com/lifelab-app/lifelab/internal/infra/observability"
	"github.com/lifelab-app/lifelab/internal/infra/remote"
)

// RemoteProvider persists collections in the per-user namespace of the sync
// service. It is only usable while a user is authenticated.
type RemoteProvider struct {
	client *remote.Client
	auth   AuthSource
}

// NewRemote creates a remote provider over the sync service client.
func NewRemote(client *remote.Client, auth AuthSource) *RemoteProvider {
	return &RemoteProvider{client: client, auth: auth}
}

func (p *RemoteProvider) userID() (string, error) {
	if !p.auth.Authenticated() {
		return "", domain.ErrNotAuthenticated
	}
	return p.auth.UserID(), nil
}

// Init verifies a user is present; the namespace itself is created lazily.
func (p *RemoteProvider) Init(ctx context.Context) error {
	_, err := p.userID()
	return err
}

// Save replaces a collection's value in the user's namespace.
func (p *RemoteProvider) Save(ctx context.Context, collection string, value []byte) error {
	uid, err := p.userID()
	if err != nil {
		return err
	}
	if err := p.client.Put(ctx, uid, collection, value); err != nil {
		return err
	}
	observability.StoreSaves.WithLabelValues("remote").Inc()
	return nil
}

// Fetch returns a collection's value from the user's namespace.
func (p *RemoteProvider) Fetch(ctx context.Context, collection string) ([]byte, error) {
	uid, err := p.userID()
	if err != nil {
		return nil, err
	}
	return p.client.Get(ctx, uid, collection)
}

// Collections lists the keys present in the user's namespace.
func (p *RemoteProvider) Collections(ctx context.Context) ([]string, error) {
	uid, err := p.userID()
	if err != nil {
		return nil, err
	}
	return p.client.List(ctx, uid)
}

// Export fetches every collection in the user's namespace.
func (p *RemoteProvider) Export(ctx context.Context) (map[string][]byte, error) {
	keys, err := p.Collections(ctx)
	if err != nil {
		return nil, err
	}
	uid, err := p.userID()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		v, err := p.client.Get(ctx, uid, k)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out[k] = v
		}
	}
	return out, nil
}
