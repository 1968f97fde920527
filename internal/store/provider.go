// Package store defines the persistence provider abstraction and the
// auth-aware switch between the local and remote backends.
//
// Every feature store (entries, notebook, win ledger) depends only on the
// Provider interface — never on auth state or a concrete backend. The whole
// layer uses the "read full collection → mutate in memory → write full
// collection" pattern; this is safe for a single process but NOT against two
// processes writing the same account concurrently. That is an accepted
// limitation, not a bug.
package store

import "context"

// Provider is the uniform persistence contract.
//
// Fetch returns nil (an empty default) for a missing collection and should
// only error for genuine storage failures; callers treat errors as "no data"
// rather than crashing a read path.
type Provider interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, collection string, value []byte) error
	Fetch(ctx context.Context, collection string) ([]byte, error)
	Collections(ctx context.Context) ([]string, error)
	Export(ctx context.Context) (map[string][]byte, error)
}

// AuthSource is everything the store layer is allowed to know about
// authentication: whether a user is signed in, and an opaque identifier used
// purely as the remote namespace key.
type AuthSource interface {
	Authenticated() bool
	UserID() string
}

// StaticAuth is an AuthSource with fixed values, built from configuration.
type StaticAuth struct {
	ID string
}

// Authenticated reports whether a user id is configured.
func (a StaticAuth) Authenticated() bool { return a.ID != "" }

// UserID returns the configured opaque user id.
func (a StaticAuth) UserID() string { return a.ID }
