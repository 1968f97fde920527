package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/lifelab-app/lifelab/internal/infra/observability"
)

// State is the switch's position in its provider state machine.
type State int

const (
	StateUnresolved State = iota
	StateLocal
	StateRemote
)

// String formats the state for logs.
func (s State) String() string {
	switch s {
	case StateLocal:
		return "local"
	case StateRemote:
		return "remote"
	default:
		return "unresolved"
	}
}

// Switch routes Provider calls to the local or remote backend based on auth
// state. Transitions:
//
//	Unresolved → Local   default on startup
//	Local → Remote       exactly once per session, on authentication; copies
//	                     every local collection into the remote namespace first
//	Remote → Local       on sign-out; local data is NOT overwritten with
//	                     remote data — the remote copy simply stays in the cloud
//
// Repeated auth events never trigger a second migration: the copy is guarded
// by an in-flight flag and a once-per-session latch.
type Switch struct {
	mu        sync.Mutex
	state     State
	local     Provider
	remote    Provider
	auth      AuthSource
	migrating bool
	migrated  bool
}

// NewSwitch creates a switch over the two backends. remote may be nil for
// local-only setups; the switch then never leaves StateLocal.
func NewSwitch(local, remote Provider, auth AuthSource) *Switch {
	return &Switch{local: local, remote: remote, auth: auth}
}

// State returns the current routing state.
func (s *Switch) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Init resolves the switch to Local and then attempts the remote transition
// if a user is already authenticated. Local-only usage must never be blocked
// by the network, so a failed remote transition leaves the switch on Local.
func (s *Switch) Init(ctx context.Context) error {
	if err := s.local.Init(ctx); err != nil {
		return fmt.Errorf("init local provider: %w", err)
	}
	s.mu.Lock()
	s.state = StateLocal
	s.mu.Unlock()
	observability.ProviderState.Set(float64(StateLocal))

	s.Resolve(ctx)
	return nil
}

// Resolve reacts to the current auth state. Called at startup and whenever
// the injected auth source reports a change.
func (s *Switch) Resolve(ctx context.Context) {
	if s.auth != nil && s.auth.Authenticated() {
		s.signIn(ctx)
	} else {
		s.SignOut()
	}
}

// signIn performs the Local → Remote transition, migrating local data once.
func (s *Switch) signIn(ctx context.Context) {
	s.mu.Lock()
	if s.remote == nil || s.state == StateRemote || s.migrating {
		s.mu.Unlock()
		return
	}
	s.migrating = true
	alreadyMigrated := s.migrated
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.migrating = false
		s.mu.Unlock()
	}()

	if err := s.remote.Init(ctx); err != nil {
		log.Printf("store: remote unavailable, staying local: %v", err)
		return
	}

	if !alreadyMigrated {
		if err := s.migrate(ctx); err != nil {
			log.Printf("store: migration failed, staying local: %v", err)
			return
		}
		observability.Migrations.Inc()
	}

	s.mu.Lock()
	s.migrated = true
	s.state = StateRemote
	s.mu.Unlock()
	observability.ProviderState.Set(float64(StateRemote))
}

// migrate copies every local collection into the remote namespace.
// Local data is left untouched.
func (s *Switch) migrate(ctx context.Context) error {
	snapshot, err := s.local.Export(ctx)
	if err != nil {
		return fmt.Errorf("snapshot local collections: %w", err)
	}
	for key, value := range snapshot {
		if err := s.remote.Save(ctx, key, value); err != nil {
			return fmt.Errorf("copy %s: %w", key, err)
		}
	}
	return nil
}

// SignOut performs the Remote → Local transition. Remote data stays in the
// cloud; nothing is pulled down over the local store.
func (s *Switch) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRemote {
		return
	}
	s.state = StateLocal
	observability.ProviderState.Set(float64(StateLocal))
}

func (s *Switch) active() Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRemote {
		return s.remote
	}
	return s.local
}

// Save routes to the active backend. A remote save failure is returned to
// the caller (the UI surfaces "your change may not have saved") — it never
// panics and never silently loses the error.
func (s *Switch) Save(ctx context.Context, collection string, value []byte) error {
	return s.active().Save(ctx, collection, value)
}

// Fetch routes to the active backend. A remote fetch failure degrades to the
// local provider for that operation instead of failing the read.
func (s *Switch) Fetch(ctx context.Context, collection string) ([]byte, error) {
	p := s.active()
	v, err := p.Fetch(ctx, collection)
	if err != nil && p == s.remote {
		log.Printf("store: remote fetch %s failed, falling back to local: %v", collection, err)
		observability.StoreFetchFailures.WithLabelValues("remote").Inc()
		return s.local.Fetch(ctx, collection)
	}
	return v, err
}

// Collections routes to the active backend with the same fallback as Fetch.
func (s *Switch) Collections(ctx context.Context) ([]string, error) {
	p := s.active()
	keys, err := p.Collections(ctx)
	if err != nil && p == s.remote {
		observability.StoreFetchFailures.WithLabelValues("remote").Inc()
		return s.local.Collections(ctx)
	}
	return keys, err
}

// Export routes to the active backend with the same fallback as Fetch.
func (s *Switch) Export(ctx context.Context) (map[string][]byte, error) {
	p := s.active()
	snap, err := p.Export(ctx)
	if err != nil && p == s.remote {
		observability.StoreFetchFailures.WithLabelValues("remote").Inc()
		return s.local.Export(ctx)
	}
	return snap, err
}
