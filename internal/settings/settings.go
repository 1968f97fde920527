// Package settings persists the user's life-domain configuration.
package settings

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/lifelab-app/lifelab/internal/domain"
	"github.com/lifelab-app/lifelab/internal/store"
)

type persisted struct {
	Domains []string `json:"domains"`
}

// Store reads and writes the settings collection.
type Store struct {
	mu sync.Mutex
	p  store.Provider
}

// New creates a settings store over the given provider.
func New(p store.Provider) *Store {
	return &Store{p: p}
}

// Domains returns the configured life domains, falling back to the defaults
// when nothing is stored or the read fails.
func (s *Store) Domains(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.p.Fetch(ctx, domain.SettingsCollection)
	if err != nil {
		log.Printf("settings: read failed, using defaults: %v", err)
		return domain.DefaultDomains()
	}
	if raw == nil {
		return domain.DefaultDomains()
	}
	var ps persisted
	if err := json.Unmarshal(raw, &ps); err != nil || len(ps.Domains) == 0 {
		return domain.DefaultDomains()
	}
	return ps.Domains
}

// SetDomains replaces the configured domain list. Removing a domain never
// touches its historical entries or notebook presence.
func (s *Store) SetDomains(ctx context.Context, domains []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(persisted{Domains: domains})
	if err != nil {
		return err
	}
	return s.p.Save(ctx, domain.SettingsCollection, raw)
}

// Has reports whether domainID is currently configured.
func (s *Store) Has(ctx context.Context, domainID string) bool {
	for _, d := range s.Domains(ctx) {
		if d == domainID {
			return true
		}
	}
	return false
}
