// Package entries is the CRUD store for per-domain activity entries.
// One collection per life domain, holding an ordered list of Entry records.
package entries

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lifelab-app/lifelab/internal/domain"
	"github.com/lifelab-app/lifelab/internal/store"
)

// Store provides entry CRUD over the persistence provider.
type Store struct {
	mu sync.Mutex
	p  store.Provider

	// now is the clock for timestamp assignment; tests may replace it.
	now func() time.Time
}

// New creates an entry store over the given provider.
func New(p store.Provider) *Store {
	return &Store{p: p, now: time.Now}
}

// SetClock replaces the timestamp clock. Tests use this to pin entries to
// specific calendar days.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// List returns all entries for a domain. Missing or unreadable collections
// degrade to an empty list — reads never error into callers.
func (s *Store) List(ctx context.Context, domainID string) []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, domainID)
}

func (s *Store) load(ctx context.Context, domainID string) []domain.Entry {
	raw, err := s.p.Fetch(ctx, domain.EntriesCollection(domainID))
	if err != nil {
		log.Printf("entries: read %s failed, treating as empty: %v", domainID, err)
		return []domain.Entry{}
	}
	if raw == nil {
		return []domain.Entry{}
	}
	var list []domain.Entry
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Printf("entries: decode %s failed, treating as empty: %v", domainID, err)
		return []domain.Entry{}
	}
	return list
}

func (s *Store) save(ctx context.Context, domainID string, list []domain.Entry) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.p.Save(ctx, domain.EntriesCollection(domainID), raw)
}

// Add appends a new entry to the domain's list. The id and timestamp are
// assigned here; the entry is immutable afterwards.
func (s *Store) Add(ctx context.Context, domainID, value, notes string) (domain.Entry, error) {
	if strings.TrimSpace(value) == "" {
		return domain.Entry{}, domain.ErrEmptyValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := domain.Entry{
		ID:        uuid.NewString(),
		Timestamp: s.now().UnixMilli(),
		Value:     value,
		Notes:     notes,
	}
	list := append(s.load(ctx, domainID), e)
	if err := s.save(ctx, domainID, list); err != nil {
		return domain.Entry{}, err
	}
	return e, nil
}

// Delete hard-deletes an entry by id. There is no tombstone.
func (s *Store) Delete(ctx context.Context, domainID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.load(ctx, domainID)
	kept := list[:0]
	found := false
	for _, e := range list {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return domain.ErrEntryNotFound
	}
	return s.save(ctx, domainID, kept)
}

// ForMonth returns the domain's entries whose local-time calendar day falls
// in (year, month).
func (s *Store) ForMonth(ctx context.Context, domainID string, year, month int) []domain.Entry {
	var out []domain.Entry
	for _, e := range s.List(ctx, domainID) {
		day := e.Day()
		if day.Year() == year && int(day.Month()) == month {
			out = append(out, e)
		}
	}
	return out
}
