// Package notebook owns the canonical per-month, per-day record and the
// sync engine that merges domain entry presence into it.
package notebook

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/lifelab-app/lifelab/internal/domain"
	"github.com/lifelab-app/lifelab/internal/entries"
	"github.com/lifelab-app/lifelab/internal/settings"
	"github.com/lifelab-app/lifelab/internal/store"
)

// DefaultReflectionDebounce is how long a reflection edit sits before it is
// persisted. Each edit re-arms the timer.
const DefaultReflectionDebounce = time.Second

// Store manages monthly notebooks.
type Store struct {
	mu       sync.Mutex
	p        store.Provider
	entries  *entries.Store
	settings *settings.Store

	debounce time.Duration

	reflMu      sync.Mutex
	reflTimer   *time.Timer
	pendingYear int
	pendingMon  int
	pendingText string
	shutdown    bool
}

// New creates a notebook store wired to the entry and settings stores.
func New(p store.Provider, es *entries.Store, ss *settings.Store) *Store {
	return &Store{p: p, entries: es, settings: ss, debounce: DefaultReflectionDebounce}
}

// SetDebounce overrides the reflection auto-save delay.
func (s *Store) SetDebounce(d time.Duration) { s.debounce = d }

// load fetches the month's notebook, lazily creating one when absent or
// unreadable. A freshly created notebook has every day of the month with an
// empty Domains set.
func (s *Store) load(ctx context.Context, year, month int) domain.Notebook {
	raw, err := s.p.Fetch(ctx, domain.NotebookCollection(year, month))
	if err != nil {
		log.Printf("notebook: read %d-%02d failed, starting empty: %v", year, month, err)
		return domain.NewNotebook(year, month)
	}
	if raw == nil {
		return domain.NewNotebook(year, month)
	}
	var nb domain.Notebook
	if err := json.Unmarshal(raw, &nb); err != nil {
		log.Printf("notebook: decode %d-%02d failed, starting empty: %v", year, month, err)
		return domain.NewNotebook(year, month)
	}
	if nb.Days == nil {
		nb.Days = make(map[string]domain.DayEntry)
	}
	// Backfill day keys for months stored before a day was first touched.
	for d := 1; d <= domain.DaysInMonth(year, month); d++ {
		k := domain.DayKey(d)
		if _, ok := nb.Days[k]; !ok {
			nb.Days[k] = domain.DayEntry{Domains: []string{}}
		}
	}
	return nb
}

func (s *Store) save(ctx context.Context, nb domain.Notebook) error {
	raw, err := json.Marshal(nb)
	if err != nil {
		return err
	}
	return s.p.Save(ctx, domain.NotebookCollection(nb.Year, nb.Month), raw)
}

// Get returns the month's notebook without syncing. Most readers want
// SyncMonth instead; Get exists for surfaces that must not write.
func (s *Store) Get(ctx context.Context, year, month int) domain.Notebook {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, year, month)
}

// SetDay updates the user-set fields of one day. Sync never touches these
// fields, and this path never touches Domains — the two writers stay on
// disjoint fields by construction.
func (s *Store) SetDay(ctx context.Context, year, month, day int, intent domain.Intent, quality domain.Quality, outcome domain.Outcome) error {
	if day < 1 || day > domain.DaysInMonth(year, month) {
		return domain.ErrDayOutOfRange
	}
	if !domain.ValidIntent(intent) || !domain.ValidQuality(quality) || !domain.ValidOutcome(outcome) {
		return domain.ErrInvalidField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nb := s.load(ctx, year, month)
	if nb.Closed {
		return domain.ErrNotebookClosed
	}
	k := domain.DayKey(day)
	d := nb.Days[k]
	d.Intent = intent
	d.Quality = quality
	d.Outcome = outcome
	nb.Days[k] = d
	return s.save(ctx, nb)
}

// Close archives the month. The transition is false→true; Reopen exists as
// an explicit escape hatch, not part of the normal flow.
func (s *Store) Close(ctx context.Context, year, month int) error {
	return s.setClosed(ctx, year, month, true)
}

// Reopen clears the archived flag.
func (s *Store) Reopen(ctx context.Context, year, month int) error {
	return s.setClosed(ctx, year, month, false)
}

func (s *Store) setClosed(ctx context.Context, year, month int, closed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	nb := s.load(ctx, year, month)
	nb.Closed = closed
	return s.save(ctx, nb)
}

// ─── Reflection Auto-Save ───────────────────────────────────────────────────

// SetReflection records a reflection edit and arms the debounce timer.
// Each call re-arms the timer; the write happens once typing pauses.
// After Shutdown the edit is dropped rather than written to a torn-down
// context.
func (s *Store) SetReflection(year, month int, text string) {
	s.reflMu.Lock()
	defer s.reflMu.Unlock()
	if s.shutdown {
		return
	}

	s.pendingYear = year
	s.pendingMon = month
	s.pendingText = text

	if s.reflTimer != nil {
		s.reflTimer.Stop()
	}
	s.reflTimer = time.AfterFunc(s.debounce, func() {
		if err := s.FlushReflection(context.Background()); err != nil {
			log.Printf("notebook: reflection auto-save failed: %v", err)
		}
	})
}

// FlushReflection writes any pending reflection immediately.
func (s *Store) FlushReflection(ctx context.Context) error {
	s.reflMu.Lock()
	if s.pendingYear == 0 {
		s.reflMu.Unlock()
		return nil
	}
	year, month, text := s.pendingYear, s.pendingMon, s.pendingText
	s.pendingYear = 0
	s.reflMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	nb := s.load(ctx, year, month)
	if nb.Closed {
		return domain.ErrNotebookClosed
	}
	nb.Reflection = text
	return s.save(ctx, nb)
}

// Shutdown stops the debounce timer and drops any pending edit. Mandatory on
// teardown so a late timer never writes to a stale context.
func (s *Store) Shutdown() {
	s.reflMu.Lock()
	defer s.reflMu.Unlock()
	s.shutdown = true
	if s.reflTimer != nil {
		s.reflTimer.Stop()
		s.reflTimer = nil
	}
	s.pendingYear = 0
}
