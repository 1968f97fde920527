// Package wins is the date-keyed win ledger: at most one free-text
// acknowledgement per day, with descriptive counts only. No streaks, no
// "best period" — that absence is a product invariant, not a gap.
package wins

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lifelab-app/lifelab/internal/domain"
	"github.com/lifelab-app/lifelab/internal/infra/observability"
	"github.com/lifelab-app/lifelab/internal/store"
)

// Ledger stores win entries through the persistence provider.
type Ledger struct {
	mu  sync.Mutex
	p   store.Provider
	now func() time.Time
}

// New creates a win ledger over the given provider.
func New(p store.Provider) *Ledger {
	return &Ledger{p: p, now: time.Now}
}

// SetClock replaces the creation clock; tests use this.
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

func (l *Ledger) load(ctx context.Context) []domain.WinEntry {
	raw, err := l.p.Fetch(ctx, domain.WinsCollection)
	if err != nil {
		log.Printf("wins: read failed, treating as empty: %v", err)
		return []domain.WinEntry{}
	}
	if raw == nil {
		return []domain.WinEntry{}
	}
	var list []domain.WinEntry
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Printf("wins: decode failed, treating as empty: %v", err)
		return []domain.WinEntry{}
	}
	return list
}

func (l *Ledger) save(ctx context.Context, list []domain.WinEntry) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return l.p.Save(ctx, domain.WinsCollection, raw)
}

// Save records a win for date. A duplicate date is rejected with
// ErrWinExists — never overwritten, never merged. Callers surface the
// rejection as a silent no-op (disabled input), not an error dialog.
func (l *Ledger) Save(ctx context.Context, date, text string) (domain.WinEntry, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return domain.WinEntry{}, domain.ErrInvalidDate
	}
	if strings.TrimSpace(text) == "" {
		return domain.WinEntry{}, domain.ErrEmptyValue
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.load(ctx)
	for _, w := range list {
		if w.Date == date {
			observability.WinRejections.Inc()
			return domain.WinEntry{}, domain.ErrWinExists
		}
	}

	w := domain.WinEntry{
		ID:        uuid.NewString(),
		Date:      date,
		Text:      text,
		CreatedAt: l.now().Format(time.RFC3339),
	}
	if err := l.save(ctx, append(list, w)); err != nil {
		return domain.WinEntry{}, err
	}
	return w, nil
}

// ByDate returns the win for a date, if any.
func (l *Ledger) ByDate(ctx context.Context, date string) (domain.WinEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range l.load(ctx) {
		if w.Date == date {
			return w, true
		}
	}
	return domain.WinEntry{}, false
}

// All returns every win, ascending by date.
func (l *Ledger) All(ctx context.Context) []domain.WinEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	list := l.load(ctx)
	sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	return list
}

// Stats returns the total, this-month and this-year counts — the complete
// set of aggregates this feature exposes.
func (l *Ledger) Stats(ctx context.Context) domain.WinStats {
	now := l.now()
	monthPrefix := now.Format("2006-01")
	yearPrefix := now.Format("2006")

	l.mu.Lock()
	defer l.mu.Unlock()

	var s domain.WinStats
	for _, w := range l.load(ctx) {
		s.Total++
		if strings.HasPrefix(w.Date, yearPrefix) {
			s.ThisYear++
		}
		if strings.HasPrefix(w.Date, monthPrefix) {
			s.ThisMonth++
		}
	}
	return s
}
