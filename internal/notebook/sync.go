package notebook

import (
	"context"
	"log"

	"github.com/lifelab-app/lifelab/internal/domain"
	"github.com/lifelab-app/lifelab/internal/infra/observability"
)

// SyncMonth merges domain entry presence into the month's notebook and
// persists the result.
//
// The merge is non-destructive: it only ever adds domain ids to a day's
// Domains set, and it never reads or writes Intent/Quality/Outcome or the
// Reflection text. It is idempotent — two consecutive runs with no new
// entries produce byte-identical notebooks — so it is safe to call before
// every read and every render.
func (s *Store) SyncMonth(ctx context.Context, year, month int) (domain.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nb := s.load(ctx, year, month)
	days := domain.DaysInMonth(year, month)

	for _, dom := range s.settings.Domains(ctx) {
		for _, e := range s.entries.ForMonth(ctx, dom, year, month) {
			day := e.Day().Day()
			if day < 1 || day > days {
				// Should not happen — the day is derived from the timestamp
				// itself. Skip the single entry rather than abort the sync.
				log.Printf("sync: entry %s maps to day %d outside %d-%02d, skipping", e.ID, day, year, month)
				observability.SyncSkippedEntries.Inc()
				continue
			}
			k := domain.DayKey(day)
			nb.Days[k] = nb.Days[k].WithDomain(dom)
		}
	}

	observability.SyncRuns.Inc()
	if err := s.save(ctx, nb); err != nil {
		return nb, err
	}
	return nb, nil
}
