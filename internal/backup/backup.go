// Package backup implements full-state export and import.
// The export is one JSON document carrying every collection plus a schema
// version. Import validates the document shape before touching storage —
// a malformed backup is rejected with zero side effects.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lifelab-app/lifelab/internal/domain"
	"github.com/lifelab-app/lifelab/internal/infra/observability"
	"github.com/lifelab-app/lifelab/internal/store"
)

// SchemaVersion is the current backup document version.
const SchemaVersion = 1

// Mode selects import semantics.
type Mode string

const (
	// ModeMerge appends new records and never overwrites existing ones.
	ModeMerge Mode = "merge"
	// ModeReplace overwrites every collection present in the backup.
	// Destructive; only used when the user explicitly chooses it.
	ModeReplace Mode = "replace"
)

// Snapshot is the backup wire format.
type Snapshot struct {
	SchemaVersion int                        `json:"schema_version"`
	Collections   map[string]json.RawMessage `json:"collections"`
}

// Service performs export and import through the persistence provider.
type Service struct {
	p store.Provider
}

// New creates a backup service over the given provider.
func New(p store.Provider) *Service {
	return &Service{p: p}
}

// Export serializes every collection into one backup document.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	raw, err := s.p.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	snap := Snapshot{
		SchemaVersion: SchemaVersion,
		Collections:   make(map[string]json.RawMessage, len(raw)),
	}
	for k, v := range raw {
		snap.Collections[k] = json.RawMessage(v)
	}
	observability.BackupExports.Inc()
	return json.MarshalIndent(snap, "", "  ")
}

// Import applies a backup document. The whole document is validated first;
// nothing is written unless validation passes.
func (s *Service) Import(ctx context.Context, data []byte, mode Mode) error {
	snap, err := validate(data)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(snap.Collections))
	for k := range snap.Collections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		incoming := []byte(snap.Collections[key])
		if mode == ModeReplace {
			if err := s.p.Save(ctx, key, incoming); err != nil {
				return fmt.Errorf("import %s: %w", key, err)
			}
			continue
		}

		existing, err := s.p.Fetch(ctx, key)
		if err != nil {
			return fmt.Errorf("import %s: read existing: %w", key, err)
		}
		merged, err := merge(key, existing, incoming)
		if err != nil {
			return fmt.Errorf("import %s: %w", key, err)
		}
		if merged == nil {
			continue // existing value kept as is
		}
		if err := s.p.Save(ctx, key, merged); err != nil {
			return fmt.Errorf("import %s: %w", key, err)
		}
	}

	observability.BackupImports.WithLabelValues(string(mode)).Inc()
	return nil
}

// validate checks the top-level shape and the per-collection shapes.
func validate(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, domain.ErrImportFormat
	}
	if snap.SchemaVersion != SchemaVersion || snap.Collections == nil {
		return Snapshot{}, domain.ErrImportFormat
	}
	for key, raw := range snap.Collections {
		switch {
		case strings.HasPrefix(key, "entries_"):
			var list []domain.Entry
			if err := json.Unmarshal(raw, &list); err != nil {
				return Snapshot{}, domain.ErrImportFormat
			}
		case strings.HasPrefix(key, "notebook_"):
			var nb domain.Notebook
			if err := json.Unmarshal(raw, &nb); err != nil {
				return Snapshot{}, domain.ErrImportFormat
			}
		case key == domain.WinsCollection:
			var list []domain.WinEntry
			if err := json.Unmarshal(raw, &list); err != nil {
				return Snapshot{}, domain.ErrImportFormat
			}
		case key == domain.SettingsCollection:
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(raw, &obj); err != nil {
				return Snapshot{}, domain.ErrImportFormat
			}
		default:
			return Snapshot{}, domain.ErrImportFormat
		}
	}
	return snap, nil
}

// merge combines an incoming collection with the existing one additively.
// It returns nil when the existing value should be kept unchanged.
func merge(key string, existing, incoming []byte) ([]byte, error) {
	if existing == nil {
		return incoming, nil
	}
	switch {
	case strings.HasPrefix(key, "entries_"):
		return mergeEntries(existing, incoming)
	case strings.HasPrefix(key, "notebook_"):
		return mergeNotebook(existing, incoming)
	case key == domain.WinsCollection:
		return mergeWins(existing, incoming)
	default:
		// settings: the user's live configuration wins over a backup
		return nil, nil
	}
}

func mergeEntries(existing, incoming []byte) ([]byte, error) {
	var cur, in []domain.Entry
	if err := json.Unmarshal(existing, &cur); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(incoming, &in); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(cur))
	for _, e := range cur {
		seen[e.ID] = true
	}
	for _, e := range in {
		if !seen[e.ID] {
			cur = append(cur, e)
		}
	}
	return json.Marshal(cur)
}

func mergeWins(existing, incoming []byte) ([]byte, error) {
	var cur, in []domain.WinEntry
	if err := json.Unmarshal(existing, &cur); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(incoming, &in); err != nil {
		return nil, err
	}
	dates := make(map[string]bool, len(cur))
	for _, w := range cur {
		dates[w.Date] = true
	}
	for _, w := range in {
		if !dates[w.Date] {
			cur = append(cur, w)
		}
	}
	return json.Marshal(cur)
}

// mergeNotebook fills empty user-set fields from the backup and unions
// domain presence. Fields already set locally are never overwritten.
func mergeNotebook(existing, incoming []byte) ([]byte, error) {
	var cur, in domain.Notebook
	if err := json.Unmarshal(existing, &cur); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(incoming, &in); err != nil {
		return nil, err
	}
	if cur.Days == nil {
		cur.Days = make(map[string]domain.DayEntry)
	}
	if cur.Reflection == "" {
		cur.Reflection = in.Reflection
	}
	for k, ind := range in.Days {
		d, ok := cur.Days[k]
		if !ok {
			cur.Days[k] = ind
			continue
		}
		if d.Intent == domain.IntentNone {
			d.Intent = ind.Intent
		}
		if d.Quality == domain.QualityNone {
			d.Quality = ind.Quality
		}
		if d.Outcome == domain.OutcomeNone {
			d.Outcome = ind.Outcome
		}
		for _, id := range ind.Domains {
			d = d.WithDomain(id)
		}
		cur.Days[k] = d
	}
	return json.Marshal(cur)
}
