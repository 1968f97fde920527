package notebook

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lifelab-app/lifelab/internal/domain"
	"github.com/lifelab-app/lifelab/internal/entries"
	"github.com/lifelab-app/lifelab/internal/settings"
	"github.com/lifelab-app/lifelab/internal/store"
)

type fixture struct {
	mem      *store.Memory
	entries  *entries.Store
	notebook *Store
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	es := entries.New(mem)
	nb := New(mem, es, settings.New(mem))
	t.Cleanup(nb.Shutdown)
	return &fixture{mem: mem, entries: es, notebook: nb}
}

func (f *fixture) logEntry(t *testing.T, domainID, value string, at time.Time) domain.Entry {
	t.Helper()
	f.setClock(at)
	e, err := f.entries.Add(context.Background(), domainID, value, "")
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	return e
}

func (f *fixture) setClock(at time.Time) {
	f.clock = at
	f.entries.SetClock(func() time.Time { return f.clock })
}

func TestSyncMonth_MergesDomainPresence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.logEntry(t, "habits", "Morning run", time.Date(2026, 1, 7, 8, 30, 0, 0, time.Local))

	nb, err := f.notebook.SyncMonth(ctx, 2026, 1)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	d, ok := nb.Days["7"]
	if !ok {
		t.Fatal(`Days["7"] missing`)
	}
	if !d.HasDomain("habits") {
		t.Errorf(`Days["7"].Domains = %v, want habits present`, d.Domains)
	}
	// Other days stay neutral: present, with an empty set
	if other := nb.Days["8"]; len(other.Domains) != 0 {
		t.Errorf(`Days["8"].Domains = %v, want empty`, other.Domains)
	}
	if len(nb.Days) != 31 {
		t.Errorf("len(Days) = %d, want 31", len(nb.Days))
	}
}

func TestSyncMonth_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.logEntry(t, "habits", "Morning run", time.Date(2026, 1, 7, 8, 0, 0, 0, time.Local))
	f.logEntry(t, "health", "Salad", time.Date(2026, 1, 7, 12, 0, 0, 0, time.Local))
	f.logEntry(t, "career", "1:1 prep", time.Date(2026, 1, 20, 9, 0, 0, 0, time.Local))

	first, err := f.notebook.SyncMonth(ctx, 2026, 1)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	second, err := f.notebook.SyncMonth(ctx, 2026, 1)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("sync not idempotent:\nfirst  %s\nsecond %s", a, b)
	}
}

func TestSyncMonth_NeverTouchesUserFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.logEntry(t, "habits", "Morning run", time.Date(2026, 1, 7, 8, 0, 0, 0, time.Local))
	f.notebook.SyncMonth(ctx, 2026, 1)

	if err := f.notebook.SetDay(ctx, 2026, 1, 7, domain.IntentFlow, domain.QualityHigh, domain.OutcomeWin); err != nil {
		t.Fatalf("set day: %v", err)
	}

	// A second entry on the same day, then re-sync
	f.logEntry(t, "habits", "Evening stretch", time.Date(2026, 1, 7, 21, 0, 0, 0, time.Local))
	nb, err := f.notebook.SyncMonth(ctx, 2026, 1)
	if err != nil {
		t.Fatalf("re-sync: %v", err)
	}

	d := nb.Days["7"]
	if d.Intent != domain.IntentFlow {
		t.Errorf("Intent = %q after re-sync, want flow", d.Intent)
	}
	if d.Quality != domain.QualityHigh || d.Outcome != domain.OutcomeWin {
		t.Errorf("user fields changed by sync: %+v", d)
	}
	if !d.HasDomain("habits") {
		t.Errorf("Domains = %v, want habits", d.Domains)
	}
}

func TestSyncMonth_KeepsOrphanedDomainIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ss := settings.New(f.mem)

	f.logEntry(t, "habits", "Morning run", time.Date(2026, 1, 7, 8, 0, 0, 0, time.Local))
	f.notebook.SyncMonth(ctx, 2026, 1)

	// Remove the domain from configuration; its historical presence stays.
	if err := ss.SetDomains(ctx, []string{"learning"}); err != nil {
		t.Fatalf("set domains: %v", err)
	}
	nb, err := f.notebook.SyncMonth(ctx, 2026, 1)
	if err != nil {
		t.Fatalf("sync after removal: %v", err)
	}
	if !nb.Days["7"].HasDomain("habits") {
		t.Errorf(`Days["7"].Domains = %v, orphaned id must remain`, nb.Days["7"].Domains)
	}
}

func TestSetDay_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.notebook.SetDay(ctx, 2026, 2, 30, domain.IntentFlow, domain.QualityNone, domain.OutcomeNone); !errors.Is(err, domain.ErrDayOutOfRange) {
		t.Errorf("day 30 in Feb err = %v, want ErrDayOutOfRange", err)
	}
	if err := f.notebook.SetDay(ctx, 2026, 1, 5, "grind", domain.QualityNone, domain.OutcomeNone); !errors.Is(err, domain.ErrInvalidField) {
		t.Errorf("bad intent err = %v, want ErrInvalidField", err)
	}
}

func TestCloseAndReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.notebook.Close(ctx, 2026, 1); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := f.notebook.SetDay(ctx, 2026, 1, 5, domain.IntentEase, domain.QualityNone, domain.OutcomeNone); !errors.Is(err, domain.ErrNotebookClosed) {
		t.Errorf("edit on closed month err = %v, want ErrNotebookClosed", err)
	}
	if err := f.notebook.Reopen(ctx, 2026, 1); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := f.notebook.SetDay(ctx, 2026, 1, 5, domain.IntentEase, domain.QualityNone, domain.OutcomeNone); err != nil {
		t.Errorf("edit after reopen: %v", err)
	}
}

func TestReflection_DebouncedWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.notebook.SetDebounce(20 * time.Millisecond)

	f.notebook.SetReflection(2026, 1, "steady mont")
	f.notebook.SetReflection(2026, 1, "steady month") // re-arms the timer

	time.Sleep(80 * time.Millisecond)

	nb := f.notebook.Get(ctx, 2026, 1)
	if nb.Reflection != "steady month" {
		t.Errorf("Reflection = %q, want the last edit persisted", nb.Reflection)
	}
}

func TestReflection_ShutdownCancelsPendingWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.notebook.SetDebounce(20 * time.Millisecond)

	f.notebook.SetReflection(2026, 1, "never saved")
	f.notebook.Shutdown()

	time.Sleep(60 * time.Millisecond)

	nb := f.notebook.Get(ctx, 2026, 1)
	if nb.Reflection != "" {
		t.Errorf("Reflection = %q after shutdown, want empty", nb.Reflection)
	}
	// Edits after shutdown are dropped
	f.notebook.SetReflection(2026, 1, "late edit")
	time.Sleep(60 * time.Millisecond)
	if nb := f.notebook.Get(ctx, 2026, 1); nb.Reflection != "" {
		t.Errorf("Reflection = %q, want post-shutdown edits dropped", nb.Reflection)
	}
}

func TestDayKeysAreStringsOnTheWire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.logEntry(t, "habits", "Morning run", time.Date(2026, 1, 5, 8, 0, 0, 0, time.Local))
	f.notebook.SyncMonth(ctx, 2026, 1)

	raw, err := f.mem.Fetch(ctx, domain.NotebookCollection(2026, 1))
	if err != nil || raw == nil {
		t.Fatalf("fetch persisted notebook: %v", err)
	}
	var decoded struct {
		Days map[string]json.RawMessage `json:"days"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded.Days["5"]; !ok {
		t.Error(`persisted notebook missing string key "5"`)
	}
}
