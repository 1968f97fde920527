package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lifelab-app/lifelab/internal/backup"
	"github.com/lifelab-app/lifelab/internal/entries"
	"github.com/lifelab-app/lifelab/internal/notebook"
	"github.com/lifelab-app/lifelab/internal/settings"
	"github.com/lifelab-app/lifelab/internal/store"
	"github.com/lifelab-app/lifelab/internal/wins"
)

func setupServer(t *testing.T) (*Server, *entries.Store) {
	t.Helper()
	mem := store.NewMemory()
	es := entries.New(mem)
	ss := settings.New(mem)
	nb := notebook.New(mem, es, ss)
	t.Cleanup(nb.Shutdown)
	return NewServer(es, nb, wins.New(mem), backup.New(mem), ss), es
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := setupServer(t)
	w := do(t, s.Handler(), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestEntries_AddListDelete(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodPost, "/api/entries/habits/", `{"value":"Morning run"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", w.Code, w.Body.String())
	}
	var added struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &added)
	if added.ID == "" {
		t.Fatal("no id in add response")
	}

	w = do(t, h, http.MethodGet, "/api/entries/habits/", "")
	var list struct {
		Entries []json.RawMessage `json:"entries"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(list.Entries))
	}

	w = do(t, h, http.MethodDelete, "/api/entries/habits/"+added.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = do(t, h, http.MethodDelete, "/api/entries/habits/"+added.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", w.Code)
	}
}

func TestEntries_UnknownDomainRejected(t *testing.T) {
	s, _ := setupServer(t)
	w := do(t, s.Handler(), http.MethodPost, "/api/entries/astrology/", `{"value":"x"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestEntries_EmptyValueRejected(t *testing.T) {
	s, _ := setupServer(t)
	w := do(t, s.Handler(), http.MethodPost, "/api/entries/habits/", `{"value":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestNotebook_GetSyncsEntries(t *testing.T) {
	s, es := setupServer(t)
	es.SetClock(func() time.Time { return time.Date(2026, 1, 7, 9, 0, 0, 0, time.Local) })
	h := s.Handler()

	do(t, h, http.MethodPost, "/api/entries/habits/", `{"value":"Morning run"}`)

	w := do(t, h, http.MethodGet, "/api/notebook/2026/1/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var nb struct {
		Days map[string]struct {
			Domains []string `json:"domains"`
		} `json:"days"`
	}
	json.Unmarshal(w.Body.Bytes(), &nb)
	if len(nb.Days["7"].Domains) != 1 || nb.Days["7"].Domains[0] != "habits" {
		t.Errorf(`days["7"].domains = %v, want [habits]`, nb.Days["7"].Domains)
	}
}

func TestNotebook_SetDayValidation(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodPut, "/api/notebook/2026/1/days/7", `{"intent":"flow","quality":"3","outcome":"win"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set day status = %d, body %s", w.Code, w.Body.String())
	}
	w = do(t, h, http.MethodPut, "/api/notebook/2026/2/days/30", `{"intent":"flow"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("out-of-range day status = %d, want 400", w.Code)
	}
	w = do(t, h, http.MethodPut, "/api/notebook/2026/13/days/1", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("month 13 status = %d, want 400", w.Code)
	}
}

func TestInsight_Endpoint(t *testing.T) {
	s, es := setupServer(t)
	es.SetClock(func() time.Time { return time.Date(2026, 1, 7, 9, 0, 0, 0, time.Local) })
	h := s.Handler()

	do(t, h, http.MethodPost, "/api/entries/habits/", `{"value":"Morning run"}`)

	w := do(t, h, http.MethodGet, "/api/insight/2026/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var in struct {
		SignalArray []int `json:"signal_array"`
	}
	json.Unmarshal(w.Body.Bytes(), &in)
	if len(in.SignalArray) != 31 || in.SignalArray[6] != 1 {
		t.Errorf("signal_array[6] = %v, want 1", in.SignalArray)
	}
}

func TestWins_DuplicateIsSilentNoOp(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	w := do(t, h, http.MethodPost, "/api/wins/", `{"date":"2026-01-08","text":"Finished the proposal"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("first win status = %d", w.Code)
	}

	// Duplicate: 200 with status "exists" — not an error response
	w = do(t, h, http.MethodPost, "/api/wins/", `{"date":"2026-01-08","text":"Different text"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("duplicate win status = %d, want 200", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "exists" {
		t.Errorf("duplicate response = %v", resp)
	}

	w = do(t, h, http.MethodGet, "/api/wins/", "")
	var list struct {
		Wins []struct {
			Text string `json:"text"`
		} `json:"wins"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Wins) != 1 || list.Wins[0].Text != "Finished the proposal" {
		t.Errorf("wins = %v, want the first save preserved", list.Wins)
	}
}

func TestExportImport_Endpoints(t *testing.T) {
	s, _ := setupServer(t)
	h := s.Handler()

	do(t, h, http.MethodPost, "/api/wins/", `{"date":"2026-01-08","text":"Shipped it"}`)

	w := do(t, h, http.MethodGet, "/api/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	exported := w.Body.String()

	// Import into a fresh server
	s2, _ := setupServer(t)
	h2 := s2.Handler()
	w = do(t, h2, http.MethodPost, "/api/import?mode=merge", exported)
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", w.Code, w.Body.String())
	}

	w = do(t, h2, http.MethodGet, "/api/wins/stats", "")
	var stats struct {
		Total int `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.Total != 1 {
		t.Errorf("imported total = %d, want 1", stats.Total)
	}

	w = do(t, h2, http.MethodPost, "/api/import", `{"bogus":true}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("malformed import status = %d, want 422", w.Code)
	}
}
