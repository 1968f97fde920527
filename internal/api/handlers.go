package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lifelab-app/lifelab/internal/backup"
	"github.com/lifelab-app/lifelab/internal/domain"
	"github.com/lifelab-app/lifelab/internal/insight"
)

// maxImportBytes bounds an uploaded backup document.
const maxImportBytes = 32 << 20

// ─── Domains ────────────────────────────────────────────────────────────────

func (s *Server) handleListDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"domains": s.settings.Domains(r.Context()),
	})
}

func (s *Server) handleSetDomains(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Domains []string `json:"domains"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Domains) == 0 {
		writeError(w, http.StatusBadRequest, "domains list required")
		return
	}
	if err := s.settings.SetDomains(r.Context(), req.Domains); err != nil {
		writeError(w, http.StatusInternalServerError, "your change may not have saved")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"domains": req.Domains})
}

// ─── Entries ────────────────────────────────────────────────────────────────

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	domainID := chi.URLParam(r, "domain")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"domain":  domainID,
		"entries": s.entries.List(r.Context(), domainID),
	})
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	domainID := chi.URLParam(r, "domain")
	if !s.settings.Has(r.Context(), domainID) {
		writeError(w, http.StatusNotFound, domain.ErrUnknownDomain.Error())
		return
	}

	var req struct {
		Value string `json:"value"`
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := s.entries.Add(r.Context(), domainID, req.Value, req.Notes)
	if errors.Is(err, domain.ErrEmptyValue) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "your change may not have saved")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	domainID := chi.URLParam(r, "domain")
	id := chi.URLParam(r, "id")

	err := s.entries.Delete(r.Context(), domainID, id)
	if errors.Is(err, domain.ErrEntryNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "your change may not have saved")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ─── Notebook ───────────────────────────────────────────────────────────────

func yearMonth(r *http.Request) (int, int, bool) {
	year, err1 := strconv.Atoi(chi.URLParam(r, "year"))
	month, err2 := strconv.Atoi(chi.URLParam(r, "month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 || year < 1970 {
		return 0, 0, false
	}
	return year, month, true
}

// handleGetNotebook syncs before reading — every read is freshly derived, so
// there is no persisted stale aggregation to worry about.
func (s *Server) handleGetNotebook(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year/month")
		return
	}
	nb, err := s.notebooks.SyncMonth(r.Context(), year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "your change may not have saved")
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

func (s *Server) handleSetDay(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year/month")
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day")
		return
	}

	var req struct {
		Intent  domain.Intent  `json:"intent"`
		Quality domain.Quality `json:"quality"`
		Outcome domain.Outcome `json:"outcome"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = s.notebooks.SetDay(r.Context(), year, month, day, req.Intent, req.Quality, req.Outcome)
	switch {
	case errors.Is(err, domain.ErrDayOutOfRange), errors.Is(err, domain.ErrInvalidField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotebookClosed):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "your change may not have saved")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleSetReflection(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year/month")
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Debounced: the write lands once typing pauses.
	s.notebooks.SetReflection(year, month, req.Text)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

func (s *Server) handleCloseNotebook(w http.ResponseWriter, r *http.Request) {
	s.setClosed(w, r, true)
}

func (s *Server) handleReopenNotebook(w http.ResponseWriter, r *http.Request) {
	s.setClosed(w, r, false)
}

func (s *Server) setClosed(w http.ResponseWriter, r *http.Request, closed bool) {
	year, month, ok := yearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year/month")
		return
	}
	var err error
	if closed {
		err = s.notebooks.Close(r.Context(), year, month)
	} else {
		err = s.notebooks.Reopen(r.Context(), year, month)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "your change may not have saved")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"closed": closed})
}

// ─── Insight ────────────────────────────────────────────────────────────────

func (s *Server) handleGetInsight(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year/month")
		return
	}
	nb, err := s.notebooks.SyncMonth(r.Context(), year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "your change may not have saved")
		return
	}
	writeJSON(w, http.StatusOK, insight.Build(nb))
}

// ─── Wins ───────────────────────────────────────────────────────────────────

func (s *Server) handleListWins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"wins": s.wins.All(r.Context()),
	})
}

func (s *Server) handleSaveWin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	win, err := s.wins.Save(r.Context(), req.Date, req.Text)
	switch {
	case errors.Is(err, domain.ErrWinExists):
		// Silent no-op by product design: the day already has its win. The
		// front-end disables the input; this is not an error dialog.
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "exists"})
	case errors.Is(err, domain.ErrInvalidDate), errors.Is(err, domain.ErrEmptyValue):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "your change may not have saved")
	default:
		writeJSON(w, http.StatusCreated, win)
	}
}

func (s *Server) handleWinStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.wins.Stats(r.Context()))
}

// ─── Backup ─────────────────────────────────────────────────────────────────

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.backup.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="lifelab-backup.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	mode := backup.ModeMerge
	if r.URL.Query().Get("mode") == string(backup.ModeReplace) {
		mode = backup.ModeReplace
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	err = s.backup.Import(r.Context(), data, mode)
	if errors.Is(err, domain.ErrImportFormat) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported", "mode": string(mode)})
}
