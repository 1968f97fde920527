// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the application — it depends on nothing.
package domain

import (
	"fmt"
	"strconv"
	"time"
)

// ─── Entry Types ────────────────────────────────────────────────────────────

// Entry is one logged activity record within a life domain.
// Entries are immutable once created; the only mutation is a hard delete.
type Entry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds, assigned at creation
	Value     string `json:"value"`
	Notes     string `json:"notes,omitempty"`
}

// Day returns the local-time calendar day the entry falls on.
func (e Entry) Day() time.Time {
	t := time.UnixMilli(e.Timestamp).Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DefaultDomains are the life domains configured on first run.
// Users can extend the list; removed domains leave their historical
// entries and notebook presence untouched.
func DefaultDomains() []string {
	return []string{"habits", "learning", "career", "health"}
}

// ─── Notebook Types ─────────────────────────────────────────────────────────

// Intent is the user-set theme for a day.
type Intent string

const (
	IntentFlow  Intent = "flow"
	IntentFocus Intent = "focus"
	IntentEase  Intent = "ease"
	IntentNone  Intent = ""
)

// Quality is the user-set day quality rating, kept as a string on the wire.
type Quality string

const (
	QualityHigh Quality = "3"
	QualityMid  Quality = "2"
	QualityLow  Quality = "1"
	QualityNone Quality = ""
)

// Outcome is the user-set day outcome.
type Outcome string

const (
	OutcomeWin     Outcome = "win"
	OutcomeNeutral Outcome = "neutral"
	OutcomeLoss    Outcome = "loss"
	OutcomeNone    Outcome = ""
)

// ValidIntent reports whether v is an accepted intent value.
func ValidIntent(v Intent) bool {
	switch v {
	case IntentFlow, IntentFocus, IntentEase, IntentNone:
		return true
	}
	return false
}

// ValidQuality reports whether v is an accepted quality value.
func ValidQuality(v Quality) bool {
	switch v {
	case QualityHigh, QualityMid, QualityLow, QualityNone:
		return true
	}
	return false
}

// ValidOutcome reports whether v is an accepted outcome value.
func ValidOutcome(v Outcome) bool {
	switch v {
	case OutcomeWin, OutcomeNeutral, OutcomeLoss, OutcomeNone:
		return true
	}
	return false
}

// DayEntry is the per-day record inside a notebook.
// Intent/Quality/Outcome are exclusively user-set and are never touched by
// sync. Domains is derived from entry presence and is only ever added to.
type DayEntry struct {
	Intent  Intent   `json:"intent"`
	Quality Quality  `json:"quality"`
	Outcome Outcome  `json:"outcome"`
	Domains []string `json:"domains"` // sorted, de-duplicated
}

// HasDomain reports whether the day already records presence for domainID.
func (d DayEntry) HasDomain(domainID string) bool {
	for _, id := range d.Domains {
		if id == domainID {
			return true
		}
	}
	return false
}

// WithDomain returns the day entry with domainID present, keeping the
// Domains slice sorted and free of duplicates.
func (d DayEntry) WithDomain(domainID string) DayEntry {
	if d.HasDomain(domainID) {
		return d
	}
	i := 0
	for i < len(d.Domains) && d.Domains[i] < domainID {
		i++
	}
	out := make([]string, 0, len(d.Domains)+1)
	out = append(out, d.Domains[:i]...)
	out = append(out, domainID)
	out = append(out, d.Domains[i:]...)
	d.Domains = out
	return d
}

// Notebook is the canonical per-month aggregation record.
//
// Day keys are decimal day-of-month STRINGS ("1".."31"). This is a wire
// format contract shared with exported JSON backups; numeric day values must
// go through DayKey before indexing Days.
type Notebook struct {
	Year       int                 `json:"year"`
	Month      int                 `json:"month"` // 1-12
	Closed     bool                `json:"closed"`
	Reflection string              `json:"reflection"`
	Days       map[string]DayEntry `json:"days"`
}

// DayKey normalizes a day-of-month number into the notebook's string key
// space. Every read and write of Notebook.Days goes through this function.
func DayKey(day int) string {
	return strconv.Itoa(day)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NewNotebook creates an empty notebook for (year, month) with one DayEntry
// per calendar day. Days with no activity keep an empty Domains set — they
// are never removed and never marked "missing".
func NewNotebook(year, month int) Notebook {
	nb := Notebook{
		Year:  year,
		Month: month,
		Days:  make(map[string]DayEntry),
	}
	for d := 1; d <= DaysInMonth(year, month); d++ {
		nb.Days[DayKey(d)] = DayEntry{Domains: []string{}}
	}
	return nb
}

// Day looks up the entry for a numeric day, normalizing through DayKey.
func (n Notebook) Day(day int) (DayEntry, bool) {
	e, ok := n.Days[DayKey(day)]
	return e, ok
}

// ─── Collection Keys ────────────────────────────────────────────────────────

// Collection keys owned by each store. The stores own disjoint keys; no two
// components write the same collection.
const (
	WinsCollection     = "wins"
	SettingsCollection = "settings"
)

// EntriesCollection returns the collection key for a domain's entry list.
func EntriesCollection(domainID string) string {
	return "entries_" + domainID
}

// NotebookCollection returns the collection key for a month's notebook.
// The month is zero-padded — "notebook_2026_01" — matching exported backups.
func NotebookCollection(year, month int) string {
	return fmt.Sprintf("notebook_%04d_%02d", year, month)
}

// ─── Win Types ──────────────────────────────────────────────────────────────

// WinEntry is a once-per-day free-text acknowledgement. Wins carry no score,
// no streak, and no ranking — that constraint is a product invariant.
type WinEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"` // RFC 3339
}

// WinStats are the only aggregates the win ledger exposes.
type WinStats struct {
	Total     int `json:"total"`
	ThisMonth int `json:"this_month"`
	ThisYear  int `json:"this_year"`
}

// ─── Insight Types ──────────────────────────────────────────────────────────

// MonthlyInsight is the derived analytical view of one notebook month.
// It is a pure function of the notebook — computed on demand, never stored.
type MonthlyInsight struct {
	Days          []int    `json:"days"`           // 1..daysInMonth
	Domains       []string `json:"domains"`        // sorted union across the month
	SignalArray   []int    `json:"signal_array"`   // per-day count of active domains
	HeatmapMatrix [][]int  `json:"heatmap_matrix"` // day × domain; 0/1 (2 reserved)
	Observations  []string `json:"observations"`   // ≤3 descriptive strings
}
