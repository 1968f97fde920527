package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Expected failure
// modes surface as these values, never as panics into caller code.

var (
	// Entry errors
	ErrEntryNotFound = errors.New("entry not found")
	ErrEmptyValue    = errors.New("entry value is required")
	ErrUnknownDomain = errors.New("unknown life domain")

	// Notebook errors
	ErrDayOutOfRange  = errors.New("day outside the month's range")
	ErrNotebookClosed = errors.New("notebook is closed")
	ErrInvalidField   = errors.New("invalid day field value")

	// Win ledger errors
	ErrWinExists   = errors.New("a win is already recorded for this date")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotAuthenticated   = errors.New("no authenticated user")

	// Backup errors
	ErrImportFormat = errors.New("import does not match the backup schema")
)
