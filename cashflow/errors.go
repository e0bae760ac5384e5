package cashflow

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================
// Ledger mutations never fail; errors exist only at the boundaries.

var (
	// ErrSnapshotInvalid is returned when a saved-state payload cannot be
	// decoded at all. Callers fall back to empty/default state.
	ErrSnapshotInvalid = errors.New("snapshot payload not decodable")

	// ErrSnapshotNotFound is returned by snapshot stores when no saved
	// state exists under the requested name.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
