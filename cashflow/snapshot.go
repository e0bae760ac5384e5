package cashflow

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// SNAPSHOT - full-state exchange format
// =============================================================================

// Snapshot mirrors the ledger state one-to-one. It is what gets handed to
// the projection engine, persisted by the snapshot store, and exchanged
// with external callers.
type Snapshot struct {
	Banks                 []Bank           `json:"banks"`
	InitialBalances       []InitialBalance `json:"initialBalances"`
	Revenues              []Revenue        `json:"revenues"`
	Suppliers             []Supplier       `json:"suppliers"`
	Outflows              []Outflow        `json:"outflows"`
	AssignBankPerSupplier bool             `json:"assignBankPerSupplier"`
	ConfirmedRevenueIDs   []int64          `json:"confirmedRevenueIds"`
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{
		Banks:                 append([]Bank(nil), l.banks...),
		InitialBalances:       append([]InitialBalance(nil), l.initialBalances...),
		Revenues:              append([]Revenue(nil), l.revenues...),
		Suppliers:             append([]Supplier(nil), l.suppliers...),
		Outflows:              append([]Outflow(nil), l.outflows...),
		AssignBankPerSupplier: l.assignBankPerSupplier,
		ConfirmedRevenueIDs:   l.confirmedIDsLocked(),
	}
}

// Replace swaps in an externally-sourced snapshot wholesale. Missing
// collections become empty ones; an empty bank list falls back to the
// defaults so the ledger never loses its master data.
func (l *Ledger) Replace(s Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.banks = append([]Bank(nil), s.Banks...)
	if len(l.banks) == 0 {
		l.banks = DefaultBanks()
	}
	l.initialBalances = append([]InitialBalance(nil), s.InitialBalances...)
	l.revenues = append([]Revenue(nil), s.Revenues...)
	l.suppliers = append([]Supplier(nil), s.Suppliers...)
	l.outflows = append([]Outflow(nil), s.Outflows...)
	l.assignBankPerSupplier = s.AssignBankPerSupplier

	l.confirmed = make(map[int64]struct{}, len(s.ConfirmedRevenueIDs))
	for _, id := range s.ConfirmedRevenueIDs {
		l.confirmed[id] = struct{}{}
	}
}

// =============================================================================
// CODEC
// =============================================================================

// EncodeSnapshot serializes to the JSON exchange format. Dates travel as
// RFC3339 strings.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses a saved payload. Only a structurally undecodable
// payload fails (wrapped ErrSnapshotInvalid); per-field problems degrade
// instead - Day's unmarshal substitutes today for any bad date, and
// rehydrateDates catches date keys that were absent altogether (the
// unmarshal hook never runs for those, leaving the zero Day).
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	s.rehydrateDates()
	return &s, nil
}

// rehydrateDates substitutes today for every zero-valued date. A record
// must never carry the zero Day: it would fall outside every bucket and
// silently vanish from projections instead of landing on the current day.
func (s *Snapshot) rehydrateDates() {
	today := Today()
	for i := range s.Revenues {
		if s.Revenues[i].IssueDate.IsZero() {
			s.Revenues[i].IssueDate = today
		}
		if s.Revenues[i].DueDate.IsZero() {
			s.Revenues[i].DueDate = today
		}
		if s.Revenues[i].CreditDate.IsZero() {
			s.Revenues[i].CreditDate = today
		}
	}
	for i := range s.Outflows {
		if s.Outflows[i].Date.IsZero() {
			s.Outflows[i].Date = today
		}
	}
}
