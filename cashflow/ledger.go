/*
ledger.go - The authoritative mutable entity store

PURPOSE:
  Ledger owns every entity collection and exposes only named operations;
  raw collections are never handed out mutably. The projection engine
  reads a Snapshot() copy, so a projection always runs against one
  consistent state even if the ledger keeps changing afterwards.

FAILURE SEMANTICS:
  No operation here returns an error. The store is permissive by design:
  upserts overwrite, removals of unknown ids are no-ops, confirming an
  already-confirmed receivable is a no-op, and malformed bulk rows are
  filtered before they ever reach these methods (see import.go).

REFERENTIAL RULES:
  - Removing a Revenue also removes its id from the confirmed set
  - Removing a Supplier does NOT cascade to outflows; they become
    orphans that the projection engine skips
  - Reset() empties transactional data but keeps banks (master data)

SEE ALSO:
  - snapshot.go: full-state replace and the exchange format
  - import.go: bulk adds with silent row filtering
  - queries.go: pending/overdue receivable views
*/
package cashflow

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger is safe for concurrent reads; writers must be serialized by the
// caller when interleaved with projection (single-writer discipline).
type Ledger struct {
	mu sync.RWMutex

	banks                 []Bank
	initialBalances       []InitialBalance
	revenues              []Revenue
	suppliers             []Supplier
	outflows              []Outflow
	confirmed             map[int64]struct{}
	assignBankPerSupplier bool
}

// NewLedger returns a ledger seeded with the default bank list.
func NewLedger() *Ledger {
	return &Ledger{
		banks:     DefaultBanks(),
		confirmed: make(map[int64]struct{}),
	}
}

// =============================================================================
// BANKS
// =============================================================================

// AddBank upserts by code.
func (l *Ledger) AddBank(b Bank) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.upsertBankLocked(b)
}

// AddBanks merges a batch by code.
func (l *Ledger) AddBanks(banks []Bank) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range banks {
		l.upsertBankLocked(b)
	}
}

func (l *Ledger) upsertBankLocked(b Bank) {
	for i, existing := range l.banks {
		if existing.Code == b.Code {
			l.banks[i] = b
			return
		}
	}
	l.banks = append(l.banks, b)
}

// =============================================================================
// INITIAL BALANCES
// =============================================================================

// UpsertInitialBalance sets the opening balance of one bank, keyed by code.
func (l *Ledger) UpsertInitialBalance(b InitialBalance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.upsertBalanceLocked(b)
}

func (l *Ledger) UpsertInitialBalances(balances []InitialBalance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range balances {
		l.upsertBalanceLocked(b)
	}
}

func (l *Ledger) upsertBalanceLocked(b InitialBalance) {
	for i, existing := range l.initialBalances {
		if existing.BankCode == b.BankCode {
			l.initialBalances[i] = b
			return
		}
	}
	l.initialBalances = append(l.initialBalances, b)
}

func (l *Ledger) RemoveInitialBalance(bankCode string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, b := range l.initialBalances {
		if b.BankCode == bankCode {
			l.initialBalances = append(l.initialBalances[:i], l.initialBalances[i+1:]...)
			return
		}
	}
}

// TotalInitialBalance sums all opening balances - the global opening cash
// position on day zero of any report.
func (l *Ledger) TotalInitialBalance() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := decimal.Zero
	for _, b := range l.initialBalances {
		total = total.Add(b.Amount)
	}
	return total
}

// =============================================================================
// REVENUES
// =============================================================================

// NewRevenue carries the caller-supplied fields of a receivable.
// CreditDate is not among them: it is derived here, once.
type NewRevenue struct {
	ID             int64
	ClientName     string
	Type           string
	Amount         decimal.Decimal
	DocumentType   DocumentType
	DocumentNumber string
	IssueDate      Day
	DueDate        Day
}

// AddRevenue stores a receivable, deriving and freezing its credit date.
// A zero ID gets a generated one. Returns the stored record.
func (l *Ledger) AddRevenue(in NewRevenue) Revenue {
	if in.ID == 0 {
		in.ID = NextID()
	}
	r := Revenue{
		ID:             in.ID,
		ClientName:     in.ClientName,
		Type:           in.Type,
		Amount:         in.Amount,
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		IssueDate:      in.IssueDate,
		DueDate:        in.DueDate,
		CreditDate:     NextBusinessDay(in.DueDate),
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revenues = append(l.revenues, r)
	return r
}

// RemoveRevenue drops the receivable and any confirmation it had.
func (l *Ledger) RemoveRevenue(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.revenues {
		if r.ID == id {
			l.revenues = append(l.revenues[:i], l.revenues[i+1:]...)
			break
		}
	}
	delete(l.confirmed, id)
}

// ConfirmRevenue marks a receivable as confirmed cash received.
// Idempotent: re-confirming is a no-op. Unknown ids are recorded too;
// they simply never match a receivable.
func (l *Ledger) ConfirmRevenue(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmed[id] = struct{}{}
}

func (l *Ledger) IsConfirmed(id int64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.confirmed[id]
	return ok
}

// =============================================================================
// SUPPLIERS AND OUTFLOWS
// =============================================================================

func (l *Ledger) AddSupplier(s Supplier) Supplier {
	if s.ID == 0 {
		s.ID = NextID()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.suppliers = append(l.suppliers, s)
	return s
}

// RemoveSupplier deletes the supplier only. Outflows that referenced it
// stay in the ledger as orphans and are excluded from projection output.
func (l *Ledger) RemoveSupplier(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.suppliers {
		if s.ID == id {
			l.suppliers = append(l.suppliers[:i], l.suppliers[i+1:]...)
			return
		}
	}
}

func (l *Ledger) AddOutflow(o Outflow) Outflow {
	if o.ID == 0 {
		o.ID = NextID()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outflows = append(l.outflows, o)
	return o
}

func (l *Ledger) RemoveOutflow(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, o := range l.outflows {
		if o.ID == id {
			l.outflows = append(l.outflows[:i], l.outflows[i+1:]...)
			return
		}
	}
}

// =============================================================================
// FLAGS, RESET AND CLEARS
// =============================================================================

// SetAssignBankPerSupplier toggles the snapshot flag carried for the
// presentation layer; projection ignores it.
func (l *Ledger) SetAssignBankPerSupplier(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.assignBankPerSupplier = v
}

func (l *Ledger) AssignBankPerSupplier() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.assignBankPerSupplier
}

// Reset empties all transactional data. Banks are master data and survive.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initialBalances = nil
	l.revenues = nil
	l.suppliers = nil
	l.outflows = nil
	l.confirmed = make(map[int64]struct{})
	l.assignBankPerSupplier = false
}

func (l *Ledger) ClearInitialBalances() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initialBalances = nil
}

// ClearRevenues drops all receivables and, with them, every confirmation.
func (l *Ledger) ClearRevenues() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revenues = nil
	l.confirmed = make(map[int64]struct{})
}

func (l *Ledger) ClearSuppliers() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.suppliers = nil
}

func (l *Ledger) ClearOutflows() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outflows = nil
}

// =============================================================================
// READ ACCESS - copies only
// =============================================================================

func (l *Ledger) Banks() []Bank {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Bank(nil), l.banks...)
}

func (l *Ledger) InitialBalances() []InitialBalance {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]InitialBalance(nil), l.initialBalances...)
}

func (l *Ledger) Revenues() []Revenue {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Revenue(nil), l.revenues...)
}

func (l *Ledger) Suppliers() []Supplier {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Supplier(nil), l.suppliers...)
}

func (l *Ledger) Outflows() []Outflow {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Outflow(nil), l.outflows...)
}

// ConfirmedRevenueIDs returns the confirmed set as a sorted slice.
func (l *Ledger) ConfirmedRevenueIDs() []int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.confirmedIDsLocked()
}

func (l *Ledger) confirmedIDsLocked() []int64 {
	ids := make([]int64, 0, len(l.confirmed))
	for id := range l.confirmed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
