/*
Package report computes the day-by-day direct cash-flow statement.

PURPOSE:
  The engine turns one ledger snapshot plus a reporting window into a
  hierarchical report: a fixed row catalog, one value cell per row per
  day, running opening/closing balances, and a drill-down transaction
  index per category leaf.

KEY INSIGHT:
  The opening balance of day i is NOT recomputed from ledger data - it is
  the closing balance of day i-1, propagated left to right in a single
  ascending pass. Day zero opens with the sum of the initial balances.

DETERMINISM:
  Identical snapshot + identical (start, days, today) inputs produce
  identical output. The engine holds no state between calls; category
  lists are sorted, bucketing is keyed by calendar day, and every amount
  is a decimal. Cost is O(days x entities), recomputed from scratch on
  every call.

PARTITIONING:
  Receivables split into confirmed (id in the confirmed set) and
  projected (unconfirmed with a credit date on or after today). Stale
  unconfirmed entries belong to the overdue view, not to the forward
  projection. Payments whose supplier reference dangles are skipped.

SEE ALSO:
  - rows.go: the fixed row catalog
  - view.go: expand/collapse and display formatting on top of a Report
*/
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fluxo/cashflow-engine/cashflow"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine is stateless; the zero value is ready to use.
type Engine struct{}

// ProjectionInput bundles the arguments of one projection run.
type ProjectionInput struct {
	Snapshot cashflow.Snapshot

	// First day of the axis.
	Start cashflow.Day

	// Number of consecutive days, inclusive of Start. Values below 1 are
	// treated as 1.
	Days int

	// Cutoff separating stale unconfirmed receivables from projected
	// ones. Defaults to the current day when zero; tests pin it.
	Today cashflow.Day
}

// Detail is one underlying record behind a leaf row, for drill-down.
type Detail struct {
	ID          int64
	Date        cashflow.Day
	Description string
	Amount      decimal.Decimal
}

// Report is the read-only computed statement.
type Report struct {
	Dates []cashflow.Day
	Rows  []Row

	rowIndex map[string]int
	details  map[string][]Detail
}

// Project computes the full statement for the given window.
func (Engine) Project(in ProjectionInput) *Report {
	today := in.Today
	if today.IsZero() {
		today = cashflow.Today()
	}
	days := in.Days
	if days < 1 {
		days = 1
	}
	snap := in.Snapshot

	// 1. Partition receivables.
	confirmedSet := make(map[int64]struct{}, len(snap.ConfirmedRevenueIDs))
	for _, id := range snap.ConfirmedRevenueIDs {
		confirmedSet[id] = struct{}{}
	}
	var confirmed, projected []cashflow.Revenue
	for _, r := range snap.Revenues {
		if _, ok := confirmedSet[r.ID]; ok {
			confirmed = append(confirmed, r)
		} else if r.CreditDate.AfterOrEqual(today) {
			projected = append(projected, r)
		}
	}

	// 2. Date axis.
	dates := make([]cashflow.Day, days)
	for i := range dates {
		dates[i] = in.Start.AddDays(i)
	}

	// 3. Row catalog.
	suppliersByID := make(map[int64]cashflow.Supplier, len(snap.Suppliers))
	for _, s := range snap.Suppliers {
		suppliersByID[s.ID] = s
	}
	catalog := buildRowCatalog(days,
		distinctRevenueTypes(confirmed),
		distinctRevenueTypes(projected),
		distinctSupplierTypes(snap.Suppliers, cashflow.CashFlowOperating),
		distinctSupplierTypes(snap.Suppliers, cashflow.CashFlowInvesting),
		distinctSupplierTypes(snap.Suppliers, cashflow.CashFlowFinancing),
	)

	r := &Report{
		Dates:    dates,
		Rows:     catalog,
		rowIndex: make(map[string]int, len(catalog)),
		details:  make(map[string][]Detail),
	}
	for i, row := range catalog {
		r.rowIndex[row.ID] = i
	}

	// Bucket amounts by day key up front; the per-day loop then reads
	// buckets instead of rescanning entities.
	confirmedByDay := bucketRevenues(confirmed)
	projectedByDay := bucketRevenues(projected)
	outflowsByDay := make(map[string][]cashflow.Outflow)
	for _, o := range snap.Outflows {
		if _, ok := suppliersByID[o.SupplierID]; !ok {
			continue // orphaned payment, supplier was removed
		}
		k := o.Date.Key()
		outflowsByDay[k] = append(outflowsByDay[k], o)
	}

	// 4. Per-day aggregation with the running-balance recurrence.
	// Strictly ascending, exactly once per day.
	balance := decimal.Zero
	for _, b := range snap.InitialBalances {
		balance = balance.Add(b.Amount)
	}

	for i := 0; i < days; i++ {
		k := dates[i].Key()

		confirmedTotal := decimal.Zero
		for _, rev := range confirmedByDay[k] {
			r.addCell(ConfirmedInflowRowID(rev.Type), i, rev.Amount)
			confirmedTotal = confirmedTotal.Add(rev.Amount)
		}
		projectedTotal := decimal.Zero
		for _, rev := range projectedByDay[k] {
			r.addCell(ProjectedInflowRowID(rev.Type), i, rev.Amount)
			projectedTotal = projectedTotal.Add(rev.Amount)
		}
		r.setCell(RowInflowsHeader, i, confirmedTotal)
		r.setCell(RowProjectedInflowsHead, i, projectedTotal)

		opTotal, invTotal, finTotal := decimal.Zero, decimal.Zero, decimal.Zero
		for _, o := range outflowsByDay[k] {
			s := suppliersByID[o.SupplierID]
			switch s.CashFlowType {
			case cashflow.CashFlowOperating:
				r.addCell(OperatingOutflowRowID(s.SupplierType), i, o.Amount)
				opTotal = opTotal.Add(o.Amount)
			case cashflow.CashFlowInvesting:
				r.addCell(InvestingOutflowRowID(s.SupplierType), i, o.Amount)
				invTotal = invTotal.Add(o.Amount)
			case cashflow.CashFlowFinancing:
				r.addCell(FinancingOutflowRowID(s.SupplierType), i, o.Amount)
				finTotal = finTotal.Add(o.Amount)
			}
		}
		r.setCell(RowOutflowsOpHeader, i, opTotal)
		r.setCell(RowOutflowsInvHeader, i, invTotal)
		r.setCell(RowOutflowsFinHeader, i, finTotal)

		receipts := confirmedTotal.Add(projectedTotal)
		opGeneration := receipts.Sub(opTotal)
		netCashFlow := opGeneration.Sub(invTotal).Sub(finTotal)

		r.setCell(RowOpGeneration, i, opGeneration)
		r.setCell(RowNetCashFlow, i, netCashFlow)
		r.setCell(RowInitialBalance, i, balance)
		closing := balance.Add(netCashFlow)
		r.setCell(RowFinalBalance, i, closing)
		balance = closing
	}

	// 5. Transaction-detail index, date ascending per leaf row.
	for _, rev := range confirmed {
		r.addDetail(ConfirmedInflowRowID(rev.Type), revenueDetail(rev))
	}
	for _, rev := range projected {
		r.addDetail(ProjectedInflowRowID(rev.Type), revenueDetail(rev))
	}
	for _, o := range snap.Outflows {
		s, ok := suppliersByID[o.SupplierID]
		if !ok {
			continue
		}
		var rowID string
		switch s.CashFlowType {
		case cashflow.CashFlowOperating:
			rowID = OperatingOutflowRowID(s.SupplierType)
		case cashflow.CashFlowInvesting:
			rowID = InvestingOutflowRowID(s.SupplierType)
		case cashflow.CashFlowFinancing:
			rowID = FinancingOutflowRowID(s.SupplierType)
		default:
			continue
		}
		r.addDetail(rowID, Detail{ID: o.ID, Date: o.Date, Description: s.Name, Amount: o.Amount})
	}
	for id := range r.details {
		list := r.details[id]
		sort.SliceStable(list, func(a, b int) bool { return list[a].Date.Before(list[b].Date) })
	}

	return r
}

func revenueDetail(r cashflow.Revenue) Detail {
	desc := r.ClientName
	if r.DocumentNumber != "" {
		desc += " (Doc: " + r.DocumentNumber + ")"
	}
	return Detail{ID: r.ID, Date: r.CreditDate, Description: desc, Amount: r.Amount}
}

// =============================================================================
// REPORT READ ACCESS
// =============================================================================

// Row returns the row with the given id, if present.
func (r *Report) Row(id string) (Row, bool) {
	i, ok := r.rowIndex[id]
	if !ok {
		return Row{}, false
	}
	return r.Rows[i], true
}

// Cell returns one value; zero for unknown rows or days outside the axis.
func (r *Report) Cell(rowID string, day int) decimal.Decimal {
	i, ok := r.rowIndex[rowID]
	if !ok || day < 0 || day >= len(r.Dates) {
		return decimal.Zero
	}
	return r.Rows[i].Values[day]
}

// OpeningBalance is the balance the day starts with.
func (r *Report) OpeningBalance(day int) decimal.Decimal {
	return r.Cell(RowInitialBalance, day)
}

// ClosingBalance is the balance the day ends with.
func (r *Report) ClosingBalance(day int) decimal.Decimal {
	return r.Cell(RowFinalBalance, day)
}

// Details lists the records behind a leaf row across the whole axis,
// date ascending.
func (r *Report) Details(rowID string) []Detail {
	return append([]Detail(nil), r.details[rowID]...)
}

func (r *Report) addCell(rowID string, day int, amount decimal.Decimal) {
	if i, ok := r.rowIndex[rowID]; ok {
		r.Rows[i].Values[day] = r.Rows[i].Values[day].Add(amount)
	}
}

func (r *Report) setCell(rowID string, day int, amount decimal.Decimal) {
	if i, ok := r.rowIndex[rowID]; ok {
		r.Rows[i].Values[day] = amount
	}
}

func (r *Report) addDetail(rowID string, d Detail) {
	if _, ok := r.rowIndex[rowID]; ok {
		r.details[rowID] = append(r.details[rowID], d)
	}
}

func bucketRevenues(revenues []cashflow.Revenue) map[string][]cashflow.Revenue {
	buckets := make(map[string][]cashflow.Revenue)
	for _, r := range revenues {
		k := r.CreditDate.Key()
		buckets[k] = append(buckets[k], r)
	}
	return buckets
}

// =============================================================================
// CATEGORY EXTRACTION
// =============================================================================

func distinctRevenueTypes(revenues []cashflow.Revenue) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, r := range revenues {
		if _, ok := seen[r.Type]; !ok {
			seen[r.Type] = struct{}{}
			types = append(types, r.Type)
		}
	}
	sort.Strings(types)
	return types
}

func distinctSupplierTypes(suppliers []cashflow.Supplier, flow cashflow.CashFlowType) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, s := range suppliers {
		if s.CashFlowType != flow {
			continue
		}
		if _, ok := seen[s.SupplierType]; !ok {
			seen[s.SupplierType] = struct{}{}
			types = append(types, s.SupplierType)
		}
	}
	sort.Strings(types)
	return types
}
