package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fluxo/cashflow-engine/cashflow"
	"github.com/fluxo/cashflow-engine/report"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) cashflow.Day {
	return cashflow.NewDay(y, m, d)
}

// testToday pins the stale-receivable cutoff for deterministic runs.
var testToday = day(2024, time.June, 3)

func project(snap cashflow.Snapshot, start cashflow.Day, days int) *report.Report {
	var e report.Engine
	return e.Project(report.ProjectionInput{Snapshot: snap, Start: start, Days: days, Today: testToday})
}

func revenue(id int64, typ string, amt string, credit cashflow.Day) cashflow.Revenue {
	return cashflow.Revenue{
		ID: id, ClientName: "client", Type: typ,
		Amount: amount(amt), CreditDate: credit,
		DueDate: credit.AddDays(-1), IssueDate: credit.AddDays(-10),
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestProject_BalanceOnlyLedger_CarriesOpeningBalanceFlat(t *testing.T) {
	// GIVEN: one initial balance of 1000, no revenues or outflows
	// WHEN: projecting 3 days
	// THEN: every day opens and closes at 1000 with zero net flow

	snap := cashflow.Snapshot{
		InitialBalances: []cashflow.InitialBalance{{BankCode: "001", Amount: amount("1000")}},
	}
	r := project(snap, day(2024, time.June, 3), 3)

	for i := 0; i < 3; i++ {
		if !r.OpeningBalance(i).Equal(amount("1000")) {
			t.Errorf("day %d: expected opening 1000, got %s", i, r.OpeningBalance(i))
		}
		if !r.ClosingBalance(i).Equal(amount("1000")) {
			t.Errorf("day %d: expected closing 1000, got %s", i, r.ClosingBalance(i))
		}
		if !r.Cell(report.RowNetCashFlow, i).IsZero() {
			t.Errorf("day %d: expected zero net cash flow, got %s", i, r.Cell(report.RowNetCashFlow, i))
		}
	}
}

func TestProject_SingleConfirmedReceipt_ShiftsBalanceFromItsDay(t *testing.T) {
	// GIVEN: zero opening cash, one confirmed receipt of 500 landing on
	//        day 2 of the axis
	// THEN: days 0-1 close at 0, day 2 closes at 500, day 3 stays at 500

	start := day(2024, time.June, 3)
	snap := cashflow.Snapshot{
		Revenues:            []cashflow.Revenue{revenue(1, "Sale", "500", start.AddDays(2))},
		ConfirmedRevenueIDs: []int64{1},
	}
	r := project(snap, start, 4)

	wantClosing := []string{"0", "0", "500", "500"}
	for i, want := range wantClosing {
		if !r.ClosingBalance(i).Equal(amount(want)) {
			t.Errorf("day %d: expected closing %s, got %s", i, want, r.ClosingBalance(i))
		}
	}
	if !r.Cell(report.ConfirmedInflowRowID("Sale"), 2).Equal(amount("500")) {
		t.Errorf("leaf row missing the receipt on day 2")
	}
	if !r.Cell(report.RowInflowsHeader, 2).Equal(amount("500")) {
		t.Errorf("header row missing the receipt on day 2")
	}
}

func TestProject_OrphanedOutflow_SkippedEverywhere(t *testing.T) {
	// GIVEN: an outflow whose supplier was removed
	// THEN: it contributes to no totals and no detail list, with no error

	start := day(2024, time.June, 3)
	supplier := cashflow.Supplier{ID: 7, Name: "Vendor", CashFlowType: cashflow.CashFlowOperating, SupplierType: "Rent"}
	snap := cashflow.Snapshot{
		InitialBalances: []cashflow.InitialBalance{{BankCode: "001", Amount: amount("100")}},
		Suppliers:       []cashflow.Supplier{supplier},
		Outflows: []cashflow.Outflow{
			{ID: 1, SupplierID: 7, Amount: amount("30"), Date: start},
			{ID: 2, SupplierID: 999, Amount: amount("9999"), Date: start}, // dangling reference
		},
	}
	r := project(snap, start, 2)

	if !r.Cell(report.RowOutflowsOpHeader, 0).Equal(amount("30")) {
		t.Errorf("expected operating payments of 30, got %s", r.Cell(report.RowOutflowsOpHeader, 0))
	}
	if !r.ClosingBalance(0).Equal(amount("70")) {
		t.Errorf("expected closing 70, got %s", r.ClosingBalance(0))
	}
	details := r.Details(report.OperatingOutflowRowID("Rent"))
	if len(details) != 1 || details[0].ID != 1 {
		t.Errorf("orphaned outflow must be absent from the detail index: %+v", details)
	}
}

func TestProject_StaleUnconfirmedReceivable_ExcludedFromForecast(t *testing.T) {
	// GIVEN: an unconfirmed receivable with a credit date before today
	// THEN: it appears nowhere in the forward projection

	start := day(2024, time.May, 27) // axis reaches into the past
	snap := cashflow.Snapshot{
		Revenues: []cashflow.Revenue{revenue(1, "Sale", "500", day(2024, time.May, 28))}, // before testToday
	}
	r := project(snap, start, 10)

	if _, ok := r.Row(report.RowProjectedInflowsHead); ok {
		t.Errorf("forecast section must not exist when no projected receivables remain")
	}
	for i := 0; i < 10; i++ {
		if !r.ClosingBalance(i).IsZero() {
			t.Errorf("day %d: stale receivable leaked into balances", i)
		}
	}
}

// =============================================================================
// STRUCTURE
// =============================================================================

func TestProject_RowCatalogOrderAndConditionality(t *testing.T) {
	start := day(2024, time.June, 3)
	snap := cashflow.Snapshot{
		Revenues: []cashflow.Revenue{
			revenue(1, "Service", "10", start),
			revenue(2, "Sale", "20", start),
			revenue(3, "Rental", "30", start.AddDays(1)), // unconfirmed, future: projected
		},
		ConfirmedRevenueIDs: []int64{1, 2},
		Suppliers: []cashflow.Supplier{
			{ID: 1, Name: "B", CashFlowType: cashflow.CashFlowOperating, SupplierType: "Utilities"},
			{ID: 2, Name: "A", CashFlowType: cashflow.CashFlowOperating, SupplierType: "Payroll"},
			{ID: 3, Name: "C", CashFlowType: cashflow.CashFlowFinancing, SupplierType: "Loans"},
		},
	}
	r := project(snap, start, 1)

	var ids []string
	for _, row := range r.Rows {
		ids = append(ids, row.ID)
	}
	want := []string{
		"initial_balance",
		"inflows_header", "inflow_Sale", "inflow_Service",
		"projected_inflows_header", "projected_inflow_Rental",
		"outflows_op_header", "outflow_op_Payroll", "outflow_op_Utilities",
		"op_generation",
		"outflows_inv_header", // unconditional even with no investing suppliers
		"outflows_fin_header", "outflow_fin_Loans",
		"net_cash_flow",
		"final_balance",
	}
	if len(ids) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(ids), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("row %d: expected %q, got %q", i, want[i], ids[i])
		}
	}
}

func TestProject_EmptyDayCellsAreZeroNotAbsent(t *testing.T) {
	start := day(2024, time.June, 3)
	snap := cashflow.Snapshot{
		Revenues:            []cashflow.Revenue{revenue(1, "Sale", "10", start)},
		ConfirmedRevenueIDs: []int64{1},
	}
	r := project(snap, start, 5)

	row, ok := r.Row(report.ConfirmedInflowRowID("Sale"))
	if !ok {
		t.Fatal("missing leaf row")
	}
	if len(row.Values) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(row.Values))
	}
	for i := 1; i < 5; i++ {
		if !row.Values[i].IsZero() {
			t.Errorf("day %d: expected zero cell, got %s", i, row.Values[i])
		}
	}
}

func TestProject_DayCountBelowOneIsClampedToOne(t *testing.T) {
	r := project(cashflow.Snapshot{}, day(2024, time.June, 3), 0)
	if len(r.Dates) != 1 {
		t.Errorf("expected a 1-day axis, got %d", len(r.Dates))
	}
}

// =============================================================================
// INVARIANTS
// =============================================================================

func mixedSnapshot(start cashflow.Day) cashflow.Snapshot {
	return cashflow.Snapshot{
		InitialBalances: []cashflow.InitialBalance{
			{BankCode: "001", Amount: amount("250.75")},
			{BankCode: "341", Amount: amount("100")},
		},
		Revenues: []cashflow.Revenue{
			revenue(1, "Sale", "500", start),
			revenue(2, "Service", "120.30", start.AddDays(3)),
			revenue(3, "Sale", "80", start.AddDays(5)), // projected
		},
		ConfirmedRevenueIDs: []int64{1, 2},
		Suppliers: []cashflow.Supplier{
			{ID: 1, Name: "Landlord", CashFlowType: cashflow.CashFlowOperating, SupplierType: "Rent"},
			{ID: 2, Name: "Bank", CashFlowType: cashflow.CashFlowFinancing, SupplierType: "Loans"},
			{ID: 3, Name: "Dealer", CashFlowType: cashflow.CashFlowInvesting, SupplierType: "Machinery"},
		},
		Outflows: []cashflow.Outflow{
			{ID: 10, SupplierID: 1, Amount: amount("200"), Date: start.AddDays(1)},
			{ID: 11, SupplierID: 2, Amount: amount("55.55"), Date: start.AddDays(2)},
			{ID: 12, SupplierID: 3, Amount: amount("310"), Date: start.AddDays(4)},
		},
	}
}

func TestProject_RunningBalanceRecurrence(t *testing.T) {
	// For all i > 0: opening[i] == closing[i-1].
	start := day(2024, time.June, 3)
	r := project(mixedSnapshot(start), start, 8)

	for i := 1; i < 8; i++ {
		if !r.OpeningBalance(i).Equal(r.ClosingBalance(i - 1)) {
			t.Errorf("day %d: opening %s != prior closing %s",
				i, r.OpeningBalance(i), r.ClosingBalance(i-1))
		}
	}
}

func TestProject_FinalClosingEqualsInitialPlusNetSum(t *testing.T) {
	// closing[N-1] == sum(initial balances) + sum of net cash flow.
	start := day(2024, time.June, 3)
	n := 8
	r := project(mixedSnapshot(start), start, n)

	total := amount("350.75") // 250.75 + 100
	for i := 0; i < n; i++ {
		total = total.Add(r.Cell(report.RowNetCashFlow, i))
	}
	if !r.ClosingBalance(n - 1).Equal(total) {
		t.Errorf("expected final closing %s, got %s", total, r.ClosingBalance(n-1))
	}
}

func TestProject_Idempotent(t *testing.T) {
	// Same snapshot + same arguments => identical output.
	start := day(2024, time.June, 3)
	snap := mixedSnapshot(start)

	a := project(snap, start, 8)
	b := project(snap, start, 8)

	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("row counts differ: %d vs %d", len(a.Rows), len(b.Rows))
	}
	for i := range a.Rows {
		if a.Rows[i].ID != b.Rows[i].ID {
			t.Fatalf("row %d ids differ: %s vs %s", i, a.Rows[i].ID, b.Rows[i].ID)
		}
		for j := range a.Rows[i].Values {
			if !a.Rows[i].Values[j].Equal(b.Rows[i].Values[j]) {
				t.Errorf("row %s day %d differs: %s vs %s",
					a.Rows[i].ID, j, a.Rows[i].Values[j], b.Rows[i].Values[j])
			}
		}
		da, db := a.Details(a.Rows[i].ID), b.Details(b.Rows[i].ID)
		if len(da) != len(db) {
			t.Errorf("row %s detail counts differ", a.Rows[i].ID)
		}
	}
}

func TestProject_DetailIndexSortedByDate(t *testing.T) {
	start := day(2024, time.June, 3)
	snap := cashflow.Snapshot{
		Revenues: []cashflow.Revenue{
			revenue(1, "Sale", "10", start.AddDays(4)),
			revenue(2, "Sale", "20", start),
			revenue(3, "Sale", "30", start.AddDays(2)),
		},
		ConfirmedRevenueIDs: []int64{1, 2, 3},
	}
	r := project(snap, start, 6)

	details := r.Details(report.ConfirmedInflowRowID("Sale"))
	if len(details) != 3 {
		t.Fatalf("expected 3 details, got %d", len(details))
	}
	for i := 1; i < len(details); i++ {
		if details[i].Date.Before(details[i-1].Date) {
			t.Errorf("details not date-ascending: %s before %s", details[i].Date, details[i-1].Date)
		}
	}
	if details[0].Description != "client" {
		t.Errorf("unexpected description %q", details[0].Description)
	}
}
