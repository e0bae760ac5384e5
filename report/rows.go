package report

import "github.com/shopspring/decimal"

// =============================================================================
// ROW CATALOG - the fixed skeleton of the direct cash-flow statement
// =============================================================================

// Row ids are stable strings derived from fixed category names, never from
// generated data, so view state keyed by them survives re-projection.
const (
	RowInitialBalance        = "initial_balance"
	RowInflowsHeader         = "inflows_header"
	RowProjectedInflowsHead  = "projected_inflows_header"
	RowOutflowsOpHeader      = "outflows_op_header"
	RowOpGeneration          = "op_generation"
	RowOutflowsInvHeader     = "outflows_inv_header"
	RowOutflowsFinHeader     = "outflows_fin_header"
	RowNetCashFlow           = "net_cash_flow"
	RowFinalBalance          = "final_balance"
)

func ConfirmedInflowRowID(revenueType string) string { return "inflow_" + revenueType }
func ProjectedInflowRowID(revenueType string) string { return "projected_inflow_" + revenueType }
func OperatingOutflowRowID(supplierType string) string { return "outflow_op_" + supplierType }
func InvestingOutflowRowID(supplierType string) string { return "outflow_inv_" + supplierType }
func FinancingOutflowRowID(supplierType string) string { return "outflow_fin_" + supplierType }

// Row is one line of the report: a header (indent 0) or a category leaf
// (indent 1), with one value cell per day in the axis.
type Row struct {
	ID       string
	Label    string
	Indent   int
	Bold     bool
	Subtotal bool
	Values   []decimal.Decimal
}

// IsLeaf reports whether the row is an expandable category leaf.
func (r Row) IsLeaf() bool { return r.Indent == 1 }

func newRow(id, label string, indent, days int, bold, subtotal bool) Row {
	return Row{
		ID:       id,
		Label:    label,
		Indent:   indent,
		Bold:     bold,
		Subtotal: subtotal,
		Values:   make([]decimal.Decimal, days),
	}
}

// buildRowCatalog lays out the fixed hierarchy in statement order. The
// forecast-receipts section only exists when projected receivables do;
// the three payment sections are unconditional even when empty.
func buildRowCatalog(days int, confirmedTypes, projectedTypes, opTypes, invTypes, finTypes []string) []Row {
	var rows []Row

	rows = append(rows, newRow(RowInitialBalance, "Opening Cash Balance", 0, days, false, true))

	rows = append(rows, newRow(RowInflowsHeader, "(+) Confirmed Operating Receipts", 0, days, true, false))
	for _, t := range confirmedTypes {
		rows = append(rows, newRow(ConfirmedInflowRowID(t), t, 1, days, false, false))
	}

	if len(projectedTypes) > 0 {
		rows = append(rows, newRow(RowProjectedInflowsHead, "(+) Forecast Receipts", 0, days, true, false))
		for _, t := range projectedTypes {
			rows = append(rows, newRow(ProjectedInflowRowID(t), t, 1, days, false, false))
		}
	}

	rows = append(rows, newRow(RowOutflowsOpHeader, "(-) Operating Payments", 0, days, true, false))
	for _, t := range opTypes {
		rows = append(rows, newRow(OperatingOutflowRowID(t), "(-) "+t, 1, days, false, false))
	}
	rows = append(rows, newRow(RowOpGeneration, "(=) Operating Cash Generation", 0, days, true, true))

	rows = append(rows, newRow(RowOutflowsInvHeader, "(-) Investments", 0, days, true, false))
	for _, t := range invTypes {
		rows = append(rows, newRow(InvestingOutflowRowID(t), "(-) "+t, 1, days, false, false))
	}

	rows = append(rows, newRow(RowOutflowsFinHeader, "(-) Financing", 0, days, true, false))
	for _, t := range finTypes {
		rows = append(rows, newRow(FinancingOutflowRowID(t), "(-) "+t, 1, days, false, false))
	}

	rows = append(rows, newRow(RowNetCashFlow, "(=) Net Cash Flow", 0, days, true, true))
	rows = append(rows, newRow(RowFinalBalance, "(=) Closing Cash Balance", 0, days, true, true))

	return rows
}
