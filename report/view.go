package report

import "github.com/shopspring/decimal"

// displayEpsilon snaps floating-point noise to an exact zero in cells.
var displayEpsilon = decimal.NewFromFloat(0.001)

// =============================================================================
// VIEW - ephemeral presentation state over a Report
// =============================================================================

// View layers expand/collapse state and display rules on top of a Report.
// It is pure view state: nothing here touches the ledger, and the
// expanded set survives re-projection because row ids are stable.
type View struct {
	report   *Report
	expanded map[string]bool
}

func NewView(r *Report) *View {
	return &View{report: r, expanded: make(map[string]bool)}
}

// SetReport swaps in a freshly projected report, keeping toggle state.
func (v *View) SetReport(r *Report) { v.report = r }

func (v *View) Report() *Report { return v.report }

// Toggle flips one row between collapsed and expanded and reports the new
// state. Every row starts collapsed.
func (v *View) Toggle(rowID string) bool {
	if v.expanded[rowID] {
		delete(v.expanded, rowID)
		return false
	}
	v.expanded[rowID] = true
	return true
}

func (v *View) IsExpanded(rowID string) bool { return v.expanded[rowID] }

// VisibleDetails restricts a row's drill-down list to entries whose date
// falls within the displayed axis.
func (v *View) VisibleDetails(rowID string) []Detail {
	if v.report == nil || len(v.report.Dates) == 0 {
		return nil
	}
	first := v.report.Dates[0]
	last := v.report.Dates[len(v.report.Dates)-1]

	var visible []Detail
	for _, d := range v.report.Details(rowID) {
		if d.Date.AfterOrEqual(first) && d.Date.BeforeOrEqual(last) {
			visible = append(visible, d)
		}
	}
	return visible
}

// =============================================================================
// DISPLAY FORMATTING
// =============================================================================

// DisplayValue snaps near-zero values to exact zero so accumulated
// rounding noise never renders as -0.00.
func DisplayValue(v decimal.Decimal) decimal.Decimal {
	if v.Abs().LessThan(displayEpsilon) {
		return decimal.Zero
	}
	return v
}

// FormatCell renders a cell with two decimal places, snapped.
func FormatCell(v decimal.Decimal) string {
	return DisplayValue(v).StringFixed(2)
}
