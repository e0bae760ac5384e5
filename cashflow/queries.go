package cashflow

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECEIVABLE VIEWS - pending, overdue, date-range filters
// =============================================================================

// RevenueFilter narrows receivable views by credit date.
type RevenueFilter struct {
	From *Day
	To   *Day
	// IncludeFuture widens PendingRevenues to receivables whose credit
	// date is still ahead of asOf.
	IncludeFuture bool
}

func (f RevenueFilter) matches(creditDate Day) bool {
	if f.From != nil && creditDate.Before(*f.From) {
		return false
	}
	if f.To != nil && creditDate.After(*f.To) {
		return false
	}
	return true
}

// PendingRevenues lists unconfirmed receivables awaiting confirmation,
// by default only those due on or before asOf, sorted by credit date.
func (l *Ledger) PendingRevenues(asOf Day, filter RevenueFilter) []Revenue {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []Revenue
	for _, r := range l.revenues {
		if _, confirmed := l.confirmed[r.ID]; confirmed {
			continue
		}
		if !filter.IncludeFuture && r.CreditDate.After(asOf) {
			continue
		}
		if !filter.matches(r.CreditDate) {
			continue
		}
		result = append(result, r)
	}
	sortByCreditDate(result)
	return result
}

// OverdueRevenues lists unconfirmed receivables whose credit date has
// already passed. These are exactly the entries the forward projection
// excludes.
func (l *Ledger) OverdueRevenues(asOf Day, filter RevenueFilter) []Revenue {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []Revenue
	for _, r := range l.revenues {
		if _, confirmed := l.confirmed[r.ID]; confirmed {
			continue
		}
		if !r.CreditDate.Before(asOf) {
			continue
		}
		if !filter.matches(r.CreditDate) {
			continue
		}
		result = append(result, r)
	}
	sortByCreditDate(result)
	return result
}

// DaysOverdue counts whole days past the credit date; zero when not
// overdue.
func DaysOverdue(asOf Day, r Revenue) int {
	n := DaysBetween(r.CreditDate, asOf)
	if n < 0 {
		return 0
	}
	return n
}

// RevenuesByCreditDate filters all receivables by credit-date range.
func (l *Ledger) RevenuesByCreditDate(filter RevenueFilter) []Revenue {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []Revenue
	for _, r := range l.revenues {
		if filter.matches(r.CreditDate) {
			result = append(result, r)
		}
	}
	sortByCreditDate(result)
	return result
}

// ReceiptSummaryByDay totals receivable amounts per credit date.
type DaySummary struct {
	Date  Day
	Total decimal.Decimal
}

func ReceiptSummaryByDay(revenues []Revenue) []DaySummary {
	totals := make(map[string]decimal.Decimal)
	dates := make(map[string]Day)
	for _, r := range revenues {
		k := r.CreditDate.Key()
		totals[k] = totals[k].Add(r.Amount)
		dates[k] = r.CreditDate
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]DaySummary, 0, len(keys))
	for _, k := range keys {
		result = append(result, DaySummary{Date: dates[k], Total: totals[k]})
	}
	return result
}

func sortByCreditDate(revenues []Revenue) {
	sort.SliceStable(revenues, func(i, j int) bool {
		return revenues[i].CreditDate.Before(revenues[j].CreditDate)
	})
}
