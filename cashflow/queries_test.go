package cashflow

import (
	"testing"
	"time"
)

func seedReceivables(t *testing.T) (*Ledger, Day) {
	t.Helper()
	l := NewLedger()
	asOf := NewDay(2024, time.June, 12) // Wednesday

	// Credit dates: due+1 (all midweek here).
	add := func(name string, due Day) Revenue {
		return l.AddRevenue(NewRevenue{ClientName: name, Type: "Sale", Amount: amount("100"), DueDate: due})
	}
	add("overdue-a", NewDay(2024, time.June, 3))  // credit 06-04, overdue
	add("overdue-b", NewDay(2024, time.June, 5))  // credit 06-06, overdue
	due := add("due-today", NewDay(2024, time.June, 11)) // credit 06-12, due today
	add("future", NewDay(2024, time.June, 18))    // credit 06-19, future
	confirmed := add("confirmed", NewDay(2024, time.June, 3))
	l.ConfirmRevenue(confirmed.ID)
	_ = due
	return l, asOf
}

func TestPendingRevenues_DefaultExcludesFuture(t *testing.T) {
	l, asOf := seedReceivables(t)

	pending := l.PendingRevenues(asOf, RevenueFilter{})

	if len(pending) != 3 {
		t.Fatalf("expected 3 pending receivables, got %d", len(pending))
	}
	for i := 1; i < len(pending); i++ {
		if pending[i].CreditDate.Before(pending[i-1].CreditDate) {
			t.Errorf("pending list not sorted by credit date")
		}
	}
}

func TestPendingRevenues_IncludeFuture(t *testing.T) {
	l, asOf := seedReceivables(t)

	pending := l.PendingRevenues(asOf, RevenueFilter{IncludeFuture: true})

	if len(pending) != 4 {
		t.Fatalf("expected 4 pending receivables with future included, got %d", len(pending))
	}
}

func TestOverdueRevenues_StrictlyPastAndUnconfirmed(t *testing.T) {
	l, asOf := seedReceivables(t)

	overdue := l.OverdueRevenues(asOf, RevenueFilter{})

	if len(overdue) != 2 {
		t.Fatalf("expected 2 overdue receivables, got %d", len(overdue))
	}
	for _, r := range overdue {
		if !r.CreditDate.Before(asOf) {
			t.Errorf("receivable %q with credit date %s is not overdue as of %s", r.ClientName, r.CreditDate, asOf)
		}
	}
}

func TestOverdueRevenues_DateRangeFilter(t *testing.T) {
	l, asOf := seedReceivables(t)
	from := NewDay(2024, time.June, 5)

	overdue := l.OverdueRevenues(asOf, RevenueFilter{From: &from})

	if len(overdue) != 1 {
		t.Fatalf("expected 1 overdue receivable from %s, got %d", from, len(overdue))
	}
	if overdue[0].ClientName != "overdue-b" {
		t.Errorf("expected overdue-b, got %q", overdue[0].ClientName)
	}
}

func TestRevenuesByCreditDate_FiltersAndSorts(t *testing.T) {
	l, _ := seedReceivables(t)
	from := NewDay(2024, time.June, 5)
	to := NewDay(2024, time.June, 12)

	result := l.RevenuesByCreditDate(RevenueFilter{From: &from, To: &to})

	if len(result) != 2 {
		t.Fatalf("expected 2 receivables in range, got %d", len(result))
	}
	for i := 1; i < len(result); i++ {
		if result[i].CreditDate.Before(result[i-1].CreditDate) {
			t.Errorf("result not sorted by credit date")
		}
	}
}

func TestDaysOverdue(t *testing.T) {
	asOf := NewDay(2024, time.June, 12)
	r := Revenue{CreditDate: NewDay(2024, time.June, 4)}
	if got := DaysOverdue(asOf, r); got != 8 {
		t.Errorf("expected 8 days overdue, got %d", got)
	}
	future := Revenue{CreditDate: NewDay(2024, time.June, 19)}
	if got := DaysOverdue(asOf, future); got != 0 {
		t.Errorf("expected 0 for future credit date, got %d", got)
	}
}

func TestReceiptSummaryByDay(t *testing.T) {
	revenues := []Revenue{
		{CreditDate: NewDay(2024, time.June, 5), Amount: amount("100")},
		{CreditDate: NewDay(2024, time.June, 5), Amount: amount("50")},
		{CreditDate: NewDay(2024, time.June, 3), Amount: amount("10")},
	}

	summary := ReceiptSummaryByDay(revenues)

	if len(summary) != 2 {
		t.Fatalf("expected 2 summary days, got %d", len(summary))
	}
	if !summary[0].Date.Equal(NewDay(2024, time.June, 3)) {
		t.Errorf("summary not sorted by date, first is %s", summary[0].Date)
	}
	if !summary[1].Total.Equal(amount("150")) {
		t.Errorf("expected 150 on 06-05, got %s", summary[1].Total)
	}
}
