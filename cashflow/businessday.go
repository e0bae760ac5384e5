package cashflow

import "time"

// NextBusinessDay maps a due date to the day the cash actually clears:
// always the next calendar day, pushed past the weekend when needed.
// Saturday lands on Monday (+2), Sunday lands on Monday (+1).
//
// Weekends only - no holiday calendar, no locale. The result is computed
// once when a receivable is created and stored on the record, so later
// changes to this function never rewrite existing credit dates.
func NextBusinessDay(due Day) Day {
	credit := due.AddDays(1)
	switch credit.Weekday() {
	case time.Saturday:
		return credit.AddDays(2)
	case time.Sunday:
		return credit.AddDays(1)
	default:
		return credit
	}
}
