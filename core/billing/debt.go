package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/customer"
)

// Months returns every period from the month of `from` to the month of `to`, both included.
func Months(from, to time.Time) []core.Period {
	first, last := core.PeriodOf(from), core.PeriodOf(to)
	if last.Before(first) {
		return nil
	}
	months := make([]core.Period, 0, first.MonthsUntil(last)+1)
	for p := first; !p.After(last); p = p.Next() {
		months = append(months, p)
	}
	return months
}

// DueDate is the day a period becomes owed: its payment day plus the grace days.
// The billing start month is never due before the billing start itself.
func DueDate(c customer.Customer, p core.Period, graceDays int) time.Time {
	due := p.Day(c.PaymentDay)
	if !c.BillingStart.IsZero() && p == c.BillingStart.Period() && due.Before(c.BillingStart.Time) {
		due = c.BillingStart.Time
	}
	return due.AddDate(0, 0, graceDays)
}

// lastBillable is the last period c can owe as of asOf. Cancelled customers stop at their cancellation month.
func lastBillable(c customer.Customer, asOf time.Time) core.Period {
	last := core.PeriodOf(asOf)
	if c.IsCancelled() && c.CancelledAt != nil {
		if cancelled := core.PeriodOf(*c.CancelledAt); cancelled.Before(last) {
			last = cancelled
		}
	}
	return last
}

// DueMonths returns, in order, the periods from c's billing start up to asOf that are owed:
// their due date has been reached and they are neither paid nor exempt.
func DueMonths(c customer.Customer, statuses []MonthStatus, asOf time.Time, graceDays int) []core.Period {
	if c.BillingStart.IsZero() || c.BillingStart.After(asOf) {
		return nil
	}

	settled := make(map[core.Period]bool, len(statuses))
	for _, ms := range statuses {
		if ms.CustomerID == c.ID && ms.Settled() {
			settled[ms.Period] = true
		}
	}

	var due []core.Period
	for _, p := range Months(c.BillingStart.Time, lastBillable(c, asOf).Start()) {
		if settled[p] || asOf.Before(DueDate(c, p, graceDays)) {
			continue
		}
		due = append(due, p)
	}
	return due
}

// ComputeDebt prices every due month at c's monthly fee.
func ComputeDebt(c customer.Customer, statuses []MonthStatus, asOf time.Time, graceDays int) Debt {
	due := DueMonths(c, statuses, asOf, graceDays)
	debt := Debt{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		DocumentID:   c.DocumentID,
		Phone:        c.Phone,
		MonthlyFee:   c.MonthlyFee,
		DueMonths:    due,
		Count:        len(due),
		Amount:       c.MonthlyFee.Mul(decimal.NewFromInt(int64(len(due)))).Round(2),
		AsOf:         core.DateOf(asOf),
	}
	if debt.DueMonths == nil {
		debt.DueMonths = []core.Period{}
	}
	if len(due) > 0 {
		debt.OldestDue = due[0]
	}
	return debt
}

// YearGrid returns the 12 months of year for c. Untracked months are pending,
// or n/a when they precede the billing start.
func YearGrid(c customer.Customer, statuses []MonthStatus, year int) []MonthStatus {
	byPeriod := make(map[core.Period]MonthStatus, len(statuses))
	for _, ms := range statuses {
		if ms.CustomerID == c.ID {
			byPeriod[ms.Period] = ms
		}
	}

	var start core.Period
	if !c.BillingStart.IsZero() {
		start = c.BillingStart.Period()
	}

	grid := make([]MonthStatus, 0, 12)
	for m := time.January; m <= time.December; m++ {
		p := core.NewPeriod(year, m)
		if ms, ok := byPeriod[p]; ok {
			grid = append(grid, ms)
			continue
		}
		state := StatePending
		if start.IsZero() || p.Before(start) {
			state = StateNotApplicable
		}
		grid = append(grid, MonthStatus{CustomerID: c.ID, Period: p, State: state})
	}
	return grid
}
