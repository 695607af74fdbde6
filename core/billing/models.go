package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/customer"
)

// Month states
const (
	StatePaid    = "paid"
	StatePending = "pending"
	StateExempt  = "exempt"

	// StateNotApplicable is never stored; it fills the months before a customer's billing start.
	StateNotApplicable = "n/a"
)

var States = []string{StatePaid, StatePending, StateExempt}

// MonthStatus is the billing state of one customer for one period.
type MonthStatus struct {
	CustomerID string      `json:"customer_id"`
	Period     core.Period `json:"period"`
	State      string      `json:"state"`
	PaymentID  string      `json:"payment_id,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"` // UTC
}

// Settled reports whether the month no longer counts as debt.
func (ms MonthStatus) Settled() bool {
	return ms.State == StatePaid || ms.State == StateExempt
}

// Debt is what a customer owes at a given date.
type Debt struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	DocumentID   string          `json:"document_id"`
	Phone        string          `json:"phone"`
	MonthlyFee   decimal.Decimal `json:"monthly_fee"`
	DueMonths    []core.Period   `json:"due_months"`
	Count        int             `json:"count"`
	Amount       decimal.Decimal `json:"amount"`
	OldestDue    core.Period     `json:"oldest_due"`
	AsOf         core.Date       `json:"as_of"`
}

// SetStatus is a manual override of one month's state.
type SetStatus struct {
	Period core.Period `json:"period" validate:"required"`
	State  string      `json:"state" validate:"required,oneof=paid pending exempt"`
}

func (ss *SetStatus) Validate(ctx context.Context, c customer.Customer) error {
	ss.State = core.CleanString(ss.State, true /* lower */)
	if err := core.Validate.Struct(ss); err != nil {
		return err
	}
	if !c.BillingStart.IsZero() && ss.Period.Before(c.BillingStart.Period()) {
		err := errBeforeBillingStart
		return core.NewValidationError(err, core.FieldError{Field: "period", Error: err.Error()})
	}
	return nil
}

type DebtorFilter struct {
	AsOf   core.Date `query:"as_of"`
	Search string    `query:"search"`
}

func (df *DebtorFilter) Clean() {
	df.Search = core.CleanString(df.Search)
	if df.AsOf.IsZero() {
		df.AsOf = core.Today()
	}
}
