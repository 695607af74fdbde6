package payment

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/customer"
	"github.com/onnetwireless/dashboard/core/employee"
)

// Methods
const (
	MethodCash     = "cash"
	MethodTransfer = "transfer"
	MethodCard     = "card"
)

var (
	Methods = []string{MethodCash, MethodTransfer, MethodCard}

	Orderings = map[string]string{
		"receipt_number": "receipt_number",
		"amount":         "amount",
		"method":         "method",
		"period":         "period",
		"paid_at":        "paid_at",
		"created_at":     "created_at",
	}
	defaultOrdering = []core.DBOrdering{{Field: "paid_at", Ascending: false}}
)

type Payment struct {
	ID            string          `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	CustomerID    string          `json:"customer_id"`
	EmployeeID    string          `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Period        core.Period     `json:"period"`
	PaidAt        time.Time       `json:"paid_at"` // UTC
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"` // UTC
}

// NewPayment contains information needed to record a Payment.
// Amount defaults to the customer's monthly fee, Period to its oldest due month and PaidAt to now.
type NewPayment struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	EmployeeID string          `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount" validate:"omitempty,gt=0"`
	Method     string          `json:"method" validate:"required,oneof=cash transfer card"`
	Period     core.Period     `json:"period"`
	PaidAt     time.Time       `json:"paid_at"`
	Notes      string          `json:"notes"`

	customer customer.Customer
}

func (np *NewPayment) Validate(ctx context.Context, svc *Service) error {
	np.CustomerID = core.CleanString(np.CustomerID)
	np.EmployeeID = core.CleanString(np.EmployeeID)
	np.Method = core.CleanString(np.Method, true /* lower */)
	np.Notes = core.CleanString(np.Notes)

	if err := core.Validate.Struct(np); err != nil {
		return err
	}

	c, err := svc.customers.GetByID(ctx, np.CustomerID)
	if err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(err, core.FieldError{Field: "customer_id", Error: err.Error()})
		}
		return errors.Wrap(err, "getting customer")
	}
	np.customer = c

	if np.EmployeeID != "" {
		if _, err := svc.employees.GetByID(ctx, np.EmployeeID); err != nil {
			if core.IsNotFound(err) {
				return core.NewValidationError(err, core.FieldError{Field: "employee_id", Error: err.Error()})
			}
			return errors.Wrap(err, "getting employee")
		}
	}

	if !np.Period.IsZero() && np.Period.Before(c.BillingStart.Period()) {
		err := errBeforeBillingStart
		return core.NewValidationError(err, core.FieldError{Field: "period", Error: err.Error()})
	}
	return nil
}

type QueryFilter struct {
	Search      string      `query:"search"`
	CustomerIDs []string    `query:"customer"`
	EmployeeID  string      `query:"employee"`
	Methods     []string    `query:"method"`
	Period      core.Period `query:"period"`
	PaidFrom    core.Date   `query:"paid_from"`
	PaidTo      core.Date   `query:"paid_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.CustomerIDs == nil && qf.EmployeeID == "" && qf.Methods == nil &&
		qf.Period.IsZero() && qf.PaidFrom.IsZero() && qf.PaidTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.EmployeeID = core.CleanString(qf.EmployeeID)
}

func (qf *QueryFilter) Match(p Payment) bool {
	if qf == nil {
		return true
	}
	if qf.Search != "" && !core.ContainsFold(qf.Search, p.ReceiptNumber) {
		return false
	}
	if len(qf.CustomerIDs) > 0 && !core.StringIn(p.CustomerID, qf.CustomerIDs) {
		return false
	}
	if qf.EmployeeID != "" && p.EmployeeID != qf.EmployeeID {
		return false
	}
	if len(qf.Methods) > 0 && !core.StringIn(p.Method, qf.Methods) {
		return false
	}
	if !qf.Period.IsZero() && p.Period != qf.Period {
		return false
	}
	if !qf.PaidFrom.IsZero() && p.PaidAt.Before(qf.PaidFrom.Time) {
		return false
	}
	if !qf.PaidTo.IsZero() && !p.PaidAt.Before(qf.PaidTo.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// Totals summarizes every payment matching a query, regardless of pagination.
type Totals struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Receipt holds everything printed on a payment receipt.
type Receipt struct {
	Payment   Payment
	Customer  customer.Customer
	Collector *employee.Employee
}

// ReceiptRenderer renders receipts as documents, e.g. PDF.
type ReceiptRenderer interface {
	RenderReceipt(r Receipt) ([]byte, error)
}
