package billing

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/customer"
)

var (
	// errors
	ErrStatusNotFound     = core.NewNotFoundError("month status not found")
	errBeforeBillingStart = errors.New("period is before the customer's billing start")
	errPaidByPayment      = errors.New("this month is settled by a payment, void the payment instead")
)

type (
	Repository interface {
		// QueryMonthStatuses returns the tracked months of the given customers, or of every customer when none is given.
		QueryMonthStatuses(ctx context.Context, customerIDs []string, exec ...core.DBExecutor) ([]MonthStatus, error)
		GetMonthStatus(ctx context.Context, customerID string, period core.Period, exec ...core.DBExecutor) (MonthStatus, error)
		// SaveMonthStatus inserts the status or replaces the existing one for the same customer and period.
		SaveMonthStatus(ctx context.Context, ms MonthStatus, exec ...core.DBExecutor) (MonthStatus, error)
	}

	Service struct {
		repo      Repository
		customers *customer.Service
		conf      *core.Config
		log       core.Logger
	}
)

func NewService(repo Repository, customers *customer.Service, conf *core.Config, logger core.Logger) *Service {
	return &Service{repo: repo, customers: customers, conf: conf, log: logger}
}

func (svc *Service) graceDays() int { return svc.conf.Billing.GraceDays }

// Debt computes what c owes as of asOf.
func (svc *Service) Debt(ctx context.Context, c customer.Customer, asOf time.Time) (Debt, error) {
	statuses, err := svc.repo.QueryMonthStatuses(ctx, []string{c.ID})
	if err != nil {
		return Debt{}, errors.Wrap(err, "querying month statuses")
	}
	return ComputeDebt(c, statuses, asOf, svc.graceDays()), nil
}

// Statuses returns the 12-month grid of c for year.
func (svc *Service) Statuses(ctx context.Context, c customer.Customer, year int) ([]MonthStatus, error) {
	statuses, err := svc.repo.QueryMonthStatuses(ctx, []string{c.ID})
	if err != nil {
		return nil, errors.Wrap(err, "querying month statuses")
	}
	return YearGrid(c, statuses, year), nil
}

// SetStatus overrides the state of one month of c.
func (svc *Service) SetStatus(ctx context.Context, c customer.Customer, ss SetStatus) (MonthStatus, error) {
	ms := MonthStatus{
		CustomerID: c.ID,
		Period:     ss.Period,
		State:      ss.State,
		UpdatedAt:  time.Now().UTC(),
	}
	orig, err := svc.repo.GetMonthStatus(ctx, c.ID, ss.Period)
	if err != nil && errors.Cause(err) != ErrStatusNotFound {
		return MonthStatus{}, errors.Wrap(err, "getting month status")
	}
	if orig.PaymentID != "" {
		// a month settled by a payment only changes through the payment
		if ss.State != StatePaid {
			err := errPaidByPayment
			return MonthStatus{}, core.NewValidationError(err, core.FieldError{Field: "state", Error: err.Error()})
		}
		ms.PaymentID = orig.PaymentID
	}

	ms, err = svc.repo.SaveMonthStatus(ctx, ms)
	if err != nil {
		return MonthStatus{}, errors.Wrap(err, "saving month status")
	}
	svc.log.Info("month status set to "+ms.State+" for "+ms.Period.String(), c)
	return ms, nil
}

// State returns the stored state of period for customerID, StatePending when untracked.
func (svc *Service) State(ctx context.Context, customerID string, period core.Period, exec ...core.DBExecutor) (string, error) {
	ms, err := svc.repo.GetMonthStatus(ctx, customerID, period, exec...)
	if err != nil {
		if errors.Cause(err) == ErrStatusNotFound {
			return StatePending, nil
		}
		return "", errors.Wrap(err, "getting month status")
	}
	return ms.State, nil
}

// IsPaid reports whether customerID already paid period.
func (svc *Service) IsPaid(ctx context.Context, customerID string, period core.Period, exec ...core.DBExecutor) (bool, error) {
	state, err := svc.State(ctx, customerID, period, exec...)
	return state == StatePaid, err
}

// MarkPaid records that paymentID settles period for customerID.
func (svc *Service) MarkPaid(ctx context.Context, customerID string, period core.Period, paymentID string, exec ...core.DBExecutor) error {
	ms := MonthStatus{
		CustomerID: customerID,
		Period:     period,
		State:      StatePaid,
		PaymentID:  paymentID,
		UpdatedAt:  time.Now().UTC(),
	}
	if _, err := svc.repo.SaveMonthStatus(ctx, ms, exec...); err != nil {
		return errors.Wrap(err, "marking month as paid")
	}
	return nil
}

// Revert puts period back to pending for customerID.
func (svc *Service) Revert(ctx context.Context, customerID string, period core.Period, exec ...core.DBExecutor) error {
	ms := MonthStatus{
		CustomerID: customerID,
		Period:     period,
		State:      StatePending,
		UpdatedAt:  time.Now().UTC(),
	}
	if _, err := svc.repo.SaveMonthStatus(ctx, ms, exec...); err != nil {
		return errors.Wrap(err, "reverting month status")
	}
	return nil
}

// Debtors returns every customer owing money as of filter.AsOf, the biggest debts first.
func (svc *Service) Debtors(ctx context.Context, filter DebtorFilter) ([]Debt, error) {
	filter.Clean()

	customers, err := svc.customers.QueryBillable(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := svc.repo.QueryMonthStatuses(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying month statuses")
	}

	byCustomer := make(map[string][]MonthStatus, len(customers))
	for _, ms := range statuses {
		byCustomer[ms.CustomerID] = append(byCustomer[ms.CustomerID], ms)
	}

	debtors := make([]Debt, 0)
	for _, c := range customers {
		if filter.Search != "" && !core.ContainsFold(filter.Search, c.Name, c.DocumentID, c.Phone, c.Email) {
			continue
		}
		debt := ComputeDebt(c, byCustomer[c.ID], filter.AsOf.Time, svc.graceDays())
		if debt.Amount.IsPositive() {
			debtors = append(debtors, debt)
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		if cmp := debtors[i].Amount.Cmp(debtors[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return debtors[i].CustomerName < debtors[j].CustomerName
	})
	return debtors, nil
}

// TotalDebt sums the debts.
func TotalDebt(debts []Debt) decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(debts))
	for _, d := range debts {
		amounts = append(amounts, d.Amount)
	}
	return core.SumMoney(amounts...)
}
