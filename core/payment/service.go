package payment

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/customer"
	"github.com/onnetwireless/dashboard/core/employee"
)

const receiptTemplate = "payment_receipt"

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("payment not found")
	ErrPeriodAlreadyPaid  = errors.New("this period is already paid")
	ErrPeriodExempt       = errors.New("this period is exempt from payment")
	ErrNoRecipient        = errors.New("the customer has no email address")
	errBeforeBillingStart = errors.New("period is before the customer's billing start")
)

type (
	Repository interface {
		// NextReceiptSeq returns the next value of the receipt number sequence.
		NextReceiptSeq(ctx context.Context, exec ...core.DBExecutor) (int64, error)
		// CreatePayment returns ErrPeriodAlreadyPaid when the customer already has a payment for the period.
		CreatePayment(ctx context.Context, p Payment, exec ...core.DBExecutor) (Payment, error)
		// QueryPayments applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on ReceiptNumber.
		QueryPayments(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page *core.Pagination, exec ...core.DBExecutor) ([]Payment, Totals, error)
		GetPaymentByID(ctx context.Context, id string, exec ...core.DBExecutor) (Payment, error)
		DeletePayment(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo      Repository
		tx        core.Transactor
		billing   *billing.Service
		customers *customer.Service
		employees *employee.Service
		renderer  ReceiptRenderer
		mailer    core.EmailService
		conf      *core.Config
		log       core.Logger
	}

	Deps struct {
		Repo      Repository
		Tx        core.Transactor
		Billing   *billing.Service
		Customers *customer.Service
		Employees *employee.Service
		Renderer  ReceiptRenderer
		Mailer    core.EmailService
	}
)

func NewService(deps Deps, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:      deps.Repo,
		tx:        deps.Tx,
		billing:   deps.Billing,
		customers: deps.Customers,
		employees: deps.Employees,
		renderer:  deps.Renderer,
		mailer:    deps.Mailer,
		conf:      conf,
		log:       logger,
	}
}

// FormatReceiptNumber prefixes the zero-padded sequence: R-000042.
func FormatReceiptNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s%06d", prefix, seq)
}

func (svc *Service) defaultPeriod(ctx context.Context, c customer.Customer, paidAt time.Time) (core.Period, error) {
	debt, err := svc.billing.Debt(ctx, c, paidAt)
	if err != nil {
		return core.Period{}, err
	}
	if debt.Count > 0 {
		return debt.OldestDue, nil
	}
	p := core.PeriodOf(paidAt)
	if start := c.BillingStart.Period(); p.Before(start) {
		p = start
	}
	return p, nil
}

// Create records the payment and marks its period as paid, atomically.
// np must have been validated.
func (svc *Service) Create(ctx context.Context, np NewPayment) (Payment, error) {
	now := time.Now().UTC()
	p := Payment{
		CustomerID: np.CustomerID,
		EmployeeID: np.EmployeeID,
		Amount:     np.Amount.Round(2),
		Method:     np.Method,
		Period:     np.Period,
		PaidAt:     np.PaidAt.UTC(),
		Notes:      np.Notes,
		CreatedAt:  now,
	}
	if np.PaidAt.IsZero() {
		p.PaidAt = now
	}
	if p.Amount.IsZero() {
		p.Amount = np.customer.MonthlyFee
	}
	if p.Period.IsZero() {
		period, err := svc.defaultPeriod(ctx, np.customer, p.PaidAt)
		if err != nil {
			return Payment{}, errors.Wrap(err, "computing payment period")
		}
		p.Period = period
	}

	err := svc.tx.WithinTx(ctx, func(exec core.DBExecutor) error {
		state, err := svc.billing.State(ctx, p.CustomerID, p.Period, exec)
		if err != nil {
			return err
		}
		switch state {
		case billing.StatePaid:
			return ErrPeriodAlreadyPaid
		case billing.StateExempt:
			return ErrPeriodExempt
		}

		seq, err := svc.repo.NextReceiptSeq(ctx, exec)
		if err != nil {
			return errors.Wrap(err, "getting receipt number")
		}
		p.ReceiptNumber = FormatReceiptNumber(svc.conf.Billing.ReceiptPrefix, seq)

		if p, err = svc.repo.CreatePayment(ctx, p, exec); err != nil {
			return err
		}
		return svc.billing.MarkPaid(ctx, p.CustomerID, p.Period, p.ID, exec)
	})
	if err != nil {
		if cause := errors.Cause(err); cause == ErrPeriodAlreadyPaid || cause == ErrPeriodExempt {
			return Payment{}, core.NewValidationError(cause, core.FieldError{Field: "period", Error: cause.Error()})
		}
		return Payment{}, errors.Wrap(err, "creating payment")
	}

	svc.log.Info(fmt.Sprintf("payment %s recorded for %s", p.ReceiptNumber, p.Period), np.customer)
	return p, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page *core.Pagination) ([]Payment, Totals, error) {
	if filter != nil {
		filter.Clean()
	}
	ordering = core.MapOrdering(ordering, Orderings)
	if len(ordering) == 0 {
		ordering = defaultOrdering
	}
	return svc.repo.QueryPayments(ctx, filter, ordering, page)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Payment, error) {
	return svc.repo.GetPaymentByID(ctx, id)
}

// Void deletes the payment and puts its period back to pending, atomically.
func (svc *Service) Void(ctx context.Context, p Payment) error {
	err := svc.tx.WithinTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.repo.DeletePayment(ctx, p.ID, exec); err != nil {
			return err
		}
		return svc.billing.Revert(ctx, p.CustomerID, p.Period, exec)
	})
	if err != nil {
		return errors.Wrap(err, "voiding payment")
	}
	svc.log.Info(fmt.Sprintf("payment %s voided", p.ReceiptNumber))
	return nil
}

// Receipt gathers the receipt data of p.
func (svc *Service) Receipt(ctx context.Context, p Payment) (Receipt, error) {
	c, err := svc.customers.GetByID(ctx, p.CustomerID)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "getting customer")
	}
	r := Receipt{Payment: p, Customer: c}

	if p.EmployeeID != "" {
		e, err := svc.employees.GetByID(ctx, p.EmployeeID)
		if err != nil && !core.IsNotFound(err) {
			return Receipt{}, errors.Wrap(err, "getting collector")
		}
		if err == nil {
			r.Collector = &e
		}
	}
	return r, nil
}

// ReceiptPDF renders the receipt of p.
func (svc *Service) ReceiptPDF(ctx context.Context, p Payment) ([]byte, error) {
	r, err := svc.Receipt(ctx, p)
	if err != nil {
		return nil, err
	}
	doc, err := svc.renderer.RenderReceipt(r)
	if err != nil {
		return nil, errors.Wrap(err, "rendering receipt")
	}
	return doc, nil
}

// ReceiptFilename is the attachment/download name of p's receipt.
func ReceiptFilename(p Payment) string {
	return "receipt-" + p.ReceiptNumber + ".pdf"
}

// SendReceipt emails the receipt of p to its customer, or to `to` when given.
func (svc *Service) SendReceipt(ctx context.Context, p Payment, to ...mail.Address) error {
	r, err := svc.Receipt(ctx, p)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		if r.Customer.Email == "" {
			return core.NewValidationError(ErrNoRecipient, core.FieldError{Field: "email", Error: ErrNoRecipient.Error()})
		}
		to = []mail.Address{{Name: r.Customer.Name, Address: r.Customer.Email}}
	}

	doc, err := svc.renderer.RenderReceipt(r)
	if err != nil {
		return errors.Wrap(err, "rendering receipt")
	}

	msg := &core.EmailMessage{
		To:           to,
		Subject:      "Payment receipt " + p.ReceiptNumber,
		TemplateName: receiptTemplate,
		TemplateData: map[string]interface{}{
			"CustomerName":  r.Customer.Name,
			"Amount":        core.FormatMoney(svc.conf.Billing.CurrencySymbol, p.Amount),
			"Period":        p.Period.String(),
			"ReceiptNumber": p.ReceiptNumber,
		},
	}
	if err := msg.Attach(bytes.NewReader(doc), ReceiptFilename(p), "application/pdf"); err != nil {
		return errors.Wrap(err, "attaching receipt")
	}
	svc.mailer.SendMessages(msg)
	svc.log.Info("receipt "+p.ReceiptNumber+" sent", r.Customer)
	return nil
}
