package customer

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/onnetwireless/dashboard/core"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("customer not found")
	ErrDocumentExists = errors.New("a customer with this document id already exists")
)

type (
	Repository interface {
		CheckDocumentUniqueness(ctx context.Context, documentID string, excludedIDs []string, exec ...core.DBExecutor) error
		CreateCustomer(ctx context.Context, c Customer, exec ...core.DBExecutor) (Customer, error)
		// QueryCustomers applies AND operation on available QueryFilter fields and returns the total count of matches.
		// QueryFilter.Search does a case-insensitive match on one of Name, DocumentID, Phone or Email.
		// A nil page returns every match.
		QueryCustomers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page *core.Pagination, exec ...core.DBExecutor) ([]Customer, int, error)
		GetCustomerByID(ctx context.Context, id string, exec ...core.DBExecutor) (Customer, error)
		UpdateCustomer(ctx context.Context, c Customer, exec ...core.DBExecutor) (Customer, error)
		DeleteCustomersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
		conf *core.Config
		log  core.Logger
	}
)

func NewService(repo Repository, conf *core.Config, logger core.Logger) *Service {
	return &Service{repo: repo, conf: conf, log: logger}
}

func (svc *Service) checkUniqueness(ctx context.Context, documentID string, excludedIDs ...string) error {
	if err := svc.repo.CheckDocumentUniqueness(ctx, documentID, excludedIDs); err != nil {
		if errors.Cause(err) == ErrDocumentExists {
			return core.NewValidationError(err, core.FieldError{Field: "document_id", Error: err.Error()})
		}
		return errors.Wrap(err, "checking customer uniqueness")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nc NewCustomer) (Customer, error) {
	now := time.Now().UTC()
	c := Customer{
		Name:         nc.Name,
		DocumentID:   nc.DocumentID,
		Phone:        nc.Phone,
		Email:        nc.Email,
		Address:      nc.Address,
		Plan:         nc.Plan,
		MonthlyFee:   nc.MonthlyFee.Round(2),
		PaymentDay:   nc.PaymentDay,
		BillingStart: nc.BillingStart,
		Status:       nc.Status,
		Notes:        nc.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if c.PaymentDay == 0 {
		c.PaymentDay = svc.conf.Billing.DefaultPaymentDay
	}
	if c.BillingStart.IsZero() {
		c.BillingStart = core.DateOf(now)
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	c.trackCancellation(false, now)

	c, err := svc.repo.CreateCustomer(ctx, c)
	if err != nil {
		if errors.Cause(err) == ErrDocumentExists {
			return Customer{}, core.NewValidationError(err, core.FieldError{Field: "document_id", Error: err.Error()})
		}
		return Customer{}, errors.Wrap(err, "creating customer")
	}
	svc.log.Info("customer created", c)
	return c, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page *core.Pagination) ([]Customer, int, error) {
	if filter != nil {
		filter.Clean()
	}
	ordering = core.MapOrdering(ordering, Orderings)
	if len(ordering) == 0 {
		ordering = defaultOrdering
	}
	return svc.repo.QueryCustomers(ctx, filter, ordering, page)
}

// QueryBillable returns every customer that may owe money: active and suspended ones, plus cancelled ones for their past months.
func (svc *Service) QueryBillable(ctx context.Context) ([]Customer, error) {
	customers, _, err := svc.repo.QueryCustomers(ctx, nil, defaultOrdering, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying billable customers")
	}
	return customers, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Customer, error) {
	return svc.repo.GetCustomerByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Customer, uc UpdateCustomer) (Customer, error) {
	now := time.Now().UTC()
	c := uc.apply(orig)
	c.UpdatedAt = now
	c.trackCancellation(orig.IsCancelled(), now)

	c, err := svc.repo.UpdateCustomer(ctx, c)
	if err != nil {
		if errors.Cause(err) == ErrDocumentExists {
			return Customer{}, core.NewValidationError(err, core.FieldError{Field: "document_id", Error: err.Error()})
		}
		return Customer{}, errors.Wrap(err, "updating customer")
	}
	return c, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	if err := svc.repo.DeleteCustomersByID(ctx, ids); err != nil {
		return errors.Wrap(err, "deleting customers")
	}
	return nil
}
