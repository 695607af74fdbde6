package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/customer"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("quote not found")
)

type (
	Repository interface {
		// NextQuoteSeq returns the next value of the quote number sequence.
		NextQuoteSeq(ctx context.Context, exec ...core.DBExecutor) (int64, error)
		CreateQuote(ctx context.Context, q Quote, exec ...core.DBExecutor) (Quote, error)
		// QueryQuotes applies AND operation on available QueryFilter fields and returns the total count of matches.
		// QueryFilter.Search does a case-insensitive match on Number or ClientName.
		QueryQuotes(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page *core.Pagination, exec ...core.DBExecutor) ([]Quote, int, error)
		GetQuoteByID(ctx context.Context, id string, exec ...core.DBExecutor) (Quote, error)
		UpdateQuote(ctx context.Context, q Quote, exec ...core.DBExecutor) (Quote, error)
		DeleteQuotesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo      Repository
		tx        core.Transactor
		customers *customer.Service
		renderer  Renderer
		conf      *core.Config
		log       core.Logger
	}
)

func NewService(repo Repository, tx core.Transactor, customers *customer.Service, renderer Renderer, conf *core.Config, logger core.Logger) *Service {
	return &Service{repo: repo, tx: tx, customers: customers, renderer: renderer, conf: conf, log: logger}
}

// FormatQuoteNumber prefixes the zero-padded sequence: Q-000042.
func FormatQuoteNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s%06d", prefix, seq)
}

func (svc *Service) checkCustomer(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := svc.customers.GetByID(ctx, id); err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(errUnknownCustomer, core.FieldError{Field: "customer_id", Error: errUnknownCustomer.Error()})
		}
		return errors.Wrap(err, "getting customer")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nq NewQuote) (Quote, error) {
	now := time.Now().UTC()
	q := Quote{
		CustomerID:    nq.CustomerID,
		ClientName:    nq.ClientName,
		ClientPhone:   nq.ClientPhone,
		ClientEmail:   nq.ClientEmail,
		ClientAddress: nq.ClientAddress,
		Items:         toItems(nq.Items),
		DiscountPct:   nq.DiscountPct,
		TaxPct:        nq.TaxPct,
		Notes:         nq.Notes,
		ValidUntil:    nq.ValidUntil,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if q.ValidUntil.IsZero() && svc.conf.Billing.QuoteValidityDays > 0 {
		q.ValidUntil = core.DateOf(now.AddDate(0, 0, svc.conf.Billing.QuoteValidityDays))
	}
	if q.CustomerID != "" {
		c, err := svc.customers.GetByID(ctx, q.CustomerID)
		if err != nil {
			return Quote{}, errors.Wrap(err, "getting customer")
		}
		fillClient(&q, c)
	}
	q.ComputeTotals()

	err := svc.tx.WithinTx(ctx, func(exec core.DBExecutor) error {
		seq, err := svc.repo.NextQuoteSeq(ctx, exec)
		if err != nil {
			return errors.Wrap(err, "getting quote number")
		}
		q.Number = FormatQuoteNumber(svc.conf.Billing.QuotePrefix, seq)
		q, err = svc.repo.CreateQuote(ctx, q, exec)
		return err
	})
	if err != nil {
		return Quote{}, errors.Wrap(err, "creating quote")
	}
	return q, nil
}

// fillClient copies the customer's contact details into the empty client fields.
func fillClient(q *Quote, c customer.Customer) {
	if q.ClientName == "" {
		q.ClientName = c.Name
	}
	if q.ClientPhone == "" {
		q.ClientPhone = c.Phone
	}
	if q.ClientEmail == "" {
		q.ClientEmail = c.Email
	}
	if q.ClientAddress == "" {
		q.ClientAddress = c.Address
	}
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page *core.Pagination) ([]Quote, int, error) {
	if filter != nil {
		filter.Clean()
	}
	ordering = core.MapOrdering(ordering, Orderings)
	if len(ordering) == 0 {
		ordering = defaultOrdering
	}
	return svc.repo.QueryQuotes(ctx, filter, ordering, page)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Quote, error) {
	return svc.repo.GetQuoteByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Quote, uq UpdateQuote) (Quote, error) {
	q := uq.apply(orig)
	q.UpdatedAt = time.Now().UTC()

	err := svc.tx.WithinTx(ctx, func(exec core.DBExecutor) error {
		var err error
		q, err = svc.repo.UpdateQuote(ctx, q, exec)
		return err
	})
	if err != nil {
		return Quote{}, errors.Wrap(err, "updating quote")
	}
	return q, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	if err := svc.repo.DeleteQuotesByID(ctx, ids); err != nil {
		return errors.Wrap(err, "deleting quotes")
	}
	return nil
}

// PDF renders q.
func (svc *Service) PDF(q Quote) ([]byte, error) {
	doc, err := svc.renderer.RenderQuote(q)
	if err != nil {
		return nil, errors.Wrap(err, "rendering quote")
	}
	return doc, nil
}

// Filename is the download name of q's document.
func Filename(q Quote) string {
	return "quote-" + q.Number + ".pdf"
}
