package quote

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
)

var (
	Orderings = map[string]string{
		"number":      "number",
		"client_name": "client_name",
		"total":       "total",
		"valid_until": "valid_until",
		"created_at":  "created_at",
	}
	defaultOrdering = []core.DBOrdering{{Field: "created_at", Ascending: false}}

	hundred = decimal.NewFromInt(100)
)

type Item struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type Quote struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	CustomerID     string          `json:"customer_id"`
	ClientName     string          `json:"client_name"`
	ClientPhone    string          `json:"client_phone"`
	ClientEmail    string          `json:"client_email"`
	ClientAddress  string          `json:"client_address"`
	Items          []Item          `json:"items"`
	DiscountPct    decimal.Decimal `json:"discount_pct"`
	TaxPct         decimal.Decimal `json:"tax_pct"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	Notes          string          `json:"notes"`
	ValidUntil     core.Date       `json:"valid_until"`
	CreatedAt      time.Time       `json:"created_at"` // UTC
	UpdatedAt      time.Time       `json:"updated_at"` // UTC
}

// ComputeTotals prices the items and fills in every amount, rounded to cents:
//
//	subtotal = Σ quantity × unit price
//	discount = subtotal × discount%
//	tax      = (subtotal − discount) × tax%
//	total    = subtotal − discount + tax
func (q *Quote) ComputeTotals() {
	subtotal := decimal.Zero
	for i := range q.Items {
		item := &q.Items[i]
		item.LineTotal = item.Quantity.Mul(item.UnitPrice).Round(2)
		subtotal = subtotal.Add(item.LineTotal)
	}
	q.Subtotal = subtotal.Round(2)
	q.DiscountAmount = q.Subtotal.Mul(q.DiscountPct).Div(hundred).Round(2)
	taxable := q.Subtotal.Sub(q.DiscountAmount)
	q.TaxAmount = taxable.Mul(q.TaxPct).Div(hundred).Round(2)
	q.Total = taxable.Add(q.TaxAmount).Round(2)
}

// Expired reports whether the quote is no longer valid on day.
func (q Quote) Expired(day core.Date) bool {
	return !q.ValidUntil.IsZero() && day.After(q.ValidUntil.Time)
}

type NewItem struct {
	Description string          `json:"description" validate:"required,notblank"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// NewQuote contains information needed to create a Quote.
// The client fields are copied from the customer when CustomerID is given and they are empty.
type NewQuote struct {
	CustomerID    string          `json:"customer_id"`
	ClientName    string          `json:"client_name" validate:"required_without=CustomerID"`
	ClientPhone   string          `json:"client_phone"`
	ClientEmail   string          `json:"client_email" validate:"omitempty,email"`
	ClientAddress string          `json:"client_address"`
	Items         []NewItem       `json:"items" validate:"required,min=1,dive"`
	DiscountPct   decimal.Decimal `json:"discount_pct" validate:"gte=0,lte=100"`
	TaxPct        decimal.Decimal `json:"tax_pct" validate:"gte=0,lte=100"`
	Notes         string          `json:"notes"`
	ValidUntil    core.Date       `json:"valid_until"`
}

func cleanItems(items []NewItem) {
	for i := range items {
		items[i].Description = core.CleanString(items[i].Description)
	}
}

func (nq *NewQuote) Validate(ctx context.Context, svc *Service) error {
	nq.CustomerID = core.CleanString(nq.CustomerID)
	nq.ClientName = core.CleanString(nq.ClientName)
	nq.ClientPhone = core.CleanString(nq.ClientPhone)
	nq.ClientEmail = core.CleanString(nq.ClientEmail, true /* lower */)
	nq.ClientAddress = core.CleanString(nq.ClientAddress)
	nq.Notes = core.CleanString(nq.Notes)
	cleanItems(nq.Items)

	if err := core.Validate.Struct(nq); err != nil {
		return err
	}
	return svc.checkCustomer(ctx, nq.CustomerID)
}

// UpdateQuote defines what information may be provided to modify an existing Quote.
// Items, when given, replace every item.
type UpdateQuote struct {
	CustomerID    *string          `json:"customer_id"`
	ClientName    *string          `json:"client_name" validate:"omitempty,notblank"`
	ClientPhone   *string          `json:"client_phone"`
	ClientEmail   *string          `json:"client_email" validate:"omitempty,email"`
	ClientAddress *string          `json:"client_address"`
	Items         []NewItem        `json:"items" validate:"omitempty,min=1,dive"`
	DiscountPct   *decimal.Decimal `json:"discount_pct" validate:"omitempty,gte=0,lte=100"`
	TaxPct        *decimal.Decimal `json:"tax_pct" validate:"omitempty,gte=0,lte=100"`
	Notes         *string          `json:"notes"`
	ValidUntil    *core.Date       `json:"valid_until"`
}

func (uq *UpdateQuote) Validate(ctx context.Context, svc *Service) error {
	for _, s := range []*string{uq.CustomerID, uq.ClientName, uq.ClientPhone, uq.ClientAddress, uq.Notes} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	if uq.ClientEmail != nil {
		*uq.ClientEmail = core.CleanString(*uq.ClientEmail, true /* lower */)
	}
	cleanItems(uq.Items)

	if err := core.Validate.Struct(uq); err != nil {
		return err
	}
	if uq.CustomerID != nil {
		return svc.checkCustomer(ctx, *uq.CustomerID)
	}
	return nil
}

// toItems rounds quantities and prices to the scale they are stored with.
func toItems(items []NewItem) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, Item{
			Description: it.Description,
			Quantity:    it.Quantity.Round(2),
			UnitPrice:   it.UnitPrice.Round(2),
		})
	}
	return out
}

func (uq UpdateQuote) apply(orig Quote) Quote {
	q := orig
	if uq.CustomerID != nil {
		q.CustomerID = *uq.CustomerID
	}
	if uq.ClientName != nil {
		q.ClientName = *uq.ClientName
	}
	if uq.ClientPhone != nil {
		q.ClientPhone = *uq.ClientPhone
	}
	if uq.ClientEmail != nil {
		q.ClientEmail = *uq.ClientEmail
	}
	if uq.ClientAddress != nil {
		q.ClientAddress = *uq.ClientAddress
	}
	if uq.Items != nil {
		q.Items = toItems(uq.Items)
	}
	if uq.DiscountPct != nil {
		q.DiscountPct = *uq.DiscountPct
	}
	if uq.TaxPct != nil {
		q.TaxPct = *uq.TaxPct
	}
	if uq.Notes != nil {
		q.Notes = *uq.Notes
	}
	if uq.ValidUntil != nil {
		q.ValidUntil = *uq.ValidUntil
	}
	q.ComputeTotals()
	return q
}

type QueryFilter struct {
	Search      string    `query:"search"`
	CustomerID  string    `query:"customer"`
	CreatedFrom core.Date `query:"created_from"`
	CreatedTo   core.Date `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.CustomerID == "" && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CustomerID = core.CleanString(qf.CustomerID)
}

func (qf *QueryFilter) Match(q Quote) bool {
	if qf == nil {
		return true
	}
	if qf.Search != "" && !core.ContainsFold(qf.Search, q.Number, q.ClientName) {
		return false
	}
	if qf.CustomerID != "" && q.CustomerID != qf.CustomerID {
		return false
	}
	if !qf.CreatedFrom.IsZero() && q.CreatedAt.Before(qf.CreatedFrom.Time) {
		return false
	}
	if !qf.CreatedTo.IsZero() && !q.CreatedAt.Before(qf.CreatedTo.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// Renderer renders quotes as documents, e.g. PDF.
type Renderer interface {
	RenderQuote(q Quote) ([]byte, error)
}

var errUnknownCustomer = errors.New("customer not found")
