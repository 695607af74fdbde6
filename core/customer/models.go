package customer

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
)

// Plans
const (
	PlanInternet = "internet"
	PlanIPTV     = "iptv"
	PlanCombo    = "combo"
)

// Statuses
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusCancelled = "cancelled"
)

var (
	Plans    = []string{PlanInternet, PlanIPTV, PlanCombo}
	Statuses = []string{StatusActive, StatusSuspended, StatusCancelled}

	// Orderings maps the accepted `ordering` fields to their columns.
	Orderings = map[string]string{
		"name":          "name",
		"document_id":   "document_id",
		"plan":          "plan",
		"monthly_fee":   "monthly_fee",
		"payment_day":   "payment_day",
		"billing_start": "billing_start",
		"status":        "status",
		"created_at":    "created_at",
		"updated_at":    "updated_at",
	}
	defaultOrdering = []core.DBOrdering{{Field: "name", Ascending: true}}
)

type Customer struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DocumentID   string          `json:"document_id"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Address      string          `json:"address"`
	Plan         string          `json:"plan"`
	MonthlyFee   decimal.Decimal `json:"monthly_fee"`
	PaymentDay   int             `json:"payment_day"`
	BillingStart core.Date       `json:"billing_start"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes"`
	CancelledAt  *time.Time      `json:"cancelled_at"` // UTC; set while Status is cancelled
	CreatedAt    time.Time       `json:"created_at"`   // UTC
	UpdatedAt    time.Time       `json:"updated_at"`   // UTC
}

func (c Customer) IsActive() bool    { return c.Status == StatusActive }
func (c Customer) IsCancelled() bool { return c.Status == StatusCancelled }

// trackCancellation stamps CancelledAt when c becomes cancelled and clears it when c leaves that status.
// Edits that keep a cancelled customer cancelled leave the original date untouched.
func (c *Customer) trackCancellation(wasCancelled bool, now time.Time) {
	switch {
	case !c.IsCancelled():
		c.CancelledAt = nil
	case !wasCancelled || c.CancelledAt == nil:
		c.CancelledAt = &now
	}
}

// NewCustomer contains information needed to create a new Customer.
type NewCustomer struct {
	Name         string          `json:"name" validate:"required,notblank"`
	DocumentID   string          `json:"document_id" validate:"required,notblank"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email" validate:"omitempty,email"`
	Address      string          `json:"address"`
	Plan         string          `json:"plan" validate:"required,oneof=internet iptv combo"`
	MonthlyFee   decimal.Decimal `json:"monthly_fee" validate:"gt=0"`
	PaymentDay   int             `json:"payment_day" validate:"omitempty,payday"`
	BillingStart core.Date       `json:"billing_start"`
	Status       string          `json:"status" validate:"omitempty,oneof=active suspended cancelled"`
	Notes        string          `json:"notes"`
}

func (nc *NewCustomer) Validate(ctx context.Context, svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.DocumentID = core.CleanString(nc.DocumentID)
	nc.Phone = core.CleanString(nc.Phone)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	nc.Address = core.CleanString(nc.Address)
	nc.Plan = core.CleanString(nc.Plan, true /* lower */)
	nc.Status = core.CleanString(nc.Status, true /* lower */)
	nc.Notes = core.CleanString(nc.Notes)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, nc.DocumentID)
}

// UpdateCustomer defines what information may be provided to modify an existing Customer.
// nil fields are left untouched.
type UpdateCustomer struct {
	Name         *string          `json:"name" validate:"omitempty,notblank"`
	DocumentID   *string          `json:"document_id" validate:"omitempty,notblank"`
	Phone        *string          `json:"phone"`
	Email        *string          `json:"email" validate:"omitempty,email"`
	Address      *string          `json:"address"`
	Plan         *string          `json:"plan" validate:"omitempty,oneof=internet iptv combo"`
	MonthlyFee   *decimal.Decimal `json:"monthly_fee" validate:"omitempty,gt=0"`
	PaymentDay   *int             `json:"payment_day" validate:"omitempty,payday"`
	BillingStart *core.Date       `json:"billing_start"`
	Status       *string          `json:"status" validate:"omitempty,oneof=active suspended cancelled"`
	Notes        *string          `json:"notes"`
}

func cleanPtr(s *string, lower ...bool) {
	if s != nil {
		*s = core.CleanString(*s, lower...)
	}
}

func (uc *UpdateCustomer) Validate(ctx context.Context, orig Customer, svc *Service) error {
	cleanPtr(uc.Name)
	cleanPtr(uc.DocumentID)
	cleanPtr(uc.Phone)
	cleanPtr(uc.Email, true /* lower */)
	cleanPtr(uc.Address)
	cleanPtr(uc.Plan, true /* lower */)
	cleanPtr(uc.Status, true /* lower */)
	cleanPtr(uc.Notes)

	if err := core.Validate.Struct(uc); err != nil {
		return err
	}
	if uc.DocumentID != nil && *uc.DocumentID != orig.DocumentID {
		return svc.checkUniqueness(ctx, *uc.DocumentID, orig.ID)
	}
	return nil
}

// apply returns orig with the provided fields replaced.
func (uc UpdateCustomer) apply(orig Customer) Customer {
	c := orig
	if uc.Name != nil {
		c.Name = *uc.Name
	}
	if uc.DocumentID != nil {
		c.DocumentID = *uc.DocumentID
	}
	if uc.Phone != nil {
		c.Phone = *uc.Phone
	}
	if uc.Email != nil {
		c.Email = *uc.Email
	}
	if uc.Address != nil {
		c.Address = *uc.Address
	}
	if uc.Plan != nil {
		c.Plan = *uc.Plan
	}
	if uc.MonthlyFee != nil {
		c.MonthlyFee = uc.MonthlyFee.Round(2)
	}
	if uc.PaymentDay != nil {
		c.PaymentDay = *uc.PaymentDay
	}
	if uc.BillingStart != nil {
		c.BillingStart = *uc.BillingStart
	}
	if uc.Status != nil {
		c.Status = *uc.Status
	}
	if uc.Notes != nil {
		c.Notes = *uc.Notes
	}
	return c
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Statuses    []string  `query:"status"`
	Plans       []string  `query:"plan"`
	CreatedFrom core.Date `query:"created_from"`
	CreatedTo   core.Date `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Statuses == nil && qf.Plans == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Match reports whether c passes every filter. Used by in-memory listings.
func (qf *QueryFilter) Match(c Customer) bool {
	if qf == nil {
		return true
	}
	if qf.Search != "" && !core.ContainsFold(qf.Search, c.Name, c.DocumentID, c.Phone, c.Email) {
		return false
	}
	if len(qf.Statuses) > 0 && !core.StringIn(c.Status, qf.Statuses) {
		return false
	}
	if len(qf.Plans) > 0 && !core.StringIn(c.Plan, qf.Plans) {
		return false
	}
	if !qf.CreatedFrom.IsZero() && c.CreatedAt.Before(qf.CreatedFrom.Time) {
		return false
	}
	if !qf.CreatedTo.IsZero() && !c.CreatedAt.Before(qf.CreatedTo.AddDate(0, 0, 1)) {
		return false
	}
	return true
}
