package employee

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
)

// Positions
const (
	PositionTechnician    = "technician"
	PositionCashier       = "cashier"
	PositionInstaller     = "installer"
	PositionAdministrator = "administrator"
)

var (
	Positions = []string{PositionTechnician, PositionCashier, PositionInstaller, PositionAdministrator}

	Orderings = map[string]string{
		"name":        "name",
		"document_id": "document_id",
		"position":    "position",
		"salary":      "salary",
		"hire_date":   "hire_date",
		"created_at":  "created_at",
	}
	defaultOrdering = []core.DBOrdering{{Field: "name", Ascending: true}}
)

type Employee struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	DocumentID string          `json:"document_id"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	Position   string          `json:"position"`
	Salary     decimal.Decimal `json:"salary"`
	HireDate   core.Date       `json:"hire_date"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"` // UTC
	UpdatedAt  time.Time       `json:"updated_at"` // UTC
}

// NewEmployee contains information needed to create a new Employee.
type NewEmployee struct {
	Name       string          `json:"name" validate:"required,notblank"`
	DocumentID string          `json:"document_id" validate:"required,notblank"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email" validate:"omitempty,email"`
	Position   string          `json:"position" validate:"required,oneof=technician cashier installer administrator"`
	Salary     decimal.Decimal `json:"salary" validate:"gte=0"`
	HireDate   core.Date       `json:"hire_date"`
}

func (ne *NewEmployee) Validate(ctx context.Context, svc *Service) error {
	ne.Name = core.CleanString(ne.Name)
	ne.DocumentID = core.CleanString(ne.DocumentID)
	ne.Phone = core.CleanString(ne.Phone)
	ne.Email = core.CleanString(ne.Email, true /* lower */)
	ne.Position = core.CleanString(ne.Position, true /* lower */)

	if err := core.Validate.Struct(ne); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, ne.DocumentID)
}

// UpdateEmployee defines what information may be provided to modify an existing Employee.
type UpdateEmployee struct {
	Name       *string          `json:"name" validate:"omitempty,notblank"`
	DocumentID *string          `json:"document_id" validate:"omitempty,notblank"`
	Phone      *string          `json:"phone"`
	Email      *string          `json:"email" validate:"omitempty,email"`
	Position   *string          `json:"position" validate:"omitempty,oneof=technician cashier installer administrator"`
	Salary     *decimal.Decimal `json:"salary" validate:"omitempty,gte=0"`
	HireDate   *core.Date       `json:"hire_date"`
	IsActive   *bool            `json:"is_active"`
}

func (ue *UpdateEmployee) Validate(ctx context.Context, orig Employee, svc *Service) error {
	for _, s := range []*string{ue.Name, ue.DocumentID, ue.Phone} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	if ue.Email != nil {
		*ue.Email = core.CleanString(*ue.Email, true /* lower */)
	}
	if ue.Position != nil {
		*ue.Position = core.CleanString(*ue.Position, true /* lower */)
	}

	if err := core.Validate.Struct(ue); err != nil {
		return err
	}
	if ue.DocumentID != nil && *ue.DocumentID != orig.DocumentID {
		return svc.checkUniqueness(ctx, *ue.DocumentID, orig.ID)
	}
	return nil
}

func (ue UpdateEmployee) apply(orig Employee) Employee {
	e := orig
	if ue.Name != nil {
		e.Name = *ue.Name
	}
	if ue.DocumentID != nil {
		e.DocumentID = *ue.DocumentID
	}
	if ue.Phone != nil {
		e.Phone = *ue.Phone
	}
	if ue.Email != nil {
		e.Email = *ue.Email
	}
	if ue.Position != nil {
		e.Position = *ue.Position
	}
	if ue.Salary != nil {
		e.Salary = ue.Salary.Round(2)
	}
	if ue.HireDate != nil {
		e.HireDate = *ue.HireDate
	}
	if ue.IsActive != nil {
		e.IsActive = *ue.IsActive
	}
	return e
}

type QueryFilter struct {
	Search    string   `query:"search"`
	Positions []string `query:"position"`
	IsActive  *bool    `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Positions == nil && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

func (qf *QueryFilter) Match(e Employee) bool {
	if qf == nil {
		return true
	}
	if qf.Search != "" && !core.ContainsFold(qf.Search, e.Name, e.DocumentID, e.Email) {
		return false
	}
	if len(qf.Positions) > 0 && !core.StringIn(e.Position, qf.Positions) {
		return false
	}
	if qf.IsActive != nil && e.IsActive != *qf.IsActive {
		return false
	}
	return true
}
