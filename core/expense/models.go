package expense

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
)

// Categories
const (
	CategoryEquipment   = "equipment"
	CategoryFuel        = "fuel"
	CategorySalaries    = "salaries"
	CategoryUtilities   = "utilities"
	CategoryRent        = "rent"
	CategoryMaintenance = "maintenance"
	CategoryOther       = "other"
)

var (
	Categories = []string{
		CategoryEquipment, CategoryFuel, CategorySalaries, CategoryUtilities,
		CategoryRent, CategoryMaintenance, CategoryOther,
	}

	Orderings = map[string]string{
		"description": "description",
		"category":    "category",
		"amount":      "amount",
		"spent_on":    "spent_on",
		"created_at":  "created_at",
	}
	defaultOrdering = []core.DBOrdering{{Field: "spent_on", Ascending: false}}
)

type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	SpentOn     core.Date       `json:"spent_on"`
	EmployeeID  string          `json:"employee_id"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"` // UTC
	UpdatedAt   time.Time       `json:"updated_at"` // UTC
}

// NewExpense contains information needed to record an Expense. SpentOn defaults to today.
type NewExpense struct {
	Description string          `json:"description" validate:"required,notblank"`
	Category    string          `json:"category" validate:"required,oneof=equipment fuel salaries utilities rent maintenance other"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	SpentOn     core.Date       `json:"spent_on"`
	EmployeeID  string          `json:"employee_id"`
	Notes       string          `json:"notes"`
}

func (ne *NewExpense) Validate(ctx context.Context, svc *Service) error {
	ne.Description = core.CleanString(ne.Description)
	ne.Category = core.CleanString(ne.Category, true /* lower */)
	ne.EmployeeID = core.CleanString(ne.EmployeeID)
	ne.Notes = core.CleanString(ne.Notes)

	if err := core.Validate.Struct(ne); err != nil {
		return err
	}
	return svc.checkEmployee(ctx, ne.EmployeeID)
}

// UpdateExpense defines what information may be provided to modify an existing Expense.
type UpdateExpense struct {
	Description *string          `json:"description" validate:"omitempty,notblank"`
	Category    *string          `json:"category" validate:"omitempty,oneof=equipment fuel salaries utilities rent maintenance other"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,gt=0"`
	SpentOn     *core.Date       `json:"spent_on"`
	EmployeeID  *string          `json:"employee_id"`
	Notes       *string          `json:"notes"`
}

func (ue *UpdateExpense) Validate(ctx context.Context, svc *Service) error {
	for _, s := range []*string{ue.Description, ue.EmployeeID, ue.Notes} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	if ue.Category != nil {
		*ue.Category = core.CleanString(*ue.Category, true /* lower */)
	}

	if err := core.Validate.Struct(ue); err != nil {
		return err
	}
	if ue.EmployeeID != nil {
		return svc.checkEmployee(ctx, *ue.EmployeeID)
	}
	return nil
}

func (ue UpdateExpense) apply(orig Expense) Expense {
	e := orig
	if ue.Description != nil {
		e.Description = *ue.Description
	}
	if ue.Category != nil {
		e.Category = *ue.Category
	}
	if ue.Amount != nil {
		e.Amount = ue.Amount.Round(2)
	}
	if ue.SpentOn != nil && !ue.SpentOn.IsZero() {
		e.SpentOn = *ue.SpentOn
	}
	if ue.EmployeeID != nil {
		e.EmployeeID = *ue.EmployeeID
	}
	if ue.Notes != nil {
		e.Notes = *ue.Notes
	}
	return e
}

type QueryFilter struct {
	Search     string    `query:"search"`
	Categories []string  `query:"category"`
	EmployeeID string    `query:"employee"`
	SpentFrom  core.Date `query:"spent_from"`
	SpentTo    core.Date `query:"spent_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Categories == nil && qf.EmployeeID == "" && qf.SpentFrom.IsZero() && qf.SpentTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.EmployeeID = core.CleanString(qf.EmployeeID)
}

func (qf *QueryFilter) Match(e Expense) bool {
	if qf == nil {
		return true
	}
	if qf.Search != "" && !core.ContainsFold(qf.Search, e.Description, e.Notes) {
		return false
	}
	if len(qf.Categories) > 0 && !core.StringIn(e.Category, qf.Categories) {
		return false
	}
	if qf.EmployeeID != "" && e.EmployeeID != qf.EmployeeID {
		return false
	}
	if !qf.SpentFrom.IsZero() && e.SpentOn.Before(qf.SpentFrom.Time) {
		return false
	}
	if !qf.SpentTo.IsZero() && e.SpentOn.After(qf.SpentTo.Time) {
		return false
	}
	return true
}

type Totals struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is the spending of one period, per category.
type Summary struct {
	Period     core.Period                `json:"period"`
	Total      decimal.Decimal            `json:"total"`
	Count      int                        `json:"count"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
}

type SummaryFilter struct {
	Period core.Period `query:"period"`
}

var errUnknownEmployee = errors.New("employee not found")
