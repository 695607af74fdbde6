package expense

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/employee"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("expense not found")
)

type (
	Repository interface {
		CreateExpense(ctx context.Context, e Expense, exec ...core.DBExecutor) (Expense, error)
		// QueryExpenses applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Description or Notes.
		QueryExpenses(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page *core.Pagination, exec ...core.DBExecutor) ([]Expense, Totals, error)
		GetExpenseByID(ctx context.Context, id string, exec ...core.DBExecutor) (Expense, error)
		UpdateExpense(ctx context.Context, e Expense, exec ...core.DBExecutor) (Expense, error)
		DeleteExpensesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo      Repository
		employees *employee.Service
		log       core.Logger
	}
)

func NewService(repo Repository, employees *employee.Service, logger core.Logger) *Service {
	return &Service{repo: repo, employees: employees, log: logger}
}

func (svc *Service) checkEmployee(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := svc.employees.GetByID(ctx, id); err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(errUnknownEmployee, core.FieldError{Field: "employee_id", Error: errUnknownEmployee.Error()})
		}
		return errors.Wrap(err, "getting employee")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ne NewExpense) (Expense, error) {
	now := time.Now().UTC()
	e := Expense{
		Description: ne.Description,
		Category:    ne.Category,
		Amount:      ne.Amount.Round(2),
		SpentOn:     ne.SpentOn,
		EmployeeID:  ne.EmployeeID,
		Notes:       ne.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if e.SpentOn.IsZero() {
		e.SpentOn = core.DateOf(now)
	}

	e, err := svc.repo.CreateExpense(ctx, e)
	if err != nil {
		return Expense{}, errors.Wrap(err, "creating expense")
	}
	return e, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page *core.Pagination) ([]Expense, Totals, error) {
	if filter != nil {
		filter.Clean()
	}
	ordering = core.MapOrdering(ordering, Orderings)
	if len(ordering) == 0 {
		ordering = defaultOrdering
	}
	return svc.repo.QueryExpenses(ctx, filter, ordering, page)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Expense, error) {
	return svc.repo.GetExpenseByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Expense, ue UpdateExpense) (Expense, error) {
	e := ue.apply(orig)
	e.UpdatedAt = time.Now().UTC()

	e, err := svc.repo.UpdateExpense(ctx, e)
	if err != nil {
		return Expense{}, errors.Wrap(err, "updating expense")
	}
	return e, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	if err := svc.repo.DeleteExpensesByID(ctx, ids); err != nil {
		return errors.Wrap(err, "deleting expenses")
	}
	return nil
}

// Summary totals the expenses of period, overall and per category. Every category is listed.
func (svc *Service) Summary(ctx context.Context, period core.Period) (Summary, error) {
	if period.IsZero() {
		period = core.PeriodOf(time.Now())
	}
	filter := &QueryFilter{
		SpentFrom: core.DateOf(period.Start()),
		SpentTo:   core.DateOf(period.End().AddDate(0, 0, -1)),
	}
	expenses, totals, err := svc.repo.QueryExpenses(ctx, filter, defaultOrdering, nil)
	if err != nil {
		return Summary{}, errors.Wrap(err, "querying expenses")
	}
	return Summarize(period, expenses, totals), nil
}

// Summarize groups expenses by category.
func Summarize(period core.Period, expenses []Expense, totals Totals) Summary {
	s := Summary{
		Period:     period,
		Total:      totals.Amount,
		Count:      totals.Count,
		ByCategory: make(map[string]decimal.Decimal, len(Categories)),
	}
	for _, cat := range Categories {
		s.ByCategory[cat] = decimal.Zero
	}
	for _, e := range expenses {
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(e.Amount)
	}
	return s
}
