package employee

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/onnetwireless/dashboard/core"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("employee not found")
	ErrDocumentExists = errors.New("an employee with this document id already exists")
)

type (
	Repository interface {
		CheckDocumentUniqueness(ctx context.Context, documentID string, excludedIDs []string, exec ...core.DBExecutor) error
		CreateEmployee(ctx context.Context, e Employee, exec ...core.DBExecutor) (Employee, error)
		// QueryEmployees applies AND operation on available QueryFilter fields and returns the total count of matches.
		// QueryFilter.Search does a case-insensitive match on one of Name, DocumentID or Email.
		QueryEmployees(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page *core.Pagination, exec ...core.DBExecutor) ([]Employee, int, error)
		GetEmployeeByID(ctx context.Context, id string, exec ...core.DBExecutor) (Employee, error)
		UpdateEmployee(ctx context.Context, e Employee, exec ...core.DBExecutor) (Employee, error)
		DeleteEmployeesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, log: logger}
}

func (svc *Service) checkUniqueness(ctx context.Context, documentID string, excludedIDs ...string) error {
	if err := svc.repo.CheckDocumentUniqueness(ctx, documentID, excludedIDs); err != nil {
		if errors.Cause(err) == ErrDocumentExists {
			return core.NewValidationError(err, core.FieldError{Field: "document_id", Error: err.Error()})
		}
		return errors.Wrap(err, "checking employee uniqueness")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ne NewEmployee) (Employee, error) {
	now := time.Now().UTC()
	e := Employee{
		Name:       ne.Name,
		DocumentID: ne.DocumentID,
		Phone:      ne.Phone,
		Email:      ne.Email,
		Position:   ne.Position,
		Salary:     ne.Salary.Round(2),
		HireDate:   ne.HireDate,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	e, err := svc.repo.CreateEmployee(ctx, e)
	if err != nil {
		if errors.Cause(err) == ErrDocumentExists {
			return Employee{}, core.NewValidationError(err, core.FieldError{Field: "document_id", Error: err.Error()})
		}
		return Employee{}, errors.Wrap(err, "creating employee")
	}
	return e, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, page *core.Pagination) ([]Employee, int, error) {
	if filter != nil {
		filter.Clean()
	}
	ordering = core.MapOrdering(ordering, Orderings)
	if len(ordering) == 0 {
		ordering = defaultOrdering
	}
	return svc.repo.QueryEmployees(ctx, filter, ordering, page)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Employee, error) {
	return svc.repo.GetEmployeeByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Employee, ue UpdateEmployee) (Employee, error) {
	e := ue.apply(orig)
	e.UpdatedAt = time.Now().UTC()

	e, err := svc.repo.UpdateEmployee(ctx, e)
	if err != nil {
		if errors.Cause(err) == ErrDocumentExists {
			return Employee{}, core.NewValidationError(err, core.FieldError{Field: "document_id", Error: err.Error()})
		}
		return Employee{}, errors.Wrap(err, "updating employee")
	}
	return e, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	if err := svc.repo.DeleteEmployeesByID(ctx, ids); err != nil {
		return errors.Wrap(err, "deleting employees")
	}
	return nil
}
