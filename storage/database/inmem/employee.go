package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/employee"
)

var employeeComparers = map[string]func(a, b employee.Employee) int{
	"name":        func(a, b employee.Employee) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
	"document_id": func(a, b employee.Employee) int { return strings.Compare(a.DocumentID, b.DocumentID) },
	"position":    func(a, b employee.Employee) int { return strings.Compare(a.Position, b.Position) },
	"salary":      func(a, b employee.Employee) int { return a.Salary.Cmp(b.Salary) },
	"hire_date":   func(a, b employee.Employee) int { return a.HireDate.Compare(b.HireDate.Time) },
	"created_at":  func(a, b employee.Employee) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

type employeeRepository struct {
	db *DB
}

var _ employee.Repository = (*employeeRepository)(nil) // interface compliance check

func NewEmployeeRepository(db *DB) *employeeRepository {
	return &employeeRepository{db: db}
}

func (repo *employeeRepository) CheckDocumentUniqueness(ctx context.Context, documentID string, excludedIDs []string, exec ...core.DBExecutor) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.checkDocument(documentID, excludedIDs...)
}

func (repo *employeeRepository) checkDocument(documentID string, excludedIDs ...string) error {
	for _, e := range repo.db.employees {
		if e.DocumentID == documentID && !core.StringIn(e.ID, excludedIDs) {
			return employee.ErrDocumentExists
		}
	}
	return nil
}

func (repo *employeeRepository) CreateEmployee(ctx context.Context, e employee.Employee, exec ...core.DBExecutor) (employee.Employee, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.checkDocument(e.DocumentID); err != nil {
		return employee.Employee{}, err
	}
	e.ID = uuid.New().String()
	repo.db.employees[e.ID] = e
	return e, nil
}

func (repo *employeeRepository) QueryEmployees(
	ctx context.Context,
	filter *employee.QueryFilter,
	ordering []core.DBOrdering,
	page *core.Pagination,
	exec ...core.DBExecutor,
) ([]employee.Employee, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	employees := make([]employee.Employee, 0)
	for _, e := range repo.db.employees {
		if filter.Match(e) {
			employees = append(employees, e)
		}
	}
	sortRecords(employees, ordering, employeeComparers)
	return paginate(employees, page), len(employees), nil
}

func (repo *employeeRepository) GetEmployeeByID(ctx context.Context, id string, exec ...core.DBExecutor) (employee.Employee, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if e, ok := repo.db.employees[id]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (repo *employeeRepository) UpdateEmployee(ctx context.Context, e employee.Employee, exec ...core.DBExecutor) (employee.Employee, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.employees[e.ID]; !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	if err := repo.checkDocument(e.DocumentID, e.ID); err != nil {
		return employee.Employee{}, err
	}
	repo.db.employees[e.ID] = e
	return e, nil
}

// DeleteEmployeesByID detaches their payments and expenses.
func (repo *employeeRepository) DeleteEmployeesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.employees, id)
	}
	for id, p := range repo.db.payments {
		if core.StringIn(p.EmployeeID, ids) {
			p.EmployeeID = ""
			repo.db.payments[id] = p
		}
	}
	for id, e := range repo.db.expenses {
		if core.StringIn(e.EmployeeID, ids) {
			e.EmployeeID = ""
			repo.db.expenses[id] = e
		}
	}
	return nil
}
