package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/employee"
)

const employeeColumns = `id, name, document_id, phone, email, position, salary, hire_date, is_active, created_at, updated_at`

type employeeRow struct {
	ID         string          `db:"id"`
	Name       string          `db:"name"`
	DocumentID string          `db:"document_id"`
	Phone      null.String     `db:"phone"`
	Email      null.String     `db:"email"`
	Position   string          `db:"position"`
	Salary     decimal.Decimal `db:"salary"`
	HireDate   null.Time       `db:"hire_date"`
	IsActive   bool            `db:"is_active"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

type employeeRepository struct {
	exec core.DBExecutor
}

var _ employee.Repository = (*employeeRepository)(nil) // interface compliance check

func NewEmployeeRepository(exec core.DBExecutor) *employeeRepository {
	return &employeeRepository{exec: exec}
}

func (repo employeeRepository) toRow(e employee.Employee) employeeRow {
	return employeeRow{
		ID:         e.ID,
		Name:       e.Name,
		DocumentID: e.DocumentID,
		Phone:      null.NewString(e.Phone, e.Phone != ""),
		Email:      null.NewString(e.Email, e.Email != ""),
		Position:   e.Position,
		Salary:     e.Salary,
		HireDate:   null.NewTime(e.HireDate.Time, !e.HireDate.IsZero()),
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt.UTC(),
		UpdatedAt:  e.UpdatedAt.UTC(),
	}
}

func (repo employeeRepository) fromRow(row employeeRow) employee.Employee {
	e := employee.Employee{
		ID:         row.ID,
		Name:       row.Name,
		DocumentID: row.DocumentID,
		Phone:      row.Phone.String,
		Email:      row.Email.String,
		Position:   row.Position,
		Salary:     row.Salary,
		IsActive:   row.IsActive,
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
	if row.HireDate.Valid {
		e.HireDate = core.DateOf(row.HireDate.Time)
	}
	return e
}

func (repo employeeRepository) CheckDocumentUniqueness(ctx context.Context, documentID string, excludedIDs []string, exec ...core.DBExecutor) error {
	var w where
	w.add("document_id = ?", documentID)
	if excludedIDs = validIDs(excludedIDs); len(excludedIDs) > 0 {
		clause, args, err := sqlx.In("id NOT IN (?)", excludedIDs)
		if err != nil {
			return errors.Wrap(err, "checking employee uniqueness")
		}
		w.add(clause, args...)
	}

	exe := getExec(repo.exec, exec)
	var found bool
	q := exe.Rebind("SELECT EXISTS (SELECT 1 FROM employee" + w.String() + ")")
	if err := sqlx.GetContext(ctx, exe, &found, q, w.args...); err != nil {
		return errors.Wrap(err, "checking employee uniqueness")
	}
	if found {
		return employee.ErrDocumentExists
	}
	return nil
}

func (repo employeeRepository) CreateEmployee(ctx context.Context, e employee.Employee, exec ...core.DBExecutor) (employee.Employee, error) {
	e.ID = uuid.New().String()
	q := `INSERT INTO employee (` + employeeColumns + `) VALUES (
		:id, :name, :document_id, :phone, :email, :position, :salary, :hire_date, :is_active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.exec, exec), q, repo.toRow(e)); err != nil {
		if isUniqueViolation(err, "") {
			return employee.Employee{}, employee.ErrDocumentExists
		}
		return employee.Employee{}, errors.Wrap(err, "inserting employee")
	}
	return e, nil
}

func (repo employeeRepository) QueryEmployees(
	ctx context.Context,
	filter *employee.QueryFilter,
	ordering []core.DBOrdering,
	page *core.Pagination,
	exec ...core.DBExecutor,
) ([]employee.Employee, int, error) {
	var w where
	if filter != nil {
		w.search(filter.Search, "name", "document_id", "email")
		w.in("position", filter.Positions)
		if filter.IsActive != nil {
			w.add("is_active = ?", *filter.IsActive)
		}
	}

	var (
		rows  []employeeRow
		count int
	)
	err := selectPage(ctx, getExec(repo.exec, exec), &rows, &count,
		"SELECT "+employeeColumns+" FROM employee", "SELECT COUNT(*) FROM employee", &w, ordering, page)
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying employees")
	}

	employees := make([]employee.Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, repo.fromRow(row))
	}
	return employees, count, nil
}

func (repo employeeRepository) GetEmployeeByID(ctx context.Context, id string, exec ...core.DBExecutor) (employee.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return employee.Employee{}, employee.ErrNotFound
	}
	exe := getExec(repo.exec, exec)
	var row employeeRow
	q := exe.Rebind("SELECT " + employeeColumns + " FROM employee WHERE id = ?")
	if err := sqlx.GetContext(ctx, exe, &row, q, id); err != nil {
		return employee.Employee{}, trapNoRowsErr(err, employee.ErrNotFound, "getting employee")
	}
	return repo.fromRow(row), nil
}

func (repo employeeRepository) UpdateEmployee(ctx context.Context, e employee.Employee, exec ...core.DBExecutor) (employee.Employee, error) {
	q := `UPDATE employee SET
		name = :name, document_id = :document_id, phone = :phone, email = :email, position = :position,
		salary = :salary, hire_date = :hire_date, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, getExec(repo.exec, exec), q, repo.toRow(e))
	if err != nil {
		if isUniqueViolation(err, "") {
			return employee.Employee{}, employee.ErrDocumentExists
		}
		return employee.Employee{}, errors.Wrap(err, "updating employee")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return employee.Employee{}, employee.ErrNotFound
	}
	return e, nil
}

func (repo employeeRepository) DeleteEmployeesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	if ids = validIDs(ids); len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM employee WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "deleting employees")
	}
	exe := getExec(repo.exec, exec)
	if _, err = exe.ExecContext(ctx, exe.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting employees")
	}
	return nil
}
