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
	"github.com/onnetwireless/dashboard/core/expense"
)

const expenseColumns = `id, description, category, amount, spent_on, employee_id, notes, created_at, updated_at`

type expenseRow struct {
	ID          string          `db:"id"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	Amount      decimal.Decimal `db:"amount"`
	SpentOn     time.Time       `db:"spent_on"`
	EmployeeID  null.String     `db:"employee_id"`
	Notes       null.String     `db:"notes"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type expenseRepository struct {
	exec core.DBExecutor
}

var _ expense.Repository = (*expenseRepository)(nil) // interface compliance check

func NewExpenseRepository(exec core.DBExecutor) *expenseRepository {
	return &expenseRepository{exec: exec}
}

func (repo expenseRepository) toRow(e expense.Expense) expenseRow {
	return expenseRow{
		ID:          e.ID,
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount,
		SpentOn:     e.SpentOn.Time,
		EmployeeID:  null.NewString(e.EmployeeID, e.EmployeeID != ""),
		Notes:       null.NewString(e.Notes, e.Notes != ""),
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

func (repo expenseRepository) fromRow(row expenseRow) expense.Expense {
	return expense.Expense{
		ID:          row.ID,
		Description: row.Description,
		Category:    row.Category,
		Amount:      row.Amount,
		SpentOn:     core.DateOf(row.SpentOn),
		EmployeeID:  row.EmployeeID.String,
		Notes:       row.Notes.String,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func (repo expenseRepository) CreateExpense(ctx context.Context, e expense.Expense, exec ...core.DBExecutor) (expense.Expense, error) {
	e.ID = uuid.New().String()
	q := `INSERT INTO expense (` + expenseColumns + `) VALUES (
		:id, :description, :category, :amount, :spent_on, :employee_id, :notes, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.exec, exec), q, repo.toRow(e)); err != nil {
		return expense.Expense{}, errors.Wrap(err, "inserting expense")
	}
	return e, nil
}

func (repo expenseRepository) QueryExpenses(
	ctx context.Context,
	filter *expense.QueryFilter,
	ordering []core.DBOrdering,
	page *core.Pagination,
	exec ...core.DBExecutor,
) ([]expense.Expense, expense.Totals, error) {
	var w where
	if filter != nil {
		w.search(filter.Search, "description", "notes")
		w.in("category", filter.Categories)
		if filter.EmployeeID != "" {
			w.add("employee_id::text = ?", filter.EmployeeID)
		}
		if !filter.SpentFrom.IsZero() {
			w.add("spent_on >= ?", filter.SpentFrom.Time)
		}
		if !filter.SpentTo.IsZero() {
			w.add("spent_on <= ?", filter.SpentTo.Time)
		}
	}

	var (
		rows   []expenseRow
		totals totalsRow
	)
	err := selectPage(ctx, getExec(repo.exec, exec), &rows, &totals,
		"SELECT "+expenseColumns+" FROM expense",
		"SELECT COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount FROM expense",
		&w, ordering, page)
	if err != nil {
		return nil, expense.Totals{}, errors.Wrap(err, "querying expenses")
	}

	expenses := make([]expense.Expense, 0, len(rows))
	for _, row := range rows {
		expenses = append(expenses, repo.fromRow(row))
	}
	return expenses, expense.Totals{Count: totals.Count, Amount: totals.Amount.Round(2)}, nil
}

func (repo expenseRepository) GetExpenseByID(ctx context.Context, id string, exec ...core.DBExecutor) (expense.Expense, error) {
	if _, err := uuid.Parse(id); err != nil {
		return expense.Expense{}, expense.ErrNotFound
	}
	exe := getExec(repo.exec, exec)
	var row expenseRow
	q := exe.Rebind("SELECT " + expenseColumns + " FROM expense WHERE id = ?")
	if err := sqlx.GetContext(ctx, exe, &row, q, id); err != nil {
		return expense.Expense{}, trapNoRowsErr(err, expense.ErrNotFound, "getting expense")
	}
	return repo.fromRow(row), nil
}

func (repo expenseRepository) UpdateExpense(ctx context.Context, e expense.Expense, exec ...core.DBExecutor) (expense.Expense, error) {
	q := `UPDATE expense SET
		description = :description, category = :category, amount = :amount, spent_on = :spent_on,
		employee_id = :employee_id, notes = :notes, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, getExec(repo.exec, exec), q, repo.toRow(e))
	if err != nil {
		return expense.Expense{}, errors.Wrap(err, "updating expense")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return expense.Expense{}, expense.ErrNotFound
	}
	return e, nil
}

func (repo expenseRepository) DeleteExpensesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	if ids = validIDs(ids); len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM expense WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "deleting expenses")
	}
	exe := getExec(repo.exec, exec)
	if _, err = exe.ExecContext(ctx, exe.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting expenses")
	}
	return nil
}
