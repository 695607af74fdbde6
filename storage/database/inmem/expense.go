package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/expense"
)

var expenseComparers = map[string]func(a, b expense.Expense) int{
	"description": func(a, b expense.Expense) int { return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description)) },
	"category":    func(a, b expense.Expense) int { return strings.Compare(a.Category, b.Category) },
	"amount":      func(a, b expense.Expense) int { return a.Amount.Cmp(b.Amount) },
	"spent_on":    func(a, b expense.Expense) int { return a.SpentOn.Compare(b.SpentOn.Time) },
	"created_at":  func(a, b expense.Expense) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

type expenseRepository struct {
	db *DB
}

var _ expense.Repository = (*expenseRepository)(nil) // interface compliance check

func NewExpenseRepository(db *DB) *expenseRepository {
	return &expenseRepository{db: db}
}

func (repo *expenseRepository) CreateExpense(ctx context.Context, e expense.Expense, exec ...core.DBExecutor) (expense.Expense, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	e.ID = uuid.New().String()
	repo.db.expenses[e.ID] = e
	return e, nil
}

func (repo *expenseRepository) QueryExpenses(
	ctx context.Context,
	filter *expense.QueryFilter,
	ordering []core.DBOrdering,
	page *core.Pagination,
	exec ...core.DBExecutor,
) ([]expense.Expense, expense.Totals, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	expenses := make([]expense.Expense, 0)
	totals := expense.Totals{}
	for _, e := range repo.db.expenses {
		if filter.Match(e) {
			expenses = append(expenses, e)
			totals.Amount = totals.Amount.Add(e.Amount)
		}
	}
	totals.Count = len(expenses)
	totals.Amount = totals.Amount.Round(2)
	sortRecords(expenses, ordering, expenseComparers)
	return paginate(expenses, page), totals, nil
}

func (repo *expenseRepository) GetExpenseByID(ctx context.Context, id string, exec ...core.DBExecutor) (expense.Expense, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if e, ok := repo.db.expenses[id]; ok {
		return e, nil
	}
	return expense.Expense{}, expense.ErrNotFound
}

func (repo *expenseRepository) UpdateExpense(ctx context.Context, e expense.Expense, exec ...core.DBExecutor) (expense.Expense, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.expenses[e.ID]; !ok {
		return expense.Expense{}, expense.ErrNotFound
	}
	repo.db.expenses[e.ID] = e
	return e, nil
}

func (repo *expenseRepository) DeleteExpensesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.expenses, id)
	}
	return nil
}
