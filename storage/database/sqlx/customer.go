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
	"github.com/onnetwireless/dashboard/core/customer"
)

const customerColumns = `id, name, document_id, phone, email, address, plan, monthly_fee, payment_day,
	billing_start, status, notes, cancelled_at, created_at, updated_at`

type customerRow struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	DocumentID   string          `db:"document_id"`
	Phone        null.String     `db:"phone"`
	Email        null.String     `db:"email"`
	Address      null.String     `db:"address"`
	Plan         string          `db:"plan"`
	MonthlyFee   decimal.Decimal `db:"monthly_fee"`
	PaymentDay   int             `db:"payment_day"`
	BillingStart time.Time       `db:"billing_start"`
	Status       string          `db:"status"`
	Notes        null.String     `db:"notes"`
	CancelledAt  null.Time       `db:"cancelled_at"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

type customerRepository struct {
	exec core.DBExecutor
}

var _ customer.Repository = (*customerRepository)(nil) // interface compliance check

func NewCustomerRepository(exec core.DBExecutor) *customerRepository {
	return &customerRepository{exec: exec}
}

func (repo customerRepository) toRow(c customer.Customer) customerRow {
	return customerRow{
		ID:           c.ID,
		Name:         c.Name,
		DocumentID:   c.DocumentID,
		Phone:        null.NewString(c.Phone, c.Phone != ""),
		Email:        null.NewString(c.Email, c.Email != ""),
		Address:      null.NewString(c.Address, c.Address != ""),
		Plan:         c.Plan,
		MonthlyFee:   c.MonthlyFee,
		PaymentDay:   c.PaymentDay,
		BillingStart: c.BillingStart.Time,
		Status:       c.Status,
		Notes:        null.NewString(c.Notes, c.Notes != ""),
		CancelledAt:  null.TimeFromPtr(c.CancelledAt),
		CreatedAt:    c.CreatedAt.UTC(),
		UpdatedAt:    c.UpdatedAt.UTC(),
	}
}

func (repo customerRepository) fromRow(row customerRow) customer.Customer {
	return customer.Customer{
		ID:           row.ID,
		Name:         row.Name,
		DocumentID:   row.DocumentID,
		Phone:        row.Phone.String,
		Email:        row.Email.String,
		Address:      row.Address.String,
		Plan:         row.Plan,
		MonthlyFee:   row.MonthlyFee,
		PaymentDay:   row.PaymentDay,
		BillingStart: core.DateOf(row.BillingStart),
		Status:       row.Status,
		Notes:        row.Notes.String,
		CancelledAt:  utcPtr(row.CancelledAt),
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

func (repo customerRepository) CheckDocumentUniqueness(ctx context.Context, documentID string, excludedIDs []string, exec ...core.DBExecutor) error {
	var w where
	w.add("document_id = ?", documentID)
	if excludedIDs = validIDs(excludedIDs); len(excludedIDs) > 0 {
		clause, args, err := sqlx.In("id NOT IN (?)", excludedIDs)
		if err != nil {
			return errors.Wrap(err, "checking customer uniqueness")
		}
		w.add(clause, args...)
	}

	exe := getExec(repo.exec, exec)
	var found bool
	q := exe.Rebind("SELECT EXISTS (SELECT 1 FROM customer" + w.String() + ")")
	if err := sqlx.GetContext(ctx, exe, &found, q, w.args...); err != nil {
		return errors.Wrap(err, "checking customer uniqueness")
	}
	if found {
		return customer.ErrDocumentExists
	}
	return nil
}

func (repo customerRepository) CreateCustomer(ctx context.Context, c customer.Customer, exec ...core.DBExecutor) (customer.Customer, error) {
	c.ID = uuid.New().String()
	q := `INSERT INTO customer (` + customerColumns + `) VALUES (
		:id, :name, :document_id, :phone, :email, :address, :plan, :monthly_fee, :payment_day,
		:billing_start, :status, :notes, :cancelled_at, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.exec, exec), q, repo.toRow(c)); err != nil {
		if isUniqueViolation(err, "") {
			return customer.Customer{}, customer.ErrDocumentExists
		}
		return customer.Customer{}, errors.Wrap(err, "inserting customer")
	}
	return c, nil
}

func (repo customerRepository) QueryCustomers(
	ctx context.Context,
	filter *customer.QueryFilter,
	ordering []core.DBOrdering,
	page *core.Pagination,
	exec ...core.DBExecutor,
) ([]customer.Customer, int, error) {
	var w where
	if filter != nil {
		// customers with Name, DocumentID, Phone or Email matching the search keyword
		w.search(filter.Search, "name", "document_id", "phone", "email")
		w.in("status", filter.Statuses)
		w.in("plan", filter.Plans)
		if !filter.CreatedFrom.IsZero() {
			w.add("created_at >= ?", filter.CreatedFrom.Time)
		}
		if !filter.CreatedTo.IsZero() {
			w.add("created_at < ?", filter.CreatedTo.AddDate(0, 0, 1))
		}
	}

	var (
		rows  []customerRow
		count int
	)
	err := selectPage(ctx, getExec(repo.exec, exec), &rows, &count,
		"SELECT "+customerColumns+" FROM customer", "SELECT COUNT(*) FROM customer", &w, ordering, page)
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying customers")
	}

	customers := make([]customer.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, repo.fromRow(row))
	}
	return customers, count, nil
}

func (repo customerRepository) GetCustomerByID(ctx context.Context, id string, exec ...core.DBExecutor) (customer.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return customer.Customer{}, customer.ErrNotFound
	}
	exe := getExec(repo.exec, exec)
	var row customerRow
	q := exe.Rebind("SELECT " + customerColumns + " FROM customer WHERE id = ?")
	if err := sqlx.GetContext(ctx, exe, &row, q, id); err != nil {
		return customer.Customer{}, trapNoRowsErr(err, customer.ErrNotFound, "getting customer")
	}
	return repo.fromRow(row), nil
}

func (repo customerRepository) UpdateCustomer(ctx context.Context, c customer.Customer, exec ...core.DBExecutor) (customer.Customer, error) {
	q := `UPDATE customer SET
		name = :name, document_id = :document_id, phone = :phone, email = :email, address = :address,
		plan = :plan, monthly_fee = :monthly_fee, payment_day = :payment_day, billing_start = :billing_start,
		status = :status, notes = :notes, cancelled_at = :cancelled_at, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, getExec(repo.exec, exec), q, repo.toRow(c))
	if err != nil {
		if isUniqueViolation(err, "") {
			return customer.Customer{}, customer.ErrDocumentExists
		}
		return customer.Customer{}, errors.Wrap(err, "updating customer")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return customer.Customer{}, customer.ErrNotFound
	}
	return c, nil
}

func (repo customerRepository) DeleteCustomersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	if ids = validIDs(ids); len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM customer WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "deleting customers")
	}
	exe := getExec(repo.exec, exec)
	if _, err = exe.ExecContext(ctx, exe.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting customers")
	}
	return nil
}
