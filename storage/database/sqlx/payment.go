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
	"github.com/onnetwireless/dashboard/core/payment"
)

const (
	paymentColumns = `id, receipt_number, customer_id, employee_id, amount, method, period, paid_at, notes, created_at`

	paymentPeriodConstraint = "payment_customer_period_key"
)

type paymentRow struct {
	ID            string          `db:"id"`
	ReceiptNumber string          `db:"receipt_number"`
	CustomerID    string          `db:"customer_id"`
	EmployeeID    null.String     `db:"employee_id"`
	Amount        decimal.Decimal `db:"amount"`
	Method        string          `db:"method"`
	Period        core.Period     `db:"period"`
	PaidAt        time.Time       `db:"paid_at"`
	Notes         null.String     `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
}

type totalsRow struct {
	Count  int             `db:"count"`
	Amount decimal.Decimal `db:"amount"`
}

type paymentRepository struct {
	exec core.DBExecutor
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(exec core.DBExecutor) *paymentRepository {
	return &paymentRepository{exec: exec}
}

func (repo paymentRepository) toRow(p payment.Payment) paymentRow {
	return paymentRow{
		ID:            p.ID,
		ReceiptNumber: p.ReceiptNumber,
		CustomerID:    p.CustomerID,
		EmployeeID:    null.NewString(p.EmployeeID, p.EmployeeID != ""),
		Amount:        p.Amount,
		Method:        p.Method,
		Period:        p.Period,
		PaidAt:        p.PaidAt.UTC(),
		Notes:         null.NewString(p.Notes, p.Notes != ""),
		CreatedAt:     p.CreatedAt.UTC(),
	}
}

func (repo paymentRepository) fromRow(row paymentRow) payment.Payment {
	return payment.Payment{
		ID:            row.ID,
		ReceiptNumber: row.ReceiptNumber,
		CustomerID:    row.CustomerID,
		EmployeeID:    row.EmployeeID.String,
		Amount:        row.Amount,
		Method:        row.Method,
		Period:        row.Period,
		PaidAt:        row.PaidAt.UTC(),
		Notes:         row.Notes.String,
		CreatedAt:     row.CreatedAt.UTC(),
	}
}

func (repo paymentRepository) NextReceiptSeq(ctx context.Context, exec ...core.DBExecutor) (int64, error) {
	var seq int64
	if err := sqlx.GetContext(ctx, getExec(repo.exec, exec), &seq, "SELECT nextval('receipt_number_seq')"); err != nil {
		return 0, errors.Wrap(err, "getting next receipt number")
	}
	return seq, nil
}

func (repo paymentRepository) CreatePayment(ctx context.Context, p payment.Payment, exec ...core.DBExecutor) (payment.Payment, error) {
	p.ID = uuid.New().String()
	q := `INSERT INTO payment (` + paymentColumns + `) VALUES (
		:id, :receipt_number, :customer_id, :employee_id, :amount, :method, :period, :paid_at, :notes, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.exec, exec), q, repo.toRow(p)); err != nil {
		if isUniqueViolation(err, paymentPeriodConstraint) {
			return payment.Payment{}, payment.ErrPeriodAlreadyPaid
		}
		return payment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return p, nil
}

func (repo paymentRepository) QueryPayments(
	ctx context.Context,
	filter *payment.QueryFilter,
	ordering []core.DBOrdering,
	page *core.Pagination,
	exec ...core.DBExecutor,
) ([]payment.Payment, payment.Totals, error) {
	var w where
	if filter != nil {
		w.search(filter.Search, "receipt_number")
		if filter.CustomerIDs != nil {
			// unknown customers match nothing
			w.in("customer_id", append(validIDs(filter.CustomerIDs), uuid.Nil.String()))
		}
		if filter.EmployeeID != "" {
			w.add("employee_id::text = ?", filter.EmployeeID)
		}
		w.in("method", filter.Methods)
		if !filter.Period.IsZero() {
			w.add("period = ?", filter.Period)
		}
		if !filter.PaidFrom.IsZero() {
			w.add("paid_at >= ?", filter.PaidFrom.Time)
		}
		if !filter.PaidTo.IsZero() {
			w.add("paid_at < ?", filter.PaidTo.AddDate(0, 0, 1))
		}
	}

	var (
		rows   []paymentRow
		totals totalsRow
	)
	err := selectPage(ctx, getExec(repo.exec, exec), &rows, &totals,
		"SELECT "+paymentColumns+" FROM payment",
		"SELECT COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount FROM payment",
		&w, ordering, page)
	if err != nil {
		return nil, payment.Totals{}, errors.Wrap(err, "querying payments")
	}

	payments := make([]payment.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, repo.fromRow(row))
	}
	return payments, payment.Totals{Count: totals.Count, Amount: totals.Amount.Round(2)}, nil
}

func (repo paymentRepository) GetPaymentByID(ctx context.Context, id string, exec ...core.DBExecutor) (payment.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payment.Payment{}, payment.ErrNotFound
	}
	exe := getExec(repo.exec, exec)
	var row paymentRow
	q := exe.Rebind("SELECT " + paymentColumns + " FROM payment WHERE id = ?")
	if err := sqlx.GetContext(ctx, exe, &row, q, id); err != nil {
		return payment.Payment{}, trapNoRowsErr(err, payment.ErrNotFound, "getting payment")
	}
	return repo.fromRow(row), nil
}

func (repo paymentRepository) DeletePayment(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return payment.ErrNotFound
	}
	exe := getExec(repo.exec, exec)
	res, err := exe.ExecContext(ctx, exe.Rebind("DELETE FROM payment WHERE id = ?"), id)
	if err != nil {
		return errors.Wrap(err, "deleting payment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return payment.ErrNotFound
	}
	return nil
}
