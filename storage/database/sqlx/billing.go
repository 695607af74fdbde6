package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
)

const monthStatusColumns = `customer_id, period, state, payment_id, updated_at`

type monthStatusRow struct {
	CustomerID string      `db:"customer_id"`
	Period     core.Period `db:"period"`
	State      string      `db:"state"`
	PaymentID  null.String `db:"payment_id"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

type monthStatusRepository struct {
	exec core.DBExecutor
}

var _ billing.Repository = (*monthStatusRepository)(nil) // interface compliance check

func NewMonthStatusRepository(exec core.DBExecutor) *monthStatusRepository {
	return &monthStatusRepository{exec: exec}
}

func (repo monthStatusRepository) toRow(ms billing.MonthStatus) monthStatusRow {
	return monthStatusRow{
		CustomerID: ms.CustomerID,
		Period:     ms.Period,
		State:      ms.State,
		PaymentID:  null.NewString(ms.PaymentID, ms.PaymentID != ""),
		UpdatedAt:  ms.UpdatedAt.UTC(),
	}
}

func (repo monthStatusRepository) fromRow(row monthStatusRow) billing.MonthStatus {
	return billing.MonthStatus{
		CustomerID: row.CustomerID,
		Period:     row.Period,
		State:      row.State,
		PaymentID:  row.PaymentID.String,
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}

func (repo monthStatusRepository) QueryMonthStatuses(ctx context.Context, customerIDs []string, exec ...core.DBExecutor) ([]billing.MonthStatus, error) {
	var w where
	if customerIDs != nil {
		if customerIDs = validIDs(customerIDs); len(customerIDs) == 0 {
			return []billing.MonthStatus{}, nil
		}
		w.in("customer_id", customerIDs)
	}
	if w.err != nil {
		return nil, errors.Wrap(w.err, "querying month statuses")
	}

	exe := getExec(repo.exec, exec)
	var rows []monthStatusRow
	q := exe.Rebind("SELECT " + monthStatusColumns + " FROM month_status" + w.String() + " ORDER BY customer_id, period")
	if err := sqlx.SelectContext(ctx, exe, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying month statuses")
	}

	statuses := make([]billing.MonthStatus, 0, len(rows))
	for _, row := range rows {
		statuses = append(statuses, repo.fromRow(row))
	}
	return statuses, nil
}

func (repo monthStatusRepository) GetMonthStatus(ctx context.Context, customerID string, period core.Period, exec ...core.DBExecutor) (billing.MonthStatus, error) {
	if len(validIDs([]string{customerID})) == 0 {
		return billing.MonthStatus{}, billing.ErrStatusNotFound
	}
	exe := getExec(repo.exec, exec)
	var row monthStatusRow
	q := exe.Rebind("SELECT " + monthStatusColumns + " FROM month_status WHERE customer_id = ? AND period = ?")
	if err := sqlx.GetContext(ctx, exe, &row, q, customerID, period); err != nil {
		return billing.MonthStatus{}, trapNoRowsErr(err, billing.ErrStatusNotFound, "getting month status")
	}
	return repo.fromRow(row), nil
}

func (repo monthStatusRepository) SaveMonthStatus(ctx context.Context, ms billing.MonthStatus, exec ...core.DBExecutor) (billing.MonthStatus, error) {
	q := `INSERT INTO month_status (` + monthStatusColumns + `)
		VALUES (:customer_id, :period, :state, :payment_id, :updated_at)
		ON CONFLICT (customer_id, period) DO UPDATE
		SET state = EXCLUDED.state, payment_id = EXCLUDED.payment_id, updated_at = EXCLUDED.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, getExec(repo.exec, exec), q, repo.toRow(ms)); err != nil {
		return billing.MonthStatus{}, errors.Wrap(err, "saving month status")
	}
	return ms, nil
}
