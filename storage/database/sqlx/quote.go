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
	"github.com/onnetwireless/dashboard/core/quote"
)

const (
	quoteColumns = `id, number, customer_id, client_name, client_phone, client_email, client_address,
	discount_pct, tax_pct, subtotal, discount_amount, tax_amount, total, notes, valid_until, created_at, updated_at`
	quoteItemColumns = `quote_id, position, description, quantity, unit_price, line_total`
)

type quoteRow struct {
	ID             string          `db:"id"`
	Number         string          `db:"number"`
	CustomerID     null.String     `db:"customer_id"`
	ClientName     string          `db:"client_name"`
	ClientPhone    null.String     `db:"client_phone"`
	ClientEmail    null.String     `db:"client_email"`
	ClientAddress  null.String     `db:"client_address"`
	DiscountPct    decimal.Decimal `db:"discount_pct"`
	TaxPct         decimal.Decimal `db:"tax_pct"`
	Subtotal       decimal.Decimal `db:"subtotal"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	TaxAmount      decimal.Decimal `db:"tax_amount"`
	Total          decimal.Decimal `db:"total"`
	Notes          null.String     `db:"notes"`
	ValidUntil     null.Time       `db:"valid_until"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type quoteItemRow struct {
	QuoteID     string          `db:"quote_id"`
	Position    int             `db:"position"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total"`
}

type quoteRepository struct {
	exec core.DBExecutor
}

var _ quote.Repository = (*quoteRepository)(nil) // interface compliance check

func NewQuoteRepository(exec core.DBExecutor) *quoteRepository {
	return &quoteRepository{exec: exec}
}

func (repo quoteRepository) toRow(q quote.Quote) quoteRow {
	return quoteRow{
		ID:             q.ID,
		Number:         q.Number,
		CustomerID:     null.NewString(q.CustomerID, q.CustomerID != ""),
		ClientName:     q.ClientName,
		ClientPhone:    null.NewString(q.ClientPhone, q.ClientPhone != ""),
		ClientEmail:    null.NewString(q.ClientEmail, q.ClientEmail != ""),
		ClientAddress:  null.NewString(q.ClientAddress, q.ClientAddress != ""),
		DiscountPct:    q.DiscountPct,
		TaxPct:         q.TaxPct,
		Subtotal:       q.Subtotal,
		DiscountAmount: q.DiscountAmount,
		TaxAmount:      q.TaxAmount,
		Total:          q.Total,
		Notes:          null.NewString(q.Notes, q.Notes != ""),
		ValidUntil:     null.NewTime(q.ValidUntil.Time, !q.ValidUntil.IsZero()),
		CreatedAt:      q.CreatedAt.UTC(),
		UpdatedAt:      q.UpdatedAt.UTC(),
	}
}

func (repo quoteRepository) fromRow(row quoteRow, items []quoteItemRow) quote.Quote {
	q := quote.Quote{
		ID:             row.ID,
		Number:         row.Number,
		CustomerID:     row.CustomerID.String,
		ClientName:     row.ClientName,
		ClientPhone:    row.ClientPhone.String,
		ClientEmail:    row.ClientEmail.String,
		ClientAddress:  row.ClientAddress.String,
		Items:          make([]quote.Item, 0, len(items)),
		DiscountPct:    row.DiscountPct,
		TaxPct:         row.TaxPct,
		Subtotal:       row.Subtotal,
		DiscountAmount: row.DiscountAmount,
		TaxAmount:      row.TaxAmount,
		Total:          row.Total,
		Notes:          row.Notes.String,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
	if row.ValidUntil.Valid {
		q.ValidUntil = core.DateOf(row.ValidUntil.Time)
	}
	for _, it := range items {
		q.Items = append(q.Items, quote.Item{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return q
}

// saveItems replaces the items of q.
func (repo quoteRepository) saveItems(ctx context.Context, exe core.DBExecutor, q quote.Quote) error {
	if _, err := exe.ExecContext(ctx, exe.Rebind("DELETE FROM quote_item WHERE quote_id = ?"), q.ID); err != nil {
		return errors.Wrap(err, "deleting quote items")
	}
	if len(q.Items) == 0 {
		return nil
	}
	rows := make([]quoteItemRow, 0, len(q.Items))
	for i, it := range q.Items {
		rows = append(rows, quoteItemRow{
			QuoteID:     q.ID,
			Position:    i + 1,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	stmt := `INSERT INTO quote_item (` + quoteItemColumns + `)
		VALUES (:quote_id, :position, :description, :quantity, :unit_price, :line_total)`
	if _, err := sqlx.NamedExecContext(ctx, exe, stmt, rows); err != nil {
		return errors.Wrap(err, "inserting quote items")
	}
	return nil
}

// loadItems fetches the items of the given quotes, grouped by quote id.
func (repo quoteRepository) loadItems(ctx context.Context, exe core.DBExecutor, ids []string) (map[string][]quoteItemRow, error) {
	items := make(map[string][]quoteItemRow, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	q, args, err := sqlx.In("SELECT "+quoteItemColumns+" FROM quote_item WHERE quote_id IN (?) ORDER BY quote_id, position", ids)
	if err != nil {
		return nil, errors.Wrap(err, "loading quote items")
	}
	var rows []quoteItemRow
	if err = sqlx.SelectContext(ctx, exe, &rows, exe.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "loading quote items")
	}
	for _, row := range rows {
		items[row.QuoteID] = append(items[row.QuoteID], row)
	}
	return items, nil
}

func (repo quoteRepository) NextQuoteSeq(ctx context.Context, exec ...core.DBExecutor) (int64, error) {
	var seq int64
	if err := sqlx.GetContext(ctx, getExec(repo.exec, exec), &seq, "SELECT nextval('quote_number_seq')"); err != nil {
		return 0, errors.Wrap(err, "getting next quote number")
	}
	return seq, nil
}

// CreateQuote must run inside a transaction: the quote and its items are inserted separately.
func (repo quoteRepository) CreateQuote(ctx context.Context, q quote.Quote, exec ...core.DBExecutor) (quote.Quote, error) {
	q.ID = uuid.New().String()
	exe := getExec(repo.exec, exec)
	stmt := `INSERT INTO quote (` + quoteColumns + `) VALUES (
		:id, :number, :customer_id, :client_name, :client_phone, :client_email, :client_address,
		:discount_pct, :tax_pct, :subtotal, :discount_amount, :tax_amount, :total, :notes, :valid_until, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exe, stmt, repo.toRow(q)); err != nil {
		return quote.Quote{}, errors.Wrap(err, "inserting quote")
	}
	if err := repo.saveItems(ctx, exe, q); err != nil {
		return quote.Quote{}, err
	}
	return q, nil
}

func (repo quoteRepository) QueryQuotes(
	ctx context.Context,
	filter *quote.QueryFilter,
	ordering []core.DBOrdering,
	page *core.Pagination,
	exec ...core.DBExecutor,
) ([]quote.Quote, int, error) {
	var w where
	if filter != nil {
		w.search(filter.Search, "number", "client_name")
		if filter.CustomerID != "" {
			w.add("customer_id::text = ?", filter.CustomerID)
		}
		if !filter.CreatedFrom.IsZero() {
			w.add("created_at >= ?", filter.CreatedFrom.Time)
		}
		if !filter.CreatedTo.IsZero() {
			w.add("created_at < ?", filter.CreatedTo.AddDate(0, 0, 1))
		}
	}

	exe := getExec(repo.exec, exec)
	var (
		rows  []quoteRow
		count int
	)
	err := selectPage(ctx, exe, &rows, &count,
		"SELECT "+quoteColumns+" FROM quote", "SELECT COUNT(*) FROM quote", &w, ordering, page)
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying quotes")
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	items, err := repo.loadItems(ctx, exe, ids)
	if err != nil {
		return nil, 0, err
	}

	quotes := make([]quote.Quote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, repo.fromRow(row, items[row.ID]))
	}
	return quotes, count, nil
}

func (repo quoteRepository) GetQuoteByID(ctx context.Context, id string, exec ...core.DBExecutor) (quote.Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return quote.Quote{}, quote.ErrNotFound
	}
	exe := getExec(repo.exec, exec)
	var row quoteRow
	if err := sqlx.GetContext(ctx, exe, &row, exe.Rebind("SELECT "+quoteColumns+" FROM quote WHERE id = ?"), id); err != nil {
		return quote.Quote{}, trapNoRowsErr(err, quote.ErrNotFound, "getting quote")
	}
	items, err := repo.loadItems(ctx, exe, []string{id})
	if err != nil {
		return quote.Quote{}, err
	}
	return repo.fromRow(row, items[id]), nil
}

// UpdateQuote must run inside a transaction: the items are replaced separately.
func (repo quoteRepository) UpdateQuote(ctx context.Context, q quote.Quote, exec ...core.DBExecutor) (quote.Quote, error) {
	exe := getExec(repo.exec, exec)
	stmt := `UPDATE quote SET
		customer_id = :customer_id, client_name = :client_name, client_phone = :client_phone,
		client_email = :client_email, client_address = :client_address, discount_pct = :discount_pct,
		tax_pct = :tax_pct, subtotal = :subtotal, discount_amount = :discount_amount, tax_amount = :tax_amount,
		total = :total, notes = :notes, valid_until = :valid_until, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, exe, stmt, repo.toRow(q))
	if err != nil {
		return quote.Quote{}, errors.Wrap(err, "updating quote")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return quote.Quote{}, quote.ErrNotFound
	}
	if err = repo.saveItems(ctx, exe, q); err != nil {
		return quote.Quote{}, err
	}
	return q, nil
}

func (repo quoteRepository) DeleteQuotesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	if ids = validIDs(ids); len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM quote WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "deleting quotes")
	}
	exe := getExec(repo.exec, exec)
	if _, err = exe.ExecContext(ctx, exe.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting quotes")
	}
	return nil
}
