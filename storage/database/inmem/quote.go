package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/quote"
)

var quoteComparers = map[string]func(a, b quote.Quote) int{
	"number":      func(a, b quote.Quote) int { return strings.Compare(a.Number, b.Number) },
	"client_name": func(a, b quote.Quote) int { return strings.Compare(strings.ToLower(a.ClientName), strings.ToLower(b.ClientName)) },
	"total":       func(a, b quote.Quote) int { return a.Total.Cmp(b.Total) },
	"valid_until": func(a, b quote.Quote) int { return a.ValidUntil.Compare(b.ValidUntil.Time) },
	"created_at":  func(a, b quote.Quote) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

type quoteRepository struct {
	db *DB
}

var _ quote.Repository = (*quoteRepository)(nil) // interface compliance check

func NewQuoteRepository(db *DB) *quoteRepository {
	return &quoteRepository{db: db}
}

// copyItems keeps callers from sharing the stored items slice.
func copyItems(q quote.Quote) quote.Quote {
	items := make([]quote.Item, len(q.Items))
	copy(items, q.Items)
	q.Items = items
	return q
}

func (repo *quoteRepository) NextQuoteSeq(ctx context.Context, exec ...core.DBExecutor) (int64, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.quoteSeq++
	return repo.db.quoteSeq, nil
}

func (repo *quoteRepository) CreateQuote(ctx context.Context, q quote.Quote, exec ...core.DBExecutor) (quote.Quote, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	q.ID = uuid.New().String()
	q = copyItems(q)
	repo.db.quotes[q.ID] = q
	return q, nil
}

func (repo *quoteRepository) QueryQuotes(
	ctx context.Context,
	filter *quote.QueryFilter,
	ordering []core.DBOrdering,
	page *core.Pagination,
	exec ...core.DBExecutor,
) ([]quote.Quote, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	quotes := make([]quote.Quote, 0)
	for _, q := range repo.db.quotes {
		if filter.Match(q) {
			quotes = append(quotes, copyItems(q))
		}
	}
	sortRecords(quotes, ordering, quoteComparers)
	return paginate(quotes, page), len(quotes), nil
}

func (repo *quoteRepository) GetQuoteByID(ctx context.Context, id string, exec ...core.DBExecutor) (quote.Quote, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if q, ok := repo.db.quotes[id]; ok {
		return copyItems(q), nil
	}
	return quote.Quote{}, quote.ErrNotFound
}

func (repo *quoteRepository) UpdateQuote(ctx context.Context, q quote.Quote, exec ...core.DBExecutor) (quote.Quote, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.quotes[q.ID]; !ok {
		return quote.Quote{}, quote.ErrNotFound
	}
	q = copyItems(q)
	repo.db.quotes[q.ID] = q
	return q, nil
}

func (repo *quoteRepository) DeleteQuotesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.quotes, id)
	}
	return nil
}
