package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/payment"
)

func comparePeriods(a, b core.Period) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	}
	return 0
}

var paymentComparers = map[string]func(a, b payment.Payment) int{
	"receipt_number": func(a, b payment.Payment) int { return strings.Compare(a.ReceiptNumber, b.ReceiptNumber) },
	"amount":         func(a, b payment.Payment) int { return a.Amount.Cmp(b.Amount) },
	"method":         func(a, b payment.Payment) int { return strings.Compare(a.Method, b.Method) },
	"period":         func(a, b payment.Payment) int { return comparePeriods(a.Period, b.Period) },
	"paid_at":        func(a, b payment.Payment) int { return a.PaidAt.Compare(b.PaidAt) },
	"created_at":     func(a, b payment.Payment) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

type paymentRepository struct {
	db *DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) *paymentRepository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) NextReceiptSeq(ctx context.Context, exec ...core.DBExecutor) (int64, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.receiptSeq++
	return repo.db.receiptSeq, nil
}

func (repo *paymentRepository) CreatePayment(ctx context.Context, p payment.Payment, exec ...core.DBExecutor) (payment.Payment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, other := range repo.db.payments {
		if other.CustomerID == p.CustomerID && other.Period == p.Period {
			return payment.Payment{}, payment.ErrPeriodAlreadyPaid
		}
	}
	p.ID = uuid.New().String()
	repo.db.payments[p.ID] = p
	return p, nil
}

func (repo *paymentRepository) QueryPayments(
	ctx context.Context,
	filter *payment.QueryFilter,
	ordering []core.DBOrdering,
	page *core.Pagination,
	exec ...core.DBExecutor,
) ([]payment.Payment, payment.Totals, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	payments := make([]payment.Payment, 0)
	totals := payment.Totals{}
	for _, p := range repo.db.payments {
		if filter.Match(p) {
			payments = append(payments, p)
			totals.Amount = totals.Amount.Add(p.Amount)
		}
	}
	totals.Count = len(payments)
	totals.Amount = totals.Amount.Round(2)
	sortRecords(payments, ordering, paymentComparers)
	return paginate(payments, page), totals, nil
}

func (repo *paymentRepository) GetPaymentByID(ctx context.Context, id string, exec ...core.DBExecutor) (payment.Payment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.payments[id]; ok {
		return p, nil
	}
	return payment.Payment{}, payment.ErrNotFound
}

// DeletePayment detaches the month status it settled.
func (repo *paymentRepository) DeletePayment(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.payments[id]; !ok {
		return payment.ErrNotFound
	}
	delete(repo.db.payments, id)
	for k, ms := range repo.db.statuses {
		if ms.PaymentID == id {
			ms.PaymentID = ""
			repo.db.statuses[k] = ms
		}
	}
	return nil
}
