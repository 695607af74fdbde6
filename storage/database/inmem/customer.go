package inmemdb

import (
	"cmp"
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/customer"
)

var customerComparers = map[string]func(a, b customer.Customer) int{
	"name":          func(a, b customer.Customer) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
	"document_id":   func(a, b customer.Customer) int { return strings.Compare(a.DocumentID, b.DocumentID) },
	"plan":          func(a, b customer.Customer) int { return strings.Compare(a.Plan, b.Plan) },
	"monthly_fee":   func(a, b customer.Customer) int { return a.MonthlyFee.Cmp(b.MonthlyFee) },
	"payment_day":   func(a, b customer.Customer) int { return cmp.Compare(a.PaymentDay, b.PaymentDay) },
	"billing_start": func(a, b customer.Customer) int { return a.BillingStart.Compare(b.BillingStart.Time) },
	"status":        func(a, b customer.Customer) int { return strings.Compare(a.Status, b.Status) },
	"created_at":    func(a, b customer.Customer) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updated_at":    func(a, b customer.Customer) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
}

type customerRepository struct {
	db *DB
}

var _ customer.Repository = (*customerRepository)(nil) // interface compliance check

func NewCustomerRepository(db *DB) *customerRepository {
	return &customerRepository{db: db}
}

func (repo *customerRepository) CheckDocumentUniqueness(ctx context.Context, documentID string, excludedIDs []string, exec ...core.DBExecutor) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.checkDocument(documentID, excludedIDs...)
}

// checkDocument must be called with the lock held.
func (repo *customerRepository) checkDocument(documentID string, excludedIDs ...string) error {
	for _, c := range repo.db.customers {
		if c.DocumentID == documentID && !core.StringIn(c.ID, excludedIDs) {
			return customer.ErrDocumentExists
		}
	}
	return nil
}

func (repo *customerRepository) CreateCustomer(ctx context.Context, c customer.Customer, exec ...core.DBExecutor) (customer.Customer, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.checkDocument(c.DocumentID); err != nil {
		return customer.Customer{}, err
	}
	c.ID = uuid.New().String()
	repo.db.customers[c.ID] = c
	return c, nil
}

func (repo *customerRepository) QueryCustomers(
	ctx context.Context,
	filter *customer.QueryFilter,
	ordering []core.DBOrdering,
	page *core.Pagination,
	exec ...core.DBExecutor,
) ([]customer.Customer, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	customers := make([]customer.Customer, 0)
	for _, c := range repo.db.customers {
		if filter.Match(c) {
			customers = append(customers, c)
		}
	}
	sortRecords(customers, ordering, customerComparers)
	return paginate(customers, page), len(customers), nil
}

func (repo *customerRepository) GetCustomerByID(ctx context.Context, id string, exec ...core.DBExecutor) (customer.Customer, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.customers[id]; ok {
		return c, nil
	}
	return customer.Customer{}, customer.ErrNotFound
}

func (repo *customerRepository) UpdateCustomer(ctx context.Context, c customer.Customer, exec ...core.DBExecutor) (customer.Customer, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.customers[c.ID]; !ok {
		return customer.Customer{}, customer.ErrNotFound
	}
	if err := repo.checkDocument(c.DocumentID, c.ID); err != nil {
		return customer.Customer{}, err
	}
	repo.db.customers[c.ID] = c
	return c, nil
}

// DeleteCustomersByID also deletes their month statuses and payments.
func (repo *customerRepository) DeleteCustomersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.customers, id)
	}
	for k := range repo.db.statuses {
		if core.StringIn(k.customerID, ids) {
			delete(repo.db.statuses, k)
		}
	}
	for id, p := range repo.db.payments {
		if core.StringIn(p.CustomerID, ids) {
			delete(repo.db.payments, id)
		}
	}
	for id, q := range repo.db.quotes {
		if core.StringIn(q.CustomerID, ids) {
			q.CustomerID = ""
			repo.db.quotes[id] = q
		}
	}
	return nil
}
