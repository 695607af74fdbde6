package inmemdb

import (
	"context"
	"sort"
	"sync"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/customer"
	"github.com/onnetwireless/dashboard/core/employee"
	"github.com/onnetwireless/dashboard/core/expense"
	"github.com/onnetwireless/dashboard/core/payment"
	"github.com/onnetwireless/dashboard/core/quote"
)

type statusKey struct {
	customerID string
	period     core.Period
}

// DB keeps every table in memory. It is meant for tests and demos.
type DB struct {
	mutex sync.RWMutex

	customers  map[string]customer.Customer
	employees  map[string]employee.Employee
	statuses   map[statusKey]billing.MonthStatus
	payments   map[string]payment.Payment
	expenses   map[string]expense.Expense
	quotes     map[string]quote.Quote
	receiptSeq int64
	quoteSeq   int64
}

func Open() *DB {
	return &DB{
		customers: make(map[string]customer.Customer),
		employees: make(map[string]employee.Employee),
		statuses:  make(map[statusKey]billing.MonthStatus),
		payments:  make(map[string]payment.Payment),
		expenses:  make(map[string]expense.Expense),
		quotes:    make(map[string]quote.Quote),
	}
}

// snapshot copies every table; sequences are not restored, like their SQL counterparts.
func (db *DB) snapshot() *DB {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	snap := Open()
	for k, v := range db.customers {
		snap.customers[k] = v
	}
	for k, v := range db.employees {
		snap.employees[k] = v
	}
	for k, v := range db.statuses {
		snap.statuses[k] = v
	}
	for k, v := range db.payments {
		snap.payments[k] = v
	}
	for k, v := range db.expenses {
		snap.expenses[k] = v
	}
	for k, v := range db.quotes {
		snap.quotes[k] = v
	}
	return snap
}

func (db *DB) restore(snap *DB) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.customers = snap.customers
	db.employees = snap.employees
	db.statuses = snap.statuses
	db.payments = snap.payments
	db.expenses = snap.expenses
	db.quotes = snap.quotes
}

// Transactor restores the tables when the function fails.
// Transactions are not isolated from each other.
type Transactor struct {
	db *DB
}

var _ core.Transactor = (*Transactor)(nil) // interface compliance check

func NewTransactor(db *DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(exec core.DBExecutor) error) error {
	snap := t.db.snapshot()
	if err := fn(nil); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

// sortRecords sorts records by the successive orderings; fields without a comparer are ignored.
func sortRecords[T any](records []T, ordering []core.DBOrdering, comparers map[string]func(a, b T) int) {
	sort.SliceStable(records, func(i, j int) bool {
		for _, ord := range ordering {
			cmp, ok := comparers[ord.Field]
			if !ok {
				continue
			}
			c := cmp(records[i], records[j])
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

// paginate returns the page of records; a nil page returns them all.
func paginate[T any](records []T, page *core.Pagination) []T {
	if page == nil {
		return records
	}
	start, end := page.Bounds(len(records))
	return records[start:end]
}
