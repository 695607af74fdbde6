package inmemdb

import (
	"context"
	"sort"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
)

type monthStatusRepository struct {
	db *DB
}

var _ billing.Repository = (*monthStatusRepository)(nil) // interface compliance check

func NewMonthStatusRepository(db *DB) *monthStatusRepository {
	return &monthStatusRepository{db: db}
}

func (repo *monthStatusRepository) QueryMonthStatuses(ctx context.Context, customerIDs []string, exec ...core.DBExecutor) ([]billing.MonthStatus, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	statuses := make([]billing.MonthStatus, 0)
	for k, ms := range repo.db.statuses {
		if len(customerIDs) == 0 || core.StringIn(k.customerID, customerIDs) {
			statuses = append(statuses, ms)
		}
	}
	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].CustomerID != statuses[j].CustomerID {
			return statuses[i].CustomerID < statuses[j].CustomerID
		}
		return statuses[i].Period.Before(statuses[j].Period)
	})
	return statuses, nil
}

func (repo *monthStatusRepository) GetMonthStatus(ctx context.Context, customerID string, period core.Period, exec ...core.DBExecutor) (billing.MonthStatus, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ms, ok := repo.db.statuses[statusKey{customerID, period}]; ok {
		return ms, nil
	}
	return billing.MonthStatus{}, billing.ErrStatusNotFound
}

func (repo *monthStatusRepository) SaveMonthStatus(ctx context.Context, ms billing.MonthStatus, exec ...core.DBExecutor) (billing.MonthStatus, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.statuses[statusKey{ms.CustomerID, ms.Period}] = ms
	return ms, nil
}
