package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/customer"
	"github.com/onnetwireless/dashboard/core/expense"
	"github.com/onnetwireless/dashboard/core/payment"
	"github.com/onnetwireless/dashboard/core/report"
	"github.com/onnetwireless/dashboard/tests"
)

func Test_reportApi_dashboard(t *testing.T) {
	srv, app := setup(t)

	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.NewDate(2024, time.January, 10))
	bruno := testutil.CreateCustomer(t, app.CustomerRepo, "Bruno Díaz", "1002", "35.50", core.NewDate(2024, time.February, 1))
	carla := testutil.CreateCustomer(t, app.CustomerRepo, "Carla Ruiz", "1003", "45.50", core.NewDate(2024, time.March, 1))

	// carla is suspended but still billed
	carla.Status = customer.StatusSuspended
	_, err := app.CustomerRepo.UpdateCustomer(context.Background(), carla)
	require.NoError(t, err)

	testutil.PayMonth(t, app.Payments, ana.ID, core.NewPeriod(2024, time.January), time.Date(2024, time.February, 2, 9, 0, 0, 0, time.UTC))
	testutil.PayMonth(t, app.Payments, ana.ID, core.NewPeriod(2024, time.February), time.Date(2024, time.March, 3, 9, 0, 0, 0, time.UTC))
	testutil.PayMonth(t, app.Payments, bruno.ID, core.NewPeriod(2024, time.February), time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC))
	testutil.CreateExpense(t, app.ExpenseRepo, "Office rent", expense.CategoryRent, "30.00", core.NewDate(2024, time.March, 1))
	testutil.CreateExpense(t, app.ExpenseRepo, "Old rent", expense.CategoryRent, "30.00", core.NewDate(2024, time.February, 1))

	req, rec := newRequest(http.MethodGet, "/v1/dashboard?as_of=2024-03-10")
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var d report.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, core.NewPeriod(2024, time.March), d.Period)
	assert.Equal(t, 3, d.TotalCustomers)
	assert.Equal(t, 2, d.ActiveCustomers)
	assert.Equal(t, 1, d.SuspendedCustomers)
	assert.Equal(t, 2, d.PaymentsCount)
	assert.Equal(t, "55.5", d.Income.String())
	assert.Equal(t, "55.5", d.IncomeByMethod[payment.MethodCash].String())
	assert.True(t, d.IncomeByMethod[payment.MethodCard].IsZero())
	assert.Equal(t, "30", d.Expenses.String())
	assert.Equal(t, "25.5", d.Net.String())
	// ana owes march, bruno owes march, carla owes march
	assert.Equal(t, 3, d.DebtorsCount)
	assert.Equal(t, "101", d.OutstandingDebt.String())
}
