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
	"github.com/onnetwireless/dashboard/core/employee"
	"github.com/onnetwireless/dashboard/core/expense"
	"github.com/onnetwireless/dashboard/tests"
)

func Test_employeeApi(t *testing.T) {
	srv, app := setup(t)

	luis := testutil.CreateEmployee(t, app.EmployeeRepo, "Luis Mora", "9001", employee.PositionCashier)
	marta := testutil.CreateEmployee(t, app.EmployeeRepo, "Marta Peña", "9002", employee.PositionTechnician)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "all",
			method:   http.MethodGet,
			path:     "/v1/employees",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 2, 1, core.DefaultPageSize, marchallList(t, luis, marta)),
		},
		{
			name:     "by position",
			method:   http.MethodGet,
			path:     "/v1/employees?position=technician",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 1, 1, core.DefaultPageSize, marchallList(t, marta)),
		},
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/v1/employees/" + luis.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, luis),
		},
		{
			name:     "retrieve unknown",
			method:   http.MethodGet,
			path:     "/v1/employees/unknown",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: employee.ErrNotFound.Error()}),
		},
		{
			name:     "duplicate document",
			method:   http.MethodPost,
			path:     "/v1/employees",
			body:     []byte(`{"name": "Luis Again", "document_id": "9001", "position": "installer", "salary": "900"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"document_id": employee.ErrDocumentExists.Error()}),
		},
		{
			name:     "unknown position",
			method:   http.MethodPost,
			path:     "/v1/employees",
			body:     []byte(`{"name": "Pedro", "document_id": "9003", "position": "pilot", "salary": "900"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "taken document",
			method:   http.MethodPut,
			path:     "/v1/employees/" + marta.ID,
			body:     []byte(`{"document_id": "9001"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"document_id": employee.ErrDocumentExists.Error()}),
		},
	})

	t.Run("create", func(t *testing.T) {
		body := []byte(`{"name": "Pedro Sol", "document_id": "9003", "position": "Installer", "salary": "1200.50", "hire_date": "2024-02-01"}`)
		req, rec := newRequest(http.MethodPost, "/v1/employees", body)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var e employee.Employee
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, employee.PositionInstaller, e.Position)
		assert.Equal(t, core.NewDate(2024, time.February, 1), e.HireDate)
		assert.True(t, e.IsActive)
	})

	t.Run("deactivate", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, "/v1/employees/"+marta.ID, []byte(`{"is_active": false}`))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var e employee.Employee
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
		assert.False(t, e.IsActive)
		assert.Equal(t, marta.Name, e.Name)
	})

	t.Run("destroy keeps the expenses", func(t *testing.T) {
		fuel := testutil.CreateExpense(t, app.ExpenseRepo, "Fuel", expense.CategoryFuel, "12.00", core.Today(), luis.ID)

		req, rec := newRequest(http.MethodDelete, "/v1/employees/"+luis.ID)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		e, err := app.Expenses.GetByID(context.Background(), fuel.ID)
		require.NoError(t, err)
		assert.Empty(t, e.EmployeeID)
	})
}
