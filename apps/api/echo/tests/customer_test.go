package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/customer"
	"github.com/onnetwireless/dashboard/tests"
)

func Test_customerApi_query(t *testing.T) {
	srv, app := setup(t)

	start := core.NewDate(2024, time.January, 10)
	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", start, "ana@example.com")
	bruno := testutil.CreateCustomer(t, app.CustomerRepo, "Bruno Díaz", "1002", "35.50", start)

	tests := []httpTest{
		{
			name:     "all",
			method:   http.MethodGet,
			path:     "/v1/customers",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 2, 1, core.DefaultPageSize, marchallList(t, ana, bruno)),
		},
		{
			name:     "search",
			method:   http.MethodGet,
			path:     "/v1/customers?search=BRUNO",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 1, 1, core.DefaultPageSize, marchallList(t, bruno)),
		},
		{
			name:     "ordered & paginated",
			method:   http.MethodGet,
			path:     "/v1/customers?ordering=-monthly_fee&page_size=1",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 2, 1, 1, marchallList(t, bruno)),
		},
		{
			name:     "second page",
			method:   http.MethodGet,
			path:     "/v1/customers?ordering=-monthly_fee&page=2&page_size=1",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 2, 2, 1, marchallList(t, ana)),
		},
		{
			name:     "unknown ordering is ignored",
			method:   http.MethodGet,
			path:     "/v1/customers?ordering=password",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 2, 1, core.DefaultPageSize, marchallList(t, ana, bruno)),
		},
		{
			name:     "no match",
			method:   http.MethodGet,
			path:     "/v1/customers?status=cancelled",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 0, 1, core.DefaultPageSize, marchallList(t)),
		},
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/v1/customers/" + ana.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, ana),
		},
		{
			name:     "retrieve unknown",
			method:   http.MethodGet,
			path:     "/v1/customers/unknown",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: customer.ErrNotFound.Error()}),
		},
	}
	runHTTPTests(t, srv, tests)
}

func Test_customerApi_create(t *testing.T) {
	srv, app := setup(t)
	testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.Today())

	tests := []httpTest{
		{
			name:     "duplicate document",
			method:   http.MethodPost,
			path:     "/v1/customers",
			body:     []byte(`{"name": "Ana Clone", "document_id": " 1001 ", "plan": "internet", "monthly_fee": "20"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"document_id": customer.ErrDocumentExists.Error()}),
		},
		{
			name:     "blank name",
			method:   http.MethodPost,
			path:     "/v1/customers",
			body:     []byte(`{"name": "   ", "document_id": "2002", "plan": "internet", "monthly_fee": "20"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
		{
			name:     "malformed body",
			method:   http.MethodPost,
			path:     "/v1/customers",
			body:     []byte(`{"name": `),
			wantCode: http.StatusBadRequest,
		},
	}
	runHTTPTests(t, srv, tests)

	t.Run("valid", func(t *testing.T) {
		body := []byte(`{"name": " Carla  Ruiz ", "document_id": "3003", "email": "Carla@Example.com", "plan": "combo", "monthly_fee": "45.5"}`)
		req, rec := newRequest(http.MethodPost, "/v1/customers", body)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var c customer.Customer
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "Carla Ruiz", c.Name)
		assert.Equal(t, "carla@example.com", c.Email)
		assert.Equal(t, customer.StatusActive, c.Status)
		assert.Equal(t, app.Conf.Billing.DefaultPaymentDay, c.PaymentDay)
		assert.Equal(t, core.DateOf(time.Now().UTC()), c.BillingStart)
		assert.Equal(t, "45.5", c.MonthlyFee.String())
	})
}

func Test_customerApi_update(t *testing.T) {
	srv, app := setup(t)
	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.Today())
	testutil.CreateCustomer(t, app.CustomerRepo, "Bruno Díaz", "1002", "35.50", core.Today())

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "taken document",
			method:   http.MethodPut,
			path:     "/v1/customers/" + ana.ID,
			body:     []byte(`{"document_id": "1002"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"document_id": customer.ErrDocumentExists.Error()}),
		},
		{
			name:     "bad plan",
			method:   http.MethodPut,
			path:     "/v1/customers/" + ana.ID,
			body:     []byte(`{"plan": "satellite"}`),
			wantCode: http.StatusBadRequest,
		},
	})

	req, rec := newRequest(http.MethodPut, "/v1/customers/"+ana.ID, []byte(`{"phone": " 300 111 2233 ", "status": "SUSPENDED"}`))
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var c customer.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, ana.ID, c.ID)
	assert.Equal(t, ana.Name, c.Name)
	assert.Equal(t, "300 111 2233", c.Phone)
	assert.Equal(t, customer.StatusSuspended, c.Status)
}

func Test_customerApi_destroy(t *testing.T) {
	srv, app := setup(t)
	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.Today())
	bruno := testutil.CreateCustomer(t, app.CustomerRepo, "Bruno Díaz", "1002", "35.50", core.Today())
	carla := testutil.CreateCustomer(t, app.CustomerRepo, "Carla Ruiz", "1003", "45.50", core.Today())

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "one",
			method:   http.MethodDelete,
			path:     "/v1/customers/" + ana.ID,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "gone",
			method:   http.MethodGet,
			path:     "/v1/customers/" + ana.ID,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: customer.ErrNotFound.Error()}),
		},
		{
			name:     "many",
			method:   http.MethodDelete,
			path:     "/v1/customers?id=" + bruno.ID + "&id=" + carla.ID,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "none left",
			method:   http.MethodGet,
			path:     "/v1/customers",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 0, 1, core.DefaultPageSize, marchallList(t)),
		},
	})
}
