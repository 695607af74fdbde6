package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/quote"
	"github.com/onnetwireless/dashboard/tests"
)

func Test_quoteApi(t *testing.T) {
	srv, app := setup(t)
	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.NewDate(2024, time.January, 10), "ana@example.com")

	create := func(t *testing.T, body string) quote.Quote {
		req, rec := newRequest(http.MethodPost, "/v1/quotes", []byte(body))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var q quote.Quote
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
		return q
	}

	var forAna, walkIn quote.Quote
	t.Run("create for a customer", func(t *testing.T) {
		forAna = create(t, `{
			"customer_id": "`+ana.ID+`",
			"items": [
				{"description": "Router", "quantity": "2", "unit_price": "50"},
				{"description": "Installation", "quantity": "1", "unit_price": "30"}
			],
			"discount_pct": "10",
			"tax_pct": "19",
			"valid_until": "2024-04-30"
		}`)
		assert.Equal(t, "Q-000001", forAna.Number)
		assert.Equal(t, ana.Name, forAna.ClientName)
		assert.Equal(t, ana.Email, forAna.ClientEmail)
		require.Len(t, forAna.Items, 2)
		assert.Equal(t, "100", forAna.Items[0].LineTotal.String())
		assert.Equal(t, "130", forAna.Subtotal.String())
		assert.Equal(t, "13", forAna.DiscountAmount.String())
		assert.Equal(t, "22.23", forAna.TaxAmount.String())
		assert.Equal(t, "139.23", forAna.Total.String())
		assert.Equal(t, core.NewDate(2024, time.April, 30), forAna.ValidUntil)
	})

	t.Run("create for a walk-in client", func(t *testing.T) {
		walkIn = create(t, `{"client_name": "Hotel Sol", "items": [{"description": "Antenna", "quantity": "3", "unit_price": "19.99"}]}`)
		assert.Equal(t, "Q-000002", walkIn.Number)
		assert.Empty(t, walkIn.CustomerID)
		assert.Equal(t, "59.97", walkIn.Total.String())
		assert.Equal(t, core.DateOf(time.Now().UTC().AddDate(0, 0, app.Conf.Billing.QuoteValidityDays)), walkIn.ValidUntil)
	})

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "no client",
			method:   http.MethodPost,
			path:     "/v1/quotes",
			body:     []byte(`{"items": [{"description": "Antenna", "quantity": "1", "unit_price": "10"}]}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"client_name": "this field is required"}),
		},
		{
			name:     "no items",
			method:   http.MethodPost,
			path:     "/v1/quotes",
			body:     []byte(`{"client_name": "Hotel Sol", "items": []}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown customer",
			method:   http.MethodPost,
			path:     "/v1/quotes",
			body:     []byte(`{"customer_id": "nope", "items": [{"description": "Antenna", "quantity": "1", "unit_price": "10"}]}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"customer_id": "customer not found"}),
		},
		{
			name:     "discount over 100%",
			method:   http.MethodPut,
			path:     "/v1/quotes/" + forAna.ID,
			body:     []byte(`{"discount_pct": "120"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "search",
			method:   http.MethodGet,
			path:     "/v1/quotes?search=hotel",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 1, 1, core.DefaultPageSize, marchallList(t, walkIn)),
		},
		{
			name:     "by customer",
			method:   http.MethodGet,
			path:     "/v1/quotes?customer=" + ana.ID,
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 1, 1, core.DefaultPageSize, marchallList(t, forAna)),
		},
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/v1/quotes/" + forAna.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, forAna),
		},
	})

	t.Run("update replaces the items", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, "/v1/quotes/"+forAna.ID, []byte(`{"items": [{"description": "Mesh kit", "quantity": "1", "unit_price": "200"}], "tax_pct": "0"}`))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var q quote.Quote
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
		require.Len(t, q.Items, 1)
		assert.Equal(t, forAna.Number, q.Number)
		assert.Equal(t, "200", q.Subtotal.String())
		assert.Equal(t, "20", q.DiscountAmount.String())
		assert.Equal(t, "180", q.Total.String())
	})

	t.Run("pdf", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/quotes/"+forAna.ID+"/pdf")
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, `attachment; filename="quote-Q-000001.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("customer deletion keeps the quote", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/v1/customers/"+ana.ID)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newRequest(http.MethodGet, "/v1/quotes/"+forAna.ID)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var q quote.Quote
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
		assert.Empty(t, q.CustomerID)
		assert.Equal(t, ana.Name, q.ClientName)
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/v1/quotes/"+walkIn.ID)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newRequest(http.MethodGet, "/v1/quotes/"+walkIn.ID)
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
