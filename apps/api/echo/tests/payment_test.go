package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/onnetwireless/dashboard/apps/api/echo"
	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/employee"
	"github.com/onnetwireless/dashboard/core/payment"
	"github.com/onnetwireless/dashboard/tests"
)

func createPayment(t *testing.T, srv http.Handler, body string) payment.Payment {
	t.Helper()
	req, rec := newRequest(http.MethodPost, "/v1/payments", []byte(body))
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p payment.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func Test_paymentApi_create(t *testing.T) {
	srv, app := setup(t)
	ctx := context.Background()

	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.NewDate(2024, time.January, 10))
	luis := testutil.CreateEmployee(t, app.EmployeeRepo, "Luis Mora", "9001", employee.PositionCashier)
	jan := core.NewPeriod(2024, time.January)

	var p payment.Payment
	t.Run("defaults to the oldest due month", func(t *testing.T) {
		p = createPayment(t, srv, `{"customer_id": "`+ana.ID+`", "employee_id": "`+luis.ID+`", "method": "Cash", "paid_at": "2024-03-10T10:00:00Z"}`)
		assert.Equal(t, "R-000001", p.ReceiptNumber)
		assert.Equal(t, jan, p.Period)
		assert.Equal(t, payment.MethodCash, p.Method)
		assert.Equal(t, luis.ID, p.EmployeeID)
		assert.True(t, ana.MonthlyFee.Equal(p.Amount))

		paid, err := app.Billing.IsPaid(ctx, ana.ID, jan)
		require.NoError(t, err)
		assert.True(t, paid)
	})

	t.Run("explicit period & amount", func(t *testing.T) {
		p2 := createPayment(t, srv, `{"customer_id": "`+ana.ID+`", "method": "transfer", "period": "2024-03", "amount": "15.255"}`)
		assert.Equal(t, "R-000002", p2.ReceiptNumber)
		assert.Equal(t, core.NewPeriod(2024, time.March), p2.Period)
		assert.Equal(t, "15.26", p2.Amount.StringFixed(2))
	})

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "period already paid",
			method:   http.MethodPost,
			path:     "/v1/payments",
			body:     []byte(`{"customer_id": "` + ana.ID + `", "method": "cash", "period": "2024-01"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"period": payment.ErrPeriodAlreadyPaid.Error()}),
		},
		{
			name:     "before billing start",
			method:   http.MethodPost,
			path:     "/v1/payments",
			body:     []byte(`{"customer_id": "` + ana.ID + `", "method": "cash", "period": "2023-12"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"period": "period is before the customer's billing start"}),
		},
		{
			name:     "unknown customer",
			method:   http.MethodPost,
			path:     "/v1/payments",
			body:     []byte(`{"customer_id": "nope", "method": "cash"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"customer_id": "customer not found"}),
		},
		{
			name:     "unknown collector",
			method:   http.MethodPost,
			path:     "/v1/payments",
			body:     []byte(`{"customer_id": "` + ana.ID + `", "employee_id": "nope", "method": "cash"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"employee_id": "employee not found"}),
		},
		{
			name:     "missing method",
			method:   http.MethodPost,
			path:     "/v1/payments",
			body:     []byte(`{"customer_id": "` + ana.ID + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"method": "this field is required"}),
		},
		{
			name:     "negative amount",
			method:   http.MethodPost,
			path:     "/v1/payments",
			body:     []byte(`{"customer_id": "` + ana.ID + `", "method": "cash", "amount": "-5"}`),
			wantCode: http.StatusBadRequest,
		},
	})

	_, totals, err := app.Payments.Query(ctx, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Count, "failed attempts must not leave payments behind")
}

func Test_paymentApi_query(t *testing.T) {
	srv, app := setup(t)

	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.NewDate(2024, time.January, 10))
	bruno := testutil.CreateCustomer(t, app.CustomerRepo, "Bruno Díaz", "1002", "35.50", core.NewDate(2024, time.January, 1))

	p1 := testutil.PayMonth(t, app.Payments, ana.ID, core.NewPeriod(2024, time.January), time.Date(2024, time.February, 3, 9, 0, 0, 0, time.UTC))
	p2 := testutil.PayMonth(t, app.Payments, bruno.ID, core.NewPeriod(2024, time.January), time.Date(2024, time.February, 20, 9, 0, 0, 0, time.UTC))
	p3 := testutil.PayMonth(t, app.Payments, ana.ID, core.NewPeriod(2024, time.February), time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC))

	totals := func(count int, amount string) map[string]interface{} {
		return map[string]interface{}{"totals": payment.Totals{Count: count, Amount: decimal.RequireFromString(amount)}}
	}

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "latest first",
			method:   http.MethodGet,
			path:     "/v1/payments",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 3, 1, core.DefaultPageSize, marchallList(t, p3, p2, p1), totals(3, "75.5")),
		},
		{
			name:     "by customer",
			method:   http.MethodGet,
			path:     "/v1/payments?customer=" + ana.ID + "&ordering=paid_at",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 2, 1, core.DefaultPageSize, marchallList(t, p1, p3), totals(2, "40")),
		},
		{
			name:     "date range",
			method:   http.MethodGet,
			path:     "/v1/payments?paid_from=2024-02-01&paid_to=2024-02-29",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 2, 1, core.DefaultPageSize, marchallList(t, p2, p1), totals(2, "55.5")),
		},
		{
			name:     "totals cover every page",
			method:   http.MethodGet,
			path:     "/v1/payments?page_size=1",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 3, 1, 1, marchallList(t, p3), totals(3, "75.5")),
		},
		{
			name:     "receipt number search",
			method:   http.MethodGet,
			path:     "/v1/payments?search=r-000002",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 1, 1, core.DefaultPageSize, marchallList(t, p2), totals(1, "35.5")),
		},
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/v1/payments/" + p1.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, p1),
		},
	})

	t.Run("xlsx", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/payments.xlsx?paid_from=2024-02-01&paid_to=2024-02-29")
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, `attachment; filename="payments-2024-02-29.xlsx"`, rec.Header().Get(echo.HeaderContentDisposition))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx files are zip archives")
	})
}

func Test_paymentApi_void(t *testing.T) {
	srv, app := setup(t)
	ctx := context.Background()

	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.NewDate(2024, time.January, 10))
	jan := core.NewPeriod(2024, time.January)
	p := testutil.PayMonth(t, app.Payments, ana.ID, jan, time.Date(2024, time.January, 12, 9, 0, 0, 0, time.UTC))

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "void",
			method:   http.MethodDelete,
			path:     "/v1/payments/" + p.ID,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "gone",
			method:   http.MethodGet,
			path:     "/v1/payments/" + p.ID,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: payment.ErrNotFound.Error()}),
		},
		{
			name:     "twice",
			method:   http.MethodDelete,
			path:     "/v1/payments/" + p.ID,
			wantCode: http.StatusNotFound,
		},
	})

	paid, err := app.Billing.IsPaid(ctx, ana.ID, jan)
	require.NoError(t, err)
	assert.False(t, paid, "voiding reopens the month")

	// the month can be paid again
	p2 := testutil.PayMonth(t, app.Payments, ana.ID, jan, time.Date(2024, time.January, 13, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, "R-000002", p2.ReceiptNumber, "receipt numbers are never reused")
}

func Test_paymentApi_receipt(t *testing.T) {
	srv, app := setup(t)

	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.NewDate(2024, time.January, 10), "ana@example.com")
	bruno := testutil.CreateCustomer(t, app.CustomerRepo, "Bruno Díaz", "1002", "35.50", core.NewDate(2024, time.January, 1))
	jan := core.NewPeriod(2024, time.January)
	pAna := testutil.PayMonth(t, app.Payments, ana.ID, jan, time.Date(2024, time.January, 12, 9, 0, 0, 0, time.UTC))
	pBruno := testutil.PayMonth(t, app.Payments, bruno.ID, jan, time.Date(2024, time.January, 12, 9, 0, 0, 0, time.UTC))

	t.Run("pdf", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/payments/"+pAna.ID+"/receipt.pdf")
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, `attachment; filename="receipt-R-000001.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	sent := SuccessResponse{Success: "the receipt is on its way"}
	tests := []struct {
		httpTest
		wantTo string
	}{
		{
			httpTest: httpTest{
				name:     "to the customer",
				method:   http.MethodPost,
				path:     "/v1/payments/" + pAna.ID + "/receipt/send",
				wantCode: http.StatusAccepted,
				wantData: marchallObj(t, sent),
			},
			wantTo: "ana@example.com",
		},
		{
			httpTest: httpTest{
				name:     "customer without email",
				method:   http.MethodPost,
				path:     "/v1/payments/" + pBruno.ID + "/receipt/send",
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, map[string]string{"email": payment.ErrNoRecipient.Error()}),
			},
		},
		{
			httpTest: httpTest{
				name:     "bad override",
				method:   http.MethodPost,
				path:     "/v1/payments/" + pBruno.ID + "/receipt/send",
				body:     []byte(`{"email": "bruno"}`),
				wantCode: http.StatusBadRequest,
			},
		},
		{
			httpTest: httpTest{
				name:     "override",
				method:   http.MethodPost,
				path:     "/v1/payments/" + pBruno.ID + "/receipt/send",
				body:     []byte(`{"email": " Bruno@Example.com ", "name": "Bruno"}`),
				wantCode: http.StatusAccepted,
				wantData: marchallObj(t, sent),
			},
			wantTo: "bruno@example.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.Mailer.Reset()
			req, rec := newRequest(tt.method, tt.path, tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt.httpTest, rec)

			msgs := app.Mailer.SentMessages()
			if tt.wantTo == "" {
				assert.Empty(t, msgs)
				return
			}
			require.Len(t, msgs, 1)
			require.Len(t, msgs[0].To, 1)
			assert.Equal(t, tt.wantTo, msgs[0].To[0].Address)
			require.Len(t, msgs[0].Attachments, 1)
			assert.Equal(t, "application/pdf", msgs[0].Attachments[0].ContentType)
		})
	}
}
