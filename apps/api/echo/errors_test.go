package echoapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/customer"
	"github.com/onnetwireless/dashboard/tests"
)

func Test_appHTTPErrorHandler(t *testing.T) {
	logger := testutil.NewLogger(core.NewTestConfig())

	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantBody     string
		wantKey      string
		wantShutdown bool
	}{
		{
			name:     "not found",
			err:      errors.Wrap(customer.ErrNotFound, "getting object by ID"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error": "customer not found"}`,
		},
		{
			name:     "field errors",
			err:      core.NewValidationError(errors.New("bad period"), core.FieldError{Field: "period", Error: "bad period"}),
			wantCode: http.StatusBadRequest,
			wantBody: `{"period": "bad period"}`,
		},
		{
			name:     "plain validation error",
			err:      core.NewValidationError(errors.New("nothing to do")),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error": "nothing to do"}`,
		},
		{
			name:     "struct validation",
			err:      core.Validate.Struct(customer.NewCustomer{Name: "Ana", DocumentID: "1", Plan: "internet"}),
			wantCode: http.StatusBadRequest,
			wantKey:  "monthly_fee",
		},
		{
			name:     "http error",
			err:      echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"),
			wantCode: http.StatusMethodNotAllowed,
			wantBody: `{"error": "nope"}`,
		},
		{
			name:     "server error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error": "Internal Server Error"}`,
		},
		{
			name:         "shutdown",
			err:          errors.Wrap(core.NewShutdownError("database is gone"), "querying customers"),
			wantCode:     http.StatusInternalServerError,
			wantBody:     `{"error": "Internal Server Error"}`,
			wantShutdown: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var shutdown bool
			handler := newAppHTTPErrorHandler(logger, func() { shutdown = true })

			e := echo.New()
			rec := httptest.NewRecorder()
			ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			handler(tt.err, ctx)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantKey != "" {
				var body map[string]string
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Contains(t, body, tt.wantKey)
			} else {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			assert.Equal(t, tt.wantShutdown, shutdown)
		})
	}
}

func TestOrdering_Bind(t *testing.T) {
	tests := []struct {
		query string
		want  []core.DBOrdering
	}{
		{query: "", want: nil},
		{query: "name", want: []core.DBOrdering{{Field: "name", Ascending: true}}},
		{query: "-paid_at, name,,-", want: []core.DBOrdering{{Field: "paid_at"}, {Field: "name", Ascending: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/?ordering="+url.QueryEscape(tt.query), nil)
			ctx := e.NewContext(req, httptest.NewRecorder())

			ord := new(Ordering)
			ord.Bind(ctx)
			assert.Equal(t, tt.want, ord.Orderings)
		})
	}
}
