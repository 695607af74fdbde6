package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServer(t *testing.T) {
	srv, _ := setup(t)

	t.Run("home", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/")
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Welcome to ON-NET WIRELESS API!", rec.Body.String())
	})

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "trailing slash",
			method:   http.MethodGet,
			path:     "/v1/customers/",
			wantCode: http.StatusOK,
			wantData: marchallPage(t, 0, 1, 20, marchallList(t)),
		},
		{
			name:     "unknown route",
			method:   http.MethodGet,
			path:     "/v1/users",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "Not Found"}),
		},
	})
}
