package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/customer"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), core.NewTestConfig())
	logger.Enable(false)

	c := customer.Customer{ID: "c-1", Name: "Ana Gómez", Email: "ana@example.com"}
	args := logger.prepare("payment recorded", []interface{}{c, map[string]interface{}{"amount": "20.00"}})
	assert.Len(t, args, 2, "the customer is sent as the rollbar person, not as data")
	assert.Equal(t, "payment recorded", args[0])

	logger.Error("sending email", errors.New("timeout"), c)
	assert.Equal(t, "sending email\ntimeout\ncustomer: Ana Gómez (c-1)\n", buf.String())
}
