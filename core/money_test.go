package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{amount: "0", want: "$0.00"},
		{amount: "5", want: "$5.00"},
		{amount: "999.999", want: "$1,000.00"},
		{amount: "1234.5", want: "$1,234.50"},
		{amount: "1234567.891", want: "$1,234,567.89"},
		{amount: "-25.1", want: "-$25.10"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney("$", decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestSumMoney(t *testing.T) {
	got := SumMoney(decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2"), decimal.RequireFromString("10.005"))
	assert.True(t, got.Equal(decimal.RequireFromString("10.31")), "got %s", got)
	assert.True(t, SumMoney().IsZero())
}
