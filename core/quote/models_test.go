package quote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/onnetwireless/dashboard/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestQuote_ComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []Item
		discount     string
		tax          string
		wantLines    []string
		wantSubtotal string
		wantDiscount string
		wantTax      string
		wantTotal    string
	}{
		{
			name:         "no items",
			discount:     "0",
			tax:          "0",
			wantSubtotal: "0",
			wantDiscount: "0",
			wantTax:      "0",
			wantTotal:    "0",
		},
		{
			name: "discount and tax",
			items: []Item{
				{Description: "Router", Quantity: dec("2"), UnitPrice: dec("45.50")},
				{Description: "Cable (m)", Quantity: dec("30"), UnitPrice: dec("0.75")},
				{Description: "Installation", Quantity: dec("1"), UnitPrice: dec("60")},
			},
			discount:     "10",
			tax:          "15",
			wantLines:    []string{"91", "22.5", "60"},
			wantSubtotal: "173.5",
			wantDiscount: "17.35",
			wantTax:      "23.42", // (173.50 - 17.35) * 15% = 23.4225
			wantTotal:    "179.57",
		},
		{
			name:         "fractional quantities are rounded per line",
			items:        []Item{{Description: "Fiber", Quantity: dec("1.333"), UnitPrice: dec("10")}},
			discount:     "0",
			tax:          "12",
			wantLines:    []string{"13.33"},
			wantSubtotal: "13.33",
			wantDiscount: "0",
			wantTax:      "1.6",
			wantTotal:    "14.93",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Quote{Items: tt.items, DiscountPct: dec(tt.discount), TaxPct: dec(tt.tax)}
			q.ComputeTotals()

			for i, want := range tt.wantLines {
				assert.True(t, q.Items[i].LineTotal.Equal(dec(want)), "line %d = %s, want %s", i, q.Items[i].LineTotal, want)
			}
			assert.True(t, q.Subtotal.Equal(dec(tt.wantSubtotal)), "subtotal = %s", q.Subtotal)
			assert.True(t, q.DiscountAmount.Equal(dec(tt.wantDiscount)), "discount = %s", q.DiscountAmount)
			assert.True(t, q.TaxAmount.Equal(dec(tt.wantTax)), "tax = %s", q.TaxAmount)
			assert.True(t, q.Total.Equal(dec(tt.wantTotal)), "total = %s", q.Total)
		})
	}
}

func TestQuote_Expired(t *testing.T) {
	q := Quote{ValidUntil: core.NewDate(2024, 5, 31)}
	assert.False(t, q.Expired(core.NewDate(2024, 5, 31)))
	assert.True(t, q.Expired(core.NewDate(2024, 6, 1)))
	assert.False(t, Quote{}.Expired(core.NewDate(2030, 1, 1)))
}

func TestNewQuote_StructValidation(t *testing.T) {
	tests := []struct {
		name    string
		nq      NewQuote
		wantErr bool
	}{
		{
			name: "valid",
			nq: NewQuote{
				ClientName: "ACME",
				Items:      []NewItem{{Description: "Antenna", Quantity: dec("1"), UnitPrice: dec("80")}},
			},
		},
		{
			name:    "no items",
			nq:      NewQuote{ClientName: "ACME"},
			wantErr: true,
		},
		{
			name:    "no client",
			nq:      NewQuote{Items: []NewItem{{Description: "Antenna", Quantity: dec("1"), UnitPrice: dec("80")}}},
			wantErr: true,
		},
		{
			name:    "client from customer",
			nq:      NewQuote{CustomerID: "c1", Items: []NewItem{{Description: "Antenna", Quantity: dec("1"), UnitPrice: dec("80")}}},
			wantErr: false,
		},
		{
			name: "zero quantity",
			nq: NewQuote{
				ClientName: "ACME",
				Items:      []NewItem{{Description: "Antenna", Quantity: dec("0"), UnitPrice: dec("80")}},
			},
			wantErr: true,
		},
		{
			name: "discount over 100",
			nq: NewQuote{
				ClientName:  "ACME",
				Items:       []NewItem{{Description: "Antenna", Quantity: dec("1"), UnitPrice: dec("80")}},
				DiscountPct: dec("120"),
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.Validate.Struct(tt.nq)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate.Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateQuote_apply_roundsItems(t *testing.T) {
	uq := UpdateQuote{Items: []NewItem{
		{Description: "Cable", Quantity: dec("1.333"), UnitPrice: dec("3.00")},
		{Description: "Router", Quantity: dec("2"), UnitPrice: dec("45.499")},
	}}
	q := uq.apply(Quote{})

	assert.Equal(t, "1.33", q.Items[0].Quantity.String())
	assert.Equal(t, "3.99", q.Items[0].LineTotal.String(), "line total matches the stored quantity")
	assert.Equal(t, "45.5", q.Items[1].UnitPrice.String())
	assert.Equal(t, "91", q.Items[1].LineTotal.String())
	assert.Equal(t, "94.99", q.Total.String())
}
