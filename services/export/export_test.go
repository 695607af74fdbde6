package exportsvc

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/expense"
	"github.com/onnetwireless/dashboard/core/payment"
	"github.com/onnetwireless/dashboard/core/report"
)

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}

func TestExporter_Debtors(t *testing.T) {
	march := core.NewPeriod(2024, time.March)
	data, err := NewExporter().Debtors(report.DebtorsSheet{
		Company: core.CompanyConfig{Name: "ON-NET"},
		AsOf:    core.NewDate(2024, time.April, 10),
		Debts: []billing.Debt{
			{
				CustomerName: "Ana",
				DocumentID:   "1020",
				MonthlyFee:   decimal.RequireFromString("19.99"),
				DueMonths:    []core.Period{march, march.Next()},
				Count:        2,
				Amount:       decimal.RequireFromString("39.98"),
				OldestDue:    march,
			},
			{
				CustomerName: "Bruno",
				DocumentID:   "3040",
				MonthlyFee:   decimal.NewFromInt(25),
				DueMonths:    []core.Period{march.Next()},
				Count:        1,
				Amount:       decimal.NewFromInt(25),
				OldestDue:    march.Next(),
			},
		},
	})
	require.NoError(t, err)

	rows := readRows(t, data, "Debtors")
	require.Len(t, rows, 7)
	assert.Equal(t, "ON-NET - Debtors", rows[0][0])
	assert.Equal(t, "As of 2024-04-10", rows[1][0])
	assert.Equal(t, []string{"Customer", "Document ID", "Phone", "Monthly fee", "Months due", "Oldest due", "Due months", "Amount"}, rows[3])
	assert.Equal(t, []string{"Ana", "1020", "", "19.99", "2", "2024-03", "2024-03, 2024-04", "39.98"}, rows[4])
	assert.Equal(t, "TOTAL", rows[6][0])
	assert.Equal(t, "3", rows[6][4])
	assert.Equal(t, "64.98", rows[6][7])
}

func TestExporter_Payments(t *testing.T) {
	data, err := NewExporter().Payments(report.PaymentsSheet{
		From: core.NewDate(2024, time.March, 1),
		To:   core.NewDate(2024, time.March, 31),
		Rows: []report.PaymentRow{{
			Payment: payment.Payment{
				ReceiptNumber: "R-000007",
				Amount:        decimal.NewFromInt(20),
				Method:        payment.MethodTransfer,
				Period:        core.NewPeriod(2024, time.March),
				PaidAt:        time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC),
			},
			CustomerName: "Ana",
			Collector:    "Luis",
		}},
		Totals: payment.Totals{Count: 1, Amount: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)

	rows := readRows(t, data, "Payments")
	require.Len(t, rows, 6)
	assert.Equal(t, "2024-03-01 to 2024-03-31", rows[1][0])
	assert.Equal(t, []string{"R-000007", "2024-03-05 09:30", "Ana", "2024-03", "transfer", "Luis", "20"}, rows[4])
	assert.Equal(t, []string{"TOTAL", "1", "", "", "", "", "20"}, rows[5])
}

func TestExporter_Expenses(t *testing.T) {
	data, err := NewExporter().Expenses(report.ExpensesSheet{
		Expenses: []expense.Expense{
			{Description: "Fuel", Category: expense.CategoryFuel, Amount: decimal.RequireFromString("12.5"), SpentOn: core.NewDate(2024, time.March, 2)},
		},
		Totals: expense.Totals{Count: 1, Amount: decimal.RequireFromString("12.5")},
	})
	require.NoError(t, err)

	rows := readRows(t, data, "Expenses")
	require.Len(t, rows, 6)
	assert.Equal(t, "All dates", rows[1][0])
	assert.Equal(t, []string{"2024-03-02", "Fuel", "fuel", "12.5"}, rows[4])
	assert.Equal(t, []string{"TOTAL", "1", "", "12.5"}, rows[5])
}

func TestDateRange(t *testing.T) {
	from, to := core.NewDate(2024, time.January, 1), core.NewDate(2024, time.January, 31)
	tests := []struct {
		from, to core.Date
		want     string
	}{
		{core.Date{}, core.Date{}, "All dates"},
		{from, core.Date{}, "From 2024-01-01"},
		{core.Date{}, to, "Until 2024-01-31"},
		{from, to, "2024-01-01 to 2024-01-31"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dateRange(tt.from, tt.to))
	}
}
