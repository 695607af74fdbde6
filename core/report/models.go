package report

import (
	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/expense"
	"github.com/onnetwireless/dashboard/core/payment"
)

// Dashboard is the monthly overview of the business.
type Dashboard struct {
	AsOf               core.Date                  `json:"as_of"`
	Period             core.Period                `json:"period"`
	TotalCustomers     int                        `json:"total_customers"`
	ActiveCustomers    int                        `json:"active_customers"`
	SuspendedCustomers int                        `json:"suspended_customers"`
	PaymentsCount      int                        `json:"payments_count"`
	Income             decimal.Decimal            `json:"income"`
	IncomeByMethod     map[string]decimal.Decimal `json:"income_by_method"`
	Expenses           decimal.Decimal            `json:"expenses"`
	Net                decimal.Decimal            `json:"net"`
	DebtorsCount       int                        `json:"debtors_count"`
	OutstandingDebt    decimal.Decimal            `json:"outstanding_debt"`
}

// PaymentRow is one line of the payments export.
type PaymentRow struct {
	payment.Payment
	CustomerName string
	Collector    string
}

type (
	DebtorsSheet struct {
		Company core.CompanyConfig
		AsOf    core.Date
		Debts   []billing.Debt
	}

	PaymentsSheet struct {
		Company core.CompanyConfig
		From    core.Date
		To      core.Date
		Rows    []PaymentRow
		Totals  payment.Totals
	}

	ExpensesSheet struct {
		Company  core.CompanyConfig
		From     core.Date
		To       core.Date
		Expenses []expense.Expense
		Totals   expense.Totals
	}
)

// Exporter writes the listings as spreadsheets.
type Exporter interface {
	Debtors(sheet DebtorsSheet) ([]byte, error)
	Payments(sheet PaymentsSheet) ([]byte, error)
	Expenses(sheet ExpensesSheet) ([]byte, error)
}
