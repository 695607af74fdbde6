package report

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/customer"
	"github.com/onnetwireless/dashboard/core/employee"
	"github.com/onnetwireless/dashboard/core/expense"
	"github.com/onnetwireless/dashboard/core/payment"
)

type (
	Service struct {
		customers *customer.Service
		employees *employee.Service
		billing   *billing.Service
		payments  *payment.Service
		expenses  *expense.Service
		exporter  Exporter
		conf      *core.Config
	}

	Deps struct {
		Customers *customer.Service
		Employees *employee.Service
		Billing   *billing.Service
		Payments  *payment.Service
		Expenses  *expense.Service
		Exporter  Exporter
	}
)

func NewService(deps Deps, conf *core.Config) *Service {
	return &Service{
		customers: deps.Customers,
		employees: deps.Employees,
		billing:   deps.Billing,
		payments:  deps.Payments,
		expenses:  deps.Expenses,
		exporter:  deps.Exporter,
		conf:      conf,
	}
}

// Dashboard summarizes the month of asOf: customers, income, expenses and what is still owed.
func (svc *Service) Dashboard(ctx context.Context, asOf core.Date) (Dashboard, error) {
	if asOf.IsZero() {
		asOf = core.Today()
	}
	period := asOf.Period()
	d := Dashboard{AsOf: asOf, Period: period}

	customers, err := svc.customers.QueryBillable(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d.TotalCustomers = len(customers)
	for _, c := range customers {
		switch c.Status {
		case customer.StatusActive:
			d.ActiveCustomers++
		case customer.StatusSuspended:
			d.SuspendedCustomers++
		}
	}

	from, to := core.DateOf(period.Start()), core.DateOf(period.End().AddDate(0, 0, -1))
	payments, ptotals, err := svc.payments.Query(ctx, &payment.QueryFilter{PaidFrom: from, PaidTo: to}, nil, nil)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying payments")
	}
	d.PaymentsCount = ptotals.Count
	d.Income = ptotals.Amount
	d.IncomeByMethod = make(map[string]decimal.Decimal, len(payment.Methods))
	for _, m := range payment.Methods {
		d.IncomeByMethod[m] = decimal.Zero
	}
	for _, p := range payments {
		d.IncomeByMethod[p.Method] = d.IncomeByMethod[p.Method].Add(p.Amount)
	}

	summary, err := svc.expenses.Summary(ctx, period)
	if err != nil {
		return Dashboard{}, err
	}
	d.Expenses = summary.Total
	d.Net = d.Income.Sub(d.Expenses)

	debtors, err := svc.billing.Debtors(ctx, billing.DebtorFilter{AsOf: asOf})
	if err != nil {
		return Dashboard{}, err
	}
	d.DebtorsCount = len(debtors)
	d.OutstandingDebt = billing.TotalDebt(debtors)
	return d, nil
}

// DebtorsXLSX exports the debtors as of filter.AsOf.
func (svc *Service) DebtorsXLSX(ctx context.Context, filter billing.DebtorFilter) ([]byte, error) {
	filter.Clean()
	debts, err := svc.billing.Debtors(ctx, filter)
	if err != nil {
		return nil, err
	}
	doc, err := svc.exporter.Debtors(DebtorsSheet{Company: svc.conf.Company, AsOf: filter.AsOf, Debts: debts})
	if err != nil {
		return nil, errors.Wrap(err, "exporting debtors")
	}
	return doc, nil
}

// PaymentsXLSX exports the payments matching filter, oldest first.
func (svc *Service) PaymentsXLSX(ctx context.Context, filter payment.QueryFilter) ([]byte, error) {
	payments, totals, err := svc.payments.Query(ctx, &filter, []core.DBOrdering{{Field: "paid_at", Ascending: true}}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}

	names, err := svc.customerNames(ctx)
	if err != nil {
		return nil, err
	}
	collectors, err := svc.employeeNames(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]PaymentRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, PaymentRow{Payment: p, CustomerName: names[p.CustomerID], Collector: collectors[p.EmployeeID]})
	}

	doc, err := svc.exporter.Payments(PaymentsSheet{
		Company: svc.conf.Company,
		From:    filter.PaidFrom,
		To:      filter.PaidTo,
		Rows:    rows,
		Totals:  totals,
	})
	if err != nil {
		return nil, errors.Wrap(err, "exporting payments")
	}
	return doc, nil
}

// ExpensesXLSX exports the expenses matching filter, oldest first.
func (svc *Service) ExpensesXLSX(ctx context.Context, filter expense.QueryFilter) ([]byte, error) {
	expenses, totals, err := svc.expenses.Query(ctx, &filter, []core.DBOrdering{{Field: "spent_on", Ascending: true}}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying expenses")
	}
	doc, err := svc.exporter.Expenses(ExpensesSheet{
		Company:  svc.conf.Company,
		From:     filter.SpentFrom,
		To:       filter.SpentTo,
		Expenses: expenses,
		Totals:   totals,
	})
	if err != nil {
		return nil, errors.Wrap(err, "exporting expenses")
	}
	return doc, nil
}

func (svc *Service) customerNames(ctx context.Context) (map[string]string, error) {
	customers, _, err := svc.customers.Query(ctx, nil, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying customers")
	}
	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (svc *Service) employeeNames(ctx context.Context) (map[string]string, error) {
	employees, _, err := svc.employees.Query(ctx, nil, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying employees")
	}
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return names, nil
}

// Filename builds a dated export file name: debtors-2024-03-31.xlsx
func Filename(kind string, day core.Date) string {
	if day.IsZero() {
		day = core.DateOf(time.Now())
	}
	return kind + "-" + day.String() + ".xlsx"
}
