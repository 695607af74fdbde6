package testutil

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/customer"
	"github.com/onnetwireless/dashboard/core/employee"
	"github.com/onnetwireless/dashboard/core/expense"
	"github.com/onnetwireless/dashboard/core/payment"
	"github.com/onnetwireless/dashboard/core/quote"
	"github.com/onnetwireless/dashboard/core/report"
	appfs "github.com/onnetwireless/dashboard/fs"
	emailsvc "github.com/onnetwireless/dashboard/services/email"
	exportsvc "github.com/onnetwireless/dashboard/services/export"
	logsvc "github.com/onnetwireless/dashboard/services/logger"
	pdfsvc "github.com/onnetwireless/dashboard/services/pdf"
	inmemdb "github.com/onnetwireless/dashboard/storage/database/inmem"
)

var parseTemplatesOnce sync.Once

// App holds every service of the dashboard, backed by a fresh in-memory database.
type App struct {
	DB     *inmemdb.DB
	Conf   *core.Config
	Logger core.Logger
	Mailer *emailsvc.ConsoleServiceMock

	CustomerRepo customer.Repository
	EmployeeRepo employee.Repository
	StatusRepo   billing.Repository
	PaymentRepo  payment.Repository
	ExpenseRepo  expense.Repository
	QuoteRepo    quote.Repository

	Customers *customer.Service
	Employees *employee.Service
	Billing   *billing.Service
	Payments  *payment.Service
	Expenses  *expense.Service
	Quotes    *quote.Service
	Reports   *report.Service
}

func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func NewApp(t *testing.T) *App {
	t.Helper()

	conf := core.NewTestConfig()
	logger := NewLogger(conf)
	parseTemplatesOnce.Do(func() {
		core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, true, logger)
	})

	db := inmemdb.Open()
	tx := inmemdb.NewTransactor(db)
	renderer := pdfsvc.NewRenderer(conf)

	app := &App{
		DB:           db,
		Conf:         conf,
		Logger:       logger,
		Mailer:       emailsvc.NewConsoleServiceMock(conf, logger),
		CustomerRepo: inmemdb.NewCustomerRepository(db),
		EmployeeRepo: inmemdb.NewEmployeeRepository(db),
		StatusRepo:   inmemdb.NewMonthStatusRepository(db),
		PaymentRepo:  inmemdb.NewPaymentRepository(db),
		ExpenseRepo:  inmemdb.NewExpenseRepository(db),
		QuoteRepo:    inmemdb.NewQuoteRepository(db),
	}

	app.Customers = customer.NewService(app.CustomerRepo, conf, logger)
	app.Employees = employee.NewService(app.EmployeeRepo, logger)
	app.Billing = billing.NewService(app.StatusRepo, app.Customers, conf, logger)
	app.Payments = payment.NewService(payment.Deps{
		Repo:      app.PaymentRepo,
		Tx:        tx,
		Billing:   app.Billing,
		Customers: app.Customers,
		Employees: app.Employees,
		Renderer:  renderer,
		Mailer:    app.Mailer,
	}, conf, logger)
	app.Expenses = expense.NewService(app.ExpenseRepo, app.Employees, logger)
	app.Quotes = quote.NewService(app.QuoteRepo, tx, app.Customers, renderer, conf, logger)
	app.Reports = report.NewService(report.Deps{
		Customers: app.Customers,
		Employees: app.Employees,
		Billing:   app.Billing,
		Payments:  app.Payments,
		Expenses:  app.Expenses,
		Exporter:  exportsvc.NewExporter(),
	}, conf)
	return app
}

func CreateCustomer(
	t *testing.T,
	repo customer.Repository,
	name, documentID, fee string,
	billingStart core.Date,
	email ...string,
) customer.Customer {
	t.Helper()
	now := time.Now().UTC()
	c := customer.Customer{
		Name:         name,
		DocumentID:   documentID,
		Plan:         customer.PlanInternet,
		MonthlyFee:   decimal.RequireFromString(fee),
		PaymentDay:   5,
		BillingStart: billingStart,
		Status:       customer.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if len(email) > 0 {
		c.Email = email[0]
	}
	c, err := repo.CreateCustomer(context.Background(), c)
	if err != nil {
		t.Fatalf("CreateCustomer() failed: %v", err)
	}
	return c
}

func CreateEmployee(t *testing.T, repo employee.Repository, name, documentID, position string) employee.Employee {
	t.Helper()
	now := time.Now().UTC()
	e := employee.Employee{
		Name:       name,
		DocumentID: documentID,
		Position:   position,
		Salary:     decimal.NewFromInt(1000),
		HireDate:   core.DateOf(now),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	e, err := repo.CreateEmployee(context.Background(), e)
	if err != nil {
		t.Fatalf("CreateEmployee() failed: %v", err)
	}
	return e
}

func CreateExpense(
	t *testing.T,
	repo expense.Repository,
	description, category, amount string,
	spentOn core.Date,
	employeeID ...string,
) expense.Expense {
	t.Helper()
	now := time.Now().UTC()
	e := expense.Expense{
		Description: description,
		Category:    category,
		Amount:      decimal.RequireFromString(amount),
		SpentOn:     spentOn,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(employeeID) > 0 {
		e.EmployeeID = employeeID[0]
	}
	e, err := repo.CreateExpense(context.Background(), e)
	if err != nil {
		t.Fatalf("CreateExpense() failed: %v", err)
	}
	return e
}

// PayMonth records a cash payment of the customer's fee for period through the service.
func PayMonth(t *testing.T, svc *payment.Service, customerID string, period core.Period, paidAt time.Time) payment.Payment {
	t.Helper()
	ctx := context.Background()
	np := payment.NewPayment{
		CustomerID: customerID,
		Method:     payment.MethodCash,
		Period:     period,
		PaidAt:     paidAt,
	}
	if err := np.Validate(ctx, svc); err != nil {
		t.Fatalf("PayMonth() failed: %v", err)
	}
	p, err := svc.Create(ctx, np)
	if err != nil {
		t.Fatalf("PayMonth() failed: %v", err)
	}
	return p
}
