package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/onnetwireless/dashboard/apps/api/echo"
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
	"github.com/onnetwireless/dashboard/storage/database"
	inmemdb "github.com/onnetwireless/dashboard/storage/database/inmem"
	sqlxrepos "github.com/onnetwireless/dashboard/storage/database/sqlx"
)

// engineInMemory runs the API on the in-memory repositories; data is lost on exit.
const engineInMemory = "inmem"

type repositories struct {
	tx        core.Transactor
	customers customer.Repository
	employees employee.Repository
	statuses  billing.Repository
	payments  payment.Repository
	expenses  expense.Repository
	quotes    quote.Repository
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	var repos repositories
	if conf.Database.Engine == engineInMemory {
		logger.Warn("using the in-memory database")
		repos = inMemoryRepositories()
	} else {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		repos = sqlxRepositories(db)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	renderer := pdfsvc.NewRenderer(conf)

	customerSvc := customer.NewService(repos.customers, conf, logger)
	employeeSvc := employee.NewService(repos.employees, logger)
	billingSvc := billing.NewService(repos.statuses, customerSvc, conf, logger)
	paymentSvc := payment.NewService(payment.Deps{
		Repo:      repos.payments,
		Tx:        repos.tx,
		Billing:   billingSvc,
		Customers: customerSvc,
		Employees: employeeSvc,
		Renderer:  renderer,
		Mailer:    mailSvc,
	}, conf, logger)
	expenseSvc := expense.NewService(repos.expenses, employeeSvc, logger)
	quoteSvc := quote.NewService(repos.quotes, repos.tx, customerSvc, renderer, conf, logger)
	reportSvc := report.NewService(report.Deps{
		Customers: customerSvc,
		Employees: employeeSvc,
		Billing:   billingSvc,
		Payments:  paymentSvc,
		Expenses:  expenseSvc,
		Exporter:  exportsvc.NewExporter(),
	}, conf)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : %s", conf))
	defer logger.Info("Application stopped")

	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf.TestMode, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			CustomerSvc: customerSvc,
			EmployeeSvc: employeeSvc,
			BillingSvc:  billingSvc,
			PaymentSvc:  paymentSvc,
			ExpenseSvc:  expenseSvc,
			QuoteSvc:    quoteSvc,
			ReportSvc:   reportSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(context.Background(), db.DB, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func sqlxRepositories(db *sqlx.DB) repositories {
	return repositories{
		tx:        database.NewTransactor(db),
		customers: sqlxrepos.NewCustomerRepository(db),
		employees: sqlxrepos.NewEmployeeRepository(db),
		statuses:  sqlxrepos.NewMonthStatusRepository(db),
		payments:  sqlxrepos.NewPaymentRepository(db),
		expenses:  sqlxrepos.NewExpenseRepository(db),
		quotes:    sqlxrepos.NewQuoteRepository(db),
	}
}

func inMemoryRepositories() repositories {
	db := inmemdb.Open()
	return repositories{
		tx:        inmemdb.NewTransactor(db),
		customers: inmemdb.NewCustomerRepository(db),
		employees: inmemdb.NewEmployeeRepository(db),
		statuses:  inmemdb.NewMonthStatusRepository(db),
		payments:  inmemdb.NewPaymentRepository(db),
		expenses:  inmemdb.NewExpenseRepository(db),
		quotes:    inmemdb.NewQuoteRepository(db),
	}
}
