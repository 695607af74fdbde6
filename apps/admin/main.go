package main

import (
	"log"
	"os"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/customer"
	"github.com/onnetwireless/dashboard/core/employee"
	"github.com/onnetwireless/dashboard/core/expense"
	"github.com/onnetwireless/dashboard/core/payment"
	"github.com/onnetwireless/dashboard/core/report"
	emailsvc "github.com/onnetwireless/dashboard/services/email"
	exportsvc "github.com/onnetwireless/dashboard/services/export"
	logsvc "github.com/onnetwireless/dashboard/services/logger"
	pdfsvc "github.com/onnetwireless/dashboard/services/pdf"
	"github.com/onnetwireless/dashboard/storage/database"
	sqlxrepos "github.com/onnetwireless/dashboard/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		stdLogger.Fatal(err)
	}
	db, err := database.Open(conf)
	if err != nil {
		stdLogger.Fatal(err)
	}

	// set up services
	customerSvc := customer.NewService(sqlxrepos.NewCustomerRepository(db), conf, logger)
	employeeSvc := employee.NewService(sqlxrepos.NewEmployeeRepository(db), logger)
	billingSvc := billing.NewService(sqlxrepos.NewMonthStatusRepository(db), customerSvc, conf, logger)
	paymentSvc := payment.NewService(payment.Deps{
		Repo:      sqlxrepos.NewPaymentRepository(db),
		Tx:        database.NewTransactor(db),
		Billing:   billingSvc,
		Customers: customerSvc,
		Employees: employeeSvc,
		Renderer:  pdfsvc.NewRenderer(conf),
		Mailer:    emailsvc.NewConsoleService(conf, logger),
	}, conf, logger)
	expenseSvc := expense.NewService(sqlxrepos.NewExpenseRepository(db), employeeSvc, logger)

	// start CLI
	cli := commandLine{
		db: db.DB,
		reportSvc: report.NewService(report.Deps{
			Customers: customerSvc,
			Employees: employeeSvc,
			Billing:   billingSvc,
			Payments:  paymentSvc,
			Expenses:  expenseSvc,
			Exporter:  exportsvc.NewExporter(),
		}, conf),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
