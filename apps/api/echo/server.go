package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/customer"
	"github.com/onnetwireless/dashboard/core/employee"
	"github.com/onnetwireless/dashboard/core/expense"
	"github.com/onnetwireless/dashboard/core/payment"
	"github.com/onnetwireless/dashboard/core/quote"
	"github.com/onnetwireless/dashboard/core/report"
)

type (
	ServerDeps struct {
		Conf        *core.Config
		Logger      core.Logger
		CustomerSvc *customer.Service
		EmployeeSvc *employee.Service
		BillingSvc  *billing.Service
		PaymentSvc  *payment.Service
		ExpenseSvc  *expense.Service
		QuoteSvc    *quote.Service
		ReportSvc   *report.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.SignalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	registerCustomerAPI(v1, s.deps.CustomerSvc, s.deps.BillingSvc)
	registerEmployeeAPI(v1, s.deps.EmployeeSvc)
	registerBillingAPI(v1, s.deps.BillingSvc, s.deps.ReportSvc)
	registerPaymentAPI(v1, s.deps.PaymentSvc, s.deps.ReportSvc)
	registerExpenseAPI(v1, s.deps.ExpenseSvc, s.deps.ReportSvc)
	registerQuoteAPI(v1, s.deps.QuoteSvc)
	registerReportAPI(v1, s.deps.ReportSvc)
}

// Start listens until the server is shut down. Listening errors are sent to Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the app to shut down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}
