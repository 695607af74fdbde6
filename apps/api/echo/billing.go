package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/report"
)

type billingApi struct {
	svc     *billing.Service
	reports *report.Service
}

func registerBillingAPI(g *echo.Group, svc *billing.Service, reports *report.Service) {
	api := billingApi{svc: svc, reports: reports}

	bg := g.Group("/billing")
	bg.GET("/debtors", api.debtors)
	bg.GET("/debtors.xlsx", api.exportDebtors)
}

// DebtorsPage lists debtors along with what all of them owe.
type DebtorsPage struct {
	core.Page
	AsOf  core.Date       `json:"as_of"`
	Total decimal.Decimal `json:"total"`
}

func (api *billingApi) debtors(ctx echo.Context) error {
	var filter billing.DebtorFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &filter); err != nil {
		return err
	}
	filter.Clean()
	page, err := bindPagination(ctx)
	if err != nil {
		return err
	}

	debts, err := api.svc.Debtors(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	start, end := page.Bounds(len(debts))
	return ctx.JSON(http.StatusOK, DebtorsPage{
		Page:  core.NewPage(debts[start:end], len(debts), page),
		AsOf:  filter.AsOf,
		Total: billing.TotalDebt(debts),
	})
}

func (api *billingApi) exportDebtors(ctx echo.Context) error {
	var filter billing.DebtorFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &filter); err != nil {
		return err
	}
	filter.Clean()

	doc, err := api.reports.DebtorsXLSX(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return attachment(ctx, contentTypeXLSX, report.Filename("debtors", filter.AsOf), doc)
}
