package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/expense"
	"github.com/onnetwireless/dashboard/core/report"
)

type expenseApi struct {
	svc     *expense.Service
	reports *report.Service
}

func registerExpenseAPI(g *echo.Group, svc *expense.Service, reports *report.Service) {
	api := expenseApi{svc: svc, reports: reports}

	g.GET("/expenses.xlsx", api.export)

	eg := g.Group("/expenses")
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.DELETE("", api.destroyMultiple)
	eg.GET("/summary", api.summary)

	dg := eg.Group("/:id", objectMiddleware(api.svc.GetByID))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *expenseApi) create(ctx echo.Context) error {
	var data expense.NewExpense
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExpense")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	e, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *expenseApi) query(ctx echo.Context) error {
	filter := new(expense.QueryFilter)
	ordering, page, err := bindListing(ctx, filter)
	if err != nil {
		return err
	}

	expenses, totals, err := api.svc.Query(ctx.Request().Context(), filter, ordering, &page)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TotalsPage{
		Page:   core.NewPage(expenses, totals.Count, page),
		Totals: totals,
	})
}

func (api *expenseApi) summary(ctx echo.Context) error {
	var filter expense.SummaryFilter
	if err := ctx.Bind(&filter); err != nil {
		return err
	}
	if filter.Period.IsZero() {
		filter.Period = core.Today().Period()
	}

	summary, err := api.svc.Summary(ctx.Request().Context(), filter.Period)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *expenseApi) retrieve(ctx echo.Context) error {
	e, err := contextObject[expense.Expense](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *expenseApi) update(ctx echo.Context) error {
	e, err := contextObject[expense.Expense](ctx)
	if err != nil {
		return err
	}

	var data expense.UpdateExpense
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateExpense")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	e, err = api.svc.Update(ctx.Request().Context(), e, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *expenseApi) destroy(ctx echo.Context) error {
	e, err := contextObject[expense.Expense](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), e.ID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *expenseApi) destroyMultiple(ctx echo.Context) error {
	var data DestroyMultipleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if len(data.IDs) > 0 {
		if err := api.svc.Delete(ctx.Request().Context(), data.IDs...); err != nil {
			return err
		}
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *expenseApi) export(ctx echo.Context) error {
	var filter expense.QueryFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &filter); err != nil {
		return err
	}

	doc, err := api.reports.ExpensesXLSX(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return attachment(ctx, contentTypeXLSX, report.Filename("expenses", filter.SpentTo), doc)
}
