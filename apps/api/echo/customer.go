package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/customer"
)

type customerApi struct {
	svc     *customer.Service
	billing *billing.Service
}

func registerCustomerAPI(g *echo.Group, svc *customer.Service, billingSvc *billing.Service) {
	api := customerApi{svc: svc, billing: billingSvc}

	cg := g.Group("/customers")
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.DELETE("", api.destroyMultiple)

	// detail endpoints
	dg := cg.Group("/:id", objectMiddleware(api.svc.GetByID))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/debt", api.debt)
	dg.GET("/statuses", api.statuses)
	dg.PUT("/statuses", api.setStatus)
}

// Handlers

func (api *customerApi) create(ctx echo.Context) error {
	var data customer.NewCustomer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCustomer")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *customerApi) query(ctx echo.Context) error {
	filter := new(customer.QueryFilter)
	ordering, page, err := bindListing(ctx, filter)
	if err != nil {
		return err
	}

	customers, count, err := api.svc.Query(ctx.Request().Context(), filter, ordering, &page)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, core.NewPage(customers, count, page))
}

func (api *customerApi) retrieve(ctx echo.Context) error {
	c, err := contextObject[customer.Customer](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *customerApi) update(ctx echo.Context) error {
	c, err := contextObject[customer.Customer](ctx)
	if err != nil {
		return err
	}

	var data customer.UpdateCustomer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCustomer")
	}
	if err := data.Validate(ctx.Request().Context(), c, api.svc); err != nil {
		return err
	}

	c, err = api.svc.Update(ctx.Request().Context(), c, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *customerApi) destroy(ctx echo.Context) error {
	c, err := contextObject[customer.Customer](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), c.ID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *customerApi) destroyMultiple(ctx echo.Context) error {
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

type debtRequest struct {
	AsOf core.Date `query:"as_of"`
}

func (api *customerApi) debt(ctx echo.Context) error {
	c, err := contextObject[customer.Customer](ctx)
	if err != nil {
		return err
	}

	var data debtRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if data.AsOf.IsZero() {
		data.AsOf = core.Today()
	}

	debt, err := api.billing.Debt(ctx.Request().Context(), c, data.AsOf.Time)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, debt)
}

type statusesRequest struct {
	Year int `query:"year"`
}

func (api *customerApi) statuses(ctx echo.Context) error {
	c, err := contextObject[customer.Customer](ctx)
	if err != nil {
		return err
	}

	var data statusesRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	statuses, err := api.billing.Statuses(ctx.Request().Context(), c, data.Year)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, statuses)
}

func (api *customerApi) setStatus(ctx echo.Context) error {
	c, err := contextObject[customer.Customer](ctx)
	if err != nil {
		return err
	}

	var data billing.SetStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetStatus")
	}
	if err := data.Validate(ctx.Request().Context(), c); err != nil {
		return err
	}

	ms, err := api.billing.SetStatus(ctx.Request().Context(), c, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ms)
}
