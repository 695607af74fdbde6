package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/employee"
)

type employeeApi struct {
	svc *employee.Service
}

func registerEmployeeAPI(g *echo.Group, svc *employee.Service) {
	api := employeeApi{svc: svc}

	eg := g.Group("/employees")
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.DELETE("", api.destroyMultiple)

	dg := eg.Group("/:id", objectMiddleware(api.svc.GetByID))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *employeeApi) create(ctx echo.Context) error {
	var data employee.NewEmployee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEmployee")
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

func (api *employeeApi) query(ctx echo.Context) error {
	filter := new(employee.QueryFilter)
	ordering, page, err := bindListing(ctx, filter)
	if err != nil {
		return err
	}

	employees, count, err := api.svc.Query(ctx.Request().Context(), filter, ordering, &page)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, core.NewPage(employees, count, page))
}

func (api *employeeApi) retrieve(ctx echo.Context) error {
	e, err := contextObject[employee.Employee](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *employeeApi) update(ctx echo.Context) error {
	e, err := contextObject[employee.Employee](ctx)
	if err != nil {
		return err
	}

	var data employee.UpdateEmployee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEmployee")
	}
	if err := data.Validate(ctx.Request().Context(), e, api.svc); err != nil {
		return err
	}

	e, err = api.svc.Update(ctx.Request().Context(), e, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *employeeApi) destroy(ctx echo.Context) error {
	e, err := contextObject[employee.Employee](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), e.ID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *employeeApi) destroyMultiple(ctx echo.Context) error {
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
