package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/report"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, svc *report.Service) {
	api := reportApi{svc: svc}
	g.GET("/dashboard", api.dashboard)
}

type dashboardRequest struct {
	AsOf core.Date `query:"as_of"`
}

func (api *reportApi) dashboard(ctx echo.Context) error {
	var data dashboardRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}

	d, err := api.svc.Dashboard(ctx.Request().Context(), data.AsOf)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}
