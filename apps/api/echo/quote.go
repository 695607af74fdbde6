package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/quote"
)

type quoteApi struct {
	svc *quote.Service
}

func registerQuoteAPI(g *echo.Group, svc *quote.Service) {
	api := quoteApi{svc: svc}

	qg := g.Group("/quotes")
	qg.POST("", api.create)
	qg.GET("", api.query)
	qg.DELETE("", api.destroyMultiple)

	dg := qg.Group("/:id", objectMiddleware(api.svc.GetByID))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/pdf", api.pdf)
}

func (api *quoteApi) create(ctx echo.Context) error {
	var data quote.NewQuote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuote")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	q, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *quoteApi) query(ctx echo.Context) error {
	filter := new(quote.QueryFilter)
	ordering, page, err := bindListing(ctx, filter)
	if err != nil {
		return err
	}

	quotes, count, err := api.svc.Query(ctx.Request().Context(), filter, ordering, &page)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, core.NewPage(quotes, count, page))
}

func (api *quoteApi) retrieve(ctx echo.Context) error {
	q, err := contextObject[quote.Quote](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *quoteApi) update(ctx echo.Context) error {
	q, err := contextObject[quote.Quote](ctx)
	if err != nil {
		return err
	}

	var data quote.UpdateQuote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuote")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	q, err = api.svc.Update(ctx.Request().Context(), q, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *quoteApi) destroy(ctx echo.Context) error {
	q, err := contextObject[quote.Quote](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), q.ID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *quoteApi) destroyMultiple(ctx echo.Context) error {
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

func (api *quoteApi) pdf(ctx echo.Context) error {
	q, err := contextObject[quote.Quote](ctx)
	if err != nil {
		return err
	}

	doc, err := api.svc.PDF(q)
	if err != nil {
		return err
	}
	return attachment(ctx, contentTypePDF, quote.Filename(q), doc)
}
