package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/payment"
	"github.com/onnetwireless/dashboard/core/report"
)

type paymentApi struct {
	svc     *payment.Service
	reports *report.Service
}

func registerPaymentAPI(g *echo.Group, svc *payment.Service, reports *report.Service) {
	api := paymentApi{svc: svc, reports: reports}

	g.GET("/payments.xlsx", api.export)

	pg := g.Group("/payments")
	pg.POST("", api.create)
	pg.GET("", api.query)

	dg := pg.Group("/:id", objectMiddleware(api.svc.GetByID))
	dg.GET("", api.retrieve)
	dg.DELETE("", api.void)
	dg.GET("/receipt.pdf", api.receipt)
	dg.POST("/receipt/send", api.sendReceipt)
}

func (api *paymentApi) create(ctx echo.Context) error {
	var data payment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *paymentApi) query(ctx echo.Context) error {
	filter := new(payment.QueryFilter)
	ordering, page, err := bindListing(ctx, filter)
	if err != nil {
		return err
	}

	payments, totals, err := api.svc.Query(ctx.Request().Context(), filter, ordering, &page)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, TotalsPage{
		Page:   core.NewPage(payments, totals.Count, page),
		Totals: totals,
	})
}

func (api *paymentApi) retrieve(ctx echo.Context) error {
	p, err := contextObject[payment.Payment](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

// void deletes the payment and reopens the month it paid.
func (api *paymentApi) void(ctx echo.Context) error {
	p, err := contextObject[payment.Payment](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Void(ctx.Request().Context(), p); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *paymentApi) receipt(ctx echo.Context) error {
	p, err := contextObject[payment.Payment](ctx)
	if err != nil {
		return err
	}

	doc, err := api.svc.ReceiptPDF(ctx.Request().Context(), p)
	if err != nil {
		return err
	}
	return attachment(ctx, contentTypePDF, payment.ReceiptFilename(p), doc)
}

// SendReceiptRequest overrides the recipient; the customer's email is used otherwise.
type SendReceiptRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Name  string `json:"name"`
}

func (api *paymentApi) sendReceipt(ctx echo.Context) error {
	p, err := contextObject[payment.Payment](ctx)
	if err != nil {
		return err
	}

	var data SendReceiptRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to SendReceiptRequest")
		}
	}
	data.Email = core.CleanString(data.Email, true /* lower */)
	if err := core.Validate.Struct(data); err != nil {
		return err
	}

	var to []mail.Address
	if data.Email != "" {
		to = append(to, mail.Address{Name: core.CleanString(data.Name), Address: data.Email})
	}
	if err := api.svc.SendReceipt(ctx.Request().Context(), p, to...); err != nil {
		return err
	}
	return ctx.JSON(http.StatusAccepted, SuccessResponse{"the receipt is on its way"})
}

func (api *paymentApi) export(ctx echo.Context) error {
	var filter payment.QueryFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &filter); err != nil {
		return err
	}

	doc, err := api.reports.PaymentsXLSX(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return attachment(ctx, contentTypeXLSX, report.Filename("payments", filter.PaidTo), doc)
}
