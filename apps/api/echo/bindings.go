package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/onnetwireless/dashboard/core"
)

const (
	orderingParam = "ordering"

	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Ordering binds `?ordering=name,-created_at`; a leading "-" sorts descending.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindPagination binds `?page=&page_size=`; the result is always clean.
func bindPagination(ctx echo.Context) (core.Pagination, error) {
	var p core.Pagination
	err := echo.QueryParamsBinder(ctx).
		Int("page", &p.Page).
		Int("page_size", &p.PageSize).
		BindError()
	if err != nil {
		return p, err
	}
	p.Clean()
	return p, nil
}

// bindListing binds the query filter, ordering and pagination of a listing endpoint.
func bindListing(ctx echo.Context, filter interface{}) ([]core.DBOrdering, core.Pagination, error) {
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, filter); err != nil {
		return nil, core.Pagination{}, err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page, err := bindPagination(ctx)
	return ordering.Orderings, page, err
}

// attachment sends data as a downloadable file.
func attachment(ctx echo.Context, contentType, filename string, data []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(200, contentType, data)
}

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}

	// TotalsPage is a Page carrying the totals of every match.
	TotalsPage struct {
		core.Page
		Totals interface{} `json:"totals"`
	}
)
