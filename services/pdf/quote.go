package pdfsvc

import (
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	mcore "github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core/quote"
)

func (r *Renderer) RenderQuote(q quote.Quote) ([]byte, error) {
	m := r.newDocument()
	if err := r.registerFooter(m); err != nil {
		return nil, err
	}

	r.addLetterhead(m, "QUOTE", q.Number)

	addField(m, "Client", q.ClientName)
	addField(m, "Phone", q.ClientPhone)
	addField(m, "Email", q.ClientEmail)
	addField(m, "Address", q.ClientAddress)
	addField(m, "Date", q.CreatedAt.Format(dateLayout))
	if !q.ValidUntil.IsZero() {
		addField(m, "Valid until", q.ValidUntil.Format(dateLayout))
	}
	m.AddRow(6)

	header := props.Text{Size: 10, Style: fontstyle.Bold}
	headerRight := props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}
	m.AddRow(7,
		text.NewCol(6, "Description", header),
		text.NewCol(2, "Qty", headerRight),
		text.NewCol(2, "Unit price", headerRight),
		text.NewCol(2, "Total", headerRight),
	)
	m.AddRow(2, line.NewCol(12))

	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}
	for _, it := range q.Items {
		m.AddRow(6,
			text.NewCol(6, it.Description, cell),
			text.NewCol(2, it.Quantity.String(), cellRight),
			text.NewCol(2, r.money(it.UnitPrice), cellRight),
			text.NewCol(2, r.money(it.LineTotal), cellRight),
		)
	}
	m.AddRow(2, line.NewCol(12))

	r.addTotal(m, "Subtotal", q.Subtotal, false)
	if q.DiscountAmount.IsPositive() {
		r.addTotal(m, "Discount ("+q.DiscountPct.String()+"%)", q.DiscountAmount.Neg(), false)
	}
	if q.TaxAmount.IsPositive() {
		r.addTotal(m, "Tax ("+q.TaxPct.String()+"%)", q.TaxAmount, false)
	}
	r.addTotal(m, "TOTAL", q.Total, true)

	if q.Notes != "" {
		m.AddRow(6)
		addField(m, "Notes", q.Notes)
	}
	return generate(m)
}

func (r *Renderer) addTotal(m mcore.Maroto, label string, amount decimal.Decimal, bold bool) {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	m.AddRow(6,
		text.NewCol(10, label, props.Text{Size: 10, Style: style, Align: align.Right}),
		text.NewCol(2, r.money(amount), props.Text{Size: 10, Style: style, Align: align.Right}),
	)
}
