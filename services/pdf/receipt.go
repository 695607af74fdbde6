package pdfsvc

import (
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/onnetwireless/dashboard/core/payment"
)

func (r *Renderer) RenderReceipt(rc payment.Receipt) ([]byte, error) {
	m := r.newDocument()
	if err := r.registerFooter(m); err != nil {
		return nil, err
	}
	p := rc.Payment

	r.addLetterhead(m, "PAYMENT RECEIPT", p.ReceiptNumber)

	addField(m, "Received from", rc.Customer.Name)
	addField(m, "Document ID", rc.Customer.DocumentID)
	addField(m, "Address", rc.Customer.Address)
	addField(m, "Plan", strings.ToUpper(rc.Customer.Plan))
	m.AddRow(4)

	addField(m, "Date", p.PaidAt.Format(dateLayout))
	addField(m, "Period", p.Period.String())
	addField(m, "Payment method", capitalize(p.Method))
	if rc.Collector != nil {
		addField(m, "Collected by", rc.Collector.Name)
	}
	if p.Notes != "" {
		addField(m, "Notes", p.Notes)
	}
	m.AddRow(6)

	m.AddRow(12,
		text.NewCol(8, "AMOUNT PAID", props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
		text.NewCol(4, r.money(p.Amount), props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right, Top: 2}),
	)

	return generate(m)
}
