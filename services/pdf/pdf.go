package pdfsvc

import (
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	mcore "github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/payment"
	"github.com/onnetwireless/dashboard/core/quote"
)

const dateLayout = "02/01/2006"

// Renderer renders receipts and quotes as A4 PDF documents.
type Renderer struct {
	company  core.CompanyConfig
	currency string
	appName  string
}

var (
	_ payment.ReceiptRenderer = (*Renderer)(nil) // interface compliance check
	_ quote.Renderer          = (*Renderer)(nil)
)

func NewRenderer(conf *core.Config) *Renderer {
	return &Renderer{
		company:  conf.Company,
		currency: conf.Billing.CurrencySymbol,
		appName:  conf.AppName,
	}
}

func (r *Renderer) money(amount decimal.Decimal) string {
	return core.FormatMoney(r.currency, amount)
}

func (r *Renderer) newDocument() mcore.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Vertical).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		WithBottomMargin(10).
		Build()
	return maroto.New(cfg)
}

func (r *Renderer) addLetterhead(m mcore.Maroto, title, number string) {
	m.AddRow(10,
		text.NewCol(8, r.company.Name, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, title, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
	)

	var taxID string
	if r.company.TaxID != "" {
		taxID = "Tax ID: " + r.company.TaxID
	}
	m.AddRow(5,
		text.NewCol(8, taxID, props.Text{Size: 9}),
		text.NewCol(4, "No. "+number, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
	if r.company.Address != "" {
		m.AddRow(5, text.NewCol(12, r.company.Address, props.Text{Size: 9}))
	}
	if contact := joinNonEmpty(" | ", r.company.Phone, r.company.Email, r.company.Website); contact != "" {
		m.AddRow(5, text.NewCol(12, contact, props.Text{Size: 9}))
	}
	m.AddRow(4)
	m.AddRow(3, line.NewCol(12))
	m.AddRow(3)
}

func (r *Renderer) registerFooter(m mcore.Maroto) error {
	return m.RegisterFooter(
		row.New(5).Add(
			col.New(12).Add(line.New()),
		),
		row.New(6).Add(
			text.NewCol(12, "Generated by "+r.appName+" on "+time.Now().Format(dateLayout+" 15:04"),
				props.Text{Size: 7, Align: align.Center}),
		),
	)
}

// addField adds a label: value row.
func addField(m mcore.Maroto, label, value string) {
	if value == "" {
		value = "-"
	}
	m.AddRow(7,
		col.New(4).Add(text.New(label+":", props.Text{Size: 10, Style: fontstyle.Bold})),
		col.New(8).Add(text.New(value, props.Text{Size: 10})),
	)
}

func generate(m mcore.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "generating pdf")
	}
	return doc.GetBytes(), nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var s string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if s != "" {
			s += sep
		}
		s += p
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
