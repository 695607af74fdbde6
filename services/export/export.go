package exportsvc

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/report"
)

const (
	moneyFormat = "#,##0.00"
	headerRow   = 4
)

// Exporter writes the report listings as xlsx workbooks.
type Exporter struct{}

var _ report.Exporter = (*Exporter)(nil) // interface compliance check

func NewExporter() *Exporter {
	return &Exporter{}
}

type column struct {
	title string
	width float64
	money bool
}

// sheet writes one titled table into a single-sheet workbook.
type sheet struct {
	f       *excelize.File
	name    string
	columns []column
	row     int

	titleStyle  int
	headerStyle int
	moneyStyle  int
	totalStyle  int
}

func newSheet(name string, columns []column) (*sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, errors.Wrap(err, "naming sheet")
	}
	s := &sheet{f: f, name: name, columns: columns, row: headerRow}

	var err error
	fmtMoney := moneyFormat
	if s.titleStyle, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return nil, errors.Wrap(err, "creating title style")
	}
	s.headerStyle, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating header style")
	}
	if s.moneyStyle, err = f.NewStyle(&excelize.Style{CustomNumFmt: &fmtMoney}); err != nil {
		return nil, errors.Wrap(err, "creating money style")
	}
	s.totalStyle, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &fmtMoney,
		Border:       []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating total style")
	}
	return s, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// writeTitle fills the two title lines above the table.
func (s *sheet) writeTitle(title, subtitle string) error {
	if err := s.f.SetCellValue(s.name, "A1", title); err != nil {
		return err
	}
	if err := s.f.SetCellStyle(s.name, "A1", "A1", s.titleStyle); err != nil {
		return err
	}
	return s.f.SetCellValue(s.name, "A2", subtitle)
}

func (s *sheet) writeHeader() error {
	titles := make([]interface{}, 0, len(s.columns))
	for i, c := range s.columns {
		titles = append(titles, c.title)
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := s.f.SetColWidth(s.name, colName, colName, c.width); err != nil {
			return err
		}
	}
	if err := s.f.SetSheetRow(s.name, cell(1, headerRow), &titles); err != nil {
		return err
	}
	if err := s.f.SetCellStyle(s.name, cell(1, headerRow), cell(len(s.columns), headerRow), s.headerStyle); err != nil {
		return err
	}
	return s.f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cell(1, headerRow+1),
		ActivePane:  "bottomLeft",
	})
}

// writeRow appends values; decimals are written as numbers.
func (s *sheet) writeRow(values ...interface{}) error {
	s.row++
	return s.setRow(s.row, s.moneyStyle, values)
}

func (s *sheet) writeTotal(values ...interface{}) error {
	s.row++
	if err := s.setRow(s.row, 0, values); err != nil {
		return err
	}
	return s.f.SetCellStyle(s.name, cell(1, s.row), cell(len(s.columns), s.row), s.totalStyle)
}

func (s *sheet) setRow(row, moneyStyle int, values []interface{}) error {
	cells := make([]interface{}, 0, len(values))
	for _, v := range values {
		if d, ok := v.(decimal.Decimal); ok {
			v = d.Round(2).InexactFloat64()
		}
		cells = append(cells, v)
	}
	if err := s.f.SetSheetRow(s.name, cell(1, row), &cells); err != nil {
		return err
	}
	if moneyStyle == 0 {
		return nil
	}
	for i, c := range s.columns {
		if c.money {
			if err := s.f.SetCellStyle(s.name, cell(i+1, row), cell(i+1, row), moneyStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *sheet) bytes() ([]byte, error) {
	defer func() { _ = s.f.Close() }()
	buf, err := s.f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf.Bytes(), nil
}

func dateRange(from, to core.Date) string {
	switch {
	case from.IsZero() && to.IsZero():
		return "All dates"
	case from.IsZero():
		return "Until " + to.String()
	case to.IsZero():
		return "From " + from.String()
	}
	return from.String() + " to " + to.String()
}

func periods(ps []core.Period) string {
	strs := make([]string, 0, len(ps))
	for _, p := range ps {
		strs = append(strs, p.String())
	}
	return strings.Join(strs, ", ")
}

func (e *Exporter) Debtors(ds report.DebtorsSheet) ([]byte, error) {
	s, err := newSheet("Debtors", []column{
		{title: "Customer", width: 30},
		{title: "Document ID", width: 16},
		{title: "Phone", width: 16},
		{title: "Monthly fee", width: 14, money: true},
		{title: "Months due", width: 12},
		{title: "Oldest due", width: 12},
		{title: "Due months", width: 40},
		{title: "Amount", width: 14, money: true},
	})
	if err != nil {
		return nil, err
	}
	if err = s.writeTitle(ds.Company.Name+" - Debtors", "As of "+ds.AsOf.String()); err != nil {
		return nil, errors.Wrap(err, "writing title")
	}
	if err = s.writeHeader(); err != nil {
		return nil, errors.Wrap(err, "writing header")
	}

	months := 0
	for _, d := range ds.Debts {
		err = s.writeRow(d.CustomerName, d.DocumentID, d.Phone, d.MonthlyFee, d.Count, d.OldestDue.String(), periods(d.DueMonths), d.Amount)
		if err != nil {
			return nil, errors.Wrap(err, "writing debtor")
		}
		months += d.Count
	}
	if err = s.writeTotal("TOTAL", "", "", "", months, "", "", billing.TotalDebt(ds.Debts)); err != nil {
		return nil, errors.Wrap(err, "writing total")
	}
	return s.bytes()
}

func (e *Exporter) Payments(ps report.PaymentsSheet) ([]byte, error) {
	s, err := newSheet("Payments", []column{
		{title: "Receipt", width: 14},
		{title: "Paid at", width: 18},
		{title: "Customer", width: 30},
		{title: "Period", width: 10},
		{title: "Method", width: 12},
		{title: "Collected by", width: 20},
		{title: "Amount", width: 14, money: true},
		{title: "Notes", width: 30},
	})
	if err != nil {
		return nil, err
	}
	if err = s.writeTitle(ps.Company.Name+" - Payments", dateRange(ps.From, ps.To)); err != nil {
		return nil, errors.Wrap(err, "writing title")
	}
	if err = s.writeHeader(); err != nil {
		return nil, errors.Wrap(err, "writing header")
	}

	for _, r := range ps.Rows {
		err = s.writeRow(r.ReceiptNumber, r.PaidAt.Format("2006-01-02 15:04"), r.CustomerName, r.Period.String(),
			r.Method, r.Collector, r.Amount, r.Notes)
		if err != nil {
			return nil, errors.Wrap(err, "writing payment")
		}
	}
	if err = s.writeTotal("TOTAL", ps.Totals.Count, "", "", "", "", ps.Totals.Amount); err != nil {
		return nil, errors.Wrap(err, "writing total")
	}
	return s.bytes()
}

func (e *Exporter) Expenses(es report.ExpensesSheet) ([]byte, error) {
	s, err := newSheet("Expenses", []column{
		{title: "Date", width: 12},
		{title: "Description", width: 36},
		{title: "Category", width: 14},
		{title: "Amount", width: 14, money: true},
		{title: "Notes", width: 30},
	})
	if err != nil {
		return nil, err
	}
	if err = s.writeTitle(es.Company.Name+" - Expenses", dateRange(es.From, es.To)); err != nil {
		return nil, errors.Wrap(err, "writing title")
	}
	if err = s.writeHeader(); err != nil {
		return nil, errors.Wrap(err, "writing header")
	}

	for _, x := range es.Expenses {
		if err = s.writeRow(x.SpentOn.String(), x.Description, x.Category, x.Amount, x.Notes); err != nil {
			return nil, errors.Wrap(err, "writing expense")
		}
	}
	if err = s.writeTotal("TOTAL", es.Totals.Count, "", es.Totals.Amount); err != nil {
		return nil, errors.Wrap(err, "writing total")
	}
	return s.bytes()
}
