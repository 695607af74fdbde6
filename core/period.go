package core

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const periodLayout = "2006-01"

var errInvalidPeriod = errors.New("invalid period, expected YYYY-MM")

// Period is a calendar month. It is the unit of billing.
type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year int, month time.Month) Period {
	return PeriodOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// PeriodOf returns the Period t falls in.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return Period{}, errInvalidPeriod
	}
	return PeriodOf(t), nil
}

func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

func (p Period) String() string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Start is midnight UTC of the first day of the month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is midnight UTC of the first day of the next month.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Day returns the given day of the month, clamped to the last day of the month.
func (p Period) Day(day int) time.Time {
	last := p.End().AddDate(0, 0, -1).Day()
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.UTC)
}

func (p Period) Next() Period { return PeriodOf(p.End()) }
func (p Period) Prev() Period { return PeriodOf(p.Start().AddDate(0, -1, 0)) }

func (p Period) Before(o Period) bool {
	return p.Year < o.Year || (p.Year == o.Year && p.Month < o.Month)
}

func (p Period) After(o Period) bool { return o.Before(p) }

// MonthsUntil returns the number of months between p and o; negative when o is before p.
func (p Period) MonthsUntil(o Period) int {
	return (o.Year-p.Year)*12 + int(o.Month) - int(p.Month)
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = Period{}
		return nil
	}
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalParam lets echo bind periods from query params.
func (p *Period) UnmarshalParam(param string) error {
	return p.UnmarshalText([]byte(param))
}

func (p Period) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return p.String(), nil
}

func (p *Period) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = Period{}
		return nil
	case string:
		return p.UnmarshalText([]byte(v))
	case []byte:
		return p.UnmarshalText(v)
	case time.Time:
		*p = PeriodOf(v)
		return nil
	default:
		return errors.Errorf("cannot scan %T into Period", src)
	}
}
