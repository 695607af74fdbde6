package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      Pagination
		n         int
		wantPage  Pagination
		wantStart int
		wantEnd   int
	}{
		{name: "defaults", page: Pagination{}, n: 50, wantPage: Pagination{Page: 1, PageSize: DefaultPageSize}, wantStart: 0, wantEnd: 20},
		{name: "second page", page: Pagination{Page: 2, PageSize: 20}, n: 50, wantPage: Pagination{Page: 2, PageSize: 20}, wantStart: 20, wantEnd: 40},
		{name: "last page", page: Pagination{Page: 3, PageSize: 20}, n: 50, wantPage: Pagination{Page: 3, PageSize: 20}, wantStart: 40, wantEnd: 50},
		{name: "out of range", page: Pagination{Page: 9, PageSize: 20}, n: 50, wantPage: Pagination{Page: 9, PageSize: 20}, wantStart: 50, wantEnd: 50},
		{name: "max size", page: Pagination{Page: 1, PageSize: 500}, n: 150, wantPage: Pagination{Page: 1, PageSize: MaxPageSize}, wantStart: 0, wantEnd: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.page
			p.Clean()
			assert.Equal(t, tt.wantPage, p)
			start, end := p.Bounds(tt.n)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestMapOrdering(t *testing.T) {
	columns := map[string]string{"name": "name", "fee": "monthly_fee"}
	got := MapOrdering([]DBOrdering{
		{Field: "fee", Ascending: false},
		{Field: "password; DROP TABLE customer", Ascending: true},
		{Field: "name", Ascending: true},
	}, columns)
	assert.Equal(t, []DBOrdering{{Field: "monthly_fee"}, {Field: "name", Ascending: true}}, got)
	assert.Equal(t, "monthly_fee DESC", got[0].String())
}
