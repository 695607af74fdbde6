package sqlxrepos

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onnetwireless/dashboard/core"
)

func Test_where(t *testing.T) {
	tests := []struct {
		name      string
		build     func(w *where)
		wantQuery string
		wantArgs  []interface{}
	}{
		{name: "empty", build: func(w *where) {}, wantQuery: ""},
		{
			name:      "single condition",
			build:     func(w *where) { w.add("period = ?", "2024-03") },
			wantQuery: " WHERE period = ?",
			wantArgs:  []interface{}{"2024-03"},
		},
		{
			name: "in expands every value",
			build: func(w *where) {
				w.in("status", []string{"active", "suspended"})
				w.in("plan", nil)
				w.add("payment_day = ?", 5)
			},
			wantQuery: " WHERE status IN (?, ?) AND payment_day = ?",
			wantArgs:  []interface{}{"active", "suspended", 5},
		},
		{
			name:      "search on every column",
			build:     func(w *where) { w.search("ana", "name", "email") },
			wantQuery: ` WHERE (name ILIKE ? ESCAPE '\' OR email ILIKE ? ESCAPE '\')`,
			wantArgs:  []interface{}{"%ana%", "%ana%"},
		},
		{
			name:      "search wildcards are literal",
			build:     func(w *where) { w.search(`50%_off\`, "notes") },
			wantQuery: ` WHERE (notes ILIKE ? ESCAPE '\')`,
			wantArgs:  []interface{}{`%50\%\_off\\%`},
		},
		{name: "blank search", build: func(w *where) { w.search("", "name") }, wantQuery: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w where
			tt.build(&w)
			assert.NoError(t, w.err)
			assert.Equal(t, tt.wantQuery, w.String())
			assert.Equal(t, tt.wantArgs, w.args)
		})
	}
}

func Test_orderBy(t *testing.T) {
	assert.Equal(t, "", orderBy(nil))
	assert.Equal(t, " ORDER BY amount DESC, name ASC", orderBy([]core.DBOrdering{
		{Field: "amount"},
		{Field: "name", Ascending: true},
	}))
}

func Test_paginate(t *testing.T) {
	assert.Equal(t, "", paginate(nil))
	assert.Equal(t, "", paginate(&core.Pagination{}))
	assert.Equal(t, " LIMIT 20 OFFSET 40", paginate(&core.Pagination{Page: 3, PageSize: 20}))
	assert.Equal(t, " LIMIT 10 OFFSET 0", paginate(&core.Pagination{Page: 1, PageSize: 10}))
}

func Test_validIDs(t *testing.T) {
	id := "6f1c8b2e-3f4a-4c5d-9e8f-0a1b2c3d4e5f"
	assert.Equal(t, []string{id}, validIDs([]string{"lol", id, ""}))
	assert.Empty(t, validIDs(nil))
}
