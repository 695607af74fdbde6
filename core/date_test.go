package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		want    Date
		wantErr bool
	}{
		{name: "date", str: "2024-02-29", want: NewDate(2024, time.February, 29)},
		{name: "rfc3339", str: "2024-02-29T15:04:05Z", want: NewDate(2024, time.February, 29)},
		{name: "invalid", str: "29/02/2024", wantErr: true},
		{name: "not a leap year", str: "2023-02-29", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.str)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want.Time) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Day Date `json:"day"`
	}

	data, err := json.Marshal(payload{Day: NewDate(2024, time.May, 3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day": "2024-05-03"}`, string(data))

	data, err = json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day": null}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"day": "2024-05-03"}`), &p))
	assert.Equal(t, "2024-05-03", p.Day.String())
	assert.Equal(t, NewPeriod(2024, time.May), p.Day.Period())

	require.NoError(t, json.Unmarshal([]byte(`{"day": null}`), &p))
	assert.True(t, p.Day.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"day": "yesterday"}`), &p))
}
