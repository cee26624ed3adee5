package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "iso", input: "2024-01-15", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "iso with time", input: "2024-01-15 13:45:00", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "us slashes", input: "01/15/2024", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "alternative iso", input: "2024/01/15", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding whitespace", input: "  2024-01-15  ", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "month name", input: "Jan 2, 2024", want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "not a date", input: "N/A", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "integer", input: "42", want: 42},
		{name: "decimal", input: "3.14", want: 3.14},
		{name: "negative", input: "-5", want: -5},
		{name: "thousands separators", input: "1,234,567.89", want: 1234567.89},
		{name: "currency prefix", input: "$19.99", want: 19.99},
		{name: "whitespace", input: " 7 ", want: 7},
		{name: "not numeric", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumber(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
