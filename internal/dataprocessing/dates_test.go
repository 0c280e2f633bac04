package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"logisticsmart/pkg/contracts/domain"
)

func TestParseDate(t *testing.T) {
	utc := DateOptions{DayFirst: true, Location: time.UTC}

	tests := []struct {
		name string
		cell domain.Cell
		opts DateOptions
		want string
		ok   bool
	}{
		{"iso", domain.StringCell("2025-01-31"), utc, "2025-01-31", true},
		{"iso datetime", domain.StringCell("2025-01-31 14:30:00"), utc, "2025-01-31 14:30:00", true},
		{"day first", domain.StringCell("03/02/2025"), utc, "2025-02-03", true},
		{"day first single digits", domain.StringCell("3/2/2025"), utc, "2025-02-03", true},
		{"day first dashes", domain.StringCell("03-02-2025"), utc, "2025-02-03", true},
		{"day first dots", domain.StringCell("03.02.2025"), utc, "2025-02-03", true},
		{"two digit year", domain.StringCell("03/02/25"), utc, "2025-02-03", true},
		{"month first", domain.StringCell("03/02/2025"), DateOptions{DayFirst: false, Location: time.UTC}, "2025-03-02", true},
		{"excel serial", domain.NumberCell(45658), utc, "2025-01-01", true},
		{"trimmed", domain.StringCell("  2025-01-01 "), utc, "2025-01-01", true},
		{"date cell", domain.DateCell(time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)), utc, "2024-12-24", true},
		{"garbage", domain.StringCell("amanhã"), utc, "", false},
		{"nan", domain.StringCell("nan"), utc, "", false},
		{"invalid day", domain.StringCell("31/02/2025"), utc, "", false},
		{"null", domain.NullCell(), utc, "", false},
		{"tiny number", domain.NumberCell(0.5), utc, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.cell, tt.opts)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, domain.DateCell(got).String())
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)
	c := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}
