package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsmart/pkg/contracts/domain"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local)

	for _, in := range []string{"05/01/2025", "2025-01-05", " 05/01/2025 "} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	_, err := ParseDate("01-05-2025")
	assert.Error(t, err)
}

func TestQueryRequest_ToFilterSpec(t *testing.T) {
	q := QueryRequest{
		Range:   &DateRangeRequest{Start: "01/01/2025", End: "2025-01-31"},
		Values:  map[string][]string{"cidade": {"Recife", "Olinda"}},
		Numeric: map[string]NumericRangeRequest{"Valor": {Min: 10, Max: 50}},
		Command: "  pendentes em recife ",
		Mode:    "Delivered",
	}

	spec, err := q.ToFilterSpec()
	require.NoError(t, err)
	require.NotNil(t, spec.Range)
	assert.Nil(t, spec.Date)
	assert.Equal(t, 31, spec.Range.End.Day())
	assert.Equal(t, domain.NumericRange{Min: 10, Max: 50}, spec.Numeric["Valor"])
	assert.Equal(t, "pendentes em recife", spec.Command)
	assert.True(t, spec.IsAdvanced())
	assert.Equal(t, domain.StatusDelivered, q.StatusMode())

	_, err = QueryRequest{Date: "ontem"}.ToFilterSpec()
	assert.Error(t, err)
	_, err = QueryRequest{Range: &DateRangeRequest{Start: "01/01/2025", End: "x"}}.ToFilterSpec()
	assert.Error(t, err)

	spec, err = QueryRequest{Date: "05/01/2025"}.ToFilterSpec()
	require.NoError(t, err)
	require.NotNil(t, spec.Date)
	assert.False(t, spec.IsAdvanced())
}

func TestExportRequest_ExportFormats(t *testing.T) {
	e := ExportRequest{Formats: []string{"Excel", "csv", "xlsx", "docx", "bogus"}}
	assert.Equal(t, []domain.ExportFormat{domain.FormatExcel, domain.FormatCSV, domain.FormatWord}, e.ExportFormats())
	assert.Empty(t, ExportRequest{}.ExportFormats())
}
