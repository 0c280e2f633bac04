package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsmart/internal/shared/testutil"
	"logisticsmart/pkg/contracts/domain"
)

func TestComputeStatistics(t *testing.T) {
	table, cols := sampleTable(t)

	stats := ComputeStatistics(table, cols)

	assert.Equal(t, 5, stats.TotalRecords)
	require.NotNil(t, stats.DateRange)
	assert.True(t, stats.DateRange.Min.Equal(testutil.Date(2025, 1, 1)))
	assert.True(t, stats.DateRange.Max.Equal(testutil.Date(2025, 1, 5)))
	assert.Equal(t, 3, stats.UniqueDeliverers)
	assert.Equal(t, 3, stats.UniqueCities)
	assert.Equal(t, map[string]int{"Entregue": 1, "Pendente": 2, "Cancelado": 1, "Em rota": 1}, stats.StatusDistribution)
}

func TestComputeStatistics_Unmapped(t *testing.T) {
	table := testutil.Table([]string{"A"}, []any{"x"}, []any{"y"})

	stats := ComputeStatistics(table, domain.ColumnMap{})
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Nil(t, stats.DateRange)
	assert.Zero(t, stats.UniqueDeliverers)
	assert.Nil(t, stats.StatusDistribution)
}

func TestFilterOptions(t *testing.T) {
	table, cols := sampleTable(t)

	assert.Equal(t, []string{"Camaçari", "Lauro de Freitas", "Salvador"}, FilterOptions(table, cols, "cidade"))
	assert.Equal(t, []string{"João", "Maria", "Pedro"}, FilterOptions(table, cols, string(domain.RoleDeliverer)))
	assert.Equal(t, []string{"100", "20", "300", "50", "75"}, FilterOptions(table, cols, "Valor"))
	assert.Equal(t, []string{}, FilterOptions(table, cols, "desconhecida"))
}
