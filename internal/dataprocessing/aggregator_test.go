package dataprocessing

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsmart/internal/shared/testutil"
	"logisticsmart/pkg/contracts/domain"
)

func TestGroupByDeliverer_Scenario(t *testing.T) {
	table, cols := prepared(t, testutil.Table([]string{"Data prevista de entrega", "Entregador"},
		[]any{"2025-01-01", "João"},
		[]any{"2025-01-01", "Maria"},
		[]any{"2025-01-01", "João"},
	))
	day := testutil.Date(2025, 1, 1)

	got := GroupByDeliverer(ApplyFilters(table, cols, domain.FilterSpec{Date: &day}), cols)

	assert.Equal(t, []string{"Entregador", "Quantidade", "Percentual"}, got.Columns)
	assert.Equal(t, []domain.AggregateRow{
		{Deliverer: "João", Count: 2, Percentage: 66.7},
		{Deliverer: "Maria", Count: 1, Percentage: 33.3},
	}, got.Rows)
}

func TestGroupByDeliverer_PercentHalvesRoundToEven(t *testing.T) {
	rows := [][]any{{"2025-01-01", "Ana"}}
	for i := 0; i < 3; i++ {
		rows = append(rows, []any{"2025-01-01", "Bruno"})
	}
	for i := 0; i < 12; i++ {
		rows = append(rows, []any{"2025-01-01", "Carla"})
	}
	table, cols := prepared(t, testutil.Table([]string{"Data prevista de entrega", "Entregador"}, rows...))

	got := GroupByDeliverer(table, cols)
	require.Len(t, got.Rows, 3)
	// 1/16 = 6.25%, 3/16 = 18.75%
	assert.Equal(t, domain.AggregateRow{Deliverer: "Carla", Count: 12, Percentage: 75}, got.Rows[0])
	assert.Equal(t, domain.AggregateRow{Deliverer: "Bruno", Count: 3, Percentage: 18.8}, got.Rows[1])
	assert.Equal(t, domain.AggregateRow{Deliverer: "Ana", Count: 1, Percentage: 6.2}, got.Rows[2])
}

func TestGroupByDeliverer_TiesKeepFirstSeenOrder(t *testing.T) {
	table, cols := prepared(t, testutil.Table([]string{"Data prevista de entrega", "Entregador"},
		[]any{"2025-01-01", "Carla"},
		[]any{"2025-01-01", "Bruno"},
		[]any{"2025-01-01", "Ana"},
		[]any{"2025-01-01", "Bruno"},
		[]any{"2025-01-01", "Ana"},
	))

	got := GroupByDeliverer(table, cols)
	names := []string{}
	for _, r := range got.Rows {
		names = append(names, r.Deliverer)
	}
	assert.Equal(t, []string{"Bruno", "Ana", "Carla"}, names)
}

func TestGroupByDeliverer_Unmapped(t *testing.T) {
	table := testutil.Table([]string{"Data prevista de entrega"}, []any{"2025-01-01"})

	got := GroupByDeliverer(table, domain.ColumnMap{})
	assert.Equal(t, []string{"Entregador", "Quantidade"}, got.Columns)
	assert.Empty(t, got.Rows)

	empty := GroupByDeliverer(table.WithRows(nil), domain.ColumnMap{domain.RoleDeliverer: "Entregador"})
	assert.Equal(t, []string{"Entregador", "Quantidade"}, empty.Columns)
}

func TestGroupByDeliverer_CountsSumToRows(t *testing.T) {
	faker := gofakeit.New(2025)
	for i := 0; i < 30; i++ {
		raw := testutil.FakeDeliveries(faker, faker.Number(1, 200), testutil.Date(2025, 1, 1), 3)
		for j := range raw.Rows {
			if faker.Number(0, 9) == 0 {
				raw.Rows[j][1] = domain.NullCell()
			}
		}
		table, cols := prepared(t, raw)

		got := GroupByDeliverer(table, cols)
		require.Equal(t, table.Len(), got.Total())

		for k := 1; k < len(got.Rows); k++ {
			require.GreaterOrEqual(t, got.Rows[k-1].Count, got.Rows[k].Count)
		}
	}
}

func TestAggregateTable(t *testing.T) {
	tb := AggregateTable(domain.AggregateResult{
		Columns: []string{ColDeliverer, ColCount, ColPercentage},
		Rows:    []domain.AggregateRow{{Deliverer: "João", Count: 2, Percentage: 66.7}},
	})

	assert.Equal(t, []string{"Entregador", "Quantidade", "Percentual"}, tb.Columns)
	assert.Equal(t, "João", tb.Rows[0][0].String())
	assert.Equal(t, "2", tb.Rows[0][1].String())
	assert.Equal(t, "66.7", tb.Rows[0][2].String())
}
