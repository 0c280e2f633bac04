package dataprocessing

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsmart/internal/shared/testutil"
	"logisticsmart/pkg/contracts/domain"
)

func TestPreprocess(t *testing.T) {
	raw := testutil.Table([]string{"Data prevista de entrega", "Entregador", "Cidade", "Valor"},
		[]any{"01/01/2025", "  João ", "nan", 10},
		[]any{"sem data", "Maria", "Salvador", 20},
		[]any{nil, "Ana", "Camaçari", 30},
		[]any{"2025-01-02", nil, "NaN", nil},
	)
	cols := DetectColumns(raw.Columns, required)

	got := Preprocess(raw, cols, DateOptions{DayFirst: true, Location: time.UTC})

	require.Equal(t, 2, got.Len())
	assert.Equal(t, domain.KindDate, got.Kinds[0])
	assert.Equal(t, domain.KindNumber, got.Kinds[3])

	first := got.Rows[0]
	assert.Equal(t, domain.CellDate, first[0].Kind)
	assert.Equal(t, "2025-01-01", first[0].String())
	assert.Equal(t, domain.StringCell("João"), first[1])
	assert.Equal(t, domain.StringCell(""), first[2])
	assert.Equal(t, domain.NumberCell(10), first[3])

	second := got.Rows[1]
	assert.Equal(t, domain.StringCell(""), second[1])
	assert.Equal(t, domain.StringCell(""), second[2])
	assert.True(t, second[3].IsNull(), "numeric nulls are kept as null")
}

func TestPreprocess_DoesNotModifyInput(t *testing.T) {
	raw := testutil.Table([]string{"Data prevista de entrega", "Entregador"},
		[]any{"01/01/2025", " João "},
	)
	before := raw.Clone()

	Preprocess(raw, DetectColumns(raw.Columns, required), DefaultDateOptions())
	assert.Equal(t, before, raw)
}

func TestPreprocess_WithoutDateColumn(t *testing.T) {
	raw := testutil.Table([]string{"Entregador", "Cidade"},
		[]any{" João ", nil},
		[]any{nil, nil},
	)

	got := Preprocess(raw, domain.ColumnMap{}, DefaultDateOptions())
	require.Equal(t, 1, got.Len(), "rows with only empty cells are dropped")
	assert.Equal(t, "João", got.Rows[0][0].String())
}

func TestPreprocess_NeverLeavesNullDueDate(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 20; i++ {
		raw := testutil.FakeDeliveries(faker, 50, testutil.Date(2025, 1, 1), 5)
		for j := range raw.Rows {
			if faker.Bool() {
				raw.Rows[j][0] = domain.StringCell(faker.Word())
			}
		}
		cols := DetectColumns(raw.Columns, required)
		got := Preprocess(raw, cols, DefaultDateOptions())

		for _, row := range got.Rows {
			assert.Equal(t, domain.CellDate, row[0].Kind)
		}
	}
}

func TestPreprocess_Idempotent(t *testing.T) {
	faker := gofakeit.New(7)
	raw := testutil.FakeDeliveries(faker, 80, testutil.Date(2025, 3, 1), 3)
	raw.Rows[0][1] = domain.StringCell("  nan ")
	raw.Rows[1][2] = domain.NullCell()
	cols := DetectColumns(raw.Columns, required)

	once := Preprocess(raw, cols, DefaultDateOptions())
	twice := Preprocess(once, cols, DefaultDateOptions())

	assert.Equal(t, once, twice)
}
