package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_String(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"null", NullCell(), ""},
		{"text", StringCell("Salvador"), "Salvador"},
		{"integer number", NumberCell(42), "42"},
		{"fractional number", NumberCell(2.50), "2.5"},
		{"midnight date", DateCell(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)), "2026-03-15"},
		{"date with time", DateCell(time.Date(2026, 3, 15, 9, 5, 7, 0, time.UTC)), "2026-03-15 09:05:07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.String())
		})
	}
}

func TestCell_EqualAndEmpty(t *testing.T) {
	assert.True(t, NumberCell(1).Equal(NumberCell(1)))
	assert.False(t, NumberCell(1).Equal(StringCell("1")), "kinds differ")
	assert.True(t, NullCell().Equal(NullCell()))

	assert.True(t, NullCell().IsEmpty())
	assert.True(t, StringCell("").IsEmpty())
	assert.False(t, NumberCell(0).IsEmpty())
	assert.False(t, StringCell("").IsNull())
}

func TestInferKinds(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	rows := [][]Cell{
		{NumberCell(1), DateCell(day), StringCell("a"), NullCell()},
		{NullCell(), DateCell(day), NumberCell(3), NullCell()},
		{NumberCell(2.5), StringCell(""), StringCell("b"), NullCell()},
	}

	kinds := InferKinds([]string{"n", "d", "mixed", "empty"}, rows)

	assert.Equal(t, []ColumnKind{KindNumber, KindDate, KindText, KindText}, kinds)
}

func TestTable_Lookup(t *testing.T) {
	tbl := NewTable([]string{"Entregador", "Cidade"}, [][]Cell{
		{StringCell("Ana"), StringCell("Recife")},
	})

	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 1, tbl.ColumnIndex("Cidade"))
	assert.Equal(t, -1, tbl.ColumnIndex("cidade"))
	assert.Equal(t, 1, tbl.FindColumn("cidade"))
	assert.Equal(t, -1, tbl.FindColumn("Status"))
	assert.Equal(t, KindText, tbl.Kind(7))

	var nilTable *Table
	assert.Zero(t, nilTable.Len())
}

func TestTable_CloneIsIndependent(t *testing.T) {
	tbl := NewTable([]string{"a"}, [][]Cell{{StringCell("x")}})

	clone := tbl.Clone()
	clone.Rows[0][0] = StringCell("y")
	clone.Columns[0] = "b"

	assert.Equal(t, "x", tbl.Rows[0][0].Str)
	assert.Equal(t, "a", tbl.Columns[0])
}

func TestTable_MarshalJSON(t *testing.T) {
	tbl := NewTable([]string{"Entregador", "Volumes", "Data"}, [][]Cell{
		{StringCell("Ana"), NumberCell(3), DateCell(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))},
		{StringCell("Bruno"), NullCell(), NullCell()},
	})

	data, err := json.Marshal(tbl)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"columns": ["Entregador", "Volumes", "Data"],
		"rows": [["Ana", 3, "2026-03-15"], ["Bruno", null, null]]
	}`, string(data))

	records := tbl.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "Bruno", records[1]["Entregador"].Str)
}
