package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/shared/testutil"
	"logisticsmart/pkg/contracts/domain"
)

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(b)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"entregas.xlsx", FormatWorkbook, false},
		{"ENTREGAS.XLS", FormatWorkbook, false},
		{"entregas.csv", FormatCSV, false},
		{"entregas.txt", "", true},
		{"entregas", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadTable_CSVAttempts(t *testing.T) {
	t.Run("utf-8 semicolon", func(t *testing.T) {
		table, err := ReadTable([]byte("Data prevista de entrega;Cidade;Valor\n01/01/2025;Camaçari;10\n02/01/2025;Salvador;20.5\n"), "a.csv")
		require.NoError(t, err)

		assert.Equal(t, []string{"Data prevista de entrega", "Cidade", "Valor"}, table.Columns)
		assert.Equal(t, "Camaçari", table.Rows[0][1].String())
		assert.Equal(t, domain.NumberCell(20.5), table.Rows[1][2])
		assert.Equal(t, domain.KindNumber, table.Kinds[2])
	})

	t.Run("latin-1 semicolon", func(t *testing.T) {
		data := latin1(t, "Data prevista de entrega;Cidade\n01/01/2025;Camaçari\n02/01/2025;Dias D'Ávila\n")

		table, err := ReadTable(data, "a.csv")
		require.NoError(t, err)
		assert.Equal(t, []string{"Camaçari", "Dias D'Ávila"}, []string{table.Rows[0][1].Str, table.Rows[1][1].Str})
	})

	t.Run("utf-8 comma", func(t *testing.T) {
		table, err := ReadTable([]byte("Data prevista de entrega,Entregador\n01/01/2025,João\n"), "a.csv")
		require.NoError(t, err)
		assert.Equal(t, []string{"Data prevista de entrega", "Entregador"}, table.Columns)
		assert.Equal(t, "João", table.Rows[0][1].String())
	})

	t.Run("byte order mark", func(t *testing.T) {
		table, err := ReadTable([]byte("\xEF\xBB\xBFData prevista de entrega;Cidade\n01/01/2025;Salvador\n"), "a.csv")
		require.NoError(t, err)
		assert.Equal(t, "Data prevista de entrega", table.Columns[0])
	})

	t.Run("every attempt fails", func(t *testing.T) {
		_, err := ReadTable([]byte("a;b\n\"x;1\n"), "quebrado.csv")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrParseFailure))
	})
}

func TestReadTable_CSVCells(t *testing.T) {
	table, err := ReadTable([]byte(";Cidade;Cidade;Codigo\n;Salvador;;00123\nx;;Lauro;abc\n"), "a.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Unnamed: 0", "Cidade", "Cidade.1", "Codigo"}, table.Columns)
	assert.True(t, table.Rows[0][0].IsNull())
	assert.True(t, table.Rows[0][2].IsNull())
	assert.Equal(t, domain.StringCell("00123"), table.Rows[0][3], "mixed column stays text")
	assert.Equal(t, domain.KindText, table.Kinds[3])
}

func TestReadTable_ShortRowsArePadded(t *testing.T) {
	table, err := ReadTable([]byte("A;B;C\n1\n2;3\n"), "a.csv")
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	for _, row := range table.Rows {
		assert.Len(t, row, 3)
	}
	assert.True(t, table.Rows[0][2].IsNull())
}

func TestReadTable_Empty(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("  \n"), []byte("\xEF\xBB\xBF")} {
		_, err := ReadTable(data, "vazio.csv")
		assert.True(t, errors.Is(err, apperrors.ErrEmptyInput), "got %v", err)
	}
}

func TestCleanHeader(t *testing.T) {
	assert.Equal(t,
		[]string{"A", "A.1", "A.2", "Unnamed: 3", "A.1.1", "B"},
		cleanHeader([]string{"A", "A", " A ", "", "A.1", "B"}))
}

func TestReadTable_Workbook(t *testing.T) {
	due := time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local)
	data := testutil.WorkbookBytes(t, "Planilha1", []string{"Data prevista de entrega", "Entregador", "Valor", "Obs"},
		[]any{due, "João", 10, nil},
		[]any{"03/01/2025", "Maria", 12.5, "ok"},
	)

	table, err := ReadTable(data, "entregas.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Data prevista de entrega", "Entregador", "Valor", "Obs"}, table.Columns)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	require.Equal(t, domain.CellDate, first[0].Kind)
	assert.Equal(t, "2025-01-02", first[0].Time.Format("2006-01-02"))
	assert.Equal(t, domain.StringCell("João"), first[1])
	assert.Equal(t, domain.NumberCell(10), first[2])
	assert.True(t, first[3].IsNull())

	assert.Equal(t, domain.StringCell("03/01/2025"), table.Rows[1][0])
	assert.Equal(t, domain.KindNumber, table.Kinds[2])
}

func TestReadTable_CorruptWorkbook(t *testing.T) {
	_, err := ReadTable([]byte("definitely not a zip archive"), "entregas.xlsx")
	assert.True(t, errors.Is(err, apperrors.ErrParseFailure))
}

func TestIsDateFormat(t *testing.T) {
	custom := func(s string) *string { return &s }

	assert.True(t, isDateFormat(14, nil))
	assert.True(t, isDateFormat(22, nil))
	assert.False(t, isDateFormat(2, nil))
	assert.True(t, isDateFormat(0, custom("dd/mm/yyyy")))
	assert.False(t, isDateFormat(0, custom(`0.00" dias"`)))
	assert.False(t, isDateFormat(0, custom("[Red]0.00")))
}
