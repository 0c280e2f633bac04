package dataprocessing

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/shared/testutil"
	"logisticsmart/pkg/contracts/domain"
)

func newTestPipeline(t *testing.T) (*Pipeline, *testutil.LogCapture) {
	logger, handler := testutil.NewTestLogger(t)
	return NewPipeline(Options{RequiredColumns: required, Dates: DefaultDateOptions()}, logger), handler
}

func TestPipeline_Prepare(t *testing.T) {
	p, _ := newTestPipeline(t)
	raw := testutil.Table(testutil.DeliveryColumns,
		[]any{"01/01/2025", " João ", "Salvador", "Entregue", "EZ", "Ana", 10},
		[]any{"sem data", "Maria", "Camaçari", "Pendente", "EZ", "Bia", 20},
	)

	got, err := p.Prepare(raw)
	require.NoError(t, err)

	assert.Equal(t, 2, got.RawRows)
	assert.Equal(t, 1, got.Table.Len())
	assert.Equal(t, testutil.DeliveryColumns, got.OriginalColumns)
	assert.Equal(t, "Entregador", got.Columns[domain.RoleDeliverer])
	assert.Equal(t, "João", got.Table.Rows[0][1].String())
	assert.Equal(t, 2, raw.Len(), "raw table is not modified")
}

func TestPipeline_PrepareFailures(t *testing.T) {
	tests := []struct {
		name   string
		raw    *domain.Table
		target error
	}{
		{"no rows", testutil.Table(testutil.DeliveryColumns), apperrors.ErrEmptyInput},
		{"only blanks", testutil.Table([]string{"Data prevista de entrega"}, []any{nil}, []any{"  "}), apperrors.ErrEmptyInput},
		{"missing column", testutil.Table([]string{"Entregador"}, []any{"João"}), apperrors.ErrMissingRequiredColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, handler := newTestPipeline(t)

			got, err := p.Prepare(tt.raw)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			testutil.AssertLogContains(t, handler, slog.LevelWarn, "validation failed")
		})
	}
}
