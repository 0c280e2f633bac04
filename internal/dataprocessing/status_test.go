package dataprocessing

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"logisticsmart/internal/shared/testutil"
	"logisticsmart/pkg/contracts/domain"
)

func statusTable(t *testing.T, statuses ...string) (*domain.Table, domain.ColumnMap) {
	rows := make([][]any, len(statuses))
	for i, s := range statuses {
		rows[i] = []any{"01/01/2025", "João", s}
	}
	return prepared(t, testutil.Table([]string{"Data prevista de entrega", "Entregador", "Status"}, rows...))
}

func TestFilterByStatus(t *testing.T) {
	table, cols := statusTable(t, "Pendente", "Entregue", "Entregado", "Cancelado")

	delivered := FilterByStatus(table, cols, domain.StatusDelivered)
	assert.Equal(t, []string{"Entregue", "Entregado"}, column(delivered, "Status"))

	pending := FilterByStatus(table, cols, domain.StatusPending)
	assert.Equal(t, []string{"Pendente"}, column(pending, "Status"))
}

func TestFilterByStatus_IndicatorPhrases(t *testing.T) {
	table, cols := statusTable(t, "EM ROTA", "aguardando retirada", "Em transito", "Finalizado", "OK", "concluido")

	assert.Equal(t, []string{"EM ROTA", "aguardando retirada", "Em transito"},
		column(FilterByStatus(table, cols, domain.StatusPending), "Status"))
	assert.Equal(t, []string{"Finalizado", "OK", "concluido"},
		column(FilterByStatus(table, cols, domain.StatusDelivered), "Status"))
}

func TestFilterByStatus_AllIsIdentity(t *testing.T) {
	faker := gofakeit.New(3)
	for i := 0; i < 10; i++ {
		table, cols := prepared(t, testutil.FakeDeliveries(faker, 40, testutil.Date(2025, 1, 1), 2))
		assert.Equal(t, table, FilterByStatus(table, cols, domain.StatusAll))
	}
}

func TestFilterByStatus_FailOpen(t *testing.T) {
	table, _ := statusTable(t, "Pendente", "Entregue")

	assert.Equal(t, 2, FilterByStatus(table, domain.ColumnMap{}, domain.StatusDelivered).Len(), "unmapped status column")
	assert.Equal(t, 2, FilterByStatus(table, domain.ColumnMap{domain.RoleStatus: "Status"}, "unknown").Len(), "unknown mode")
}
