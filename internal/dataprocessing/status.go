package dataprocessing

import (
	"strings"

	"logisticsmart/internal/config"
	"logisticsmart/pkg/contracts/domain"
)

// FilterByStatus keeps the rows whose status cell contains one of the
// indicator phrases of mode. "all", an unknown mode or an unmapped status
// column return the table unchanged.
func FilterByStatus(t *domain.Table, cols domain.ColumnMap, mode domain.StatusMode) *domain.Table {
	var indicators []string
	switch mode {
	case domain.StatusDelivered:
		indicators = config.DeliveredIndicators
	case domain.StatusPending:
		indicators = config.PendingIndicators
	default:
		return t
	}

	name, ok := cols.Column(domain.RoleStatus)
	if !ok {
		return t
	}
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return t
	}

	rows := make([][]domain.Cell, 0, len(t.Rows))
	for _, row := range t.Rows {
		status := strings.ToLower(row[idx].String())
		if containsAny(status, indicators) {
			rows = append(rows, row)
		}
	}
	return t.WithRows(rows)
}
