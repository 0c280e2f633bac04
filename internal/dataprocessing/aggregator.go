package dataprocessing

import (
	"math"
	"sort"

	"logisticsmart/pkg/contracts/domain"
)

// Output column names of the grouped report
const (
	ColDeliverer  = "Entregador"
	ColCount      = "Quantidade"
	ColPercentage = "Percentual"
)

// GroupByDeliverer counts rows per deliverer, most frequent first. Ties keep
// the order in which deliverers first appear. Every row is counted, so the
// counts always sum to the table length. Without a mapped deliverer column
// or rows the result is empty with only the name and count columns.
func GroupByDeliverer(t *domain.Table, cols domain.ColumnMap) domain.AggregateResult {
	empty := domain.AggregateResult{Columns: []string{ColDeliverer, ColCount}, Rows: []domain.AggregateRow{}}

	name, ok := cols.Column(domain.RoleDeliverer)
	if !ok || t.Len() == 0 {
		return empty
	}
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return empty
	}

	counts := make(map[string]int)
	var order []string
	for _, row := range t.Rows {
		key := row[idx].String()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	total := float64(t.Len())
	rows := make([]domain.AggregateRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, domain.AggregateRow{
			Deliverer:  key,
			Count:      counts[key],
			Percentage: round1(100 * float64(counts[key]) / total),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	return domain.AggregateResult{
		Columns: []string{ColDeliverer, ColCount, ColPercentage},
		Rows:    rows,
	}
}

// AggregateTable converts a grouped result into a table for export
func AggregateTable(a domain.AggregateResult) *domain.Table {
	withPct := len(a.Columns) > 2
	rows := make([][]domain.Cell, 0, len(a.Rows))
	for _, r := range a.Rows {
		row := []domain.Cell{domain.StringCell(r.Deliverer), domain.NumberCell(float64(r.Count))}
		if withPct {
			row = append(row, domain.NumberCell(r.Percentage))
		}
		rows = append(rows, row)
	}

	kinds := []domain.ColumnKind{domain.KindText, domain.KindNumber}
	if withPct {
		kinds = append(kinds, domain.KindNumber)
	}
	return &domain.Table{Columns: append([]string(nil), a.Columns...), Kinds: kinds, Rows: rows}
}

// round1 rounds to one decimal place, halves to even (6.25 -> 6.2)
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
