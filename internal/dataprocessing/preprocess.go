package dataprocessing

import (
	"strings"

	"logisticsmart/pkg/contracts/domain"
)

// Preprocess normalizes a validated table:
//  1. the date_due column is parsed, unparseable cells become null
//  2. rows without a due date are dropped
//  3. text cells are trimmed and "nan" or null become ""
//  4. rows with no non-empty cell are dropped
//
// The input is not modified and running it twice yields the same table.
func Preprocess(t *domain.Table, cols domain.ColumnMap, opts DateOptions) *domain.Table {
	dateIdx := -1
	if name, ok := cols.Column(domain.RoleDateDue); ok {
		dateIdx = t.ColumnIndex(name)
	}

	var kinds []domain.ColumnKind
	if len(t.Kinds) == len(t.Columns) {
		kinds = append(kinds, t.Kinds...)
	} else {
		kinds = domain.InferKinds(t.Columns, t.Rows)
	}
	if dateIdx >= 0 {
		kinds[dateIdx] = domain.KindDate
	}

	rows := make([][]domain.Cell, 0, len(t.Rows))
	for _, src := range t.Rows {
		row := make([]domain.Cell, len(src))
		copy(row, src)

		if dateIdx >= 0 {
			d, ok := ParseDate(row[dateIdx], opts)
			if !ok {
				continue
			}
			row[dateIdx] = domain.DateCell(d)
		}

		for j := range row {
			if j == dateIdx || kinds[j] != domain.KindText {
				continue
			}
			row[j] = normalizeText(row[j])
		}

		if allEmpty(row) {
			continue
		}
		rows = append(rows, row)
	}

	return &domain.Table{Columns: t.Columns, Kinds: kinds, Rows: rows}
}

func normalizeText(c domain.Cell) domain.Cell {
	var s string
	switch c.Kind {
	case domain.CellNull:
		return domain.StringCell("")
	case domain.CellString:
		s = strings.TrimSpace(c.Str)
	default:
		s = strings.TrimSpace(c.String())
	}
	if strings.EqualFold(s, "nan") {
		s = ""
	}
	return domain.StringCell(s)
}

func allEmpty(row []domain.Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
