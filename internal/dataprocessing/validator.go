package dataprocessing

import (
	"strings"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/pkg/contracts/domain"
)

// Validate checks a raw table before normalization. The first failing rule
// wins: no rows, no usable cell, then required labels absent from every
// column name. The table is never modified.
func Validate(t *domain.Table, requiredLabels []string) error {
	if t.Len() == 0 {
		return apperrors.EmptyInput("Arquivo está vazio")
	}

	if !hasUsableCell(t) {
		return apperrors.EmptyInput("Arquivo não contém dados válidos")
	}

	var missing []string
	for _, label := range requiredLabels {
		if !anyColumnContains(t.Columns, label) {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return apperrors.MissingRequiredColumn(missing)
	}

	return nil
}

func hasUsableCell(t *domain.Table) bool {
	for _, row := range t.Rows {
		for _, c := range row {
			if !c.IsEmpty() && !(c.Kind == domain.CellString && strings.TrimSpace(c.Str) == "") {
				return true
			}
		}
	}
	return false
}

func anyColumnContains(columns []string, label string) bool {
	label = strings.ToLower(label)
	for _, c := range columns {
		if strings.Contains(strings.ToLower(c), label) {
			return true
		}
	}
	return false
}
