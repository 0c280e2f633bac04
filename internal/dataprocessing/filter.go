package dataprocessing

import (
	"strings"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/pkg/contracts/domain"
)

// rowPredicate reports whether a row survives one filter
type rowPredicate func(row []domain.Cell) bool

// ResolveColumn finds the column index for a filter key. Keys are role names
// or their Portuguese aliases first, then literal column names.
func ResolveColumn(t *domain.Table, cols domain.ColumnMap, key string) int {
	if role, ok := domain.ParseRole(strings.ToLower(strings.TrimSpace(key))); ok {
		if name, mapped := cols.Column(role); mapped {
			return t.ColumnIndex(name)
		}
	}
	return t.FindColumn(key)
}

// ValidateRange rejects a date range whose start falls after its end
func ValidateRange(r domain.DateRange) error {
	if r.Inverted() {
		return apperrors.InvalidRange(r.Start.Format("02/01/2006"), r.End.Format("02/01/2006"))
	}
	return nil
}

// ApplyFilters keeps the rows that satisfy every active filter of spec.
// Unknown keys, empty value lists and date filters without a mapped date
// column are ignored. An inverted date range selects no rows.
func ApplyFilters(t *domain.Table, cols domain.ColumnMap, spec domain.FilterSpec) *domain.Table {
	preds := buildPredicates(t, cols, spec)
	if len(preds) == 0 {
		return t.WithRows(t.Rows)
	}

	rows := make([][]domain.Cell, 0, len(t.Rows))
	for _, row := range t.Rows {
		if matchesAll(row, preds) {
			rows = append(rows, row)
		}
	}
	return t.WithRows(rows)
}

func matchesAll(row []domain.Cell, preds []rowPredicate) bool {
	for _, p := range preds {
		if !p(row) {
			return false
		}
	}
	return true
}

func buildPredicates(t *domain.Table, cols domain.ColumnMap, spec domain.FilterSpec) []rowPredicate {
	var preds []rowPredicate

	dateIdx := -1
	if name, ok := cols.Column(domain.RoleDateDue); ok {
		dateIdx = t.ColumnIndex(name)
	}

	if spec.Date != nil && dateIdx >= 0 {
		preds = append(preds, dateEquals(dateIdx, civilDay(*spec.Date)))
	}

	if spec.Range != nil && dateIdx >= 0 {
		preds = append(preds, dateBetween(dateIdx, civilDay(spec.Range.Start), civilDay(spec.Range.End)))
	}

	for key, values := range spec.Values {
		if len(values) == 0 {
			continue
		}
		idx := ResolveColumn(t, cols, key)
		if idx < 0 {
			continue
		}
		preds = append(preds, valueIn(idx, values))
	}

	for key, r := range spec.Numeric {
		idx := ResolveColumn(t, cols, key)
		if idx < 0 {
			continue
		}
		preds = append(preds, numberBetween(idx, r))
	}

	for _, term := range ParseCommand(spec.Command) {
		idx := ResolveColumn(t, cols, term.Key)
		if idx < 0 {
			continue
		}
		preds = append(preds, textContains(idx, term.Value))
	}

	return preds
}

func dateEquals(idx, day int) rowPredicate {
	return func(row []domain.Cell) bool {
		c := row[idx]
		return c.Kind == domain.CellDate && civilDay(c.Time) == day
	}
}

// dateBetween is inclusive on both ends; start > end matches nothing
func dateBetween(idx, start, end int) rowPredicate {
	return func(row []domain.Cell) bool {
		c := row[idx]
		if c.Kind != domain.CellDate {
			return false
		}
		d := civilDay(c.Time)
		return d >= start && d <= end
	}
}

func valueIn(idx int, values []string) rowPredicate {
	if len(values) == 1 {
		want := values[0]
		return func(row []domain.Cell) bool {
			return row[idx].String() == want
		}
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(row []domain.Cell) bool {
		_, ok := set[row[idx].String()]
		return ok
	}
}

func numberBetween(idx int, r domain.NumericRange) rowPredicate {
	return func(row []domain.Cell) bool {
		c := row[idx]
		if c.Kind != domain.CellNumber {
			return false
		}
		return c.Num >= r.Min && c.Num <= r.Max
	}
}

func textContains(idx int, value string) rowPredicate {
	needle := strings.ToLower(value)
	return func(row []domain.Cell) bool {
		return strings.Contains(strings.ToLower(row[idx].String()), needle)
	}
}
