package dataprocessing

import (
	"sort"
	"strings"

	"logisticsmart/pkg/contracts/domain"
)

// ComputeStatistics summarizes a normalized table
func ComputeStatistics(t *domain.Table, cols domain.ColumnMap) domain.Statistics {
	stats := domain.Statistics{TotalRecords: t.Len()}

	if idx := roleIndex(t, cols, domain.RoleDateDue); idx >= 0 {
		var span *domain.DateSpan
		for _, row := range t.Rows {
			c := row[idx]
			if c.Kind != domain.CellDate {
				continue
			}
			if span == nil {
				span = &domain.DateSpan{Min: c.Time, Max: c.Time}
				continue
			}
			if c.Time.Before(span.Min) {
				span.Min = c.Time
			}
			if c.Time.After(span.Max) {
				span.Max = c.Time
			}
		}
		stats.DateRange = span
	}

	if idx := roleIndex(t, cols, domain.RoleDeliverer); idx >= 0 {
		stats.UniqueDeliverers = len(distinctValues(t, idx))
	}

	if idx := roleIndex(t, cols, domain.RoleCity); idx >= 0 {
		stats.UniqueCities = len(distinctValues(t, idx))
	}

	if idx := roleIndex(t, cols, domain.RoleStatus); idx >= 0 {
		dist := make(map[string]int)
		for _, row := range t.Rows {
			if v := row[idx].String(); v != "" {
				dist[v]++
			}
		}
		stats.StatusDistribution = dist
	}

	return stats
}

// FilterOptions lists the sorted distinct non-empty values of the column a
// filter key resolves to. Unknown keys yield an empty list.
func FilterOptions(t *domain.Table, cols domain.ColumnMap, key string) []string {
	idx := ResolveColumn(t, cols, key)
	if idx < 0 {
		return []string{}
	}
	values := distinctValues(t, idx)
	sort.Strings(values)
	return values
}

func distinctValues(t *domain.Table, idx int) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, row := range t.Rows {
		v := row[idx].String()
		if v == "" || strings.EqualFold(v, "nan") {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func roleIndex(t *domain.Table, cols domain.ColumnMap, role domain.ColumnRole) int {
	name, ok := cols.Column(role)
	if !ok {
		return -1
	}
	return t.ColumnIndex(name)
}
