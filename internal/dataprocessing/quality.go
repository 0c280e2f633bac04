package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"logisticsmart/pkg/contracts/domain"
)

const (
	maxMissingPenalty   = 30
	maxDuplicatePenalty = 20
	futureDatesPenalty  = 15
	outlierPenalty      = 5
	futureDatesRatio    = 0.8
)

// recommendations maps an issue fragment to the advice shown for it
var recommendations = []struct {
	fragment string
	advice   string
}{
	{"faltantes", "Considere preencher dados faltantes ou remover registros incompletos"},
	{"duplicados", "Remova registros duplicados para melhorar a precisão"},
	{"datas futuras", "Verifique se as datas estão no formato correto"},
	{"extremos", "Revise valores discrepantes que podem ser erros de digitação"},
}

// AssessQuality scores a table from 0 to 100. Penalties: missing cells
// (ratio x 100, at most 30), duplicate rows (ratio x 100, at most 20), more
// than 80% of due dates after now (15) and 5 per numeric column whose
// standard deviation exceeds three times its mean.
func AssessQuality(t *domain.Table, cols domain.ColumnMap, now time.Time) domain.QualityReport {
	if t.Len() == 0 {
		return domain.QualityReport{
			Score:           0,
			Issues:          []string{"Tabela vazia"},
			Recommendations: []string{},
		}
	}

	score := 100.0
	issues := []string{}

	totalCells := t.Len() * len(t.Columns)
	if missing := countMissing(t); missing > 0 && totalCells > 0 {
		ratio := float64(missing) / float64(totalCells)
		score -= math.Min(ratio*100, maxMissingPenalty)
		issues = append(issues, fmt.Sprintf("Dados faltantes: %s%%", formatPct(ratio*100)))
	}

	if dups := countDuplicates(t); dups > 0 {
		ratio := float64(dups) / float64(t.Len())
		score -= math.Min(ratio*100, maxDuplicatePenalty)
		issues = append(issues, fmt.Sprintf("Registros duplicados: %d (%s%%)", dups, formatPct(ratio*100)))
	}

	if name, ok := cols.Column(domain.RoleDateDue); ok {
		if idx := t.ColumnIndex(name); idx >= 0 && futureRatio(t, idx, now) > futureDatesRatio {
			score -= futureDatesPenalty
			issues = append(issues, "Muitas datas futuras detectadas")
		}
	}

	for j, name := range t.Columns {
		if t.Kind(j) != domain.KindNumber {
			continue
		}
		if hasOutliers(t, j) {
			score -= outlierPenalty
			issues = append(issues, fmt.Sprintf("Valores extremos em %s", name))
		}
	}

	score = round1(math.Max(0, math.Min(100, score)))

	return domain.QualityReport{
		Score:           score,
		Issues:          issues,
		Recommendations: recommendationsFor(issues),
	}
}

func recommendationsFor(issues []string) []string {
	out := []string{}
	for _, issue := range issues {
		lower := strings.ToLower(issue)
		for _, r := range recommendations {
			if strings.Contains(lower, r.fragment) {
				out = append(out, r.advice)
				break
			}
		}
	}
	return out
}

func countMissing(t *domain.Table) int {
	n := 0
	for _, row := range t.Rows {
		for _, c := range row {
			if c.IsEmpty() {
				n++
			}
		}
	}
	return n
}

// countDuplicates counts rows identical to an earlier row
func countDuplicates(t *domain.Table) int {
	seen := make(map[string]struct{}, len(t.Rows))
	dups := 0
	var b strings.Builder
	for _, row := range t.Rows {
		b.Reset()
		for _, c := range row {
			b.WriteByte(byte('0' + c.Kind))
			b.WriteString(c.String())
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

func futureRatio(t *domain.Table, idx int, now time.Time) float64 {
	future := 0
	for _, row := range t.Rows {
		c := row[idx]
		if c.Kind == domain.CellDate && c.Time.After(now) {
			future++
		}
	}
	return float64(future) / float64(t.Len())
}

// hasOutliers uses the sample standard deviation
func hasOutliers(t *domain.Table, idx int) bool {
	var values []float64
	for _, row := range t.Rows {
		if c := row[idx]; c.Kind == domain.CellNumber {
			values = append(values, c.Num)
		}
	}
	if len(values) < 2 {
		return false
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(values)-1))

	return std > 3*mean
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
