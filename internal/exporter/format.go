package exporter

import (
	"strconv"
	"time"

	"logisticsmart/pkg/contracts/domain"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04:05"
)

// Metadata is printed around the data in every document format
type Metadata struct {
	Title       string
	GeneratedAt time.Time
	Records     int
}

// GeneratedLine is the "Gerado em" line shared by the formats
func (m Metadata) GeneratedLine() string {
	return "Gerado em: " + m.GeneratedAt.Format(dateTimeLayout)
}

// RecordsLine is the "Total de registros" line shared by the formats
func (m Metadata) RecordsLine() string {
	return "Total de registros: " + strconv.Itoa(m.Records)
}

// cellText renders a cell for human-readable documents. Dates use
// DD/MM/YYYY and nulls are blank.
func cellText(c domain.Cell) string {
	switch c.Kind {
	case domain.CellDate:
		return c.Time.Format(dateLayout)
	case domain.CellNull:
		return ""
	default:
		return c.String()
	}
}

// tableText converts every row with cellText
func tableText(t *domain.Table) [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, c := range row {
			rec[j] = cellText(c)
		}
		out[i] = rec
	}
	return out
}
