package domain

import (
	"strings"
	"time"
)

// AggregateRow is one deliverer line of a grouped report
type AggregateRow struct {
	Deliverer  string  `json:"deliverer"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AggregateResult is the per-deliverer summary of a table
type AggregateResult struct {
	Columns []string       `json:"columns"`
	Rows    []AggregateRow `json:"rows"`
}

// Total sums the counts of every row
func (a AggregateResult) Total() int {
	n := 0
	for _, r := range a.Rows {
		n += r.Count
	}
	return n
}

// QualityReport summarizes completeness and consistency of a table
type QualityReport struct {
	Score           float64  `json:"score"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// DateSpan is the observed minimum and maximum due date
type DateSpan struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// Statistics describes a loaded table
type Statistics struct {
	TotalRecords       int            `json:"total_records"`
	DateRange          *DateSpan      `json:"date_range,omitempty"`
	UniqueDeliverers   int            `json:"unique_deliverers"`
	UniqueCities       int            `json:"unique_cities"`
	StatusDistribution map[string]int `json:"status_distribution,omitempty"`
}

// ExportFormat identifies an output serialization
type ExportFormat string

const (
	FormatExcel ExportFormat = "excel"
	FormatCSV   ExportFormat = "csv"
	FormatWord  ExportFormat = "word"
	FormatPDF   ExportFormat = "pdf"
)

// AllFormats lists the formats in display order
var AllFormats = []ExportFormat{FormatExcel, FormatCSV, FormatWord, FormatPDF}

// ParseExportFormat accepts either the identifier or the display label
func ParseExportFormat(s string) (ExportFormat, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "excel", "xlsx":
		return FormatExcel, true
	case "csv":
		return FormatCSV, true
	case "word", "docx":
		return FormatWord, true
	case "pdf":
		return FormatPDF, true
	}
	return "", false
}

// Label returns the human readable name
func (f ExportFormat) Label() string {
	switch f {
	case FormatExcel:
		return "Excel"
	case FormatCSV:
		return "CSV"
	case FormatWord:
		return "Word"
	case FormatPDF:
		return "PDF"
	}
	return string(f)
}

// Extension returns the file extension including the dot
func (f ExportFormat) Extension() string {
	switch f {
	case FormatExcel:
		return ".xlsx"
	case FormatCSV:
		return ".csv"
	case FormatWord:
		return ".docx"
	case FormatPDF:
		return ".pdf"
	}
	return ""
}

// ContentType returns the MIME type of the format
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatWord:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}
