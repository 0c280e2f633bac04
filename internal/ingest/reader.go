package ingest

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format names the reader chosen for a file
type Format string

const (
	FormatWorkbook Format = "excel"
	FormatCSV      Format = "csv"
)

// DetectFormat maps a filename extension to a reader
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xls":
		return FormatWorkbook, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", apperrors.UnsupportedFormat(ext)
	}
}

// ReadTable decodes data into a raw table according to the filename
// extension. Empty strings become null cells and column kinds are inferred.
func ReadTable(data []byte, filename string) (*domain.Table, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.EmptyInput("Arquivo está vazio")
	}

	switch format {
	case FormatWorkbook:
		return readWorkbook(data, filename)
	default:
		return readCSV(data, filename)
	}
}

// cleanHeader names blank headers "Unnamed: N" and suffixes repeated names
// with ".1", ".2" in order of appearance
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// typeColumns converts text records into cells. A column becomes numeric
// only when every non-empty value parses as a number.
func typeColumns(width int, records [][]string) [][]domain.Cell {
	numeric := make([]bool, width)
	for j := 0; j < width; j++ {
		numeric[j] = columnIsNumeric(records, j)
	}

	rows := make([][]domain.Cell, len(records))
	for i, rec := range records {
		row := make([]domain.Cell, width)
		for j := 0; j < width; j++ {
			if j >= len(rec) || strings.TrimSpace(rec[j]) == "" {
				row[j] = domain.NullCell()
				continue
			}
			if numeric[j] {
				f, _ := parseNumber(rec[j])
				row[j] = domain.NumberCell(f)
				continue
			}
			row[j] = domain.StringCell(rec[j])
		}
		rows[i] = row
	}
	return rows
}

func columnIsNumeric(records [][]string, j int) bool {
	seen := false
	for _, rec := range records {
		if j >= len(rec) || strings.TrimSpace(rec[j]) == "" {
			continue
		}
		if _, ok := parseNumber(rec[j]); !ok {
			return false
		}
		seen = true
	}
	return seen
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
