package exporter

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"logisticsmart/internal/config"
	"logisticsmart/pkg/contracts/domain"
)

// ExcelBytes renders t into a workbook with a data sheet and an
// information sheet holding the title, generation time and record count
func ExcelBytes(t *domain.Table, meta Metadata) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), config.DataSheetName); err != nil {
		return nil, fmt.Errorf("failed to name data sheet: %w", err)
	}
	if err := writeDataSheet(f, config.DataSheetName, t); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(config.MetadataSheetName); err != nil {
		return nil, fmt.Errorf("failed to create metadata sheet: %w", err)
	}
	for i, line := range []string{meta.Title, meta.GeneratedLine(), meta.RecordsLine()} {
		if err := f.SetCellValue(config.MetadataSheetName, fmt.Sprintf("A%d", i+1), line); err != nil {
			return nil, fmt.Errorf("failed to write metadata: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDataSheet(f *excelize.File, sheet string, t *domain.Table) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dateFormat := "dd/mm/yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	for j, width := range columnWidths(t) {
		if err := sw.SetColWidth(j+1, j+1, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	header := make([]interface{}, len(t.Columns))
	for j, name := range t.Columns {
		header[j] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		values := make([]interface{}, len(row))
		for j, c := range row {
			switch c.Kind {
			case domain.CellDate:
				values[j] = excelize.Cell{StyleID: dateStyle, Value: c.Time}
			case domain.CellNumber:
				values[j] = c.Num
			case domain.CellString:
				values[j] = c.Str
			default:
				values[j] = nil
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return sw.Flush()
}

// columnWidths is the longest rendered value per column plus two, capped
func columnWidths(t *domain.Table) []float64 {
	widths := make([]float64, len(t.Columns))
	for j, name := range t.Columns {
		longest := utf8.RuneCountInString(name)
		for _, row := range t.Rows {
			longest = max(longest, utf8.RuneCountInString(cellText(row[j])))
		}
		widths[j] = float64(min(longest+2, config.MaxColumnWidth))
	}
	return widths
}
