package ingest

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/pkg/contracts/domain"
)

// readWorkbook reads the first worksheet. The first row is the header; cell
// values are read raw so that numbers keep full precision, and numeric
// cells whose style carries a date format become dates.
func readWorkbook(data []byte, filename string) (*domain.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.ParseFailure(filename, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.EmptyInput("Arquivo está vazio")
	}
	sheet := sheets[0]

	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.ParseFailure(filename, err)
	}
	if len(grid) == 0 {
		return nil, apperrors.EmptyInput("Arquivo está vazio")
	}

	width := 0
	for _, r := range grid {
		width = max(width, len(r))
	}
	header := make([]string, width)
	copy(header, grid[0])
	columns := cleanHeader(header)

	sc := &sheetCells{file: f, sheet: sheet, dateStyles: make(map[int]bool)}
	rows := make([][]domain.Cell, 0, len(grid)-1)
	for i, r := range grid[1:] {
		row := make([]domain.Cell, width)
		for j := 0; j < width; j++ {
			if j >= len(r) || strings.TrimSpace(r[j]) == "" {
				row[j] = domain.NullCell()
				continue
			}
			row[j] = sc.cell(j+1, i+2, r[j])
		}
		rows = append(rows, row)
	}

	return domain.NewTable(columns, rows), nil
}

type sheetCells struct {
	file       *excelize.File
	sheet      string
	dateStyles map[int]bool
}

// cell types a raw value using the cell's stored type and style
func (s *sheetCells) cell(col, row int, raw string) domain.Cell {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return domain.StringCell(raw)
	}

	typ, _ := s.file.GetCellType(s.sheet, name)
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return domain.StringCell(raw)
	case excelize.CellTypeBool:
		if raw == "1" {
			return domain.StringCell("TRUE")
		}
		return domain.StringCell("FALSE")
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return domain.StringCell(raw)
	}

	if s.isDateCell(name) {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return domain.DateCell(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local))
		}
	}
	return domain.NumberCell(f)
}

func (s *sheetCells) isDateCell(name string) bool {
	idx, err := s.file.GetCellStyle(s.sheet, name)
	if err != nil || idx == 0 {
		return false
	}
	if isDate, ok := s.dateStyles[idx]; ok {
		return isDate
	}

	isDate := false
	if style, err := s.file.GetStyle(idx); err == nil && style != nil {
		isDate = isDateFormat(style.NumFmt, style.CustomNumFmt)
	}
	s.dateStyles[idx] = isDate
	return isDate
}

// isDateFormat recognizes the built-in date and time formats and custom
// format codes that contain a day or year token outside quoted text
func isDateFormat(numFmt int, custom *string) bool {
	switch {
	case numFmt >= 14 && numFmt <= 22, numFmt >= 45 && numFmt <= 47:
		return true
	case custom == nil:
		return false
	}

	code := strings.ToLower(*custom)
	inQuote := false
	for i := 0; i < len(code); i++ {
		switch c := code[i]; {
		case c == '"':
			inQuote = !inQuote
		case c == '\\':
			i++
		case c == '[':
			if end := strings.IndexByte(code[i:], ']'); end > 0 {
				i += end
			}
		case !inQuote && (c == 'd' || c == 'y'):
			return true
		}
	}
	return false
}
