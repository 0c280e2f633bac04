package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/xuri/excelize/v2"

	"logisticsmart/pkg/contracts/domain"
)

// DeliveryColumns is the header of a typical delivery sheet
var DeliveryColumns = []string{
	"Data prevista de entrega",
	"Entregador",
	"Cidade",
	"Status",
	"Tipo de produto",
	"Cliente",
	"Valor",
}

// Cells converts plain Go values into cells: nil is null, strings stay
// strings, integers and floats become numbers and time.Time becomes a date.
func Cells(values ...any) []domain.Cell {
	out := make([]domain.Cell, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case nil:
			out[i] = domain.NullCell()
		case string:
			out[i] = domain.StringCell(x)
		case int:
			out[i] = domain.NumberCell(float64(x))
		case float64:
			out[i] = domain.NumberCell(x)
		case time.Time:
			out[i] = domain.DateCell(x)
		case domain.Cell:
			out[i] = x
		default:
			out[i] = domain.StringCell(fmt.Sprint(x))
		}
	}
	return out
}

// Table builds a table from rows of plain values
func Table(columns []string, rows ...[]any) *domain.Table {
	cells := make([][]domain.Cell, len(rows))
	for i, r := range rows {
		cells[i] = Cells(r...)
	}
	return domain.NewTable(columns, cells)
}

// Date returns midnight of the given day in local time
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

var (
	fakeCities   = []string{"Salvador", "Camaçari", "Lauro de Freitas", "Dias D'Ávila", "Feira de Santana"}
	fakeStatuses = []string{"Entregue", "Pendente", "Entregado", "Cancelado", "Em rota", "Aguardando retirada"}
	fakeProducts = []string{"EZ", "Cartão", "Documento", "Encomenda"}
)

// FakeDeliveries generates n raw delivery rows with string dates spread over
// the days starting at from. Deliverers are drawn from a small pool so that
// grouping produces ties and repeated names.
func FakeDeliveries(faker *gofakeit.Faker, n int, from time.Time, days int) *domain.Table {
	if days < 1 {
		days = 1
	}
	deliverers := make([]string, 6)
	for i := range deliverers {
		deliverers[i] = faker.FirstName() + " " + faker.LastName()
	}

	rows := make([][]domain.Cell, n)
	for i := range rows {
		due := from.AddDate(0, 0, faker.Number(0, days-1))
		rows[i] = Cells(
			due.Format("02/01/2006"),
			faker.RandomString(deliverers),
			faker.RandomString(fakeCities),
			faker.RandomString(fakeStatuses),
			faker.RandomString(fakeProducts),
			faker.Name(),
			float64(faker.Number(10, 500)),
		)
	}
	return domain.NewTable(append([]string(nil), DeliveryColumns...), rows)
}

// WorkbookBytes renders columns and rows into an .xlsx file in memory.
// time.Time values are written with a date number format.
func WorkbookBytes(t testing.TB, sheet string, columns []string, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	} else {
		sheet = f.GetSheetName(0)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		t.Fatalf("date style: %v", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("write header: %v", err)
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if v == nil {
				continue
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("write %s: %v", cell, err)
			}
			if _, ok := v.(time.Time); ok {
				_ = f.SetCellStyle(sheet, cell, cell, dateStyle)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}
