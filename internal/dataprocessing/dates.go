package dataprocessing

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"logisticsmart/pkg/contracts/domain"
)

// DateOptions controls best-effort date parsing
type DateOptions struct {
	// DayFirst reads ambiguous numeric dates as DD/MM/YYYY
	DayFirst bool
	// Location interprets dates without a zone; nil means time.Local
	Location *time.Location
}

// DefaultDateOptions reads day-first dates in local time
func DefaultDateOptions() DateOptions {
	return DateOptions{DayFirst: true, Location: time.Local}
}

var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05.000",
	"2006/01/02",
	"2006/01/02 15:04:05",
}

var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2-1-2006 15:04:05",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1-2-2006",
	"1.2.2006",
	"1/2/06",
	"1-2-06",
}

// Excel serials outside this window are treated as plain numbers
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseDate converts a cell into a date. Strings are tried against ISO
// layouts first and then the day-first (or month-first) layouts; numbers
// are read as Excel serial dates.
func ParseDate(c domain.Cell, opts DateOptions) (time.Time, bool) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	switch c.Kind {
	case domain.CellDate:
		return c.Time, true
	case domain.CellNumber:
		return fromExcelSerial(c.Num, loc)
	case domain.CellString:
		return parseDateString(strings.TrimSpace(c.Str), opts.DayFirst, loc)
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string, dayFirst bool, loc *time.Location) (time.Time, bool) {
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "nat") {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	layouts := dayFirstLayouts
	if !dayFirst {
		layouts = monthFirstLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func fromExcelSerial(serial float64, loc *time.Location) (time.Time, bool) {
	if serial < minExcelSerial || serial > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	// ExcelDateToTime yields UTC wall-clock values
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
}

// civilDay returns the calendar date of t as a comparable integer
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// SameDay reports whether a and b fall on the same calendar date
func SameDay(a, b time.Time) bool {
	return civilDay(a) == civilDay(b)
}
