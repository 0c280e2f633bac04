package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// CellKind identifies the scalar type held by a Cell
type CellKind uint8

const (
	CellNull CellKind = iota
	CellString
	CellNumber
	CellDate
)

// Cell is a single scalar value of a delivery record
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Time time.Time
}

// NullCell returns an empty cell
func NullCell() Cell { return Cell{Kind: CellNull} }

// StringCell wraps a text value
func StringCell(s string) Cell { return Cell{Kind: CellString, Str: s} }

// NumberCell wraps a numeric value
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Num: f} }

// DateCell wraps a date or date-time value
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Time: t} }

// IsNull reports whether the cell holds no value
func (c Cell) IsNull() bool { return c.Kind == CellNull }

// IsEmpty reports whether the cell is null or an empty string
func (c Cell) IsEmpty() bool {
	return c.Kind == CellNull || (c.Kind == CellString && c.Str == "")
}

// String returns the textual form used for equality and membership tests
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellDate:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 {
			return c.Time.Format("2006-01-02")
		}
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Equal compares kind and value
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CellString:
		return c.Str == o.Str
	case CellNumber:
		return c.Num == o.Num
	case CellDate:
		return c.Time.Equal(o.Time)
	}
	return true
}

// MarshalJSON renders the cell as a JSON scalar
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellString:
		return json.Marshal(c.Str)
	case CellNumber:
		return json.Marshal(c.Num)
	case CellDate:
		return json.Marshal(c.String())
	default:
		return []byte("null"), nil
	}
}

// ColumnKind is the inferred type of a whole column
type ColumnKind string

const (
	KindText   ColumnKind = "text"
	KindNumber ColumnKind = "number"
	KindDate   ColumnKind = "date"
)

// Table is an ordered set of delivery records sharing one column set.
// Every row holds exactly len(Columns) cells.
type Table struct {
	Columns []string
	Kinds   []ColumnKind
	Rows    [][]Cell
}

// NewTable builds a table and infers column kinds from the cells
func NewTable(columns []string, rows [][]Cell) *Table {
	t := &Table{Columns: columns, Rows: rows}
	t.Kinds = InferKinds(columns, rows)
	return t
}

// InferKinds classifies each column. A column is numeric or date when every
// non-empty cell has that kind; otherwise it is text.
func InferKinds(columns []string, rows [][]Cell) []ColumnKind {
	kinds := make([]ColumnKind, len(columns))
	for j := range columns {
		var numbers, dates, others int
		for _, row := range rows {
			c := row[j]
			switch {
			case c.IsEmpty():
			case c.Kind == CellNumber:
				numbers++
			case c.Kind == CellDate:
				dates++
			default:
				others++
			}
		}
		switch {
		case others == 0 && dates == 0 && numbers > 0:
			kinds[j] = KindNumber
		case others == 0 && numbers == 0 && dates > 0:
			kinds[j] = KindDate
		default:
			kinds[j] = KindText
		}
	}
	return kinds
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of name or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// FindColumn resolves a column by exact name, falling back to a
// case-insensitive comparison
func (t *Table) FindColumn(name string) int {
	if i := t.ColumnIndex(name); i >= 0 {
		return i
	}
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Kind returns the kind of the column at index i
func (t *Table) Kind(i int) ColumnKind {
	if i < 0 || i >= len(t.Kinds) {
		return KindText
	}
	return t.Kinds[i]
}

// WithRows returns a table sharing this table's schema with different rows
func (t *Table) WithRows(rows [][]Cell) *Table {
	return &Table{Columns: t.Columns, Kinds: t.Kinds, Rows: rows}
}

// Clone deep-copies the table
func (t *Table) Clone() *Table {
	cols := append([]string(nil), t.Columns...)
	kinds := append([]ColumnKind(nil), t.Kinds...)
	rows := make([][]Cell, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]Cell(nil), r...)
	}
	return &Table{Columns: cols, Kinds: kinds, Rows: rows}
}

// Records converts rows to column-keyed maps, mainly for JSON responses
func (t *Table) Records() []map[string]Cell {
	out := make([]map[string]Cell, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]Cell, len(t.Columns))
		for j, name := range t.Columns {
			rec[name] = row[j]
		}
		out = append(out, rec)
	}
	return out
}

// MarshalJSON renders the table as {columns, rows}
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Rows    [][]Cell `json:"rows"`
	}{t.Columns, t.Rows})
}
