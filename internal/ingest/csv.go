package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/pkg/contracts/domain"
)

// csvAttempt is one encoding and separator combination
type csvAttempt struct {
	encoding  string
	separator rune
}

// csvAttempts are tried in order; the first that parses wins
var csvAttempts = []csvAttempt{
	{encoding: "utf-8", separator: ';'},
	{encoding: "latin-1", separator: ';'},
	{encoding: "utf-8", separator: ','},
}

var (
	errInvalidUTF8     = errors.New("invalid utf-8")
	errTooManyFields   = errors.New("row has more fields than the header")
	errCollapsedHeader = errors.New("header holds a single column containing another separator")
	errNoHeader        = errors.New("no header row")
)

func readCSV(data []byte, filename string) (*domain.Table, error) {
	var errs []error
	for i, attempt := range csvAttempts {
		table, err := parseCSV(data, attempt, laterSeparators(i))
		if err == nil {
			return table, nil
		}
		if errors.Is(err, errNoHeader) {
			return nil, apperrors.EmptyInput("Arquivo está vazio")
		}
		errs = append(errs, fmt.Errorf("%s %q: %w", attempt.encoding, attempt.separator, err))
	}
	return nil, apperrors.ParseFailure(filename, errors.Join(errs...))
}

func laterSeparators(i int) []rune {
	var out []rune
	for _, a := range csvAttempts[i+1:] {
		if a.separator != csvAttempts[i].separator {
			out = append(out, a.separator)
		}
	}
	return out
}

func parseCSV(data []byte, attempt csvAttempt, others []rune) (*domain.Table, error) {
	switch attempt.encoding {
	case "latin-1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	default:
		if !utf8.Valid(data) {
			return nil, errInvalidUTF8
		}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = attempt.separator
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errNoHeader
	}
	if err != nil {
		return nil, err
	}

	if len(header) == 1 {
		for _, sep := range others {
			if strings.ContainsRune(header[0], sep) {
				return nil, errCollapsedHeader
			}
		}
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, errTooManyFields)
		}
		records = append(records, rec)
	}

	columns := cleanHeader(header)
	return domain.NewTable(columns, typeColumns(len(columns), records)), nil
}
