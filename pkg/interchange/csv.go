package interchange

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrEmptyFile     = errors.New("interchange file has no header row")
	ErrMissingHeader = errors.New("interchange header has a blank column name")
	ErrTooManyFields = errors.New("row has more fields than the header")
)

// RowError reports a record that could not be read. Reading can continue
// with the next record.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// WriteCSV writes a header followed by one record per row. Fields containing
// a comma, quote or line break are quoted with inner quotes doubled. A CRLF
// inside a field is written as is but reads back as LF.
func WriteCSV(w io.Writer, rows []Row) error {
	header := Header(rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(header))
	for _, r := range rows {
		for i, col := range header {
			record[i] = r[col]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Reader yields rows from a CSV stream whose first record is the header.
type Reader struct {
	cr     *csv.Reader
	header []string
}

// NewReader consumes the header record. A leading UTF-8 byte order mark, as
// written by several spreadsheet tools, is ignored.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] == "" {
			return nil, ErrMissingHeader
		}
	}
	return &Reader{cr: cr, header: header}, nil
}

func (r *Reader) Header() []string {
	return append([]string(nil), r.header...)
}

// Next returns the next row and the line it started on. It returns io.EOF
// after the last record and a *RowError for a record that cannot be used.
// Short records leave the trailing columns empty.
func (r *Reader) Next() (Row, int, error) {
	record, err := r.cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, io.EOF
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, pe.StartLine, &RowError{Line: pe.StartLine, Err: pe.Err}
		}
		return nil, 0, err
	}

	line, _ := r.cr.FieldPos(0)
	if len(record) > len(r.header) {
		return nil, line, &RowError{Line: line, Err: ErrTooManyFields}
	}
	row := make(Row, len(r.header))
	for i, col := range r.header {
		if i < len(record) {
			row[col] = record[i]
		} else {
			row[col] = ""
		}
	}
	return row, line, nil
}

// ReadAll collects every readable row, skipping and returning the errors of
// the ones that are not.
func ReadAll(r io.Reader) ([]Row, []*RowError, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	var (
		rows    []Row
		rowErrs []*RowError
	)
	for {
		row, _, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return rows, rowErrs, nil
		}
		var re *RowError
		if errors.As(err, &re) {
			rowErrs = append(rowErrs, re)
			continue
		}
		if err != nil {
			return rows, rowErrs, err
		}
		rows = append(rows, row)
	}
}
