// Package inventory reads the seed file: a semicolon-separated table listing dataset landing pages.
package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultColumn is the header of the column holding landing-page URLs.
const DefaultColumn = "datasetURL"

// DataFormatError reports a seed file we can't take seeds from.
type DataFormatError struct {
	Path string
	Line int
	Err  error
}

func (e *DataFormatError) Error() string {
	where := e.Path
	if where == "" {
		where = "seed table"
	}
	if e.Line > 0 {
		return fmt.Sprintf("inventory: %s:%d: %v", where, e.Line, e.Err)
	}
	return fmt.Sprintf("inventory: %s: %v", where, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

var (
	ErrMissingColumn = errors.New("column not found in header")
	ErrEmptyFile     = errors.New("no header row")
	ErrShortRow      = errors.New("row has no cell for the seed column")
)

type Reader struct {
	// Column names the header cell whose values are the seeds.
	Column string
	// Comma is the field separator; the portal exports use ';'.
	Comma rune
}

func NewReader(column string) *Reader {
	if column == "" {
		column = DefaultColumn
	}
	return &Reader{
		Column: column,
		Comma:  ';',
	}
}

// ReadSeeds opens path and returns the seed column, one entry per data row, in file order.
func ReadSeeds(path string, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("inventory: couldn't open seed file: %w", err)
	}
	defer f.Close()

	seeds, err := NewReader(column).Seeds(f)
	if err != nil {
		var dfe *DataFormatError
		if errors.As(err, &dfe) {
			dfe.Path = path
		}
		return nil, err
	}

	return seeds, nil
}

// Seeds reads a whole table from in.  Cells are trimmed of surrounding whitespace but otherwise
// returned as they are; nothing checks they look like URLs.
func (r *Reader) Seeds(in io.Reader) ([]string, error) {
	cr := csv.NewReader(in)
	cr.Comma = r.Comma
	cr.LazyQuotes = true
	// Exports often drop trailing empty cells; only the seed column has to be there.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataFormatError{Err: ErrEmptyFile}
	}
	if err != nil {
		return nil, csvError(err)
	}

	idx := -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == r.Column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &DataFormatError{Line: 1, Err: fmt.Errorf("%w: %q", ErrMissingColumn, r.Column)}
	}

	seeds := []string{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		if idx >= len(row) {
			line, _ := cr.FieldPos(0)
			return nil, &DataFormatError{Line: line, Err: fmt.Errorf("%w: %q", ErrShortRow, r.Column)}
		}
		seeds = append(seeds, strings.TrimSpace(row[idx]))
	}

	return seeds, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &DataFormatError{Line: pe.Line, Err: pe.Err}
	}
	return &DataFormatError{Err: err}
}
