// Package statement reads heterogeneous bank statement files and
// normalizes their rows into canonical transactions.
package statement

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one raw statement line. Number is the 1-based position among
// data rows; skipped header and summary lines do not count.
type Row struct {
	Number int
	Fields []string
}

// RowReader yields statement rows in file order. Next returns io.EOF
// after the last row.
type RowReader interface {
	Next() (Row, error)
	Close() error
}

// Open dispatches on the file extension to a delimited-text, spreadsheet
// or fixed-width reader. Header and summary rows are already filtered
// out of the returned reader. Unknown extensions fail with
// ErrUnsupportedFormat.
func Open(path string) (RowReader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return openDelimited(path, ',')
	case ".tsv":
		return openDelimited(path, '\t')
	case ".xlsx", ".xls":
		return openSpreadsheet(path)
	case ".txt":
		return openFixedWidth(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// headerTokens are field values that mark a column-header row.
var headerTokens = []string{
	"date", "fecha", "description", "descripcion", "concepto",
	"amount", "importe", "monto", "balance", "saldo", "debit", "credit",
	"debito", "credito", "reference", "referencia",
}

// isHeaderRow reports whether a row is a column header or a decoration
// line. Headers are detected by keyword; decorations by structure
// (all dashes, or all caps with no digits).
func isHeaderRow(fields []string) bool {
	joined := strings.TrimSpace(strings.Join(fields, " "))
	if joined == "" {
		return true
	}
	if strings.Trim(joined, "- |") == "" {
		return true
	}
	lower := strings.ToLower(joined)
	hits := 0
	for _, tok := range headerTokens {
		if strings.Contains(lower, tok) {
			hits++
		}
	}
	if hits >= 2 {
		return true
	}
	if !strings.ContainsAny(joined, "0123456789") && joined == strings.ToUpper(joined) {
		return true
	}
	return false
}

// delimitedReader reads CSV/TSV statements lazily.
type delimitedReader struct {
	f   *os.File
	cr  *csv.Reader
	row int
}

func openDelimited(path string, sep rune) (RowReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	cr := csv.NewReader(f)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &delimitedReader{f: f, cr: cr}, nil
}

func (r *delimitedReader) Next() (Row, error) {
	for {
		rec, err := r.cr.Read()
		if err == io.EOF {
			return Row{}, io.EOF
		}
		if err != nil {
			return Row{}, fmt.Errorf("reading delimited row: %w", err)
		}
		if isHeaderRow(rec) {
			continue
		}
		r.row++
		return Row{Number: r.row, Fields: rec}, nil
	}
}

func (r *delimitedReader) Close() error { return r.f.Close() }

// spreadsheetReader reads the first sheet of an xlsx workbook.
type spreadsheetReader struct {
	f    *excelize.File
	rows *excelize.Rows
	row  int
}

func openSpreadsheet(path string) (RowReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return &spreadsheetReader{f: f, rows: rows}, nil
}

func (r *spreadsheetReader) Next() (Row, error) {
	for r.rows.Next() {
		fields, err := r.rows.Columns()
		if err != nil {
			return Row{}, fmt.Errorf("reading spreadsheet row: %w", err)
		}
		if isHeaderRow(fields) {
			continue
		}
		r.row++
		return Row{Number: r.row, Fields: fields}, nil
	}
	if err := r.rows.Error(); err != nil {
		return Row{}, fmt.Errorf("iterating sheet: %w", err)
	}
	return Row{}, io.EOF
}

func (r *spreadsheetReader) Close() error {
	r.rows.Close()
	return r.f.Close()
}

// columnSplit splits a fixed-width line on runs of two or more spaces.
var columnSplit = regexp.MustCompile(`\s{2,}`)

// fixedWidthReader reads column-aligned plain-text statements, splitting
// each line on runs of whitespace.
type fixedWidthReader struct {
	f   *os.File
	sc  *bufio.Scanner
	row int
}

func openFixedWidth(path string) (RowReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	return &fixedWidthReader{f: f, sc: bufio.NewScanner(f)}, nil
}

func (r *fixedWidthReader) Next() (Row, error) {
	for r.sc.Scan() {
		line := strings.TrimSpace(r.sc.Text())
		if line == "" {
			continue
		}
		fields := columnSplit.Split(line, -1)
		if isHeaderRow(fields) {
			continue
		}
		r.row++
		return Row{Number: r.row, Fields: fields}, nil
	}
	if err := r.sc.Err(); err != nil {
		return Row{}, fmt.Errorf("scanning statement: %w", err)
	}
	return Row{}, io.EOF
}

func (r *fixedWidthReader) Close() error { return r.f.Close() }
