package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// DefaultNaNValues are the cell values read as missing.
var DefaultNaNValues = []string{"", "NA", "NaN", "N/A", "null", "<nil>"}

// ReadOptions controls how a file is parsed.
type ReadOptions struct {
	Delimiter rune
	NaNValues []string
	// Sheet selects the workbook sheet; empty means the first sheet.
	Sheet string
}

func (o ReadOptions) loadOptions() []dataframe.LoadOption {
	delim := o.Delimiter
	if delim == 0 {
		delim = ','
	}
	nan := o.NaNValues
	if nan == nil {
		nan = DefaultNaNValues
	}
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nan),
		dataframe.WithDelimiter(delim),
	}
}

// DelimiterFromString converts a one-character delimiter setting.
func DelimiterFromString(s string) (rune, error) {
	if s == "" {
		return ',', nil
	}
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses delimited text with a header row. A leading UTF-8 BOM is skipped.
func ReadCSV(r io.Reader, opts ReadOptions) (*Dataset, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}
	cr := csv.NewReader(br)
	cr.Comma = delim
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited data: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("failed to parse delimited data: no header row")
	}

	ds, err := fromRecords(records, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited data: %w", err)
	}
	return ds, nil
}

// fromRecords builds a Dataset from a header row and data rows. A header
// with no data rows yields empty string columns.
func fromRecords(records [][]string, opts ReadOptions) (*Dataset, error) {
	if len(records) == 1 {
		cols := make([]series.Series, len(records[0]))
		for i, name := range records[0] {
			cols[i] = series.New([]string{}, series.String, name)
		}
		return New(cols...)
	}
	df := dataframe.LoadRecords(records, opts.loadOptions()...)
	if df.Err != nil {
		return nil, df.Err
	}
	return &Dataset{df: df}, nil
}

// ReadXLSX loads one sheet of an Excel workbook; the first row is the header.
func ReadXLSX(path string, opts ReadOptions) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	// GetRows trims trailing empty cells; pad every row to the widest one.
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	records := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		records[i] = padded
	}

	ds, err := fromRecords(records, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load sheet %q: %w", sheet, err)
	}
	return ds, nil
}

// ReadFile loads path, choosing the reader from its extension. ".tsv" files
// default to a tab delimiter.
func ReadFile(ctx context.Context, path string, opts ReadOptions) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, opts)
	case ".tsv":
		if opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f, opts)
}
