package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NAString is how gota renders a missing element.
const NAString = "NaN"

// Dataset is an in-memory table of records with named, typed columns.
type Dataset struct {
	df dataframe.DataFrame
}

// ColumnCount pairs a column name with a count.
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// FromDataFrame wraps df, surfacing any error gota recorded while building it.
func FromDataFrame(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	return &Dataset{df: df}, nil
}

// New builds a Dataset from columns of equal length.
func New(cols ...series.Series) (*Dataset, error) {
	return FromDataFrame(dataframe.New(cols...))
}

// DataFrame exposes the underlying frame.
func (d *Dataset) DataFrame() dataframe.DataFrame {
	return d.df
}

// Copy returns a deep copy that shares no storage with d.
func (d *Dataset) Copy() *Dataset {
	return &Dataset{df: d.df.Copy()}
}

// Nrow returns the number of records.
func (d *Dataset) Nrow() int {
	return d.df.Nrow()
}

// Ncol returns the number of columns.
func (d *Dataset) Ncol() int {
	return d.df.Ncol()
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	return d.df.Names()
}

// Types returns the column types ("string", "int", "float", "bool") in column order.
func (d *Dataset) Types() []string {
	types := d.df.Types()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// HasColumn reports whether name is a column.
func (d *Dataset) HasColumn(name string) bool {
	return d.index(name) >= 0
}

func (d *Dataset) index(name string) int {
	for i, n := range d.df.Names() {
		if n == name {
			return i
		}
	}
	return -1
}

// Column returns the named column.
func (d *Dataset) Column(name string) (series.Series, bool) {
	if !d.HasColumn(name) {
		return series.Series{}, false
	}
	return d.df.Col(name), true
}

// Strings returns the string form of every cell in the column along with a
// parallel missing mask.
func (d *Dataset) Strings(name string) ([]string, []bool, bool) {
	col, ok := d.Column(name)
	if !ok {
		return nil, nil, false
	}
	return cellStrings(col), col.IsNaN(), true
}

// cellStrings renders every element of col. Floats use the shortest exact
// representation; gota's own Records() fixes them at six decimals.
func cellStrings(col series.Series) []string {
	if col.Type() != series.Float {
		return col.Records()
	}
	values := col.Float()
	out := make([]string, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = NAString
			continue
		}
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}

// Floats returns the column as float64. Missing and non-numeric cells are NaN.
func (d *Dataset) Floats(name string) ([]float64, bool) {
	col, ok := d.Column(name)
	if !ok {
		return nil, false
	}
	return col.Float(), true
}

// SetColumn adds s as a column, replacing any existing column of the same name.
func (d *Dataset) SetColumn(s series.Series) error {
	if d.Ncol() == 0 {
		fresh, err := New(s)
		if err != nil {
			return err
		}
		d.df = fresh.df
		return nil
	}
	df := d.df.Mutate(s)
	if df.Err != nil {
		return fmt.Errorf("set column %q: %w", s.Name, df.Err)
	}
	d.df = df
	return nil
}

// SetNames renames every column. names must match the column count and be unique.
func (d *Dataset) SetNames(names []string) error {
	if len(names) != d.Ncol() {
		return fmt.Errorf("set names: got %d names for %d columns", len(names), d.Ncol())
	}
	seen := make(map[string]bool, len(names))
	cols := make([]series.Series, len(names))
	for i, name := range names {
		if name == "" || seen[name] {
			return fmt.Errorf("set names: invalid or duplicate column name %q", name)
		}
		seen[name] = true
		col := d.df.Col(d.df.Names()[i]).Copy()
		col.Name = name
		cols[i] = col
	}
	fresh, err := New(cols...)
	if err != nil {
		return err
	}
	d.df = fresh.df
	return nil
}

// Drop removes the named columns that exist and returns the ones removed.
func (d *Dataset) Drop(names ...string) []string {
	var dropped []string
	for _, name := range names {
		if d.HasColumn(name) {
			dropped = append(dropped, name)
		}
	}
	if len(dropped) == 0 {
		return nil
	}
	if len(dropped) == d.Ncol() {
		d.df = dataframe.DataFrame{}
		return dropped
	}
	d.df = d.df.Drop(dropped)
	return dropped
}

// Subset keeps only the rows at the given indexes, in that order.
func (d *Dataset) Subset(rows []int) error {
	if d.Ncol() == 0 {
		return nil
	}
	df := d.df.Subset(rows)
	if df.Err != nil {
		return fmt.Errorf("subset rows: %w", df.Err)
	}
	d.df = df
	return nil
}

// MissingCounts returns the number of missing cells per column, in column order.
func (d *Dataset) MissingCounts() []ColumnCount {
	names := d.df.Names()
	counts := make([]ColumnCount, len(names))
	for i, name := range names {
		n := 0
		for _, na := range d.df.Col(name).IsNaN() {
			if na {
				n++
			}
		}
		counts[i] = ColumnCount{Column: name, Count: n}
	}
	return counts
}

// RowsWithMissing returns a mask marking rows that hold at least one missing cell.
func (d *Dataset) RowsWithMissing() []bool {
	mask := make([]bool, d.Nrow())
	for _, name := range d.df.Names() {
		for i, na := range d.df.Col(name).IsNaN() {
			if na {
				mask[i] = true
			}
		}
	}
	return mask
}

// RowKeys returns one key per row built from the given columns (all columns
// when cols is empty). Equal keys mean equal rows on those columns; missing
// cells compare equal to each other.
func (d *Dataset) RowKeys(cols ...string) ([]string, error) {
	if len(cols) == 0 {
		cols = d.df.Names()
	}
	records := make([][]string, len(cols))
	for i, name := range cols {
		if !d.HasColumn(name) {
			return nil, fmt.Errorf("row keys: column %q not found", name)
		}
		records[i] = cellStrings(d.df.Col(name))
	}

	keys := make([]string, d.Nrow())
	var b strings.Builder
	for row := range keys {
		b.Reset()
		for i := range records {
			if i > 0 {
				b.WriteByte(0x1f)
			}
			b.WriteString(records[i][row])
		}
		keys[row] = b.String()
	}
	return keys, nil
}

// Records returns the header followed by every row as strings. Missing cells
// are written as na.
func (d *Dataset) Records(na string) [][]string {
	names := d.df.Names()
	out := make([][]string, 0, d.Nrow()+1)
	out = append(out, append([]string(nil), names...))

	cols := make([][]string, len(names))
	masks := make([][]bool, len(names))
	for i, name := range names {
		col := d.df.Col(name)
		cols[i] = cellStrings(col)
		masks[i] = col.IsNaN()
	}
	for row := 0; row < d.Nrow(); row++ {
		rec := make([]string, len(names))
		for i := range names {
			if masks[i][row] {
				rec[i] = na
			} else {
				rec[i] = cols[i][row]
			}
		}
		out = append(out, rec)
	}
	return out
}

// StringColumn builds a string series where a nil entry is missing. gota
// also treats the literal text "NaN" as missing.
func StringColumn(name string, values []*string) series.Series {
	raw := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			raw[i] = NAString
		} else {
			raw[i] = *v
		}
	}
	return series.New(raw, series.String, name)
}

// FloatColumn builds a float series; NaN entries are missing.
func FloatColumn(name string, values []float64) series.Series {
	return series.New(values, series.Float, name)
}

// IntColumn builds an int series with an optional missing mask.
func IntColumn(name string, values []int, missing []bool) series.Series {
	raw := make([]string, len(values))
	for i, v := range values {
		if missing != nil && missing[i] {
			raw[i] = NAString
		} else {
			raw[i] = fmt.Sprint(v)
		}
	}
	return series.New(raw, series.Int, name)
}

// BoolColumn builds a bool series with an optional missing mask.
func BoolColumn(name string, values []bool, missing []bool) series.Series {
	raw := make([]string, len(values))
	for i, v := range values {
		if missing != nil && missing[i] {
			raw[i] = NAString
		} else {
			raw[i] = fmt.Sprint(v)
		}
	}
	return series.New(raw, series.Bool, name)
}

// IsMissingFloat reports whether v marks a missing numeric cell.
func IsMissingFloat(v float64) bool {
	return math.IsNaN(v)
}
