package dataset

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sample = `text,category,likes
hello there,Bullying,3
nice,Not Bullying,
hello there,Bullying,3
`

func mustRead(t *testing.T, content string) *Dataset {
	t.Helper()
	ds, err := ReadCSV(strings.NewReader(content), ReadOptions{})
	require.NoError(t, err)
	return ds
}

func TestReadCSV(t *testing.T) {
	ds := mustRead(t, sample)

	assert.Equal(t, 3, ds.Nrow())
	assert.Equal(t, 3, ds.Ncol())
	assert.Equal(t, []string{"text", "category", "likes"}, ds.Names())
	assert.Equal(t, []string{"string", "string", "int"}, ds.Types())
	assert.Equal(t, []ColumnCount{
		{Column: "text", Count: 0},
		{Column: "category", Count: 0},
		{Column: "likes", Count: 1},
	}, ds.MissingCounts())
}

func TestReadCSV_NaNMarkersAndDelimiter(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a;b\nnull;x\nN/A;y\nz;<nil>\nw;v\n"), ReadOptions{Delimiter: ';'})
	require.NoError(t, err)

	assert.Equal(t, []bool{true, true, true, false}, ds.RowsWithMissing())
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"), ReadOptions{})
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader(""), ReadOptions{})
	assert.Error(t, err)
}

func TestCopy_IsIndependent(t *testing.T) {
	ds := mustRead(t, sample)
	cp := ds.Copy()

	require.NoError(t, cp.SetColumn(FloatColumn("text_length", []float64{1, 2, 3})))
	cp.Drop("category")

	assert.False(t, ds.HasColumn("text_length"))
	assert.True(t, ds.HasColumn("category"))
	assert.True(t, cp.HasColumn("text_length"))
}

func TestSetColumn_Replaces(t *testing.T) {
	ds := mustRead(t, sample)
	a, c := "x", "z"

	require.NoError(t, ds.SetColumn(StringColumn("category", []*string{&a, nil, &c})))

	values, missing, ok := ds.Strings("category")
	require.True(t, ok)
	assert.Equal(t, "x", values[0])
	assert.Equal(t, []bool{false, true, false}, missing)
	assert.Equal(t, 3, ds.Ncol())
}

func TestSetNames(t *testing.T) {
	ds := mustRead(t, sample)

	require.NoError(t, ds.SetNames([]string{"body", "label", "likes"}))
	assert.Equal(t, []string{"body", "label", "likes"}, ds.Names())

	assert.Error(t, ds.SetNames([]string{"a", "a", "b"}))
	assert.Error(t, ds.SetNames([]string{"a"}))
	assert.Error(t, ds.SetNames([]string{"a", "", "b"}))
}

func TestDrop(t *testing.T) {
	ds := mustRead(t, sample)

	dropped := ds.Drop("likes", "nope")
	assert.Equal(t, []string{"likes"}, dropped)
	assert.Equal(t, []string{"text", "category"}, ds.Names())

	assert.Nil(t, ds.Drop("nope"))

	ds.Drop("text", "category")
	assert.Zero(t, ds.Ncol())
	assert.Zero(t, ds.Nrow())
}

func TestSubset(t *testing.T) {
	ds := mustRead(t, sample)

	require.NoError(t, ds.Subset([]int{1, 2}))
	values, _, _ := ds.Strings("text")
	assert.Equal(t, []string{"nice", "hello there"}, values)

	require.NoError(t, ds.Subset([]int{}))
	assert.Zero(t, ds.Nrow())
}

func TestRowKeys(t *testing.T) {
	ds := mustRead(t, sample)

	keys, err := ds.RowKeys()
	require.NoError(t, err)
	assert.Equal(t, keys[0], keys[2])
	assert.NotEqual(t, keys[0], keys[1])

	keys, err = ds.RowKeys("category")
	require.NoError(t, err)
	assert.Equal(t, keys[0], keys[2])

	_, err = ds.RowKeys("missing")
	assert.Error(t, err)
}

func TestFloats(t *testing.T) {
	ds := mustRead(t, "likes,text\n3,a\nabc,b\n,c\n")

	values, ok := ds.Floats("likes")
	require.True(t, ok)
	assert.Equal(t, 3.0, values[0])
	assert.True(t, math.IsNaN(values[1]))
	assert.True(t, math.IsNaN(values[2]))

	_, ok = ds.Floats("nope")
	assert.False(t, ok)
}

func TestRecords(t *testing.T) {
	ds := mustRead(t, sample)

	records := ds.Records("")
	require.Len(t, records, 4)
	assert.Equal(t, []string{"text", "category", "likes"}, records[0])
	assert.Equal(t, []string{"nice", "Not Bullying", ""}, records[2])
}

func TestColumnBuilders(t *testing.T) {
	ints := IntColumn("n", []int{1, 0, 3}, []bool{false, true, false})
	assert.Equal(t, series.Int, ints.Type())
	assert.Equal(t, []bool{false, true, false}, ints.IsNaN())

	bools := BoolColumn("b", []bool{true, false}, nil)
	assert.Equal(t, series.Bool, bools.Type())
	assert.Equal(t, []string{"true", "false"}, bools.Records())

	floats := FloatColumn("f", []float64{1.5, math.NaN()})
	assert.Equal(t, []bool{false, true}, floats.IsNaN())
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comments.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"text", "category", "likes"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"hello there", "Bullying", 3}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"nice", "Not Bullying"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := ReadFile(context.Background(), path, ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"text", "category", "likes"}, ds.Names())
	assert.Equal(t, 2, ds.Nrow())
	assert.Equal(t, 1, ds.MissingCounts()[2].Count)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(context.Background(), filepath.Join(dir, "absent.csv"), ReadOptions{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ReadFile(ctx, filepath.Join(dir, "absent.csv"), ReadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelimiterFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{";", ';', false},
		{`\t`, '\t', false},
		{";;", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DelimiterFromString(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSV_SkipsBOM(t *testing.T) {
	ds := mustRead(t, "\xEF\xBB\xBFcomment_text\nhello\n")
	assert.Equal(t, []string{"comment_text"}, ds.Names())
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	ds := mustRead(t, "comment_text,label\n")

	assert.Equal(t, 0, ds.Nrow())
	assert.Equal(t, []string{"comment_text", "label"}, ds.Names())
	assert.Equal(t, [][]string{{"comment_text", "label"}}, ds.Records(""))

	keys, err := ds.RowKeys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestReadXLSX_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"text", "category"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := ReadFile(context.Background(), path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"text", "category"}, ds.Names())
	assert.Equal(t, 0, ds.Nrow())
}

func TestFloatCells_KeepFullPrecision(t *testing.T) {
	ds := mustRead(t, "score,id\n1.0000001,a\n1.0000002,a\n1.5,b\n,b\n")

	values, missing, ok := ds.Strings("score")
	require.True(t, ok)
	assert.Equal(t, []string{"1.0000001", "1.0000002", "1.5"}, values[:3])
	assert.Equal(t, []bool{false, false, false, true}, missing)

	keys, err := ds.RowKeys()
	require.NoError(t, err)
	assert.NotEqual(t, keys[0], keys[1])

	assert.Equal(t, []string{"1.0000001", "a"}, ds.Records("")[1])
	assert.Equal(t, []string{"", "b"}, ds.Records("")[4])
}
