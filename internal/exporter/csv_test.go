package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/dataset"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/eda"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/shared/testutil"
)

func setupTestEnv(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), config.Default().Paths)
	require.NoError(t, paths.EnsureDirectories())
	logger, _ := testutil.NewTestLogger(t)
	return NewCSVWriter(paths, logger), paths
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, paths := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		wantPath string
		wantBOM  bool
		want     [][]string
	}{
		{
			name:     "headers and records",
			filePath: "simple.csv",
			options: WriteOptions{
				Headers: []string{"text", "category"},
				Records: [][]string{{"hello", "Not Bullying"}, {"wewe, mjinga", "Bullying"}},
			},
			wantPath: paths.GetReportPath("simple.csv"),
			want:     [][]string{{"text", "category"}, {"hello", "Not Bullying"}, {"wewe, mjinga", "Bullying"}},
		},
		{
			name:     "raw prefix",
			filePath: "raw/comments.csv",
			options:  WriteOptions{Headers: []string{"comment_text"}, Records: [][]string{{"a"}}},
			wantPath: paths.GetRawPath("comments.csv"),
			want:     [][]string{{"comment_text"}, {"a"}},
		},
		{
			name:     "nested report directory is created",
			filePath: filepath.Join("nested", "deep", "out.csv"),
			options:  WriteOptions{Headers: []string{"x"}},
			wantPath: paths.GetReportPath(filepath.Join("nested", "deep", "out.csv")),
			want:     [][]string{{"x"}},
		},
		{
			name:     "bom prefix",
			filePath: "bom.csv",
			options:  WriteOptions{Headers: []string{"x"}, Records: [][]string{{"1"}}, BOMPrefix: true},
			wantPath: paths.GetReportPath("bom.csv"),
			wantBOM:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))
			require.FileExists(t, tt.wantPath)

			raw, err := os.ReadFile(tt.wantPath)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBOM, strings.HasPrefix(string(raw), "\xEF\xBB\xBF"))
			if tt.want != nil {
				assert.Equal(t, tt.want, readCSV(t, tt.wantPath))
			}
		})
	}
}

func TestCSVWriter_AbsolutePathAndNilPaths(t *testing.T) {
	out := filepath.Join(t.TempDir(), "abs.csv")
	w := NewCSVWriter(nil, nil)

	require.NoError(t, w.WriteSimpleCSV(out, []string{"a"}, [][]string{{"1"}}))
	assert.Equal(t, [][]string{{"a"}, {"1"}}, readCSV(t, out))
}

func TestCSVWriter_Append(t *testing.T) {
	writer, paths := setupTestEnv(t)

	require.NoError(t, writer.WriteSimpleCSV("log.csv", []string{"n"}, [][]string{{"1"}}))
	require.NoError(t, writer.AppendToCSV("log.csv", [][]string{{"2"}, {"3"}}))

	assert.Equal(t, [][]string{{"n"}, {"1"}, {"2"}, {"3"}}, readCSV(t, paths.GetReportPath("log.csv")))
}

func TestCSVWriter_OverwriteTruncates(t *testing.T) {
	writer, paths := setupTestEnv(t)

	require.NoError(t, writer.WriteSimpleCSV("o.csv", []string{"n"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, writer.WriteSimpleCSV("o.csv", []string{"n"}, [][]string{{"9"}}))

	assert.Equal(t, [][]string{{"n"}, {"9"}}, readCSV(t, paths.GetReportPath("o.csv")))
}

func TestCSVWriter_WriteDataset(t *testing.T) {
	writer, paths := setupTestEnv(t)
	ds, err := dataset.ReadCSV(strings.NewReader("text,likes\nhello,1\n\"a, b\",\n"), dataset.ReadOptions{})
	require.NoError(t, err)

	require.NoError(t, writer.WriteDataset("ds.csv", ds))

	assert.Equal(t, [][]string{{"text", "likes"}, {"hello", "1"}, {"a, b", ""}},
		readCSV(t, paths.GetReportPath("ds.csv")))
}

func TestCSVWriter_WriteComments(t *testing.T) {
	writer, paths := setupTestEnv(t)
	comments := []string{"first", "multi\nline \"quoted\"", "sawa, poa"}

	require.NoError(t, writer.WriteComments("raw/comments.csv", comments))

	records := readCSV(t, paths.GetRawPath("comments.csv"))
	require.Len(t, records, 4)
	assert.Equal(t, []string{CommentTextHeader}, records[0])
	assert.Equal(t, "multi\nline \"quoted\"", records[2][0])
	assert.Equal(t, "sawa, poa", records[3][0])
}

func TestCSVWriter_WriteComments_Empty(t *testing.T) {
	writer, paths := setupTestEnv(t)

	require.NoError(t, writer.WriteComments("raw/none.csv", nil))
	assert.Equal(t, [][]string{{CommentTextHeader}}, readCSV(t, paths.GetRawPath("none.csv")))
}

func TestCSVWriter_AppendComments(t *testing.T) {
	writer, paths := setupTestEnv(t)

	require.NoError(t, writer.AppendComments("raw/grow.csv", []string{"one"}))
	require.NoError(t, writer.AppendComments("raw/grow.csv", []string{"two", "three"}))

	assert.Equal(t, [][]string{{CommentTextHeader}, {"one"}, {"two"}, {"three"}},
		readCSV(t, paths.GetRawPath("grow.csv")))
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	writer, paths := setupTestEnv(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"Name", "Value"})
	require.NoError(t, err)
	for _, rec := range [][]string{{"a", "1"}, {"b", "2"}} {
		require.NoError(t, stream.WriteRecord(rec))
	}
	require.NoError(t, stream.Close())

	raw, err := os.ReadFile(paths.GetReportPath("stream.csv"))
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(string(raw), "\xEF\xBB\xBF"))
	assert.Equal(t, "Name,Value\na,1\nb,2\n", string(raw))
}

func TestCSVWriter_CreateStreamWriter_BadDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewCSVWriter(nil, nil).CreateStreamWriter(filepath.Join(blocker, "out.csv"), nil)
	assert.Error(t, err)
}

func TestCSVWriter_WriteDistribution(t *testing.T) {
	writer, paths := setupTestEnv(t)
	d := &eda.Distribution{
		Column: "category",
		Total:  3,
		Counts: []eda.ValueCount{
			{Value: "Bullying", Count: 2, Percent: 66.67},
			{Value: "Not Bullying", Count: 1, Percent: 33.33},
		},
	}

	require.NoError(t, writer.WriteDistribution("class_percentages.csv", d))

	raw, err := os.ReadFile(paths.GetReportPath("class_percentages.csv"))
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFcategory,count,percent\nBullying,2,66.67\nNot Bullying,1,33.33\n", string(raw))
}

func TestResolvePath(t *testing.T) {
	writer, paths := setupTestEnv(t)

	assert.Equal(t, paths.GetReportPath("a.csv"), writer.resolvePath("a.csv"))
	assert.Equal(t, paths.GetRawPath("b.csv"), writer.resolvePath("raw/b.csv"))
	assert.Equal(t, filepath.Join(paths.BaseDir, "data", "c.csv"), writer.resolvePath("data/c.csv"))
	abs := filepath.Join(paths.BaseDir, "elsewhere.csv")
	assert.Equal(t, abs, writer.resolvePath(abs))
}
