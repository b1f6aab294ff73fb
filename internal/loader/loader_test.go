package loader

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/dataset"
	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/shared/testutil"
)

func loadFixture(t *testing.T, content string) *Loader {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	l := New(testutil.WriteFixtureCSV(t, content), logger)
	_, err := l.Load(context.Background())
	require.NoError(t, err)
	return l
}

func fromCSV(t *testing.T, content string) *Loader {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(content), dataset.ReadOptions{})
	require.NoError(t, err)
	return FromDataset(ds, nil)
}

func column(t *testing.T, l *Loader, name string) []string {
	t.Helper()
	ds, err := l.Dataset()
	require.NoError(t, err)
	values, _, ok := ds.Strings(name)
	require.True(t, ok, "column %s", name)
	return values
}

func TestLoad(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	l := New(testutil.WriteFixtureCSV(t, testutil.LabelledCommentsCSV), logger)

	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Nrow())
	assert.Equal(t, 7, ds.Ncol())
	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Dataset loaded successfully")
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		wantType apperrors.ErrorType
	}{
		{"missing file", filepath.Join(dir, "absent.csv"), apperrors.ErrTypeNotFound},
		{"malformed file", testutil.WriteFixtureCSV(t, "a,b\n1,2,3\n"), apperrors.ErrTypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.path, nil)

			ds, err := l.Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, ds)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantType, appErr.Type)
			assert.Equal(t, tt.path, appErr.Resource())

			_, err = l.Dataset()
			assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
		})
	}
}

func TestOperationsBeforeLoad(t *testing.T) {
	l := New("unused.csv", nil)

	_, err := l.StandardizeColumnNames()
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	_, err = l.DropColumns("a")
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	_, err = l.CleanBracketedLabel("subcategory")
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	_, err = l.CanonicalizeLabel("language")
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	_, err = l.ReportMissing()
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	_, err = l.DropMissingRows()
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	_, err = l.ReportDuplicates()
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	_, err = l.DropDuplicates()
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	_, err = l.Info()
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	_, _, err = l.Shape()
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	_, err = l.Clean(context.Background(), CleanOptions{})
	assert.ErrorIs(t, err, apperrors.ErrNotLoaded)
	assert.ErrorIs(t, l.Save(filepath.Join(t.TempDir(), "x.csv")), apperrors.ErrNotLoaded)
}

func TestStandardizeColumnNames(t *testing.T) {
	l := loadFixture(t, testutil.LabelledCommentsCSV)

	ds, err := l.StandardizeColumnNames()
	require.NoError(t, err)
	want := []string{"comment_id", "text", "category", "subcategory", "language", "likes", "published_at"}
	assert.Equal(t, want, ds.Names())

	ds, err = l.StandardizeColumnNames()
	require.NoError(t, err)
	assert.Equal(t, want, ds.Names())
}

func TestDropColumns(t *testing.T) {
	l := loadFixture(t, testutil.CleanCommentsCSV)

	ds, err := l.DropColumns("likes", "does_not_exist")
	require.NoError(t, err)
	assert.False(t, ds.HasColumn("likes"))
	assert.Equal(t, 5, ds.Ncol())
	assert.Equal(t, 3, ds.Nrow())
}

func TestCleanBracketedLabel(t *testing.T) {
	l := fromCSV(t, "subcategory,other\n[Offensive] Non-personal,a\n[x] mid [y] end ,b\nplain,c\n,d\n")

	ds, err := l.CleanBracketedLabel("subcategory")
	require.NoError(t, err)

	values, missing, _ := ds.Strings("subcategory")
	assert.Equal(t, []string{"Non-personal", "mid  end", "plain"}, values[:3])
	assert.Equal(t, []bool{false, false, false, true}, missing)
}

func TestCleanBracketedLabel_MissingColumn(t *testing.T) {
	l := fromCSV(t, testutil.CleanCommentsCSV)
	before, _ := l.Snapshot()

	ds, err := l.CleanBracketedLabel("nope")
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, apperrors.ErrColumnNotFound)
	assert.True(t, apperrors.IsSoft(err))

	after, _ := l.Dataset()
	assert.Equal(t, before.Records(""), after.Records(""))
}

func TestCanonicalizeLabel(t *testing.T) {
	l := fromCSV(t, "language\nMixed (Code-switching)\nMixed   (Code-switching)\nMixed(Code-switching)\n  Mixed (Code-switching)  \nEnglish\nmixed (code-switching)\n")

	_, err := l.CanonicalizeLabel("language")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Code Switching",
		"Code Switching",
		"Code Switching",
		"Code Switching",
		"English",
		"mixed (code-switching)",
	}, column(t, l, "language"))

	_, err = l.CanonicalizeLabel("dialect")
	assert.ErrorIs(t, err, apperrors.ErrColumnNotFound)
}

func TestWithLabelRules(t *testing.T) {
	rules := []LabelRule{{
		Name:        "short_code_switching",
		Pattern:     regexp.MustCompile(`Mixed\s*\(Code-switching\)`),
		Replacement: "CS",
	}}
	ds, err := dataset.ReadCSV(strings.NewReader("language\nMixed (Code-switching)\nEnglish\n"), dataset.ReadOptions{})
	require.NoError(t, err)

	l := FromDataset(ds, nil, WithLabelRules(rules))
	_, err = l.CanonicalizeLabel("language")
	require.NoError(t, err)
	assert.Equal(t, []string{"CS", "English"}, column(t, l, "language"))
}

func TestDropMissingRows(t *testing.T) {
	l := loadFixture(t, testutil.LabelledCommentsCSV)
	original, _, _ := l.Shape()

	removed, err := l.DropMissingRows()
	require.NoError(t, err)

	ds, _ := l.Dataset()
	assert.Equal(t, 1, removed)
	assert.Equal(t, original-ds.Nrow(), removed)
	for _, m := range ds.MissingCounts() {
		assert.Zero(t, m.Count, m.Column)
	}

	removed, err = l.DropMissingRows()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestDuplicates(t *testing.T) {
	l := loadFixture(t, testutil.LabelledCommentsCSV)
	original, _, _ := l.Shape()

	reported, err := l.ReportDuplicates()
	require.NoError(t, err)
	assert.Equal(t, 1, reported)

	removed, err := l.DropDuplicates()
	require.NoError(t, err)
	assert.Equal(t, reported, removed)

	rows, _, _ := l.Shape()
	assert.Equal(t, original-reported, rows)

	removed, err = l.DropDuplicates()
	require.NoError(t, err)
	assert.Zero(t, removed)

	// first occurrence is kept
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, column(t, l, "Comment ID"))
}

func TestDuplicates_Subset(t *testing.T) {
	l := fromCSV(t, "text,category\na,X\na,Y\nb,X\n")

	n, err := l.ReportDuplicates("text")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = l.ReportDuplicates()
	require.NoError(t, err)
	assert.Zero(t, n)

	removed, err := l.DropDuplicates("text")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"X", "X"}, column(t, l, "category"))

	_, err = l.DropDuplicates("nope")
	assert.ErrorIs(t, err, apperrors.ErrColumnNotFound)
}

func TestInfo(t *testing.T) {
	l := fromCSV(t, testutil.CleanCommentsCSV)

	info, err := l.Info()
	require.NoError(t, err)
	assert.Equal(t, 3, info.Rows)
	assert.Equal(t, 6, info.Columns)
	assert.Equal(t, "likes", info.Names[4])
	assert.Equal(t, "int", info.Types[4])
	assert.Len(t, info.Missing, 6)
}

func TestClean(t *testing.T) {
	l := loadFixture(t, testutil.LabelledCommentsCSV)

	summary, err := l.Clean(context.Background(), CleanOptions{
		DropColumns:     []string{"comment_id"},
		BracketedColumn: "subcategory",
		LanguageColumn:  "language",
		DropMissing:     true,
		DuplicateSubset: []string{"text"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"text", "category", "subcategory", "language", "likes", "published_at"}, summary.Columns)
	assert.Equal(t, 1, summary.MissingRowsDropped)
	assert.Equal(t, 1, summary.DuplicatesFound)
	assert.Equal(t, 1, summary.DuplicatesDropped)
	assert.Equal(t, 3, summary.Rows)
	assert.Empty(t, summary.Skipped)

	assert.Equal(t, []string{"Insult", "None", "Threat"}, column(t, l, "subcategory"))
	assert.Equal(t, []string{"Code Switching", "English", "Swahili"}, column(t, l, "language"))
}

func TestClean_SkipsAbsentColumns(t *testing.T) {
	l := fromCSV(t, "Text\nhello\nhello\n")

	summary, err := l.Clean(context.Background(), CleanOptions{
		BracketedColumn: "subcategory",
		LanguageColumn:  "language",
		DuplicateSubset: []string{"category"},
	})
	require.NoError(t, err)
	assert.Len(t, summary.Skipped, 3)
	assert.Equal(t, 2, summary.Rows)
	assert.Equal(t, []string{"text"}, summary.Columns)
}

func TestSave_RoundTrip(t *testing.T) {
	l := loadFixture(t, testutil.LabelledCommentsCSV)
	_, err := l.StandardizeColumnNames()
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "reports", "cleaned.csv")
	require.NoError(t, l.Save(out))

	reloaded := New(out, nil)
	ds, err := reloaded.Load(context.Background())
	require.NoError(t, err)

	original, _ := l.Dataset()
	assert.Equal(t, original.Names(), ds.Names())
	assert.Equal(t, original.Nrow(), ds.Nrow())
	assert.Equal(t, original.MissingCounts(), ds.MissingCounts())
}

func TestSave_Workbook(t *testing.T) {
	l := loadFixture(t, testutil.CleanCommentsCSV)

	out := filepath.Join(t.TempDir(), "cleaned.xlsx")
	require.NoError(t, l.Save(out))

	ds, err := New(out, nil).Load(context.Background())
	require.NoError(t, err)

	original, _ := l.Dataset()
	assert.Equal(t, original.Names(), ds.Names())
	assert.Equal(t, original.Records(""), ds.Records(""))
}

func TestSnapshot_IsIndependent(t *testing.T) {
	l := loadFixture(t, testutil.CleanCommentsCSV)

	snap, err := l.Snapshot()
	require.NoError(t, err)
	snap.Drop("text")

	ds, _ := l.Dataset()
	assert.True(t, ds.HasColumn("text"))
}

func TestDuplicates_NearEqualFloatsAreDistinct(t *testing.T) {
	l := fromCSV(t, "score,id\n1.0000001,a\n1.0000002,a\n1.0000001,a\n")

	reported, err := l.ReportDuplicates()
	require.NoError(t, err)
	assert.Equal(t, 1, reported)

	removed, err := l.DropDuplicates()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"1.0000001", "1.0000002"}, column(t, l, "score"))
}

func TestSave_KeepsFloatPrecision(t *testing.T) {
	l := fromCSV(t, "score,text\n1.0000001,a\n2.25,b\n")

	out := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, l.Save(out))

	reloaded := New(out, nil)
	_, err := reloaded.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0000001", "2.25"}, column(t, reloaded, "score"))
}

func TestSave_AllRowsDroppedReloads(t *testing.T) {
	l := fromCSV(t, "text,label\na,\n,b\n")

	removed, err := l.DropMissingRows()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	out := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, l.Save(out))

	ds, err := New(out, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"text", "label"}, ds.Names())
	assert.Equal(t, 0, ds.Nrow())
}
