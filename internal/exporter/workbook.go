package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/dataset"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/eda"
)

// Sheet names used by WriteReport.
const (
	SheetOverview     = "Overview"
	SheetTarget       = "Class Percentages"
	SheetSubcategory  = "Subcategories"
	SheetTextLength   = "Text Length"
	SheetWords        = "Frequent Words"
	SheetLinguistic   = "Linguistic Features"
	SheetEngagement   = "Engagement"
	SheetLanguage     = "Languages"
	SheetPostingTimes = "Posting Times"
	SheetFindings     = "Key Findings"
	SheetSkipped      = "Skipped"
	SheetData         = "Data"
)

const defaultSheet = "Sheet1"

// WorkbookWriter writes reports and datasets as xlsx workbooks.
type WorkbookWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer. paths may be nil.
func NewWorkbookWriter(paths *config.Paths, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{paths: paths, logger: logger.With(slog.String("component", "workbook_writer"))}
}

type sheet struct {
	name string
	rows [][]interface{}
}

// WriteReport writes one sheet per analysis present in r. Skipped analyses
// get no sheet of their own and are listed on the Skipped sheet.
func (w *WorkbookWriter) WriteReport(filePath string, r *eda.Report) error {
	if r == nil {
		return fmt.Errorf("nil report")
	}
	return w.save(filePath, reportSheets(r))
}

// WriteDataset writes ds to a single Data sheet. Missing cells stay blank.
func (w *WorkbookWriter) WriteDataset(filePath string, ds *dataset.Dataset) error {
	records := ds.Records("")
	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			if v != "" {
				row[j] = v
			}
		}
		rows[i] = row
	}
	return w.save(filePath, []sheet{{name: SheetData, rows: rows}})
}

func (w *WorkbookWriter) save(filePath string, sheets []sheet) error {
	fullPath := filePath
	if w.paths != nil && !filepath.IsAbs(filePath) {
		fullPath = w.paths.GetReportPath(filePath)
	}

	w.logger.Info("Writing workbook",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("sheets", len(sheets)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", s.name, err)
		}
		for i, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("failed to write sheet %q row %d: %w", s.name, i+1, err)
			}
		}
	}
	if len(sheets) > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
		if idx, err := f.GetSheetIndex(sheets[0].name); err == nil {
			f.SetActiveSheet(idx)
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func reportSheets(r *eda.Report) []sheet {
	var sheets []sheet

	if o := r.Overview; o != nil {
		rows := [][]interface{}{
			{"rows", o.Rows},
			{"columns", o.Columns},
			{},
			{"column", "type", "missing"},
		}
		for i, name := range o.Names {
			row := []interface{}{name, "", 0}
			if i < len(o.Types) {
				row[1] = o.Types[i]
			}
			if i < len(o.Missing) {
				row[2] = o.Missing[i].Count
			}
			rows = append(rows, row)
		}
		sheets = append(sheets, sheet{SheetOverview, rows})
	}
	if r.Target != nil {
		sheets = append(sheets, sheet{SheetTarget, distributionRows(r.Target, true)})
	}
	if r.Subcategory != nil {
		sheets = append(sheets, sheet{SheetSubcategory, distributionRows(r.Subcategory, false)})
	}
	if r.TextLength != nil {
		sheets = append(sheets, sheet{SheetTextLength, summaryRows(*r.TextLength)})
	}
	if len(r.WordFrequency) > 0 {
		rows := [][]interface{}{{"word", "count"}}
		for _, wc := range r.WordFrequency {
			rows = append(rows, []interface{}{wc.Word, wc.Count})
		}
		sheets = append(sheets, sheet{SheetWords, rows})
	}
	if l := r.Linguistic; l != nil {
		sheets = append(sheets, sheet{SheetLinguistic, summaryRows(l.WordCount, l.AvgWordLength)})
	}
	if r.Engagement != nil {
		sheets = append(sheets, sheet{SheetEngagement, summaryRows(*r.Engagement)})
	}
	if r.Language != nil {
		sheets = append(sheets, sheet{SheetLanguage, distributionRows(r.Language, true)})
	}
	if pt := r.PostingTimes; pt != nil {
		rows := [][]interface{}{
			{"peak_hour", pt.PeakHour},
			{"peak_count", pt.PeakCount},
			{"weekday", pt.Weekday},
			{"weekend", pt.Weekend},
			{"unparseable", pt.Unparseable},
			{},
			{"hour (EAT)", "posts"},
		}
		for _, hc := range pt.ByHour {
			rows = append(rows, []interface{}{hc.Hour, hc.Count})
		}
		sheets = append(sheets, sheet{SheetPostingTimes, rows})
	}
	if kf := r.Findings; kf != nil {
		rows := [][]interface{}{
			{"total_samples", kf.TotalSamples},
			{"top_category", kf.TopCategory},
			{"top_sentiment", kf.TopSentiment},
			{"top_language", kf.TopLanguage},
		}
		if kf.AvgTextLength != nil {
			rows = append(rows, []interface{}{"avg_text_length", floatCell(*kf.AvgTextLength)})
		}
		sheets = append(sheets, sheet{SheetFindings, rows})
	}
	if len(r.Skipped) > 0 {
		rows := [][]interface{}{{"analysis", "reason", "resource"}}
		for _, s := range r.Skipped {
			rows = append(rows, []interface{}{s.Analysis, s.Reason, s.Resource})
		}
		sheets = append(sheets, sheet{SheetSkipped, rows})
	}
	return sheets
}

func distributionRows(d *eda.Distribution, percentages bool) [][]interface{} {
	header := []interface{}{d.Column, "count"}
	if percentages {
		header = append(header, "percent")
	}
	rows := [][]interface{}{header}
	for _, c := range d.Counts {
		row := []interface{}{c.Value, c.Count}
		if percentages {
			row = append(row, c.Percent)
		}
		rows = append(rows, row)
	}
	return rows
}

func summaryRows(summaries ...eda.Summary) [][]interface{} {
	header := []interface{}{"stat"}
	for _, s := range summaries {
		header = append(header, s.Column)
	}
	rows := [][]interface{}{header}
	stats := []struct {
		name string
		get  func(eda.Summary) interface{}
	}{
		{"count", func(s eda.Summary) interface{} { return s.Count }},
		{"mean", func(s eda.Summary) interface{} { return floatCell(s.Mean) }},
		{"std", func(s eda.Summary) interface{} { return floatCell(s.Std) }},
		{"min", func(s eda.Summary) interface{} { return floatCell(s.Min) }},
		{"25%", func(s eda.Summary) interface{} { return floatCell(s.Q25) }},
		{"50%", func(s eda.Summary) interface{} { return floatCell(s.Median) }},
		{"75%", func(s eda.Summary) interface{} { return floatCell(s.Q75) }},
		{"max", func(s eda.Summary) interface{} { return floatCell(s.Max) }},
	}
	for _, st := range stats {
		row := []interface{}{st.name}
		for _, s := range summaries {
			row = append(row, st.get(s))
		}
		rows = append(rows, row)
	}
	return rows
}
