// Package exporter writes datasets, scraped comments and analysis reports
// to disk.
//
// CSVWriter handles plain CSV output: whole files, appends, and a streaming
// writer for long runs such as the comment scraper. WorkbookWriter renders
// an analysis report as an Excel workbook with one sheet per analysis.
//
// Relative paths are resolved against the configured directories when the
// writer is built with a *config.Paths:
//
//	w := exporter.NewCSVWriter(paths, logger)
//	err := w.WriteComments("raw/comments.csv", comments) // lands in RawDir
//	err = w.WriteDataset("cleaned.csv", ds)             // lands in ReportsDir
package exporter
