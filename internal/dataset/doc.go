// Package dataset wraps a gota DataFrame as the single tabular value shared
// by the loader and the analyzer.
//
// A Dataset is an explicit value: the loader mutates its own instance in
// place, and anything handed to another component is passed through Copy.
// Missing cells are gota NA elements; the reader maps the configured
// NaN markers (empty cell, "NA", "NaN", "null" ...) onto them.
//
// Supported inputs are delimited text (ReadCSV) and the first sheet of an
// Excel workbook (ReadXLSX). ReadFile picks the reader from the extension.
package dataset
