package exporter

import (
	"math"
	"strconv"
)

// formatFloat writes v with exactly 2 decimal places. Undefined values are
// left empty rather than written as NaN.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// floatCell is formatFloat for spreadsheet cells: a nil cell stays blank.
func floatCell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return math.Round(v*100) / 100
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
