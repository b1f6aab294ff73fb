package eda

import "sort"

// ValueCount is one distinct value with its frequency. Percent is only set by
// analyses that report shares.
type ValueCount struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent,omitempty"`
}

// Distribution is the value counts of one column.
type Distribution struct {
	Column string       `json:"column"`
	Total  int          `json:"total"`
	Counts []ValueCount `json:"counts"`
}

// Top returns the most frequent value, or "" when there is none.
func (d *Distribution) Top() string {
	if d == nil || len(d.Counts) == 0 {
		return ""
	}
	return d.Counts[0].Value
}

// valueCounts counts the non-missing values, ordered by count descending.
// Equal counts keep first-encountered order.
func valueCounts(values []string, missing []bool) []ValueCount {
	index := make(map[string]int)
	var counts []ValueCount
	for i, v := range values {
		if missing != nil && missing[i] {
			continue
		}
		if j, ok := index[v]; ok {
			counts[j].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// withPercentages fills Percent as the share of total, rounded to 2 decimals.
func withPercentages(counts []ValueCount) (int, []ValueCount) {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return 0, counts
	}
	for i := range counts {
		counts[i].Percent = round2(float64(counts[i].Count) / float64(total) * 100)
	}
	return total, counts
}
