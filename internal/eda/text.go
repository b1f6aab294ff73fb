package eda

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// missingText is the text form of a missing cell, so a missing comment
// counts as three characters the way a stringified NaN does.
const missingText = "nan"

// asText returns the cell as text, with missing cells rendered as "nan".
func asText(values []string, missing []bool) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if missing != nil && missing[i] {
			out[i] = missingText
			continue
		}
		out[i] = v
	}
	return out
}

// textLength counts characters, not bytes.
func textLength(s string) int {
	return utf8.RuneCountInString(s)
}

// wordStats returns the whitespace-separated word count and the mean word
// length in characters (0 for empty text).
func wordStats(s string) (int, float64) {
	words := strings.Fields(s)
	if len(words) == 0 {
		return 0, 0
	}
	total := 0
	for _, w := range words {
		total += utf8.RuneCountInString(w)
	}
	return len(words), float64(total) / float64(len(words))
}

// tokenize lowercases s, keeps only ASCII letters and whitespace, and splits
// on whitespace.
func tokenize(s string) []string {
	lowered := strings.ToLower(s)
	cleaned := strings.Map(func(r rune) rune {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, lowered)
	return strings.Fields(cleaned)
}

// WordCount is a word and the number of times it occurs.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// topWords counts tokens across texts and returns the n most frequent.
// Ties keep the order in which words were first seen.
func topWords(texts []string, n int) []WordCount {
	var tokens []string
	for _, t := range texts {
		tokens = append(tokens, tokenize(t)...)
	}
	counts := valueCounts(tokens, nil)
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	out := make([]WordCount, len(counts))
	for i, c := range counts {
		out[i] = WordCount{Word: c.Value, Count: c.Count}
	}
	return out
}
