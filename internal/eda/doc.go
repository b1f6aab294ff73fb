// Package eda runs the exploratory analysis of a labelled comment dataset.
//
// An Analyzer takes a private copy of a dataset at construction. Each
// analysis checks that its column exists and returns an error matching
// apperrors.ErrColumnNotFound when it does not, so callers can treat absent
// optional columns as a no-op:
//
//	a := eda.New(ds, charts.NewPNGRenderer(dir, logger), logger)
//	dist, err := a.TargetDistribution("category")
//	if errors.Is(err, apperrors.ErrColumnNotFound) {
//	    // nothing to report
//	}
//
// Run executes every analysis and gathers the results into a Report that can
// be printed or exported. Posting times are reported in East Africa Time.
package eda
