// Package shared holds helpers used by more than one internal package.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler, a slog.Handler that captures records for assertions
//   - dataset fixtures: small labelled-comment CSV files written to t.TempDir()
//
// Example usage:
//
//	func TestLoad(t *testing.T) {
//	    path := testutil.WriteFixtureCSV(t, testutil.LabelledCommentsCSV)
//	    logger, logs := testutil.NewTestLogger(t)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "dataset loaded")
//	}
//
// Nothing here should be imported from non-test code.
package shared
