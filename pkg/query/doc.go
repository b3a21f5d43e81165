// Package query executes single read-only cluster queries and captures their
// output and status without raising on failure. Results are first-class
// values the output sink and summary generator can inspect, so one failed
// query never aborts a collection run.
package query
