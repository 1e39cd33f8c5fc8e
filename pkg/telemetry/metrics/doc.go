/*
Package metrics provides Prometheus metrics for csvlint's long-running modes.

The collector tracks validation runs, defect counts by category, scanned
record totals, and per-file validation duration. Watch mode additionally
tracks the number of files under watch and filesystem event outcomes.

Metrics (with the default "csvlint" namespace):

	csvlint_runs_total{verdict}
	csvlint_defects_total{category}
	csvlint_records_scanned_total
	csvlint_check_duration_seconds
	csvlint_files_watched
	csvlint_watch_events_total{outcome}

A disabled collector registers its metrics but discards all updates, so
callers never need to branch on whether metrics are configured.
*/
package metrics
