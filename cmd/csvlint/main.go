// Csvlint is a streaming validator for RFC 4180 CSV files.
//
// It scans input once, reports every structural defect it finds, and
// exits with a code reflecting the verdict:
//
//	# Validate a file
//	csvlint check data.csv
//
//	# Validate tab-separated input from stdin
//	cat data.tsv | csvlint check --delimiter '\t'
//
//	# Continuously revalidate a directory
//	csvlint watch data/
//
//	# Inspect past validation runs
//	csvlint history list
//
// Exit codes: 0 when the input is valid, 1 when the input could not be
// processed (unreadable file, invalid encoding), 2 when validation
// defects were found.
package main

func main() {
	Execute()
}
