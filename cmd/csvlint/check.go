package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackstar257/csvlint/pkg/cli"
	"github.com/blackstar257/csvlint/pkg/config"
	"github.com/blackstar257/csvlint/pkg/csv/defect"
	"github.com/blackstar257/csvlint/pkg/csv/validator"
	"github.com/blackstar257/csvlint/pkg/history"
	"github.com/blackstar257/csvlint/pkg/telemetry/logging"
)

var checkFlags struct {
	delimiter        string
	lazyQuotes       bool
	rfc4180          bool
	requireFinalCRLF bool
	format           string
	maxDefects       int
}

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Validate CSV files",
	Long: `Validate CSV files against RFC 4180 in a single streaming pass.

With no file arguments, input is read from stdin. Every structural defect
is reported with the record it occurred in; records are numbered from 1
including the header.

Examples:
  # Validate a file
  csvlint check data.csv

  # Tab-separated input
  csvlint check --delimiter '\t' data.tsv

  # Strict RFC 4180 mode (comma delimiter, CRLF line endings)
  csvlint check --rfc4180 data.csv

  # Tolerate sloppy quoting but still report it
  csvlint check --lazy-quotes data.csv

  # JSON output for CI/CD
  csvlint check --format json data.csv

Exit codes: 0 valid, 1 input could not be processed, 2 defects found.`,
	Args: cobra.ArbitraryArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.delimiter, "delimiter", "d", ",", `field delimiter (',', '\t', '|', ':', ';', or any single character)`)
	checkCmd.Flags().BoolVarP(&checkFlags.lazyQuotes, "lazy-quotes", "l", false, "tolerate malformed quoting, keeping stray bytes as content")
	checkCmd.Flags().BoolVar(&checkFlags.rfc4180, "rfc4180", false, "strict RFC 4180 mode: comma delimiter and CRLF line endings")
	checkCmd.Flags().BoolVar(&checkFlags.requireFinalCRLF, "require-final-crlf", false, "in strict mode, require CRLF on the final record too")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "", "output format: text, json")
	checkCmd.Flags().IntVar(&checkFlags.maxDefects, "max-defects", 0, "stop after this many defects (0 = unlimited)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	mode, delimStr, err := buildMode(cfg, cmd, logger)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	format := cfg.Check.Format
	if cmd.Flags().Changed("format") {
		format = checkFlags.format
	}
	if format != string(cli.FormatText) && format != string(cli.FormatJSON) {
		return cli.NewCommandError("check", fmt.Errorf("unknown output format %q", format))
	}
	formatter := cli.NewFormatter(cli.OutputFormat(format))

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.NewStore(cfg.History.Path)
		if err != nil {
			return cli.NewCommandError("check", err)
		}
		defer store.Close()
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	worst := cli.ExitOK
	for _, input := range inputs {
		code := checkOne(cmd, input, mode, delimStr, formatter, logger, store)
		if code == cli.ExitFatal || (code == cli.ExitDefects && worst == cli.ExitOK) {
			worst = code
		}
	}

	if worst != cli.ExitOK {
		return cli.NewCommandErrorWithCode("check", worst, fmt.Errorf("validation failed"))
	}
	return nil
}

// checkOne validates a single input and returns its exit code.
func checkOne(cmd *cobra.Command, input string, mode validator.Mode, delimStr string, formatter cli.Formatter, logger *logging.Logger, store *history.Store) int {
	name := input
	var reader io.Reader
	if input == "-" {
		name = "stdin"
		reader = cmd.InOrStdin()
	} else {
		f, err := os.Open(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "I/O error: %v\n", err)
			return cli.ExitFatal
		}
		defer f.Close()
		reader = f
	}

	start := time.Now()
	v := validator.New(reader, mode)
	result := v.Run()
	duration := time.Since(start)

	report := checkReport{
		File:       name,
		Valid:      result.Valid,
		Fatal:      result.Fatal,
		Truncated:  result.Truncated,
		Records:    v.Records(),
		Duration:   duration,
		DurationMS: float64(duration.Microseconds()) / 1000,
		Errors:     result.Defects,
	}
	if err := formatter.FormatTo(cmd.OutOrStdout(), report); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
		return cli.ExitFatal
	}

	logger.Debug("validation complete",
		"file", name,
		"valid", result.Valid,
		"records", v.Records(),
		"defects", len(result.Defects),
		"duration", duration,
	)

	if store != nil {
		run := &history.Run{
			File:          name,
			Delimiter:     delimStr,
			LazyQuotes:    mode.LazyQuotes,
			StrictRFC4180: mode.StrictRFC4180,
			Valid:         result.Valid,
			Fatal:         result.Fatal,
			RecordCount:   v.Records(),
			Defects:       result.Defects,
			StartedAt:     start,
			Duration:      duration,
		}
		if err := store.Save(cmd.Context(), run); err != nil {
			logger.Warn("failed to record run", "file", name, "error", err)
		}
	}

	switch {
	case result.Fatal:
		return cli.ExitFatal
	case !result.Valid:
		return cli.ExitDefects
	default:
		return cli.ExitOK
	}
}

// buildMode resolves the validation mode from config and flags. Flags win
// over config values when set. Strict mode overrides a conflicting
// delimiter and lazy quotes with a warning, keeping the run well-defined.
func buildMode(cfg *config.Config, cmd *cobra.Command, logger *logging.Logger) (validator.Mode, string, error) {
	delimStr := cfg.Check.Delimiter
	if cmd.Flags().Changed("delimiter") {
		delimStr = checkFlags.delimiter
	}

	lazy := cfg.Check.LazyQuotes
	if cmd.Flags().Changed("lazy-quotes") {
		lazy = checkFlags.lazyQuotes
	}

	strict := cfg.Check.RFC4180
	if cmd.Flags().Changed("rfc4180") {
		strict = checkFlags.rfc4180
	}

	requireFinal := cfg.Check.RequireFinalTerminator
	if cmd.Flags().Changed("require-final-crlf") {
		requireFinal = checkFlags.requireFinalCRLF
	}

	maxDefects := cfg.Check.MaxDefects
	if cmd.Flags().Changed("max-defects") {
		maxDefects = checkFlags.maxDefects
	}

	if strict {
		if delimStr != "," {
			logger.Warn("strict RFC 4180 mode requires a comma delimiter, overriding", "delimiter", delimStr)
			delimStr = ","
		}
		if lazy {
			logger.Warn("strict RFC 4180 mode disables lazy quotes")
			lazy = false
		}
	}

	delim, err := config.ParseDelimiter(delimStr)
	if err != nil {
		return validator.Mode{}, "", err
	}

	return validator.Mode{
		Delimiter:              delim,
		LazyQuotes:             lazy,
		StrictRFC4180:          strict,
		RequireFinalTerminator: requireFinal,
		MaxDefects:             maxDefects,
	}, delimStr, nil
}

// checkReport is the per-file result rendered by the check command.
type checkReport struct {
	File       string          `json:"file"`
	Valid      bool            `json:"valid"`
	Fatal      bool            `json:"fatal,omitempty"`
	Truncated  bool            `json:"truncated,omitempty"`
	Records    int64           `json:"records"`
	Duration   time.Duration   `json:"-"`
	DurationMS float64         `json:"duration_ms"`
	Errors     []defect.Defect `json:"errors,omitempty"`
}

// MarshalCLIText renders the category summary followed by the defect
// listing in input order.
func (r checkReport) MarshalCLIText() string {
	var b strings.Builder

	if r.Valid {
		fmt.Fprintf(&b, "%s: valid (%d records)\n", r.File, r.Records)
		return b.String()
	}

	counts := make(map[defect.Category]int)
	for _, d := range r.Errors {
		counts[d.Category]++
	}
	var parts []string
	for _, c := range defect.Categories() {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}

	fmt.Fprintf(&b, "%s: invalid (%d error(s): %s)\n", r.File, len(r.Errors), strings.Join(parts, ", "))
	if r.Truncated {
		b.WriteString("defect limit reached, listing is incomplete\n")
	}
	for _, d := range r.Errors {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}
