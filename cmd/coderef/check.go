package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"coderef/internal/conformance"
)

var (
	checkFormat string
	checkRecord string
	checkName   string
	checkAll    bool
)

var checkCmd = &cobra.Command{
	Use:   "check [suite.toml...]",
	Short: "Run conformance suites",
	Long: `Run TOML conformance suites against the parser. Each suite lists inputs with
their expected state, symbol type and canonical form.

With --record, references are read from stdin and the current parser output is
written as a new suite instead.

Examples:
  coderef check testdata/basic.toml
  coderef check --format json suites/*.toml
  coderef check --record suites/regress.toml < refs.txt`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "human", "Output format (human, json, yaml)")
	checkCmd.Flags().StringVar(&checkRecord, "record", "", "Write a suite recording the current behavior for stdin references")
	checkCmd.Flags().StringVar(&checkName, "name", "", "Suite name for --record (default: file name)")
	checkCmd.Flags().BoolVar(&checkAll, "all", false, "List passing cases too")
	addLegacyFlag(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkRecord != "" {
		return recordSuite(cmd, args)
	}
	if len(args) == 0 {
		return fmt.Errorf("no suites given")
	}
	format, err := parseOutputFormat(checkFormat)
	if err != nil {
		return err
	}

	opts := parseOptions(cmd)
	reports := make([]*conformance.Report, 0, len(args))
	failed := 0
	for _, path := range args {
		suite, err := conformance.LoadSuite(path)
		if err != nil {
			return err
		}
		report := conformance.Run(suite, opts)
		logger.Debug("Suite finished", "suite", report.Suite, "passed", report.Passed, "failed", report.Failed)
		if !report.OK() {
			failed++
		}
		reports = append(reports, report)
	}

	err = writeOutput(cmd.OutOrStdout(), format, reports, func(w io.Writer) error {
		for _, r := range reports {
			printReport(w, r, checkAll)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if failed > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%d of %d suites failed", failed, len(reports))}
	}
	return nil
}

func recordSuite(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("--record reads references from stdin and takes no suites")
	}
	inputs, err := readInputs(nil, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading references: %w", err)
	}

	suite := conformance.Snapshot(checkName, inputs, parseOptions(cmd))
	if err := conformance.WriteSuite(checkRecord, suite); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d cases to %s\n", len(suite.Cases), checkRecord)
	return nil
}

func printReport(w io.Writer, r *conformance.Report, all bool) {
	status := "ok"
	if !r.OK() {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%-4s %s  (%d passed, %d failed)\n", status, r.Suite, r.Passed, r.Failed)
	for _, res := range r.Results {
		switch {
		case !res.Passed:
			fmt.Fprintf(w, "  FAIL %s: %s\n", res.Case.Label(), res.Reason)
		case all:
			fmt.Fprintf(w, "  ok   %s\n", res.Case.Label())
		}
	}
}
