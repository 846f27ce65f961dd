package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"coderef/internal/coderef"
	"coderef/internal/doccomment"
	"coderef/internal/errors"
	"coderef/internal/paths"
	"coderef/internal/storage"
)

var (
	scanFormat    string
	scanNoCatalog bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan doc comments for code references",
	Long: `Scan C# sources and XML documentation files under dir (default: --root)
for cref attributes, parse every reference found and record the run in the
catalog.

Examples:
  coderef scan                 # Scan the project root
  coderef scan src --format json
  coderef scan --no-catalog    # Report only, do not record the run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFormat, "format", "human", "Output format (human, json, yaml)")
	scanCmd.Flags().BoolVar(&scanNoCatalog, "no-catalog", false, "Do not record the run in the catalog")
	addLegacyFlag(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

// ScanSummary is the result of a scan command
type ScanSummary struct {
	RunID      string                `json:"runId,omitempty" yaml:"runId,omitempty"`
	Root       string                `json:"root" yaml:"root"`
	Files      int                   `json:"files" yaml:"files"`
	References int                   `json:"references" yaml:"references"`
	ByState    map[coderef.State]int `json:"byState" yaml:"byState"`
	Problems   []coderef.Occurrence  `json:"problems,omitempty" yaml:"problems,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := parseOutputFormat(scanFormat)
	if err != nil {
		return err
	}

	dir := rootFlag
	if len(args) == 1 {
		dir = args[0]
	}
	ctx := cmd.Context()

	scanner := doccomment.NewScanner(logger, parseOptions(cmd))
	filter := doccomment.Filter{
		Extensions: cfg.Scan.Extensions,
		Ignore:     cfg.Scan.Ignore,
	}

	var catalog *storage.Catalog
	var runID string
	if !scanNoCatalog {
		catalog, err = storage.OpenCatalog(paths.ResolveRepoPath(rootFlag, cfg.Catalog.Path), logger)
		if err != nil {
			return err
		}
		defer catalog.Close()

		absDir, absErr := filepath.Abs(dir)
		if absErr != nil {
			absDir = dir
		}
		if runID, err = catalog.BeginRun(ctx, absDir); err != nil {
			return errors.New(errors.CatalogUnavailable, "cannot start scan run", err)
		}
	}

	logger.Info("Scanning", "dir", dir, "parser", parserName())
	result, err := scanner.ScanDirectory(ctx, dir, filter)
	if err != nil {
		return errors.New(errors.ScanFailed, fmt.Sprintf("scan of %s failed", dir), err)
	}

	summary := summarize(result)
	if catalog != nil {
		summary.RunID = runID
		if err := catalog.RecordReferences(ctx, runID, result.Occurrences); err != nil {
			return errors.New(errors.CatalogUnavailable, "cannot record references", err)
		}
		stats := storage.RunStats{
			Files:      result.Files,
			References: len(result.Occurrences),
			Invalid:    result.Invalid(),
		}
		if err := catalog.FinishRun(ctx, runID, stats); err != nil {
			return errors.New(errors.CatalogUnavailable, "cannot finish scan run", err)
		}
		logger.Info("Scan recorded", "run", runID, "references", stats.References)
	}

	return writeOutput(cmd.OutOrStdout(), format, summary, func(w io.Writer) error {
		printScanSummary(w, summary)
		return nil
	})
}

func parserName() string {
	if doccomment.IsAvailable() {
		return "tree-sitter"
	}
	return "line"
}

func summarize(result *doccomment.Result) *ScanSummary {
	summary := &ScanSummary{
		Root:       result.Root,
		Files:      result.Files,
		References: len(result.Occurrences),
		ByState: map[coderef.State]int{
			coderef.StateValid:       0,
			coderef.StateInvalid:     0,
			coderef.StateUnspecified: 0,
		},
	}
	for _, occ := range result.Occurrences {
		summary.ByState[occ.Reference.State()]++
		if !occ.Reference.IsValid() {
			summary.Problems = append(summary.Problems, occ)
		}
	}
	return summary
}

func printScanSummary(w io.Writer, s *ScanSummary) {
	if s.RunID != "" {
		fmt.Fprintf(w, "Run:         %s\n", s.RunID)
	}
	fmt.Fprintf(w, "Root:        %s\n", s.Root)
	fmt.Fprintf(w, "Files:       %d\n", s.Files)
	fmt.Fprintf(w, "References:  %d (valid %d, invalid %d, unspecified %d)\n",
		s.References,
		s.ByState[coderef.StateValid],
		s.ByState[coderef.StateInvalid],
		s.ByState[coderef.StateUnspecified])

	if len(s.Problems) == 0 {
		return
	}
	fmt.Fprintln(w, "\nUnresolved references:")
	for _, occ := range s.Problems {
		fmt.Fprintf(w, "  %s  %-11s %s\n", occ.Location, occ.Reference.State(), occ.Reference.OriginalString())
	}
}
