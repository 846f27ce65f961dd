package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"coderef/internal/coderef"
	"coderef/internal/errors"
	"coderef/internal/export"
	"coderef/internal/paths"
	"coderef/internal/storage"
	"coderef/internal/version"
)

var (
	exportRun      string
	exportFormat   string
	exportCompress bool
	exportOutput   string
	exportState    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export catalogued references",
	Long: `Export the references recorded by a scan run.

Formats:
  jsonl  One occurrence per line, optionally zstd compressed
  yaml   A single document with run metadata
  scip   A SCIP index; only valid references become occurrences

Examples:
  coderef export                          # Latest run as JSONL on stdout
  coderef export --format scip -o index.scip
  coderef export --run 3f6c... --state invalid --format yaml`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportRun, "run", storage.LatestRunID, "Scan run id, or latest")
	exportCmd.Flags().StringVar(&exportFormat, "format", "jsonl", "Export format (jsonl, yaml, scip; default from export.format)")
	exportCmd.Flags().BoolVar(&exportCompress, "compress", false, "Compress JSONL output with zstd (default from export.compress)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	exportCmd.Flags().StringVar(&exportState, "state", "", "Only export references in this state (valid, invalid, unspecified)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	formatName := cfg.Export.Format
	if cmd.Flags().Changed("format") {
		formatName = exportFormat
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	compress := cfg.Export.Compress
	if cmd.Flags().Changed("compress") {
		compress = exportCompress
	}

	var filter storage.ReferenceFilter
	switch s := coderef.State(exportState); s {
	case "":
	case coderef.StateValid, coderef.StateInvalid, coderef.StateUnspecified:
		filter.State = s
	default:
		return errors.New(errors.InvalidArgument, fmt.Sprintf("unknown state %q", exportState), nil)
	}

	catalogPath := paths.ResolveRepoPath(rootFlag, cfg.Catalog.Path)
	if _, err := os.Stat(catalogPath); err != nil {
		return errors.New(errors.CatalogUnavailable, fmt.Sprintf("no catalog at %s", catalogPath), err)
	}
	catalog, err := storage.OpenCatalog(catalogPath, logger)
	if err != nil {
		return err
	}
	defer catalog.Close()

	ctx := cmd.Context()
	run, err := catalog.ResolveRun(ctx, exportRun)
	if err != nil {
		return err
	}
	occurrences, err := catalog.Occurrences(ctx, run.ID, filter)
	if err != nil {
		return errors.New(errors.CatalogUnavailable, "cannot read references", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return errors.New(errors.ExportFailed, fmt.Sprintf("cannot create %s", exportOutput), err)
		}
		defer f.Close()
		w = f
	}

	meta := export.Meta{
		Root:        run.Root,
		RunID:       run.ID,
		ToolName:    "coderef",
		ToolVersion: version.Version,
		Generated:   time.Now().UTC(),
	}
	stats, err := export.Write(w, format, occurrences, meta, compress)
	if err != nil {
		return err
	}

	logger.Info("Export complete",
		"run", run.ID,
		"format", string(format),
		"written", stats.Written,
		"skipped", stats.Skipped)
	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d references to %s\n", stats.Written, exportOutput)
	}
	return nil
}
