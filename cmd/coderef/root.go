package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"coderef/internal/coderef"
	"coderef/internal/config"
	"coderef/internal/errors"
	"coderef/internal/paths"
	"coderef/internal/slogutil"
	"coderef/internal/version"
)

var (
	rootFlag  string
	verbosity int
	quietFlag bool

	// legacyOperators backs --legacy-operators on the commands that parse
	legacyOperators bool
)

// Set up by PersistentPreRunE for every command.
var (
	cfg     *config.Config
	logger  *slog.Logger
	loggers *slogutil.LoggerFactory
)

// lenientConfig marks commands that must run even when the config file is broken
const lenientConfig = "lenient-config"

var rootCmd = &cobra.Command{
	Use:   "coderef",
	Short: "coderef - .NET documentation code references",
	Long: `coderef parses, validates and normalizes the code references used in .NET
XML documentation ("T:System.String", "M:Foo.Bar(System.Int32)~System.Boolean"),
scans C# sources for cref attributes and keeps a catalog of what it found.`,
	Version:           version.Info(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.SetVersionTemplate("coderef version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "Project root holding the .coderef directory")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log output (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress log output")
}

func setup(cmd *cobra.Command, args []string) error {
	closeLoggers()

	loaded, err := config.LoadConfig(rootFlag)
	if err == nil {
		err = loaded.Validate()
	}
	if err != nil {
		if cmd.Annotations[lenientConfig] == "" {
			return errors.New(errors.ConfigInvalid, fmt.Sprintf("invalid configuration: %v", err), err)
		}
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	// Only log to a file in projects that already have a .coderef directory.
	logRoot := ""
	if info, statErr := os.Stat(paths.Dir(rootFlag)); statErr == nil && info.IsDir() {
		logRoot = rootFlag
	}
	loggers = slogutil.NewLoggerFactory(logRoot, cfg)
	logger = loggers.CLILogger(cmd.ErrOrStderr(), slogutil.LevelFromVerbosity(verbosity, quietFlag))

	if err != nil {
		logger.Warn("Ignoring invalid configuration", "error", err.Error())
	}
	logger.Debug("Configuration loaded", "root", rootFlag, "command", cmd.CommandPath())
	return nil
}

func closeLoggers() {
	if loggers != nil {
		_ = loggers.Close()
		loggers = nil
	}
}

func addLegacyFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&legacyOperators, "legacy-operators", true,
		`Accept "op_Explicit(A to B)" conversion syntax (default from parse.legacyOperatorSyntax)`)
}

// parseOptions combines the configuration with --legacy-operators
func parseOptions(cmd *cobra.Command) coderef.Options {
	opts := coderef.DefaultOptions()
	if cfg != nil {
		opts.LegacyOperatorSyntax = cfg.Parse.LegacyOperatorSyntax
	}
	if f := cmd.Flags().Lookup("legacy-operators"); f != nil && f.Changed {
		opts.LegacyOperatorSyntax = legacyOperators
	}
	return opts
}

// exitError ends the process with code after its message is printed
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// reportError prints err with any suggested fixes and returns the exit code
func reportError(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	var cerr *errors.CoderefError
	if errors.As(err, &cerr) && len(cerr.SuggestedFixes) > 0 {
		fmt.Fprintln(w, "\nSuggested fixes:")
		for _, fix := range cerr.SuggestedFixes {
			switch fix.Type {
			case errors.RunCommand:
				fmt.Fprintf(w, "  run:  %s  (%s)\n", fix.Command, fix.Description)
			case errors.EditConfig:
				fmt.Fprintf(w, "  edit: %s  (%s)\n", fix.Key, fix.Description)
			}
		}
	}
	return 1
}
