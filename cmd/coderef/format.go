package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coderef/internal/coderef"
)

var formatStrict bool

var formatCmd = &cobra.Command{
	Use:   "format [reference...]",
	Short: "Print references in canonical form",
	Long: `Normalize code references. Each valid reference is printed in canonical form;
anything else is printed unchanged and reported on stderr. With no arguments,
or "-", references are read from stdin one per line.

Examples:
  coderef format "M:Demo.Foo.Run( System.Int32 , System.String )"
  coderef format - < refs.txt > normalized.txt`,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().BoolVar(&formatStrict, "strict", false, "Exit with status 1 when any reference is not valid")
	addLegacyFlag(formatCmd)
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	inputs, err := readInputs(args, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading references: %w", err)
	}

	opts := parseOptions(cmd)
	out := cmd.OutOrStdout()
	failed := 0
	for _, input := range inputs {
		ref, ok := coderef.TryParseWithOptions(input, opts)
		if !ok {
			logger.Warn("Reference left unchanged", "input", input, "state", string(ref.State()))
			if rejected(ref) {
				failed++
			}
		}
		fmt.Fprintln(out, ref.String())
	}

	if formatStrict && failed > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%d of %d references did not resolve", failed, len(inputs))}
	}
	return nil
}
