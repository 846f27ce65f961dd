package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

func parseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatHuman, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (want human, json or yaml)", s)
	}
}

// writeOutput writes v as JSON or YAML, or calls human for human output
func writeOutput(w io.Writer, format OutputFormat, v interface{}, human func(io.Writer) error) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatHuman:
		return human(w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
