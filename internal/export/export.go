// Package export writes catalogued reference occurrences as JSON Lines, YAML
// or a SCIP index.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"coderef/internal/coderef"
	"coderef/internal/errors"
)

// Format is an export format name
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatSCIP  Format = "scip"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSONL, FormatYAML, FormatSCIP:
		return f, nil
	}
	return "", errors.New(errors.ExportFailed, fmt.Sprintf("unknown export format %q", s), nil)
}

// Meta describes where the occurrences came from
type Meta struct {
	Root        string    `json:"root" yaml:"root"`
	RunID       string    `json:"runId,omitempty" yaml:"runId,omitempty"`
	ToolName    string    `json:"toolName" yaml:"toolName"`
	ToolVersion string    `json:"toolVersion" yaml:"toolVersion"`
	Generated   time.Time `json:"generated" yaml:"generated"`
}

// Stats summarizes a write
type Stats struct {
	Written int
	Skipped int
}

// Write dispatches to the writer for format. compress only applies to JSONL.
func Write(w io.Writer, format Format, occurrences []coderef.Occurrence, meta Meta, compress bool) (Stats, error) {
	var stats Stats
	var err error
	switch format {
	case FormatJSONL:
		err = WriteJSONL(w, occurrences, compress)
		stats.Written = len(occurrences)
	case FormatYAML:
		err = WriteYAML(w, occurrences, meta)
		stats.Written = len(occurrences)
	case FormatSCIP:
		stats, err = WriteSCIP(w, occurrences, meta)
	default:
		_, err = ParseFormat(string(format))
	}
	if err != nil {
		if errors.CodeOf(err) == errors.InternalError {
			err = errors.New(errors.ExportFailed, fmt.Sprintf("%s export failed", format), err)
		}
		return Stats{}, err
	}
	return stats, nil
}

// zstdMagic starts every zstd frame
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// WriteJSONL writes one JSON object per occurrence. With compress the output
// is a single zstd stream.
func WriteJSONL(w io.Writer, occurrences []coderef.Occurrence, compress bool) error {
	out := w
	var enc *zstd.Encoder
	if compress {
		var err error
		enc, err = zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		out = enc
	}

	bw := bufio.NewWriter(out)
	je := json.NewEncoder(bw)
	je.SetEscapeHTML(false)
	for _, occ := range occurrences {
		if err := je.Encode(occ); err != nil {
			if enc != nil {
				_ = enc.Close()
			}
			return fmt.Errorf("failed to encode occurrence at %s: %w", occ.Location, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if enc != nil {
		return enc.Close()
	}
	return nil
}

// ReadJSONL reads occurrences written by WriteJSONL, compressed or not.
func ReadJSONL(r io.Reader) ([]coderef.Occurrence, error) {
	br := bufio.NewReader(r)
	var in io.Reader = br
	if head, err := br.Peek(len(zstdMagic)); err == nil && bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		in = dec
	}

	var occurrences []coderef.Occurrence
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var occ coderef.Occurrence
		if err := json.Unmarshal(text, &occ); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		occurrences = append(occurrences, occ)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return occurrences, nil
}

type yamlDocument struct {
	Meta        Meta                 `yaml:"meta"`
	Occurrences []coderef.Occurrence `yaml:"occurrences"`
}

// WriteYAML writes a single YAML document with meta and occurrences
func WriteYAML(w io.Writer, occurrences []coderef.Occurrence, meta Meta) error {
	if occurrences == nil {
		occurrences = []coderef.Occurrence{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlDocument{Meta: meta, Occurrences: occurrences}); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
