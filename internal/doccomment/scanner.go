package doccomment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"coderef/internal/coderef"
	"coderef/internal/paths"
	"coderef/internal/slogutil"
)

// ErrNoCGO is returned by Parser when tree-sitter is not compiled in.
var ErrNoCGO = errors.New("tree-sitter requires cgo")

// Filter selects files for ScanDirectory. Ignore entries are matched with
// filepath.Match against each base name and against the slash-separated path
// relative to the scan root.
type Filter struct {
	Extensions []string
	Ignore     []string
}

func (f Filter) ignored(rel, base string) bool {
	for _, pattern := range f.Ignore {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (f Filter) accepts(path string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range f.Extensions {
		if strings.ToLower(want) == ext {
			return true
		}
	}
	return false
}

// Result is the outcome of a directory scan
type Result struct {
	Root        string
	Files       int
	Occurrences []coderef.Occurrence
}

// Invalid counts occurrences whose reference did not resolve
func (r *Result) Invalid() int {
	n := 0
	for _, occ := range r.Occurrences {
		if occ.Reference.IsInvalid() {
			n++
		}
	}
	return n
}

// Scanner finds code references in C# sources and XML documentation files.
// A Scanner is not safe for concurrent use.
type Scanner struct {
	parser   *Parser
	opts     coderef.Options
	logger   *slog.Logger
	fallback bool
}

// NewScanner creates a scanner. A nil logger discards output.
func NewScanner(logger *slog.Logger, opts coderef.Options) *Scanner {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Scanner{
		parser: NewParser(),
		opts:   opts,
		logger: logger,
	}
}

// ScanDirectory walks root and scans every file accepted by filter. Unreadable
// files are logged and skipped. Occurrence paths are relative to root.
func (s *Scanner) ScanDirectory(ctx context.Context, root string, filter Filter) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	result := &Result{Root: root}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("Skipping unreadable path", "path", path, "error", err.Error())
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = paths.NormalizePath(rel)
		if rel == "." {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 && !paths.IsWithinRepo(path, root) {
			s.logger.Debug("Skipping link outside root", "path", rel)
			return nil
		}

		if filter.ignored(rel, d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !filter.accepts(path) {
			return nil
		}

		source, readErr := os.ReadFile(path)
		if readErr != nil {
			s.logger.Warn("Skipping unreadable file", "path", rel, "error", readErr.Error())
			return nil
		}
		occurrences, scanErr := s.ScanSource(ctx, rel, source)
		if scanErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("Skipping file", "path", rel, "error", scanErr.Error())
			return nil
		}

		result.Files++
		result.Occurrences = append(result.Occurrences, occurrences...)
		s.logger.Debug("Scanned file", "path", rel, "references", len(occurrences))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ScanSource finds references in one file. Files ending in .xml are treated as
// compiled documentation, anything else as C# source.
func (s *Scanner) ScanSource(ctx context.Context, path string, source []byte) ([]coderef.Occurrence, error) {
	var crefs []Cref
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		crefs = ExtractCrefs(string(source))
	} else {
		comments, err := s.comments(ctx, source)
		if err != nil {
			return nil, err
		}
		for _, c := range comments {
			crefs = append(crefs, commentCrefs(c)...)
		}
	}

	occurrences := make([]coderef.Occurrence, 0, len(crefs))
	for _, c := range crefs {
		ref, _ := coderef.TryParseWithOptions(c.Value, s.opts)
		occurrences = append(occurrences, coderef.Occurrence{
			Location:  coderef.Location{Path: path, Line: c.Line, Column: c.Column},
			Reference: ref,
		})
	}
	return occurrences, nil
}

func (s *Scanner) comments(ctx context.Context, source []byte) ([]Comment, error) {
	if !s.fallback {
		comments, err := s.parser.Comments(ctx, source)
		if !errors.Is(err, ErrNoCGO) {
			return comments, err
		}
		s.logger.Debug("tree-sitter unavailable, scanning /// lines")
		s.fallback = true
	}
	return lineComments(source), nil
}
