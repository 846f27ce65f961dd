package slogutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// RotatingFile implements io.WriteCloser with size-based rotation.
// It rotates log files when they exceed maxSize bytes, keeping up to
// maxBackups rotated files (e.g., log.1, log.2, log.3).
type RotatingFile struct {
	path       string
	maxSize    int64
	maxBackups int
	file       *os.File
	size       int64
	mu         sync.Mutex
}

// OpenRotatingFile opens a file with rotation support.
// If maxSize is 0, rotation is disabled.
// If maxBackups is 0, the file is truncated on rotation.
func OpenRotatingFile(path string, maxSize int64, maxBackups int) (*RotatingFile, error) {
	rf := &RotatingFile{
		path:       path,
		maxSize:    maxSize,
		maxBackups: maxBackups,
	}
	if err := rf.openFile(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (r *RotatingFile) openFile() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}

	r.file = f
	r.size = info.Size()
	return nil
}

// Write implements io.Writer. It rotates the file if needed before writing.
func (r *RotatingFile) Write(p []byte) (n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSize > 0 && r.size > 0 && r.size+int64(len(p)) > r.maxSize {
		// a failed rotation still leaves a writable file
		_ = r.rotate()
	}
	if r.file == nil {
		return 0, os.ErrClosed
	}

	n, err = r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// Close implements io.Closer
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate shifts log -> log.1 -> log.2 ... dropping the oldest backup
func (r *RotatingFile) rotate() error {
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			return err
		}
		r.file = nil
	}

	if r.maxBackups > 0 {
		_ = os.Remove(r.backupPath(r.maxBackups))
		for i := r.maxBackups - 1; i >= 1; i-- {
			if _, err := os.Stat(r.backupPath(i)); err == nil {
				_ = os.Rename(r.backupPath(i), r.backupPath(i+1))
			}
		}
		_ = os.Rename(r.path, r.backupPath(1))
	} else {
		_ = os.Remove(r.path)
	}

	r.size = 0
	return r.openFile()
}

func (r *RotatingFile) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", r.path, n)
}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(B|KB|MB|GB)?$`)

// ParseSize parses a size string like "10MB", "1GB", "500KB" into bytes.
// Supported suffixes: B, KB, MB, GB (case-insensitive)
// Returns 0 for empty or invalid strings.
func ParseSize(s string) int64 {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0
	}
	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0
	}

	var multiplier float64
	switch matches[2] {
	case "", "B":
		multiplier = 1
	case "KB":
		multiplier = 1024
	case "MB":
		multiplier = 1024 * 1024
	case "GB":
		multiplier = 1024 * 1024 * 1024
	}
	return int64(value * multiplier)
}

// NewFileLoggerWithRotation creates a rotating file logger.
// If maxSize is empty or invalid, it falls back to a plain append-only file.
func NewFileLoggerWithRotation(path string, level slog.Level, format, maxSize string, maxBackups int) (*slog.Logger, io.Closer, error) {
	var w io.WriteCloser
	if size := ParseSize(maxSize); size > 0 {
		rf, err := OpenRotatingFile(path, size, maxBackups)
		if err != nil {
			return nil, nil, err
		}
		w = rf
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
	}
	return NewFormatLogger(w, level, format), w, nil
}
