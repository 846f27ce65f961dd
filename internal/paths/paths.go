package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// DirName is the per-repository state directory
const DirName = ".coderef"

// Dir returns the state directory for a repository
func Dir(repoRoot string) string {
	return filepath.Join(repoRoot, DirName)
}

// ConfigPath returns the JSON configuration path
func ConfigPath(repoRoot string) string {
	return filepath.Join(Dir(repoRoot), "config.json")
}

// TOMLConfigPath returns the TOML configuration path
func TOMLConfigPath(repoRoot string) string {
	return filepath.Join(Dir(repoRoot), "config.toml")
}

// DefaultCatalogPath returns the default SQLite catalog location
func DefaultCatalogPath(repoRoot string) string {
	return filepath.Join(Dir(repoRoot), "catalog.db")
}

// LogPath returns the rotating log file location
func LogPath(repoRoot string) string {
	return filepath.Join(Dir(repoRoot), "logs", "coderef.log")
}

// ResolveRepoPath makes a configured path absolute. Relative paths are taken
// relative to the repository root.
func ResolveRepoPath(repoRoot, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return JoinRepoPath(repoRoot, p)
}

// EnsureDir creates the state directory if it does not exist
func EnsureDir(repoRoot string) (string, error) {
	dir := Dir(repoRoot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// CanonicalizePath converts an absolute path to a repo-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to repo root
// - Returns repo-relative path with forward slashes
func CanonicalizePath(absolutePath string, repoRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	repoRootResolved, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		if os.IsNotExist(err) {
			repoRootResolved = repoRoot
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(repoRootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// IsWithinRepo checks if a path is within the repository root
func IsWithinRepo(path string, repoRoot string) bool {
	canonical, err := CanonicalizePath(path, repoRoot)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// NormalizePath converts backslashes to forward slashes
func NormalizePath(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "\\", "/")
}

// JoinRepoPath joins a repo root with a canonical path
func JoinRepoPath(repoRoot string, canonicalPath string) string {
	normalizedPath := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalizedPath, "/")
	return filepath.Join(append([]string{repoRoot}, parts...)...)
}
