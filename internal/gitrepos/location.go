package gitrepos

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidLocation indicates the location is neither a path nor a file URI
	ErrInvalidLocation = errors.New("invalid repository location")

	// ErrUnknownLocation indicates no index has been built for the location
	ErrUnknownLocation = errors.New("unknown repository location")
)

// ParseLocation normalizes a repository location given as a filesystem path
// or a file:// URI. The result is an absolute path to the work tree root;
// a trailing .git directory is dropped so both forms name the same
// location.
//
// Examples:
//   - file:///src/project/.git -> /src/project
//   - /src/project/ -> /src/project
//   - ./project -> <cwd>/project
func ParseLocation(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidLocation)
	}

	path := raw
	if strings.Contains(raw, "://") {
		p, err := URIToPath(raw)
		if err != nil {
			return "", err
		}
		path = p
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidLocation, raw, err)
	}
	if filepath.Base(abs) == ".git" {
		abs = filepath.Dir(abs)
	}
	return abs, nil
}

// URIToPath converts a file:// URI to a local path.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidLocation, uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocation, u.Scheme)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: remote host %q", ErrInvalidLocation, u.Host)
	}
	if u.Path == "" {
		return "", fmt.Errorf("%w: %s: empty path", ErrInvalidLocation, uri)
	}
	return filepath.FromSlash(u.Path), nil
}

// GitDir returns the git directory of a location: <location>/.git for a
// work tree, or the location itself for a bare repository.
func GitDir(location string) string {
	dotGit := filepath.Join(location, ".git")
	if info, err := os.Stat(dotGit); err == nil && info.IsDir() {
		return dotGit
	}
	return location
}

// LocationName returns a short display name for a location.
//
// Examples:
//   - /src/project -> project
//   - / -> /
func LocationName(location string) string {
	base := filepath.Base(location)
	if base == "." || base == string(filepath.Separator) {
		return location
	}
	return base
}

// validatePath rejects paths that escape the repository root.
func validatePath(path string) error {
	cleaned := filepath.Clean(path)

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("absolute paths are not allowed")
	}

	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.Contains(cleaned, "/../") || strings.HasPrefix(cleaned, `..\`) {
		return fmt.Errorf("path traversal is not allowed")
	}

	return nil
}
