package symbols

import (
	"path/filepath"
	"slices"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultExcludePatterns contains optional gitignore patterns for common
// dependency directories, build outputs, generated files and binary/media
// files. They apply only through NewDefaultFileFilter.
var DefaultExcludePatterns = []string{
	// Dependencies
	"node_modules", "vendor", "venv", ".venv",
	"target", "build", "dist", "out",
	".git", "__pycache__", ".pytest_cache",
	".gradle", ".m2", ".npm", ".yarn",

	// Generated files
	"*.min.js", "*.min.css", "*.map", "*.pb.go",
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml",
	"go.sum", "poetry.lock", "Cargo.lock",

	// Binary/Media - images
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.ico", "*.svg",
	"*.bmp", "*.tiff", "*.webp", "*.psd",

	// Binary/Media - fonts
	"*.woff", "*.woff2", "*.ttf", "*.eot", "*.otf",

	// Binary/Media - archives
	"*.zip", "*.tar", "*.gz", "*.rar", "*.7z", "*.bz2", "*.xz",
	"*.jar", "*.war", "*.ear",

	// Binary/Media - executables and libraries
	"*.exe", "*.dll", "*.so", "*.dylib", "*.a", "*.lib",
	"*.class", "*.pyc", "*.pyo", "*.o", "*.obj",

	// Binary/Media - documents
	"*.pdf", "*.doc", "*.docx", "*.xls", "*.xlsx", "*.ppt", "*.pptx",

	// Binary/Media - other
	"*.db", "*.sqlite", "*.sqlite3",
	"*.mp3", "*.mp4", "*.wav", "*.avi", "*.mov", "*.mkv",
}

// FileFilter determines which tree entries should be indexed.
type FileFilter struct {
	patterns    []string
	matcher     *ignore.GitIgnore
	maxFileSize int64
}

// NewFileFilter creates a FileFilter that excludes only the given
// patterns. A non-positive maxFileSize disables the size limit.
func NewFileFilter(maxFileSize int64, patterns ...string) *FileFilter {
	return &FileFilter{
		patterns:    patterns,
		matcher:     ignore.CompileIgnoreLines(patterns...),
		maxFileSize: maxFileSize,
	}
}

// NewDefaultFileFilter creates a FileFilter with DefaultExcludePatterns plus
// any extra patterns.
func NewDefaultFileFilter(maxFileSize int64, extra ...string) *FileFilter {
	return NewFileFilter(maxFileSize, append(slices.Clone(DefaultExcludePatterns), extra...)...)
}

// ShouldExclude returns true if the given path matches any exclusion pattern.
// The path should be relative to the repository root.
func (f *FileFilter) ShouldExclude(relPath string) bool {
	if len(f.patterns) == 0 {
		return false
	}
	return f.matcher.MatchesPath(filepath.ToSlash(relPath))
}

// TooLarge reports whether a file of size bytes exceeds the limit.
// Negative sizes are unknown and never too large.
func (f *FileFilter) TooLarge(size int64) bool {
	return f.maxFileSize > 0 && size > f.maxFileSize
}
