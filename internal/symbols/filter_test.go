package symbols

import (
	"testing"

	"github.com/sha1n/mcp-symctx-server/internal/grammar"
)

func TestDefaultFileFilter_ShouldExclude(t *testing.T) {
	filter := NewDefaultFileFilter(1024, "generated/")

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/lodash/index.js", true},
		{"web/node_modules/react/index.js", true},
		{"src/vendor/lib.go", true},
		{"src/build/x.ts", true},
		{"lib/app.min.js", true},
		{"api/service.pb.go", true},
		{"assets/logo.png", true},
		{"generated/client.ts", true},
		{".git/HEAD", true},
		{"src/app.ts", false},
		{"src/buildinfo.ts", false},
		{"cmd/main.go", false},
		{"pkg/map.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := filter.ShouldExclude(tt.path); got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFileFilter_OnlyGivenPatterns(t *testing.T) {
	filter := NewFileFilter(0, "generated/")

	if !filter.ShouldExclude("generated/client.ts") {
		t.Error("Expected generated/client.ts to be excluded")
	}

	// Directory names and globs from the default list do not apply.
	dirs := []string{"build", "out", "dist", "target", "vendor", "node_modules"}
	for _, lang := range grammar.All() {
		for _, ext := range lang.Extensions() {
			for _, dir := range dirs {
				path := "src/" + dir + "/x" + ext
				if filter.ShouldExclude(path) {
					t.Errorf("ShouldExclude(%q) = true, want false", path)
				}
			}
			if path := "lib/app.min" + ext; filter.ShouldExclude(path) {
				t.Errorf("ShouldExclude(%q) = true, want false", path)
			}
		}
	}
}

func TestFileFilter_NoPatterns(t *testing.T) {
	filter := NewFileFilter(0)
	if filter.ShouldExclude("node_modules/a.js") {
		t.Error("Expected empty filter to exclude nothing")
	}
	if filter.TooLarge(1 << 40) {
		t.Error("Expected zero max size to disable the limit")
	}
}

func TestFileFilter_TooLarge(t *testing.T) {
	filter := NewFileFilter(100)

	tests := []struct {
		size int64
		want bool
	}{
		{-1, false},
		{0, false},
		{100, false},
		{101, true},
	}

	for _, tt := range tests {
		if got := filter.TooLarge(tt.size); got != tt.want {
			t.Errorf("TooLarge(%d) = %v, want %v", tt.size, got, tt.want)
		}
	}
}
