// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"slices"
	"testing"
)

func TestIsRecognized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"main.c", true},
		{"widget.cpp", true},
		{"widget.cc", true},
		{"widget.cxx", true},
		{"widget.c++", true},
		{"api.h", true},
		{"api.hpp", true},
		{"api.hh", true},
		{"api.hxx", true},
		{"detail.ipp", true},
		{"detail.inl", true},
		{"dir/nested/file.h", true},
		{"MAIN.C", false},
		{"api.H", false},
		{"notes.txt", false},
		{"Makefile", false},
		{"archive.c.gz", false},
		{".c", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRecognized(tt.name); got != tt.want {
				t.Errorf("IsRecognized(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestExtensionsAndPatterns(t *testing.T) {
	t.Parallel()

	exts := Extensions()
	if !slices.IsSorted(exts) {
		t.Errorf("Extensions() not sorted: %v", exts)
	}
	patterns := FilePatterns()
	if len(patterns) != len(exts) {
		t.Fatalf("FilePatterns() has %d entries, want %d", len(patterns), len(exts))
	}
	for i, ext := range exts {
		if patterns[i] != "*"+ext {
			t.Errorf("FilePatterns()[%d] = %q, want %q", i, patterns[i], "*"+ext)
		}
		if !IsRecognized("file" + ext) {
			t.Errorf("extension %q listed but not recognized", ext)
		}
	}
}
