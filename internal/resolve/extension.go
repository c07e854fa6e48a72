// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"path/filepath"
	"slices"
)

// recognizedExtensions is the allowlist of C and C++ source and header
// extensions that are mirrored into the staging tree. Matching is
// case-sensitive.
var recognizedExtensions = map[string]bool{
	".c":   true,
	".cc":  true,
	".cxx": true,
	".cpp": true,
	".c++": true,
	".h":   true,
	".hh":  true,
	".hxx": true,
	".hpp": true,
	".h++": true,
	".inl": true,
	".ipp": true,
}

// IsRecognized reports whether the extension of name, including the leading
// dot, belongs to the recognized source-file set.
func IsRecognized(name string) bool {
	return recognizedExtensions[filepath.Ext(name)]
}

// Extensions returns the recognized extensions in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(recognizedExtensions))
	for ext := range recognizedExtensions {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// FilePatterns returns the recognized extensions as "*.ext" glob patterns,
// the form the documentation generator expects.
func FilePatterns() []string {
	exts := Extensions()
	patterns := make([]string, len(exts))
	for i, ext := range exts {
		patterns[i] = "*" + ext
	}
	return patterns
}
