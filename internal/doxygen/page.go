// SPDX-License-Identifier: MPL-2.0

package doxygen

import "strings"

// IndexPage is the generator's HTML entry page.
const IndexPage = "index.html"

// fileNameEscaper mirrors how the generator derives HTML page names from
// source paths.
var fileNameEscaper = strings.NewReplacer(
	"_", "__",
	".", "_8",
	"/", "_2",
	":", "_1",
	" ", "_01",
)

// FilePage returns the HTML page the generator writes for a source file given
// by its path relative to STRIP_FROM_PATH, e.g. "lib/a.c" => "lib_2a_8c.html".
func FilePage(logical string) string {
	if logical == "" {
		return IndexPage
	}
	return fileNameEscaper.Replace(logical) + ".html"
}
