// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	InvalidInputId Id = iota + 1
	ResolutionConflictId
	MirrorFailedId
	GeneratorNotFoundId
	GeneratorFailedId
	RendererNotFoundId
	RendererFailedId
	ConfigLoadFailedId
	InvalidDoxygenOptionId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation for this issue
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue's Markdown with the named glamour style
// ("dark", "light", "notty", or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	invalidInputIssue = &Issue{
		id: InvalidInputId,
		mdMsg: `
# Invalid input path!

Every argument must be an existing directory or a C/C++ source or header file.

## Recognized extensions
~~~
.c .cc .cxx .cpp .c++ .h .hh .hxx .hpp .h++ .inl .ipp
~~~
Extensions are case-sensitive: ` + "`main.C`" + ` is not recognized.

## Things you can try:
- Check the path for typos
- Pass the containing directory instead of an unrecognized file
- Rename the file to a recognized extension`,
	}

	resolutionConflictIssue = &Issue{
		id: ResolutionConflictId,
		mdMsg: `
# Inputs collide in the staging tree!

Two inputs would be mirrored to the same place, so their diagnostics could not
be told apart.

## Common causes:
- Two loose files with the same name from different directories
- A loose file named like one of the directory inputs
- A directory passed together with one of its subdirectories

## Things you can try:
- Pass the common parent directory instead of both files
- Drop the nested directory; the parent already covers it
- Check the inputs again with ` + "`--dry-run`" + ``,
	}

	mirrorFailedIssue = &Issue{
		id: MirrorFailedId,
		mdMsg: `
# Failed to mirror sources!

A source file could not be read or its copy could not be written to the
staging tree.

## Things you can try:
- Check that the source files are readable
- Check free space in the temporary directory
- Point ` + "`staging.temp_dir`" + ` at a writable directory`,
	}

	generatorNotFoundIssue = &Issue{
		id: GeneratorNotFoundId,
		mdMsg: `
# Doxygen not found!

doxycheck runs doxygen to collect documentation warnings, and it is not on
your PATH.

## Things you can try:
- Install doxygen with your package manager:
~~~
$ sudo apt install doxygen
$ brew install doxygen
~~~

- Or point doxycheck at a specific binary:
~~~cue
doxygen: binary: "/opt/doxygen/bin/doxygen"
~~~`,
		extLinks: []HttpLink{"https://www.doxygen.nl/download.html"},
	}

	generatorFailedIssue = &Issue{
		id: GeneratorFailedId,
		mdMsg: `
# Doxygen failed!

doxygen exited with an error before producing a complete warning log.

## Things you can try:
- Re-run with ` + "`-vv`" + ` to see doxygen's own output
- Keep the staging tree with ` + "`--keep`" + ` and inspect its ` + "`doxyfile`" + `
- Remove custom ` + "`doxygen.options`" + ` from your configuration`,
	}

	rendererNotFoundIssue = &Issue{
		id: RendererNotFoundId,
		mdMsg: `
# sphinx-build not found!

` + "`--sphinx-html`" + ` needs sphinx-build with the breathe extension.

## Things you can try:
~~~
$ pip install sphinx breathe sphinx_rtd_theme
~~~

- Or configure the binary explicitly:
~~~cue
sphinx: binary: "/path/to/sphinx-build"
~~~`,
		extLinks: []HttpLink{"https://breathe.readthedocs.io/"},
	}

	rendererFailedIssue = &Issue{
		id: RendererFailedId,
		mdMsg: `
# sphinx-build failed!

The Sphinx site could not be built from doxygen's XML output.

## Things you can try:
- Check that the breathe extension and the configured theme are installed
- Keep the staging tree with ` + "`--keep`" + ` and read ` + "`build/sphinx/sphinx.log`" + ``,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show where doxycheck looks for configuration:
~~~
$ doxycheck config path
~~~

- Compare with a valid default configuration:
~~~
$ doxycheck config dump
~~~`,
	}

	invalidDoxygenOptionIssue = &Issue{
		id: InvalidDoxygenOptionId,
		mdMsg: `
# Invalid doxygen option!

An entry in ` + "`doxygen.options`" + ` cannot be used.

## Rules:
- Keys are upper-case Doxyfile option names such as ` + "`EXTRACT_ALL`" + `
- ` + "`INPUT`" + `, ` + "`OUTPUT_DIRECTORY`" + ` and ` + "`WARN_LOGFILE`" + ` are managed by doxycheck`,
	}

	issues = map[Id]*Issue{
		invalidInputIssue.Id():         invalidInputIssue,
		resolutionConflictIssue.Id():   resolutionConflictIssue,
		mirrorFailedIssue.Id():         mirrorFailedIssue,
		generatorNotFoundIssue.Id():    generatorNotFoundIssue,
		generatorFailedIssue.Id():      generatorFailedIssue,
		rendererNotFoundIssue.Id():     rendererNotFoundIssue,
		rendererFailedIssue.Id():       rendererFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		invalidDoxygenOptionIssue.Id(): invalidDoxygenOptionIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
