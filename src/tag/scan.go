// Package tag finds <badge> tags in markup sources and splices replacement
// text back into the document.
//
// Two tag shapes are recognized:
//
//	<badge server="https://img.example.com">pypi/v/widgets.svg</badge>
//	<badge as_object="false"/>
//
// The body may span lines. Self-closing tags have an empty body.
package tag

import (
	"fmt"
	"regexp"
	"sort"
	"unicode/utf8"
)

// Name is the markup tag handled by this package.
const Name = "badge"

// tagRe captures the options attribute string (1) and the body (2).
var tagRe = regexp.MustCompile(`<` + Name + `(?:\s([^<>]*?))?(?:/>|>((?s:.*?))</` + Name + `>)`)

// Occurrence is a single tag match in a document. It is never mutated after Scan.
type Occurrence struct {
	Raw     string // full original tag text
	Options string // raw options attribute string
	Body    string // inner content
	File    string // document path, for diagnostics
	Line    int    // 1-based line of the opening "<"
	Column  int    // 1-based rune column of the opening "<"
	Start   int    // byte offset of the tag in the document
	End     int    // byte offset just past the tag
}

// Location formats the occurrence position as file:line:column.
func (o Occurrence) Location() string {
	file := o.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", file, o.Line, o.Column)
}

// ScanOptions tunes Scan.
type ScanOptions struct {
	File     string // recorded on every occurrence
	SkipCode bool   // ignore tags inside markdown code spans and code blocks
}

// Scan returns all tag occurrences in src, in document order.
func Scan(src []byte, opts ScanOptions) []Occurrence {
	matches := tagRe.FindAllSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return nil
	}

	var code []region
	if opts.SkipCode {
		code = codeRegions(src)
	}

	occs := make([]Occurrence, 0, len(matches))
	line, lineStart, scanned := 1, 0, 0

	for _, m := range matches {
		start, end := m[0], m[1]
		if overlapsAny(code, start, end) {
			continue
		}

		for i := scanned; i < start; i++ {
			if src[i] == '\n' {
				line++
				lineStart = i + 1
			}
		}
		scanned = start

		occs = append(occs, Occurrence{
			Raw:     string(src[start:end]),
			Options: group(src, m, 1),
			Body:    group(src, m, 2),
			File:    opts.File,
			Line:    line,
			Column:  utf8.RuneCount(src[lineStart:start]) + 1,
			Start:   start,
			End:     end,
		})
	}
	return occs
}

func group(src []byte, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return string(src[m[2*n]:m[2*n+1]])
}

// Replace returns src with each occurrence replaced by fn's result.
// Occurrences must come from Scan on the same src.
func Replace(src []byte, occs []Occurrence, fn func(Occurrence) string) []byte {
	if len(occs) == 0 {
		return src
	}
	sorted := make([]Occurrence, len(occs))
	copy(sorted, occs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make([]byte, 0, len(src))
	prev := 0
	for _, o := range sorted {
		out = append(out, src[prev:o.Start]...)
		out = append(out, fn(o)...)
		prev = o.End
	}
	return append(out, src[prev:]...)
}
