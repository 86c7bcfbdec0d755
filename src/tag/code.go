package tag

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// region is a half-open byte range [start, stop).
type region struct {
	start, stop int
}

// codeRegions returns the byte ranges of markdown code spans and code blocks.
func codeRegions(src []byte) []region {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var regions []region
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			lines := n.Lines()
			if lines.Len() > 0 {
				regions = append(regions, region{
					start: lines.At(0).Start,
					stop:  lines.At(lines.Len() - 1).Stop,
				})
			}
			return ast.WalkSkipChildren, nil

		case ast.KindCodeSpan:
			first, firstOK := n.FirstChild().(*ast.Text)
			last, lastOK := n.LastChild().(*ast.Text)
			if firstOK && lastOK {
				regions = append(regions, region{
					start: first.Segment.Start,
					stop:  last.Segment.Stop,
				})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return regions
}

func overlapsAny(regions []region, start, stop int) bool {
	for _, r := range regions {
		if start < r.stop && r.start < stop {
			return true
		}
	}
	return false
}
