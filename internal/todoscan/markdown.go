package todoscan

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// countMarkdown counts TODO-bearing lines in a markdown document.
//
// The document is parsed and its text, code, and raw-HTML segments mapped
// back to their source lines, so a marker is found whether it appears in
// prose, a fenced code sample, or an HTML comment. Each source line counts
// at most once however many segments touch it.
func countMarkdown(source []byte) Counts {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	// Byte offsets of the start of every line that carries document content.
	contentLines := make(map[int]struct{})

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			markSegment(source, node.Segment.Start, node.Segment.Stop, contentLines)
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				markSegment(source, seg.Start, seg.Stop, contentLines)
			}
		default:
			// Lines() is only defined for block nodes; inline content is
			// reached through its Text children.
			if n.Type() == ast.TypeBlock {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					markSegment(source, seg.Start, seg.Stop, contentLines)
				}
			}
		}
		return ast.WalkContinue, nil
	})

	var counts Counts
	for start := range contentLines {
		line := sourceLineAt(source, start)
		if !todoRe.Match(line) {
			continue
		}
		if bugRe.Match(line) {
			counts.WithBug++
		} else {
			counts.WithoutBug++
		}
	}
	return counts
}

// markSegment records the start offset of every source line overlapped by
// the byte range [start, stop).
func markSegment(source []byte, start, stop int, lines map[int]struct{}) {
	if start < 0 || start >= len(source) {
		return
	}
	if stop > len(source) {
		stop = len(source)
	}

	pos := start
	for pos < stop {
		lineStart := lineStartAt(source, pos)
		lines[lineStart] = struct{}{}

		next := bytes.IndexByte(source[pos:], '\n')
		if next < 0 {
			break
		}
		pos += next + 1
	}
}

// lineStartAt returns the byte offset of the start of the line containing
// offset.
func lineStartAt(source []byte, offset int) int {
	if prev := bytes.LastIndexByte(source[:offset], '\n'); prev >= 0 {
		return prev + 1
	}
	return 0
}

// sourceLineAt returns the full source line beginning at the given offset.
func sourceLineAt(source []byte, start int) []byte {
	rest := source[start:]
	if end := bytes.IndexByte(rest, '\n'); end >= 0 {
		return rest[:end]
	}
	return rest
}
