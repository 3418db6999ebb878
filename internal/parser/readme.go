// Package parser recovers the embedded plugin list from a README document.
//
// The list lives inside a disclosure widget (an HTML <details>/<summary>
// pair) followed by a fenced code block of one-per-line bullet entries.
// Because that block is both the input and part of the output of every
// regeneration, the parser is strict: any deviation from the expected shape
// is a fatal error rather than a silently skipped entry.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/harrison/plugdex/internal/htmltree"
	"github.com/harrison/plugdex/internal/models"
)

// FenceMarker is the fence delimiter used by the embedded list block.
const FenceMarker = "```"

var bulletPattern = regexp.MustCompile(`^\s*-\s*(.+)$`)

// ReadmeParser locates and parses the embedded plugin list.
type ReadmeParser struct {
	markdown goldmark.Markdown
	marker   string
}

// NewReadmeParser returns a parser that looks for a disclosure widget whose
// summary text equals marker.
func NewReadmeParser(marker string) *ReadmeParser {
	return &ReadmeParser{
		markdown: goldmark.New(),
		marker:   marker,
	}
}

// ExtractReferences returns the ordered references from the embedded list.
// Duplicates are preserved; deduplication happens during enrichment.
func (p *ReadmeParser) ExtractReferences(source []byte) ([]models.Reference, error) {
	fenced, err := p.locateListText(source)
	if err != nil {
		return nil, err
	}
	return parseBulletList(fenced)
}

// locateListText walks the markdown AST for an HTML block holding the
// marker disclosure widget and returns the text of the fenced block that
// follows it.
func (p *ReadmeParser) locateListText(source []byte) (string, error) {
	doc := p.markdown.Parser().Parse(text.NewReader(source))

	var fenced string
	found := false

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || found {
			return ast.WalkContinue, nil
		}

		block, ok := n.(*ast.HTMLBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		matched, err := p.isMarkerWidget(blockText(block, source))
		if err != nil {
			return ast.WalkStop, err
		}
		if !matched {
			return ast.WalkContinue, nil
		}

		sibling := block.NextSibling()
		if sibling == nil {
			return ast.WalkStop, fmt.Errorf("%w: %q widget has no following block", ErrStructuralMismatch, p.marker)
		}

		code, ok := sibling.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkStop, fmt.Errorf("%w: block after %q widget is %s, expected a fenced code block",
				ErrStructuralMismatch, p.marker, sibling.Kind())
		}

		fenced = linesText(code, source)
		found = true
		return ast.WalkStop, nil
	})
	if err != nil {
		return "", err
	}

	if !found {
		return "", fmt.Errorf("%w: no %q disclosure widget in document", ErrStructuralMismatch, p.marker)
	}

	return fenced, nil
}

// isMarkerWidget re-parses a raw HTML block and reports whether it is a
// <details> widget whose <summary> text equals the marker. Blocks that are
// not disclosure widgets at all are skipped, not errors; a widget with a
// different summary is likewise skipped.
func (p *ReadmeParser) isMarkerWidget(raw string) (bool, error) {
	if !strings.Contains(raw, "<details") {
		return false, nil
	}

	root, err := htmltree.Parse([]byte(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStructuralMismatch, err)
	}

	details, err := root.Get("html", "body", "details")
	if err != nil {
		return false, nil
	}

	summary, err := details.Text("summary")
	if err != nil {
		return false, nil
	}

	return summary == p.marker, nil
}

// parseBulletList enforces the one-bullet-per-line grammar. Blank lines and
// bare fence delimiters are skipped; any other non-matching line is fatal.
func parseBulletList(fenced string) ([]models.Reference, error) {
	var refs []models.Reference

	for _, line := range strings.Split(fenced, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == FenceMarker {
			continue
		}

		matches := bulletPattern.FindStringSubmatch(trimmed)
		if matches == nil {
			return nil, fmt.Errorf("%w: %q does not match %q", ErrGrammarViolation, trimmed, bulletPattern.String())
		}

		refs = append(refs, models.Reference(matches[1]))
	}

	return refs, nil
}

// blockText returns the raw source text of an HTML block, including its
// closure line when present.
func blockText(block *ast.HTMLBlock, source []byte) string {
	var sb strings.Builder
	for i := 0; i < block.Lines().Len(); i++ {
		segment := block.Lines().At(i)
		sb.Write(segment.Value(source))
	}
	if block.HasClosure() {
		sb.Write(block.ClosureLine.Value(source))
	}
	return sb.String()
}

// linesText returns the content lines of a leaf block such as a fenced code
// block, without the fence delimiters.
func linesText(node ast.Node, source []byte) string {
	var sb strings.Builder
	for i := 0; i < node.Lines().Len(); i++ {
		segment := node.Lines().At(i)
		sb.Write(segment.Value(source))
	}
	return sb.String()
}
