// Package htmltree provides a small path-descent wrapper around parsed HTML
// node trees. It exists so that callers walking a known document shape can
// fail loudly, with the missing selector named, instead of panicking on a
// nil child.
package htmltree

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ErrNotFound indicates a selector matched no child node. Callers treat this
// as a structural mismatch: the document no longer has the expected shape.
var ErrNotFound = errors.New("htmltree: node not found")

// Node wraps an html.Node for path-based descent.
type Node struct {
	node *html.Node
}

// Parse parses raw HTML and returns the document root wrapped as a Node.
func Parse(raw []byte) (*Node, error) {
	root, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Node{node: root}, nil
}

// Wrap wraps an existing html.Node.
func Wrap(n *html.Node) *Node {
	return &Node{node: n}
}

// Get walks the given selectors to a descendant node. A string selector
// matches the first child element with that tag name; an int selector picks
// the nth child element. Returns an error wrapping ErrNotFound when a
// selector matches nothing.
func (n *Node) Get(selectors ...any) (*Node, error) {
	current := n.node

	for _, selector := range selectors {
		var child *html.Node

		switch s := selector.(type) {
		case string:
			child = firstElementOfType(current, s)
		case int:
			child = nthElement(current, s)
		default:
			return nil, fmt.Errorf("htmltree: unsupported selector type %T", selector)
		}

		if child == nil {
			return nil, fmt.Errorf("%w: selector %v under <%s>", ErrNotFound, selector, nodeName(current))
		}

		current = child
	}

	return &Node{node: current}, nil
}

// Text walks the selectors, if any, then returns the concatenated text
// content of the resulting node.
func (n *Node) Text(selectors ...any) (string, error) {
	target := n
	if len(selectors) > 0 {
		found, err := n.Get(selectors...)
		if err != nil {
			return "", err
		}
		target = found
	}

	var sb strings.Builder
	collectText(target.node, &sb)
	return sb.String(), nil
}

// TagName returns the element tag name, or empty for non-element nodes.
func (n *Node) TagName() string {
	if n.node.Type != html.ElementNode {
		return ""
	}
	return n.node.Data
}

func firstElementOfType(parent *html.Node, name string) *html.Node {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

func nthElement(parent *html.Node, index int) *html.Node {
	i := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if i == index {
			return c
		}
		i++
	}
	return nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func nodeName(n *html.Node) string {
	switch n.Type {
	case html.ElementNode:
		return n.Data
	case html.DocumentNode:
		return "#document"
	case html.TextNode:
		return "#text"
	default:
		return fmt.Sprintf("#type-%d", n.Type)
	}
}
