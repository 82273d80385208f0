// Package xhtml checks rendered draft documents: well-formedness and the
// shape of their verse tables, using XPath over the parsed tree.
package xhtml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an element in a parsed document.
type Node struct {
	node *xmlquery.Node
}

// ValidationResult contains the result of a well-formedness check.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Parse parses document bytes.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{root: root}, nil
}

// Validate checks that data is well-formed. Entity expansion is disabled.
func Validate(data []byte) ValidationResult {
	result := ValidationResult{Valid: true}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = map[string]string{}

	for {
		_, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err.Error())
			break
		}
	}

	return result
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}

	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first matching node,
// or nil when nothing matches.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// Count evaluates a node-set expression and returns its size.
func (d *Document) Count(expr string) (int, error) {
	nodes, err := d.XPath(expr)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// Name returns the element name.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns all text content of the node and its descendants.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Attr returns an attribute value, or "".
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// Report summarizes the structure of a draft document.
type Report struct {
	Title       string
	Blocks      int
	Rows        int
	Annotations int
	EmptyCells  int
}

// Inspect parses a rendered document and counts its verse blocks, version
// rows, annotation rows and blank passage cells.
func Inspect(data []byte) (*Report, error) {
	if res := Validate(data); !res.Valid {
		return nil, fmt.Errorf("document is not well-formed: %v", res.Errors)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	r := &Report{}
	if title, err := doc.XPathFirst("//head/title"); err == nil && title != nil {
		r.Title = title.Text()
	}

	counts := []struct {
		expr string
		dst  *int
	}{
		{"//table[@class='draft']", &r.Blocks},
		{"//table[@class='draft']/tr[@data-version]", &r.Rows},
		{"//table[@class='draft']/tr[@class='annotation']", &r.Annotations},
		{"//table[@class='draft']/tr[@data-version]/td[@class='passage'][not(node())]", &r.EmptyCells},
	}
	for _, c := range counts {
		n, err := doc.Count(c.expr)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	return r, nil
}
