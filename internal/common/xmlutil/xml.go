package xmlutil

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
	"github.com/deploymenttheory/go-job-composer/internal/common/fsutil"
)

// Node is one element of a parsed document. Name.Space holds the resolved namespace URI.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Node
	Parent   *Node
}

// Tag returns the local element name.
func (n *Node) Tag() string {
	return n.Name.Local
}

// Attr returns the value of an unprefixed attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasChild reports whether a direct child with the given tag exists.
func (n *Node) HasChild(tag string) bool {
	return n.FirstChild(tag) != nil
}

// FirstChild returns the first direct child with the given tag, or nil.
func (n *Node) FirstChild(tag string) *Node {
	for _, c := range n.Children {
		if c.Name.Local == tag {
			return c
		}
	}
	return nil
}

// Walk visits n and every descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Ancestor returns the nearest enclosing element with the given tag, or nil.
func (n *Node) Ancestor(tag string) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Name.Local == tag {
			return p
		}
	}
	return nil
}

// ParseTree parses a whole document into an element tree and returns its root.
// Comments, processing instructions and character data are dropped.
func ParseTree(data string) (*Node, error) {
	decoder := xml.NewDecoder(strings.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var root, current *Node
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name, Attrs: t.Copy().Attr, Parent: current}
			if current == nil {
				if root != nil {
					return nil, fmt.Errorf("line %d: document has more than one root element", lineOf(decoder))
				}
				root = node
			} else {
				current.Children = append(current.Children, node)
			}
			current = node
		case xml.EndElement:
			if current != nil {
				current = current.Parent
			}
		case xml.CharData:
			if current == nil && strings.TrimSpace(string(t)) != "" {
				return nil, fmt.Errorf("line %d: text outside the root element", lineOf(decoder))
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if current != nil {
		return nil, fmt.Errorf("element <%s> is not closed", current.Name.Local)
	}
	return root, nil
}

func lineOf(decoder *xml.Decoder) int {
	line, _ := decoder.InputPos()
	return line
}

// ReadXMLFile reads an XML file and returns its contents as a byte slice.
func ReadXMLFile(path string) ([]byte, error) {
	if !fsutil.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", errors.ErrFileNotFound, path)
	}
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrFileReadError, err.Error())
	}
	return data, nil
}

// EscapeAttr escapes a value for use inside a double-quoted attribute.
func EscapeAttr(value string) string {
	var b strings.Builder
	// EscapeText only fails when the writer does, and strings.Builder never does
	_ = xml.EscapeText(&b, []byte(value))
	return b.String()
}

// CommentText makes a value safe to place inside an XML comment.
func CommentText(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		// no two dashes may be adjacent
		if value[i] == '-' && i > 0 && value[i-1] == '-' {
			b.WriteByte(' ')
		}
		b.WriteByte(value[i])
	}
	if strings.HasSuffix(value, "-") {
		b.WriteByte(' ')
	}
	return b.String()
}
