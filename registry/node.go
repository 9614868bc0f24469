package registry

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// node is one element of the parsed document tree. Child elements and text
// runs are kept interleaved in document order; the declarator lexer depends
// on that ordering.
type node struct {
	tag     string
	attrs   []xml.Attr
	content []piece
}

// piece is one unit of mixed content: a text run when elem is nil,
// otherwise a child element.
type piece struct {
	text string
	elem *node
}

// parseDocument builds the element tree for a whole registry document and
// returns its root element.
func parseDocument(data []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *node
	var stack []*node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			n := &node{tag: tok.Name.Local, attrs: copyAttrs(tok.Attr)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrMalformedDocument)
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.content = append(parent.content, piece{elem: n})
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.content = append(parent.content, piece{text: string(tok)})
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}

	return root, nil
}

func copyAttrs(attrs []xml.Attr) []xml.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]xml.Attr, len(attrs))
	copy(out, attrs)
	return out
}

// attr returns the value of the named attribute.
func (n *node) attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// attrList returns the ','-separated values of the named attribute, nil
// when absent.
func (n *node) attrList(name string) []string {
	v, ok := n.attr(name)
	if !ok || v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

func (n *node) hasAttr(name string) bool {
	_, ok := n.attr(name)
	return ok
}

// elems returns the child elements carrying the given tag, in order.
func (n *node) elems(tag string) []*node {
	var out []*node
	for _, p := range n.content {
		if p.elem != nil && p.elem.tag == tag {
			out = append(out, p.elem)
		}
	}
	return out
}

// childText returns the text inside the first child element named tag.
func (n *node) childText(tag string) (string, bool) {
	for _, p := range n.content {
		if p.elem != nil && p.elem.tag == tag {
			return p.elem.text(), true
		}
	}
	return "", false
}

// singleText returns the node's content when it is exactly one text run
// and the node carries no attributes. Declarator elements must have this
// shape.
func (n *node) singleText() (string, bool) {
	if len(n.attrs) == 0 && len(n.content) == 1 && n.content[0].elem == nil {
		return n.content[0].text, true
	}
	return "", false
}

// text joins the node's direct text runs.
func (n *node) text() string {
	var sb strings.Builder
	for _, p := range n.content {
		if p.elem == nil {
			sb.WriteString(p.text)
		}
	}
	return sb.String()
}

// apiMatches reports whether the node applies to the target API. The "api"
// attribute lists the APIs a node belongs to; absence means it applies
// everywhere.
func (n *node) apiMatches(api string) bool {
	v, ok := n.attr("api")
	if !ok {
		return true
	}
	for _, candidate := range strings.Split(v, ",") {
		if candidate == api {
			return true
		}
	}
	return false
}

// String renders a pseudo-XML form of the node's tag and attributes, for
// error messages and trace output.
func (n *node) String() string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(n.tag)
	for _, a := range n.attrs {
		fmt.Fprintf(&sb, " %s='%s'", a.Name.Local, a.Value)
	}
	sb.WriteByte('>')
	return sb.String()
}
