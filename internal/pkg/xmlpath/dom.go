package xmlpath

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ErrNoRootElement is returned when the input parses but holds no element.
var ErrNoRootElement = errors.New("xmlpath: document has no root element")

type domNode struct {
	el *etree.Element
}

func (n domNode) Children() []Node {
	elements := n.el.ChildElements()
	children := make([]Node, len(elements))
	for i, el := range elements {
		children[i] = domNode{el: el}
	}
	return children
}

// Tag keeps the namespace prefix, so <soapenv:Body> is "soapenv:Body".
func (n domNode) Tag() string {
	return n.el.FullTag()
}

func (n domNode) Text() (string, bool) {
	text := n.el.Text()
	return text, text != ""
}

// Document is a parsed XML document whose tags are compared with their
// namespace prefixes taken literally.
type Document struct {
	doc *etree.Document
}

// ParseDocument parses data into a prefix-literal Document.
func ParseDocument(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("xmlpath: parse document: %w", err)
	}
	if doc.Root() == nil {
		return nil, ErrNoRootElement
	}
	return &Document{doc: doc}, nil
}

// Node returns the document node. Its only child is the root element, so
// paths walked from here start with the root tag.
func (d *Document) Node() Node {
	return domNode{el: &d.doc.Element}
}

// Root returns the root element.
func (d *Document) Root() Node {
	return domNode{el: d.doc.Root()}
}

// ValueAt walks path from the document node.
func (d *Document) ValueAt(path Path) (string, bool) {
	return ValueAt(d.Node(), path, LiteralMatch)
}

// FirstValue returns the text of the first element anywhere in the document
// whose prefixed tag equals tag.
func (d *Document) FirstValue(tag string) (string, bool) {
	found := FindFirst(d.Node(), tag, LiteralMatch)
	if found == nil {
		return "", false
	}
	return found.Text()
}
