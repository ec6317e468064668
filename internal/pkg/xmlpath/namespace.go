package xmlpath

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	SOAPEnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	PartnerNamespace      = "urn:partner.soap.sforce.com"
	SObjectNamespace      = "urn:sobject.partner.soap.sforce.com"
	FaultNamespace        = "urn:fault.partner.soap.sforce.com"
)

// Namespaces maps path aliases to namespace URIs.
type Namespaces map[string]string

// SOAPAliases resolves the aliases used for partner API responses. Salesforce
// binds the "sf" prefix to the sObject namespace in results and to the fault
// namespace in faults; here "sf" covers sObject elements only and fault
// elements such as exceptionCode are reached through "fault".
var SOAPAliases = Namespaces{
	"soapenv": SOAPEnvelopeNamespace,
	"default": PartnerNamespace,
	"sf":      SObjectNamespace,
	"fault":   FaultNamespace,
}

// Matcher returns a predicate that accepts "alias:local" steps resolved
// through ns. A step without an alias only matches elements outside any
// namespace; an unknown alias matches nothing.
func (ns Namespaces) Matcher() Matcher {
	return func(n Node, step string) bool {
		return n.Tag() == ns.qualify(step)
	}
}

func (ns Namespaces) qualify(step string) string {
	alias, local, found := strings.Cut(step, ":")
	if !found {
		return step
	}
	uri, ok := ns[alias]
	if !ok {
		// Braces never appear in a decoded tag, so this matches nothing.
		return "{?" + alias + "}" + local
	}
	return clark(xml.Name{Space: uri, Local: local})
}

func clark(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return "{" + name.Space + "}" + name.Local
}

type nsNode struct {
	name     xml.Name
	children []*nsNode
	text     strings.Builder
	// textDone is set once leading text can no longer grow: at the first
	// child element, processing instruction or directive. Comments are skipped.
	textDone bool
}

func (n *nsNode) Children() []Node {
	children := make([]Node, len(n.children))
	for i, child := range n.children {
		children[i] = child
	}
	return children
}

// Tag uses Clark notation, "{uri}local", or the bare local name when the
// element has no namespace.
func (n *nsNode) Tag() string {
	return clark(n.name)
}

func (n *nsNode) Text() (string, bool) {
	text := n.text.String()
	return text, text != ""
}

// ParseNamespaced parses data and returns its root element with every tag
// resolved to its namespace URI.
func ParseNamespaced(data []byte) (Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var root *nsNode
	var stack []*nsNode
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmlpath: parse namespaced document: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &nsNode{name: t.Name}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("xmlpath: parse namespaced document: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
				parent.textDone = true
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			if top := stack[len(stack)-1]; !top.textDone {
				top.text.Write(t)
			}
		case xml.ProcInst, xml.Directive:
			if len(stack) > 0 {
				stack[len(stack)-1].textDone = true
			}
		}
	}

	if root == nil {
		return nil, ErrNoRootElement
	}
	return root, nil
}
