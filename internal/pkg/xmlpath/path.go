// Package xmlpath looks up scalar values in parsed XML documents by walking an
// ordered list of tag names from a root node down to a leaf.
//
// Two tree backends are provided. ParseDocument keeps namespace prefixes as a
// literal part of each tag name ("soapenv:Body"), while ParseNamespaced
// resolves every element to its namespace URI and matches path steps through
// an alias table. Both are walked by the same ValueAt algorithm.
package xmlpath

// Path is an ordered sequence of tag names, root side first.
type Path []string

// Node is the minimal view of an XML element needed to walk a Path.
type Node interface {
	// Children returns the direct child elements in document order.
	Children() []Node
	// Tag returns the element name as the backend spells it.
	Tag() string
	// Text returns the character data that precedes the first child element.
	// ok is false when there is none.
	Text() (text string, ok bool)
}

// Matcher reports whether node n satisfies the path step.
type Matcher func(n Node, step string) bool

// LiteralMatch compares the node tag and the step as plain strings.
func LiteralMatch(n Node, step string) bool {
	return n.Tag() == step
}

// FirstChild returns the first direct child of n matching step, or nil.
func FirstChild(n Node, step string, match Matcher) Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children() {
		if match(child, step) {
			return child
		}
	}
	return nil
}

// ElementAt follows path from root and returns the addressed element. It
// returns nil as soon as a step has no matching child.
func ElementAt(root Node, path Path, match Matcher) Node {
	element := root
	for _, step := range path {
		element = FirstChild(element, step, match)
		if element == nil {
			return nil
		}
	}
	return element
}

// ValueAt returns the text of the leaf addressed by path. ok is false when any
// step is missing or when the leaf carries no text.
func ValueAt(root Node, path Path, match Matcher) (string, bool) {
	leaf := ElementAt(root, path, match)
	if leaf == nil {
		return "", false
	}
	return leaf.Text()
}

// FindFirst scans every descendant of root in document order and returns the
// first element whose tag matches, or nil.
func FindFirst(root Node, tag string, match Matcher) Node {
	if root == nil {
		return nil
	}
	for _, child := range root.Children() {
		if match(child, tag) {
			return child
		}
		if found := FindFirst(child, tag, match); found != nil {
			return found
		}
	}
	return nil
}
