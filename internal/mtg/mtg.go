// Package mtg provides the minimal multiscale tree the engine traverses:
// nodes with named attributes and child links. The engine only needs the
// traversal contract; richer plant-graph structures can satisfy the same
// interface.
package mtg

// Skip is the not-applicable marker: a transform function returning Skip
// leaves the node's attribute untouched.
type skipMarker struct{}

// Skip tells TransformAttribute to leave a node unchanged.
var Skip = skipMarker{}

// Node is one vertex of the tree. Attributes are freely typed; children
// are exclusively owned by their parent.
type Node struct {
	name       string
	attributes map[string]any
	children   []*Node
}

// NewNode creates a node with the given name.
func NewNode(name string) *Node {
	return &Node{name: name, attributes: make(map[string]any)}
}

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// AddChild appends a child and returns it for chaining.
func (n *Node) AddChild(child *Node) *Node {
	n.children = append(n.children, child)
	return child
}

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Attribute returns a named attribute.
func (n *Node) Attribute(name string) (any, bool) {
	v, ok := n.attributes[name]
	return v, ok
}

// SetAttribute writes a named attribute.
func (n *Node) SetAttribute(name string, value any) {
	n.attributes[name] = value
}

// Traverse visits the subtree rooted at n in pre-order, every node exactly
// once. Traversal stops early when fn returns false.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Traverse(fn)
	}
}

// TransformAttribute rewrites one attribute on every node of the subtree
// via the supplied function. A node where fn returns Skip keeps its
// current value; a node without the attribute is passed a nil input.
func (n *Node) TransformAttribute(name string, fn func(node *Node, current any) any) {
	n.Traverse(func(node *Node) bool {
		current := node.attributes[name]
		next := fn(node, current)
		if next == Skip {
			return true
		}
		node.attributes[name] = next
		return true
	})
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	total := 0
	n.Traverse(func(*Node) bool {
		total++
		return true
	})
	return total
}
