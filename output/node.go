package output

// NodeKind is the tag of one canonical tree node.
type NodeKind int

const (
	NodeNull NodeKind = iota
	NodeString
	NodeInt
	NodeFloat
	NodeBool
	NodeList
	NodeMap
)

// Node is the canonical structured form of one command result: a tree whose
// leaves are scalars and whose inner nodes are ordered lists or field maps.
// Every rendering is a pure function of this tree, which is what keeps the
// encodings equivalent to each other.
type Node struct {
	Kind   NodeKind
	Str    string
	Int    int64
	Float  float64
	Bool   bool
	List   []*Node
	Fields []Field
}

// Field is one named child of a map node. Order is significant and carried
// through every rendering.
type Field struct {
	Name string
	Node *Node
}
