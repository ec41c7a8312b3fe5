package assembler

// NodeType defines the type of an assembly node.
type NodeType int

const (
	// NodeInstruction type.
	NodeInstruction NodeType = iota
	// NodeLabel type.
	NodeLabel
	// NodeDirective type.
	NodeDirective
)

// Node represents one parsed element from the assembly source.
type Node struct {
	Type      NodeType
	Label     string
	Statement Statement
	Line      int
	Text      string
	Size      uint32 // Still used to track size between passes
}

func (n *Node) fail(err error) error {
	return &LineError{Line: n.Line, Text: n.Text, Err: err}
}
