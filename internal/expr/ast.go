package expr

// Node is implemented by every AST expression node. Unlike the teacher's
// corelx AST (statements, types, declarations), this dialect has exactly one
// syntactic category: float-valued expressions, with assignment modeled as a
// binding around an expression rather than a distinct statement node.
type Node interface {
	node()
}

// NumberNode is a float literal.
type NumberNode struct {
	Value float64
}

func (*NumberNode) node() {}

// IdentNode is a variable or register reference (e.g. "bass", "q5", "x").
type IdentNode struct {
	Name string
}

func (*IdentNode) node() {}

// UnaryNode is a prefix +/- applied to an operand.
type UnaryNode struct {
	Op      TokenType
	Operand Node
}

func (*UnaryNode) node() {}

// BinaryNode is an infix arithmetic operation.
type BinaryNode struct {
	Op    TokenType
	Left  Node
	Right Node
}

func (*BinaryNode) node() {}

// CallNode is a function call, e.g. "sin(x)" or "milkif(above(bass,1),1,0)".
type CallNode struct {
	Name string
	Args []Node
}

func (*CallNode) node() {}

// Assignment is a single compiled statement: target = expression.
// The dialect auto-declares its target on first assignment (spec.md §4.2),
// so Assignment carries no separate declaration form.
type Assignment struct {
	Target string
	Value  Node
}
