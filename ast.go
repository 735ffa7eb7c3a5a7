package figura

// Statement is a parsed statement node.
// The set of implementations is closed to this package.
type Statement interface {
	statement()
	// SourceLine returns the line the statement starts on.
	SourceLine() int
}

// stmtNode carries the fields shared by every statement.
type stmtNode struct {
	Kind string `json:"kind" yaml:"kind"` // Statement kind, e.g. "figure"
	Line int    `json:"line" yaml:"line"` // Line the statement starts on
}

// statement implements the Statement interface.
func (stmtNode) statement() {}

// SourceLine implements the Statement interface.
func (n stmtNode) SourceLine() int { return n.Line }

// FigureDecl declares a composite type: figure Name { ... }.
type FigureDecl struct {
	stmtNode `yaml:",inline"`
	Name     string      `json:"name" yaml:"name"` // Type name to register
	Body     []Statement `json:"body" yaml:"body"` // Declarations and assignments
}

// Param is a formal parameter of an animation.
type Param struct {
	Type string `json:"type" yaml:"type"` // Parameter type (int, color or an entity type)
	Name string `json:"name" yaml:"name"` // Parameter name
}

// AnimationDecl declares a named animation: animation Name(T a, ...) { ... }.
type AnimationDecl struct {
	stmtNode `yaml:",inline"`
	Name     string      `json:"name" yaml:"name"`                         // Animation name
	Params   []Param     `json:"params,omitempty" yaml:"params,omitempty"` // Formal parameters
	Body     []Statement `json:"body" yaml:"body"`                         // Block statements
}

// VarDecl declares a variable cloned from a prototype: Type name;.
type VarDecl struct {
	stmtNode `yaml:",inline"`
	Type     string `json:"type" yaml:"type"` // Prototype type name
	Name     string `json:"name" yaml:"name"` // Variable name
}

// CollectionDecl declares a collection of clones: Type name[count];.
type CollectionDecl struct {
	stmtNode `yaml:",inline"`
	Type     string `json:"type" yaml:"type"`   // Element type name
	Name     string `json:"name" yaml:"name"`   // Variable name
	Count    int    `json:"count" yaml:"count"` // Number of elements, always > 0
}

// Assign writes a value to an attribute path: path = expr;.
type Assign struct {
	stmtNode `yaml:",inline"`
	Target   Path  `json:"target" yaml:"target"` // Assigned path
	Value    *Expr `json:"value" yaml:"value"`   // Assigned value
}

// AnimationCall starts an animation: path(args...);.
type AnimationCall struct {
	stmtNode `yaml:",inline"`
	Callee   Path    `json:"callee" yaml:"callee"`                 // Target prefix and animation name
	Args     []*Expr `json:"args,omitempty" yaml:"args,omitempty"` // Actual arguments
}

// If runs exactly one of its branches.
type If struct {
	stmtNode `yaml:",inline"`
	Cond     *Relation   `json:"cond" yaml:"cond"`                     // Condition
	Then     []Statement `json:"then" yaml:"then"`                     // Taken when Cond holds
	Else     []Statement `json:"else,omitempty" yaml:"else,omitempty"` // Taken otherwise
}

// ForEach iterates the children of a collection: for each v in c Block.
type ForEach struct {
	stmtNode   `yaml:",inline"`
	Var        string      `json:"var" yaml:"var"`               // Iteration variable
	Collection string      `json:"collection" yaml:"collection"` // Iterated collection
	Body       []Statement `json:"body" yaml:"body"`             // Loop body
}

// Each re-runs its body every Period time units: each period Block.
type Each struct {
	stmtNode `yaml:",inline"`
	Period   int         `json:"period" yaml:"period"` // Period in time units
	Body     []Statement `json:"body" yaml:"body"`     // Timer body
}

// statement kinds.
const (
	kindFigure     = "figure"
	kindAnimation  = "animation"
	kindVar        = "var"
	kindCollection = "collection"
	kindAssign     = "assign"
	kindCall       = "call"
	kindIf         = "if"
	kindForEach    = "foreach"
	kindEach       = "each"
)

// node builds the shared statement header.
func node(kind string, line int) stmtNode {
	return stmtNode{Kind: kind, Line: line}
}
