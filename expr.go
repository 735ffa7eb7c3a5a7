package figura

import (
	"strconv"
	"strings"
)

// Env resolves variable names during evaluation.
type Env interface {
	Resolve(name string) (Value, bool)
}

// Segment is one step of an attribute path: name or name[index].
type Segment struct {
	Name  string `json:"name" yaml:"name"`                       // Variable, member or child name
	Index *int   `json:"index,omitempty" yaml:"index,omitempty"` // Optional subscript
}

// Path is an attribute path such as shapes[2].position.x.
type Path []Segment

// String formats the path as written in source.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Name)
		if s.Index != nil {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(*s.Index))
			b.WriteByte(']')
		}
	}

	return b.String()
}

// Expr is the root of an arithmetic expression tree.
type Expr struct {
	Sum *SumExpr `json:"sum" yaml:"sum"`
}

// SumExpr is Product (('+'|'-') Product)*, folded to the left.
// A node without Op passes Right through.
type SumExpr struct {
	Left  *SumExpr     `json:"left,omitempty" yaml:"left,omitempty"`
	Op    string       `json:"op,omitempty" yaml:"op,omitempty"`
	Right *ProductExpr `json:"right" yaml:"right"`
}

// ProductExpr is Atom (('*'|'/') Atom)*, folded to the left.
// A node without Op passes Right through.
type ProductExpr struct {
	Left  *ProductExpr `json:"left,omitempty" yaml:"left,omitempty"`
	Op    string       `json:"op,omitempty" yaml:"op,omitempty"`
	Right Atom         `json:"right" yaml:"right"`
}

// Atom is a leaf or parenthesized expression.
type Atom interface {
	atom()
}

// IntLit is an integer literal.
type IntLit struct {
	Value int `json:"int" yaml:"int"`
}

// ColorLit is a color literal.
type ColorLit struct {
	Lit   string `json:"color" yaml:"color"` // Literal as written, e.g. #ff8800
	Color Color  `json:"-" yaml:"-"`         // Parsed color
}

// PathExpr reads an attribute path.
type PathExpr struct {
	Path Path `json:"path" yaml:"path"`
}

// ParenExpr is a parenthesized sub-expression.
type ParenExpr struct {
	Inner *Expr `json:"paren" yaml:"paren"`
}

func (IntLit) atom()    {}
func (ColorLit) atom()  {}
func (PathExpr) atom()  {}
func (ParenExpr) atom() {}

// Relation compares two expressions.
type Relation struct {
	Left  *Expr  `json:"left" yaml:"left"`
	Op    string `json:"op" yaml:"op"`
	Right *Expr  `json:"right" yaml:"right"`
}

// Eval evaluates the expression.
func (e *Expr) Eval(env Env) (Value, error) {
	return e.Sum.eval(env)
}

// eval evaluates a sum node.
func (s *SumExpr) eval(env Env) (Value, error) {
	if s.Op == "" {
		return s.Right.eval(env)
	}

	left, err := s.Left.eval(env)
	if err != nil {
		return Value{}, err
	}
	right, err := s.Right.eval(env)
	if err != nil {
		return Value{}, err
	}

	return arith(left, s.Op, right)
}

// eval evaluates a product node.
func (p *ProductExpr) eval(env Env) (Value, error) {
	if p.Op == "" {
		return evalAtom(p.Right, env)
	}

	left, err := p.Left.eval(env)
	if err != nil {
		return Value{}, err
	}
	right, err := evalAtom(p.Right, env)
	if err != nil {
		return Value{}, err
	}

	return arith(left, p.Op, right)
}

// evalAtom evaluates a leaf.
func evalAtom(a Atom, env Env) (Value, error) {
	switch a := a.(type) {
	case IntLit:
		return IntValue(a.Value), nil
	case ColorLit:
		return ColorValue(a.Color), nil
	case PathExpr:
		return ResolvePath(env, a.Path)
	case ParenExpr:
		return a.Inner.Eval(env)
	default:
		return Value{}, runtimeErrorf(ErrTypeMismatch, "unsupported expression")
	}
}

// arith applies a binary arithmetic operator to two integers.
func arith(left Value, op string, right Value) (Value, error) {
	l, err := left.expectInt("left operand of " + op)
	if err != nil {
		return Value{}, err
	}
	r, err := right.expectInt("right operand of " + op)
	if err != nil {
		return Value{}, err
	}

	switch op {
	case "+":
		return IntValue(l + r), nil
	case "-":
		return IntValue(l - r), nil
	case "*":
		return IntValue(l * r), nil
	case "/":
		if r == 0 {
			return Value{}, newError(ErrArithmetic, ErrDivisionByZero, 0, "division by zero")
		}
		return IntValue(l / r), nil
	default:
		return Value{}, runtimeErrorf(ErrTypeMismatch, "unknown operator %q", op)
	}
}

// Eval evaluates both sides and compares them.
// Integers support every operator; colors, vectors and entities only == and !=.
func (r *Relation) Eval(env Env) (bool, error) {
	left, err := r.Left.Eval(env)
	if err != nil {
		return false, err
	}
	right, err := r.Right.Eval(env)
	if err != nil {
		return false, err
	}

	if left.Kind == ValueInt && right.Kind == ValueInt {
		switch r.Op {
		case "==":
			return left.Int == right.Int, nil
		case "!=":
			return left.Int != right.Int, nil
		case ">":
			return left.Int > right.Int, nil
		case ">=":
			return left.Int >= right.Int, nil
		case "<":
			return left.Int < right.Int, nil
		case "<=":
			return left.Int <= right.Int, nil
		}
		return false, runtimeErrorf(ErrTypeMismatch, "unknown relation %q", r.Op)
	}

	if left.Kind != right.Kind || (r.Op != "==" && r.Op != "!=") {
		return false, runtimeErrorf(ErrTypeMismatch, "cannot compare %s %s %s", left.Kind, r.Op, right.Kind)
	}

	eq := false
	switch left.Kind {
	case ValueColor:
		eq = left.Color == right.Color
	case ValueVector:
		eq = left.Vec == right.Vec
	case ValueEntity:
		eq = left.Entity == right.Entity
	}
	if r.Op == "!=" {
		return !eq, nil
	}

	return eq, nil
}

// ResolvePath resolves an attribute path left to right.
func ResolvePath(env Env, p Path) (Value, error) {
	if len(p) == 0 {
		return Value{}, runtimeErrorf(ErrUndefinedVariable, "empty path")
	}

	v, ok := env.Resolve(p[0].Name)
	if !ok {
		return Value{}, runtimeErrorf(ErrUndefinedVariable, "undefined variable %q", p[0].Name)
	}

	v, err := subscript(v, p[0], p[:1])
	if err != nil {
		return Value{}, err
	}

	for i := 1; i < len(p); i++ {
		v, err = member(v, p[i].Name, p[:i+1])
		if err != nil {
			return Value{}, err
		}
		v, err = subscript(v, p[i], p[:i+1])
		if err != nil {
			return Value{}, err
		}
	}

	return v, nil
}

// subscript applies the optional index of a segment.
func subscript(v Value, s Segment, at Path) (Value, error) {
	if s.Index == nil {
		return v, nil
	}

	c, ok := v.Entity.(*Composite)
	if v.Kind != ValueEntity || !ok {
		return Value{}, runtimeErrorf(ErrTypeMismatch, "%s: subscript on non-collection %s", at, v.Kind)
	}

	child, err := c.Child(*s.Index)
	if err != nil {
		return Value{}, runtimeErrorf(ErrIndexOutOfRange, "%s: %v", at, err)
	}

	return EntityValue(child), nil
}

// member resolves a named member of a value.
func member(v Value, name string, at Path) (Value, error) {
	switch v.Kind {
	case ValueVector:
		switch name {
		case "x":
			return IntValue(roundInt(v.Vec.X)), nil
		case "y":
			return IntValue(roundInt(v.Vec.Y)), nil
		}

	case ValueEntity:
		if attr, ok := readAttribute(v.Entity, name); ok {
			return attr, nil
		}
		if c, ok := v.Entity.(*Composite); ok {
			if child := c.ChildNamed(name); child != nil {
				return EntityValue(child), nil
			}
		}
	}

	return Value{}, runtimeErrorf(ErrUnknownMember, "%s: %s has no member %q", at, v.Kind, name)
}
