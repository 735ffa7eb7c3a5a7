package figura

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Encode writes a Program as canonical source to writer.
func Encode(w io.Writer, p *Program, opt *FormatOptions) error {
	fopt := opt.normalize()
	// Buffered writer reduces syscall overhead and short writes.
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw, indent: fopt.Indent}
	if err := wr.writeProgram(p); err != nil {
		return err
	}

	return bw.Flush()
}

// EncodeFile writes a Program to a file.
func EncodeFile(path string, p *Program, opt *FormatOptions) error {
	b, err := Format(p, opt)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o600)
}

// Format renders a Program to bytes.
func Format(p *Program, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writer writes statements with indentation.
type writer struct {
	w      io.Writer // Writer to write to
	indent string    // Indentation string
	cache  []string  // Cache of indentation strings
	level  int       // Current nesting level
}

// writeProgram writes top-level statements, separating declarations of
// figures and animations by a blank line.
func (w *writer) writeProgram(p *Program) error {
	if p == nil {
		return nil
	}

	for i, st := range p.Statements {
		if i > 0 && (isDecl(st) || isDecl(p.Statements[i-1])) {
			if err := w.writeString("\n"); err != nil {
				return err
			}
		}
		if err := w.writeStatement(st); err != nil {
			return err
		}
	}

	return nil
}

// isDecl reports whether st declares a figure or an animation.
func isDecl(st Statement) bool {
	switch st.(type) {
	case *FigureDecl, *AnimationDecl:
		return true
	default:
		return false
	}
}

// writeStatement writes one statement and its nested blocks.
func (w *writer) writeStatement(st Statement) error {
	switch s := st.(type) {
	case *FigureDecl:
		return w.writeBlock("figure "+s.Name, s.Body)

	case *AnimationDecl:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Type + " " + p.Name
		}
		return w.writeBlock("animation "+s.Name+"("+strings.Join(params, ", ")+")", s.Body)

	case *VarDecl:
		return w.writeLine(s.Type + " " + s.Name + ";")

	case *CollectionDecl:
		return w.writeLine(s.Type + " " + s.Name + "[" + strconv.Itoa(s.Count) + "];")

	case *Assign:
		return w.writeLine(s.Target.String() + " = " + s.Value.String() + ";")

	case *AnimationCall:
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = a.String()
		}
		return w.writeLine(s.Callee.String() + "(" + strings.Join(args, ", ") + ");")

	case *If:
		head := "if (" + s.Cond.String() + ")"
		if len(s.Else) == 0 {
			return w.writeBlock(head, s.Then)
		}
		if err := w.openBlock(head, s.Then); err != nil {
			return err
		}
		if err := w.writeString("} else {\n"); err != nil {
			return err
		}
		return w.closeBlock(s.Else)

	case *ForEach:
		return w.writeBlock("for each "+s.Var+" in "+s.Collection, s.Body)

	case *Each:
		return w.writeBlock("each "+strconv.Itoa(s.Period), s.Body)

	default:
		return fmt.Errorf("cannot format statement %T", st)
	}
}

// writeBlock writes head { body }.
func (w *writer) writeBlock(head string, body []Statement) error {
	if err := w.openBlock(head, body); err != nil {
		return err
	}

	return w.writeString("}\n")
}

// openBlock writes head { and the indented body, leaving the cursor at the
// indentation of the closing brace.
func (w *writer) openBlock(head string, body []Statement) error {
	if err := w.writeLine(head + " {"); err != nil {
		return err
	}
	if err := w.writeBody(body); err != nil {
		return err
	}

	return w.writeIndent()
}

// closeBlock writes the indented body of an else branch and its brace.
func (w *writer) closeBlock(body []Statement) error {
	if err := w.writeBody(body); err != nil {
		return err
	}
	if err := w.writeIndent(); err != nil {
		return err
	}

	return w.writeString("}\n")
}

// writeBody writes statements one level deeper.
func (w *writer) writeBody(body []Statement) error {
	w.level++
	defer func() { w.level-- }()

	for _, st := range body {
		if err := w.writeStatement(st); err != nil {
			return err
		}
	}

	return nil
}

// writeLine writes an indented line.
func (w *writer) writeLine(s string) error {
	if err := w.writeIndent(); err != nil {
		return err
	}

	return w.writeString(s + "\n")
}

// writeIndent writes the current indentation level to the writer.
func (w *writer) writeIndent() error {
	if w.level <= 0 {
		return nil
	}

	// Cache repeated indentation strings per nesting level.
	return w.writeString(w.indentFor(w.level))
}

// writeString writes a string to the writer.
func (w *writer) writeString(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

// indentFor returns the indentation string for a nesting level.
func (w *writer) indentFor(level int) string {
	if level <= 0 {
		return ""
	}

	if len(w.cache) <= level {
		w.cache = append(w.cache, make([]string, level-len(w.cache)+1)...)
	}
	if w.cache[level] == "" {
		w.cache[level] = strings.Repeat(w.indent, level)
	}

	return w.cache[level]
}

// String formats the expression as source.
func (e *Expr) String() string {
	if e == nil || e.Sum == nil {
		return ""
	}

	return e.Sum.String()
}

// String formats the sum as source.
func (s *SumExpr) String() string {
	if s.Op == "" {
		return s.Right.String()
	}

	return s.Left.String() + " " + s.Op + " " + s.Right.String()
}

// String formats the product as source.
func (p *ProductExpr) String() string {
	if p.Op == "" {
		return atomString(p.Right)
	}

	return p.Left.String() + " " + p.Op + " " + atomString(p.Right)
}

// String formats the relation as source.
func (r *Relation) String() string {
	return r.Left.String() + " " + r.Op + " " + r.Right.String()
}

// atomString formats a leaf expression.
func atomString(a Atom) string {
	switch a := a.(type) {
	case IntLit:
		return strconv.Itoa(a.Value)
	case ColorLit:
		return a.Lit
	case PathExpr:
		return a.Path.String()
	case ParenExpr:
		return "(" + a.Inner.String() + ")"
	default:
		return ""
	}
}
