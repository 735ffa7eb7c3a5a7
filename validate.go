package figura

import "fmt"

// IssueLevel represents severity of validation issue.
type IssueLevel string

const (
	// IssueError indicates a validation error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a validation warning.
	IssueWarning IssueLevel = "warning"
)

// Issue codes.
const (
	CodeUnknownType      = "unknown-type"
	CodeUnknownAnimation = "unknown-animation"
	CodeArity            = "arity"
	CodeDuplicate        = "duplicate"
	CodeShadowsBuiltin   = "shadows-builtin"
	CodeRecursion        = "recursion"
	CodeZeroPeriod       = "zero-period"
)

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Name the issue refers to
	Line    int        `json:"line,omitempty" yaml:"line,omitempty"` // Source line
}

// String formats the issue for terminal output.
func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s (%s)", i.Line, i.Level, i.Message, i.Code)
	}

	return fmt.Sprintf("%s: %s (%s)", i.Level, i.Message, i.Code)
}

// HasErrors reports whether any issue has error level.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Level == IssueError {
			return true
		}
	}

	return false
}

// validator walks a program keeping the names a run would have seen.
type validator struct {
	opt      ValidateOptions
	known    map[string]bool           // Types declared so far at load time
	allTypes map[string]bool           // Every type declared anywhere
	anims    map[string]*AnimationDecl // Every animation declared anywhere
	out      []Issue
}

// Validate checks a program without running it and returns issues.
//
// Top-level statements are checked in order, so a type used before its
// figure is declared is reported. Animation and timer bodies run later and
// are checked against every declaration in the program.
func Validate(p *Program, opt *ValidateOptions) []Issue {
	v := &validator{
		opt:      opt.normalize(),
		known:    map[string]bool{string(ShapeLine): true, string(ShapeCircle): true},
		allTypes: map[string]bool{string(ShapeLine): true, string(ShapeCircle): true},
		anims:    make(map[string]*AnimationDecl),
	}
	if p == nil {
		return nil
	}

	for _, f := range p.Figures() {
		if v.allTypes[f.Name] {
			v.add(IssueWarning, CodeDuplicate, f.Line, f.Name, "type %q is declared more than once", f.Name)
		}
		v.allTypes[f.Name] = true
	}
	for _, a := range p.Animations() {
		if _, ok := v.anims[a.Name]; ok {
			v.add(IssueWarning, CodeDuplicate, a.Line, a.Name, "animation %q is declared more than once", a.Name)
		}
		v.anims[a.Name] = a

		if !v.opt.DisableShadowCheck && builtinArity(a.Name) >= 0 {
			v.add(IssueWarning, CodeShadowsBuiltin, a.Line, a.Name, "animation %q hides the builtin of the same name", a.Name)
		}
	}

	v.walk(p.Statements, v.known, "")
	return v.out
}

// add records an issue.
func (v *validator) add(level IssueLevel, code string, line int, path, format string, args ...any) {
	v.out = append(v.out, Issue{
		Level:   level,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
		Line:    line,
	})
}

// walk checks statements. types is the set of type names visible when the
// statements run; anim is the enclosing animation, if any.
func (v *validator) walk(stmts []Statement, types map[string]bool, anim string) {
	for _, st := range stmts {
		switch s := st.(type) {
		case *FigureDecl:
			v.walk(s.Body, types, anim)
			types[s.Name] = true

		case *AnimationDecl:
			for _, p := range s.Params {
				v.checkParam(s, p)
			}
			v.walk(s.Body, v.allTypes, s.Name)

		case *VarDecl:
			v.checkType(s.Type, s.Line, types)

		case *CollectionDecl:
			v.checkType(s.Type, s.Line, types)

		case *AnimationCall:
			v.checkCall(s, anim)

		case *If:
			v.walk(s.Then, types, anim)
			v.walk(s.Else, types, anim)

		case *ForEach:
			v.walk(s.Body, types, anim)

		case *Each:
			if s.Period <= 0 {
				v.add(IssueWarning, CodeZeroPeriod, s.Line, "", "each 0 fires on every frame")
			}
			v.walk(s.Body, v.allTypes, anim)
		}
	}
}

// checkType reports declarations of unknown types.
func (v *validator) checkType(name string, line int, types map[string]bool) {
	if v.opt.DisableTypeCheck || types[name] {
		return
	}

	if v.allTypes[name] {
		v.add(IssueError, CodeUnknownType, line, name, "type %q is used before its figure is declared", name)
		return
	}

	v.add(IssueError, CodeUnknownType, line, name, "unknown type %q", name)
}

// checkParam reports parameters of unknown types.
func (v *validator) checkParam(a *AnimationDecl, p Param) {
	if v.opt.DisableTypeCheck {
		return
	}

	switch p.Type {
	case "int", "color", "vector":
		return
	}
	if !v.allTypes[p.Type] {
		v.add(IssueError, CodeUnknownType, a.Line, a.Name+"."+p.Name, "parameter %s of %s has unknown type %q", p.Name, a.Name, p.Type)
	}
}

// checkCall reports unknown animations, arity mismatches and direct recursion.
func (v *validator) checkCall(c *AnimationCall, anim string) {
	if v.opt.DisableAnimationCheck {
		return
	}

	name := c.Callee[len(c.Callee)-1].Name
	got := len(c.Args)
	if len(c.Callee) > 1 {
		got++
	}

	want := builtinArity(name)
	if decl, ok := v.anims[name]; ok {
		want = len(decl.Params)
	} else if want < 0 {
		v.add(IssueError, CodeUnknownAnimation, c.Line, name, "unknown animation %q", name)
		return
	}

	if got != want {
		v.add(IssueError, CodeArity, c.Line, name, "%s expects %d arguments, got %d", name, want, got)
	}
	if name == anim {
		v.add(IssueError, CodeRecursion, c.Line, name, "animation %q calls itself", name)
	}
}
