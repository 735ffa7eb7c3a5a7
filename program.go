package figura

// Program represents a parsed source file.
type Program struct {
	Statements []Statement `json:"statements" yaml:"statements"` // Top-level statements in source order
}

// Len returns the number of top-level statements.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}

	return len(p.Statements)
}

// Figures returns every figure declaration, nested ones included, in source order.
func (p *Program) Figures() []*FigureDecl {
	var out []*FigureDecl
	walkStatements(p.Statements, func(s Statement) {
		if f, ok := s.(*FigureDecl); ok {
			out = append(out, f)
		}
	})

	return out
}

// Animations returns every animation declaration in source order.
func (p *Program) Animations() []*AnimationDecl {
	var out []*AnimationDecl
	walkStatements(p.Statements, func(s Statement) {
		if a, ok := s.(*AnimationDecl); ok {
			out = append(out, a)
		}
	})

	return out
}

// walkStatements visits statements depth-first, parents before children.
func walkStatements(stmts []Statement, fn func(Statement)) {
	for _, s := range stmts {
		fn(s)
		switch s := s.(type) {
		case *FigureDecl:
			walkStatements(s.Body, fn)
		case *AnimationDecl:
			walkStatements(s.Body, fn)
		case *If:
			walkStatements(s.Then, fn)
			walkStatements(s.Else, fn)
		case *ForEach:
			walkStatements(s.Body, fn)
		case *Each:
			walkStatements(s.Body, fn)
		}
	}
}
