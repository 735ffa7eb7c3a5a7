package figura

import "fmt"

// execBlock executes statements in order and stops at the first error.
func (in *Interpreter) execBlock(stmts []Statement) error {
	for _, st := range stmts {
		if err := in.exec(st); err != nil {
			return err
		}
	}

	return nil
}

// exec executes a single statement.
// Errors without a line get the line of the statement.
func (in *Interpreter) exec(st Statement) error {
	var err error
	switch st := st.(type) {
	case *FigureDecl:
		err = in.execFigure(st)
	case *AnimationDecl:
		in.anims[st.Name] = st
		in.log.Debug("declare animation", "name", st.Name, "params", len(st.Params))
	case *VarDecl:
		err = in.execVar(st)
	case *CollectionDecl:
		err = in.execCollection(st)
	case *Assign:
		err = in.execAssign(st)
	case *AnimationCall:
		err = in.execCall(st)
	case *If:
		err = in.execIf(st)
	case *ForEach:
		err = in.execForEach(st)
	case *Each:
		in.timers = append(in.timers, &timer{body: st.Body, period: float64(st.Period), line: st.Line})
		in.log.Debug("register timer", "period", st.Period, "line", st.Line)
	default:
		err = runtimeErrorf(ErrTypeMismatch, "unsupported statement %T", st)
	}

	return withLine(err, st.SourceLine())
}

// scoped runs fn inside a pushed scope and always pops it.
func (in *Interpreter) scoped(fn func() error) error {
	in.scopes.Push()
	defer in.scopes.Pop()

	return fn()
}

// isolated runs fn in a fresh scope on top of the global scope only.
func (in *Interpreter) isolated(fn func() error) error {
	restore := in.scopes.isolate()
	defer restore()

	return fn()
}

// execFigure builds a composite from the body and registers it as a type.
func (in *Interpreter) execFigure(st *FigureDecl) error {
	proto := NewComposite(st.Name, st.Name, in.opt.Origin)
	outer := in.building
	in.building = proto
	defer func() { in.building = outer }()

	if err := in.scoped(func() error { return in.execBlock(st.Body) }); err != nil {
		return err
	}

	in.types.Register(st.Name, proto)
	in.log.Debug("declare figure", "name", st.Name, "children", proto.Len())
	return nil
}

// instantiate clones the prototype registered under typ.
func (in *Interpreter) instantiate(typ string) (Entity, error) {
	proto, ok := in.types.Lookup(typ)
	if !ok {
		return nil, runtimeErrorf(ErrUnknownType, "unknown type %q", typ)
	}

	return proto.Clone(), nil
}

// bind declares a new entity in the innermost scope. Inside a figure body
// the entity also becomes a child of the figure being built.
func (in *Interpreter) bind(name string, e Entity) {
	if in.building != nil {
		in.building.Add(e)
	}
	in.scopes.Declare(name, EntityValue(e))
}

// execVar declares a clone of a registered type.
func (in *Interpreter) execVar(st *VarDecl) error {
	e, err := in.instantiate(st.Type)
	if err != nil {
		return err
	}

	e.SetName(st.Name)
	in.bind(st.Name, e)
	in.log.Debug("declare", "name", st.Name, "type", st.Type)
	return nil
}

// execCollection declares a composite of Count clones placed diagonally.
func (in *Interpreter) execCollection(st *CollectionDecl) error {
	proto, ok := in.types.Lookup(st.Type)
	if !ok {
		return runtimeErrorf(ErrUnknownType, "unknown type %q", st.Type)
	}

	coll := NewComposite(st.Name, st.Type, proto.Position())
	for i := 0; i < st.Count; i++ {
		e := proto.Clone()
		e.SetName(fmt.Sprintf("%s[%d]", st.Name, i))
		off := in.opt.CollectionStep * float64(i)
		e.SetPosition(e.Position().Add(Vec2{X: off, Y: off}))
		coll.Add(e)
	}

	in.bind(st.Name, coll)
	in.log.Debug("declare collection", "name", st.Name, "type", st.Type, "count", st.Count)
	return nil
}

// execAssign writes an attribute or rebinds a variable.
func (in *Interpreter) execAssign(st *Assign) error {
	v, err := st.Value.Eval(in.scopes)
	if err != nil {
		return err
	}

	target := st.Target
	last := target[len(target)-1]
	if last.Index != nil {
		return runtimeErrorf(ErrTypeMismatch, "cannot assign to element %s", target)
	}

	if len(target) == 1 {
		return in.rebind(last.Name, v)
	}

	prefix := target[:len(target)-1]
	owner, err := ResolvePath(in.scopes, prefix)
	if err != nil {
		return err
	}

	// a.position.x = v writes through to the entity.
	if owner.Kind == ValueVector && len(prefix) > 1 && prefix[len(prefix)-1].Name == "position" &&
		prefix[len(prefix)-1].Index == nil && (last.Name == "x" || last.Name == "y") {
		owner, err = ResolvePath(in.scopes, prefix[:len(prefix)-1])
		if err != nil {
			return err
		}
	}

	e, err := owner.expectEntity(prefix.String())
	if err != nil {
		return err
	}

	return writeAttribute(e, last.Name, v)
}

// rebind assigns to a variable where it resolves. Entities are cloned so
// two names never share one entity. Inside a figure body the clone takes
// the old entity's place among the figure's children.
func (in *Interpreter) rebind(name string, v Value) error {
	old, ok := in.scopes.Resolve(name)
	if !ok {
		return runtimeErrorf(ErrUndefinedVariable, "undefined variable %q", name)
	}
	if old.Kind != v.Kind {
		return runtimeErrorf(ErrTypeMismatch, "%s: cannot assign %s to %s", name, v.Kind, old.Kind)
	}

	if v.Kind == ValueEntity {
		e := v.Entity.Clone()
		e.SetName(name)
		if in.building != nil {
			in.building.replace(old.Entity, e)
		}
		v = EntityValue(e)
	}

	in.scopes.Assign(name, v)
	return nil
}

// execCall starts an animation. a.b.anim(args) passes a.b as the first argument.
func (in *Interpreter) execCall(st *AnimationCall) error {
	callee := st.Callee
	last := callee[len(callee)-1]
	if last.Index != nil {
		return runtimeErrorf(ErrUnknownAnimation, "%s is not an animation", callee)
	}

	args := make([]Value, 0, len(st.Args)+1)
	if len(callee) > 1 {
		target, err := ResolvePath(in.scopes, callee[:len(callee)-1])
		if err != nil {
			return err
		}
		args = append(args, target)
	}
	for _, a := range st.Args {
		v, err := a.Eval(in.scopes)
		if err != nil {
			return err
		}
		args = append(args, v)
	}

	if decl, ok := in.anims[last.Name]; ok {
		return in.callAnimation(decl, args)
	}
	if b, ok := builtins[last.Name]; ok {
		return in.callBuiltin(last.Name, b, args)
	}

	return runtimeErrorf(ErrUnknownAnimation, "unknown animation %q", last.Name)
}

// callAnimation binds arguments and runs a user animation body.
func (in *Interpreter) callAnimation(decl *AnimationDecl, args []Value) error {
	if len(args) != len(decl.Params) {
		return runtimeErrorf(ErrArgumentCount, "%s expects %d arguments, got %d", decl.Name, len(decl.Params), len(args))
	}
	if in.calling[decl.Name] {
		return runtimeErrorf(ErrRecursion, "%s calls itself", decl.Name)
	}
	for i, p := range decl.Params {
		if err := in.checkParam(decl.Name, p, args[i]); err != nil {
			return err
		}
	}

	in.calling[decl.Name] = true
	defer delete(in.calling, decl.Name)

	return in.isolated(func() error {
		for i, p := range decl.Params {
			in.scopes.Declare(p.Name, args[i])
		}
		return in.execBlock(decl.Body)
	})
}

// checkParam checks an argument against a formal parameter type.
func (in *Interpreter) checkParam(anim string, p Param, v Value) error {
	switch p.Type {
	case "int":
		_, err := v.expectInt(anim + ": " + p.Name)
		return err
	case "color":
		_, err := v.expectColor(anim + ": " + p.Name)
		return err
	case "vector":
		if v.Kind != ValueVector {
			return runtimeErrorf(ErrTypeMismatch, "%s: %s: expected vector, got %s", anim, p.Name, v.Kind)
		}
		return nil
	}

	if _, ok := in.types.Lookup(p.Type); !ok {
		return runtimeErrorf(ErrUnknownType, "%s: parameter %s has unknown type %q", anim, p.Name, p.Type)
	}
	e, err := v.expectEntity(anim + ": " + p.Name)
	if err != nil {
		return err
	}
	if e.TypeName() != p.Type {
		return runtimeErrorf(ErrTypeMismatch, "%s: %s: expected %s, got %s", anim, p.Name, p.Type, e.TypeName())
	}

	return nil
}

// execIf runs exactly one branch in a new scope.
func (in *Interpreter) execIf(st *If) error {
	ok, err := st.Cond.Eval(in.scopes)
	if err != nil {
		return err
	}

	branch := st.Else
	if ok {
		branch = st.Then
	}

	return in.scoped(func() error { return in.execBlock(branch) })
}

// execForEach runs the body once per collection element, in order.
func (in *Interpreter) execForEach(st *ForEach) error {
	v, ok := in.scopes.Resolve(st.Collection)
	if !ok {
		return runtimeErrorf(ErrUndefinedVariable, "undefined variable %q", st.Collection)
	}
	coll, ok := v.Entity.(*Composite)
	if v.Kind != ValueEntity || !ok {
		return runtimeErrorf(ErrTypeMismatch, "%s is not a collection", st.Collection)
	}

	for _, child := range coll.Children() {
		err := in.scoped(func() error {
			in.scopes.Declare(st.Var, EntityValue(child))
			return in.execBlock(st.Body)
		})
		if err != nil {
			return err
		}
	}

	return nil
}
