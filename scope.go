package figura

import "slices"

// Binding is a named value in a scope.
type Binding struct {
	Name  string
	Value Value
}

// scope maps names to values and remembers declaration order.
type scope struct {
	vars  map[string]Value
	names []string
}

func newScope() *scope {
	return &scope{vars: make(map[string]Value)}
}

// set binds name, keeping the original position on redeclaration.
func (s *scope) set(name string, v Value) {
	if _, ok := s.vars[name]; !ok {
		s.names = append(s.names, name)
	}
	s.vars[name] = v
}

// Scopes is a stack of lexical scopes, innermost last.
// The root scope is never popped.
type Scopes struct {
	stack []*scope
}

// NewScopes creates a stack holding only the root scope.
func NewScopes() *Scopes {
	return &Scopes{stack: []*scope{newScope()}}
}

// Push enters a new innermost scope.
func (s *Scopes) Push() {
	s.stack = append(s.stack, newScope())
}

// Pop leaves the innermost scope. Popping the root is a no-op.
func (s *Scopes) Pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Depth returns the number of scopes including the root.
func (s *Scopes) Depth() int {
	return len(s.stack)
}

// Declare binds name in the innermost scope, shadowing outer bindings.
func (s *Scopes) Declare(name string, v Value) {
	s.stack[len(s.stack)-1].set(name, v)
}

// Resolve searches innermost to outermost and returns the first hit.
func (s *Scopes) Resolve(name string) (Value, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if v, ok := s.stack[i].vars[name]; ok {
			return v, true
		}
	}

	return Value{}, false
}

// Assign rebinds name in the scope where it currently resolves.
// It reports false when the name is not bound anywhere.
func (s *Scopes) Assign(name string, v Value) bool {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if _, ok := s.stack[i].vars[name]; ok {
			s.stack[i].vars[name] = v
			return true
		}
	}

	return false
}

// Root returns the global bindings in declaration order.
func (s *Scopes) Root() []Binding {
	root := s.stack[0]
	out := make([]Binding, 0, len(root.names))
	for _, name := range root.names {
		out = append(out, Binding{Name: name, Value: root.vars[name]})
	}

	return out
}

// isolate replaces the stack with the root plus one fresh scope and returns
// a function restoring the previous stack. Animation and timer bodies run
// isolated so they never see the caller's locals.
func (s *Scopes) isolate() (restore func()) {
	saved := s.stack
	s.stack = []*scope{saved[0], newScope()}
	return func() { s.stack = saved }
}

// Registry maps type names to prototype entities.
type Registry struct {
	types map[string]Entity
	names []string
}

// NewRegistry creates a registry seeded with the built-in line and circle.
func NewRegistry(opt *RunOptions) *Registry {
	ropt := opt.normalize()
	r := &Registry{types: make(map[string]Entity)}
	r.Register(string(ShapeLine), NewShape(ShapeLine, string(ShapeLine), ropt.Origin,
		Vec2{X: ropt.LineLength, Y: ropt.LineThickness}))
	r.Register(string(ShapeCircle), NewShape(ShapeCircle, string(ShapeCircle), ropt.Origin,
		Vec2{X: 2 * ropt.CircleRadius, Y: 2 * ropt.CircleRadius}))

	return r
}

// Register stores a prototype under name, replacing any previous one.
func (r *Registry) Register(name string, proto Entity) {
	if _, ok := r.types[name]; !ok {
		r.names = append(r.names, name)
	}
	proto.setTypeName(name)
	r.types[name] = proto
}

// Lookup returns the prototype registered under name.
func (r *Registry) Lookup(name string) (Entity, bool) {
	e, ok := r.types[name]
	return e, ok
}

// Names returns the registered type names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}
