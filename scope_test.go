package figura

import "testing"

func TestScopeShadowing(t *testing.T) {
	s := NewScopes()
	s.Declare("x", IntValue(1))

	s.Push()
	s.Declare("x", IntValue(2))
	if v, ok := s.Resolve("x"); !ok || v.Int != 2 {
		t.Fatalf("expected inner binding, got %v", v)
	}

	s.Pop()
	if v, ok := s.Resolve("x"); !ok || v.Int != 1 {
		t.Fatalf("expected outer binding, got %v", v)
	}

	s.Push()
	s.Declare("y", IntValue(3))
	s.Pop()
	if _, ok := s.Resolve("y"); ok {
		t.Fatalf("y must be gone after pop")
	}
}

func TestScopeAssignTargetsResolvingScope(t *testing.T) {
	s := NewScopes()
	s.Declare("x", IntValue(1))
	s.Push()
	if !s.Assign("x", IntValue(5)) {
		t.Fatalf("assign failed")
	}
	s.Pop()

	if v, _ := s.Resolve("x"); v.Int != 5 {
		t.Fatalf("assignment must update the outer binding, got %v", v)
	}
	if s.Assign("missing", IntValue(1)) {
		t.Fatalf("assign to an unbound name must fail")
	}
}

func TestScopeRootOrderAndDepth(t *testing.T) {
	s := NewScopes()
	s.Declare("b", IntValue(1))
	s.Declare("a", IntValue(2))
	s.Declare("b", IntValue(3))
	s.Pop()

	if s.Depth() != 1 {
		t.Fatalf("root must never be popped")
	}

	root := s.Root()
	if len(root) != 2 || root[0].Name != "b" || root[1].Name != "a" || root[0].Value.Int != 3 {
		t.Fatalf("unexpected root bindings: %v", root)
	}
}

func TestScopeIsolate(t *testing.T) {
	s := NewScopes()
	s.Declare("global", IntValue(1))
	s.Push()
	s.Declare("local", IntValue(2))

	restore := s.isolate()
	if _, ok := s.Resolve("local"); ok {
		t.Fatalf("caller locals must not be visible")
	}
	if _, ok := s.Resolve("global"); !ok {
		t.Fatalf("globals must stay visible")
	}
	restore()

	if _, ok := s.Resolve("local"); !ok || s.Depth() != 2 {
		t.Fatalf("stack not restored")
	}
}

func TestRegistrySeeded(t *testing.T) {
	r := NewRegistry(nil)
	names := r.Names()
	if len(names) != 2 || names[0] != "line" || names[1] != "circle" {
		t.Fatalf("unexpected built-in types: %v", names)
	}

	line, ok := r.Lookup("line")
	if !ok {
		t.Fatalf("line not registered")
	}
	if s := line.(*Shape); s.Size() != (Vec2{X: 100, Y: 10}) || s.Position() != DefaultOrigin {
		t.Fatalf("unexpected line prototype: %v %v", s.Size(), s.Position())
	}
	if _, ok := r.Lookup("square"); ok {
		t.Fatalf("unexpected type")
	}

	r.Register("pair", NewComposite("pair", "", Vec2{}))
	if e, _ := r.Lookup("pair"); e.TypeName() != "pair" {
		t.Fatalf("registered prototype must carry its type name")
	}
}
