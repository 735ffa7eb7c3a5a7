package figura

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// recordCanvas remembers every primitive and frame boundary.
type recordCanvas struct {
	prims  []Primitive
	frames []uint64
	open   bool
}

func (c *recordCanvas) DrawPrimitive(p Primitive) { c.prims = append(c.prims, p) }
func (c *recordCanvas) BeginFrame(frame uint64) {
	c.frames = append(c.frames, frame)
	c.prims = c.prims[:0]
	c.open = true
}
func (c *recordCanvas) EndFrame() error {
	c.open = false
	return nil
}

// load parses and loads src into a fresh interpreter.
func load(t *testing.T, src string) (*Interpreter, error) {
	t.Helper()
	prog, err := Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	in := New(&recordCanvas{}, nil)
	return in, in.Load(prog)
}

// mustLoad is load that fails the test on runtime errors.
func mustLoad(t *testing.T, src string) *Interpreter {
	t.Helper()
	in, err := load(t, src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	return in
}

// evalInt evaluates an integer expression against the interpreter state.
func evalInt(t *testing.T, in *Interpreter, src string) int {
	t.Helper()
	e, err := ParseExpr(src, nil)
	if err != nil {
		t.Fatalf("parse %s: %v", src, err)
	}
	v, err := in.Eval(e)
	if err != nil {
		t.Fatalf("eval %s: %v", src, err)
	}
	if v.Kind != ValueInt {
		t.Fatalf("eval %s: expected int, got %s", src, v.Kind)
	}

	return v.Int
}

// expectErr checks a load error against its category and kind and line.
func expectErr(t *testing.T, err error, category, kind error, line int) {
	t.Helper()
	if !errors.Is(err, category) || !errors.Is(err, kind) {
		t.Fatalf("expected %v/%v, got %v", category, kind, err)
	}

	var e *Error
	if !errors.As(err, &e) || e.Line != line {
		t.Fatalf("expected line %d, got %v", line, err)
	}
}

func TestEndToEndBuiltinTypes(t *testing.T) {
	prog, err := DecodeFile(filepath.Join("testdata", "basic.fig"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rec := &recordCanvas{}
	in := New(rec, nil)
	if err := in.Load(prog); err != nil {
		t.Fatalf("load: %v", err)
	}

	scene := in.Scene()
	if len(scene) != 1 || scene[0].Name() != "a" {
		t.Fatalf("unexpected scene: %v", scene)
	}

	if err := in.AdvanceFrame(1000); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if scene[0].Scale() != 2 || in.ActiveTweens() != 0 {
		t.Fatalf("unexpected scale %v", scene[0].Scale())
	}
	if len(rec.prims) != 1 || rec.prims[0].Kind != ShapeCircle || rec.prims[0].Scale != 2 {
		t.Fatalf("unexpected draw calls: %v", rec.prims)
	}
	if len(rec.frames) != 1 || rec.frames[0] != 1 || rec.open {
		t.Fatalf("unexpected frames: %v", rec.frames)
	}
}

func TestUnknownType(t *testing.T) {
	_, err := load(t, "circle a;\nblob b;")
	expectErr(t, err, ErrRuntime, ErrUnknownType, 2)
}

func TestIfRunsExactlyOneBranch(t *testing.T) {
	in := mustLoad(t, "circle a;\nif (a.x > 1000) a.x = 1; else a.x = 2;")
	if got := evalInt(t, in, "a.x"); got != 2 {
		t.Fatalf("expected else branch, got x=%d", got)
	}

	in = mustLoad(t, "circle a;\nif (a.x == 400) { a.x = 1; } else { a.x = 2; }")
	if got := evalInt(t, in, "a.x"); got != 1 {
		t.Fatalf("expected then branch, got x=%d", got)
	}
}

func TestIfPopsScopeOnError(t *testing.T) {
	in, err := load(t, "if (1 == 1) {\n circle t;\n t.q = 1;\n}")
	expectErr(t, err, ErrRuntime, ErrUnknownMember, 3)
	if in.Scopes().Depth() != 1 {
		t.Fatalf("scope leaked: depth %d", in.Scopes().Depth())
	}
	if len(in.Scene()) != 0 {
		t.Fatalf("block-local entity must not be drawn")
	}
}

func TestCollectionLayout(t *testing.T) {
	in := mustLoad(t, "line row[3];")
	coll := in.Scene()[0].(*Composite)
	if coll.Len() != 3 || coll.TypeName() != "line" {
		t.Fatalf("unexpected collection: %d %s", coll.Len(), coll.TypeName())
	}

	for i, e := range coll.Children() {
		off := float64(30 * i)
		if e.Position() != DefaultOrigin.Add(Vec2{X: off, Y: off}) {
			t.Fatalf("element %d at %v", i, e.Position())
		}
	}
	if got := evalInt(t, in, "row.count"); got != 3 {
		t.Fatalf("unexpected count %d", got)
	}
	if got := evalInt(t, in, "row[2].y"); got != 360 {
		t.Fatalf("unexpected row[2].y %d", got)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	_, err := load(t, "circle dots[2];\ndots[2].x = 1;")
	expectErr(t, err, ErrRuntime, ErrIndexOutOfRange, 2)
}

func TestForEach(t *testing.T) {
	in := mustLoad(t, "circle dots[3];\nfor each d in dots { d.x = 7; d.alpha = 10; }")
	for _, e := range in.Scene()[0].(*Composite).Children() {
		if e.Position().X != 7 || e.FillColor().A != 10 {
			t.Fatalf("element %s not updated: %v %v", e.Name(), e.Position(), e.FillColor())
		}
	}
	if in.Scopes().Depth() != 1 {
		t.Fatalf("scope leaked")
	}
}

func TestEachTimer(t *testing.T) {
	in := mustLoad(t, "circle a;\neach 100 a.x = a.x + 1;")
	if in.Timers() != 1 {
		t.Fatalf("timer not registered")
	}

	if err := in.AdvanceFrame(250); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if got := evalInt(t, in, "a.x"); got != 402 {
		t.Fatalf("expected two firings, got x=%d", got)
	}

	if err := in.AdvanceFrame(50); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if got := evalInt(t, in, "a.x"); got != 403 {
		t.Fatalf("expected carry-over firing, got x=%d", got)
	}
}

func TestEachBodyScopeIsFresh(t *testing.T) {
	in := mustLoad(t, "each 10 { circle tmp; tmp.x = 1; }")
	for rep := 0; rep < 3; rep++ {
		if err := in.AdvanceFrame(10); err != nil {
			t.Fatalf("frame: %v", err)
		}
	}
	if len(in.Scene()) != 0 || in.Scopes().Depth() != 1 {
		t.Fatalf("timer locals leaked")
	}
}

func TestAnimationCalls(t *testing.T) {
	in := mustLoad(t, `circle a;
animation slide(circle c, int dx) { move(c, dx, 0, 100); }
a.slide(50);
slide(a, 10);
`)
	if err := in.AdvanceFrame(100); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if got := evalInt(t, in, "a.x"); got != 460 {
		t.Fatalf("expected both calls applied, got x=%d", got)
	}
}

func TestAnimationErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind error
		line int
	}{
		{"recursion", "circle a;\nanimation loop(circle c) {\n loop(c);\n}\nloop(a);", ErrRecursion, 3},
		{"argument count", "circle a;\nanimation f(circle c) { }\nf(a, 1);", ErrArgumentCount, 3},
		{"parameter type", "line l;\nanimation f(circle c) { }\nf(l);", ErrTypeMismatch, 3},
		{"unknown parameter type", "circle a;\nanimation f(blob c) { }\nf(a);", ErrUnknownType, 3},
		{"unknown animation", "circle a;\nfly(a);", ErrUnknownAnimation, 2},
		{"builtin arity", "circle a;\nmove(a, 1);", ErrArgumentCount, 2},
		{"builtin argument type", "circle a;\nstain(a, 1, 1);", ErrTypeMismatch, 2},
	}

	for _, tc := range tests {
		_, err := load(t, tc.src)
		if !errors.Is(err, tc.kind) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.kind, err)
		}

		var e *Error
		if !errors.As(err, &e) || e.Line != tc.line {
			t.Fatalf("%s: expected line %d, got %v", tc.name, tc.line, err)
		}
	}
}

func TestUserAnimationShadowsBuiltin(t *testing.T) {
	in := mustLoad(t, "circle a;\nanimation move(circle c, int x, int y, int ms) { c.x = 0; }\nmove(a, 1, 1, 1);")
	if got := evalInt(t, in, "a.x"); got != 0 {
		t.Fatalf("user animation not used, x=%d", got)
	}
}

func TestFigureBuildsComposite(t *testing.T) {
	in := mustLoad(t, `figure pair {
    circle left;
    circle right;
    right.x = right.x + 40;
}
pair p;
p.position = p.position;
`)
	if got := evalInt(t, in, "p.right.x - p.left.x"); got != 40 {
		t.Fatalf("unexpected offset %d", got)
	}
	if got := evalInt(t, in, "p.count"); got != 2 {
		t.Fatalf("unexpected child count %d", got)
	}
	if names := in.Types().Names(); len(names) != 3 || names[2] != "pair" {
		t.Fatalf("figure not registered: %v", names)
	}
	if len(in.Scene()) != 1 {
		t.Fatalf("figure body must not leak into the scene")
	}

	if err := in.Exec([]Statement{&Assign{
		stmtNode: node(kindAssign, 9),
		Target:   Path{{Name: "p"}, {Name: "x"}},
		Value:    &Expr{Sum: &SumExpr{Right: &ProductExpr{Right: IntLit{Value: 0}}}},
	}}); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if got := evalInt(t, in, "p.right.x"); got != 40 {
		t.Fatalf("composite move must keep offsets, right.x=%d", got)
	}
}

func TestRebindInsideFigure(t *testing.T) {
	in := mustLoad(t, `figure f {
    circle c;
    circle d;
    d.x = 10;
    c = d;
    c.y = 7;
}
f g;
`)
	if got := evalInt(t, in, "g.c.x"); got != 10 {
		t.Fatalf("rebound member not copied into the figure, g.c.x=%d", got)
	}
	if got := evalInt(t, in, "g.c.y"); got != 7 {
		t.Fatalf("write through rebound member lost, g.c.y=%d", got)
	}
	if got := evalInt(t, in, "g.d.y"); got != 300 {
		t.Fatalf("rebind must clone, g.d.y=%d", got)
	}
	if got := evalInt(t, in, "g.count"); got != 2 {
		t.Fatalf("unexpected child count %d", got)
	}
}

func TestAssignments(t *testing.T) {
	in := mustLoad(t, `circle a;
circle b;
b.x = 10;
a = b;
b.x = 20;
a.position.y = 5;
a.color = #ff0000;
a.scale = 50;
a.rotation = 90;
`)
	if got := evalInt(t, in, "a.x"); got != 10 {
		t.Fatalf("rebind must clone, a.x=%d", got)
	}
	if got := evalInt(t, in, "a.y"); got != 5 {
		t.Fatalf("position write-through failed, a.y=%d", got)
	}
	if got := evalInt(t, in, "a.scale + a.rotation"); got != 140 {
		t.Fatalf("unexpected scale/rotation sum %d", got)
	}
	if len(in.Scene()) != 2 {
		t.Fatalf("unexpected scene size %d", len(in.Scene()))
	}
}

func TestRuntimeArithmeticErrorHasLine(t *testing.T) {
	_, err := load(t, "circle a;\na.x = 1 / 0;")
	expectErr(t, err, ErrArithmetic, ErrDivisionByZero, 2)
}

func TestRunWithClock(t *testing.T) {
	in := mustLoad(t, "circle a;\nmove(a, 30, 0, 30);")
	rec := in.canvas.(*recordCanvas)

	clock := ClockFunc(func(context.Context) (float64, error) { return 10, nil })
	if err := in.Run(context.Background(), clock, 3); err != nil {
		t.Fatalf("run: %v", err)
	}
	if in.Frame() != 3 || in.Elapsed() != 30 || len(rec.frames) != 3 {
		t.Fatalf("unexpected frames: %d %v", in.Frame(), rec.frames)
	}
	if got := evalInt(t, in, "a.x"); got != 430 {
		t.Fatalf("unexpected x %d", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := in.Run(ctx, clock, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
