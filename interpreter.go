package figura

import (
	"context"
	"log/slog"
)

// maxFiresPerFrame bounds how often one timer may fire in a single frame.
const maxFiresPerFrame = 1000

// timer is a registered each-block.
type timer struct {
	body   []Statement
	period float64
	acc    float64
	line   int
	fired  uint64
}

// Interpreter executes programs against a live scene.
// It is not safe for concurrent use.
type Interpreter struct {
	canvas   Canvas
	log      *slog.Logger
	scopes   *Scopes
	types    *Registry
	anims    map[string]*AnimationDecl
	calling  map[string]bool
	building *Composite
	timers   []*timer
	opt      RunOptions
	frame    uint64
	elapsed  float64
}

// New creates an interpreter drawing on canvas. A nil canvas skips drawing.
func New(canvas Canvas, opt *RunOptions) *Interpreter {
	ropt := opt.normalize()
	return &Interpreter{
		canvas:  canvas,
		opt:     ropt,
		log:     ropt.Logger,
		scopes:  NewScopes(),
		types:   NewRegistry(&ropt),
		anims:   make(map[string]*AnimationDecl),
		calling: make(map[string]bool),
	}
}

// Load executes every top-level statement of the program once.
func (in *Interpreter) Load(p *Program) error {
	if p == nil {
		return nil
	}

	in.log.Debug("load program", "statements", p.Len())
	return in.Exec(p.Statements)
}

// Exec executes statements at top level. It stops at the first error.
func (in *Interpreter) Exec(stmts []Statement) error {
	return in.execBlock(stmts)
}

// Eval evaluates an expression in the current scope.
func (in *Interpreter) Eval(e *Expr) (Value, error) {
	return e.Eval(in.scopes)
}

// Scopes returns the scope stack.
func (in *Interpreter) Scopes() *Scopes { return in.scopes }

// Types returns the type registry.
func (in *Interpreter) Types() *Registry { return in.types }

// Frame returns the number of frames advanced so far.
func (in *Interpreter) Frame() uint64 { return in.frame }

// Elapsed returns the total time advanced so far.
func (in *Interpreter) Elapsed() float64 { return in.elapsed }

// Timers returns the number of registered each-blocks.
func (in *Interpreter) Timers() int { return len(in.timers) }

// Scene returns the entities bound in the global scope, in declaration order.
func (in *Interpreter) Scene() []Entity {
	var out []Entity
	seen := make(map[Entity]bool)
	for _, b := range in.scopes.Root() {
		if b.Value.Kind != ValueEntity || b.Value.Entity == nil || seen[b.Value.Entity] {
			continue
		}
		seen[b.Value.Entity] = true
		out = append(out, b.Value.Entity)
	}

	return out
}

// ActiveTweens returns the number of unfinished tweens in the scene.
func (in *Interpreter) ActiveTweens() int {
	n := 0
	for _, e := range in.Scene() {
		n += countTweens(e)
	}

	return n
}

// AdvanceFrame runs one frame: due timers, then every active tween, then
// the draw pass.
func (in *Interpreter) AdvanceFrame(dt float64) error {
	in.frame++
	in.elapsed += dt

	for _, t := range in.timers {
		if err := in.fire(t, dt); err != nil {
			return err
		}
	}

	scene := in.Scene()
	before := 0
	for _, e := range scene {
		before += countTweens(e)
	}
	after := 0
	for _, e := range scene {
		e.Update(dt)
		after += countTweens(e)
	}
	if before != after {
		in.log.Debug("tweens finished", "frame", in.frame, "finished", before-after, "active", after)
	}

	return in.draw(scene)
}

// Run advances frames with dt taken from clock until frames have been
// rendered, the clock fails or ctx is done. frames <= 0 runs until ctx is done.
func (in *Interpreter) Run(ctx context.Context, clock Clock, frames int) error {
	for n := 0; frames <= 0 || n < frames; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		dt, err := clock.Tick(ctx)
		if err != nil {
			return err
		}
		if err := in.AdvanceFrame(dt); err != nil {
			return err
		}
	}

	return nil
}

// fire runs a timer body once per elapsed period.
// A period of zero or less fires once per frame.
func (in *Interpreter) fire(t *timer, dt float64) error {
	runs := 1
	if t.period > 0 {
		t.acc += dt
		runs = int(t.acc / t.period)
		t.acc -= float64(runs) * t.period
		if runs > maxFiresPerFrame {
			in.log.Warn("timer falls behind, dropping firings",
				"line", t.line, "due", runs, "limit", maxFiresPerFrame)
			runs = maxFiresPerFrame
		}
	}

	for i := 0; i < runs; i++ {
		t.fired++
		in.log.Debug("timer fired", "line", t.line, "count", t.fired, "frame", in.frame)
		if err := in.isolated(func() error { return in.execBlock(t.body) }); err != nil {
			return err
		}
	}

	return nil
}

// draw hands every scene entity to the canvas.
func (in *Interpreter) draw(scene []Entity) error {
	if in.canvas == nil {
		return nil
	}

	fc, framed := in.canvas.(FrameCanvas)
	if framed {
		fc.BeginFrame(in.frame)
	}
	for _, e := range scene {
		e.Draw(in.canvas)
	}
	if framed {
		return fc.EndFrame()
	}

	return nil
}

// countTweens counts active tweens of e and its descendants.
func countTweens(e Entity) int {
	n := e.ActiveTweens()
	if c, ok := e.(*Composite); ok {
		for _, child := range c.children {
			n += countTweens(child)
		}
	}

	return n
}
