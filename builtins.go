package figura

import (
	"slices"
	"strings"
)

// builtin is an animation implemented by a tween constructor.
// The first parameter is always the animated entity.
type builtin struct {
	params []ValueKind
	start  func(e Entity, args []Value) Tween
}

// builtins are available unless a user animation has the same name.
var builtins = map[string]builtin{
	// move(e, dx, dy, ms)
	"move": {
		params: []ValueKind{ValueEntity, ValueInt, ValueInt, ValueInt},
		start: func(_ Entity, a []Value) Tween {
			return NewMove(Vec2{X: float64(a[1].Int), Y: float64(a[2].Int)}, float64(a[3].Int))
		},
	},
	// rotate(e, degrees, ms)
	"rotate": {
		params: []ValueKind{ValueEntity, ValueInt, ValueInt},
		start: func(_ Entity, a []Value) Tween {
			return NewRotate(float64(a[1].Int), float64(a[2].Int))
		},
	},
	// scale(e, percent, ms)
	"scale": {
		params: []ValueKind{ValueEntity, ValueInt, ValueInt},
		start: func(e Entity, a []Value) Tween {
			return NewScale(float64(a[1].Int)/100, e.Scale(), float64(a[2].Int))
		},
	},
	// stain(e, #rrggbb, ms)
	"stain": {
		params: []ValueKind{ValueEntity, ValueColor, ValueInt},
		start: func(e Entity, a []Value) Tween {
			return NewStain(e.FillColor(), a[1].Color, float64(a[2].Int))
		},
	},
	// show(e, alpha, ms)
	"show": {
		params: []ValueKind{ValueEntity, ValueInt, ValueInt},
		start: func(e Entity, a []Value) Tween {
			return NewShow(e.FillColor(), clampChannel(a[1].Int), float64(a[2].Int))
		},
	},
}

// Builtins returns the names of the built-in animations, sorted.
func Builtins() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	slices.Sort(out)

	return out
}

// builtinArity returns the parameter count of a builtin, or -1.
func builtinArity(name string) int {
	b, ok := builtins[name]
	if !ok {
		return -1
	}

	return len(b.params)
}

// callBuiltin checks arguments and attaches the tween to the entity.
func (in *Interpreter) callBuiltin(name string, b builtin, args []Value) error {
	if len(args) != len(b.params) {
		return runtimeErrorf(ErrArgumentCount, "%s expects %d arguments, got %d", name, len(b.params), len(args))
	}
	for i, want := range b.params {
		if args[i].Kind != want || (want == ValueEntity && args[i].Entity == nil) {
			return runtimeErrorf(ErrTypeMismatch, "%s: argument %d: expected %s, got %s", name, i+1, want, args[i].Kind)
		}
	}

	e := args[0].Entity
	e.AddTween(b.start(e, args))
	in.log.Debug("start tween", "animation", name, "target", e.Name(), "args", formatArgs(args[1:]))
	return nil
}

// formatArgs joins values for log output.
func formatArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}

	return strings.Join(parts, ", ")
}
