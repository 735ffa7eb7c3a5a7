package figura

import "context"

// ShapeKind names a drawable primitive.
type ShapeKind string

const (
	// ShapeLine is a thick straight segment centered on its position.
	ShapeLine ShapeKind = "line"
	// ShapeCircle is a filled circle centered on its position.
	ShapeCircle ShapeKind = "circle"
)

// Primitive describes one draw call handed to a Canvas.
type Primitive struct {
	Kind     ShapeKind `json:"kind" yaml:"kind"`         // Primitive kind
	Name     string    `json:"name" yaml:"name"`         // Entity name
	Position Vec2      `json:"position" yaml:"position"` // Center on the canvas
	Size     Vec2      `json:"size" yaml:"size"`         // Line length and thickness, or circle radius twice
	Rotation float64   `json:"rotation" yaml:"rotation"` // Rotation in degrees
	Scale    float64   `json:"scale" yaml:"scale"`       // Effective scale factor
	Color    Color     `json:"color" yaml:"color"`       // Fill color
}

// Canvas renders primitives. Implementations own every rendering resource;
// entities only carry logical state.
type Canvas interface {
	DrawPrimitive(p Primitive)
}

// FrameCanvas is a Canvas that wants to know where frames begin and end.
type FrameCanvas interface {
	Canvas
	BeginFrame(frame uint64)
	EndFrame() error
}

// Clock supplies the time elapsed since the previous frame in milliseconds.
type Clock interface {
	Tick(ctx context.Context) (float64, error)
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func(ctx context.Context) (float64, error)

// Tick implements Clock.
func (f ClockFunc) Tick(ctx context.Context) (float64, error) {
	return f(ctx)
}
