package figura

import "math"

// Vec2 is a point or displacement on the canvas.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Mul returns v scaled by k.
func (v Vec2) Mul(k float64) Vec2 { return Vec2{X: v.X * k, Y: v.Y * k} }

// roundInt rounds a float attribute to the integer the language sees.
func roundInt(f float64) int {
	return int(math.Round(f))
}
