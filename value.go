package figura

import (
	"fmt"
	"strconv"
)

// ValueKind represents the kind of a runtime value.
type ValueKind int

const (
	// ValueInt indicates an integer.
	ValueInt ValueKind = iota
	// ValueColor indicates a color.
	ValueColor
	// ValueVector indicates a position vector.
	ValueVector
	// ValueEntity indicates a scene entity.
	ValueEntity
)

// String returns the kind name used in diagnostics and parameter types.
func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	case ValueColor:
		return "color"
	case ValueVector:
		return "vector"
	case ValueEntity:
		return "entity"
	default:
		return "value"
	}
}

// Value is the result of evaluating an expression.
type Value struct {
	Entity Entity    // Entity value
	Vec    Vec2      // Vector value
	Int    int       // Integer value
	Kind   ValueKind // Value kind
	Color  Color     // Color value
}

// IntValue wraps an integer.
func IntValue(i int) Value { return Value{Kind: ValueInt, Int: i} }

// ColorValue wraps a color.
func ColorValue(c Color) Value { return Value{Kind: ValueColor, Color: c} }

// VectorValue wraps a vector.
func VectorValue(v Vec2) Value { return Value{Kind: ValueVector, Vec: v} }

// EntityValue wraps an entity.
func EntityValue(e Entity) Value { return Value{Kind: ValueEntity, Entity: e} }

// String formats the value for diagnostics and the REPL.
func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.Itoa(v.Int)
	case ValueColor:
		return v.Color.Hex()
	case ValueVector:
		return fmt.Sprintf("(%g, %g)", v.Vec.X, v.Vec.Y)
	case ValueEntity:
		if v.Entity == nil {
			return "<nil>"
		}
		return fmt.Sprintf("%s %s", v.Entity.TypeName(), v.Entity.Name())
	default:
		return "<invalid>"
	}
}

// expectInt returns the integer or a type mismatch error.
func (v Value) expectInt(what string) (int, error) {
	if v.Kind != ValueInt {
		return 0, runtimeErrorf(ErrTypeMismatch, "%s: expected int, got %s", what, v.Kind)
	}

	return v.Int, nil
}

// expectEntity returns the entity or a type mismatch error.
func (v Value) expectEntity(what string) (Entity, error) {
	if v.Kind != ValueEntity || v.Entity == nil {
		return nil, runtimeErrorf(ErrTypeMismatch, "%s: expected entity, got %s", what, v.Kind)
	}

	return v.Entity, nil
}

// expectColor returns the color or a type mismatch error.
func (v Value) expectColor(what string) (Color, error) {
	if v.Kind != ValueColor {
		return Color{}, runtimeErrorf(ErrTypeMismatch, "%s: expected color, got %s", what, v.Kind)
	}

	return v.Color, nil
}
