package figura

import (
	"fmt"
	"slices"
)

// Entity is a node of the scene graph.
// The set of implementations is closed: *Shape and *Composite.
type Entity interface {
	Name() string
	SetName(name string)
	// TypeName is the registered type the entity was cloned from.
	TypeName() string
	setTypeName(name string)

	Position() Vec2
	SetPosition(p Vec2)
	Rotation() float64
	SetRotation(deg float64)
	// Scale is the entity's own scale factor.
	Scale() float64
	SetScale(s float64)
	// ParentScale is the factor inherited from enclosing composites.
	ParentScale() float64
	SetParentScale(s float64)
	FillColor() Color
	SetFillColor(c Color)

	Draw(c Canvas)
	Update(dt float64)
	AddTween(t Tween)
	ActiveTweens() int

	// Clone returns a deep copy without active tweens.
	Clone() Entity
}

// tweenList is the set of active tweens owned by an entity.
type tweenList struct {
	tweens []Tween
}

// AddTween registers a tween.
func (l *tweenList) AddTween(t Tween) {
	l.tweens = append(l.tweens, t)
}

// ActiveTweens returns the number of unfinished tweens.
func (l *tweenList) ActiveTweens() int {
	return len(l.tweens)
}

// advance steps every tween backward and drops finished ones.
func (l *tweenList) advance(e Entity, dt float64) {
	for i := len(l.tweens) - 1; i >= 0; i-- {
		if l.tweens[i].Advance(e, dt) {
			l.tweens = slices.Delete(l.tweens, i, i+1)
		}
	}
}

// Shape is a primitive entity (line or circle).
type Shape struct {
	tweenList
	kind        ShapeKind
	name        string
	typeName    string
	pos         Vec2
	size        Vec2
	rotation    float64
	scale       float64
	parentScale float64
	color       Color
}

// NewShape creates a primitive at pos with the given size.
func NewShape(kind ShapeKind, name string, pos, size Vec2) *Shape {
	return &Shape{
		kind:        kind,
		name:        name,
		typeName:    string(kind),
		pos:         pos,
		size:        size,
		scale:       1,
		parentScale: 1,
		color:       Black,
	}
}

// Kind returns the primitive kind.
func (s *Shape) Kind() ShapeKind {
	return s.kind
}

// Size returns the unscaled geometry.
func (s *Shape) Size() Vec2 {
	return s.size
}

// Name returns the entity name.
func (s *Shape) Name() string {
	return s.name
}

// SetName renames the entity.
func (s *Shape) SetName(name string) {
	s.name = name
}

// TypeName returns the registered type the entity was cloned from.
func (s *Shape) TypeName() string {
	return s.typeName
}

// setTypeName records the registered type.
func (s *Shape) setTypeName(name string) {
	s.typeName = name
}

// Position returns the center of the entity.
func (s *Shape) Position() Vec2 {
	return s.pos
}

// SetPosition moves the shape.
func (s *Shape) SetPosition(p Vec2) {
	s.pos = p
}

// Rotation returns the rotation in degrees.
func (s *Shape) Rotation() float64 {
	return s.rotation
}

// SetRotation sets the rotation in degrees.
func (s *Shape) SetRotation(deg float64) {
	s.rotation = deg
}

// Scale returns the entity's own scale factor.
func (s *Shape) Scale() float64 {
	return s.scale
}

// SetScale sets the shape's own scale factor.
func (s *Shape) SetScale(v float64) {
	s.scale = v
}

// ParentScale returns the factor inherited from enclosing composites.
func (s *Shape) ParentScale() float64 {
	return s.parentScale
}

// SetParentScale stores the inherited factor.
func (s *Shape) SetParentScale(v float64) {
	s.parentScale = v
}

// FillColor returns the fill color.
func (s *Shape) FillColor() Color {
	return s.color
}

// SetFillColor sets the fill color.
func (s *Shape) SetFillColor(c Color) {
	s.color = c
}

// Update advances the shape's tweens.
func (s *Shape) Update(dt float64) {
	s.advance(s, dt)
}

// String formats the entity as "type name".
func (s *Shape) String() string {
	return fmt.Sprintf("%s %s", s.typeName, s.name)
}

// Draw hands the shape to the canvas.
func (s *Shape) Draw(c Canvas) {
	c.DrawPrimitive(Primitive{
		Kind:     s.kind,
		Name:     s.name,
		Position: s.pos,
		Size:     s.size,
		Rotation: s.rotation,
		Scale:    s.scale * s.parentScale,
		Color:    s.color,
	})
}

// Clone implements Entity.
func (s *Shape) Clone() Entity {
	out := *s
	out.tweenList = tweenList{}
	return &out
}

// Composite owns an ordered list of children and propagates transform
// changes to them.
type Composite struct {
	tweenList
	name        string
	typeName    string
	children    []Entity
	pos         Vec2
	rotation    float64
	scale       float64
	parentScale float64
	color       Color
}

// NewComposite creates an empty composite at pos.
func NewComposite(name, typeName string, pos Vec2) *Composite {
	return &Composite{
		name:        name,
		typeName:    typeName,
		pos:         pos,
		scale:       1,
		parentScale: 1,
		color:       Black,
	}
}

// Name returns the entity name.
func (c *Composite) Name() string {
	return c.name
}

// SetName renames the entity.
func (c *Composite) SetName(name string) {
	c.name = name
}

// TypeName returns the registered type the entity was cloned from.
func (c *Composite) TypeName() string {
	return c.typeName
}

// setTypeName records the registered type.
func (c *Composite) setTypeName(name string) {
	c.typeName = name
}

// Position returns the center of the entity.
func (c *Composite) Position() Vec2 {
	return c.pos
}

// Rotation returns the rotation in degrees.
func (c *Composite) Rotation() float64 {
	return c.rotation
}

// Scale returns the entity's own scale factor.
func (c *Composite) Scale() float64 {
	return c.scale
}

// ParentScale returns the factor inherited from enclosing composites.
func (c *Composite) ParentScale() float64 {
	return c.parentScale
}

// FillColor returns the fill color.
func (c *Composite) FillColor() Color {
	return c.color
}

// String formats the entity as "type name".
func (c *Composite) String() string {
	return fmt.Sprintf("%s %s", c.typeName, c.name)
}

// Len returns the number of children.
func (c *Composite) Len() int { return len(c.children) }

// Add appends a child. The composite becomes its only owner and pushes its
// effective scale down to it.
func (c *Composite) Add(e Entity) {
	e.SetParentScale(c.scale * c.parentScale)
	c.children = append(c.children, e)
}

// Children returns a snapshot of the children in order.
func (c *Composite) Children() []Entity {
	return slices.Clone(c.children)
}

// Child returns the i-th child.
func (c *Composite) Child(i int) (Entity, error) {
	if i < 0 || i >= len(c.children) {
		return nil, fmt.Errorf("index %d out of range [0,%d)", i, len(c.children))
	}

	return c.children[i], nil
}

// replace puts e in the slot of old. It reports whether old was a child.
func (c *Composite) replace(old, e Entity) bool {
	i := slices.Index(c.children, old)
	if i < 0 {
		return false
	}

	e.SetParentScale(c.scale * c.parentScale)
	c.children[i] = e
	return true
}

// ChildNamed returns the first child with the given name or nil.
func (c *Composite) ChildNamed(name string) Entity {
	for _, e := range c.children {
		if e.Name() == name {
			return e
		}
	}

	return nil
}

// SetPosition moves every child by the same delta.
func (c *Composite) SetPosition(p Vec2) {
	delta := p.Sub(c.pos)
	for _, e := range c.children {
		e.SetPosition(e.Position().Add(delta))
	}
	c.pos = p
}

// SetRotation rotates every child by the same delta.
func (c *Composite) SetRotation(deg float64) {
	delta := deg - c.rotation
	for _, e := range c.children {
		e.SetRotation(e.Rotation() + delta)
	}
	c.rotation = deg
}

// SetFillColor shifts every child color by the same delta.
func (c *Composite) SetFillColor(col Color) {
	delta := col.Sub(c.color)
	if !delta.IsZero() {
		for _, e := range c.children {
			e.SetFillColor(e.FillColor().Add(delta))
		}
	}
	c.color = col
}

// SetScale stores the new scale and pushes the combined factor to children.
func (c *Composite) SetScale(v float64) {
	c.scale = v
	for _, e := range c.children {
		e.SetParentScale(c.scale * c.parentScale)
	}
}

// SetParentScale stores the inherited factor and pushes it further down.
func (c *Composite) SetParentScale(v float64) {
	c.parentScale = v
	for _, e := range c.children {
		e.SetParentScale(c.scale * c.parentScale)
	}
}

// Draw draws every child in order.
func (c *Composite) Draw(cv Canvas) {
	for _, e := range c.children {
		e.Draw(cv)
	}
}

// Update advances the composite's tweens, then its children's.
func (c *Composite) Update(dt float64) {
	c.advance(c, dt)
	for _, e := range c.children {
		e.Update(dt)
	}
}

// Clone implements Entity. Children are cloned recursively.
func (c *Composite) Clone() Entity {
	out := *c
	out.tweenList = tweenList{}
	out.children = make([]Entity, 0, len(c.children))
	for _, e := range c.children {
		out.children = append(out.children, e.Clone())
	}

	return &out
}

// readAttribute reads a built-in attribute of an entity.
func readAttribute(e Entity, name string) (Value, bool) {
	switch name {
	case "x":
		return IntValue(roundInt(e.Position().X)), true
	case "y":
		return IntValue(roundInt(e.Position().Y)), true
	case "position":
		return VectorValue(e.Position()), true
	case "rotation":
		return IntValue(roundInt(e.Rotation())), true
	case "scale":
		return IntValue(roundInt(e.Scale() * 100)), true
	case "color":
		return ColorValue(e.FillColor()), true
	case "alpha":
		return IntValue(int(e.FillColor().A)), true
	case "count":
		if c, ok := e.(*Composite); ok {
			return IntValue(c.Len()), true
		}
	}

	return Value{}, false
}

// writeAttribute writes a built-in attribute of an entity.
func writeAttribute(e Entity, name string, v Value) error {
	switch name {
	case "x":
		x, err := v.expectInt(name)
		if err != nil {
			return err
		}
		e.SetPosition(Vec2{X: float64(x), Y: e.Position().Y})
	case "y":
		y, err := v.expectInt(name)
		if err != nil {
			return err
		}
		e.SetPosition(Vec2{X: e.Position().X, Y: float64(y)})
	case "position":
		if v.Kind != ValueVector {
			return runtimeErrorf(ErrTypeMismatch, "position: expected vector, got %s", v.Kind)
		}
		e.SetPosition(v.Vec)
	case "rotation":
		deg, err := v.expectInt(name)
		if err != nil {
			return err
		}
		e.SetRotation(float64(deg))
	case "scale":
		pct, err := v.expectInt(name)
		if err != nil {
			return err
		}
		e.SetScale(float64(pct) / 100)
	case "color":
		col, err := v.expectColor(name)
		if err != nil {
			return err
		}
		col.A = e.FillColor().A
		e.SetFillColor(col)
	case "alpha":
		a, err := v.expectInt(name)
		if err != nil {
			return err
		}
		col := e.FillColor()
		col.A = clampChannel(a)
		e.SetFillColor(col)
	default:
		return runtimeErrorf(ErrUnknownMember, "%s has no assignable attribute %q", e.TypeName(), name)
	}

	return nil
}
