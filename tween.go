package figura

import "math"

// Tween incrementally changes one attribute of an entity over time.
//
// Every tween keeps the ideal accumulated change and the change it has
// already applied, and only ever applies the difference. Several tweens on
// the same attribute therefore compose without losing or doubling any part
// of their totals.
type Tween interface {
	// Advance moves the tween forward by dt and reports completion.
	// The step that reaches the duration lands exactly on the target.
	Advance(e Entity, dt float64) bool
}

// timing tracks the elapsed time of a tween.
type timing struct {
	duration float64
	elapsed  float64
}

// step advances the clock and reports whether the duration is reached.
func (t *timing) step(dt float64) bool {
	t.elapsed += dt
	return t.elapsed >= t.duration
}

// rate returns total/duration, or zero for instantaneous tweens.
func (t *timing) rate(total float64) float64 {
	if t.duration <= 0 {
		return 0
	}

	return total / t.duration
}

// Move translates an entity by a fixed vector.
type Move struct {
	timing
	total    Vec2
	velocity Vec2
	ideal    Vec2
	applied  Vec2
}

// NewMove creates a translation by delta over duration time units.
func NewMove(delta Vec2, duration float64) *Move {
	m := &Move{timing: timing{duration: duration}, total: delta}
	m.velocity = Vec2{X: m.rate(delta.X), Y: m.rate(delta.Y)}
	return m
}

// Advance implements Tween.
func (m *Move) Advance(e Entity, dt float64) bool {
	done := m.step(dt)
	if done {
		m.ideal = m.total
	} else {
		m.ideal = m.ideal.Add(m.velocity.Mul(dt))
	}

	diff := m.ideal.Sub(m.applied)
	e.SetPosition(e.Position().Add(diff))
	m.applied = m.applied.Add(diff)
	return done
}

// Rotate turns an entity by a fixed number of degrees.
type Rotate struct {
	timing
	total    float64
	velocity float64
	ideal    float64
	applied  float64
}

// NewRotate creates a rotation by degrees over duration time units.
func NewRotate(degrees, duration float64) *Rotate {
	r := &Rotate{timing: timing{duration: duration}, total: degrees}
	r.velocity = r.rate(degrees)
	return r
}

// Advance implements Tween.
func (r *Rotate) Advance(e Entity, dt float64) bool {
	done := r.step(dt)
	if done {
		r.ideal = r.total
	} else {
		r.ideal += r.velocity * dt
	}

	diff := r.ideal - r.applied
	e.SetRotation(e.Rotation() + diff)
	r.applied += diff
	return done
}

// Scale multiplies an entity's own scale by a factor. The change is
// computed from the scale at construction and applied additively.
type Scale struct {
	timing
	total    float64
	velocity float64
	ideal    float64
	applied  float64
}

// NewScale creates a scaling from start to start*factor over duration time units.
func NewScale(factor, start, duration float64) *Scale {
	s := &Scale{timing: timing{duration: duration}, total: (factor - 1) * start}
	s.velocity = s.rate(s.total)
	return s
}

// Advance implements Tween.
func (s *Scale) Advance(e Entity, dt float64) bool {
	done := s.step(dt)
	if done {
		s.ideal = s.total
	} else {
		s.ideal += s.velocity * dt
	}

	diff := s.ideal - s.applied
	e.SetScale(e.Scale() + diff)
	s.applied += diff
	return done
}

// colorTween shifts color channels by whole steps.
// Fractions stay in the ideal accumulator until they add up to a step.
type colorTween struct {
	timing
	total    [4]int
	velocity [4]float64
	ideal    [4]float64
	applied  [4]int
}

// newColorTween prepares a color shift by total.
func newColorTween(total ColorDelta, duration float64) colorTween {
	t := colorTween{timing: timing{duration: duration}}
	t.total = [4]int{total.R, total.G, total.B, total.A}
	for i, v := range t.total {
		t.velocity[i] = t.rate(float64(v))
	}

	return t
}

// advance implements the shared part of Stain and Show.
func (t *colorTween) advance(e Entity, dt float64) bool {
	done := t.step(dt)
	var diff [4]int
	for i := range t.ideal {
		if done {
			t.ideal[i] = float64(t.total[i])
		} else {
			t.ideal[i] += t.velocity[i] * dt
		}
		diff[i] = int(math.Trunc(t.ideal[i])) - t.applied[i]
		t.applied[i] += diff[i]
	}

	d := ColorDelta{R: diff[0], G: diff[1], B: diff[2], A: diff[3]}
	if !d.IsZero() {
		e.SetFillColor(e.FillColor().Add(d))
	}

	return done
}

// Stain recolors an entity towards a destination color. Alpha is kept.
type Stain struct {
	colorTween
}

// NewStain creates a recolor from the current color to dst.
func NewStain(from, dst Color, duration float64) *Stain {
	d := dst.Sub(from)
	d.A = 0
	return &Stain{colorTween: newColorTween(d, duration)}
}

// Advance implements Tween.
func (s *Stain) Advance(e Entity, dt float64) bool {
	return s.advance(e, dt)
}

// Show fades an entity towards a destination opacity.
type Show struct {
	colorTween
}

// NewShow creates a fade from the current alpha to alpha.
func NewShow(from Color, alpha uint8, duration float64) *Show {
	return &Show{colorTween: newColorTween(ColorDelta{A: int(alpha) - int(from.A)}, duration)}
}

// Advance implements Tween.
func (s *Show) Advance(e Entity, dt float64) bool {
	return s.advance(e, dt)
}
