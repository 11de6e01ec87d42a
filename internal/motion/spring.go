// Package motion eases rendered values towards the target snapshots the
// card produces. Nothing in here feeds back into gesture classification.
package motion

import (
	"math"
	"time"

	"github.com/laureanodiez/tarjeta/internal/card"
)

// Spring is a damped spring. The zero value is replaced by DefaultSpring.
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// DefaultSpring matches the card's entrance animation.
var DefaultSpring = Spring{Stiffness: 70, Damping: 15, Mass: 1}

const (
	restDelta    = 0.01
	restVelocity = 0.01
	maxStep      = time.Second / 120
)

// Value is one animated scalar.
type Value struct {
	Current  float64
	Target   float64
	Velocity float64
}

// Step advances v by dt, subdividing long frames so the integration stays
// stable.
func (s Spring) Step(v *Value, dt time.Duration) {
	if s.Mass == 0 {
		s = DefaultSpring
	}
	for dt > 0 {
		h := min(dt, maxStep)
		dt -= h
		sec := h.Seconds()
		force := -s.Stiffness*(v.Current-v.Target) - s.Damping*v.Velocity
		v.Velocity += force / s.Mass * sec
		v.Current += v.Velocity * sec
	}
	if settled(*v) {
		v.Current = v.Target
		v.Velocity = 0
	}
}

func settled(v Value) bool {
	return math.Abs(v.Current-v.Target) < restDelta && math.Abs(v.Velocity) < restVelocity
}

// Animator eases every field of a card pose.
type Animator struct {
	spring Spring
	values [6]Value
}

// NewAnimator starts at the given pose.
func NewAnimator(spring Spring, start card.Pose) *Animator {
	a := &Animator{spring: spring}
	for i, v := range fields(start) {
		a.values[i] = Value{Current: v, Target: v}
	}
	return a
}

// SetTarget retargets the animation without resetting velocity.
func (a *Animator) SetTarget(target card.Pose) {
	for i, v := range fields(target) {
		a.values[i].Target = v
	}
}

// Step advances the animation by dt and returns the interpolated pose.
func (a *Animator) Step(dt time.Duration) card.Pose {
	for i := range a.values {
		a.spring.Step(&a.values[i], dt)
	}
	return a.Current()
}

// Current returns the interpolated pose.
func (a *Animator) Current() card.Pose {
	return card.Pose{
		RotateX:    a.values[0].Current,
		RotateY:    a.values[1].Current,
		RotateZ:    a.values[2].Current,
		TranslateX: a.values[3].Current,
		TranslateY: a.values[4].Current,
		Scale:      a.values[5].Current,
	}
}

// Settled reports whether every field has reached its target.
func (a *Animator) Settled() bool {
	for _, v := range a.values {
		if !settled(v) {
			return false
		}
	}
	return true
}

func fields(p card.Pose) [6]float64 {
	return [6]float64{p.RotateX, p.RotateY, p.RotateZ, p.TranslateX, p.TranslateY, p.Scale}
}
