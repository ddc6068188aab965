package arbor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 local-transform fields on one entity
// simultaneously. Create one via the convenience constructors (TweenPosition,
// TweenScale, TweenEulerAngles) and call Update(dt) each frame, typically
// from a system's Process. Values are written through the Transform's Set
// mutators, so dirty propagation happens automatically. If the target handle
// goes stale, the group stops immediately.
//
// There is no global animation manager — users call Update themselves.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	apply  func(*Transform, [3]float64)
	target Entity
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values to the
// target's Transform. If the target entity has been destroyed, Done is set to
// true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if !g.target.Valid() {
		g.Done = true
		return
	}

	var vals [3]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	g.apply(g.target.scene.transformOf(g.target), vals)
}

// TweenPosition creates a TweenGroup that animates the entity's local
// position to the given target over the specified duration using the easing
// function.
func TweenPosition(e Entity, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := e.Transform().Pos()
	g := &TweenGroup{count: 3, target: e}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	g.apply = func(t *Transform, v [3]float64) { t.SetPos(mgl64.Vec3(v)) }
	return g
}

// TweenScale creates a TweenGroup that animates the entity's local scale to
// the given target over the specified duration using the easing function.
func TweenScale(e Entity, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := e.Transform().Scale()
	g := &TweenGroup{count: 3, target: e}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	g.apply = func(t *Transform, v [3]float64) { t.SetScale(mgl64.Vec3(v)) }
	return g
}

// TweenEulerAngles creates a TweenGroup that animates the entity's local
// rotation between Euler angle triples in radians. The interpolation is
// per-angle, not spherical; for long arcs prefer driving SetRot with slerped
// quaternions from a system.
func TweenEulerAngles(e Entity, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := eulerFromQuat(e.Transform().Rot())
	g := &TweenGroup{count: 3, target: e}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	g.apply = func(t *Transform, v [3]float64) { t.SetEulerAnglesRad(mgl64.Vec3(v)) }
	return g
}
