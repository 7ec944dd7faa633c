// Package geom holds the two point spaces used by the tabletop client.
//
// GlobalPoint lives in world space (the coordinates stored on shapes and
// exchanged with the server). LocalPoint lives in screen space and only
// exists after the current pan and zoom have been applied. Keeping them as
// distinct types stops a screen coordinate from leaking into shape state.
package geom

import "math"

// GlobalPoint is a world-space coordinate.
type GlobalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LocalPoint is a screen-space coordinate.
type LocalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector is a displacement; it is valid in either space.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add translates the point by v.
func (p GlobalPoint) Add(v Vector) GlobalPoint {
	return GlobalPoint{X: p.X + v.X, Y: p.Y + v.Y}
}

// Subtract returns the vector pointing from q to p.
func (p GlobalPoint) Subtract(q GlobalPoint) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both coordinates by factor.
func (p GlobalPoint) Scale(factor float64) GlobalPoint {
	return GlobalPoint{X: p.X * factor, Y: p.Y * factor}
}

// AsArray returns the point as the [x, y] pair used on the wire.
func (p GlobalPoint) AsArray() []float64 {
	return []float64{p.X, p.Y}
}

// Add translates the point by v.
func (p LocalPoint) Add(v Vector) LocalPoint {
	return LocalPoint{X: p.X + v.X, Y: p.Y + v.Y}
}

// Subtract returns the vector pointing from q to p.
func (p LocalPoint) Subtract(q LocalPoint) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Length returns the euclidean length of v.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Multiply scales v by factor.
func (v Vector) Multiply(factor float64) Vector {
	return Vector{X: v.X * factor, Y: v.Y * factor}
}
