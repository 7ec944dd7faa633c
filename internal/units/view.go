// Package units converts between world space and screen space.
//
// A View carries the pan offset, the zoom dial and the grid size of the
// current client. All conversions are pure functions of that state; the
// viewport dimensions are passed in explicitly wherever they matter.
package units

import (
	"math"

	"github.com/hktrpg/PlanarAlly/internal/geom"
)

// DefaultGridSize is the grid cell size, in world units, that zoom factors are normalised against.
const DefaultGridSize = 50

// DefaultZoomDisplay is the initial zoom dial position; it maps to a zoom factor of 1.
const DefaultZoomDisplay = 0.5

// Zoom curve anchors: the factor at dial 0, 0.5 and 1.
const (
	zoomLower = 0.1
	zoomMid   = 1.0
	zoomUpper = 3.9
)

// Viewport is the size of the drawing surface in screen pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// Center returns the middle of the viewport as a displacement from its top-left corner.
func (v Viewport) Center() geom.Vector {
	return geom.Vector{X: v.Width / 2, Y: v.Height / 2}
}

// View is the pan/zoom state of a client.
type View struct {
	PanX        float64
	PanY        float64
	ZoomDisplay float64
	GridSize    float64
}

// NewView returns a view at the origin with the default zoom and grid size.
func NewView() View {
	return View{
		ZoomDisplay: DefaultZoomDisplay,
		GridSize:    DefaultGridSize,
	}
}

// ZoomValue maps the normalised zoom dial onto the exponential curve
// passing through (0, 0.1), (0.5, 1) and (1, 3.9).
func ZoomValue(display float64) float64 {
	denom := zoomLower - 2*zoomMid + zoomUpper
	a := (zoomLower*zoomUpper - zoomMid*zoomMid) / denom
	b := (zoomMid - zoomLower) * (zoomMid - zoomLower) / denom
	c := 2 * math.Log((zoomUpper-zoomMid)/(zoomMid-zoomLower))
	return a + b*math.Exp(c*display)
}

// ClampZoom restricts a zoom dial value to [0, 1].
func ClampZoom(display float64) float64 {
	if display < 0 {
		return 0
	}
	if display > 1 {
		return 1
	}
	return display
}

// ZoomFactor is the multiplicative scale applied to world coordinates.
// The grid-size ratio keeps a grid cell the same apparent size when the
// reference grid size changes.
func (v View) ZoomFactor() float64 {
	return ZoomValue(v.ZoomDisplay) * v.GridSize / DefaultGridSize
}

// G2L converts a world point to screen space.
func (v View) G2L(p geom.GlobalPoint) geom.LocalPoint {
	z := v.ZoomFactor()
	return geom.LocalPoint{X: (p.X + v.PanX) * z, Y: (p.Y + v.PanY) * z}
}

// L2G converts a screen point to world space.
func (v View) L2G(p geom.LocalPoint) geom.GlobalPoint {
	z := v.ZoomFactor()
	return geom.GlobalPoint{X: p.X/z - v.PanX, Y: p.Y/z - v.PanY}
}

// G2Lz scales a world distance to screen pixels.
func (v View) G2Lz(d float64) float64 {
	return d * v.ZoomFactor()
}

// L2Gz scales a screen distance to world units.
func (v View) L2Gz(d float64) float64 {
	return d / v.ZoomFactor()
}

// L2GVector converts a screen displacement to a world displacement.
func (v View) L2GVector(d geom.Vector) geom.Vector {
	return d.Multiply(1 / v.ZoomFactor())
}

// ScreenTopLeft is the world point drawn at the top-left pixel.
func (v View) ScreenTopLeft() geom.GlobalPoint {
	return geom.GlobalPoint{X: -v.PanX, Y: -v.PanY}
}

// ScreenCenter is the world point drawn at the centre of vp.
func (v View) ScreenCenter(vp Viewport) geom.GlobalPoint {
	return v.L2G(v.G2L(v.ScreenTopLeft()).Add(vp.Center()))
}

// UpdateZoom moves the zoom dial while keeping anchor at the same screen
// position. The new value is clamped to [0, 1]; it returns false and leaves
// the view untouched when the clamped value equals the current one.
func (v *View) UpdateZoom(display float64, anchor geom.GlobalPoint) bool {
	display = ClampZoom(display)
	if display == v.ZoomDisplay {
		return false
	}
	local := v.G2L(anchor)
	v.ZoomDisplay = display
	shifted := v.L2G(local)
	diff := shifted.Subtract(anchor)
	v.PanX += diff.X
	v.PanY += diff.Y
	return true
}

// PanBy shifts the view by a screen-space drag, rounding to whole world units.
func (v *View) PanBy(delta geom.Vector) {
	distance := v.L2GVector(delta)
	v.PanX += math.Round(distance.X)
	v.PanY += math.Round(distance.Y)
}

// CenterOn returns the pan offset that puts p in the middle of vp at the
// current zoom dial and grid size.
func (v View) CenterOn(p geom.GlobalPoint, vp Viewport) (panX, panY float64) {
	z := ZoomValue(v.ZoomDisplay)
	nh := vp.Width / v.GridSize / z / 2
	nv := vp.Height / v.GridSize / z / 2
	return -p.X + nh*v.GridSize, -p.Y + nv*v.GridSize
}
