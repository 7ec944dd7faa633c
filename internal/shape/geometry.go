package shape

import (
	"fmt"

	"github.com/hktrpg/PlanarAlly/internal/geom"
)

// Kind is the wire tag of a geometry variant.
type Kind string

// Geometry variants. The string values match the "type_" field used by the server.
const (
	KindRect          Kind = "rect"
	KindAssetRect     Kind = "assetrect"
	KindCircle        Kind = "circle"
	KindCircularToken Kind = "circulartoken"
	KindPolygon       Kind = "polygon"
	KindLine          Kind = "line"
)

// Geometry is the closed set of shape variants.
//
// The unexported marker method seals the interface to this package. Every
// type switch over Geometry must name all six variants and end with a
// default that panics via unknownGeometry; gochecksumtype enforces the
// exhaustive part in CI.
//
//sumtype:decl
type Geometry interface {
	Kind() Kind
	isGeometry()
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	W float64
	H float64
}

// AssetRect is a rectangle that renders an uploaded image.
type AssetRect struct {
	W   float64
	H   float64
	Src string
}

// Circle is anchored at its centre.
type Circle struct {
	R float64
}

// CircularToken is a circle carrying a short text label.
type CircularToken struct {
	R    float64
	Text string
	Font string
}

// Polygon stores its vertices after the reference point. The reference
// point itself is the first vertex of the outline.
type Polygon struct {
	Vertices    []geom.GlobalPoint
	OpenPolygon bool
	LineWidth   float64
}

// Line runs from the shape's reference point to EndPoint.
type Line struct {
	EndPoint  geom.GlobalPoint
	LineWidth float64
}

// Kind returns KindRect.
func (*Rect) Kind() Kind { return KindRect }

// Kind returns KindAssetRect.
func (*AssetRect) Kind() Kind { return KindAssetRect }

// Kind returns KindCircle.
func (*Circle) Kind() Kind { return KindCircle }

// Kind returns KindCircularToken.
func (*CircularToken) Kind() Kind { return KindCircularToken }

// Kind returns KindPolygon.
func (*Polygon) Kind() Kind { return KindPolygon }

// Kind returns KindLine.
func (*Line) Kind() Kind { return KindLine }

func (*Rect) isGeometry()          {}
func (*AssetRect) isGeometry()     {}
func (*Circle) isGeometry()        {}
func (*CircularToken) isGeometry() {}
func (*Polygon) isGeometry()       {}
func (*Line) isGeometry()          {}

func unknownGeometry(g Geometry) string {
	return fmt.Sprintf("shape: unhandled geometry %T", g)
}

// scaleGeometry multiplies every variant-specific dimension by factor.
func scaleGeometry(g Geometry, factor float64) {
	switch v := g.(type) {
	case *Rect:
		v.W *= factor
		v.H *= factor
	case *AssetRect:
		v.W *= factor
		v.H *= factor
	case *Circle:
		v.R *= factor
	case *CircularToken:
		v.R *= factor
	case *Line:
		v.EndPoint = v.EndPoint.Scale(factor)
	case *Polygon:
		scaled := make([]geom.GlobalPoint, len(v.Vertices))
		for i, p := range v.Vertices {
			scaled[i] = p.Scale(factor)
		}
		v.Vertices = scaled
	default:
		panic(unknownGeometry(g))
	}
}

// cloneGeometry returns a deep copy of g.
func cloneGeometry(g Geometry) Geometry {
	switch v := g.(type) {
	case *Rect:
		c := *v
		return &c
	case *AssetRect:
		c := *v
		return &c
	case *Circle:
		c := *v
		return &c
	case *CircularToken:
		c := *v
		return &c
	case *Line:
		c := *v
		return &c
	case *Polygon:
		c := *v
		c.Vertices = append([]geom.GlobalPoint(nil), v.Vertices...)
		return &c
	default:
		panic(unknownGeometry(g))
	}
}
