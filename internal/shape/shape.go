// Package shape defines the positioned entities that live on tabletop layers.
//
// A Shape pairs identity and placement (uuid, reference point, floor and
// layer membership) with a Geometry variant. Variant-specific fields are only
// reachable through a type switch on Geometry.
package shape

import (
	"github.com/google/uuid"

	"github.com/hktrpg/PlanarAlly/internal/geom"
)

// Shape is a positioned geometric entity.
//
// Shapes are owned by exactly one layer at a time; the uuid is unique across
// every floor of a location.
type Shape struct {
	UUID     string
	Geometry Geometry
	RefPoint geom.GlobalPoint
	Angle    float64

	Floor string
	Layer string

	Name     string
	Labels   []*Label
	Trackers []Tracker
	Auras    []Aura
	Owners   []string

	// PreventSync suppresses every outgoing synchronisation message for this shape.
	PreventSync bool
}

// Position is the wire representation of a shape's placement: an angle plus
// an ordered outline. It covers a point, a segment and a polygon alike.
type Position struct {
	Angle  float64     `json:"angle"`
	Points [][]float64 `json:"points"`
}

// NewUUID returns a fresh identifier for shapes, labels and notes.
func NewUUID() string {
	return uuid.New().String()
}

// New creates a shape with a fresh uuid.
func New(g Geometry, ref geom.GlobalPoint) *Shape {
	return &Shape{
		UUID:     NewUUID(),
		Geometry: g,
		RefPoint: ref,
	}
}

// Kind returns the geometry variant tag.
func (s *Shape) Kind() Kind {
	return s.Geometry.Kind()
}

// Points returns the outline in world space, starting at the reference point.
func (s *Shape) Points() []geom.GlobalPoint {
	switch v := s.Geometry.(type) {
	case *Rect, *AssetRect, *Circle, *CircularToken:
		return []geom.GlobalPoint{s.RefPoint}
	case *Line:
		return []geom.GlobalPoint{s.RefPoint, v.EndPoint}
	case *Polygon:
		points := make([]geom.GlobalPoint, 0, len(v.Vertices)+1)
		points = append(points, s.RefPoint)
		return append(points, v.Vertices...)
	default:
		panic(unknownGeometry(s.Geometry))
	}
}

// PositionRepresentation returns the placement sent in position updates.
func (s *Shape) PositionRepresentation() Position {
	points := s.Points()
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = p.AsArray()
	}
	return Position{Angle: s.Angle, Points: out}
}

// ApplyPosition is the inverse of PositionRepresentation. Outlines that do
// not carry enough points for the variant leave the geometry untouched.
func (s *Shape) ApplyPosition(pos Position) {
	if len(pos.Points) == 0 || len(pos.Points[0]) < 2 {
		return
	}
	s.Angle = pos.Angle
	s.RefPoint = geom.GlobalPoint{X: pos.Points[0][0], Y: pos.Points[0][1]}

	switch v := s.Geometry.(type) {
	case *Rect, *AssetRect, *Circle, *CircularToken:
	case *Line:
		if len(pos.Points) > 1 && len(pos.Points[1]) >= 2 {
			v.EndPoint = geom.GlobalPoint{X: pos.Points[1][0], Y: pos.Points[1][1]}
		}
	case *Polygon:
		vertices := make([]geom.GlobalPoint, 0, len(pos.Points)-1)
		for _, p := range pos.Points[1:] {
			if len(p) < 2 {
				continue
			}
			vertices = append(vertices, geom.GlobalPoint{X: p[0], Y: p[1]})
		}
		v.Vertices = vertices
	default:
		panic(unknownGeometry(s.Geometry))
	}
}

// MoveTo translates the whole shape so its reference point lands on p.
func (s *Shape) MoveTo(p geom.GlobalPoint) {
	delta := p.Subtract(s.RefPoint)
	s.RefPoint = p

	switch v := s.Geometry.(type) {
	case *Rect, *AssetRect, *Circle, *CircularToken:
	case *Line:
		v.EndPoint = v.EndPoint.Add(delta)
	case *Polygon:
		for i := range v.Vertices {
			v.Vertices[i] = v.Vertices[i].Add(delta)
		}
	default:
		panic(unknownGeometry(s.Geometry))
	}
}

// Scale multiplies the reference point and every variant dimension by factor.
func (s *Shape) Scale(factor float64) {
	s.RefPoint = s.RefPoint.Scale(factor)
	scaleGeometry(s.Geometry, factor)
}

// HasLabel reports whether l is attached to the shape.
func (s *Shape) HasLabel(l *Label) bool {
	return s.labelIndex(l) >= 0
}

// RemoveLabel detaches l and reports whether it was attached.
func (s *Shape) RemoveLabel(l *Label) bool {
	i := s.labelIndex(l)
	if i < 0 {
		return false
	}
	s.Labels = append(s.Labels[:i], s.Labels[i+1:]...)
	return true
}

func (s *Shape) labelIndex(l *Label) int {
	for i, candidate := range s.Labels {
		if candidate == l {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy. Label pointers are shared because labels are
// owned by the scene, not the shape.
func (s *Shape) Clone() *Shape {
	c := *s
	c.Geometry = cloneGeometry(s.Geometry)
	c.Labels = append([]*Label(nil), s.Labels...)
	c.Trackers = append([]Tracker(nil), s.Trackers...)
	c.Auras = append([]Aura(nil), s.Auras...)
	c.Owners = append([]string(nil), s.Owners...)
	return &c
}
