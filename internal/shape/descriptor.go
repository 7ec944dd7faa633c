package shape

import (
	"errors"
	"fmt"

	"github.com/hktrpg/PlanarAlly/internal/geom"
)

// ErrUnknownKind is returned when a descriptor carries an unrecognised type tag.
var ErrUnknownKind = errors.New("shape: unknown geometry kind")

// Descriptor is the flattened server representation of a shape, used in
// Shape.Add messages and in the clipboard.
type Descriptor struct {
	UUID     string    `json:"uuid"`
	Type     Kind      `json:"type_"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Angle    float64   `json:"angle"`
	Floor    string    `json:"floor"`
	Layer    string    `json:"layer"`
	Name     string    `json:"name,omitempty"`
	Trackers []Tracker `json:"trackers"`
	Auras    []Aura    `json:"auras"`
	Owners   []string  `json:"owners"`
	Labels   []string  `json:"labels"`

	W           float64     `json:"width,omitempty"`
	H           float64     `json:"height,omitempty"`
	R           float64     `json:"radius,omitempty"`
	X2          float64     `json:"x2,omitempty"`
	Y2          float64     `json:"y2,omitempty"`
	Vertices    [][]float64 `json:"vertices,omitempty"`
	OpenPolygon bool        `json:"open_polygon,omitempty"`
	LineWidth   float64     `json:"line_width,omitempty"`
	Src         string      `json:"src,omitempty"`
	Text        string      `json:"text,omitempty"`
	Font        string      `json:"font,omitempty"`
}

// Descriptor flattens the shape for the wire.
func (s *Shape) Descriptor() Descriptor {
	d := Descriptor{
		UUID:     s.UUID,
		Type:     s.Kind(),
		X:        s.RefPoint.X,
		Y:        s.RefPoint.Y,
		Angle:    s.Angle,
		Floor:    s.Floor,
		Layer:    s.Layer,
		Name:     s.Name,
		Trackers: append([]Tracker{}, s.Trackers...),
		Auras:    append([]Aura{}, s.Auras...),
		Owners:   append([]string{}, s.Owners...),
		Labels:   make([]string, 0, len(s.Labels)),
	}
	for _, l := range s.Labels {
		d.Labels = append(d.Labels, l.UUID)
	}

	switch v := s.Geometry.(type) {
	case *Rect:
		d.W, d.H = v.W, v.H
	case *AssetRect:
		d.W, d.H, d.Src = v.W, v.H, v.Src
	case *Circle:
		d.R = v.R
	case *CircularToken:
		d.R, d.Text, d.Font = v.R, v.Text, v.Font
	case *Line:
		d.X2, d.Y2, d.LineWidth = v.EndPoint.X, v.EndPoint.Y, v.LineWidth
	case *Polygon:
		d.OpenPolygon, d.LineWidth = v.OpenPolygon, v.LineWidth
		d.Vertices = make([][]float64, len(v.Vertices))
		for i, p := range v.Vertices {
			d.Vertices[i] = p.AsArray()
		}
	default:
		panic(unknownGeometry(s.Geometry))
	}
	return d
}

// FromDescriptor rebuilds a shape. Label uuids are resolved through labels;
// unknown label uuids are dropped.
func FromDescriptor(d Descriptor, labels map[string]*Label) (*Shape, error) {
	var g Geometry
	switch d.Type {
	case KindRect:
		g = &Rect{W: d.W, H: d.H}
	case KindAssetRect:
		g = &AssetRect{W: d.W, H: d.H, Src: d.Src}
	case KindCircle:
		g = &Circle{R: d.R}
	case KindCircularToken:
		g = &CircularToken{R: d.R, Text: d.Text, Font: d.Font}
	case KindLine:
		g = &Line{EndPoint: geom.GlobalPoint{X: d.X2, Y: d.Y2}, LineWidth: d.LineWidth}
	case KindPolygon:
		vertices := make([]geom.GlobalPoint, 0, len(d.Vertices))
		for _, p := range d.Vertices {
			if len(p) < 2 {
				return nil, fmt.Errorf("polygon %s: vertex needs two coordinates", d.UUID)
			}
			vertices = append(vertices, geom.GlobalPoint{X: p[0], Y: p[1]})
		}
		g = &Polygon{Vertices: vertices, OpenPolygon: d.OpenPolygon, LineWidth: d.LineWidth}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, d.Type)
	}

	s := &Shape{
		UUID:     d.UUID,
		Geometry: g,
		RefPoint: geom.GlobalPoint{X: d.X, Y: d.Y},
		Angle:    d.Angle,
		Floor:    d.Floor,
		Layer:    d.Layer,
		Name:     d.Name,
		Trackers: append([]Tracker(nil), d.Trackers...),
		Auras:    append([]Aura(nil), d.Auras...),
		Owners:   append([]string(nil), d.Owners...),
	}
	for _, id := range d.Labels {
		if l, ok := labels[id]; ok {
			s.Labels = append(s.Labels, l)
		}
	}
	return s, nil
}
