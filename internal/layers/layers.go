package layers

import (
	"github.com/hktrpg/PlanarAlly/internal/shape"
)

// Floor is a named rendering and physics plane holding an ordered set of layers.
type Floor struct {
	ID      int
	Name    string
	layers  []*Layer
	manager *Manager
}

// LayerConfig describes a layer to append to a floor.
type LayerConfig struct {
	Name           string
	IsGrid         bool
	PlayerVisible  bool
	PlayerEditable bool
	Selectable     bool
}

// AddLayer appends a layer on top of the floor's existing layers.
func (f *Floor) AddLayer(cfg LayerConfig) *Layer {
	l := &Layer{
		Name:           cfg.Name,
		Floor:          f,
		IsGrid:         cfg.IsGrid,
		PlayerVisible:  cfg.PlayerVisible,
		PlayerEditable: cfg.PlayerEditable,
		Selectable:     cfg.Selectable,
		manager:        f.manager,
	}
	f.layers = append(f.layers, l)
	return l
}

// Layer is an ordered collection of shapes within a floor. Slice order is
// draw order and is the index used in Shape.Order.Set messages.
type Layer struct {
	Name  string
	Floor *Floor

	IsGrid         bool
	PlayerVisible  bool
	PlayerEditable bool
	Selectable     bool

	shapes []*shape.Shape

	valid      bool
	lightValid bool
	manager    *Manager
}

// Layers returns the floor's layers in order.
func (f *Floor) Layers() []*Layer {
	return f.layers
}

// Layer looks up a layer by name.
func (f *Floor) Layer(name string) *Layer {
	for _, l := range f.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// GridLayer returns the floor's grid layer, or nil when it has none.
func (f *Floor) GridLayer() *Layer {
	for _, l := range f.layers {
		if l.IsGrid {
			return l
		}
	}
	return nil
}

// Shapes returns the layer's shapes in draw order.
func (l *Layer) Shapes() []*shape.Shape {
	return l.shapes
}

// Index returns the draw position of the shape with the given uuid, or -1.
func (l *Layer) Index(uuid string) int {
	for i, s := range l.shapes {
		if s.UUID == uuid {
			return i
		}
	}
	return -1
}

// Valid reports whether the layer is fully drawn.
func (l *Layer) Valid() bool {
	return l.valid
}

// LightValid reports whether the layer's lighting and vision state is current.
func (l *Layer) LightValid() bool {
	return l.lightValid
}

// Invalidate marks the layer for a redraw. Unless skipLight is set the
// lighting and vision state is marked stale as well.
func (l *Layer) Invalidate(skipLight bool) {
	l.valid = false
	if !skipLight {
		l.lightValid = false
	}
	if l.manager != nil {
		l.manager.notify(l, false)
	}
}

// InvalidateLight marks only the lighting and vision state as stale.
func (l *Layer) InvalidateLight() {
	l.lightValid = false
	if l.manager != nil {
		l.manager.notify(l, true)
	}
}

func (l *Layer) add(s *shape.Shape) {
	s.Floor = l.Floor.Name
	s.Layer = l.Name
	l.shapes = append(l.shapes, s)
}

func (l *Layer) remove(uuid string) *shape.Shape {
	i := l.Index(uuid)
	if i < 0 {
		return nil
	}
	s := l.shapes[i]
	l.shapes = append(l.shapes[:i], l.shapes[i+1:]...)
	return s
}

// moveTo places the shape at index, clamped to the layer bounds.
func (l *Layer) moveTo(uuid string, index int) bool {
	s := l.remove(uuid)
	if s == nil {
		return false
	}
	if index < 0 {
		index = 0
	}
	if index > len(l.shapes) {
		index = len(l.shapes)
	}
	l.shapes = append(l.shapes, nil)
	copy(l.shapes[index+1:], l.shapes[index:])
	l.shapes[index] = s
	return true
}
