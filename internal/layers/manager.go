package layers

import (
	"github.com/hktrpg/PlanarAlly/internal/shape"
)

// Logger defines the logging interface used by the Manager.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Renderer is notified whenever a layer is invalidated. The painting
// pipeline implements it; the manager itself only tracks flags.
type Renderer interface {
	LayerInvalidated(layer *Layer, lightOnly bool)
}

// Manager owns the floors of the active location and the uuid index over
// every shape on them.
//
// Like the scene store that drives it, the manager is not safe for
// concurrent use; all calls must come from the goroutine that owns the scene.
type Manager struct {
	floors   []*Floor
	shapes   map[string]*shape.Shape
	nextID   int
	renderer Renderer
	logger   Logger
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		shapes: make(map[string]*shape.Shape),
		nextID: 1,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// SetRenderer registers the invalidation listener.
func (m *Manager) SetRenderer(r Renderer) {
	m.renderer = r
}

// AddFloor appends a new, empty floor.
func (m *Manager) AddFloor(name string) *Floor {
	f := &Floor{ID: m.nextID, Name: name, manager: m}
	m.nextID++
	m.floors = append(m.floors, f)
	return f
}

// Floors returns the floors in order.
func (m *Manager) Floors() []*Floor {
	return m.floors
}

// Floor looks up a floor by name.
func (m *Manager) Floor(name string) *Floor {
	for _, f := range m.floors {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Layer resolves a floor/layer name pair.
func (m *Manager) Layer(floor, layer string) *Layer {
	f := m.Floor(floor)
	if f == nil {
		return nil
	}
	return f.Layer(layer)
}

// GridLayer returns the grid layer of f.
func (m *Manager) GridLayer(f *Floor) *Layer {
	return f.GridLayer()
}

// Shape looks up a shape by uuid.
func (m *Manager) Shape(uuid string) (*shape.Shape, bool) {
	s, ok := m.shapes[uuid]
	return s, ok
}

// Shapes returns every shape on every floor, in floor, layer and draw order.
func (m *Manager) Shapes() []*shape.Shape {
	out := make([]*shape.Shape, 0, len(m.shapes))
	for _, f := range m.floors {
		for _, l := range f.layers {
			out = append(out, l.shapes...)
		}
	}
	return out
}

// ShapeCount returns the number of indexed shapes.
func (m *Manager) ShapeCount() int {
	return len(m.shapes)
}

// LayerOf returns the layer currently holding s.
func (m *Manager) LayerOf(s *shape.Shape) *Layer {
	return m.Layer(s.Floor, s.Layer)
}

// AddShape appends s to the given layer. It reports false when the uuid is
// already indexed.
func (m *Manager) AddShape(s *shape.Shape, l *Layer) bool {
	if _, exists := m.shapes[s.UUID]; exists {
		m.logger.Debug("shape already present", "uuid", s.UUID)
		return false
	}
	l.add(s)
	m.shapes[s.UUID] = s
	l.Invalidate(!isLightRelevant(s))
	return true
}

// RemoveShape drops the shape from its layer and the index.
func (m *Manager) RemoveShape(uuid string) *shape.Shape {
	s, ok := m.shapes[uuid]
	if !ok {
		return nil
	}
	if l := m.LayerOf(s); l != nil {
		l.remove(uuid)
		l.Invalidate(!isLightRelevant(s))
	}
	delete(m.shapes, uuid)
	return s
}

// MoveToLayer moves the shape onto target, appending it at the top.
func (m *Manager) MoveToLayer(uuid string, target *Layer) bool {
	s, ok := m.shapes[uuid]
	if !ok {
		return false
	}
	source := m.LayerOf(s)
	if source == target {
		return true
	}
	if source != nil {
		source.remove(uuid)
		source.Invalidate(false)
	}
	target.add(s)
	target.Invalidate(false)
	return true
}

// MoveToFloor moves the shape onto the same-named layer of target.
func (m *Manager) MoveToFloor(uuid string, target *Floor) bool {
	s, ok := m.shapes[uuid]
	if !ok {
		return false
	}
	l := target.Layer(s.Layer)
	if l == nil {
		m.logger.Warn("target floor has no matching layer", "floor", target.Name, "layer", s.Layer)
		return false
	}
	return m.MoveToLayer(uuid, l)
}

// SetOrder moves the shape to index within its layer.
func (m *Manager) SetOrder(uuid string, index int) bool {
	s, ok := m.shapes[uuid]
	if !ok {
		return false
	}
	l := m.LayerOf(s)
	if l == nil || !l.moveTo(uuid, index) {
		return false
	}
	l.Invalidate(true)
	return true
}

// InvalidateShape marks the layer holding s for a redraw, including
// lighting when s blocks vision or emits light.
func (m *Manager) InvalidateShape(s *shape.Shape) {
	if l := m.LayerOf(s); l != nil {
		l.Invalidate(!isLightRelevant(s))
	}
}

// InvalidateAllFloors forces every layer of every floor to redraw and
// recompute lighting.
func (m *Manager) InvalidateAllFloors() {
	for _, f := range m.floors {
		m.InvalidateFloor(f)
	}
}

// InvalidateFloor forces every layer of f to redraw and recompute lighting.
func (m *Manager) InvalidateFloor(f *Floor) {
	for _, l := range f.layers {
		l.Invalidate(false)
	}
}

// InvalidateLightAllFloors marks lighting and vision stale everywhere
// without forcing a full redraw.
func (m *Manager) InvalidateLightAllFloors() {
	for _, f := range m.floors {
		for _, l := range f.layers {
			l.InvalidateLight()
		}
	}
}

// MarkDrawn is called by the painter once every layer has been redrawn.
func (m *Manager) MarkDrawn() {
	for _, f := range m.floors {
		for _, l := range f.layers {
			l.valid = true
			l.lightValid = true
		}
	}
}

// Clear drops every floor and shape.
func (m *Manager) Clear() {
	m.floors = nil
	m.shapes = make(map[string]*shape.Shape)
	m.nextID = 1
}

func (m *Manager) notify(l *Layer, lightOnly bool) {
	if m.renderer != nil {
		m.renderer.LayerInvalidated(l, lightOnly)
	}
}

// isLightRelevant reports whether s can block vision or emit light, in
// which case adding or removing it must refresh lighting.
func isLightRelevant(s *shape.Shape) bool {
	for _, a := range s.Auras {
		if a.LightSource {
			return true
		}
	}
	return s.Kind() == shape.KindPolygon || s.Kind() == shape.KindLine
}
