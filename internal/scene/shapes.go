package scene

import (
	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/geom"
	"github.com/hktrpg/PlanarAlly/internal/shape"
)

// Shape looks up a shape by uuid on any floor.
func (s *Store) Shape(uuid string) (*shape.Shape, bool) {
	return s.layers.Shape(uuid)
}

// AddShape places sh on the floor and layer named by its Floor and Layer
// fields. Unknown layers and duplicate uuids are ignored.
func (s *Store) AddShape(sh *shape.Shape, sync bool, commit dispatch.Commit) bool {
	l := s.layers.Layer(sh.Floor, sh.Layer)
	if l == nil {
		s.logger.Debug("dropping shape for unknown layer", "uuid", sh.UUID, "floor", sh.Floor, "layer", sh.Layer)
		return false
	}
	if !s.layers.AddShape(sh, l) {
		return false
	}
	if sync {
		s.dispatch.ShapeAdd(sh, commit)
	}
	return true
}

// RemoveShapes deletes shapes by uuid. Unknown uuids are skipped; the
// removal of the remaining ones is sent as a single batch.
func (s *Store) RemoveShapes(uuids []string, sync bool, commit dispatch.Commit) {
	removed := make([]string, 0, len(uuids))
	for _, uuid := range uuids {
		sh := s.layers.RemoveShape(uuid)
		if sh == nil {
			continue
		}
		s.groups.Forget(uuid)
		if !sh.PreventSync {
			removed = append(removed, uuid)
		}
	}
	if sync {
		s.dispatch.RemoveShapes(removed, commit)
	}
}

// MoveShape translates a shape so its reference point lands on p.
func (s *Store) MoveShape(uuid string, p geom.GlobalPoint, sync bool, commit dispatch.Commit) {
	sh, ok := s.layers.Shape(uuid)
	if !ok {
		return
	}
	sh.MoveTo(p)
	s.layers.InvalidateShape(sh)
	if sync {
		s.dispatch.PositionUpdate([]*shape.Shape{sh}, commit)
	}
}

// SetShapePosition replaces the angle and outline of a shape.
func (s *Store) SetShapePosition(uuid string, pos shape.Position, sync bool, commit dispatch.Commit) {
	sh, ok := s.layers.Shape(uuid)
	if !ok {
		return
	}
	sh.ApplyPosition(pos)
	s.layers.InvalidateShape(sh)
	if sync {
		s.dispatch.PositionUpdate([]*shape.Shape{sh}, commit)
	}
}

// SetRectSize resizes a rectangle or asset rectangle. Other variants are
// ignored.
func (s *Store) SetRectSize(uuid string, w, h float64, sync bool, commit dispatch.Commit) {
	sh, ok := s.layers.Shape(uuid)
	if !ok {
		return
	}
	switch g := sh.Geometry.(type) {
	case *shape.Rect:
		g.W, g.H = w, h
	case *shape.AssetRect:
		g.W, g.H = w, h
	default:
		return
	}
	s.layers.InvalidateShape(sh)
	if sync {
		s.dispatch.SizeUpdate(sh, commit)
	}
}

// SetCircleSize resizes a circle or circular token. Other variants are
// ignored.
func (s *Store) SetCircleSize(uuid string, r float64, sync bool, commit dispatch.Commit) {
	sh, ok := s.layers.Shape(uuid)
	if !ok {
		return
	}
	switch g := sh.Geometry.(type) {
	case *shape.Circle:
		g.R = r
	case *shape.CircularToken:
		g.R = r
	default:
		return
	}
	s.layers.InvalidateShape(sh)
	if sync {
		s.dispatch.SizeUpdate(sh, commit)
	}
}

// SetShapeOrder moves a shape to index within its layer.
func (s *Store) SetShapeOrder(uuid string, index int, sync bool) {
	if !s.layers.SetOrder(uuid, index) {
		return
	}
	if sync {
		s.dispatch.ShapeOrder(uuid, index)
	}
}

// MoveShapesToFloor moves shapes onto the same-named layer of floor.
func (s *Store) MoveShapesToFloor(uuids []string, floor string, sync bool) {
	target := s.layers.Floor(floor)
	if target == nil {
		return
	}
	moved := s.filterMoved(uuids, func(uuid string) bool {
		return s.layers.MoveToFloor(uuid, target)
	})
	if sync {
		s.dispatch.FloorChange(moved, floor)
	}
}

// MoveShapesToLayer moves shapes onto layer of floor.
func (s *Store) MoveShapesToLayer(uuids []string, floor, layer string, sync bool) {
	target := s.layers.Layer(floor, layer)
	if target == nil {
		return
	}
	moved := s.filterMoved(uuids, func(uuid string) bool {
		return s.layers.MoveToLayer(uuid, target)
	})
	if sync {
		s.dispatch.LayerChange(moved, layer, floor)
	}
}

// MoveShapesToLocation sends shapes to another location. They leave the
// local scene; the server delivers them to clients on the target location.
func (s *Store) MoveShapesToLocation(uuids []string, target dispatch.MoveTarget, sync bool) {
	moved := s.filterMoved(uuids, func(uuid string) bool {
		if s.layers.RemoveShape(uuid) == nil {
			return false
		}
		s.groups.Forget(uuid)
		return true
	})
	if sync {
		s.dispatch.ShapesMove(moved, target)
	}
}

// filterMoved applies move to every uuid and returns the syncable ones it
// succeeded for.
func (s *Store) filterMoved(uuids []string, move func(string) bool) []string {
	moved := make([]string, 0, len(uuids))
	for _, uuid := range uuids {
		sh, ok := s.layers.Shape(uuid)
		if !ok || !move(uuid) {
			continue
		}
		if !sh.PreventSync {
			moved = append(moved, uuid)
		}
	}
	return moved
}

// UpdateTracker sets the value of a tracker or aura on a shape. Aura
// changes also refresh lighting.
func (s *Store) UpdateTracker(shapeUUID string, kind shape.AttributeKind, uuid string, value float64, sync bool) {
	sh, ok := s.layers.Shape(shapeUUID)
	if !ok || !sh.SetAttributeValue(kind, uuid, value) {
		return
	}
	if l := s.layers.LayerOf(sh); l != nil {
		l.Invalidate(kind != shape.AttributeAura)
	}
	if sync {
		s.dispatch.TrackerUpdate(sh, kind, uuid, value)
	}
}

// SetText replaces the label text of a circular token. Other variants
// carry no text and are ignored.
func (s *Store) SetText(uuid, text string, sync bool, commit dispatch.Commit) {
	sh, ok := s.layers.Shape(uuid)
	if !ok {
		return
	}
	token, ok := sh.Geometry.(*shape.CircularToken)
	if !ok {
		return
	}
	token.Text = text
	if l := s.layers.LayerOf(sh); l != nil {
		l.Invalidate(true)
	}
	if sync {
		s.dispatch.TextUpdate(sh, text, commit)
	}
}

// SetGroupLeader replaces the members of leader's group.
func (s *Store) SetGroupLeader(leader string, members []string, sync bool) {
	s.groups.SetGroupLeader(leader, members, sync)
}

// AddGroupMember appends member to leader's group.
func (s *Store) AddGroupMember(leader, member string, sync bool) {
	s.groups.AddGroupMember(leader, member, sync)
}
