package dispatch

import (
	"github.com/hktrpg/PlanarAlly/internal/shape"
)

// Dispatcher builds the typed outgoing messages for shape and scene changes.
//
// It holds no state of its own besides the bound senders; whether a message
// is sent at all (the sync flag of a mutation) is decided by the caller.
type Dispatcher struct {
	shapeAdd        func(ShapeAddPayload)
	shapesRemove    func(ShapesRemovePayload)
	shapeOrder      func(ShapeOrderPayload)
	floorChange     func(FloorChangePayload)
	layerChange     func(LayerChangePayload)
	groupLeader     func(GroupLeaderPayload)
	groupMember     func(GroupMemberPayload)
	shapesMove      func(ShapesMovePayload)
	trackerUpdate   func(TrackerUpdatePayload)
	textUpdate      func(TextUpdatePayload)
	positionUpdate  func(PositionUpdatePayload)
	rectSize        func(RectSizePayload)
	circleSize      func(CircleSizePayload)
	noteNew         func(NotePayload)
	noteUpdate      func(NotePayload)
	noteRemove      func(string)
	markerNew       func(string)
	markerRemove    func(string)
	locationOrder   func([]int)
	locationRemove  func(int)
	clientOptions   func(ClientOptionsPayload)
	locationOptions func(LocationOptionsPayload)
	roomLock        func(bool)
	kickPlayer      func(int)
	labelVisibility func(LabelVisibilityPayload)
	labelDelete     func(string)
}

// NewDispatcher binds every message of the catalog to e.
func NewDispatcher(e Emitter) *Dispatcher {
	return &Dispatcher{
		shapeAdd:        Bind[ShapeAddPayload](e, EventShapeAdd),
		shapesRemove:    Bind[ShapesRemovePayload](e, EventShapesRemove),
		shapeOrder:      Bind[ShapeOrderPayload](e, EventShapeOrder),
		floorChange:     Bind[FloorChangePayload](e, EventFloorChange),
		layerChange:     Bind[LayerChangePayload](e, EventLayerChange),
		groupLeader:     Bind[GroupLeaderPayload](e, EventGroupLeaderSet),
		groupMember:     Bind[GroupMemberPayload](e, EventGroupMemberAdd),
		shapesMove:      Bind[ShapesMovePayload](e, EventShapesMove),
		trackerUpdate:   Bind[TrackerUpdatePayload](e, EventTrackerUpdate),
		textUpdate:      Bind[TextUpdatePayload](e, EventTextUpdate),
		positionUpdate:  Bind[PositionUpdatePayload](e, EventPositionUpdate),
		rectSize:        Bind[RectSizePayload](e, EventRectSizeUpdate),
		circleSize:      Bind[CircleSizePayload](e, EventCircleSizeUpdate),
		noteNew:         Bind[NotePayload](e, EventNoteNew),
		noteUpdate:      Bind[NotePayload](e, EventNoteUpdate),
		noteRemove:      Bind[string](e, EventNoteRemove),
		markerNew:       Bind[string](e, EventMarkerNew),
		markerRemove:    Bind[string](e, EventMarkerRemove),
		locationOrder:   Bind[[]int](e, EventLocationOrder),
		locationRemove:  Bind[int](e, EventLocationRemove),
		clientOptions:   Bind[ClientOptionsPayload](e, EventClientOptions),
		locationOptions: Bind[LocationOptionsPayload](e, EventLocationOptions),
		roomLock:        Bind[bool](e, EventRoomLock),
		kickPlayer:      Bind[int](e, EventRoomKickPlayer),
		labelVisibility: Bind[LabelVisibilityPayload](e, EventLabelVisibility),
		labelDelete:     Bind[string](e, EventLabelDelete),
	}
}

// ShapeAdd creates s remotely.
func (d *Dispatcher) ShapeAdd(s *shape.Shape, commit Commit) {
	if s.PreventSync {
		return
	}
	d.shapeAdd(ShapeAddPayload{Shape: s.Descriptor(), Temporary: commit})
}

// RemoveShapes deletes shapes remotely.
func (d *Dispatcher) RemoveShapes(uuids []string, commit Commit) {
	if len(uuids) == 0 {
		return
	}
	d.shapesRemove(ShapesRemovePayload{UUIDs: uuids, Temporary: commit})
}

// ShapeOrder announces the draw position of a shape within its layer.
func (d *Dispatcher) ShapeOrder(uuid string, index int) {
	d.shapeOrder(ShapeOrderPayload{UUID: uuid, Index: index})
}

// FloorChange announces that shapes moved to floor.
func (d *Dispatcher) FloorChange(uuids []string, floor string) {
	if len(uuids) == 0 {
		return
	}
	d.floorChange(FloorChangePayload{UUIDs: uuids, Floor: floor})
}

// LayerChange announces that shapes moved to layer on floor.
func (d *Dispatcher) LayerChange(uuids []string, layer, floor string) {
	if len(uuids) == 0 {
		return
	}
	d.layerChange(LayerChangePayload{UUIDs: uuids, Layer: layer, Floor: floor})
}

// GroupLeaderSet replaces the membership of leader's group.
func (d *Dispatcher) GroupLeaderSet(leader string, members []string) {
	d.groupLeader(GroupLeaderPayload{Leader: leader, Members: members})
}

// GroupMemberAdd appends member to leader's group.
func (d *Dispatcher) GroupMemberAdd(leader, member string) {
	d.groupMember(GroupMemberPayload{Leader: leader, Member: member})
}

// ShapesMove moves shapes to another location.
func (d *Dispatcher) ShapesMove(uuids []string, target MoveTarget) {
	if len(uuids) == 0 {
		return
	}
	d.shapesMove(ShapesMovePayload{Shapes: uuids, Target: target})
}

// TrackerUpdate sets the value of a tracker or aura on owner.
func (d *Dispatcher) TrackerUpdate(owner *shape.Shape, kind shape.AttributeKind, uuid string, value float64) {
	if owner.PreventSync {
		return
	}
	d.trackerUpdate(TrackerUpdatePayload{UUID: uuid, Value: value, Shape: owner.UUID, Type: kind})
}

// TextUpdate sets the text of s.
func (d *Dispatcher) TextUpdate(s *shape.Shape, text string, commit Commit) {
	if s.PreventSync {
		return
	}
	d.textUpdate(TextUpdatePayload{UUID: s.UUID, Text: text, Temporary: commit})
}

// PositionUpdate sends one batched position message for every shape that
// is allowed to sync. Nothing is sent when the filtered batch is empty.
func (d *Dispatcher) PositionUpdate(shapes []*shape.Shape, commit Commit) {
	positions := make([]ShapePosition, 0, len(shapes))
	for _, s := range shapes {
		if s.PreventSync {
			continue
		}
		positions = append(positions, ShapePosition{UUID: s.UUID, Position: s.PositionRepresentation()})
	}
	if len(positions) == 0 {
		return
	}
	d.positionUpdate(PositionUpdatePayload{Shapes: positions, Redraw: true, Temporary: commit})
}

// SizeUpdate sends the size of s on the channel matching its variant.
// Polygons and lines have no fixed-size representation; their size is
// carried by their outline and goes through PositionUpdate.
func (d *Dispatcher) SizeUpdate(s *shape.Shape, commit Commit) {
	if s.PreventSync {
		return
	}
	switch g := s.Geometry.(type) {
	case *shape.Rect:
		d.rectSize(RectSizePayload{UUID: s.UUID, W: g.W, H: g.H, Temporary: commit})
	case *shape.AssetRect:
		d.rectSize(RectSizePayload{UUID: s.UUID, W: g.W, H: g.H, Temporary: commit})
	case *shape.Circle:
		d.circleSize(CircleSizePayload{UUID: s.UUID, R: g.R, Temporary: commit})
	case *shape.CircularToken:
		d.circleSize(CircleSizePayload{UUID: s.UUID, R: g.R, Temporary: commit})
	case *shape.Polygon, *shape.Line:
		d.PositionUpdate([]*shape.Shape{s}, commit)
	default:
		panic("dispatch: unknown geometry " + string(s.Kind()))
	}
}

// NoteNew publishes a new note.
func (d *Dispatcher) NoteNew(n NotePayload) { d.noteNew(n) }

// NoteUpdate publishes the new title and text of a note.
func (d *Dispatcher) NoteUpdate(n NotePayload) { d.noteUpdate(n) }

// NoteRemove deletes a note remotely.
func (d *Dispatcher) NoteRemove(uuid string) { d.noteRemove(uuid) }

// MarkerNew publishes a marker on the shape with the given uuid.
func (d *Dispatcher) MarkerNew(uuid string) { d.markerNew(uuid) }

// MarkerRemove deletes a marker remotely.
func (d *Dispatcher) MarkerRemove(uuid string) { d.markerRemove(uuid) }

// LocationOrder pushes the location order to peers.
func (d *Dispatcher) LocationOrder(ids []int) { d.locationOrder(ids) }

// LocationRemove deletes a location remotely.
func (d *Dispatcher) LocationRemove(id int) { d.locationRemove(id) }

// ClientOptions sends the changed client options.
func (d *Dispatcher) ClientOptions(p ClientOptionsPayload) { d.clientOptions(p) }

// LocationOptions sends the user's view of the current location.
func (d *Dispatcher) LocationOptions(p LocationOptionsPayload) { d.locationOptions(p) }

// RoomLock publishes the room lock state.
func (d *Dispatcher) RoomLock(locked bool) { d.roomLock(locked) }

// KickPlayer removes a player from the room.
func (d *Dispatcher) KickPlayer(id int) { d.kickPlayer(id) }

// LabelVisibility publishes a label's visibility.
func (d *Dispatcher) LabelVisibility(uuid string, visible bool) {
	d.labelVisibility(LabelVisibilityPayload{UUID: uuid, Visible: visible})
}

// LabelDelete deletes a label remotely.
func (d *Dispatcher) LabelDelete(uuid string) { d.labelDelete(uuid) }
