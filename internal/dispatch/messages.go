package dispatch

import (
	"github.com/hktrpg/PlanarAlly/internal/shape"
)

// Shape events.
const (
	EventShapeAdd         = "Shape.Add"
	EventShapesRemove     = "Shapes.Remove"
	EventShapeOrder       = "Shape.Order.Set"
	EventFloorChange      = "Shapes.Floor.Change"
	EventLayerChange      = "Shapes.Layer.Change"
	EventGroupLeaderSet   = "Shapes.Group.Leader.Set"
	EventGroupMemberAdd   = "Shapes.Group.Member.Add"
	EventShapesMove       = "Shapes.Location.Move"
	EventTrackerUpdate    = "Shapes.Trackers.Update"
	EventTextUpdate       = "Shape.Text.Value.Set"
	EventPositionUpdate   = "Shapes.Position.Update"
	EventRectSizeUpdate   = "Shape.Rect.Size.Update"
	EventCircleSizeUpdate = "Shape.Circle.Size.Update"
)

// Scene events.
const (
	EventNoteNew         = "Note.New"
	EventNoteUpdate      = "Note.Update"
	EventNoteRemove      = "Note.Remove"
	EventMarkerNew       = "Marker.New"
	EventMarkerRemove    = "Marker.Remove"
	EventLocationOrder   = "Locations.Order.Set"
	EventLocationRemove  = "Location.Delete"
	EventClientOptions   = "Client.Options.Set"
	EventLocationOptions = "Client.Location.Options.Set"
	EventRoomLock        = "Room.Info.Set.Locked"
	EventRoomKickPlayer  = "Room.Info.Players.Kick"
	EventLabelVisibility = "Label.Visibility.Set"
	EventLabelDelete     = "Label.Delete"
)

// ShapeAddPayload creates a shape remotely.
type ShapeAddPayload struct {
	Shape     shape.Descriptor `json:"shape"`
	Temporary Commit           `json:"temporary"`
}

// ShapesRemovePayload deletes shapes remotely.
type ShapesRemovePayload struct {
	UUIDs     []string `json:"uuids"`
	Temporary Commit   `json:"temporary"`
}

// ShapeOrderPayload places a shape at index within its layer.
type ShapeOrderPayload struct {
	UUID  string `json:"uuid"`
	Index int    `json:"index"`
}

// FloorChangePayload moves shapes to another floor.
type FloorChangePayload struct {
	UUIDs []string `json:"uuids"`
	Floor string   `json:"floor"`
}

// LayerChangePayload moves shapes to another layer on floor.
type LayerChangePayload struct {
	UUIDs []string `json:"uuids"`
	Layer string   `json:"layer"`
	Floor string   `json:"floor"`
}

// GroupLeaderPayload replaces a group's membership.
type GroupLeaderPayload struct {
	Leader  string   `json:"leader"`
	Members []string `json:"members"`
}

// GroupMemberPayload appends one member to a group.
type GroupMemberPayload struct {
	Leader string `json:"leader"`
	Member string `json:"member"`
}

// MoveTarget is the destination of a cross-location move.
type MoveTarget struct {
	Location int     `json:"location"`
	Floor    string  `json:"floor"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// ShapesMovePayload moves shapes to another location.
type ShapesMovePayload struct {
	Shapes []string   `json:"shapes"`
	Target MoveTarget `json:"target"`
}

// TrackerUpdatePayload sets the value of a tracker or aura.
type TrackerUpdatePayload struct {
	UUID  string              `json:"uuid"`
	Value float64             `json:"value"`
	Shape string              `json:"shape"`
	Type  shape.AttributeKind `json:"_type"`
}

// TextUpdatePayload sets the text content of a shape.
type TextUpdatePayload struct {
	UUID      string `json:"uuid"`
	Text      string `json:"text"`
	Temporary Commit `json:"temporary"`
}

// ShapePosition pairs a shape with its position representation.
type ShapePosition struct {
	UUID     string         `json:"uuid"`
	Position shape.Position `json:"position"`
}

// PositionUpdatePayload is a batched position sync. Redraw is always set so
// receivers repaint.
type PositionUpdatePayload struct {
	Shapes    []ShapePosition `json:"shapes"`
	Redraw    bool            `json:"redraw"`
	Temporary Commit          `json:"temporary"`
}

// RectSizePayload resizes a rectangle-family shape.
type RectSizePayload struct {
	UUID      string  `json:"uuid"`
	W         float64 `json:"w"`
	H         float64 `json:"h"`
	Temporary Commit  `json:"temporary"`
}

// CircleSizePayload resizes a circle-family shape.
type CircleSizePayload struct {
	UUID      string  `json:"uuid"`
	R         float64 `json:"r"`
	Temporary Commit  `json:"temporary"`
}

// NotePayload is a user note.
type NotePayload struct {
	UUID  string `json:"uuid"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ClientOptionsPayload carries the client options that changed. Unset
// fields are omitted from the wire.
type ClientOptionsPayload struct {
	GridColour  *string  `json:"grid_colour,omitempty"`
	FOWColour   *string  `json:"fow_colour,omitempty"`
	RulerColour *string  `json:"ruler_colour,omitempty"`
	InvertAlt   *bool    `json:"invert_alt,omitempty"`
	GridSize    *float64 `json:"grid_size,omitempty"`
}

// LocationOptionsPayload is the per-location view of the current user.
type LocationOptionsPayload struct {
	PanX        float64 `json:"pan_x"`
	PanY        float64 `json:"pan_y"`
	ZoomDisplay float64 `json:"zoom_display"`
}

// LabelVisibilityPayload toggles a label.
type LabelVisibilityPayload struct {
	UUID    string `json:"uuid"`
	Visible bool   `json:"visible"`
}

// committed is implemented by payloads that carry a Commit level.
type committed interface {
	commitLevel() Commit
}

func (p ShapeAddPayload) commitLevel() Commit       { return p.Temporary }
func (p ShapesRemovePayload) commitLevel() Commit   { return p.Temporary }
func (p TextUpdatePayload) commitLevel() Commit     { return p.Temporary }
func (p PositionUpdatePayload) commitLevel() Commit { return p.Temporary }
func (p RectSizePayload) commitLevel() Commit       { return p.Temporary }
func (p CircleSizePayload) commitLevel() Commit     { return p.Temporary }

// commitOf returns the commit level of payload, Final when it has none.
func commitOf(payload any) Commit {
	if c, ok := payload.(committed); ok {
		return c.commitLevel()
	}
	return Final
}
