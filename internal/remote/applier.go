// Package remote applies changes received from the session server to the
// local scene.
//
// Inbound messages use the same event names and payloads as outbound ones.
// Every change is applied with sync disabled so it is never echoed back.
// Decoding happens on the caller's goroutine; the resulting Change runs on
// the scene runner, in arrival order. Client and location options are per
// user: the server stores them, and another user's copy is never applied.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/scene"
	"github.com/hktrpg/PlanarAlly/internal/shape"
)

var (
	// ErrUnknownEvent is returned for an event name with no handler.
	ErrUnknownEvent = errors.New("remote: unknown event")

	// ErrMalformedPayload is returned when a payload does not decode.
	ErrMalformedPayload = errors.New("remote: malformed payload")

	// ErrPersonalEvent is returned for another user's view options. The
	// server stores them per user; they never touch the local scene.
	ErrPersonalEvent = errors.New("remote: personal event")
)

// personalEvents are sent by every client for its own camera and colours.
var personalEvents = map[string]bool{
	dispatch.EventClientOptions:   true,
	dispatch.EventLocationOptions: true,
}

// Logger defines the logging interface used by the Applier.
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

// Change is a decoded inbound message ready to run against the store.
type Change func(*scene.Store)

type decoder func(a *Applier, payload []byte) (Change, error)

var decoders = map[string]decoder{
	dispatch.EventShapeAdd:         decodeShapeAdd,
	dispatch.EventShapesRemove:     decodeShapesRemove,
	dispatch.EventShapeOrder:       decodeShapeOrder,
	dispatch.EventFloorChange:      decodeFloorChange,
	dispatch.EventLayerChange:      decodeLayerChange,
	dispatch.EventGroupLeaderSet:   decodeGroupLeader,
	dispatch.EventGroupMemberAdd:   decodeGroupMember,
	dispatch.EventShapesMove:       decodeShapesMove,
	dispatch.EventTrackerUpdate:    decodeTrackerUpdate,
	dispatch.EventTextUpdate:       decodeTextUpdate,
	dispatch.EventPositionUpdate:   decodePositionUpdate,
	dispatch.EventRectSizeUpdate:   decodeRectSize,
	dispatch.EventCircleSizeUpdate: decodeCircleSize,

	dispatch.EventNoteNew:         decodeNote(func(s *scene.Store, n scene.Note) { s.NewNote(n, false) }),
	dispatch.EventNoteUpdate:      decodeNote(func(s *scene.Store, n scene.Note) { s.UpdateNote(n, false) }),
	dispatch.EventNoteRemove:      decodeUUID(func(s *scene.Store, uuid string) { s.RemoveNote(scene.Note{UUID: uuid}, false) }),
	dispatch.EventMarkerNew:       decodeUUID(func(s *scene.Store, uuid string) { s.NewMarker(uuid, false) }),
	dispatch.EventMarkerRemove:    decodeUUID(func(s *scene.Store, uuid string) { s.RemoveMarker(uuid, false) }),
	dispatch.EventLocationOrder:   decodeLocationOrder,
	dispatch.EventLocationRemove:  decodeID(func(s *scene.Store, id int) { s.DropLocation(id) }),
	dispatch.EventRoomLock:        decodeRoomLock,
	dispatch.EventRoomKickPlayer:  decodeID(func(s *scene.Store, id int) { s.RemovePlayer(id) }),
	dispatch.EventLabelVisibility: decodeLabelVisibility,
	dispatch.EventLabelDelete:     decodeUUID(func(s *scene.Store, uuid string) { s.DeleteLabel(uuid, false) }),
}

// Events returns the event names the Applier understands, sorted.
func Events() []string {
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metrics records inbound traffic. Implementations must not block.
type Metrics interface {
	RecordInboundMessage(event string, bytes int, applied bool)
}

// Applier turns inbound messages into scene mutations.
type Applier struct {
	runner  *scene.Runner
	logger  Logger
	metrics Metrics
}

// NewApplier creates an applier that runs changes on runner.
func NewApplier(runner *scene.Runner) *Applier {
	return &Applier{runner: runner, logger: noopLogger{}}
}

// SetLogger sets the logger for the applier.
func (a *Applier) SetLogger(logger Logger) {
	a.logger = logger
}

// SetMetrics registers an inbound traffic recorder.
func (a *Applier) SetMetrics(m Metrics) {
	a.metrics = m
}

// Decode parses one inbound message.
func (a *Applier) Decode(event string, payload []byte) (Change, error) {
	if personalEvents[event] {
		return nil, fmt.Errorf("%w: %s", ErrPersonalEvent, event)
	}
	decode, ok := decoders[event]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	change, err := decode(a, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, event, err)
	}
	return change, nil
}

// Handle decodes a message and applies it on the runner, waiting until it
// has run.
func (a *Applier) Handle(ctx context.Context, event string, payload []byte) error {
	change, err := a.Decode(event, payload)
	if err != nil {
		return err
	}
	return a.runner.Do(ctx, change)
}

// HandleFunc adapts Handle to transports that cannot surface errors.
// Failures are logged and the message is dropped.
func (a *Applier) HandleFunc(ctx context.Context) func(event string, payload []byte) {
	return func(event string, payload []byte) {
		err := a.Handle(ctx, event, payload)
		if a.metrics != nil {
			a.metrics.RecordInboundMessage(event, len(payload), err == nil)
		}
		if err != nil {
			if errors.Is(err, ErrUnknownEvent) || errors.Is(err, ErrPersonalEvent) {
				a.logger.Debug("ignoring inbound event", "event", event)
				return
			}
			a.logger.Warn("dropping inbound message", "event", event, "error", err)
		}
	}
}

func unmarshal[T any](payload []byte) (T, error) {
	var v T
	err := json.Unmarshal(payload, &v)
	return v, err
}

func decodeShapeAdd(a *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.ShapeAddPayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) {
		sh, err := shape.FromDescriptor(p.Shape, s.Labels())
		if err != nil {
			a.logger.Warn("dropping remote shape", "uuid", p.Shape.UUID, "error", err)
			return
		}
		s.AddShape(sh, false, p.Temporary)
	}, nil
}

func decodeShapesRemove(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.ShapesRemovePayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.RemoveShapes(p.UUIDs, false, p.Temporary) }, nil
}

func decodeShapeOrder(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.ShapeOrderPayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.SetShapeOrder(p.UUID, p.Index, false) }, nil
}

func decodeFloorChange(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.FloorChangePayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.MoveShapesToFloor(p.UUIDs, p.Floor, false) }, nil
}

func decodeLayerChange(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.LayerChangePayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.MoveShapesToLayer(p.UUIDs, p.Floor, p.Layer, false) }, nil
}

func decodeGroupLeader(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.GroupLeaderPayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.SetGroupLeader(p.Leader, p.Members, false) }, nil
}

func decodeGroupMember(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.GroupMemberPayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.AddGroupMember(p.Leader, p.Member, false) }, nil
}

// decodeShapesMove drops shapes that left for another location. Arrivals
// on this location come in as Shape.Add.
func decodeShapesMove(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.ShapesMovePayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) {
		if p.Target.Location == s.LocationID() {
			return
		}
		s.MoveShapesToLocation(p.Shapes, p.Target, false)
	}, nil
}

func decodeTrackerUpdate(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.TrackerUpdatePayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.UpdateTracker(p.Shape, p.Type, p.UUID, p.Value, false) }, nil
}

func decodeTextUpdate(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.TextUpdatePayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.SetText(p.UUID, p.Text, false, p.Temporary) }, nil
}

func decodePositionUpdate(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.PositionUpdatePayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) {
		for _, sp := range p.Shapes {
			s.SetShapePosition(sp.UUID, sp.Position, false, p.Temporary)
		}
	}, nil
}

func decodeRectSize(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.RectSizePayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.SetRectSize(p.UUID, p.W, p.H, false, p.Temporary) }, nil
}

func decodeCircleSize(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.CircleSizePayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.SetCircleSize(p.UUID, p.R, false, p.Temporary) }, nil
}

func decodeNote(apply func(*scene.Store, scene.Note)) decoder {
	return func(_ *Applier, payload []byte) (Change, error) {
		p, err := unmarshal[dispatch.NotePayload](payload)
		if err != nil {
			return nil, err
		}
		n := scene.Note{UUID: p.UUID, Title: p.Title, Text: p.Text}
		return func(s *scene.Store) { apply(s, n) }, nil
	}
}

func decodeUUID(apply func(*scene.Store, string)) decoder {
	return func(_ *Applier, payload []byte) (Change, error) {
		uuid, err := unmarshal[string](payload)
		if err != nil {
			return nil, err
		}
		return func(s *scene.Store) { apply(s, uuid) }, nil
	}
}

func decodeID(apply func(*scene.Store, int)) decoder {
	return func(_ *Applier, payload []byte) (Change, error) {
		id, err := unmarshal[int](payload)
		if err != nil {
			return nil, err
		}
		return func(s *scene.Store) { apply(s, id) }, nil
	}
}

// decodeLocationOrder reorders the known locations. Ids the client does
// not know are skipped; known locations missing from the order keep their
// relative order at the end.
func decodeLocationOrder(_ *Applier, payload []byte) (Change, error) {
	ids, err := unmarshal[[]int](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) {
		current := s.Locations()
		ordered := make([]scene.Location, 0, len(current))
		for _, id := range ids {
			if i := slices.IndexFunc(current, func(l scene.Location) bool { return l.ID == id }); i >= 0 {
				ordered = append(ordered, current[i])
			}
		}
		for _, l := range current {
			if !slices.Contains(ids, l.ID) {
				ordered = append(ordered, l)
			}
		}
		s.SetLocations(ordered, false)
	}, nil
}

func decodeRoomLock(_ *Applier, payload []byte) (Change, error) {
	locked, err := unmarshal[bool](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.SetIsLocked(locked, false) }, nil
}

func decodeLabelVisibility(_ *Applier, payload []byte) (Change, error) {
	p, err := unmarshal[dispatch.LabelVisibilityPayload](payload)
	if err != nil {
		return nil, err
	}
	return func(s *scene.Store) { s.SetLabelVisibility(p.UUID, p.Visible, false) }, nil
}
