package scene

import (
	"math"
	"reflect"
	"testing"

	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/geom"
	"github.com/hktrpg/PlanarAlly/internal/layers"
	"github.com/hktrpg/PlanarAlly/internal/shape"
	"github.com/hktrpg/PlanarAlly/internal/units"
)

// newTestStore builds a store with two floors, each holding a grid and a
// tokens layer, and every layer marked drawn.
func newTestStore(t *testing.T) (*Store, *dispatch.Recorder) {
	t.Helper()

	m := layers.NewManager()
	for _, name := range []string{"ground", "upstairs"} {
		f := m.AddFloor(name)
		f.AddLayer(layers.LayerConfig{Name: "grid", IsGrid: true})
		f.AddLayer(layers.LayerConfig{Name: "tokens", PlayerVisible: true, Selectable: true})
	}
	m.MarkDrawn()

	rec := &dispatch.Recorder{}
	return New(m, rec), rec
}

func addRect(t *testing.T, s *Store, uuid string, at geom.GlobalPoint) *shape.Shape {
	t.Helper()
	sh := &shape.Shape{UUID: uuid, Geometry: &shape.Rect{W: 10, H: 10}, RefPoint: at, Floor: "ground", Layer: "tokens"}
	if !s.AddShape(sh, false, dispatch.Final) {
		t.Fatalf("AddShape(%s) = false", uuid)
	}
	s.Layers().MarkDrawn()
	return sh
}

// allValid reports whether every layer is fully drawn and lit.
func allValid(m *layers.Manager) (drawn, lit bool) {
	drawn, lit = true, true
	for _, f := range m.Floors() {
		for _, l := range f.Layers() {
			drawn = drawn && l.Valid()
			lit = lit && l.LightValid()
		}
	}
	return drawn, lit
}

func noneValid(m *layers.Manager) bool {
	for _, f := range m.Floors() {
		for _, l := range f.Layers() {
			if l.Valid() || l.LightValid() {
				return false
			}
		}
	}
	return true
}

func TestNew_Defaults(t *testing.T) {
	s, _ := newTestStore(t)

	opts := s.ClientOptions()
	if opts.GridColour != "rgba(0, 0, 0, 1)" || opts.FOWColour != "rgba(0, 0, 0, 1)" {
		t.Errorf("colours = %q/%q", opts.GridColour, opts.FOWColour)
	}
	if opts.RulerColour != "rgba(255, 0, 0, 1)" {
		t.Errorf("RulerColour = %q", opts.RulerColour)
	}
	if opts.GridSize != units.DefaultGridSize {
		t.Errorf("GridSize = %v, want %v", opts.GridSize, units.DefaultGridSize)
	}
	if s.View().ZoomDisplay != 0.5 {
		t.Errorf("ZoomDisplay = %v, want 0.5", s.View().ZoomDisplay)
	}
	if !s.ShowUI() {
		t.Error("ShowUI() = false, want true")
	}
}

func TestRoleChanges_InvalidateAll(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Store)
		wantDM bool
	}{
		{"set dm", func(s *Store) { s.SetDM(true) }, true},
		{"fake player", func(s *Store) { s.SetFakePlayer(true) }, false},
		{"stop faking", func(s *Store) { s.SetFakePlayer(false) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestStore(t)
			tt.mutate(s)

			if s.IsDM() != tt.wantDM {
				t.Errorf("IsDM() = %v, want %v", s.IsDM(), tt.wantDM)
			}
			if !noneValid(s.Layers()) {
				t.Error("role change did not invalidate every layer")
			}
			if rec.Len() != 0 {
				t.Errorf("role change emitted %v", rec.Names())
			}
		})
	}
}

func TestSessionFlags(t *testing.T) {
	s, _ := newTestStore(t)

	s.SetUsername("alice")
	s.SetRoomName("keep")
	s.SetRoomCreator("bob")
	s.SetInvitationCode("abc")
	s.SetBoardInitialized(true)
	s.ToggleUI()

	if s.Username() != "alice" || s.RoomName() != "keep" || s.RoomCreator() != "bob" || s.InvitationCode() != "abc" {
		t.Error("identity setters did not stick")
	}
	if !s.BoardInitialized() {
		t.Error("BoardInitialized() = false")
	}
	if s.ShowUI() {
		t.Error("ToggleUI() did not hide the UI")
	}
}

func TestNotes(t *testing.T) {
	s, rec := newTestStore(t)

	s.NewNote(Note{UUID: "n1", Title: "a", Text: "b"}, true)
	s.NewNote(Note{UUID: "n2", Title: "c"}, false)
	s.UpdateNote(Note{UUID: "n1", Title: "A", Text: "B"}, true)
	s.UpdateNote(Note{UUID: "missing", Title: "x"}, true)
	s.RemoveNote(Note{UUID: "n2"}, true)

	want := []Note{{UUID: "n1", Title: "A", Text: "B"}}
	if got := s.Notes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Notes() = %v, want %v", got, want)
	}
	wantEvents := []string{dispatch.EventNoteNew, dispatch.EventNoteUpdate, dispatch.EventNoteRemove}
	if got := rec.Names(); !reflect.DeepEqual(got, wantEvents) {
		t.Errorf("events = %v, want %v", got, wantEvents)
	}
}

func TestMarkers(t *testing.T) {
	s, rec := newTestStore(t)

	s.NewMarker("m1", true)
	s.NewMarker("m1", true)
	s.NewMarker("m2", false)
	s.RemoveMarker("m2", true)

	if got := s.Markers(); !reflect.DeepEqual(got, []string{"m1"}) {
		t.Errorf("Markers() = %v, want [m1]", got)
	}
	if rec.Count(dispatch.EventMarkerNew) != 1 {
		t.Errorf("Marker.New sent %d times, want 1", rec.Count(dispatch.EventMarkerNew))
	}
	if rec.Count(dispatch.EventMarkerRemove) != 1 {
		t.Errorf("Marker.Remove sent %d times, want 1", rec.Count(dispatch.EventMarkerRemove))
	}
}

func TestJumpToMarker(t *testing.T) {
	s, rec := newTestStore(t)
	addRect(t, s, "target", geom.GlobalPoint{X: 300, Y: 200})
	vp := units.Viewport{Width: 1000, Height: 500}

	s.JumpToMarker("target", vp)

	// nh = 1000/50/1/2 = 10, nv = 5
	v := s.View()
	if math.Abs(v.PanX-200) > 1e-9 || math.Abs(v.PanY-50) > 1e-9 {
		t.Errorf("pan = (%v, %v), want (200, 50)", v.PanX, v.PanY)
	}
	if rec.Count(dispatch.EventLocationOptions) != 1 {
		t.Error("JumpToMarker() did not send location options")
	}
	if !noneValid(s.Layers()) {
		t.Error("JumpToMarker() did not invalidate every layer")
	}
}

func TestJumpToMarker_UnknownShape(t *testing.T) {
	s, rec := newTestStore(t)
	before := s.View()

	s.JumpToMarker("nope", units.Viewport{Width: 100, Height: 100})

	if s.View() != before || rec.Len() != 0 {
		t.Error("JumpToMarker() on unknown shape changed state")
	}
}

func TestDeleteLabel(t *testing.T) {
	s, rec := newTestStore(t)
	label := &shape.Label{UUID: "l1", Name: "enemy", Visible: true}
	other := &shape.Label{UUID: "l2", Name: "boss"}
	s.AddLabel(label)
	s.AddLabel(other)

	a := addRect(t, s, "a", geom.GlobalPoint{})
	b := addRect(t, s, "b", geom.GlobalPoint{})
	c := &shape.Shape{UUID: "c", Geometry: &shape.Circle{R: 1}, Floor: "upstairs", Layer: "tokens"}
	s.AddShape(c, false, dispatch.Final)
	a.Labels = []*shape.Label{label, other}
	b.Labels = []*shape.Label{other}
	c.Labels = []*shape.Label{label}
	s.Layers().MarkDrawn()

	s.DeleteLabel("l1", true)

	for _, sh := range []*shape.Shape{a, b, c} {
		if sh.HasLabel(label) {
			t.Errorf("shape %s still carries the deleted label", sh.UUID)
		}
	}
	if !a.HasLabel(other) || !b.HasLabel(other) {
		t.Error("unrelated label removed")
	}
	if _, ok := s.Label("l1"); ok {
		t.Error("label still indexed")
	}
	if s.Layers().Layer("ground", "tokens").Valid() || s.Layers().Layer("upstairs", "tokens").Valid() {
		t.Error("affected layers not invalidated")
	}
	if !s.Layers().Layer("ground", "grid").Valid() {
		t.Error("unaffected grid layer invalidated")
	}

	// Deleting again is a no-op.
	s.Layers().MarkDrawn()
	s.DeleteLabel("l1", true)
	if rec.Count(dispatch.EventLabelDelete) != 1 {
		t.Errorf("Label.Delete sent %d times, want 1", rec.Count(dispatch.EventLabelDelete))
	}
	if drawn, _ := allValid(s.Layers()); !drawn {
		t.Error("second DeleteLabel() invalidated layers")
	}
}

func TestSetLabelVisibility(t *testing.T) {
	s, rec := newTestStore(t)
	s.AddLabel(&shape.Label{UUID: "l1"})

	s.SetLabelVisibility("l1", true, true)
	s.SetLabelVisibility("missing", true, true)

	l, _ := s.Label("l1")
	if !l.Visible {
		t.Error("label not visible")
	}
	if rec.Len() != 1 {
		t.Errorf("events = %v, want one visibility change", rec.Names())
	}
}

func TestLabelFilters(t *testing.T) {
	s, _ := newTestStore(t)

	s.SetLabelFilters([]string{"l1"})
	s.ToggleUnlabeledFilter()

	if !reflect.DeepEqual(s.LabelFilters(), []string{"l1"}) {
		t.Errorf("LabelFilters() = %v", s.LabelFilters())
	}
	if !s.FilterNoLabel() {
		t.Error("FilterNoLabel() = false after toggle")
	}
}

func TestLocations(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetLocations([]Location{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}}, true)
	s.SetLocations([]Location{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, false)
	s.RemoveLocation(1)
	s.RemoveLocation(42)

	want := []Location{{ID: 3, Name: "c"}, {ID: 2, Name: "b"}}
	if got := s.Locations(); !reflect.DeepEqual(got, want) {
		t.Errorf("Locations() = %v, want %v", got, want)
	}

	events := rec.Events()
	if len(events) != 3 {
		t.Fatalf("events = %v, want order + two removals", rec.Names())
	}
	if ids := events[0].Payload.([]int); !reflect.DeepEqual(ids, []int{3, 1}) {
		t.Errorf("order payload = %v, want [3 1]", ids)
	}
	if events[1].Name != dispatch.EventLocationRemove || events[2].Name != dispatch.EventLocationRemove {
		t.Error("removal is not always sent")
	}
}

func TestDisplayOptions_Invalidation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Store)
		wantGrid   bool // grid layers invalidated
		wantTokens bool // token layers invalidated
	}{
		{"grid colour", func(s *Store) { s.SetGridColour("red", true) }, true, false},
		{"fow colour", func(s *Store) { s.SetFOWColour("red", true) }, true, true},
		{"grid size", func(s *Store) { s.SetGridSize(70, true) }, true, true},
		{"ruler colour", func(s *Store) { s.SetRulerColour("red", true) }, false, false},
		{"invert alt", func(s *Store) { s.SetInvertAlt(true, true) }, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestStore(t)
			tt.mutate(s)

			for _, f := range s.Layers().Floors() {
				if got := !f.Layer("grid").Valid(); got != tt.wantGrid {
					t.Errorf("floor %s grid invalidated = %v, want %v", f.Name, got, tt.wantGrid)
				}
				if got := !f.Layer("tokens").Valid(); got != tt.wantTokens {
					t.Errorf("floor %s tokens invalidated = %v, want %v", f.Name, got, tt.wantTokens)
				}
			}
			if rec.Count(dispatch.EventClientOptions) != 1 {
				t.Errorf("client options sent %d times, want 1", rec.Count(dispatch.EventClientOptions))
			}
		})
	}
}

func TestDisplayOptions_NoSync(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetGridColour("a", false)
	s.SetFOWColour("b", false)
	s.SetRulerColour("c", false)
	s.SetGridSize(60, false)
	s.SetInvertAlt(true, false)

	if rec.Len() != 0 {
		t.Errorf("events = %v, want none", rec.Names())
	}
	want := ClientOptions{GridColour: "a", FOWColour: "b", RulerColour: "c", InvertAlt: true, GridSize: 60}
	if got := s.ClientOptions(); got != want {
		t.Errorf("ClientOptions() = %+v, want %+v", got, want)
	}
}

func TestClipboard(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetClipboard([]shape.Descriptor{{UUID: "x"}})
	s.SetClipboardPosition(geom.GlobalPoint{X: 4, Y: 2})

	if len(s.Clipboard()) != 1 || s.ClipboardPosition() != (geom.GlobalPoint{X: 4, Y: 2}) {
		t.Error("clipboard not stored")
	}
	if rec.Len() != 0 {
		t.Error("clipboard changes were sent")
	}
}

func TestRemoveActiveToken_SeedsFromOwned(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetOwnedTokens([]string{"a", "b", "c"})
	s.Layers().MarkDrawn()

	s.RemoveActiveToken("b")

	if got := s.ActiveTokens(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("ActiveTokens() = %v, want [a c]", got)
	}
	if got := s.OwnedTokens(); len(got) != 3 {
		t.Errorf("OwnedTokens() = %v, seeding must copy", got)
	}
	drawn, lit := allValid(s.Layers())
	if !drawn || lit {
		t.Errorf("drawn/lit = %v/%v, want lighting-only invalidation", drawn, lit)
	}
}

func TestActiveTokens(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetOwnedTokens([]string{"a", "b"})

	if got := s.ActiveTokens(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("default ActiveTokens() = %v, want owned", got)
	}

	s.SetActiveTokens([]string{"b"})
	s.AddActiveToken("c")
	if got := s.ActiveTokens(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("ActiveTokens() = %v, want [b c]", got)
	}

	s.RemoveActiveToken("missing")
	if got := s.ActiveTokens(); len(got) != 2 {
		t.Errorf("removing unknown token changed set to %v", got)
	}
}

func TestSetters_CopyCallerSlices(t *testing.T) {
	s, _ := newTestStore(t)

	tokens := make([]string, 3, 8)
	copy(tokens, []string{"a", "b", "c"})
	s.SetActiveTokens(tokens)
	s.RemoveActiveToken("a")
	s.AddActiveToken("d")
	if !reflect.DeepEqual(tokens, []string{"a", "b", "c"}) || tokens[:4][3] != "" {
		t.Errorf("caller tokens = %v (backing %v), want untouched", tokens, tokens[:4])
	}

	owned := []string{"x", "y"}
	s.SetOwnedTokens(owned)
	owned[0] = "changed"
	if got := s.OwnedTokens(); got[0] != "x" {
		t.Errorf("OwnedTokens() = %v, follows caller's slice", got)
	}

	players := []Player{{ID: 1, Name: "ann"}}
	s.SetPlayers(players)
	s.UpdatePlayer("ann", 9)
	if players[0].Location != 0 {
		t.Errorf("caller player = %+v, want untouched", players[0])
	}

	locations := []Location{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	s.SetLocations(locations, false)
	s.DropLocation(1)
	if !reflect.DeepEqual(locations, []Location{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}) {
		t.Errorf("caller locations = %v, want untouched", locations)
	}
}

func TestPlayers(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetPlayers([]Player{{ID: 1, Name: "ann", Location: 1}, {ID: 2, Name: "bo", Location: 1}})
	s.AddPlayer(Player{ID: 3, Name: "ann", Location: 2, Role: RoleDM})
	s.UpdatePlayer("ann", 5)
	s.KickPlayer(2)

	want := []Player{{ID: 1, Name: "ann", Location: 5}, {ID: 3, Name: "ann", Location: 5, Role: RoleDM}}
	if got := s.Players(); !reflect.DeepEqual(got, want) {
		t.Errorf("Players() = %v, want %v", got, want)
	}
	if rec.Count(dispatch.EventRoomKickPlayer) != 1 {
		t.Error("kick not sent")
	}
}

func TestSetIsLocked(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetIsLocked(true, false)
	s.SetIsLocked(true, true)

	if !s.IsLocked() {
		t.Error("IsLocked() = false")
	}
	if rec.Count(dispatch.EventRoomLock) != 1 {
		t.Errorf("lock sent %d times, want 1", rec.Count(dispatch.EventRoomLock))
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetOwnedTokens([]string{"a"})
	s.SetAnnotations([]string{"a"})
	s.NewNote(Note{UUID: "n"}, false)
	s.NewMarker("m", false)
	s.SetBoardInitialized(true)
	s.SetPlayers([]Player{{ID: 1}})

	s.Clear()

	if len(s.OwnedTokens())+len(s.Annotations())+len(s.Notes())+len(s.Markers()) != 0 {
		t.Error("Clear() left session lists behind")
	}
	if s.BoardInitialized() {
		t.Error("BoardInitialized() = true after Clear()")
	}
	if len(s.Players()) != 1 {
		t.Error("Clear() dropped players")
	}
}
