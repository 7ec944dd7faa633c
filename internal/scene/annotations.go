package scene

import (
	"slices"

	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/shape"
	"github.com/hktrpg/PlanarAlly/internal/units"
)

// Notes returns the notes in creation order.
func (s *Store) Notes() []Note { return slices.Clone(s.notes) }

// NewNote appends a note.
func (s *Store) NewNote(n Note, sync bool) {
	s.notes = append(s.notes, n)
	if sync {
		s.dispatch.NoteNew(notePayload(n))
	}
}

// UpdateNote replaces the title and text of the note with the same uuid.
// Unknown notes are ignored.
func (s *Store) UpdateNote(n Note, sync bool) {
	i := slices.IndexFunc(s.notes, func(existing Note) bool { return existing.UUID == n.UUID })
	if i < 0 {
		return
	}
	s.notes[i].Title = n.Title
	s.notes[i].Text = n.Text
	if sync {
		s.dispatch.NoteUpdate(notePayload(s.notes[i]))
	}
}

// RemoveNote drops the note with the same uuid.
func (s *Store) RemoveNote(n Note, sync bool) {
	s.notes = slices.DeleteFunc(s.notes, func(existing Note) bool { return existing.UUID == n.UUID })
	if sync {
		s.dispatch.NoteRemove(n.UUID)
	}
}

func notePayload(n Note) dispatch.NotePayload {
	return dispatch.NotePayload{UUID: n.UUID, Title: n.Title, Text: n.Text}
}

// Markers returns the shape uuids marked for navigation.
func (s *Store) Markers() []string { return slices.Clone(s.markers) }

// NewMarker marks a shape. Marking it twice is a no-op.
func (s *Store) NewMarker(uuid string, sync bool) {
	if slices.Contains(s.markers, uuid) {
		return
	}
	s.markers = append(s.markers, uuid)
	if sync {
		s.dispatch.MarkerNew(uuid)
	}
}

// RemoveMarker unmarks a shape.
func (s *Store) RemoveMarker(uuid string, sync bool) {
	s.markers = slices.DeleteFunc(s.markers, func(m string) bool { return m == uuid })
	if sync {
		s.dispatch.MarkerRemove(uuid)
	}
}

// JumpToMarker centres the view on the marked shape. Unknown shapes are
// ignored.
func (s *Store) JumpToMarker(uuid string, vp units.Viewport) {
	sh, ok := s.layers.Shape(uuid)
	if !ok {
		return
	}
	s.view.PanX, s.view.PanY = s.view.CenterOn(sh.RefPoint, vp)
	s.sendLocationOptions()
	s.layers.InvalidateAllFloors()
}

// Annotations returns the uuids of shapes whose annotation is visible.
func (s *Store) Annotations() []string { return slices.Clone(s.annotations) }

// SetAnnotations replaces the visible annotation list.
func (s *Store) SetAnnotations(uuids []string) { s.annotations = slices.Clone(uuids) }

// Label looks up a label by uuid.
func (s *Store) Label(uuid string) (*shape.Label, bool) {
	l, ok := s.labels[uuid]
	return l, ok
}

// Labels returns every label.
func (s *Store) Labels() map[string]*shape.Label { return s.labels }

// AddLabel indexes a label by uuid, replacing any previous entry.
func (s *Store) AddLabel(l *shape.Label) {
	s.labels[l.UUID] = l
}

// SetLabelVisibility changes a label's visibility. Unknown labels are ignored.
func (s *Store) SetLabelVisibility(uuid string, visible, sync bool) {
	l, ok := s.labels[uuid]
	if !ok {
		return
	}
	l.Visible = visible
	if sync {
		s.dispatch.LabelVisibility(uuid, visible)
	}
}

// DeleteLabel detaches the label from every shape, redraws each layer that
// held an affected shape and then drops the label. Unknown labels are
// ignored.
func (s *Store) DeleteLabel(uuid string, sync bool) {
	l, ok := s.labels[uuid]
	if !ok {
		return
	}
	for _, sh := range s.layers.Shapes() {
		if !sh.RemoveLabel(l) {
			continue
		}
		if layer := s.layers.LayerOf(sh); layer != nil {
			layer.Invalidate(false)
		}
	}
	delete(s.labels, uuid)
	if sync {
		s.dispatch.LabelDelete(uuid)
	}
}

// LabelFilters returns the label uuids used to filter shapes.
func (s *Store) LabelFilters() []string { return slices.Clone(s.labelFilters) }

// SetLabelFilters replaces the label filter list.
func (s *Store) SetLabelFilters(filters []string) { s.labelFilters = slices.Clone(filters) }

// FilterNoLabel reports whether shapes without labels are filtered out.
func (s *Store) FilterNoLabel() bool { return s.filterNoLabel }

// ToggleUnlabeledFilter flips filtering of shapes without labels.
func (s *Store) ToggleUnlabeledFilter() { s.filterNoLabel = !s.filterNoLabel }
