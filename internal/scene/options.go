package scene

import (
	"slices"

	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/geom"
	"github.com/hktrpg/PlanarAlly/internal/shape"
)

// Locations returns the locations in shared order.
func (s *Store) Locations() []Location { return slices.Clone(s.locations) }

// SetLocations replaces the location list. When sync is set the new order
// is pushed to peers.
func (s *Store) SetLocations(locations []Location, sync bool) {
	s.locations = slices.Clone(locations)
	if !sync {
		return
	}
	ids := make([]int, len(locations))
	for i, l := range locations {
		ids[i] = l.ID
	}
	s.dispatch.LocationOrder(ids)
}

// RemoveLocation drops a location. The removal is always sent.
func (s *Store) RemoveLocation(id int) {
	s.DropLocation(id)
	s.dispatch.LocationRemove(id)
}

// DropLocation forgets a location the server has already deleted.
func (s *Store) DropLocation(id int) {
	s.locations = slices.DeleteFunc(s.locations, func(l Location) bool { return l.ID == id })
}

// ClientOptions returns the current display configuration.
func (s *Store) ClientOptions() ClientOptions {
	return ClientOptions{
		GridColour:  s.gridColour,
		FOWColour:   s.fowColour,
		RulerColour: s.rulerColour,
		InvertAlt:   s.invertAlt,
		GridSize:    s.view.GridSize,
	}
}

// SetGridColour changes the grid colour and redraws each floor's grid layer.
func (s *Store) SetGridColour(colour string, sync bool) {
	s.gridColour = colour
	for _, f := range s.layers.Floors() {
		if grid := s.layers.GridLayer(f); grid != nil {
			grid.Invalidate(true)
		}
	}
	if sync {
		s.dispatch.ClientOptions(dispatch.ClientOptionsPayload{GridColour: &colour})
	}
}

// SetFOWColour changes the fog-of-war colour.
func (s *Store) SetFOWColour(colour string, sync bool) {
	s.fowColour = colour
	s.layers.InvalidateAllFloors()
	if sync {
		s.dispatch.ClientOptions(dispatch.ClientOptionsPayload{FOWColour: &colour})
	}
}

// SetRulerColour changes the ruler colour. Nothing is redrawn.
func (s *Store) SetRulerColour(colour string, sync bool) {
	s.rulerColour = colour
	if sync {
		s.dispatch.ClientOptions(dispatch.ClientOptionsPayload{RulerColour: &colour})
	}
}

// SetGridSize changes the grid cell size, which rescales the zoom factor.
func (s *Store) SetGridSize(size float64, sync bool) {
	s.view.GridSize = size
	s.layers.InvalidateAllFloors()
	if sync {
		s.dispatch.ClientOptions(dispatch.ClientOptionsPayload{GridSize: &size})
	}
}

// SetInvertAlt flips the meaning of the alt modifier. Nothing is redrawn.
func (s *Store) SetInvertAlt(invert, sync bool) {
	s.invertAlt = invert
	if sync {
		s.dispatch.ClientOptions(dispatch.ClientOptionsPayload{InvertAlt: &invert})
	}
}

// SetClientOptions restores saved display options without syncing.
func (s *Store) SetClientOptions(o ClientOptions) {
	s.gridColour = o.GridColour
	s.fowColour = o.FOWColour
	s.rulerColour = o.RulerColour
	s.invertAlt = o.InvertAlt
	if o.GridSize > 0 {
		s.view.GridSize = o.GridSize
	}
	s.layers.InvalidateAllFloors()
}

// Clipboard returns the copied shapes.
func (s *Store) Clipboard() []shape.Descriptor { return s.clipboard }

// SetClipboard replaces the copied shapes. The clipboard is local only.
func (s *Store) SetClipboard(shapes []shape.Descriptor) { s.clipboard = slices.Clone(shapes) }

// ClipboardPosition returns where the clipboard was copied from.
func (s *Store) ClipboardPosition() geom.GlobalPoint { return s.clipboardPosition }

// SetClipboardPosition records where the clipboard was copied from.
func (s *Store) SetClipboardPosition(p geom.GlobalPoint) { s.clipboardPosition = p }
