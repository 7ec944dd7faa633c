package scene

import (
	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/geom"
	"github.com/hktrpg/PlanarAlly/internal/units"
)

// View returns the current pan/zoom state.
func (s *Store) View() units.View { return s.view }

// SetPanX sets the horizontal pan offset.
func (s *Store) SetPanX(x float64) {
	s.view.PanX = x
	s.layers.InvalidateAllFloors()
}

// SetPanY sets the vertical pan offset.
func (s *Store) SetPanY(y float64) {
	s.view.PanY = y
	s.layers.InvalidateAllFloors()
}

// IncreasePanX adds to the horizontal pan offset.
func (s *Store) IncreasePanX(dx float64) {
	s.view.PanX += dx
	s.layers.InvalidateAllFloors()
}

// IncreasePanY adds to the vertical pan offset.
func (s *Store) IncreasePanY(dy float64) {
	s.view.PanY += dy
	s.layers.InvalidateAllFloors()
}

// SetZoomDisplay moves the zoom dial without an anchor. The value is
// clamped to [0, 1]; an unchanged value is a no-op.
func (s *Store) SetZoomDisplay(display float64) {
	display = units.ClampZoom(display)
	if display == s.view.ZoomDisplay {
		return
	}
	s.view.ZoomDisplay = display
	s.layers.InvalidateAllFloors()
}

// UpdateZoom moves the zoom dial keeping anchor fixed on screen, then
// redraws and sends the new location options. Repeating a call is a no-op.
func (s *Store) UpdateZoom(display float64, anchor geom.GlobalPoint) {
	if !s.view.UpdateZoom(display, anchor) {
		return
	}
	s.layers.InvalidateAllFloors()
	s.sendLocationOptions()
}

// Pan applies a screen-space drag of the pan tool.
func (s *Store) Pan(delta geom.Vector) {
	s.view.PanBy(delta)
	s.layers.InvalidateAllFloors()
}

// FinishPan ends a pan drag and publishes the resulting view.
func (s *Store) FinishPan() {
	s.sendLocationOptions()
}

// LocationOptions returns the user's view of the active location.
func (s *Store) LocationOptions() LocationOptions {
	return LocationOptions{PanX: s.view.PanX, PanY: s.view.PanY, ZoomDisplay: s.view.ZoomDisplay}
}

// SetLocationOptions restores a previously saved view without syncing.
func (s *Store) SetLocationOptions(o LocationOptions) {
	s.view.PanX = o.PanX
	s.view.PanY = o.PanY
	s.view.ZoomDisplay = units.ClampZoom(o.ZoomDisplay)
	s.layers.InvalidateAllFloors()
}

func (s *Store) sendLocationOptions() {
	o := s.LocationOptions()
	s.dispatch.LocationOptions(dispatch.LocationOptionsPayload{
		PanX:        o.PanX,
		PanY:        o.PanY,
		ZoomDisplay: o.ZoomDisplay,
	})
}
