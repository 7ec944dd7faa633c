// Package layers manages floors, their ordered layers and the shapes on them.
//
// It also acts as the invalidation propagator of the client: a mutation that
// changes pixels marks the affected layers stale so the external painter
// redraws them before the next frame. There are two levels:
//
//   - full (Layer.Invalidate, Manager.InvalidateAllFloors): redraw and
//     recompute lighting and vision
//   - light only (Layer.InvalidateLight, Manager.InvalidateLightAllFloors):
//     recompute lighting and vision without a full redraw
//
// A floor's grid layer can be invalidated on its own when only the grid
// appearance changes.
package layers
