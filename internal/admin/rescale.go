// Package admin provides privileged maintenance operations and the
// operator console that exposes them.
package admin

import (
	"math"

	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/scene"
	"github.com/hktrpg/PlanarAlly/internal/shape"
)

// Diagnostic messages printed by Rescale.
const (
	MsgInvalidFactor = "Provided factor is not a valid number."
	MsgNotDM         = "You must be a DM to perform this operation."
	MsgSynced        = "Changes should be synced now. Refresh your page to make sure everything works accordingly."
	MsgDryRun        = "If everything looks ok and you want to sync these changes to the server, hard refresh your page and rerun the script with the sync parameter set to true. e.g. rescale(5/7, true)"
)

// Logger defines the logging interface used by admin operations.
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

// Vision recomputes per-floor visibility and movement blocking after bulk
// geometry changes. The physics layer implements it.
type Vision interface {
	RecalculateVision(floorID int)
	RecalculateMovement(floorID int)
}

type noopVision struct{}

func (noopVision) RecalculateVision(int)   {}
func (noopVision) RecalculateMovement(int) {}

// RescaleResult reports what Rescale did.
type RescaleResult struct {
	// Applied is false when a precondition rejected the call.
	Applied bool

	// Mutated is the number of shapes that were scaled.
	Mutated int

	// Message is the diagnostic or follow-up text shown to the operator.
	Message string
}

// Rescaler multiplies every shape of the scene by a factor.
type Rescaler struct {
	vision Vision
	logger Logger
}

// NewRescaler creates a rescaler. vision may be nil.
func NewRescaler(vision Vision) *Rescaler {
	if vision == nil {
		vision = noopVision{}
	}
	return &Rescaler{vision: vision, logger: noopLogger{}}
}

// SetLogger sets the logger used for operator diagnostics.
func (r *Rescaler) SetLogger(logger Logger) {
	r.logger = logger
}

// Rescale scales the reference point and dimensions of every shape that is
// allowed to sync. The factor must be finite and the local user must be a
// DM; otherwise nothing changes.
//
// Without sync only the local scene changes; the operator is told how to
// re-run with sync after a reload. With sync, sizes and then one batched
// position update are sent.
//
// Must run on the goroutine that owns s.
func (r *Rescaler) Rescale(s *scene.Store, factor float64, sync bool) RescaleResult {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		r.logger.Error(MsgInvalidFactor, "factor", factor)
		return RescaleResult{Message: MsgInvalidFactor}
	}
	if !s.IsDM() {
		r.logger.Warn(MsgNotDM)
		return RescaleResult{Message: MsgNotDM}
	}

	manager := s.Layers()
	d := s.Dispatcher()

	var mutated []*shape.Shape
	for _, sh := range manager.Shapes() {
		if sh.PreventSync {
			continue
		}
		sh.Scale(factor)
		mutated = append(mutated, sh)
		if sync && carriesFixedSize(sh) {
			d.SizeUpdate(sh, dispatch.Final)
		}
	}

	for _, f := range manager.Floors() {
		r.vision.RecalculateVision(f.ID)
		r.vision.RecalculateMovement(f.ID)
	}
	manager.InvalidateAllFloors()

	result := RescaleResult{Applied: true, Mutated: len(mutated)}
	if sync {
		d.PositionUpdate(mutated, dispatch.Final)
		result.Message = MsgSynced
	} else {
		result.Message = MsgDryRun
	}
	r.logger.Info(result.Message, "factor", factor, "shapes", result.Mutated, "sync", sync)
	return result
}

// carriesFixedSize reports whether the variant has a size message of its
// own. Outline variants are fully described by the position update.
func carriesFixedSize(sh *shape.Shape) bool {
	switch sh.Geometry.(type) {
	case *shape.Rect, *shape.AssetRect, *shape.Circle, *shape.CircularToken:
		return true
	case *shape.Polygon, *shape.Line:
		return false
	default:
		panic("admin: unknown geometry " + string(sh.Kind()))
	}
}
