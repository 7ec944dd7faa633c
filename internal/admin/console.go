package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	exprlang "github.com/expr-lang/expr"

	"github.com/hktrpg/PlanarAlly/internal/geom"
	"github.com/hktrpg/PlanarAlly/internal/scene"
	"github.com/hktrpg/PlanarAlly/internal/units"
)

// ErrUnknownCommand is returned by Exec for an unrecognised command word.
var ErrUnknownCommand = errors.New("admin: unknown command")

const helpText = `commands:
  rescale <factor> [true|false]  scale every shape; factor may be an expression such as 5/7
  zoom <display>                 move the zoom dial, anchored on the screen centre
  pan <dx> <dy>                  drag the view by a screen-space offset
  jump <marker>                  centre the view on a marker
  status                         print the session state
  help                           print this text
  quit                           leave the console`

// Console is a line-oriented operator shell over a running scene.
// Commands execute on the runner goroutine.
type Console struct {
	runner   *scene.Runner
	rescaler *Rescaler
	out      io.Writer
	logger   Logger

	mu       sync.Mutex
	viewport units.Viewport
}

// NewConsole creates a console writing its replies to out.
func NewConsole(runner *scene.Runner, rescaler *Rescaler, vp units.Viewport, out io.Writer) *Console {
	return &Console{
		runner:   runner,
		rescaler: rescaler,
		out:      out,
		logger:   noopLogger{},
		viewport: vp,
	}
}

// SetLogger sets the logger for the console.
func (c *Console) SetLogger(logger Logger) {
	c.logger = logger
}

// SetViewport updates the drawing surface size used for centring. Safe to
// call from any goroutine.
func (c *Console) SetViewport(vp units.Viewport) {
	c.mu.Lock()
	c.viewport = vp
	c.mu.Unlock()
}

// Viewport returns the current drawing surface size.
func (c *Console) Viewport() units.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

// Run reads commands from in until EOF, quit, or ctx is cancelled.
// Command errors are reported to the output and do not stop the loop.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := c.Exec(ctx, scanner.Text())
		if err != nil {
			if errors.Is(err, scene.ErrRunnerStopped) || errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// Exec runs a single command line. It reports quit when the line asks the
// console to exit.
func (c *Console) Exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "rescale":
		return false, c.rescale(ctx, args)
	case "zoom":
		return false, c.zoom(ctx, args)
	case "pan":
		return false, c.pan(ctx, args)
	case "jump":
		return false, c.jump(ctx, args)
	case "status":
		return false, c.status(ctx)
	case "help":
		fmt.Fprintln(c.out, helpText)
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (c *Console) rescale(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: rescale <factor> [true|false]")
	}

	doSync := false
	if last := args[len(args)-1]; len(args) > 1 {
		if b, err := strconv.ParseBool(last); err == nil {
			doSync = b
			args = args[:len(args)-1]
		}
	}
	factor := c.evalFactor(strings.Join(args, " "))

	var res RescaleResult
	if err := c.runner.Do(ctx, func(s *scene.Store) {
		res = c.rescaler.Rescale(s, factor, doSync)
	}); err != nil {
		return err
	}
	if res.Applied {
		fmt.Fprintf(c.out, "rescaled %d shapes by %g\n", res.Mutated, factor)
	}
	fmt.Fprintln(c.out, res.Message)
	return nil
}

// evalFactor evaluates src as an arithmetic expression. Anything that does
// not produce a number yields NaN so the rescale reports it.
func (c *Console) evalFactor(src string) float64 {
	out, err := exprlang.Eval(src, nil)
	if err != nil {
		c.logger.Debug("factor expression rejected", "expr", src, "error", err)
		return math.NaN()
	}
	switch v := out.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return math.NaN()
	}
}

func (c *Console) zoom(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: zoom <display>")
	}
	display, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("parsing zoom: %w", err)
	}
	vp := c.Viewport()

	var got float64
	if err := c.runner.Do(ctx, func(s *scene.Store) {
		s.UpdateZoom(display, s.View().ScreenCenter(vp))
		got = s.View().ZoomDisplay
	}); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "zoom %.3f\n", got)
	return nil
}

func (c *Console) pan(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: pan <dx> <dy>")
	}
	dx, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("parsing dx: %w", err)
	}
	dy, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parsing dy: %w", err)
	}

	var v units.View
	if err := c.runner.Do(ctx, func(s *scene.Store) {
		s.Pan(geom.Vector{X: dx, Y: dy})
		s.FinishPan()
		v = s.View()
	}); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "pan %g,%g\n", v.PanX, v.PanY)
	return nil
}

func (c *Console) jump(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: jump <marker>")
	}
	vp := c.Viewport()

	var found bool
	if err := c.runner.Do(ctx, func(s *scene.Store) {
		found = slices.Contains(s.Markers(), args[0])
		if found {
			s.JumpToMarker(args[0], vp)
		}
	}); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no marker %s", args[0])
	}
	fmt.Fprintf(c.out, "centred on %s\n", args[0])
	return nil
}

func (c *Console) status(ctx context.Context) error {
	var b strings.Builder
	err := c.runner.Do(ctx, func(s *scene.Store) {
		v := s.View()
		fmt.Fprintf(&b, "room:     %s/%s\n", s.RoomCreator(), s.RoomName())
		fmt.Fprintf(&b, "user:     %s (dm=%t)\n", s.Username(), s.IsDM())
		fmt.Fprintf(&b, "location: %d\n", s.LocationID())
		fmt.Fprintf(&b, "view:     pan=%g,%g zoom=%.3f grid=%g\n", v.PanX, v.PanY, v.ZoomDisplay, v.GridSize)
		fmt.Fprintf(&b, "floors:   %d\n", len(s.Layers().Floors()))
		fmt.Fprintf(&b, "shapes:   %d\n", s.Layers().ShapeCount())
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.out, b.String())
	return err
}
