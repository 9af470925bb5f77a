package compositor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/gogpu/compositor/backend"
	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/compositor/scene"
)

// ErrNotRunning is returned by operations that need a started compositor.
var ErrNotRunning = errors.New("compositor: not running")

// State is the lifecycle state of a Compositor.
type State int

const (
	// StateOff means no backend exists and no frames are produced.
	StateOff State = iota
	// StateStarting is the state while Start sets up backend and outputs.
	StateStarting
	// StateOn means frames are produced.
	StateOn
	// StateStopping is the state while Stop tears everything down.
	StateStopping
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOff:
		return "Off"
	case StateStarting:
		return "Starting"
	case StateOn:
		return "On"
	case StateStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// Compositor owns the render layer trees of all outputs and runs the frame
// protocol on them.
//
// The scenes outlive Start and Stop: windows added to Scene stay across a
// reinitialization, only backend, layers and delegates are recreated.
type Compositor struct {
	opts options

	state   State
	backend backend.RenderBackend

	workspace   *scene.WorkspaceScene
	cursorScene *scene.CursorScene

	outputs []*render.Output
	watched map[*render.Output]bool
	views   map[render.RenderLoop]*outputView
}

// outputView is the per-output state of a running compositor.
type outputView struct {
	output *render.Output

	superlayer *render.RenderLayer
	delegate   *scene.Delegate

	cursorLayer    *render.RenderLayer
	cursorDelegate *cursorDelegate

	frames uint64
}

// New creates a stopped compositor.
func New(opts ...Option) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Compositor{
		opts:        o,
		workspace:   scene.NewWorkspaceScene(image.Rectangle{}),
		cursorScene: scene.NewCursorScene(),
		watched:     make(map[*render.Output]bool),
		views:       make(map[render.RenderLoop]*outputView),
	}
	if o.background != nil {
		c.workspace.SetBackground(o.background)
	}
	for _, output := range o.outputs {
		c.AddOutput(output)
	}
	return c
}

// State returns the lifecycle state.
func (c *Compositor) State() State { return c.state }

// Scene returns the workspace scene shown on all outputs.
func (c *Compositor) Scene() *scene.WorkspaceScene { return c.workspace }

// CursorScene returns the scene rendered into hardware cursor planes.
func (c *Compositor) CursorScene() *scene.CursorScene { return c.cursorScene }

// Backend returns the render backend, nil while stopped.
func (c *Compositor) Backend() backend.RenderBackend { return c.backend }

// Cursor returns the pointer cursor, nil if none was configured.
func (c *Compositor) Cursor() Cursor { return c.opts.cursor }

// Start creates the backend and the layer trees of all outputs.
// Starting a running compositor does nothing.
func (c *Compositor) Start() error {
	if c.state != StateOff {
		return nil
	}
	c.state = StateStarting

	b, err := c.opts.backendFactory()()
	if err != nil {
		c.state = StateOff
		return fmt.Errorf("compositor: start: %w", err)
	}
	c.backend = b
	c.syncCursorScene()

	for _, output := range c.outputs {
		c.addView(output)
	}
	c.state = StateOn
	slogger().Info("compositing started",
		"backend", b.Name(), "type", b.CompositingType(), "outputs", len(c.outputs))
	return nil
}

// Stop tears down layers and backend. Stopping a stopped compositor does
// nothing.
func (c *Compositor) Stop() {
	if c.state != StateOn {
		return
	}
	c.state = StateStopping

	for _, output := range c.outputs {
		c.removeView(output)
	}
	if err := c.backend.Close(); err != nil {
		slogger().Warn("closing render backend failed", "backend", c.backend.Name(), "err", err)
	}
	c.backend = nil
	c.state = StateOff
	slogger().Info("compositing stopped")
}

// Reinitialize stops and starts the compositor, recreating the backend.
func (c *Compositor) Reinitialize() error {
	c.Stop()
	return c.Start()
}

// Outputs returns the outputs in the order they were added.
func (c *Compositor) Outputs() []*render.Output { return slices.Clone(c.outputs) }

// AddOutput starts showing the workspace on output. Adding an output twice
// does nothing.
func (c *Compositor) AddOutput(output *render.Output) {
	if output == nil || slices.Contains(c.outputs, output) {
		return
	}
	c.outputs = append(c.outputs, output)
	if !c.watched[output] {
		// The listener stays registered after RemoveOutput and ignores
		// outputs that are no longer shown.
		c.watched[output] = true
		output.OnGeometryChanged(func() { c.outputGeometryChanged(output) })
	}
	c.updateSceneGeometry()
	if c.state == StateOn {
		c.addView(output)
	}
}

// RemoveOutput stops showing the workspace on output and releases its
// backend planes.
func (c *Compositor) RemoveOutput(output *render.Output) {
	i := slices.Index(c.outputs, output)
	if i < 0 {
		return
	}
	if c.state == StateOn {
		c.removeView(output)
	}
	c.outputs = slices.Delete(c.outputs, i, i+1)
	c.updateSceneGeometry()
}

// Superlayer returns the root render layer of output, nil if the compositor
// is stopped or does not know output.
func (c *Compositor) Superlayer(output *render.Output) *render.RenderLayer {
	if v := c.view(output); v != nil {
		return v.superlayer
	}
	return nil
}

// CursorLayer returns the software cursor layer of output, nil if the
// compositor is stopped or does not know output.
func (c *Compositor) CursorLayer(output *render.Output) *render.RenderLayer {
	if v := c.view(output); v != nil {
		return v.cursorLayer
	}
	return nil
}

func (c *Compositor) view(output *render.Output) *outputView {
	if output == nil {
		return nil
	}
	v, ok := c.views[output.RenderLoop()]
	if !ok || v.output != output {
		return nil
	}
	return v
}

func (c *Compositor) addView(output *render.Output) {
	loop := output.RenderLoop()
	v := &outputView{output: output}

	v.delegate = scene.NewDelegate(c.workspace, output)
	v.superlayer = render.NewRenderLayer(loop)
	v.superlayer.SetDelegate(v.delegate)
	v.superlayer.SetGeometry(output.Rect())

	v.cursorDelegate = &cursorDelegate{compositor: c}
	v.cursorLayer = render.NewRenderLayer(loop)
	v.cursorLayer.SetVisible(false)
	v.cursorLayer.SetDelegate(v.cursorDelegate)
	v.cursorLayer.SetSuperlayer(v.superlayer)

	c.views[loop] = v
	loop.Reset()
	loop.OnFrameRequested(func(l *render.Loop) { c.Composite(l) })

	c.updateCursorLayer(v)
	slogger().Debug("output added", "output", output.Name(), "geometry", output.Geometry())
}

func (c *Compositor) removeView(output *render.Output) {
	v := c.view(output)
	if v == nil {
		return
	}
	loop := output.RenderLoop()
	loop.ClearFrameRequested()
	delete(c.views, loop)

	if cursor := c.backend.CursorLayer(output); cursor != nil && cursor.IsEnabled() {
		cursor.SetEnabled(false)
		c.backend.UpdateCursorLayer(output)
	}
	v.cursorLayer.Destroy()
	v.superlayer.Destroy()
	v.delegate.Close()
	if r, ok := c.backend.(backend.OutputReleaser); ok {
		r.ReleaseOutput(output)
	}
	slogger().Debug("output removed", "output", output.Name())
}

func (c *Compositor) outputGeometryChanged(output *render.Output) {
	if !slices.Contains(c.outputs, output) {
		return
	}
	c.updateSceneGeometry()
	v := c.view(output)
	if v == nil {
		return
	}
	v.superlayer.SetGeometry(output.Rect())
	c.updateCursorLayer(v)
}

// updateSceneGeometry makes the workspace cover all outputs.
func (c *Compositor) updateSceneGeometry() {
	var bounds image.Rectangle
	for _, output := range c.outputs {
		bounds = bounds.Union(output.Geometry())
	}
	c.workspace.SetGeometry(bounds)
}

// AddRepaint damages r, in global coordinates, on every output showing it.
func (c *Compositor) AddRepaint(r region.Region) { c.workspace.AddRepaint(r) }

// AddRepaintFull damages all outputs.
func (c *Compositor) AddRepaintFull() { c.workspace.AddRepaintFull() }

// Dispatch asks the loop of every output for a frame and returns the number
// of frames produced.
func (c *Compositor) Dispatch() (int, error) {
	if c.state != StateOn {
		return 0, ErrNotRunning
	}
	frames := 0
	for _, output := range slices.Clone(c.outputs) {
		if output.RenderLoop().Dispatch() {
			frames++
		}
	}
	return frames, nil
}

// Run dispatches frames at the highest refresh rate of the outputs until
// ctx is done. Frames are produced on the calling goroutine.
func (c *Compositor) Run(ctx context.Context) error {
	if c.state != StateOn {
		return ErrNotRunning
	}
	interval := time.Second / 60
	for _, output := range c.outputs {
		interval = min(interval, output.RenderLoop().Interval())
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := c.Dispatch(); err != nil {
				return err
			}
		}
	}
}

// Composite produces one frame for the output driven by loop. Loops of the
// compositor's outputs call it when a frame is requested.
func (c *Compositor) Composite(loop render.RenderLoop) {
	if c.state != StateOn {
		slogger().Error("composite called while not running", "state", c.state)
		return
	}
	if c.backend.CheckGraphicsReset() {
		slogger().Info("graphics reset detected, reinitializing")
		c.opts.notifier.Notify(GraphicsResetEvent, graphicsResetText)
		if err := c.Reinitialize(); err != nil {
			slogger().Error("reinitialize after graphics reset failed", "err", err)
		}
		return
	}

	v, ok := c.views[loop]
	if !ok {
		slogger().Error("composite called for an unknown render loop")
		return
	}
	output := v.output
	superlayer := v.superlayer

	primary := c.backend.PrimaryLayer(output)
	if primary == nil {
		slogger().Error("backend has no primary layer", "output", output.Name())
		return
	}
	superlayer.SetOutputLayer(primary)

	loop.PrepareNewFrame()
	v.frames++
	frame := render.NewOutputFrame(loop, v.frames)

	if superlayer.NeedsRepaint() || primary.NeedsRepaint() {
		loop.BeginPaint()

		surfaceDamage := primary.Repaints()
		primary.ResetRepaints()
		surfaceDamage = prePaintPass(superlayer, surfaceDamage)

		var candidate render.SurfaceItem
		if d := superlayer.Delegate(); d != nil {
			candidate = d.ScanoutCandidate()
		}
		loop.SetFullscreenSurface(candidate)
		if candidate != nil {
			frame.SetContentType(candidate.ContentType())
		} else {
			frame.SetContentType(render.ContentTypeNone)
		}
		output.SetContentType(frame.ContentType())

		directScanout := false
		if candidate != nil {
			if !hasVisibleSublayers(superlayer) && !output.DirectScanoutInhibited() {
				directScanout = primary.AttemptScanout(candidate)
			}
		} else {
			primary.NotifyNoScanoutCandidate()
		}
		slogger().Debug("frame", "output", output.Name(), "sequence", v.frames,
			"damage", surfaceDamage.Bounds(), "scanout", directScanout)

		if !directScanout {
			if info, ok := primary.BeginFrame(); ok {
				bufferDamage := surfaceDamage.Union(info.Repaint).IntersectedRect(superlayer.Rect())
				paintPass(superlayer, info.Target, bufferDamage)
				primary.EndFrame(bufferDamage, surfaceDamage)
			} else {
				slogger().Debug("primary layer not ready, frame skipped", "output", output.Name())
				primary.AddRepaint(surfaceDamage)
			}
		}

		postPaintPass(superlayer)
	}

	if err := c.backend.Present(output, frame); err != nil {
		slogger().Warn("present failed", "output", output.Name(), "err", err)
		// The backend never completes a failed frame; retry on the next
		// dispatch instead of waiting for it.
		output.RenderLoop().Reset()
	}

	framePass(superlayer, frame)

	if cursor := c.opts.cursor; c.opts.waylandServer && isOnOutput(cursor, output.Geometry()) {
		cursor.MarkAsRendered(loop.LastPresentationTimestamp())
	}
}
