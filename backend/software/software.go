package software

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/compositor/backend"
	"github.com/gogpu/compositor/render"
)

// Name is the registry name of the software backend.
const Name = "software"

// Priority is the registry priority of the software backend. GPU backends
// register above it.
const Priority = 10

// DefaultCursorPlaneSize is the size of the cursor plane of every output.
var DefaultCursorPlaneSize = image.Pt(64, 64)

// ErrClosed is returned by Present after Close.
var ErrClosed = errors.New("software: backend closed")

// init registers the software backend on package import.
func init() {
	backend.Register(Name, Priority, func() (backend.RenderBackend, error) {
		return New(), nil
	}, nil)
}

// Option configures a Backend.
type Option func(*Backend)

// WithCursorPlaneSize changes the fixed size of the cursor planes.
func WithCursorPlaneSize(size image.Point) Option {
	return func(b *Backend) { b.cursorSize = size }
}

// WithoutCursorPlane makes the backend report no cursor plane, so the
// cursor is always composited in software.
func WithoutCursorPlane() Option {
	return func(b *Backend) { b.cursorSize = image.Point{} }
}

// Backend composites on the CPU.
//
// Backend is NOT safe for concurrent use; like the layer tree it belongs to
// the compositor's goroutine.
type Backend struct {
	cursorSize   image.Point
	outputs      map[*render.Output]*outputPlanes
	resetPending bool
	closed       bool
}

// outputPlanes is the per-output state of the backend.
type outputPlanes struct {
	primary *plane
	cursor  *plane
	display *image.RGBA

	presented     int
	cursorUpdates int
}

// New creates a software backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		cursorSize: DefaultCursorPlaneSize,
		outputs:    make(map[*render.Output]*outputPlanes),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements backend.RenderBackend.
func (b *Backend) Name() string { return Name }

// CompositingType implements backend.RenderBackend.
func (b *Backend) CompositingType() backend.CompositingType {
	return backend.SoftwareCompositing
}

func (b *Backend) planes(output *render.Output) *outputPlanes {
	st, ok := b.outputs[output]
	if !ok {
		st = &outputPlanes{primary: newPlane(output, false)}
		if b.cursorSize.X > 0 && b.cursorSize.Y > 0 {
			st.cursor = newPlane(output, true)
			st.cursor.layer.SetFixedSize(b.cursorSize)
		}
		b.outputs[output] = st
		slogger().Debug("output planes created", "output", output.Name(), "cursor", st.cursor != nil)
	}
	return st
}

// PrimaryLayer implements backend.RenderBackend.
func (b *Backend) PrimaryLayer(output *render.Output) *render.OutputLayer {
	if b.closed || output == nil {
		return nil
	}
	return b.planes(output).primary.layer
}

// CursorLayer implements backend.RenderBackend. It returns nil if the backend
// was created WithoutCursorPlane.
func (b *Backend) CursorLayer(output *render.Output) *render.OutputLayer {
	if b.closed || output == nil {
		return nil
	}
	st := b.planes(output)
	if st.cursor == nil {
		return nil
	}
	return st.cursor.layer
}

// UpdateCursorLayer implements backend.RenderBackend. The new cursor plane
// state becomes visible with the next Present.
func (b *Backend) UpdateCursorLayer(output *render.Output) bool {
	st, ok := b.outputs[output]
	if b.closed || !ok || st.cursor == nil {
		return false
	}
	st.cursorUpdates++
	return true
}

// Present implements backend.RenderBackend. It composes the primary and
// cursor planes into the display image and completes the frame on the
// output's loop.
func (b *Backend) Present(output *render.Output, frame *render.OutputFrame) error {
	if b.closed {
		return ErrClosed
	}
	st, ok := b.outputs[output]
	if !ok {
		return fmt.Errorf("software: present on unknown output %q", output.Name())
	}

	size := output.PixelSize()
	if st.display == nil || st.display.Bounds().Size() != size {
		st.display = image.NewRGBA(image.Rectangle{Max: size})
	}
	bounds := st.display.Bounds()
	if src := st.primary.front(); src != nil {
		draw.Draw(st.display, bounds, src, src.Bounds().Min, draw.Src)
	}
	if c := st.cursor; c != nil && c.layer.IsEnabled() {
		if src := c.front(); src != nil {
			dst := image.Rectangle{Max: c.layer.Size()}.Add(c.layer.Position())
			draw.Draw(st.display, dst, src, src.Bounds().Min, draw.Over)
		}
	}
	st.presented++

	ts := output.RenderLoop().NextPresentationTimestamp()
	if frame != nil && frame.TargetPresentationTimestamp() > ts {
		ts = frame.TargetPresentationTimestamp()
	}
	output.RenderLoop().FrameCompleted(ts)
	return nil
}

// SimulateGraphicsReset makes the next CheckGraphicsReset report a lost
// context.
func (b *Backend) SimulateGraphicsReset() { b.resetPending = true }

// CheckGraphicsReset implements backend.RenderBackend.
func (b *Backend) CheckGraphicsReset() bool {
	if !b.resetPending {
		return false
	}
	b.resetPending = false
	return true
}

// Snapshot returns a copy of the last presented image of output, or nil if
// nothing has been presented on it.
func (b *Backend) Snapshot(output *render.Output) *image.RGBA {
	st, ok := b.outputs[output]
	if !ok || st.display == nil {
		return nil
	}
	img := image.NewRGBA(st.display.Bounds())
	copy(img.Pix, st.display.Pix)
	return img
}

// Presented returns the number of frames presented on output.
func (b *Backend) Presented(output *render.Output) int {
	if st, ok := b.outputs[output]; ok {
		return st.presented
	}
	return 0
}

// CursorUpdates returns how often the cursor plane of output was committed.
func (b *Backend) CursorUpdates(output *render.Output) int {
	if st, ok := b.outputs[output]; ok {
		return st.cursorUpdates
	}
	return 0
}

// ReleaseOutput implements backend.OutputReleaser. The planes of output are
// destroyed.
func (b *Backend) ReleaseOutput(output *render.Output) {
	st, ok := b.outputs[output]
	if !ok {
		return
	}
	st.destroy()
	delete(b.outputs, output)
}

// Close implements backend.RenderBackend. All planes are destroyed.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	for output, st := range b.outputs {
		st.destroy()
		delete(b.outputs, output)
	}
	b.closed = true
	return nil
}

func (st *outputPlanes) destroy() {
	st.primary.layer.Destroy()
	if st.cursor != nil {
		st.cursor.layer.Destroy()
	}
}

// Ensure Backend implements the backend interfaces.
var (
	_ backend.RenderBackend  = (*Backend)(nil)
	_ backend.OutputReleaser = (*Backend)(nil)
)
