package backend

import (
	"github.com/gogpu/compositor/render"
)

// CompositingType identifies the rendering technology of a backend.
type CompositingType uint8

// Compositing types.
const (
	NoCompositing CompositingType = iota
	SoftwareCompositing
	OpenGLCompositing
	VulkanCompositing
)

// String returns a human-readable name for the compositing type.
func (c CompositingType) String() string {
	switch c {
	case NoCompositing:
		return "None"
	case SoftwareCompositing:
		return "Software"
	case OpenGLCompositing:
		return "OpenGL"
	case VulkanCompositing:
		return "Vulkan"
	default:
		return "Unknown"
	}
}

// RenderBackend is the interface for render backends.
// It owns the output planes and hands finished frames to the display.
//
// Backends must be registered via Register() and are selected via
// New() or NewByName().
type RenderBackend interface {
	// Name returns the backend identifier (e.g., "software").
	Name() string

	// CompositingType returns the rendering technology used by the backend.
	CompositingType() CompositingType

	// PrimaryLayer returns the main framebuffer plane of output.
	// Returns nil if the output is unknown to the backend.
	PrimaryLayer(output *render.Output) *render.OutputLayer

	// CursorLayer returns the cursor plane of output, or nil if the output
	// has no usable cursor plane.
	CursorLayer(output *render.Output) *render.OutputLayer

	// UpdateCursorLayer commits position and content changes of the cursor
	// plane. It reports false if the plane could not be updated, in which
	// case the caller falls back to a software cursor.
	UpdateCursorLayer(output *render.Output) bool

	// Present shows the frame on output. It is called once per frame, even
	// if nothing was painted, and completes the frame on the output's loop.
	// A frame that fails to present is not completed; the compositor resets
	// the loop instead.
	Present(output *render.Output, frame *render.OutputFrame) error

	// CheckGraphicsReset reports whether the rendering context was lost
	// since the last call.
	CheckGraphicsReset() bool

	// Close releases all backend resources and destroys every OutputLayer
	// handed out. The backend must not be used after Close.
	Close() error
}

// OutputReleaser is implemented by backends that keep per-output state.
// The compositor calls ReleaseOutput when an output is removed.
type OutputReleaser interface {
	ReleaseOutput(output *render.Output)
}
