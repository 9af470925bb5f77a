// Package compositor drives the render pipeline of a compositing window
// manager: it decides, frame by frame and output by output, which parts of
// the screen must be redrawn, paints them through a tree of render layers and
// hands the result to a render backend.
//
// # Overview
//
// Each output gets a super-layer, a render.RenderLayer showing the workspace
// scene through a scene.Delegate, with a cursor sublayer on top. The output's
// render.Loop calls Composite once per refresh cycle, which runs the frame
// protocol:
//
//  1. Check the backend for a graphics reset and reinitialize on one.
//  2. Assign the backend's primary plane to the super-layer.
//  3. Prepare the loop and create the OutputFrame.
//  4. If anything needs a repaint: collect damage (pre-paint pass), try
//     direct scan-out of a fullscreen surface, otherwise paint the damaged
//     area into the plane (paint pass), then run the post-paint pass.
//  5. Present, then notify every layer that the frame is done.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/compositor"
//	    "github.com/gogpu/compositor/render"
//	)
//
//	out := render.NewOutput("DP-1", image.Rect(0, 0, 1920, 1080), 1)
//	c := compositor.New(compositor.WithOutputs(out))
//	if err := c.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Stop()
//
//	w := c.Scene().AddWindow(image.Rect(100, 100, 740, 580))
//	w.Surface().Attach(buffer, region.Region{})
//	c.Dispatch()
//
// # Backends
//
// Backends are created through the backend registry. The CPU backend in
// backend/software is registered by this package and used when nothing
// better is available. Use WithBackend to pick one by name or
// WithBackendFactory to inject one.
//
// # Cursor
//
// The pointer cursor is drawn on the backend's cursor plane when the plane
// can hold it, and composited by a software cursor layer otherwise. Call
// UpdateCursor when the cursor image changes and MoveCursor when it moves.
//
// # Thread Safety
//
// A Compositor is NOT safe for concurrent use. All methods, and the loops of
// its outputs, must run on one goroutine; Run does that for all outputs.
package compositor

// Version information
const (
	// Version is the current version of the module.
	Version = "0.1.0"

	// VersionMajor is the major version.
	VersionMajor = 0

	// VersionMinor is the minor version.
	VersionMinor = 1

	// VersionPatch is the patch version.
	VersionPatch = 0
)
