package compositor

import (
	"image"
	"math"

	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/compositor/scene"
)

// cursorDelegate paints the cursor image into the software cursor layer.
type cursorDelegate struct {
	render.DelegateBase
	compositor *Compositor
}

// Paint draws the cursor over the layer rectangle, clipped to damage.
func (d *cursorDelegate) Paint(target render.RenderTarget, damage region.Region) {
	layer := d.Layer()
	cursor := d.compositor.opts.cursor
	if layer == nil || cursor == nil || cursor.Image() == nil {
		return
	}
	rt, ok := target.(render.RasterTarget)
	if !ok {
		slogger().Warn("software cursor needs a raster target", "format", target.Format())
		return
	}
	rt.DrawImage(cursor.Image(), layer.MapToGlobalRect(layer.Rect()), damage)
}

// Ensure cursorDelegate implements render.RenderLayerDelegate.
var _ render.RenderLayerDelegate = (*cursorDelegate)(nil)

// UpdateCursor shows the current cursor image on all outputs. Call it after
// the image changed or the cursor was hidden or shown.
func (c *Compositor) UpdateCursor() {
	c.syncCursorScene()
	if c.state != StateOn {
		return
	}
	for _, output := range c.outputs {
		if v := c.view(output); v != nil {
			c.updateCursorLayer(v)
		}
	}
}

// MoveCursor moves the cursor to its current position on all outputs.
func (c *Compositor) MoveCursor() {
	if c.state != StateOn {
		return
	}
	for _, output := range c.outputs {
		if v := c.view(output); v != nil {
			c.moveCursorLayer(v)
		}
	}
}

func (c *Compositor) syncCursorScene() {
	if cursor := c.opts.cursor; cursor != nil {
		c.cursorScene.SetCursor(cursor.Image(), cursor.Hotspot())
		return
	}
	c.cursorScene.SetCursor(nil, image.Point{})
}

// disableCursorPlane turns the hardware cursor of output off.
func (c *Compositor) disableCursorPlane(output *render.Output, plane *render.OutputLayer) {
	if plane != nil && plane.IsEnabled() {
		plane.SetEnabled(false)
		c.backend.UpdateCursorLayer(output)
	}
}

// updateCursorLayer puts the cursor on the hardware plane of the output if
// possible and on the software cursor layer otherwise. It reports whether the
// hardware plane shows the cursor.
func (c *Compositor) updateCursorLayer(v *outputView) bool {
	output := v.output
	cursor := c.opts.cursor
	plane := c.backend.CursorLayer(output)

	if !isOnOutput(cursor, output.Geometry()) {
		c.disableCursorPlane(output, plane)
		v.cursorLayer.SetVisible(false)
		return false
	}

	local := output.MapFromGlobal(cursor.Geometry())
	if c.renderHardwareCursor(v, plane, local) {
		v.cursorLayer.SetVisible(false)
		return true
	}

	c.disableCursorPlane(output, plane)
	v.cursorLayer.SetVisible(true)
	v.cursorLayer.SetGeometry(local)
	v.cursorLayer.AddRepaintFull()
	return false
}

// renderHardwareCursor renders the cursor scene into plane. local is the
// cursor rectangle in output-local logical coordinates.
func (c *Compositor) renderHardwareCursor(v *outputView, plane *render.OutputLayer, local image.Rectangle) bool {
	if plane == nil || c.opts.forceSoftwareCursor {
		return false
	}
	output := v.output
	scale := output.Scale()
	native := scaledRect(local, scale)
	bufferSize := image.Pt(
		int(math.Ceil(float64(local.Dx())*scale)),
		int(math.Ceil(float64(local.Dy())*scale)),
	)
	if fixed, ok := plane.FixedSize(); ok && (bufferSize.X > fixed.X || bufferSize.Y > fixed.Y) {
		slogger().Debug("cursor does not fit the cursor plane",
			"output", output.Name(), "size", bufferSize, "plane", fixed)
		return false
	}

	plane.SetPosition(native.Min)
	plane.SetHotspot(image.Pt(
		int(math.Round(float64(c.cursorScene.Hotspot().X)*scale)),
		int(math.Round(float64(c.cursorScene.Hotspot().Y)*scale)),
	))
	plane.SetSize(bufferSize)
	plane.SetScale(scale)

	info, ok := plane.BeginFrame()
	if !ok {
		return false
	}
	layer := render.NewRenderLayer(output.RenderLoop())
	d := scene.NewDelegate(c.cursorScene, nil)
	defer func() {
		layer.Destroy()
		d.Close()
	}()
	layer.SetDelegate(d)
	layer.SetOutputLayer(plane)
	d.PrePaint()
	d.Paint(info.Target, region.Infinite())
	d.PostPaint()
	if !plane.EndFrame(region.Infinite(), region.Infinite()) {
		return false
	}

	plane.SetEnabled(true)
	return c.backend.UpdateCursorLayer(output)
}

// moveCursorLayer follows a cursor move on one output.
func (c *Compositor) moveCursorLayer(v *outputView) {
	output := v.output
	cursor := c.opts.cursor
	onOutput := isOnOutput(cursor, output.Geometry())
	var local image.Rectangle
	if cursor != nil {
		local = output.MapFromGlobal(cursor.Geometry())
	}

	hardware := false
	if plane := c.backend.CursorLayer(output); plane != nil {
		if plane.IsEnabled() {
			plane.SetPosition(scaledRect(local, output.Scale()).Min)
			hardware = c.backend.UpdateCursorLayer(output)
		} else if !v.cursorLayer.IsVisible() && onOutput {
			// The cursor entered the output; the plane may take it again.
			hardware = c.updateCursorLayer(v)
		}
	}

	v.cursorLayer.SetVisible(onOutput && !hardware)
	if cursor != nil {
		v.cursorLayer.SetGeometry(local)
	}
	v.cursorLayer.AddRepaintFull()
}

// scaledRect maps a logical rectangle to device pixels, rounding outward.
func scaledRect(r image.Rectangle, scale float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(float64(r.Min.X)*scale)),
		int(math.Floor(float64(r.Min.Y)*scale)),
		int(math.Ceil(float64(r.Max.X)*scale)),
		int(math.Ceil(float64(r.Max.Y)*scale)),
	)
}
