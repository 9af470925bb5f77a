package compositor

import (
	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
)

// The passes walk the layer tree depth-first, parent before children, over a
// snapshot of each sublayer list. Layers must not be added or removed while
// a pass runs.

// prePaintPass collects the pending damage of layer and its visible
// sublayers, in global coordinates, into damage and resets it.
func prePaintPass(layer *render.RenderLayer, damage region.Region) region.Region {
	damage = damage.Union(layer.MapToGlobal(layer.Repaints()))
	layer.ResetRepaints()

	if d := layer.Delegate(); d != nil {
		damage = damage.Union(layer.MapToGlobal(d.PrePaint()))
	}

	for _, sublayer := range layer.Sublayers() {
		if sublayer.IsVisible() {
			damage = prePaintPass(sublayer, damage)
		}
	}
	return damage
}

// paintPass paints damage of layer and its visible sublayers into target.
func paintPass(layer *render.RenderLayer, target render.RenderTarget, damage region.Region) {
	if d := layer.Delegate(); d != nil {
		d.Paint(target, damage)
	}

	for _, sublayer := range layer.Sublayers() {
		if sublayer.IsVisible() {
			paintPass(sublayer, target, damage)
		}
	}
}

func postPaintPass(layer *render.RenderLayer) {
	if d := layer.Delegate(); d != nil {
		d.PostPaint()
	}

	for _, sublayer := range layer.Sublayers() {
		if sublayer.IsVisible() {
			postPaintPass(sublayer)
		}
	}
}

// framePass tells every layer, visible or not, that frame was presented.
func framePass(layer *render.RenderLayer, frame *render.OutputFrame) {
	if d := layer.Delegate(); d != nil {
		d.Frame(frame)
	}

	for _, sublayer := range layer.Sublayers() {
		framePass(sublayer, frame)
	}
}

// hasVisibleSublayers reports whether anything is shown on top of layer's
// own content.
func hasVisibleSublayers(layer *render.RenderLayer) bool {
	for _, sublayer := range layer.Sublayers() {
		if sublayer.IsVisible() {
			return true
		}
	}
	return false
}
