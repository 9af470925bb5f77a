// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
)

// ItemRenderer draws item trees into CPU render targets.
//
// Regions and item rectangles passed to it are in scene coordinates; the
// renderer moves them by the frame origin into target coordinates and the
// target applies its device scale.
type ItemRenderer struct {
	target render.RasterTarget
	origin image.Point

	items int
}

// NewItemRenderer creates a renderer.
func NewItemRenderer() *ItemRenderer {
	return &ItemRenderer{}
}

// BeginFrame starts drawing into target, whose origin shows the scene point
// origin. It reports false if target is not CPU-backed.
func (r *ItemRenderer) BeginFrame(target render.RenderTarget, origin image.Point) bool {
	rt, ok := target.(render.RasterTarget)
	if !ok {
		slogger().Warn("item renderer needs a raster target", "format", target.Format())
		return false
	}
	r.target = rt
	r.origin = origin
	r.items = 0
	return true
}

func (r *ItemRenderer) toTarget(clip region.Region) region.Region {
	return clip.Translated(image.Point{}.Sub(r.origin))
}

// RenderBackground replaces the pixels inside clip with c.
func (r *ItemRenderer) RenderBackground(c color.Color, clip region.Region) {
	if r.target == nil {
		return
	}
	r.target.FillRegion(r.toTarget(clip), c)
}

// RenderItem draws item and its subtree, clipped to clip. Hidden and fully
// transparent items are skipped together with their subtrees. d may be nil.
func (r *ItemRenderer) RenderItem(item *Item, clip region.Region, d *Delegate) {
	if r.target == nil || clip.IsEmpty() {
		return
	}
	r.renderItem(item, r.toTarget(clip), d, 1)
}

func (r *ItemRenderer) renderItem(item *Item, clip region.Region, d *Delegate, opacity float64) {
	if !item.visible || item.opacity == 0 {
		return
	}
	if d != nil && !d.ShouldRenderItem(item.handle) {
		return
	}
	opacity *= item.opacity
	if img := item.Content(); img != nil && !item.size.Eq(image.Point{}) {
		dst := item.MapToScene(item.Rect()).Sub(r.origin)
		r.target.DrawImageAlpha(img, dst, clip, opacity)
		r.items++
	}
	for _, child := range item.children {
		r.renderItem(child, clip, d, opacity)
	}
}

// Flush ends the frame and returns the number of items drawn.
func (r *ItemRenderer) Flush() int {
	n := r.items
	r.target = nil
	r.items = 0
	return n
}
