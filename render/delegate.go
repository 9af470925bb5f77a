// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/compositor/region"

// RenderLayerDelegate decides what a RenderLayer paints.
//
// It is the extension point for content in the compositor: scene adapters,
// the software cursor and effects all implement it. Implementations embed
// DelegateBase, which provides the layer back-reference, item hiding and
// default no-op hooks, and add a Paint method.
type RenderLayerDelegate interface {
	// Layer returns the layer owning the delegate, nil while unassigned.
	Layer() *RenderLayer

	// PrePaint runs before damage is collected. It returns damage, in layer
	// coordinates, that the delegate knows about ahead of the paint pass.
	PrePaint() region.Region

	// Paint renders the delegate content into target, touching only pixels
	// in damage (logical output coordinates).
	Paint(target RenderTarget, damage region.Region)

	// PostPaint runs after the paint pass, whether or not anything was painted.
	PostPaint()

	// Frame runs once the frame has been handed to the backend.
	Frame(frame *OutputFrame)

	// ScanoutCandidate returns a surface that could be presented directly
	// instead of compositing the layer, or nil.
	ScanoutCandidate() SurfaceItem

	// HideItem stops item from being painted by this delegate.
	HideItem(item Item)

	// ShowItem reverts HideItem.
	ShowItem(item Item)

	// ShouldRenderItem reports whether item is painted by this delegate.
	ShouldRenderItem(item Item) bool

	attach(layer *RenderLayer)
}

// DelegateBase implements every RenderLayerDelegate method except Paint.
// Embed it in concrete delegates.
type DelegateBase struct {
	layer       *RenderLayer
	hiddenItems map[Item]struct{}
}

// Layer returns the layer owning the delegate.
func (d *DelegateBase) Layer() *RenderLayer { return d.layer }

func (d *DelegateBase) attach(layer *RenderLayer) { d.layer = layer }

// PrePaint reports no extra damage.
func (d *DelegateBase) PrePaint() region.Region { return region.Region{} }

// PostPaint does nothing.
func (d *DelegateBase) PostPaint() {}

// Frame does nothing.
func (d *DelegateBase) Frame(*OutputFrame) {}

// ScanoutCandidate returns nil.
func (d *DelegateBase) ScanoutCandidate() SurfaceItem { return nil }

// HideItem stops item from being painted and repaints the area it covered.
// Hiding an already hidden item does nothing.
func (d *DelegateBase) HideItem(item Item) {
	if _, ok := d.hiddenItems[item]; ok {
		return
	}
	if d.hiddenItems == nil {
		d.hiddenItems = make(map[Item]struct{})
	}
	d.hiddenItems[item] = struct{}{}
	item.ScheduleSceneRepaint(item.Rect())
}

// ShowItem makes a hidden item paint again and repaints its area.
// Showing an item that is not hidden does nothing.
func (d *DelegateBase) ShowItem(item Item) {
	if _, ok := d.hiddenItems[item]; !ok {
		return
	}
	delete(d.hiddenItems, item)
	item.ScheduleSceneRepaint(item.Rect())
}

// ShouldRenderItem reports whether item is not hidden.
func (d *DelegateBase) ShouldRenderItem(item Item) bool {
	_, hidden := d.hiddenItems[item]
	return !hidden
}
