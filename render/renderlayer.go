// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"slices"
	"weak"

	"github.com/gogpu/compositor/region"
)

// RenderLayer is a node in the tree of compositable layers of one output.
//
// Geometry is expressed in the superlayer's coordinate space; the root's
// coordinate space is the output-local ("global") space. A layer owns its
// sublayers and its delegate; the OutputLayer it paints into is borrowed from
// the backend and inherited by all sublayers.
//
// Visibility has two parts: the explicit flag set with SetVisible and the
// effective visibility, which additionally requires every ancestor to be
// effectively visible. Damage is only accepted while effectively visible.
//
// RenderLayer is NOT safe for concurrent use; the whole tree belongs to the
// compositor's goroutine.
type RenderLayer struct {
	loop     RenderLoop
	delegate RenderLayerDelegate

	outputLayer weak.Pointer[OutputLayer]

	superlayer *RenderLayer
	sublayers  []*RenderLayer

	geometry     image.Rectangle
	boundingRect image.Rectangle

	repaints         region.Region
	repaintScheduled bool

	explicitVisible  bool
	effectiveVisible bool
	destroyed        bool
}

// NewRenderLayer creates a visible root layer driven by loop.
func NewRenderLayer(loop RenderLoop) *RenderLayer {
	return &RenderLayer{
		loop:             loop,
		explicitVisible:  true,
		effectiveVisible: true,
	}
}

// Loop returns the render loop notified about repaints.
func (l *RenderLayer) Loop() RenderLoop { return l.loop }

// Delegate returns the delegate painting the layer.
func (l *RenderLayer) Delegate() RenderLayerDelegate { return l.delegate }

// SetDelegate replaces the delegate. The previous delegate is detached.
func (l *RenderLayer) SetDelegate(delegate RenderLayerDelegate) {
	if l.delegate == delegate {
		return
	}
	if l.delegate != nil {
		l.delegate.attach(nil)
	}
	l.delegate = delegate
	if delegate != nil {
		delegate.attach(l)
	}
	l.AddRepaintFull()
}

// OutputLayer returns the plane the layer paints into, or nil if none is
// assigned or the assigned one has been destroyed.
func (l *RenderLayer) OutputLayer() *OutputLayer {
	ol := l.outputLayer.Value()
	if ol == nil || ol.IsDestroyed() {
		return nil
	}
	return ol
}

// SetOutputLayer assigns the plane the layer and all its sublayers paint into.
//
// The area the layer occupied is repainted on the previous plane so that
// whatever owns that plane now redraws it.
func (l *RenderLayer) SetOutputLayer(layer *OutputLayer) {
	if l.outputLayer.Value() == layer {
		return
	}
	l.flushBoundingRect()
	l.assignOutputLayer(layer)
}

// assignOutputLayer switches the subtree to layer without repainting the
// area it leaves on the previous plane. The caller flushes that area first,
// while the layer still sits at its old place.
func (l *RenderLayer) assignOutputLayer(layer *OutputLayer) {
	if l.outputLayer.Value() == layer {
		return
	}
	if layer == nil {
		l.outputLayer = weak.Pointer[OutputLayer]{}
	} else {
		l.outputLayer = weak.Make(layer)
	}
	for _, sublayer := range slices.Clone(l.sublayers) {
		sublayer.assignOutputLayer(layer)
	}
	if layer != nil {
		l.AddRepaintFull()
	}
}

// Superlayer returns the parent layer, nil for a root.
func (l *RenderLayer) Superlayer() *RenderLayer { return l.superlayer }

// Sublayers returns a snapshot of the child layers in paint order.
func (l *RenderLayer) Sublayers() []*RenderLayer { return slices.Clone(l.sublayers) }

// SetSuperlayer moves the layer under superlayer, appending it to the end of
// the sublayer list. Passing nil makes the layer a root.
//
// The layer is detached from its previous parent first, then attached, and
// only then are visibility and bounding rects recomputed.
func (l *RenderLayer) SetSuperlayer(superlayer *RenderLayer) {
	if l.superlayer == superlayer {
		return
	}
	if superlayer != nil && superlayer.isDescendantOf(l) {
		slogger().Error("render layer cannot become a sublayer of its own subtree")
		return
	}

	var inherited *OutputLayer
	if superlayer != nil {
		inherited = superlayer.OutputLayer()
	}
	switchPlane := inherited != nil && inherited != l.OutputLayer()

	if old := l.superlayer; old != nil {
		l.flushBoundingRect()
		old.removeSublayer(l)
		l.superlayer = nil
		old.updateBoundingRect()
	} else if switchPlane {
		l.flushBoundingRect()
	}

	l.superlayer = superlayer
	if superlayer != nil {
		superlayer.sublayers = append(superlayer.sublayers, l)
		if switchPlane {
			l.assignOutputLayer(inherited)
		}
		superlayer.updateBoundingRect()
	}

	l.updateEffectiveVisibility()
	if l.effectiveVisible {
		l.AddRepaint(region.FromRect(l.boundingRect))
	}
}

func (l *RenderLayer) removeSublayer(sublayer *RenderLayer) {
	if i := slices.Index(l.sublayers, sublayer); i >= 0 {
		l.sublayers = slices.Delete(l.sublayers, i, i+1)
	}
}

func (l *RenderLayer) isDescendantOf(ancestor *RenderLayer) bool {
	for p := l; p != nil; p = p.superlayer {
		if p == ancestor {
			return true
		}
	}
	return false
}

// Geometry returns the layer rectangle in superlayer coordinates.
func (l *RenderLayer) Geometry() image.Rectangle { return l.geometry }

// Rect returns the layer rectangle in its own coordinates.
func (l *RenderLayer) Rect() image.Rectangle {
	return image.Rect(0, 0, l.geometry.Dx(), l.geometry.Dy())
}

// BoundingRect returns the union of Rect and the bounding rects of all
// sublayers, in the layer's own coordinates.
func (l *RenderLayer) BoundingRect() image.Rectangle { return l.boundingRect }

// SetGeometry moves or resizes the layer.
//
// The area covered before the change is repainted on the output layer and
// the layer is repainted in full at its new place.
func (l *RenderLayer) SetGeometry(rect image.Rectangle) {
	rect = rect.Canon()
	if l.geometry == rect {
		return
	}
	l.flushBoundingRect()
	l.geometry = rect
	l.updateBoundingRect()
	if l.superlayer != nil {
		l.superlayer.updateBoundingRect()
	}
	l.AddRepaint(region.FromRect(l.boundingRect))
}

func (l *RenderLayer) updateBoundingRect() {
	bounds := l.Rect()
	for _, sublayer := range l.sublayers {
		bounds = bounds.Union(sublayer.boundingRect.Add(sublayer.geometry.Min))
	}
	if bounds == l.boundingRect {
		return
	}
	l.boundingRect = bounds
	if l.superlayer != nil {
		l.superlayer.updateBoundingRect()
	}
}

// IsVisible reports the effective visibility of the layer.
func (l *RenderLayer) IsVisible() bool { return l.effectiveVisible }

// IsExplicitlyVisible reports the value last passed to SetVisible.
func (l *RenderLayer) IsExplicitlyVisible() bool { return l.explicitVisible }

// SetVisible shows or hides the layer and, through effective visibility,
// its whole subtree.
func (l *RenderLayer) SetVisible(visible bool) {
	if l.explicitVisible == visible {
		return
	}
	l.explicitVisible = visible
	l.updateEffectiveVisibility()
}

func (l *RenderLayer) computeEffectiveVisibility() bool {
	return l.explicitVisible && (l.superlayer == nil || l.superlayer.effectiveVisible)
}

func (l *RenderLayer) updateEffectiveVisibility() {
	visible := l.computeEffectiveVisibility()
	if l.effectiveVisible == visible {
		return
	}
	if visible {
		l.effectiveVisible = true
		l.AddRepaintFull()
	} else {
		l.flushBoundingRect()
		l.effectiveVisible = false
		l.repaints = region.Region{}
		l.repaintScheduled = false
	}
	for _, sublayer := range slices.Clone(l.sublayers) {
		sublayer.updateEffectiveVisibility()
	}
}

// flushBoundingRect repaints the area covered by the layer and its subtree on
// the output layer. It is how a layer hands back screen area it stops covering.
func (l *RenderLayer) flushBoundingRect() {
	if !l.effectiveVisible {
		return
	}
	ol := l.OutputLayer()
	if ol == nil || l.boundingRect.Empty() {
		return
	}
	ol.AddRepaint(l.MapToGlobal(region.FromRect(l.boundingRect)))
	if l.loop != nil {
		l.loop.ScheduleRepaint(nil)
	}
}

// Repaints returns the pending damage of this layer alone, in layer coordinates.
func (l *RenderLayer) Repaints() region.Region { return l.repaints }

// ResetRepaints drops the pending damage and any scheduled repaint.
func (l *RenderLayer) ResetRepaints() {
	l.repaints = region.Region{}
	l.repaintScheduled = false
}

// AddRepaint adds damage in layer coordinates and asks the loop for a frame.
// Invisible layers ignore damage.
func (l *RenderLayer) AddRepaint(r region.Region) {
	if !l.effectiveVisible || r.IsEmpty() {
		return
	}
	l.repaints = l.repaints.Union(r)
	if l.loop != nil {
		l.loop.ScheduleRepaint(nil)
	}
}

// AddRepaintRect adds the damage rect in layer coordinates.
func (l *RenderLayer) AddRepaintRect(rect image.Rectangle) {
	l.AddRepaint(region.FromRect(rect))
}

// AddRepaintXYWH adds the damage rectangle at (x, y) with the given size.
func (l *RenderLayer) AddRepaintXYWH(x, y, width, height int) {
	l.AddRepaint(region.Rect(x, y, width, height))
}

// AddRepaintFull damages the whole layer rectangle.
func (l *RenderLayer) AddRepaintFull() {
	l.AddRepaint(region.FromRect(l.Rect()))
}

// ScheduleRepaint asks for a frame on behalf of item without adding damage,
// e.g. because the item waits for a frame callback.
func (l *RenderLayer) ScheduleRepaint(item Item) {
	if !l.effectiveVisible {
		return
	}
	l.repaintScheduled = true
	if l.loop != nil {
		l.loop.ScheduleRepaint(item)
	}
}

// NeedsRepaint reports whether the layer or any layer below it, visible or
// not, has pending damage or a scheduled repaint.
func (l *RenderLayer) NeedsRepaint() bool {
	if l.repaintScheduled || !l.repaints.IsEmpty() {
		return true
	}
	for _, sublayer := range l.sublayers {
		if sublayer.NeedsRepaint() {
			return true
		}
	}
	return false
}

// globalOffset returns the position of the layer origin in root coordinates.
func (l *RenderLayer) globalOffset() image.Point {
	var offset image.Point
	for p := l; p != nil; p = p.superlayer {
		offset = offset.Add(p.geometry.Min)
	}
	return offset
}

// MapToGlobal converts a region from layer to root coordinates.
func (l *RenderLayer) MapToGlobal(r region.Region) region.Region {
	return r.Translated(l.globalOffset())
}

// MapToGlobalRect converts a rectangle from layer to root coordinates.
func (l *RenderLayer) MapToGlobalRect(rect image.Rectangle) image.Rectangle {
	return rect.Add(l.globalOffset())
}

// MapFromGlobal converts a region from root to layer coordinates.
func (l *RenderLayer) MapFromGlobal(r region.Region) region.Region {
	return r.Translated(image.Point{}.Sub(l.globalOffset()))
}

// MapFromGlobalRect converts a rectangle from root to layer coordinates.
func (l *RenderLayer) MapFromGlobalRect(rect image.Rectangle) image.Rectangle {
	return rect.Sub(l.globalOffset())
}

// Destroy tears the layer down.
//
// The covered area is repainted on the output layer, sublayers are handed to
// the superlayer (or become roots) in their current order, the layer leaves
// its superlayer and the delegate is detached.
func (l *RenderLayer) Destroy() {
	if l.destroyed {
		return
	}
	l.flushBoundingRect()
	for _, sublayer := range slices.Clone(l.sublayers) {
		sublayer.SetSuperlayer(l.superlayer)
	}
	l.SetSuperlayer(nil)
	if l.delegate != nil {
		l.delegate.attach(nil)
		l.delegate = nil
	}
	l.destroyed = true
}

// IsDestroyed reports whether Destroy was called.
func (l *RenderLayer) IsDestroyed() bool { return l.destroyed }
