// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image"
	"slices"

	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
)

// Scene is an item tree that can be shown on any number of outputs.
//
// Each output views the scene through a Delegate; the scene fans damage out
// to the delegates and paints on their behalf. Concrete scenes embed Base and
// call Base.Init with themselves from their constructor.
type Scene interface {
	// Geometry returns the logical bounds of the scene in global coordinates.
	Geometry() image.Rectangle

	// SetGeometry changes the bounds and repaints the scene if they changed.
	SetGeometry(rect image.Rectangle)

	// AddRepaint damages r (scene coordinates) in every delegate viewport.
	AddRepaint(r region.Region)

	// AddRepaintFull damages the whole scene geometry.
	AddRepaintFull()

	// Delegates returns the registered delegates.
	Delegates() []*Delegate

	// Root returns the root item.
	Root() *Item

	// PrePaint prepares painting for d and returns damage in scene coordinates.
	PrePaint(d *Delegate) region.Region

	// Paint renders the part of the scene inside r (scene coordinates).
	Paint(d *Delegate, target render.RenderTarget, r region.Region)

	// PostPaint runs after painting for d.
	PostPaint(d *Delegate)

	// Frame runs once the frame painted for d has been presented.
	Frame(d *Delegate, frame *render.OutputFrame)

	// ScanoutCandidate returns a surface that could replace composition of
	// d's viewport, or nil.
	ScanoutCandidate(d *Delegate) render.SurfaceItem

	base() *Base
}

// Base implements the delegate registry, geometry and damage fan-out of a
// Scene, plus no-op PrePaint, PostPaint, Frame and ScanoutCandidate.
type Base struct {
	self      Scene
	geometry  image.Rectangle
	delegates []*Delegate
	root      *Item
}

// Init binds the base to the scene embedding it and creates the root item.
// It must be called once, before the scene is used.
func (b *Base) Init(self Scene) {
	b.self = self
	b.root = NewItem(self, nil)
}

func (b *Base) base() *Base { return b }

// Geometry returns the logical bounds of the scene.
func (b *Base) Geometry() image.Rectangle { return b.geometry }

// SetGeometry changes the bounds and schedules a full repaint if they changed.
func (b *Base) SetGeometry(rect image.Rectangle) {
	rect = rect.Canon()
	if b.geometry == rect {
		return
	}
	b.geometry = rect
	b.AddRepaintFull()
}

// Root returns the root item.
func (b *Base) Root() *Item { return b.root }

// Delegates returns a snapshot of the registered delegates.
func (b *Base) Delegates() []*Delegate { return slices.Clone(b.delegates) }

// AddRepaint clips r to each delegate viewport, moves it into the delegate's
// layer coordinates and adds it to that layer.
func (b *Base) AddRepaint(r region.Region) {
	if r.IsEmpty() {
		return
	}
	for _, d := range b.delegates {
		layer := d.Layer()
		if layer == nil {
			continue
		}
		viewport := d.Viewport()
		dirty := r.IntersectedRect(viewport)
		if dirty.IsEmpty() {
			continue
		}
		layer.AddRepaint(dirty.Translated(image.Point{}.Sub(viewport.Min)))
	}
}

// AddRepaintFull damages the whole scene geometry.
func (b *Base) AddRepaintFull() {
	b.AddRepaint(region.FromRect(b.geometry))
}

// PrePaint reports no damage.
func (b *Base) PrePaint(*Delegate) region.Region { return region.Region{} }

// PostPaint does nothing.
func (b *Base) PostPaint(*Delegate) {}

// Frame does nothing.
func (b *Base) Frame(*Delegate, *render.OutputFrame) {}

// ScanoutCandidate returns nil.
func (b *Base) ScanoutCandidate(*Delegate) render.SurfaceItem { return nil }

func (b *Base) addDelegate(d *Delegate) {
	b.delegates = append(b.delegates, d)
}

func (b *Base) removeDelegate(d *Delegate) {
	i := slices.Index(b.delegates, d)
	if i < 0 {
		return
	}
	b.delegates = slices.Delete(b.delegates, i, i+1)
	if b.root != nil {
		b.root.forgetDelegate(d)
	}
}
