// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image"

	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
)

// Delegate presents a Scene through a RenderLayer.
//
// The layer's coordinate space is the delegate's viewport moved to the
// origin: the output geometry when the delegate is bound to an output,
// otherwise the scene geometry.
type Delegate struct {
	render.DelegateBase

	scene  Scene
	output *render.Output
}

// NewDelegate creates a delegate for scene and registers it with the scene.
// output may be nil for delegates that are not tied to one output.
func NewDelegate(scene Scene, output *render.Output) *Delegate {
	d := &Delegate{scene: scene, output: output}
	scene.base().addDelegate(d)
	return d
}

// Close unregisters the delegate from its scene.
func (d *Delegate) Close() {
	d.scene.base().removeDelegate(d)
}

// Scene returns the presented scene.
func (d *Delegate) Scene() Scene { return d.scene }

// Output returns the output the delegate is bound to, or nil.
func (d *Delegate) Output() *render.Output { return d.output }

// Scale returns the device scale of the bound output, 1 without one.
func (d *Delegate) Scale() float64 {
	if d.output == nil {
		return 1
	}
	return d.output.Scale()
}

// Viewport returns the part of the scene shown, in scene coordinates.
func (d *Delegate) Viewport() image.Rectangle {
	if d.output == nil {
		return d.scene.Geometry()
	}
	return d.output.Geometry()
}

// PrePaint lets the scene prepare and returns its damage in layer coordinates.
func (d *Delegate) PrePaint() region.Region {
	viewport := d.Viewport()
	dirty := d.scene.PrePaint(d).IntersectedRect(viewport)
	return dirty.Translated(image.Point{}.Sub(viewport.Min))
}

// Paint renders the scene. r is in layer coordinates and is moved into scene
// coordinates, except for the infinite region which passes unchanged.
func (d *Delegate) Paint(target render.RenderTarget, r region.Region) {
	if !r.IsInfinite() {
		r = r.Translated(d.Viewport().Min)
	}
	d.scene.Paint(d, target, r)
}

// PostPaint forwards to the scene.
func (d *Delegate) PostPaint() { d.scene.PostPaint(d) }

// Frame forwards to the scene.
func (d *Delegate) Frame(frame *render.OutputFrame) { d.scene.Frame(d, frame) }

// ScanoutCandidate asks the scene for a surface covering the viewport.
func (d *Delegate) ScanoutCandidate() render.SurfaceItem { return d.scene.ScanoutCandidate(d) }

// Ensure Delegate implements render.RenderLayerDelegate.
var _ render.RenderLayerDelegate = (*Delegate)(nil)
