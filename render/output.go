// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"math"
)

// Output is one physical display or a virtual stand-in for one.
//
// Geometry is expressed in global logical coordinates; Scale maps logical
// units to device pixels. Every Output owns its RenderLoop.
type Output struct {
	name        string
	geometry    image.Rectangle
	scale       float64
	loop        *Loop
	contentType ContentType

	scanoutInhibit int
	geometryFns    []func()
}

// NewOutput creates an output with a 60 Hz loop.
func NewOutput(name string, geometry image.Rectangle, scale float64) *Output {
	return NewOutputWithLoop(name, geometry, scale, NewLoop(DefaultRefreshRate))
}

// NewOutputWithLoop creates an output driven by loop.
func NewOutputWithLoop(name string, geometry image.Rectangle, scale float64, loop *Loop) *Output {
	if scale <= 0 {
		scale = 1
	}
	return &Output{
		name:     name,
		geometry: geometry.Canon(),
		scale:    scale,
		loop:     loop,
	}
}

// Name returns the connector name of the output.
func (o *Output) Name() string { return o.name }

// Geometry returns the output rectangle in global logical coordinates.
func (o *Output) Geometry() image.Rectangle { return o.geometry }

// Rect returns the output rectangle in output-local logical coordinates.
func (o *Output) Rect() image.Rectangle {
	return image.Rect(0, 0, o.geometry.Dx(), o.geometry.Dy())
}

// Scale returns the number of device pixels per logical unit.
func (o *Output) Scale() float64 { return o.scale }

// PixelSize returns the size of the output in device pixels.
func (o *Output) PixelSize() image.Point {
	return image.Pt(
		int(math.Ceil(float64(o.geometry.Dx())*o.scale)),
		int(math.Ceil(float64(o.geometry.Dy())*o.scale)),
	)
}

// RenderLoop returns the loop pacing this output.
func (o *Output) RenderLoop() *Loop { return o.loop }

// SetGeometry moves or resizes the output and notifies geometry listeners.
func (o *Output) SetGeometry(geometry image.Rectangle) {
	geometry = geometry.Canon()
	if o.geometry == geometry {
		return
	}
	o.geometry = geometry
	o.emitGeometryChanged()
}

// SetScale changes the output scale and notifies geometry listeners.
func (o *Output) SetScale(scale float64) {
	if scale <= 0 || o.scale == scale {
		return
	}
	o.scale = scale
	o.emitGeometryChanged()
}

// OnGeometryChanged registers fn to run after the geometry or scale changes.
func (o *Output) OnGeometryChanged(fn func()) {
	o.geometryFns = append(o.geometryFns, fn)
}

// ClearGeometryChanged removes every geometry listener.
func (o *Output) ClearGeometryChanged() {
	o.geometryFns = nil
}

func (o *Output) emitGeometryChanged() {
	for _, fn := range o.geometryFns {
		fn()
	}
}

// ContentType returns the content type last shown on the output.
func (o *Output) ContentType() ContentType { return o.contentType }

// SetContentType records the content type shown on the output.
func (o *Output) SetContentType(c ContentType) { o.contentType = c }

// InhibitDirectScanout forbids direct scan-out until UninhibitDirectScanout
// is called the same number of times (screen recording, color correction).
func (o *Output) InhibitDirectScanout() { o.scanoutInhibit++ }

// UninhibitDirectScanout reverts one InhibitDirectScanout call.
func (o *Output) UninhibitDirectScanout() {
	if o.scanoutInhibit > 0 {
		o.scanoutInhibit--
	}
}

// DirectScanoutInhibited reports whether direct scan-out is forbidden.
func (o *Output) DirectScanoutInhibited() bool { return o.scanoutInhibit > 0 }

// MapFromGlobal converts a rectangle in global coordinates to output-local ones.
func (o *Output) MapFromGlobal(rect image.Rectangle) image.Rectangle {
	return rect.Sub(o.geometry.Min)
}
