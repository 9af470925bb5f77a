// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/compositor/region"
)

// BeginFrameInfo is returned by OutputLayer.BeginFrame when the layer can be
// painted this cycle.
type BeginFrameInfo struct {
	// Target receives the paint calls of the frame.
	Target RenderTarget

	// Repaint is extra damage the target needs beyond the accumulated
	// repaints, e.g. because its buffer content is older than the last frame.
	Repaint region.Region
}

// OutputLayerBackend is implemented by render backends to drive one
// hardware plane. OutputLayer adds the backend-independent bookkeeping.
type OutputLayerBackend interface {
	// BeginFrame prepares a target. ok is false if nothing can be painted.
	BeginFrame() (info BeginFrameInfo, ok bool)

	// EndFrame finishes the frame started by BeginFrame.
	EndFrame(rendered, damaged region.Region) bool

	// DoAttemptScanout puts the buffer of item directly on the plane.
	// The format has already been checked against SupportedFormats.
	DoAttemptScanout(item SurfaceItem) bool

	// SupportedFormats returns the formats the plane can scan out.
	SupportedFormats() FormatTable

	// ScanoutDevice returns the device scan-out buffers must live on.
	ScanoutDevice() DeviceHandle
}

// OutputLayer represents one hardware-compositable plane of one output,
// such as the primary framebuffer or the cursor plane.
//
// OutputLayers are owned by the backend. RenderLayers only refer to them
// weakly, and stop seeing a layer once Destroy has been called.
type OutputLayer struct {
	impl OutputLayerBackend

	scale     float64
	hotspot   image.Point
	size      image.Point
	position  image.Point
	repaints  region.Region
	enabled   bool
	fixedSize *image.Point

	scanoutCandidate SurfaceItem
	destroyed        bool
}

// NewOutputLayer wraps a backend plane implementation.
func NewOutputLayer(impl OutputLayerBackend) *OutputLayer {
	return &OutputLayer{impl: impl, scale: 1}
}

// Backend returns the plane implementation.
func (l *OutputLayer) Backend() OutputLayerBackend { return l.impl }

// Scale returns the scale the layer content is rendered at.
func (l *OutputLayer) Scale() float64 { return l.scale }

// SetScale sets the scale the layer content is rendered at.
func (l *OutputLayer) SetScale(scale float64) { l.scale = scale }

// Hotspot returns the hotspot, meaningful for cursor planes.
func (l *OutputLayer) Hotspot() image.Point { return l.hotspot }

// SetHotspot sets the hotspot in layer pixels.
func (l *OutputLayer) SetHotspot(hotspot image.Point) { l.hotspot = hotspot }

// Size returns the size of the layer in device pixels.
func (l *OutputLayer) Size() image.Point { return l.size }

// SetSize resizes the layer. It has no effect on layers with a fixed size.
func (l *OutputLayer) SetSize(size image.Point) {
	if l.fixedSize != nil {
		return
	}
	l.size = size
}

// FixedSize returns the only size the plane supports, if it has one.
func (l *OutputLayer) FixedSize() (image.Point, bool) {
	if l.fixedSize == nil {
		return image.Point{}, false
	}
	return *l.fixedSize, true
}

// SetFixedSize pins the layer to size. Called by backends for planes that
// cannot be resized, like most hardware cursor planes.
func (l *OutputLayer) SetFixedSize(size image.Point) {
	l.fixedSize = &size
	l.size = size
}

// Position returns the position of the layer in device pixels.
func (l *OutputLayer) Position() image.Point { return l.position }

// SetPosition moves the layer.
func (l *OutputLayer) SetPosition(position image.Point) { l.position = position }

// IsEnabled reports whether the plane is shown.
func (l *OutputLayer) IsEnabled() bool { return l.enabled }

// SetEnabled shows or hides the plane.
func (l *OutputLayer) SetEnabled(enabled bool) { l.enabled = enabled }

// AddRepaint accumulates damage to be painted in the next frame.
func (l *OutputLayer) AddRepaint(r region.Region) {
	if r.IsEmpty() {
		return
	}
	l.repaints = l.repaints.Union(r)
}

// Repaints returns the accumulated, not yet painted damage.
func (l *OutputLayer) Repaints() region.Region { return l.repaints }

// ResetRepaints clears the accumulated damage after it has been painted.
func (l *OutputLayer) ResetRepaints() { l.repaints = region.Region{} }

// NeedsRepaint reports whether damage is pending.
func (l *OutputLayer) NeedsRepaint() bool { return !l.repaints.IsEmpty() }

// BeginFrame asks the backend for a target. ok is false when the layer
// cannot or need not be painted this cycle.
func (l *OutputLayer) BeginFrame() (BeginFrameInfo, bool) {
	if l.destroyed {
		return BeginFrameInfo{}, false
	}
	return l.impl.BeginFrame()
}

// EndFrame finishes the current frame. rendered is the region actually
// painted into the target, damaged the region that changed on screen.
func (l *OutputLayer) EndFrame(rendered, damaged region.Region) bool {
	if l.destroyed {
		return false
	}
	return l.impl.EndFrame(rendered, damaged)
}

// SupportedFormats returns the formats the plane can scan out.
func (l *OutputLayer) SupportedFormats() FormatTable { return l.impl.SupportedFormats() }

// ScanoutCandidate returns the last surface offered for scan-out in a format
// the plane did not support.
func (l *OutputLayer) ScanoutCandidate() SurfaceItem { return l.scanoutCandidate }

// AttemptScanout tries to present the buffer of item directly on the plane.
//
// If the buffer format or modifier is not supported the item becomes the
// layer's scan-out candidate and is told which formats would work; false is
// returned and the caller composites as usual. On success the item's damage
// is consumed and its composited pixmap released.
func (l *OutputLayer) AttemptScanout(item SurfaceItem) bool {
	if l.destroyed || item == nil {
		return false
	}
	formats := l.impl.SupportedFormats()
	if !formats.Supports(item.BufferFormat(), item.BufferModifier()) {
		if l.scanoutCandidate != nil && l.scanoutCandidate != item {
			l.scanoutCandidate.SetScanoutHint(nil, nil)
		}
		l.scanoutCandidate = item
		item.SetScanoutHint(l.impl.ScanoutDevice(), formats)
		slogger().Debug("scan-out refused: unsupported buffer",
			"format", item.BufferFormat(), "modifier", item.BufferModifier())
		return false
	}
	if !l.impl.DoAttemptScanout(item) {
		slogger().Debug("scan-out refused by plane")
		return false
	}
	item.ResetDamage()
	item.DestroyPixmap()
	return true
}

// NotifyNoScanoutCandidate clears the scan-out hint of the previous candidate.
// The compositor calls it on every frame without a candidate.
func (l *OutputLayer) NotifyNoScanoutCandidate() {
	if l.scanoutCandidate != nil {
		l.scanoutCandidate.SetScanoutHint(nil, nil)
		l.scanoutCandidate = nil
	}
}

// Destroy marks the plane as gone. RenderLayers referring to it read a nil
// output layer from now on.
func (l *OutputLayer) Destroy() {
	l.NotifyNoScanoutCandidate()
	l.destroyed = true
	l.repaints = region.Region{}
}

// IsDestroyed reports whether Destroy was called.
func (l *OutputLayer) IsDestroyed() bool { return l.destroyed }
