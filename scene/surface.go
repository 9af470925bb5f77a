// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
)

// Buffer is a client buffer attached to a SurfaceItem.
type Buffer struct {
	// Image holds the pixels. Its bounds are the buffer size.
	Image image.Image

	// Format is the pixel format the client allocated the buffer with.
	Format gputypes.TextureFormat

	// Modifier is the memory layout modifier of the buffer.
	Modifier uint64

	// Transform is the orientation the buffer must be shown with.
	Transform render.Transform

	// Color describes the color space; the zero value means sRGB.
	Color render.ColorDescription
}

// ScanoutHint is what a surface last learned about direct scan-out.
type ScanoutHint struct {
	Device  render.DeviceHandle
	Formats render.FormatTable
}

// SurfaceItem is an item presenting a client buffer.
//
// It keeps a composited copy of the buffer (the pixmap) for the software
// renderer and exposes what an OutputLayer needs to negotiate direct scan-out.
type SurfaceItem struct {
	Item

	buffer      *Buffer
	sourceBox   image.Rectangle
	damage      region.Region
	pixmap      *image.RGBA
	opaque      region.Region
	contentType render.ContentType
	hint        ScanoutHint

	frameCallbacks []func(time.Duration)
}

// NewSurfaceItem creates a surface item under parent.
func NewSurfaceItem(scene Scene, parent *Item) *SurfaceItem {
	s := &SurfaceItem{}
	s.init(scene, parent, s)
	s.content = func() image.Image {
		if p := s.Pixmap(); p != nil {
			return p
		}
		return nil
	}
	return s
}

// Attach sets the current buffer. damage is in buffer pixels; an empty
// damage on a new buffer damages it completely.
func (s *SurfaceItem) Attach(buf *Buffer, damage region.Region) {
	s.buffer = buf
	if buf == nil {
		s.damage = region.Region{}
		s.pixmap = nil
		s.ScheduleRepaint(s.Rect())
		return
	}
	if damage.IsEmpty() {
		damage = region.FromRect(buf.Image.Bounds())
	}
	s.damage = s.damage.Union(damage)
	s.ScheduleRepaint(s.mapFromBuffer(damage.Bounds()))
}

// Buffer returns the attached buffer, or nil.
func (s *SurfaceItem) Buffer() *Buffer { return s.buffer }

// mapFromBuffer converts a rectangle in buffer pixels to item coordinates.
func (s *SurfaceItem) mapFromBuffer(rect image.Rectangle) image.Rectangle {
	src := s.BufferSourceBox()
	if src.Empty() {
		return s.Rect()
	}
	sx := float64(s.size.X) / float64(src.Dx())
	sy := float64(s.size.Y) / float64(src.Dy())
	rect = rect.Sub(src.Min)
	return image.Rect(
		int(float64(rect.Min.X)*sx), int(float64(rect.Min.Y)*sy),
		int(float64(rect.Max.X)*sx+0.999), int(float64(rect.Max.Y)*sy+0.999),
	).Intersect(s.Rect())
}

// SetSourceBox restricts the sampled part of the buffer. The zero rectangle
// samples the whole buffer.
func (s *SurfaceItem) SetSourceBox(rect image.Rectangle) {
	if s.sourceBox == rect {
		return
	}
	s.sourceBox = rect
	s.ScheduleRepaint(s.Rect())
}

// BufferSourceBox returns the sampled part of the buffer, in buffer pixels.
func (s *SurfaceItem) BufferSourceBox() image.Rectangle {
	if !s.sourceBox.Empty() || s.buffer == nil {
		return s.sourceBox
	}
	return s.buffer.Image.Bounds()
}

// DestinationSize returns the size the buffer is shown at.
func (s *SurfaceItem) DestinationSize() image.Point { return s.size }

// BufferTransform returns the buffer orientation.
func (s *SurfaceItem) BufferTransform() render.Transform {
	if s.buffer == nil {
		return render.TransformNormal
	}
	return s.buffer.Transform
}

// ColorDescription returns the color space of the buffer.
func (s *SurfaceItem) ColorDescription() render.ColorDescription {
	if s.buffer == nil || s.buffer.Color.Name == "" {
		return render.ColorSRGB
	}
	return s.buffer.Color
}

// ContentType returns the client's content hint.
func (s *SurfaceItem) ContentType() render.ContentType { return s.contentType }

// SetContentType records the client's content hint.
func (s *SurfaceItem) SetContentType(c render.ContentType) { s.contentType = c }

// BufferFormat returns the buffer pixel format, Undefined without a buffer.
func (s *SurfaceItem) BufferFormat() gputypes.TextureFormat {
	if s.buffer == nil {
		return gputypes.TextureFormatUndefined
	}
	return s.buffer.Format
}

// BufferModifier returns the buffer modifier, ModifierInvalid without a buffer.
func (s *SurfaceItem) BufferModifier() uint64 {
	if s.buffer == nil {
		return render.ModifierInvalid
	}
	return s.buffer.Modifier
}

// Damage returns the buffer damage not yet consumed, in buffer pixels.
func (s *SurfaceItem) Damage() region.Region { return s.damage }

// ResetDamage drops the accumulated buffer damage.
func (s *SurfaceItem) ResetDamage() { s.damage = region.Region{} }

// Pixmap returns the composited copy of the buffer, refreshing the damaged
// part first. It returns nil without a buffer.
func (s *SurfaceItem) Pixmap() *image.RGBA {
	if s.buffer == nil || s.buffer.Image == nil {
		return nil
	}
	bounds := s.buffer.Image.Bounds()
	if s.pixmap == nil || s.pixmap.Bounds() != bounds {
		s.pixmap = image.NewRGBA(bounds)
		s.damage = region.FromRect(bounds)
	}
	for _, rect := range s.damage.IntersectedRect(bounds).Rects() {
		draw.Draw(s.pixmap, rect, s.buffer.Image, rect.Min, draw.Src)
	}
	s.damage = region.Region{}
	return s.pixmap
}

// HasPixmap reports whether a composited copy currently exists.
func (s *SurfaceItem) HasPixmap() bool { return s.pixmap != nil }

// DestroyPixmap releases the composited copy of the buffer.
func (s *SurfaceItem) DestroyPixmap() { s.pixmap = nil }

// Opaque returns the region known to be fully opaque, in item coordinates.
func (s *SurfaceItem) Opaque() region.Region { return s.opaque }

// SetOpaque sets the opaque region in item coordinates.
func (s *SurfaceItem) SetOpaque(r region.Region) { s.opaque = r }

// SetScanoutHint records the device and formats that would allow direct
// scan-out. A nil table clears the hint.
func (s *SurfaceItem) SetScanoutHint(device render.DeviceHandle, formats render.FormatTable) {
	s.hint = ScanoutHint{Device: device, Formats: formats.Clone()}
}

// ScanoutHint returns the hint last set with SetScanoutHint.
func (s *SurfaceItem) ScanoutHint() ScanoutHint { return s.hint }

// RequestFrame registers fn to run when a frame showing the surface has been
// presented, and asks for such a frame.
func (s *SurfaceItem) RequestFrame(fn func(presented time.Duration)) {
	s.frameCallbacks = append(s.frameCallbacks, fn)
	s.ScheduleFrame()
}

// PendingFrameCallbacks returns the number of callbacks waiting for a frame.
func (s *SurfaceItem) PendingFrameCallbacks() int { return len(s.frameCallbacks) }

// frameRendered runs and clears the pending frame callbacks.
func (s *SurfaceItem) frameRendered(ts time.Duration) {
	callbacks := s.frameCallbacks
	s.frameCallbacks = nil
	for _, fn := range callbacks {
		fn(ts)
	}
}

// Ensure SurfaceItem implements render.SurfaceItem.
var _ render.SurfaceItem = (*SurfaceItem)(nil)
