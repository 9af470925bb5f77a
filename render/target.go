// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/compositor/region"
)

// RenderTarget defines where a frame is painted.
//
// A RenderTarget is handed out by OutputLayer.BeginFrame and passed to every
// RenderLayerDelegate during the paint pass. Coordinates passed alongside a
// target (damage regions, layer geometry) are logical output coordinates;
// Scale converts them to target pixels.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only targets.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int

	// Scale returns the number of target pixels per logical unit.
	Scale() float64
}

// RasterTarget is an optional interface for targets backed by CPU memory.
// Software delegates type-assert to it before drawing.
type RasterTarget interface {
	RenderTarget

	// Image returns the backing image. It shares memory with the target.
	Image() *image.RGBA

	// FillRegion replaces the pixels of the logical region r with c.
	FillRegion(r region.Region, c color.Color)

	// DrawImage composites src into the logical rectangle dst, clipped to
	// the logical region clip.
	DrawImage(src image.Image, dst image.Rectangle, clip region.Region)

	// DrawImageAlpha is DrawImage with src multiplied by opacity.
	DrawImageAlpha(src image.Image, dst image.Rectangle, clip region.Region, opacity float64)
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	target.FillRegion(region.Rect(0, 0, 100, 100), color.Black)
//	img := target.Image()
type PixmapTarget struct {
	img   *image.RGBA
	scale float64
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		scale: 1,
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a render target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img, scale: 1}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Scale returns the number of target pixels per logical unit.
func (t *PixmapTarget) Scale() float64 {
	return t.scale
}

// SetScale sets the device scale used to map logical coordinates.
// Non-positive values reset it to 1.
func (t *PixmapTarget) SetScale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	t.scale = scale
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c color.Color) {
	draw.Draw(t.img, t.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRegion replaces the pixels of the logical region r with c.
// The region is scaled to target pixels and clipped to the target bounds.
func (t *PixmapTarget) FillRegion(r region.Region, c color.Color) {
	src := image.NewUniform(c)
	for _, rect := range t.deviceRects(r) {
		draw.Draw(t.img, rect, src, image.Point{}, draw.Src)
	}
}

// DrawImage composites src (source-over) into the logical rectangle dst,
// touching only pixels inside the logical region clip. The source is scaled
// when its size differs from dst in target pixels.
func (t *PixmapTarget) DrawImage(src image.Image, dst image.Rectangle, clip region.Region) {
	t.DrawImageAlpha(src, dst, clip, 1)
}

// DrawImageAlpha is like DrawImage but multiplies src by opacity.
// Opacity outside (0, 1) is clamped; 0 draws nothing.
func (t *PixmapTarget) DrawImageAlpha(src image.Image, dst image.Rectangle, clip region.Region, opacity float64) {
	if src == nil || dst.Empty() || opacity <= 0 {
		return
	}
	var mask image.Image
	if opacity < 1 {
		mask = image.NewUniform(color.Alpha16{A: uint16(opacity * 0xffff)})
	}
	deviceDst := region.ScaleRect(dst, t.scale)
	sb := src.Bounds()
	sameSize := sb.Dx() == deviceDst.Dx() && sb.Dy() == deviceDst.Dy()
	for _, rect := range t.deviceRects(clip) {
		rect = rect.Intersect(deviceDst)
		if rect.Empty() {
			continue
		}
		if sameSize {
			sp := sb.Min.Add(rect.Min.Sub(deviceDst.Min))
			draw.DrawMask(t.img, rect, src, sp, mask, image.Point{}, draw.Over)
			continue
		}
		clipped := t.img.SubImage(rect).(*image.RGBA)
		draw.ApproxBiLinear.Scale(clipped, deviceDst, src, sb, draw.Over, &draw.Options{SrcMask: mask})
	}
}

// SetPixel sets a single pixel at the given coordinates.
func (t *PixmapTarget) SetPixel(x, y int, c color.Color) {
	t.img.Set(x, y, c)
}

// GetPixel returns the color at the given coordinates.
func (t *PixmapTarget) GetPixel(x, y int) color.Color {
	return t.img.At(x, y)
}

// Resize replaces the backing image with one of the given dimensions.
// The contents are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// deviceRects maps a logical region to target pixel rectangles clipped to
// the target bounds.
func (t *PixmapTarget) deviceRects(r region.Region) []image.Rectangle {
	bounds := t.img.Bounds()
	if r.IsInfinite() {
		return []image.Rectangle{bounds}
	}
	return r.Scaled(t.scale).IntersectedRect(bounds).Rects()
}

// Ensure PixmapTarget implements RasterTarget.
var _ RasterTarget = (*PixmapTarget)(nil)
