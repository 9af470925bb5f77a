// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Item is the part of a scene item the render pipeline relies on.
// The item tree itself lives in the scene package.
type Item interface {
	// Rect returns the item's rectangle in its own coordinates.
	Rect() image.Rectangle

	// ScheduleSceneRepaint damages rect (item coordinates) in every view of
	// the scene, regardless of per-view item visibility.
	ScheduleSceneRepaint(rect image.Rectangle)
}

// Transform is the orientation applied to a client buffer.
type Transform uint8

// Buffer transforms.
const (
	TransformNormal Transform = iota
	TransformRotated90
	TransformRotated180
	TransformRotated270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// ColorDescription describes the color space of a buffer.
type ColorDescription struct {
	// Name identifies the color space, e.g. "sRGB" or "BT.2020 PQ".
	Name string

	// MaxLuminance is the peak luminance in nits, 0 when unknown.
	MaxLuminance float64
}

// ColorSRGB is the default color description of client buffers.
var ColorSRGB = ColorDescription{Name: "sRGB", MaxLuminance: 80}

// SurfaceItem is an item presenting a client buffer. OutputLayer negotiates
// direct scan-out with it.
type SurfaceItem interface {
	Item

	// BufferSourceBox returns the sampled part of the buffer, in buffer pixels.
	BufferSourceBox() image.Rectangle

	// DestinationSize returns the size the buffer is presented at.
	DestinationSize() image.Point

	// BufferTransform returns the orientation of the buffer.
	BufferTransform() Transform

	// ColorDescription returns the color space of the buffer.
	ColorDescription() ColorDescription

	// ContentType returns the content hint attached by the client.
	ContentType() ContentType

	// BufferFormat returns the pixel format of the attached buffer.
	BufferFormat() gputypes.TextureFormat

	// BufferModifier returns the layout modifier of the attached buffer.
	BufferModifier() uint64

	// ResetDamage drops the accumulated buffer damage.
	ResetDamage()

	// DestroyPixmap releases the composited copy of the buffer.
	DestroyPixmap()

	// SetScanoutHint tells the client which device and formats would allow
	// direct scan-out. A nil device and table clear the hint.
	SetScanoutHint(device DeviceHandle, formats FormatTable)
}
