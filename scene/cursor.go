// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
)

// CursorScene holds the pointer cursor as a single root item.
// It is rendered into hardware cursor planes.
type CursorScene struct {
	Base

	hotspot  image.Point
	renderer *ItemRenderer
}

// NewCursorScene creates an empty cursor scene.
func NewCursorScene() *CursorScene {
	s := &CursorScene{renderer: NewItemRenderer()}
	s.Init(s)
	return s
}

// SetCursor replaces the cursor image. The scene geometry becomes the image
// rectangle at the origin; hotspot is relative to the image.
func (s *CursorScene) SetCursor(img image.Image, hotspot image.Point) {
	var size image.Point
	if img != nil {
		size = img.Bounds().Size()
	}
	s.hotspot = hotspot
	s.Root().SetSize(size)
	s.Root().SetImage(img)
	s.SetGeometry(image.Rectangle{Max: size})
}

// Hotspot returns the cursor hotspot.
func (s *CursorScene) Hotspot() image.Point { return s.hotspot }

// CursorItem returns the item showing the cursor.
func (s *CursorScene) CursorItem() *Item { return s.Root() }

// PrePaint drops the damage of the cursor item for d. The cursor is always
// painted in full.
func (s *CursorScene) PrePaint(d *Delegate) region.Region {
	s.Root().resetRepaintsRecursive(d)
	return region.Region{}
}

// Paint clears r and draws the cursor.
func (s *CursorScene) Paint(d *Delegate, target render.RenderTarget, r region.Region) {
	if !s.renderer.BeginFrame(target, d.Viewport().Min) {
		return
	}
	s.renderer.RenderBackground(color.Transparent, r)
	s.renderer.RenderItem(s.Root(), r, d)
	s.renderer.Flush()
}

// Ensure CursorScene implements Scene.
var _ Scene = (*CursorScene)(nil)
