// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image"
	"image/color"
	"slices"

	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
)

// DefaultBackground is the color behind all windows.
var DefaultBackground = color.RGBA{R: 0x1d, G: 0x1f, B: 0x21, A: 0xff}

// WorkspaceScene shows the desktop: a background and the windows in
// stacking order, bottom to top.
type WorkspaceScene struct {
	Base

	background     color.Color
	windows        []*Window
	renderer       *ItemRenderer
	scanoutBlocked int
}

// NewWorkspaceScene creates an empty workspace covering geometry.
func NewWorkspaceScene(geometry image.Rectangle) *WorkspaceScene {
	s := &WorkspaceScene{
		background: DefaultBackground,
		renderer:   NewItemRenderer(),
	}
	s.Init(s)
	s.SetGeometry(geometry)
	return s
}

// Background returns the background color.
func (s *WorkspaceScene) Background() color.Color { return s.background }

// SetBackground changes the background color and repaints the scene.
func (s *WorkspaceScene) SetBackground(c color.Color) {
	s.background = c
	s.AddRepaintFull()
}

// AddWindow maps a new window on top of the stack. The window content is a
// surface item covering the whole window.
func (s *WorkspaceScene) AddWindow(geometry image.Rectangle) *Window {
	w := &Window{scene: s}
	w.item = NewItem(s, s.Root())
	w.surface = NewSurfaceItem(s, w.item)
	w.SetGeometry(geometry)
	s.windows = append(s.windows, w)
	return w
}

// Windows returns the windows in stacking order, bottom first.
func (s *WorkspaceScene) Windows() []*Window { return slices.Clone(s.windows) }

// RemoveWindow unmaps w and repaints the area it covered.
func (s *WorkspaceScene) RemoveWindow(w *Window) {
	i := slices.Index(s.windows, w)
	if i < 0 {
		return
	}
	s.windows = slices.Delete(s.windows, i, i+1)
	w.item.Remove()
}

// BlockDirectScanout stops the scene from offering scan-out candidates until
// UnblockDirectScanout is called the same number of times. Effects that
// transform the whole output use it.
func (s *WorkspaceScene) BlockDirectScanout() { s.scanoutBlocked++ }

// UnblockDirectScanout reverts one BlockDirectScanout call.
func (s *WorkspaceScene) UnblockDirectScanout() {
	if s.scanoutBlocked > 0 {
		s.scanoutBlocked--
	}
}

// PrePaint collects and resets the item damage pending for d.
func (s *WorkspaceScene) PrePaint(d *Delegate) region.Region {
	return s.Root().takeRepaints(d)
}

// Paint fills r with the background and draws the windows on top.
func (s *WorkspaceScene) Paint(d *Delegate, target render.RenderTarget, r region.Region) {
	if !s.renderer.BeginFrame(target, d.Viewport().Min) {
		return
	}
	s.renderer.RenderBackground(s.background, r)
	s.renderer.RenderItem(s.Root(), r, d)
	s.renderer.Flush()
}

// Frame runs the frame callbacks of every surface in d's viewport.
func (s *WorkspaceScene) Frame(d *Delegate, frame *render.OutputFrame) {
	ts := frame.TargetPresentationTimestamp()
	if loop := frame.Loop(); loop != nil {
		ts = loop.LastPresentationTimestamp()
	}
	viewport := d.Viewport()
	s.Root().walk(func(item *Item) {
		surface, ok := item.handle.(*SurfaceItem)
		if !ok || surface.PendingFrameCallbacks() == 0 {
			return
		}
		if item.MapToScene(item.Rect()).Overlaps(viewport) {
			surface.frameRendered(ts)
		}
	})
}

// ScanoutCandidate returns the surface of the topmost window on d's
// viewport if that window is fullscreen and fully opaque, and its topmost
// surface sits at the window origin and is opaque over the whole window.
func (s *WorkspaceScene) ScanoutCandidate(d *Delegate) render.SurfaceItem {
	if s.scanoutBlocked > 0 {
		return nil
	}
	viewport := d.Viewport()
	for i := len(s.windows) - 1; i >= 0; i-- {
		w := s.windows[i]
		if !w.item.IsVisible() || w.item.Opacity() == 0 || !w.Geometry().Overlaps(viewport) {
			continue
		}
		if !w.fullscreen || w.item.Opacity() != 1 {
			return nil
		}
		top := topMostSurface(w.surface)
		if top.Position() != (image.Point{}) {
			return nil
		}
		if !top.Opaque().ContainsRect(w.item.Rect()) {
			return nil
		}
		return top
	}
	return nil
}

// topMostSurface follows the last child of each surface down the tree.
func topMostSurface(s *SurfaceItem) *SurfaceItem {
	for len(s.children) > 0 {
		child, ok := s.children[len(s.children)-1].handle.(*SurfaceItem)
		if !ok {
			break
		}
		s = child
	}
	return s
}

// Ensure WorkspaceScene implements Scene.
var _ Scene = (*WorkspaceScene)(nil)

// Window is a mapped toplevel in a WorkspaceScene.
type Window struct {
	scene      *WorkspaceScene
	item       *Item
	surface    *SurfaceItem
	fullscreen bool
}

// Item returns the window's root item.
func (w *Window) Item() *Item { return w.item }

// Surface returns the main surface of the window.
func (w *Window) Surface() *SurfaceItem { return w.surface }

// Geometry returns the window frame in scene coordinates.
func (w *Window) Geometry() image.Rectangle { return w.item.MapToScene(w.item.Rect()) }

// SetGeometry moves and resizes the window and its main surface.
func (w *Window) SetGeometry(rect image.Rectangle) {
	rect = rect.Canon()
	w.item.SetPosition(rect.Min.Sub(w.scene.Root().ScenePosition()))
	w.item.SetSize(rect.Size())
	w.surface.SetSize(rect.Size())
}

// IsFullscreen reports whether the window is fullscreen.
func (w *Window) IsFullscreen() bool { return w.fullscreen }

// SetFullscreen marks the window as fullscreen.
func (w *Window) SetFullscreen(fullscreen bool) { w.fullscreen = fullscreen }

// Raise puts the window on top of the stack.
func (w *Window) Raise() {
	s := w.scene
	i := slices.Index(s.windows, w)
	if i < 0 || i == len(s.windows)-1 {
		return
	}
	s.windows = append(slices.Delete(s.windows, i, i+1), w)
	w.item.Raise()
}
