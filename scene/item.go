// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"image"
	"slices"

	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
)

// Item is a node of a scene's item tree.
//
// Position is relative to the parent item; the root item sits in scene
// coordinates. Damage is tracked per delegate, in scene coordinates, so that
// every output repaints only what changed in its own viewport.
type Item struct {
	scene    Scene
	parent   *Item
	children []*Item

	// handle is the value delegates see for this item. It is the item itself
	// or the concrete item type embedding it.
	handle render.Item

	position image.Point
	size     image.Point
	visible  bool
	opacity  float64
	content  func() image.Image

	repaints map[*Delegate]region.Region
}

// NewItem creates a visible, fully opaque item and appends it to parent's
// children. parent may be nil for root items.
func NewItem(scene Scene, parent *Item) *Item {
	item := &Item{}
	item.init(scene, parent, item)
	return item
}

func (i *Item) init(scene Scene, parent *Item, handle render.Item) {
	i.scene = scene
	i.handle = handle
	i.visible = true
	i.opacity = 1
	i.repaints = make(map[*Delegate]region.Region)
	if parent != nil {
		i.parent = parent
		parent.children = append(parent.children, i)
	}
}

// Handle returns the value delegates use to refer to the item.
func (i *Item) Handle() render.Item { return i.handle }

// Scene returns the scene the item belongs to.
func (i *Item) Scene() Scene { return i.scene }

// Parent returns the parent item, nil for roots.
func (i *Item) Parent() *Item { return i.parent }

// Children returns a snapshot of the child items in paint order.
func (i *Item) Children() []*Item { return slices.Clone(i.children) }

// Remove detaches the item from its parent and repaints the area it covered.
func (i *Item) Remove() {
	if i.parent == nil {
		return
	}
	i.ScheduleRepaint(i.BoundingRect())
	if idx := slices.Index(i.parent.children, i); idx >= 0 {
		i.parent.children = slices.Delete(i.parent.children, idx, idx+1)
	}
	i.parent = nil
}

// Raise moves the item to the top of its siblings.
func (i *Item) Raise() {
	p := i.parent
	if p == nil || p.children[len(p.children)-1] == i {
		return
	}
	idx := slices.Index(p.children, i)
	p.children = append(slices.Delete(p.children, idx, idx+1), i)
	i.ScheduleRepaint(i.BoundingRect())
}

// Position returns the item position in parent coordinates.
func (i *Item) Position() image.Point { return i.position }

// SetPosition moves the item, repainting the old and the new area.
func (i *Item) SetPosition(p image.Point) {
	if i.position == p {
		return
	}
	i.ScheduleRepaint(i.BoundingRect())
	i.position = p
	i.ScheduleRepaint(i.BoundingRect())
}

// Size returns the item size in logical units.
func (i *Item) Size() image.Point { return i.size }

// SetSize resizes the item, repainting the old and the new area.
func (i *Item) SetSize(size image.Point) {
	if i.size == size {
		return
	}
	i.ScheduleRepaint(i.BoundingRect())
	i.size = size
	i.ScheduleRepaint(i.BoundingRect())
}

// Rect returns the item rectangle in item coordinates.
func (i *Item) Rect() image.Rectangle {
	return image.Rectangle{Max: i.size}
}

// BoundingRect returns Rect united with the bounding rects of all children,
// in item coordinates.
func (i *Item) BoundingRect() image.Rectangle {
	bounds := i.Rect()
	for _, child := range i.children {
		bounds = bounds.Union(child.BoundingRect().Add(child.position))
	}
	return bounds
}

// IsExplicitlyVisible reports the value last passed to SetVisible.
func (i *Item) IsExplicitlyVisible() bool { return i.visible }

// IsVisible reports whether the item and all its ancestors are visible.
func (i *Item) IsVisible() bool {
	for p := i; p != nil; p = p.parent {
		if !p.visible {
			return false
		}
	}
	return true
}

// SetVisible shows or hides the item and its subtree.
func (i *Item) SetVisible(visible bool) {
	if i.visible == visible {
		return
	}
	if !visible {
		i.ScheduleRepaint(i.BoundingRect())
		i.visible = false
		return
	}
	i.visible = true
	i.ScheduleRepaint(i.BoundingRect())
}

// Opacity returns the item opacity in [0, 1].
func (i *Item) Opacity() float64 { return i.opacity }

// SetOpacity changes the opacity and repaints the item.
func (i *Item) SetOpacity(opacity float64) {
	opacity = min(max(opacity, 0), 1)
	if i.opacity == opacity {
		return
	}
	i.opacity = opacity
	i.ScheduleRepaint(i.BoundingRect())
}

// SetImage sets the content drawn into the item rectangle and repaints it.
func (i *Item) SetImage(img image.Image) {
	if img == nil {
		i.content = nil
	} else {
		i.content = func() image.Image { return img }
	}
	i.ScheduleRepaint(i.Rect())
}

// Content returns the image drawn into the item rectangle, or nil.
func (i *Item) Content() image.Image {
	if i.content == nil {
		return nil
	}
	return i.content()
}

// ScenePosition returns the item origin in scene coordinates.
func (i *Item) ScenePosition() image.Point {
	var pos image.Point
	for p := i; p != nil; p = p.parent {
		pos = pos.Add(p.position)
	}
	return pos
}

// MapToScene converts rect from item to scene coordinates.
func (i *Item) MapToScene(rect image.Rectangle) image.Rectangle {
	return rect.Add(i.ScenePosition())
}

// ScheduleRepaint damages rect (item coordinates) in every delegate that
// renders the item and asks the delegate layers for a frame.
func (i *Item) ScheduleRepaint(rect image.Rectangle) {
	if !i.IsVisible() || rect.Empty() {
		return
	}
	sceneRect := i.MapToScene(rect)
	for _, d := range i.scene.Delegates() {
		if !d.ShouldRenderItem(i.handle) {
			continue
		}
		dirty := sceneRect.Intersect(d.Viewport())
		if dirty.Empty() {
			continue
		}
		i.repaints[d] = i.repaints[d].UnionRect(dirty)
		if layer := d.Layer(); layer != nil {
			layer.ScheduleRepaint(i.handle)
		}
	}
}

// ScheduleSceneRepaint damages rect (item coordinates) in the whole scene,
// including delegates that do not render the item.
func (i *Item) ScheduleSceneRepaint(rect image.Rectangle) {
	i.scene.AddRepaint(region.FromRect(i.MapToScene(rect)))
}

// ScheduleFrame asks the layers of every delegate showing the item for a
// frame without damaging anything.
func (i *Item) ScheduleFrame() {
	sceneRect := i.MapToScene(i.Rect())
	for _, d := range i.scene.Delegates() {
		if !sceneRect.Overlaps(d.Viewport()) {
			continue
		}
		if layer := d.Layer(); layer != nil {
			layer.ScheduleRepaint(i.handle)
		}
	}
}

// Repaints returns the damage pending for d, in scene coordinates.
func (i *Item) Repaints(d *Delegate) region.Region { return i.repaints[d] }

// ResetRepaints drops the damage pending for d.
func (i *Item) ResetRepaints(d *Delegate) { delete(i.repaints, d) }

// takeRepaints returns and resets the damage of the subtree for d.
func (i *Item) takeRepaints(d *Delegate) region.Region {
	dirty := i.repaints[d]
	delete(i.repaints, d)
	for _, child := range i.children {
		dirty = dirty.Union(child.takeRepaints(d))
	}
	return dirty
}

// resetRepaintsRecursive drops the damage of the subtree for d.
func (i *Item) resetRepaintsRecursive(d *Delegate) {
	delete(i.repaints, d)
	for _, child := range i.children {
		child.resetRepaintsRecursive(d)
	}
}

func (i *Item) forgetDelegate(d *Delegate) {
	i.resetRepaintsRecursive(d)
}

// walk calls fn for the item and every descendant, parents first.
func (i *Item) walk(fn func(*Item)) {
	fn(i)
	for _, child := range i.children {
		child.walk(fn)
	}
}

// Ensure Item implements render.Item.
var _ render.Item = (*Item)(nil)
