package compositor

import (
	"image"
	"time"
)

// Cursor is the pointer cursor as seen by the compositor.
type Cursor interface {
	// Image returns the cursor image, nil for an empty cursor.
	Image() image.Image

	// Hotspot returns the point of the image that sits at Position.
	Hotspot() image.Point

	// Geometry returns the cursor rectangle in global logical coordinates.
	Geometry() image.Rectangle

	// IsHidden reports whether the cursor is hidden.
	IsHidden() bool

	// MarkAsRendered tells the cursor it was shown at timestamp. Animated
	// cursors advance from it.
	MarkAsRendered(timestamp time.Duration)
}

// PointerCursor is a Cursor with a static image.
type PointerCursor struct {
	img      image.Image
	hotspot  image.Point
	position image.Point
	hidden   int

	lastRendered time.Duration
	renders      int
}

// NewPointerCursor creates a visible cursor at the origin.
func NewPointerCursor(img image.Image, hotspot image.Point) *PointerCursor {
	return &PointerCursor{img: img, hotspot: hotspot}
}

// Image implements Cursor.
func (c *PointerCursor) Image() image.Image { return c.img }

// Hotspot implements Cursor.
func (c *PointerCursor) Hotspot() image.Point { return c.hotspot }

// SetImage replaces the cursor image. Call Compositor.UpdateCursor afterwards.
func (c *PointerCursor) SetImage(img image.Image, hotspot image.Point) {
	c.img = img
	c.hotspot = hotspot
}

// Position returns the global position of the hotspot.
func (c *PointerCursor) Position() image.Point { return c.position }

// SetPosition moves the cursor. Call Compositor.MoveCursor afterwards.
func (c *PointerCursor) SetPosition(pos image.Point) { c.position = pos }

// Geometry implements Cursor.
func (c *PointerCursor) Geometry() image.Rectangle {
	if c.img == nil {
		return image.Rectangle{}
	}
	return image.Rectangle{Max: c.img.Bounds().Size()}.Add(c.position.Sub(c.hotspot))
}

// Hide hides the cursor until Show is called the same number of times.
func (c *PointerCursor) Hide() { c.hidden++ }

// Show reverts one Hide call.
func (c *PointerCursor) Show() {
	if c.hidden > 0 {
		c.hidden--
	}
}

// IsHidden implements Cursor.
func (c *PointerCursor) IsHidden() bool { return c.hidden > 0 }

// MarkAsRendered implements Cursor.
func (c *PointerCursor) MarkAsRendered(timestamp time.Duration) {
	c.lastRendered = timestamp
	c.renders++
}

// LastRendered returns the timestamp of the last MarkAsRendered call and
// how often it was called.
func (c *PointerCursor) LastRendered() (time.Duration, int) {
	return c.lastRendered, c.renders
}

// isOnOutput reports whether c is shown on an output with the given global
// geometry.
func isOnOutput(c Cursor, geometry image.Rectangle) bool {
	return c != nil && !c.IsHidden() && c.Geometry().Overlaps(geometry)
}

// Ensure PointerCursor implements Cursor.
var _ Cursor = (*PointerCursor)(nil)
