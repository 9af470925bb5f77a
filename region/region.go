// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package region implements rectilinear pixel regions used for damage tracking.
//
// A Region is a set of pixels described by non-overlapping rectangles. Regions
// are immutable values: every operation returns a new Region and never
// modifies its receiver, so a Region can be shared freely between the layer
// tree, output layers and delegates without copying.
//
// The zero value is the empty region.
//
//	damage := region.Rect(10, 10, 50, 50)
//	damage = damage.Union(region.Rect(40, 40, 20, 20))
//	clipped := damage.IntersectedRect(image.Rect(0, 0, 45, 45))
package region

import (
	"image"
	"math"
	"slices"
	"strings"
)

// Bounds of the infinite region. Half of the int32 range, so that translating
// a finite region by any on-screen offset never overflows.
const (
	infiniteMin = -(1 << 30)
	infiniteMax = 1 << 30
)

var infiniteRect = image.Rect(infiniteMin, infiniteMin, infiniteMax, infiniteMax)

// Region is a set of pixels stored as disjoint, non-empty rectangles in
// y-x banded order: rectangles sharing rows have the same top and bottom,
// bands are sorted top to bottom and rectangles left to right, touching
// rectangles in a band are joined and adjacent bands with the same x spans
// are merged. Every pixel set has exactly one such representation.
type Region struct {
	rects []image.Rectangle
}

// New returns the union of the given rectangles. Empty rectangles are ignored.
func New(rects ...image.Rectangle) Region {
	var r Region
	for _, rect := range rects {
		r = r.UnionRect(rect)
	}
	return r
}

// FromRect returns a region covering exactly rect.
func FromRect(rect image.Rectangle) Region {
	rect = rect.Canon()
	if rect.Empty() {
		return Region{}
	}
	return Region{rects: []image.Rectangle{rect}}
}

// Rect returns the region covering the rectangle at (x, y) with the given size.
func Rect(x, y, width, height int) Region {
	return FromRect(image.Rect(x, y, x+width, y+height))
}

// Infinite returns the sentinel region that covers every representable pixel.
// It is used to request "paint everything" without knowing the target size.
func Infinite() Region {
	return Region{rects: []image.Rectangle{infiniteRect}}
}

// IsInfinite reports whether r is the sentinel returned by Infinite.
func (r Region) IsInfinite() bool {
	return len(r.rects) == 1 && r.rects[0] == infiniteRect
}

// IsEmpty reports whether r contains no pixels.
func (r Region) IsEmpty() bool {
	return len(r.rects) == 0
}

// Rects returns a copy of the disjoint rectangles making up r, in banded
// order.
func (r Region) Rects() []image.Rectangle {
	if len(r.rects) == 0 {
		return nil
	}
	out := make([]image.Rectangle, len(r.rects))
	copy(out, r.rects)
	return out
}

// Bounds returns the smallest rectangle containing r.
func (r Region) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, rect := range r.rects {
		b = b.Union(rect)
	}
	return b
}

// Area returns the number of pixels in r.
func (r Region) Area() int {
	area := 0
	for _, rect := range r.rects {
		area += rect.Dx() * rect.Dy()
	}
	return area
}

// Contains reports whether the pixel at p belongs to r.
func (r Region) Contains(p image.Point) bool {
	for _, rect := range r.rects {
		if p.In(rect) {
			return true
		}
	}
	return false
}

// ContainsRect reports whether every pixel of rect belongs to r.
func (r Region) ContainsRect(rect image.Rectangle) bool {
	return FromRect(rect).Subtracted(r).IsEmpty()
}

// Intersects reports whether r and rect share at least one pixel.
func (r Region) Intersects(rect image.Rectangle) bool {
	for _, own := range r.rects {
		if own.Overlaps(rect) {
			return true
		}
	}
	return false
}

// Equal reports whether r and other cover the same pixels. Regions are kept
// in canonical banded form, so equal pixel sets have equal rectangles.
func (r Region) Equal(other Region) bool {
	return slices.Equal(r.rects, other.rects)
}

// Union returns the pixels in r or other.
func (r Region) Union(other Region) Region {
	switch {
	case r.IsEmpty():
		return other
	case other.IsEmpty():
		return r
	}
	return combine(r, other, opUnion)
}

// UnionRect returns the pixels in r or rect.
func (r Region) UnionRect(rect image.Rectangle) Region {
	return r.Union(FromRect(rect))
}

// Intersected returns the pixels in both r and other.
func (r Region) Intersected(other Region) Region {
	if r.IsEmpty() || other.IsEmpty() {
		return Region{}
	}
	return combine(r, other, opIntersect)
}

// IntersectedRect returns the pixels of r that lie inside rect.
func (r Region) IntersectedRect(rect image.Rectangle) Region {
	return r.Intersected(FromRect(rect))
}

// Subtracted returns the pixels in r that are not in other.
func (r Region) Subtracted(other Region) Region {
	if r.IsEmpty() || other.IsEmpty() {
		return r
	}
	return combine(r, other, opSubtract)
}

// Translated returns r moved by delta. The infinite region is returned as is.
func (r Region) Translated(delta image.Point) Region {
	if r.IsEmpty() || r.IsInfinite() || delta == (image.Point{}) {
		return r
	}
	rects := make([]image.Rectangle, len(r.rects))
	for i, rect := range r.rects {
		rects[i] = rect.Add(delta)
	}
	return Region{rects: rects}
}

// Scaled returns r multiplied by factor, with every rectangle grown outwards
// to whole pixels. The infinite region is returned as is.
func (r Region) Scaled(factor float64) Region {
	if factor == 1 || r.IsEmpty() || r.IsInfinite() {
		return r
	}
	var out Region
	for _, rect := range r.rects {
		out = out.UnionRect(ScaleRect(rect, factor))
	}
	return out
}

// ScaleRect multiplies rect by factor, rounding the result outwards.
func ScaleRect(rect image.Rectangle, factor float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(float64(rect.Min.X)*factor)),
		int(math.Floor(float64(rect.Min.Y)*factor)),
		int(math.Ceil(float64(rect.Max.X)*factor)),
		int(math.Ceil(float64(rect.Max.Y)*factor)),
	)
}

// String returns a readable description, mostly useful in test failures.
func (r Region) String() string {
	if r.IsInfinite() {
		return "Region(infinite)"
	}
	var sb strings.Builder
	sb.WriteString("Region[")
	for i, rect := range r.rects {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(rect.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

type op int

const (
	opUnion op = iota
	opIntersect
	opSubtract
)

func (o op) keep(inA, inB bool) bool {
	switch o {
	case opUnion:
		return inA || inB
	case opIntersect:
		return inA && inB
	default:
		return inA && !inB
	}
}

// band is a horizontal strip of a region: disjoint, non-touching x spans
// sorted left to right, all covering the rows y0 to y1.
type band struct {
	y0, y1 int
	spans  []span
}

type span struct{ x0, x1 int }

// bands groups the rects of a canonical region by strip.
func bands(rects []image.Rectangle) []band {
	var out []band
	for _, rect := range rects {
		if n := len(out); n > 0 && out[n-1].y0 == rect.Min.Y {
			out[n-1].spans = append(out[n-1].spans, span{rect.Min.X, rect.Max.X})
			continue
		}
		out = append(out, band{y0: rect.Min.Y, y1: rect.Max.Y, spans: []span{{rect.Min.X, rect.Max.X}}})
	}
	return out
}

// combine applies o to a and b strip by strip. The result is canonical:
// bands sorted top to bottom, spans sorted and coalesced within a band, and
// vertically adjacent bands with identical spans merged.
func combine(a, b Region, o op) Region {
	ba, bb := bands(a.rects), bands(b.rects)
	ys := make([]int, 0, 2*(len(ba)+len(bb)))
	for _, bd := range ba {
		ys = append(ys, bd.y0, bd.y1)
	}
	for _, bd := range bb {
		ys = append(ys, bd.y0, bd.y1)
	}
	slices.Sort(ys)
	ys = slices.Compact(ys)

	var (
		out       []image.Rectangle
		prev      []span
		prevY1    int
		prevStart int
		ia, ib    int
	)
	for k := 0; k+1 < len(ys); k++ {
		y0, y1 := ys[k], ys[k+1]
		for ia < len(ba) && ba[ia].y1 <= y0 {
			ia++
		}
		for ib < len(bb) && bb[ib].y1 <= y0 {
			ib++
		}
		var sa, sb []span
		if ia < len(ba) && ba[ia].y0 <= y0 {
			sa = ba[ia].spans
		}
		if ib < len(bb) && bb[ib].y0 <= y0 {
			sb = bb[ib].spans
		}

		spans := combineSpans(sa, sb, o)
		if len(spans) == 0 {
			prev = nil
			continue
		}
		if prev != nil && prevY1 == y0 && slices.Equal(prev, spans) {
			for i := prevStart; i < len(out); i++ {
				out[i].Max.Y = y1
			}
			prevY1 = y1
			continue
		}
		prevStart = len(out)
		for _, sp := range spans {
			out = append(out, image.Rect(sp.x0, y0, sp.x1, y1))
		}
		prev, prevY1 = spans, y1
	}
	return Region{rects: out}
}

// combineSpans applies o to two sorted span lists of the same strip.
func combineSpans(sa, sb []span, o op) []span {
	if len(sa) == 0 && len(sb) == 0 {
		return nil
	}
	xs := make([]int, 0, 2*(len(sa)+len(sb)))
	for _, sp := range sa {
		xs = append(xs, sp.x0, sp.x1)
	}
	for _, sp := range sb {
		xs = append(xs, sp.x0, sp.x1)
	}
	slices.Sort(xs)
	xs = slices.Compact(xs)

	var out []span
	ia, ib := 0, 0
	for k := 0; k+1 < len(xs); k++ {
		x0, x1 := xs[k], xs[k+1]
		for ia < len(sa) && sa[ia].x1 <= x0 {
			ia++
		}
		for ib < len(sb) && sb[ib].x1 <= x0 {
			ib++
		}
		inA := ia < len(sa) && sa[ia].x0 <= x0
		inB := ib < len(sb) && sb[ib].x0 <= x0
		if !o.keep(inA, inB) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].x1 == x0 {
			out[n-1].x1 = x1
			continue
		}
		out = append(out, span{x0, x1})
	}
	return out
}
