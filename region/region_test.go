// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package region

import (
	"image"
	"slices"
	"testing"
)

func TestZeroValueIsEmpty(t *testing.T) {
	var r Region
	if !r.IsEmpty() {
		t.Error("zero Region should be empty")
	}
	if r.Area() != 0 {
		t.Errorf("Area() = %d, want 0", r.Area())
	}
	if got := r.Bounds(); !got.Empty() {
		t.Errorf("Bounds() = %v, want empty", got)
	}
}

func TestRectIgnoresEmpty(t *testing.T) {
	if !Rect(5, 5, 0, 10).IsEmpty() {
		t.Error("zero-width Rect should be empty")
	}
	if !New(image.Rectangle{}, image.Rect(3, 3, 3, 9)).IsEmpty() {
		t.Error("New of empty rectangles should be empty")
	}
}

func TestUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Region
		area int
		rect image.Rectangle
	}{
		{"disjoint", Rect(0, 0, 10, 10), Rect(20, 20, 10, 10), 200, image.Rect(0, 0, 30, 30)},
		{"overlapping", Rect(0, 0, 10, 10), Rect(5, 5, 10, 10), 175, image.Rect(0, 0, 15, 15)},
		{"contained", Rect(0, 0, 10, 10), Rect(2, 2, 3, 3), 100, image.Rect(0, 0, 10, 10)},
		{"containing", Rect(2, 2, 3, 3), Rect(0, 0, 10, 10), 100, image.Rect(0, 0, 10, 10)},
		{"empty left", Region{}, Rect(1, 1, 2, 2), 4, image.Rect(1, 1, 3, 3)},
		{"empty right", Rect(1, 1, 2, 2), Region{}, 4, image.Rect(1, 1, 3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Union(tt.b)
			if got.Area() != tt.area {
				t.Errorf("Area() = %d, want %d", got.Area(), tt.area)
			}
			if got.Bounds() != tt.rect {
				t.Errorf("Bounds() = %v, want %v", got.Bounds(), tt.rect)
			}
			if !got.Equal(tt.b.Union(tt.a)) {
				t.Error("Union should be commutative")
			}
		})
	}
}

func TestUnionRectsStayDisjoint(t *testing.T) {
	r := New(
		image.Rect(0, 0, 10, 10),
		image.Rect(5, 0, 15, 10),
		image.Rect(0, 5, 20, 8),
		image.Rect(-3, -3, 1, 1),
	)
	rects := r.Rects()
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Overlaps(rects[j]) {
				t.Fatalf("rects %v and %v overlap", rects[i], rects[j])
			}
		}
	}
}

func TestIntersected(t *testing.T) {
	a := Rect(0, 0, 10, 10).Union(Rect(20, 0, 10, 10))
	got := a.IntersectedRect(image.Rect(5, 5, 25, 15))
	want := Rect(5, 5, 5, 5).Union(Rect(20, 5, 5, 5))
	if !got.Equal(want) {
		t.Errorf("IntersectedRect() = %v, want %v", got, want)
	}
	if !a.IntersectedRect(image.Rect(100, 100, 110, 110)).IsEmpty() {
		t.Error("intersection with a far rect should be empty")
	}
}

func TestSubtracted(t *testing.T) {
	got := Rect(0, 0, 10, 10).Subtracted(Rect(2, 2, 6, 6))
	if got.Area() != 100-36 {
		t.Errorf("Area() = %d, want %d", got.Area(), 64)
	}
	if got.Contains(image.Pt(5, 5)) {
		t.Error("subtracted hole should not be contained")
	}
	if !got.Contains(image.Pt(0, 0)) || !got.Contains(image.Pt(9, 9)) {
		t.Error("corners should survive the subtraction")
	}
	if !Rect(0, 0, 4, 4).Subtracted(Rect(-1, -1, 10, 10)).IsEmpty() {
		t.Error("subtracting a covering region should give empty")
	}
}

func TestTranslated(t *testing.T) {
	got := Rect(0, 0, 50, 50).Translated(image.Pt(10, 10))
	if !got.Equal(Rect(10, 10, 50, 50)) {
		t.Errorf("Translated() = %v, want %v", got, Rect(10, 10, 50, 50))
	}
	if !Infinite().Translated(image.Pt(100, -100)).IsInfinite() {
		t.Error("translated infinite region should stay infinite")
	}
}

func TestTranslatedDoesNotAlias(t *testing.T) {
	orig := Rect(0, 0, 5, 5)
	_ = orig.Translated(image.Pt(1, 1))
	if orig.Bounds() != image.Rect(0, 0, 5, 5) {
		t.Errorf("receiver modified: %v", orig.Bounds())
	}
}

func TestScaled(t *testing.T) {
	tests := []struct {
		name   string
		r      Region
		factor float64
		want   image.Rectangle
	}{
		{"fractional", Rect(1, 1, 3, 3), 1.5, image.Rect(1, 1, 6, 6)},
		{"integral", Rect(0, 0, 2, 2), 2, image.Rect(0, 0, 4, 4)},
		{"negative origin", Rect(-3, -3, 2, 2), 1.5, image.Rect(-5, -5, -1, -1)},
		{"straddles zero", Rect(-1, -1, 2, 2), 1.5, image.Rect(-2, -2, 2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Scaled(tt.factor).Bounds(); got != tt.want {
				t.Errorf("Scaled(%v).Bounds() = %v, want %v", tt.factor, got, tt.want)
			}
		})
	}
}

func TestInfinite(t *testing.T) {
	inf := Infinite()
	if !inf.IsInfinite() {
		t.Fatal("Infinite().IsInfinite() = false")
	}
	if !inf.ContainsRect(image.Rect(-5000, -5000, 5000, 5000)) {
		t.Error("infinite region should contain any on-screen rect")
	}
	if !inf.Union(Rect(0, 0, 10, 10)).IsInfinite() {
		t.Error("union with the infinite region should stay infinite")
	}
	clip := inf.IntersectedRect(image.Rect(0, 0, 1920, 1080))
	if !clip.Equal(Rect(0, 0, 1920, 1080)) {
		t.Errorf("infinite ∩ screen = %v", clip)
	}
	if Rect(0, 0, 1, 1).IsInfinite() {
		t.Error("finite region reported as infinite")
	}
}

func TestEqualIgnoresSplit(t *testing.T) {
	a := Rect(0, 0, 10, 5).Union(Rect(0, 5, 10, 5))
	b := Rect(0, 0, 5, 10).Union(Rect(5, 0, 5, 10))
	if !a.Equal(b) {
		t.Errorf("%v should equal %v", a, b)
	}
	if a.Equal(Rect(0, 0, 10, 9)) {
		t.Error("regions of different area should differ")
	}
}

func TestIntersects(t *testing.T) {
	r := Rect(10, 10, 5, 5)
	if !r.Intersects(image.Rect(12, 12, 20, 20)) {
		t.Error("Intersects() = false, want true")
	}
	if r.Intersects(image.Rect(15, 15, 20, 20)) {
		t.Error("touching edges should not intersect")
	}
}

func TestRectsAreBanded(t *testing.T) {
	tests := []struct {
		name string
		r    Region
		want []image.Rectangle
	}{
		{
			"overlapping",
			Rect(0, 0, 10, 10).Union(Rect(5, 5, 10, 10)),
			[]image.Rectangle{
				image.Rect(0, 0, 10, 5),
				image.Rect(0, 5, 15, 10),
				image.Rect(5, 10, 15, 15),
			},
		},
		{
			"side by side",
			Rect(0, 0, 10, 10).Union(Rect(10, 0, 10, 10)),
			[]image.Rectangle{image.Rect(0, 0, 20, 10)},
		},
		{
			"stacked",
			Rect(0, 0, 10, 10).Union(Rect(0, 10, 10, 10)),
			[]image.Rectangle{image.Rect(0, 0, 10, 20)},
		},
		{
			"two columns",
			New(image.Rect(0, 0, 5, 10), image.Rect(8, 2, 12, 10)),
			[]image.Rectangle{
				image.Rect(0, 0, 5, 2),
				image.Rect(0, 2, 5, 10),
				image.Rect(8, 2, 12, 10),
			},
		},
		{
			"hole refilled",
			Rect(0, 0, 10, 10).Subtracted(Rect(2, 2, 6, 6)).Union(Rect(2, 2, 6, 6)),
			[]image.Rectangle{image.Rect(0, 0, 10, 10)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Rects(); !slices.Equal(got, tt.want) {
				t.Errorf("Rects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnionOfOverlappingRectsStaysSmall(t *testing.T) {
	const n = 800
	var r Region
	for i := range n {
		r = r.UnionRect(image.Rect(i*8, i*8, i*8+64, i*8+64))
	}
	// One band per 8-row step of the staircase, one rect per band.
	if got := len(r.Rects()); got > n+8 {
		t.Errorf("len(Rects()) = %d, want at most %d", got, n+8)
	}
	// Full 8-row bands are 120 wide; the seven at each end taper to 64.
	if want := 8 * ((n-7)*120 + 2*(7*64+8*21)); r.Area() != want {
		t.Errorf("Area() = %d, want %d", r.Area(), want)
	}
	if got, want := r.Bounds(), image.Rect(0, 0, (n-1)*8+64, (n-1)*8+64); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}
