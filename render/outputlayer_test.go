// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/compositor/region"
)

func TestAttemptScanoutUnsupportedFormat(t *testing.T) {
	plane := newFakePlane()
	layer := NewOutputLayer(plane)
	surface := newFakeSurface(gputypes.TextureFormatBGRA8Unorm, ModifierLinear)

	if layer.AttemptScanout(surface) {
		t.Fatal("AttemptScanout() = true for an unsupported format")
	}
	if plane.scanouts != 0 {
		t.Errorf("DoAttemptScanout called %d times, want 0", plane.scanouts)
	}
	if layer.ScanoutCandidate() != surface {
		t.Error("ScanoutCandidate() should be the refused surface")
	}
	if surface.hintCalls != 1 {
		t.Errorf("SetScanoutHint called %d times, want 1", surface.hintCalls)
	}
	if !surface.hintFormats.Supports(gputypes.TextureFormatRGBA8Unorm, ModifierLinear) {
		t.Error("scan-out hint should carry the plane formats")
	}
	if surface.damageResets != 0 || surface.pixmapDestroys != 0 {
		t.Error("refused surface must keep its damage and pixmap")
	}
}

func TestAttemptScanoutUnsupportedModifier(t *testing.T) {
	layer := NewOutputLayer(newFakePlane())
	surface := newFakeSurface(gputypes.TextureFormatRGBA8Unorm, ModifierInvalid)

	if layer.AttemptScanout(surface) {
		t.Error("AttemptScanout() = true for an unsupported modifier")
	}
	if surface.hintCalls != 1 {
		t.Errorf("SetScanoutHint called %d times, want 1", surface.hintCalls)
	}
}

func TestAttemptScanoutSuccess(t *testing.T) {
	plane := newFakePlane()
	plane.scanoutOK = true
	layer := NewOutputLayer(plane)
	surface := newFakeSurface(gputypes.TextureFormatRGBA8Unorm, ModifierLinear)

	if !layer.AttemptScanout(surface) {
		t.Fatal("AttemptScanout() = false, want true")
	}
	if plane.scanouts != 1 {
		t.Errorf("DoAttemptScanout called %d times, want 1", plane.scanouts)
	}
	if surface.damageResets != 1 {
		t.Errorf("ResetDamage called %d times, want 1", surface.damageResets)
	}
	if surface.pixmapDestroys != 1 {
		t.Errorf("DestroyPixmap called %d times, want 1", surface.pixmapDestroys)
	}
	if surface.hintCalls != 0 {
		t.Errorf("SetScanoutHint called %d times, want 0", surface.hintCalls)
	}
}

func TestAttemptScanoutRefusedByPlane(t *testing.T) {
	plane := newFakePlane()
	layer := NewOutputLayer(plane)
	surface := newFakeSurface(gputypes.TextureFormatRGBA8Unorm, ModifierLinear)

	if layer.AttemptScanout(surface) {
		t.Error("AttemptScanout() = true although the plane refused")
	}
	if surface.damageResets != 0 {
		t.Error("refused scan-out must not consume damage")
	}
}

func TestScanoutCandidateReplacement(t *testing.T) {
	layer := NewOutputLayer(newFakePlane())
	first := newFakeSurface(gputypes.TextureFormatBGRA8Unorm, ModifierLinear)
	second := newFakeSurface(gputypes.TextureFormatBGRA8Unorm, ModifierLinear)

	layer.AttemptScanout(first)
	layer.AttemptScanout(second)

	if first.hintCalls != 2 || first.hintFormats != nil {
		t.Errorf("previous candidate should have its hint cleared, calls=%d", first.hintCalls)
	}
	if layer.ScanoutCandidate() != second {
		t.Error("ScanoutCandidate() should be the latest refused surface")
	}

	layer.NotifyNoScanoutCandidate()
	if layer.ScanoutCandidate() != nil {
		t.Error("NotifyNoScanoutCandidate should drop the candidate")
	}
	if second.hintFormats != nil || second.hintDevice != nil {
		t.Error("NotifyNoScanoutCandidate should clear the candidate's hint")
	}
}

func TestOutputLayerDestroy(t *testing.T) {
	plane := newFakePlane()
	plane.scanoutOK = true
	layer := NewOutputLayer(plane)
	layer.AddRepaint(region.Rect(0, 0, 10, 10))

	layer.Destroy()

	if !layer.IsDestroyed() {
		t.Error("IsDestroyed() = false after Destroy")
	}
	if layer.NeedsRepaint() {
		t.Error("destroyed layer should not need a repaint")
	}
	if _, ok := layer.BeginFrame(); ok {
		t.Error("BeginFrame() on a destroyed layer should fail")
	}
	if layer.AttemptScanout(newFakeSurface(gputypes.TextureFormatRGBA8Unorm, ModifierLinear)) {
		t.Error("AttemptScanout() on a destroyed layer should fail")
	}
}

func TestOutputLayerRepaints(t *testing.T) {
	layer := NewOutputLayer(newFakePlane())
	if layer.NeedsRepaint() {
		t.Error("new layer should not need a repaint")
	}
	layer.AddRepaint(region.Region{})
	if layer.NeedsRepaint() {
		t.Error("empty damage should be ignored")
	}
	layer.AddRepaint(region.Rect(0, 0, 10, 10))
	layer.AddRepaint(region.Rect(5, 5, 10, 10))
	if got, want := layer.Repaints().Area(), 175; got != want {
		t.Errorf("Repaints().Area() = %d, want %d", got, want)
	}
	layer.ResetRepaints()
	if layer.NeedsRepaint() {
		t.Error("NeedsRepaint() = true after ResetRepaints")
	}
}

func TestOutputLayerFixedSize(t *testing.T) {
	layer := NewOutputLayer(newFakePlane())
	layer.SetSize(image.Pt(100, 100))
	if got := layer.Size(); got != image.Pt(100, 100) {
		t.Errorf("Size() = %v, want (100,100)", got)
	}

	layer.SetFixedSize(image.Pt(64, 64))
	layer.SetSize(image.Pt(128, 128))
	if got := layer.Size(); got != image.Pt(64, 64) {
		t.Errorf("Size() = %v, want fixed (64,64)", got)
	}
	if size, ok := layer.FixedSize(); !ok || size != image.Pt(64, 64) {
		t.Errorf("FixedSize() = %v, %v", size, ok)
	}
}

func TestOutputLayerFrame(t *testing.T) {
	plane := newFakePlane()
	layer := NewOutputLayer(plane)

	info, ok := layer.BeginFrame()
	if !ok || info.Target == nil {
		t.Fatal("BeginFrame() should hand out the plane target")
	}
	rendered := region.Rect(0, 0, 8, 8)
	if !layer.EndFrame(rendered, rendered) {
		t.Error("EndFrame() = false")
	}
	if !plane.endRendered.Equal(rendered) {
		t.Errorf("plane saw rendered %v, want %v", plane.endRendered, rendered)
	}

	plane.beginOK = false
	if _, ok := layer.BeginFrame(); ok {
		t.Error("BeginFrame() should report the plane's failure")
	}
}
