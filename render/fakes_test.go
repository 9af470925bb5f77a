// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/compositor/region"
)

// countingLoop records how often repaints were scheduled.
type countingLoop struct {
	scheduled int
}

func (l *countingLoop) ScheduleRepaint(Item)                     { l.scheduled++ }
func (l *countingLoop) PrepareNewFrame()                         {}
func (l *countingLoop) BeginPaint()                              {}
func (l *countingLoop) SetFullscreenSurface(SurfaceItem)         {}
func (l *countingLoop) LastPresentationTimestamp() time.Duration { return 0 }
func (l *countingLoop) NextPresentationTimestamp() time.Duration { return 0 }

// fakePlane is an OutputLayerBackend with scripted answers.
type fakePlane struct {
	formats     FormatTable
	scanoutOK   bool
	scanouts    int
	beginOK     bool
	target      RenderTarget
	endRendered region.Region
	endDamaged  region.Region
}

func newFakePlane() *fakePlane {
	return &fakePlane{
		formats: FormatTable{gputypes.TextureFormatRGBA8Unorm: {ModifierLinear}},
		beginOK: true,
		target:  NewPixmapTarget(64, 64),
	}
}

func (p *fakePlane) BeginFrame() (BeginFrameInfo, bool) {
	if !p.beginOK {
		return BeginFrameInfo{}, false
	}
	return BeginFrameInfo{Target: p.target}, true
}

func (p *fakePlane) EndFrame(rendered, damaged region.Region) bool {
	p.endRendered = rendered
	p.endDamaged = damaged
	return true
}

func (p *fakePlane) DoAttemptScanout(SurfaceItem) bool {
	p.scanouts++
	return p.scanoutOK
}

func (p *fakePlane) SupportedFormats() FormatTable { return p.formats }
func (p *fakePlane) ScanoutDevice() DeviceHandle   { return NullDeviceHandle{} }

// fakeItem records scene repaints.
type fakeItem struct {
	rect     image.Rectangle
	repaints []image.Rectangle
}

func (i *fakeItem) Rect() image.Rectangle { return i.rect }
func (i *fakeItem) ScheduleSceneRepaint(rect image.Rectangle) {
	i.repaints = append(i.repaints, rect)
}

// fakeSurface is a SurfaceItem with a configurable buffer.
type fakeSurface struct {
	fakeItem
	format         gputypes.TextureFormat
	modifier       uint64
	hintCalls      int
	hintDevice     DeviceHandle
	hintFormats    FormatTable
	damageResets   int
	pixmapDestroys int
}

func newFakeSurface(format gputypes.TextureFormat, modifier uint64) *fakeSurface {
	return &fakeSurface{
		fakeItem: fakeItem{rect: image.Rect(0, 0, 64, 64)},
		format:   format,
		modifier: modifier,
	}
}

func (s *fakeSurface) BufferSourceBox() image.Rectangle     { return s.rect }
func (s *fakeSurface) DestinationSize() image.Point         { return s.rect.Size() }
func (s *fakeSurface) BufferTransform() Transform           { return TransformNormal }
func (s *fakeSurface) ColorDescription() ColorDescription   { return ColorSRGB }
func (s *fakeSurface) ContentType() ContentType             { return ContentTypeVideo }
func (s *fakeSurface) BufferFormat() gputypes.TextureFormat { return s.format }
func (s *fakeSurface) BufferModifier() uint64               { return s.modifier }
func (s *fakeSurface) ResetDamage()                         { s.damageResets++ }
func (s *fakeSurface) DestroyPixmap()                       { s.pixmapDestroys++ }
func (s *fakeSurface) SetScanoutHint(d DeviceHandle, f FormatTable) {
	s.hintCalls++
	s.hintDevice = d
	s.hintFormats = f
}

// recordingDelegate paints nothing and counts hook calls.
type recordingDelegate struct {
	DelegateBase
	paints []region.Region
}

func (d *recordingDelegate) Paint(_ RenderTarget, damage region.Region) {
	d.paints = append(d.paints, damage)
}
