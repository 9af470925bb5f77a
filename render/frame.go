// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "time"

// ContentType hints the display about the kind of content being shown.
type ContentType uint8

// Content type constants.
const (
	ContentTypeNone ContentType = iota
	ContentTypePhoto
	ContentTypeVideo
	ContentTypeGame
)

// String returns a human-readable name for the content type.
func (c ContentType) String() string {
	switch c {
	case ContentTypeNone:
		return "None"
	case ContentTypePhoto:
		return "Photo"
	case ContentTypeVideo:
		return "Video"
	case ContentTypeGame:
		return "Game"
	default:
		return "Unknown"
	}
}

// OutputFrame is the token for one refresh cycle of one output.
//
// It is created by the compositor right after RenderLoop.PrepareNewFrame and
// passed through the paint passes to the backend's Present call and finally
// to every delegate's Frame hook.
type OutputFrame struct {
	loop        RenderLoop
	sequence    uint64
	contentType ContentType
	target      time.Duration
}

// NewOutputFrame creates the frame token for loop's upcoming refresh.
func NewOutputFrame(loop RenderLoop, sequence uint64) *OutputFrame {
	f := &OutputFrame{loop: loop, sequence: sequence}
	if loop != nil {
		f.target = loop.NextPresentationTimestamp()
	}
	return f
}

// Loop returns the render loop the frame belongs to.
func (f *OutputFrame) Loop() RenderLoop { return f.loop }

// Sequence returns the frame's position in the loop's frame sequence.
func (f *OutputFrame) Sequence() uint64 { return f.sequence }

// ContentType returns the content type recorded for this frame.
func (f *OutputFrame) ContentType() ContentType { return f.contentType }

// SetContentType records the content type shown by this frame.
func (f *OutputFrame) SetContentType(c ContentType) { f.contentType = c }

// TargetPresentationTimestamp returns when the frame is expected on screen,
// measured on the loop's monotonic clock.
func (f *OutputFrame) TargetPresentationTimestamp() time.Duration { return f.target }
