// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"time"
)

// RenderLoop paces the frames of one output.
//
// The compositor is called back once per refresh cycle; RenderLayers notify
// the loop whenever they gain damage so that the next cycle actually does work.
type RenderLoop interface {
	// ScheduleRepaint asks for a frame. item is the item that needs it,
	// or nil when the request is not tied to an item.
	ScheduleRepaint(item Item)

	// PrepareNewFrame advances the loop's timing state for a new frame.
	PrepareNewFrame()

	// BeginPaint marks the start of painting of the prepared frame.
	BeginPaint()

	// SetFullscreenSurface tells the loop which surface, if any, fills the
	// whole output. Loops may adapt pacing to it.
	SetFullscreenSurface(item SurfaceItem)

	// LastPresentationTimestamp returns when the last frame hit the screen.
	LastPresentationTimestamp() time.Duration

	// NextPresentationTimestamp returns when the upcoming frame is expected
	// to hit the screen.
	NextPresentationTimestamp() time.Duration
}

// DefaultRefreshRate is the refresh rate of a Loop created with rate 0,
// in millihertz.
const DefaultRefreshRate = 60000

// Loop is a RenderLoop driven by explicit Dispatch calls.
//
// A Loop keeps at most one frame in flight: once a frame has been requested it
// does not request another until FrameCompleted is called by the backend.
// Loop is NOT safe for concurrent use; Dispatch, Run and all RenderLoop
// methods must be called from the compositor's goroutine.
type Loop struct {
	refreshRate int
	interval    time.Duration

	handlers []func(*Loop)

	pending    bool
	inFlight   bool
	inhibitCnt int

	sequence         uint64
	painting         bool
	fullscreen       SurfaceItem
	lastPresentation time.Duration
	nextPresentation time.Duration
}

// NewLoop creates a loop with the given refresh rate in millihertz.
func NewLoop(refreshRate int) *Loop {
	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}
	interval := time.Duration(int64(time.Second) * 1000 / int64(refreshRate))
	return &Loop{
		refreshRate:      refreshRate,
		interval:         interval,
		nextPresentation: interval,
	}
}

// RefreshRate returns the refresh rate in millihertz.
func (l *Loop) RefreshRate() int { return l.refreshRate }

// Interval returns the duration of one refresh cycle.
func (l *Loop) Interval() time.Duration { return l.interval }

// OnFrameRequested registers fn to be called for every frame the loop requests.
func (l *Loop) OnFrameRequested(fn func(*Loop)) {
	l.handlers = append(l.handlers, fn)
}

// ClearFrameRequested removes all frame handlers.
func (l *Loop) ClearFrameRequested() {
	l.handlers = nil
}

// ScheduleRepaint implements RenderLoop.
func (l *Loop) ScheduleRepaint(Item) {
	l.pending = true
}

// IsRepaintPending reports whether a frame has been asked for and not yet
// dispatched.
func (l *Loop) IsRepaintPending() bool { return l.pending }

// Inhibit stops the loop from dispatching frames until Uninhibit is called
// the same number of times.
func (l *Loop) Inhibit() { l.inhibitCnt++ }

// Uninhibit reverts one Inhibit call.
func (l *Loop) Uninhibit() {
	if l.inhibitCnt > 0 {
		l.inhibitCnt--
	}
}

// Dispatch requests a frame from the registered handlers if a repaint is
// pending, the loop is not inhibited and no frame is in flight.
// It reports whether a frame was requested.
func (l *Loop) Dispatch() bool {
	if !l.pending || l.inFlight || l.inhibitCnt > 0 {
		return false
	}
	l.pending = false
	l.inFlight = true
	for _, fn := range l.handlers {
		fn(l)
	}
	return true
}

// PrepareNewFrame implements RenderLoop.
func (l *Loop) PrepareNewFrame() {
	l.sequence++
	l.painting = false
	l.inFlight = true
}

// BeginPaint implements RenderLoop.
func (l *Loop) BeginPaint() {
	l.painting = true
}

// IsPainting reports whether BeginPaint was called for the current frame.
func (l *Loop) IsPainting() bool { return l.painting }

// Sequence returns the number of frames prepared so far.
func (l *Loop) Sequence() uint64 { return l.sequence }

// SetFullscreenSurface implements RenderLoop.
func (l *Loop) SetFullscreenSurface(item SurfaceItem) {
	l.fullscreen = item
}

// FullscreenSurface returns the surface last passed to SetFullscreenSurface.
func (l *Loop) FullscreenSurface() SurfaceItem { return l.fullscreen }

// LastPresentationTimestamp implements RenderLoop.
func (l *Loop) LastPresentationTimestamp() time.Duration { return l.lastPresentation }

// NextPresentationTimestamp implements RenderLoop.
func (l *Loop) NextPresentationTimestamp() time.Duration { return l.nextPresentation }

// FrameCompleted is called by the backend once the in-flight frame has been
// presented at timestamp. It allows the next frame to be dispatched.
func (l *Loop) FrameCompleted(timestamp time.Duration) {
	l.inFlight = false
	l.painting = false
	if timestamp > l.lastPresentation {
		l.lastPresentation = timestamp
	}
	l.nextPresentation = l.lastPresentation + l.interval
}

// Reset drops the in-flight frame and asks for a new one. The compositor
// calls it when the backend that would have completed the frame is gone.
func (l *Loop) Reset() {
	l.inFlight = false
	l.painting = false
	l.pending = true
}

// Run dispatches frames once per refresh interval until ctx is done.
// Frame handlers run on the calling goroutine.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Dispatch()
		}
	}
}

// Ensure Loop implements RenderLoop.
var _ RenderLoop = (*Loop)(nil)
