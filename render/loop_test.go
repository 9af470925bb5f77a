// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewLoop(t *testing.T) {
	tests := []struct {
		name     string
		rate     int
		wantRate int
		interval time.Duration
	}{
		{"default", 0, DefaultRefreshRate, time.Second / 60},
		{"negative", -5, DefaultRefreshRate, time.Second / 60},
		{"120Hz", 120000, 120000, time.Second / 120},
		{"50Hz", 50000, 50000, 20 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop := NewLoop(tt.rate)
			if loop.RefreshRate() != tt.wantRate {
				t.Errorf("RefreshRate() = %d, want %d", loop.RefreshRate(), tt.wantRate)
			}
			if loop.Interval() != tt.interval {
				t.Errorf("Interval() = %v, want %v", loop.Interval(), tt.interval)
			}
		})
	}
}

func TestLoopDispatch(t *testing.T) {
	loop := NewLoop(0)
	frames := 0
	loop.OnFrameRequested(func(l *Loop) {
		frames++
		l.PrepareNewFrame()
	})

	if loop.Dispatch() {
		t.Error("Dispatch() = true without a pending repaint")
	}

	loop.ScheduleRepaint(nil)
	if !loop.IsRepaintPending() {
		t.Error("IsRepaintPending() = false after ScheduleRepaint")
	}
	if !loop.Dispatch() {
		t.Fatal("Dispatch() = false with a pending repaint")
	}
	if frames != 1 || loop.Sequence() != 1 {
		t.Errorf("frames = %d, sequence = %d, want 1, 1", frames, loop.Sequence())
	}

	loop.ScheduleRepaint(nil)
	if loop.Dispatch() {
		t.Error("Dispatch() = true while a frame is in flight")
	}

	loop.FrameCompleted(16 * time.Millisecond)
	if !loop.Dispatch() {
		t.Error("Dispatch() = false after FrameCompleted")
	}
	if frames != 2 {
		t.Errorf("frames = %d, want 2", frames)
	}
}

func TestLoopInhibit(t *testing.T) {
	loop := NewLoop(0)
	loop.Inhibit()
	loop.Inhibit()
	loop.ScheduleRepaint(nil)

	if loop.Dispatch() {
		t.Error("Dispatch() = true while inhibited")
	}
	loop.Uninhibit()
	if loop.Dispatch() {
		t.Error("Dispatch() = true with one inhibit left")
	}
	loop.Uninhibit()
	loop.Uninhibit()
	if !loop.Dispatch() {
		t.Error("Dispatch() = false after uninhibiting")
	}
}

func TestLoopPresentationTimestamps(t *testing.T) {
	loop := NewLoop(50000)
	if got := loop.NextPresentationTimestamp(); got != 20*time.Millisecond {
		t.Errorf("NextPresentationTimestamp() = %v, want 20ms", got)
	}

	loop.FrameCompleted(100 * time.Millisecond)
	if got := loop.LastPresentationTimestamp(); got != 100*time.Millisecond {
		t.Errorf("LastPresentationTimestamp() = %v, want 100ms", got)
	}
	if got := loop.NextPresentationTimestamp(); got != 120*time.Millisecond {
		t.Errorf("NextPresentationTimestamp() = %v, want 120ms", got)
	}

	loop.FrameCompleted(50 * time.Millisecond)
	if got := loop.LastPresentationTimestamp(); got != 100*time.Millisecond {
		t.Errorf("timestamps must not go backwards, got %v", got)
	}
}

func TestLoopPaintingState(t *testing.T) {
	loop := NewLoop(0)
	loop.PrepareNewFrame()
	if loop.IsPainting() {
		t.Error("IsPainting() = true before BeginPaint")
	}
	loop.BeginPaint()
	if !loop.IsPainting() {
		t.Error("IsPainting() = false after BeginPaint")
	}
	loop.FrameCompleted(0)
	if loop.IsPainting() {
		t.Error("IsPainting() = true after FrameCompleted")
	}
}

func TestLoopRun(t *testing.T) {
	loop := NewLoop(1000000)
	ctx, cancel := context.WithCancel(context.Background())
	loop.OnFrameRequested(func(l *Loop) {
		l.PrepareNewFrame()
		cancel()
	})
	loop.ScheduleRepaint(nil)

	err := loop.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if loop.Sequence() != 1 {
		t.Errorf("Sequence() = %d, want 1", loop.Sequence())
	}
}

func TestOutputFrame(t *testing.T) {
	loop := NewLoop(0)
	frame := NewOutputFrame(loop, 7)
	if frame.Sequence() != 7 {
		t.Errorf("Sequence() = %d, want 7", frame.Sequence())
	}
	if frame.Loop() != loop {
		t.Error("Loop() should return the creating loop")
	}
	if frame.TargetPresentationTimestamp() != loop.NextPresentationTimestamp() {
		t.Error("TargetPresentationTimestamp() should match the loop")
	}
	frame.SetContentType(ContentTypeGame)
	if frame.ContentType() != ContentTypeGame {
		t.Errorf("ContentType() = %v, want Game", frame.ContentType())
	}
}

func TestContentTypeString(t *testing.T) {
	tests := []struct {
		c    ContentType
		want string
	}{
		{ContentTypeNone, "None"},
		{ContentTypePhoto, "Photo"},
		{ContentTypeVideo, "Video"},
		{ContentTypeGame, "Game"},
		{ContentType(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("ContentType(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestLoopReset(t *testing.T) {
	loop := NewLoop(0)
	frames := 0
	loop.OnFrameRequested(func(*Loop) { frames++ })
	loop.ScheduleRepaint(nil)
	loop.Dispatch()

	loop.ScheduleRepaint(nil)
	if loop.Dispatch() {
		t.Fatal("Dispatch() = true with a frame in flight")
	}

	loop.Reset()
	if !loop.IsRepaintPending() {
		t.Error("Reset should ask for a frame")
	}
	if !loop.Dispatch() {
		t.Error("Dispatch() = false after Reset")
	}
	if frames != 2 {
		t.Errorf("frames = %d, want 2", frames)
	}
}
