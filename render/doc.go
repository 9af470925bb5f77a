// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the building blocks of the compositor's render
// pipeline.
//
// A frame of one output is described by three cooperating trees and objects:
//
//   - RenderLayer: a node in a tree of compositable layers. It owns geometry,
//     visibility, pending damage and a RenderLayerDelegate.
//   - RenderLayerDelegate: decides what a layer paints. Scene adapters and the
//     software cursor implement it by embedding DelegateBase.
//   - OutputLayer: one hardware plane (primary, cursor) provided by a backend.
//     RenderLayers refer to it weakly and see nil once it is destroyed.
//
// Frames are paced by a RenderLoop. Loop is the default implementation: it is
// driven by Dispatch (or Run) and keeps at most one frame in flight until the
// backend calls FrameCompleted.
//
// # Coordinates
//
// Geometry of a RenderLayer is relative to its superlayer; the root layer
// space is the output-local logical space. RenderTarget.Scale maps logical
// units to device pixels. Damage is carried as region.Region values.
//
// # Damage Flow
//
// Damage enters through RenderLayer.AddRepaint, which ignores invisible
// layers and schedules a repaint on the loop. Area a layer stops covering
// (moves, hides, reparents, output layer changes) is handed to the output
// layer with its own AddRepaint, and the loop is asked for the frame that
// redraws it.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use except the package
// logger. The layer tree belongs to the compositor's goroutine.
package render
