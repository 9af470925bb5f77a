// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene connects item trees to the render layer tree.
//
// A Scene is independent of any output. Every output that shows a scene does
// so through a Delegate, a render.RenderLayerDelegate that translates between
// the layer's output-local coordinates and the scene's global coordinates.
//
// Damage enters a scene in two ways. Item.ScheduleRepaint records damage per
// delegate on the item, to be collected by the scene's PrePaint; this honours
// items hidden for a delegate. Scene.AddRepaint and Item.ScheduleSceneRepaint
// bypass the items and damage the delegate layers directly.
//
// Two scenes are provided. WorkspaceScene draws the background and the
// windows and selects direct scan-out candidates. CursorScene holds the
// pointer cursor for hardware cursor planes. Both paint with ItemRenderer,
// which draws into render.RasterTarget values using golang.org/x/image/draw.
package scene
