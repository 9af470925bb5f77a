// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle identifies the device that drives an output layer.
//
// It is handed to scan-out candidates together with the plane's format table
// so that clients can reallocate their buffers on a device and in a format
// the plane can present directly. DeviceHandle is an alias for
// gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Software planes use it as their scan-out device.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}

// ModifierLinear is the buffer modifier for a plain row-major layout.
const ModifierLinear uint64 = 0

// ModifierInvalid marks a buffer whose layout is unknown.
const ModifierInvalid uint64 = 1<<56 - 1

// FormatTable maps a pixel format to the buffer modifiers supported with it.
type FormatTable map[gputypes.TextureFormat][]uint64

// Supports reports whether the table accepts the given format and modifier.
func (t FormatTable) Supports(format gputypes.TextureFormat, modifier uint64) bool {
	modifiers, ok := t[format]
	if !ok {
		return false
	}
	return slices.Contains(modifiers, modifier)
}

// Clone returns a deep copy of the table.
func (t FormatTable) Clone() FormatTable {
	if t == nil {
		return nil
	}
	out := make(FormatTable, len(t))
	for format, modifiers := range t {
		out[format] = slices.Clone(modifiers)
	}
	return out
}
