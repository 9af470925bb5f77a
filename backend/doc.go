// Package backend defines how the compositor talks to render backends.
//
// A render backend owns the hardware planes of every output, exposed as
// render.OutputLayer values, and presents finished frames. The compositor
// never creates planes itself; it asks the backend for the primary and
// cursor layer of an output on every frame.
//
// # Backend Registration
//
// Backends register a factory from an init function and are selected by
// priority at runtime. The software backend registers itself on import:
//
//	import _ "github.com/gogpu/compositor/backend/software"
//
// # Backend Selection
//
// Registry.New creates the highest priority backend that can run, falling
// back to the next one when a factory fails. NewByName requests a specific
// backend from the default registry:
//
//	b, err := backend.NewByName("software")
//
// # Graphics Resets
//
// CheckGraphicsReset reports a lost rendering context. The compositor reacts
// by closing the backend and creating a new one through the same factory.
package backend
