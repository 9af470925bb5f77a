package compositor

import (
	"image/color"

	"github.com/gogpu/compositor/backend"
	"github.com/gogpu/compositor/render"
)

// Option configures a Compositor during creation.
// Use functional options to customize Compositor behavior.
//
// Example:
//
//	// Best available backend, no cursor
//	c := compositor.New(compositor.WithOutputs(out))
//
//	// Injected backend (dependency injection)
//	c := compositor.New(compositor.WithBackendFactory(func() (backend.RenderBackend, error) {
//	    return software.New(), nil
//	}))
type Option func(*options)

// options holds optional configuration for Compositor creation.
type options struct {
	factory     backend.Factory
	registry    *backend.Registry
	backendName string

	cursor   Cursor
	notifier Notifier

	waylandServer       bool
	forceSoftwareCursor bool

	background color.Color
	outputs    []*render.Output
}

// defaultOptions returns the default compositor options.
func defaultOptions() options {
	return options{
		notifier: logNotifier{},
	}
}

// backendFactory resolves the factory used by Start.
func (o *options) backendFactory() backend.Factory {
	if o.factory != nil {
		return o.factory
	}
	registry := o.registry
	if registry == nil {
		registry = backend.Default()
	}
	return registry.Factory(o.backendName)
}

// WithBackend selects a registered backend by name. The default is the best
// available one.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backendName = name
	}
}

// WithBackendFactory sets the function creating the backend on every Start.
// It takes precedence over WithBackend and WithRegistry.
func WithBackendFactory(f backend.Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithRegistry makes the compositor look backends up in r instead of the
// global registry.
func WithRegistry(r *backend.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithCursor sets the pointer cursor shown on the outputs.
func WithCursor(c Cursor) Option {
	return func(o *options) {
		o.cursor = c
	}
}

// WithNotifier sets where user notifications go. The default logs them.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithWaylandServer tells the compositor that a Wayland server is running,
// so the cursor is told when it has been rendered.
func WithWaylandServer(enabled bool) Option {
	return func(o *options) {
		o.waylandServer = enabled
	}
}

// WithForceSoftwareCursor disables hardware cursor planes.
func WithForceSoftwareCursor(force bool) Option {
	return func(o *options) {
		o.forceSoftwareCursor = force
	}
}

// WithBackgroundColor sets the color behind all windows.
func WithBackgroundColor(c color.Color) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithOutputs adds outputs at creation time, in order.
func WithOutputs(outputs ...*render.Output) Option {
	return func(o *options) {
		o.outputs = append(o.outputs, outputs...)
	}
}
