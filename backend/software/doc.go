// Package software provides a CPU render backend for the compositor.
//
// Every output gets a primary plane backed by a render.PixmapTarget at the
// output's pixel size and a fixed-size cursor plane. Present composes the
// planes into a display image that tests and headless tools can inspect
// with Snapshot.
//
// The backend registers itself as "software" on import:
//
//	import _ "github.com/gogpu/compositor/backend/software"
//
//	b, err := backend.NewByName("software")
package software
