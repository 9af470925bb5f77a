// Command compositordemo composites a desktop layout headlessly with the
// software backend and saves the result as a PNG.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/backend"
	"github.com/gogpu/compositor/backend/software"
	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/compositor/scene"
)

func main() {
	var (
		width   = flag.Int("width", 800, "output width without a layout file")
		height  = flag.Int("height", 600, "output height without a layout file")
		scale   = flag.Float64("scale", 1, "output scale without a layout file")
		config  = flag.String("layout", "", "TOML layout file")
		frames  = flag.Int("frames", 30, "number of frames to run")
		output  = flag.String("output", "demo.png", "output file")
		verbose = flag.Bool("v", false, "log frame diagnostics")
	)
	flag.Parse()

	if *verbose {
		compositor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	l := defaultLayout(*width, *height, *scale)
	if *config != "" {
		var err error
		if l, err = loadLayout(*config); err != nil {
			log.Fatalf("Failed to load layout: %v", err)
		}
	}

	sw := software.New()
	c, cursor, err := build(l, sw)
	if err != nil {
		log.Fatalf("Failed to set up: %v", err)
	}
	if err := c.Start(); err != nil {
		log.Fatalf("Failed to start compositor: %v", err)
	}
	defer c.Stop()

	painted := 0
	for i := range *frames {
		if cursor != nil && i > 0 {
			cursor.SetPosition(cursor.Position().Add(image.Pt(4, 2)))
			c.MoveCursor()
		}
		n, err := c.Dispatch()
		if err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
		painted += n
	}

	img := capture(c, sw)
	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d, %d frames)\n", *output, img.Bounds().Dx(), img.Bounds().Dy(), painted)
}

// build creates a stopped compositor showing l on sw.
func build(l *layout, sw *software.Backend) (*compositor.Compositor, *compositor.PointerCursor, error) {
	opts := []compositor.Option{
		compositor.WithBackendFactory(func() (backend.RenderBackend, error) { return sw, nil }),
	}
	for _, o := range l.Outputs {
		opts = append(opts, compositor.WithOutputs(render.NewOutput(o.Name, o.geometry(), o.Scale)))
	}
	if l.Background != "" {
		bg, err := parseColor(l.Background)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, compositor.WithBackgroundColor(bg))
	}

	var cursor *compositor.PointerCursor
	if cl := l.Cursor; cl != nil {
		fill, err := parseColor(cl.Color)
		if err != nil {
			return nil, nil, err
		}
		cursor = compositor.NewPointerCursor(arrow(cl.Size, fill), image.Pt(cl.HotspotX, cl.HotspotY))
		cursor.SetPosition(image.Pt(cl.X, cl.Y))
		opts = append(opts, compositor.WithCursor(cursor), compositor.WithForceSoftwareCursor(cl.Software))
	}

	c := compositor.New(opts...)
	for _, wl := range l.Windows {
		fill, err := parseColor(wl.Color)
		if err != nil {
			return nil, nil, err
		}
		mapWindow(c.Scene(), wl, fill)
	}
	return c, cursor, nil
}

// mapWindow adds a window filled with a solid client buffer.
func mapWindow(s *scene.WorkspaceScene, wl windowLayout, fill color.RGBA) {
	geom := wl.geometry()
	w := s.AddWindow(geom)
	pixels := image.NewRGBA(image.Rectangle{Max: geom.Size()})
	draw.Draw(pixels, pixels.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	w.Surface().Attach(&scene.Buffer{
		Image:    pixels,
		Format:   gputypes.TextureFormatRGBA8Unorm,
		Modifier: render.ModifierLinear,
	}, region.Region{})
	if fill.A == 0xff {
		w.Surface().SetOpaque(region.FromRect(w.Item().Rect()))
	}
	if wl.Opacity > 0 {
		w.Item().SetOpacity(wl.Opacity)
	}
	w.SetFullscreen(wl.Fullscreen)
}

// arrow draws a size x size arrow cursor pointing to the top left.
func arrow(size int, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	outline := color.RGBA{A: 0xff}
	for y := range size {
		for x := 0; x <= y*2/3; x++ {
			c := fill
			if x == 0 || x == y*2/3 || y == size-1 {
				c = outline
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// capture stitches the last presented image of every output into one image
// in global coordinates, scaling high density outputs down.
func capture(c *compositor.Compositor, sw *software.Backend) *image.RGBA {
	var bounds image.Rectangle
	for _, o := range c.Outputs() {
		bounds = bounds.Union(o.Geometry())
	}
	canvas := image.NewRGBA(image.Rectangle{Max: bounds.Size()})
	for _, o := range c.Outputs() {
		snap := sw.Snapshot(o)
		if snap == nil {
			continue
		}
		dst := o.Geometry().Sub(bounds.Min)
		draw.ApproxBiLinear.Scale(canvas, dst, snap, snap.Bounds(), draw.Src, nil)
	}
	return canvas
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
