package compositor

import (
	"image"
	"image/color"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/compositor/backend"
	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/compositor/scene"
)

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
)

// fakePlane is a primary plane that records what the compositor asks of it.
type fakePlane struct {
	target        *render.PixmapTarget
	formats       render.FormatTable
	failBegin     bool
	acceptScanout bool

	begins   int
	ends     int
	scanouts int
	rendered region.Region
	damaged  region.Region
}

func (p *fakePlane) BeginFrame() (render.BeginFrameInfo, bool) {
	p.begins++
	if p.failBegin {
		return render.BeginFrameInfo{}, false
	}
	return render.BeginFrameInfo{Target: p.target}, true
}

func (p *fakePlane) EndFrame(rendered, damaged region.Region) bool {
	p.ends++
	p.rendered, p.damaged = rendered, damaged
	return true
}

func (p *fakePlane) DoAttemptScanout(render.SurfaceItem) bool {
	p.scanouts++
	return p.acceptScanout
}

func (p *fakePlane) SupportedFormats() render.FormatTable { return p.formats }
func (p *fakePlane) ScanoutDevice() render.DeviceHandle   { return render.NullDeviceHandle{} }

// fakeBackend has a fakePlane per output and no cursor plane.
type fakeBackend struct {
	planes   map[*render.Output]*fakePlane
	layers   map[*render.Output]*render.OutputLayer
	reset    bool
	presents int
	closes   int
	err      error

	// presentAt, if set, is the timestamp frames complete at instead of
	// their target.
	presentAt time.Duration
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		planes: make(map[*render.Output]*fakePlane),
		layers: make(map[*render.Output]*render.OutputLayer),
	}
}

func (b *fakeBackend) plane(output *render.Output) *fakePlane {
	b.PrimaryLayer(output)
	return b.planes[output]
}

func (b *fakeBackend) Name() string                             { return "fake" }
func (b *fakeBackend) CompositingType() backend.CompositingType { return backend.SoftwareCompositing }

func (b *fakeBackend) PrimaryLayer(output *render.Output) *render.OutputLayer {
	if layer, ok := b.layers[output]; ok {
		return layer
	}
	size := output.PixelSize()
	p := &fakePlane{
		target: render.NewPixmapTarget(size.X, size.Y),
		formats: render.FormatTable{
			gputypes.TextureFormatRGBA8Unorm: {render.ModifierLinear},
		},
		acceptScanout: true,
	}
	b.planes[output] = p
	b.layers[output] = render.NewOutputLayer(p)
	return b.layers[output]
}

func (b *fakeBackend) CursorLayer(*render.Output) *render.OutputLayer { return nil }
func (b *fakeBackend) UpdateCursorLayer(*render.Output) bool          { return false }

func (b *fakeBackend) Present(output *render.Output, frame *render.OutputFrame) error {
	b.presents++
	if b.err != nil {
		return b.err
	}
	ts := frame.TargetPresentationTimestamp()
	if b.presentAt != 0 {
		ts = b.presentAt
	}
	output.RenderLoop().FrameCompleted(ts)
	return nil
}

func (b *fakeBackend) CheckGraphicsReset() bool {
	reset := b.reset
	b.reset = false
	return reset
}

func (b *fakeBackend) Close() error {
	b.closes++
	return nil
}

// fakeFactory creates fakeBackends and remembers them.
type fakeFactory struct {
	created []*fakeBackend
	err     error
}

func (f *fakeFactory) New() (backend.RenderBackend, error) {
	if f.err != nil {
		return nil, f.err
	}
	b := newFakeBackend()
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeFactory) last() *fakeBackend { return f.created[len(f.created)-1] }

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// addWindow maps an opaque window with a solid buffer of color c.
func addWindow(s *scene.WorkspaceScene, geometry image.Rectangle, c color.RGBA) *scene.Window {
	w := s.AddWindow(geometry)
	w.Surface().Attach(&scene.Buffer{
		Image:    solidImage(geometry.Dx(), geometry.Dy(), c),
		Format:   gputypes.TextureFormatRGBA8Unorm,
		Modifier: render.ModifierLinear,
	}, region.Region{})
	w.Surface().SetOpaque(region.FromRect(w.Item().Rect()))
	return w
}

// recordingDelegate logs the hooks called on it.
type recordingDelegate struct {
	render.DelegateBase
	name     string
	log      *[]string
	prePaint region.Region
}

func (d *recordingDelegate) PrePaint() region.Region {
	*d.log = append(*d.log, d.name+":prePaint")
	return d.prePaint
}

func (d *recordingDelegate) Paint(render.RenderTarget, region.Region) {
	*d.log = append(*d.log, d.name+":paint")
}

func (d *recordingDelegate) PostPaint() {
	*d.log = append(*d.log, d.name+":postPaint")
}

func (d *recordingDelegate) Frame(*render.OutputFrame) {
	*d.log = append(*d.log, d.name+":frame")
}
