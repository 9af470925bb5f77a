package software

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/compositor/region"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/compositor/scene"
)

// formats are the buffer layouts a plane can show without composition.
var formats = render.FormatTable{
	gputypes.TextureFormatRGBA8Unorm: {render.ModifierLinear},
	gputypes.TextureFormatBGRA8Unorm: {render.ModifierLinear},
}

// bufferSource is implemented by surface items that expose their buffer.
type bufferSource interface {
	Buffer() *scene.Buffer
}

// plane is one CPU plane of an output. It implements render.OutputLayerBackend.
type plane struct {
	output *render.Output
	layer  *render.OutputLayer
	cursor bool

	target      *render.PixmapTarget
	fullRepaint bool
	frames      int

	// scanout is the client buffer shown instead of target after a
	// successful direct scan-out, cropped to its source box.
	scanout image.Image
}

func newPlane(output *render.Output, cursor bool) *plane {
	p := &plane{output: output, cursor: cursor, fullRepaint: true}
	p.layer = render.NewOutputLayer(p)
	p.layer.SetScale(output.Scale())
	if !cursor {
		p.layer.SetSize(output.PixelSize())
	}
	return p
}

// BeginFrame implements render.OutputLayerBackend.
func (p *plane) BeginFrame() (render.BeginFrameInfo, bool) {
	if !p.cursor {
		p.layer.SetScale(p.output.Scale())
		p.layer.SetSize(p.output.PixelSize())
	}
	size := p.layer.Size()
	if size.X <= 0 || size.Y <= 0 {
		return render.BeginFrameInfo{}, false
	}
	if p.target == nil {
		p.target = render.NewPixmapTarget(size.X, size.Y)
		p.fullRepaint = true
	} else if p.target.Width() != size.X || p.target.Height() != size.Y {
		p.target.Resize(size.X, size.Y)
		p.fullRepaint = true
	}
	p.target.SetScale(p.layer.Scale())

	info := render.BeginFrameInfo{Target: p.target}
	if p.fullRepaint {
		// The buffer holds nothing usable: repaint all of it.
		info.Repaint = region.Infinite()
	}
	return info, true
}

// EndFrame implements render.OutputLayerBackend.
func (p *plane) EndFrame(rendered, damaged region.Region) bool {
	if p.target == nil {
		return false
	}
	p.scanout = nil
	p.fullRepaint = false
	p.frames++
	slogger().Debug("plane frame done",
		"output", p.output.Name(), "cursor", p.cursor,
		"rendered", rendered.Bounds(), "damaged", damaged.Bounds())
	return true
}

// DoAttemptScanout implements render.OutputLayerBackend. Only buffers that
// cover the whole output 1:1, untransformed and in sRGB are accepted.
func (p *plane) DoAttemptScanout(item render.SurfaceItem) bool {
	if p.cursor {
		return false
	}
	src, ok := item.(bufferSource)
	if !ok {
		return false
	}
	buf := src.Buffer()
	if buf == nil || buf.Image == nil {
		return false
	}
	if item.BufferTransform() != render.TransformNormal || item.ColorDescription() != render.ColorSRGB {
		return false
	}
	box := item.BufferSourceBox()
	if box.Size() != p.output.PixelSize() || item.DestinationSize() != p.output.Geometry().Size() {
		return false
	}
	p.scanout = subImage(buf.Image, box)
	// The composited buffer is stale once a client buffer replaced it.
	p.fullRepaint = true
	return true
}

// SupportedFormats implements render.OutputLayerBackend.
func (p *plane) SupportedFormats() render.FormatTable { return formats }

// ScanoutDevice implements render.OutputLayerBackend.
func (p *plane) ScanoutDevice() render.DeviceHandle { return render.NullDeviceHandle{} }

// front returns the image the plane currently shows, or nil before the first
// frame.
func (p *plane) front() image.Image {
	if p.scanout != nil {
		return p.scanout
	}
	if p.target == nil || p.frames == 0 {
		return nil
	}
	return p.target.Image()
}

func subImage(img image.Image, rect image.Rectangle) image.Image {
	if s, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return s.SubImage(rect)
	}
	return img
}

// Ensure plane implements render.OutputLayerBackend.
var _ render.OutputLayerBackend = (*plane)(nil)
