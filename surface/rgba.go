package surface

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// RGBA is a software Surface backed by an *image.RGBA. It also implements
// image.Image so masks can be built from it.
type RGBA struct {
	img     *image.RGBA
	clip    image.Rectangle
	version uint64
}

var (
	_ Surface     = (*RGBA)(nil)
	_ image.Image = (*RGBA)(nil)
)

// New creates a transparent w x h surface.
func New(w, h int) *RGBA {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return &RGBA{img: img, clip: img.Bounds()}
}

// FromImage copies src into a new surface whose origin is src's top-left corner.
func FromImage(src image.Image) *RGBA {
	if src == nil {
		return New(0, 0)
	}
	b := src.Bounds()
	s := New(b.Dx(), b.Dy())
	xdraw.Draw(s.img, s.img.Bounds(), src, b.Min, xdraw.Src)
	return s
}

// Image exposes the backing pixels. Call Touch after writing to them.
func (s *RGBA) Image() *image.RGBA {
	if s == nil {
		return nil
	}
	return s.img
}

// Version changes whenever Fill, Blit or Touch alter the pixels. Backends
// that copy the surface use it to tell when the copy is stale.
func (s *RGBA) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Touch records an outside write to the pixels returned by Image.
func (s *RGBA) Touch() {
	if s != nil {
		s.version++
	}
}

func (s *RGBA) ColorModel() color.Model { return color.RGBAModel }

func (s *RGBA) Bounds() image.Rectangle {
	if s == nil || s.img == nil {
		return image.Rectangle{}
	}
	return s.img.Bounds()
}

func (s *RGBA) At(x, y int) color.Color {
	if s == nil || s.img == nil {
		return color.RGBA{}
	}
	return s.img.At(x, y)
}

func (s *RGBA) Clip() image.Rectangle {
	if s == nil {
		return image.Rectangle{}
	}
	return s.clip
}

func (s *RGBA) SetClip(r image.Rectangle) {
	if s == nil {
		return
	}
	s.clip = ClampClip(r, s.Bounds())
}

func (s *RGBA) Fill(r image.Rectangle, c color.Color) {
	if s == nil || s.img == nil {
		return
	}
	r = r.Intersect(s.clip)
	if r.Empty() {
		return
	}
	xdraw.Draw(s.img, r, image.NewUniform(c), image.Point{}, xdraw.Src)
	s.version++
}

func (s *RGBA) Blit(src Surface, at image.Point, area image.Rectangle, mode BlendMode) image.Rectangle {
	empty := image.Rectangle{Min: at, Max: at}
	if s == nil || s.img == nil {
		return empty
	}
	pix := pixels(src)
	if pix == nil {
		return empty
	}
	dst, sp, ok := Placement(pix.Bounds(), at, area, s.clip)
	if !ok {
		return empty
	}
	switch mode {
	case BlendNormal:
		xdraw.Draw(s.img, dst, pix, sp, xdraw.Over)
	case BlendCopy:
		xdraw.Draw(s.img, dst, pix, sp, xdraw.Src)
	default:
		s.blend(dst, pix, sp, mode)
	}
	s.version++
	return dst
}

// pixels returns something readable for src, or nil.
func pixels(src Surface) image.Image {
	switch v := src.(type) {
	case nil:
		return nil
	case *RGBA:
		if v == nil || v.img == nil {
			return nil
		}
		return v.img
	case image.Image:
		return v
	}
	return nil
}

// blend applies the per-channel modes. Channels are combined in the
// premultiplied space of image.RGBA and the destination alpha is kept.
func (s *RGBA) blend(r image.Rectangle, src image.Image, sp image.Point, mode BlendMode) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		sy := sp.Y + y - r.Min.Y
		for x := r.Min.X; x < r.Max.X; x++ {
			sx := sp.X + x - r.Min.X
			d := s.img.RGBAAt(x, y)
			c := color.RGBAModel.Convert(src.At(sx, sy)).(color.RGBA)
			s.img.SetRGBA(x, y, color.RGBA{
				R: combine(d.R, c.R, d.A, mode),
				G: combine(d.G, c.G, d.A, mode),
				B: combine(d.B, c.B, d.A, mode),
				A: d.A,
			})
		}
	}
}

func combine(d, s, alpha uint8, mode BlendMode) uint8 {
	dv, sv := int(d), int(s)
	var v int
	switch mode {
	case BlendAdd:
		v = dv + sv
	case BlendSub:
		v = dv - sv
	case BlendMult:
		v = (dv*sv + 255) >> 8
	case BlendMin:
		v = min(dv, sv)
	case BlendMax:
		v = max(dv, sv)
	default:
		v = sv
	}
	return uint8(max(0, min(v, int(alpha))))
}
