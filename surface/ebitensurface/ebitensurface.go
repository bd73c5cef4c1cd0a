// Package ebitensurface adapts *ebiten.Image to surface.Surface so groups can
// draw straight onto an ebiten screen.
package ebitensurface

import (
	"image"
	"image/color"
	"weak"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spritegroup/surface"
)

var _ surface.Surface = (*Surface)(nil)

// Surface wraps an ebiten image. Clipping is applied through sub images.
//
// Software surfaces blitted onto it are uploaded once and kept until their
// pixels change, so long-lived destinations should be reused between frames.
type Surface struct {
	img     *ebiten.Image
	clip    image.Rectangle
	uploads map[weak.Pointer[surface.RGBA]]upload
}

type upload struct {
	img     *ebiten.Image
	version uint64
}

// pruneAt is the cache size at which uploads of collected surfaces are dropped.
const pruneAt = 64

// Wrap returns a Surface drawing into img. It is cheap enough to call once per
// frame on the screen passed to Draw.
func Wrap(img *ebiten.Image) *Surface {
	if img == nil {
		return &Surface{}
	}
	return &Surface{img: img, clip: img.Bounds()}
}

// New allocates a w x h ebiten image.
func New(w, h int) *Surface {
	return Wrap(ebiten.NewImage(max(w, 1), max(h, 1)))
}

// FromImage uploads img to a new ebiten image.
func FromImage(img image.Image) *Surface {
	if img == nil {
		return New(1, 1)
	}
	return Wrap(ebiten.NewImageFromImage(img))
}

// Image returns the wrapped ebiten image.
func (s *Surface) Image() *ebiten.Image {
	if s == nil {
		return nil
	}
	return s.img
}

func (s *Surface) Bounds() image.Rectangle {
	if s == nil || s.img == nil {
		return image.Rectangle{}
	}
	return s.img.Bounds()
}

func (s *Surface) ColorModel() color.Model { return color.RGBAModel }

// At reads back a pixel. Ebiten only allows this while the game is running.
func (s *Surface) At(x, y int) color.Color {
	if s == nil || s.img == nil {
		return color.RGBA{}
	}
	return s.img.At(x, y)
}

func (s *Surface) Clip() image.Rectangle {
	if s == nil {
		return image.Rectangle{}
	}
	return s.clip
}

func (s *Surface) SetClip(r image.Rectangle) {
	if s == nil {
		return
	}
	s.clip = surface.ClampClip(r, s.Bounds())
}

func (s *Surface) Fill(r image.Rectangle, c color.Color) {
	if s == nil || s.img == nil {
		return
	}
	r = r.Intersect(s.clip)
	if r.Empty() {
		return
	}
	s.img.SubImage(r).(*ebiten.Image).Fill(c)
}

func (s *Surface) Blit(src surface.Surface, at image.Point, area image.Rectangle, mode surface.BlendMode) image.Rectangle {
	empty := image.Rectangle{Min: at, Max: at}
	if s == nil || s.img == nil {
		return empty
	}
	si := s.source(src)
	if si == nil {
		return empty
	}
	dst, sp, ok := surface.Placement(si.Bounds(), at, area, s.clip)
	if !ok {
		return empty
	}
	part := si.SubImage(image.Rectangle{Min: sp, Max: sp.Add(dst.Size())}).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	op.Blend = blendFor(mode)
	op.Filter = ebiten.FilterNearest
	s.img.SubImage(dst).(*ebiten.Image).DrawImage(part, op)
	return dst
}

// source returns an ebiten image for src.
func (s *Surface) source(src surface.Surface) *ebiten.Image {
	switch v := src.(type) {
	case nil:
		return nil
	case *Surface:
		if v == nil {
			return nil
		}
		return v.img
	case *surface.RGBA:
		if v == nil || v.Image() == nil {
			return nil
		}
		return s.upload(v)
	case image.Image:
		return ebiten.NewImageFromImage(v)
	}
	return nil
}

// upload returns the cached ebiten copy of src, refreshing it when src has
// changed since it was made.
func (s *Surface) upload(src *surface.RGBA) *ebiten.Image {
	key := weak.Make(src)
	u, ok := s.uploads[key]
	if ok && u.version == src.Version() {
		return u.img
	}
	pix := src.Image()
	if ok && u.img.Bounds() == pix.Bounds() && pix.Stride == 4*pix.Rect.Dx() {
		u.img.WritePixels(pix.Pix)
	} else {
		u.img = ebiten.NewImageFromImage(pix)
	}
	u.version = src.Version()

	if s.uploads == nil {
		s.uploads = map[weak.Pointer[surface.RGBA]]upload{}
	}
	if !ok && len(s.uploads) >= pruneAt {
		for k := range s.uploads {
			if k.Value() == nil {
				delete(s.uploads, k)
			}
		}
	}
	s.uploads[key] = u
	return u.img
}

func blendFor(mode surface.BlendMode) ebiten.Blend {
	switch mode {
	case surface.BlendCopy:
		return ebiten.BlendCopy
	case surface.BlendAdd:
		// Lighter would add the alpha channels too.
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case surface.BlendSub:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationReverseSubtract,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case surface.BlendMult:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case surface.BlendMin, surface.BlendMax:
		op := ebiten.BlendOperationMin
		if mode == surface.BlendMax {
			op = ebiten.BlendOperationMax
		}
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           op,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	}
	return ebiten.BlendSourceOver
}

type backend struct{}

// Backend creates ebiten backed surfaces.
var Backend surface.Backend = backend{}

func (backend) NewSurface(w, h int) surface.Surface { return New(w, h) }

func (backend) FromImage(img image.Image) surface.Surface { return FromImage(img) }
