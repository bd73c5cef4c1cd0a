package ebitensurface

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spritegroup/surface"
)

func TestBlendKeepsDestinationAlpha(t *testing.T) {
	modes := []surface.BlendMode{
		surface.BlendAdd,
		surface.BlendSub,
		surface.BlendMult,
		surface.BlendMin,
		surface.BlendMax,
	}
	for _, m := range modes {
		t.Run(m.String(), func(t *testing.T) {
			b := blendFor(m)
			if b.BlendFactorSourceAlpha != ebiten.BlendFactorZero || b.BlendFactorDestinationAlpha != ebiten.BlendFactorOne {
				t.Fatalf("%v should leave destination alpha alone, got %+v", m, b)
			}
		})
	}

	add := blendFor(surface.BlendAdd)
	if add.BlendFactorSourceRGB != ebiten.BlendFactorOne || add.BlendFactorDestinationRGB != ebiten.BlendFactorOne || add.BlendOperationRGB != ebiten.BlendOperationAdd {
		t.Fatalf("add should sum the colour channels, got %+v", add)
	}
	if blendFor(surface.BlendNormal) != ebiten.BlendSourceOver || blendFor(surface.BlendCopy) != ebiten.BlendCopy {
		t.Fatalf("normal and copy should map to the ebiten presets")
	}
}

func TestSourceOfNil(t *testing.T) {
	var s Surface
	var rgba *surface.RGBA
	if s.source(nil) != nil || s.source(rgba) != nil || len(s.uploads) != 0 {
		t.Fatalf("nil sources should not be uploaded")
	}
}
