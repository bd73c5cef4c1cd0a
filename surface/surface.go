// Package surface defines the drawing target that sprites render to, along
// with a software implementation that needs no display.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// BlendMode selects how source pixels combine with the destination.
type BlendMode int

const (
	// BlendNormal composites the source over the destination using alpha.
	BlendNormal BlendMode = iota
	// BlendCopy replaces destination pixels.
	BlendCopy
	BlendAdd
	BlendSub
	BlendMult
	BlendMin
	BlendMax
)

var blendNames = map[BlendMode]string{
	BlendNormal: "normal",
	BlendCopy:   "copy",
	BlendAdd:    "add",
	BlendSub:    "sub",
	BlendMult:   "mult",
	BlendMin:    "min",
	BlendMax:    "max",
}

func (m BlendMode) String() string {
	if name, ok := blendNames[m]; ok {
		return name
	}
	return fmt.Sprintf("BlendMode(%d)", int(m))
}

// ParseBlendMode maps a mode name to its BlendMode. The empty string is BlendNormal.
func ParseBlendMode(name string) (BlendMode, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return BlendNormal, nil
	}
	for mode, n := range blendNames {
		if n == s {
			return mode, nil
		}
	}
	return BlendNormal, fmt.Errorf("surface: unknown blend mode %q", name)
}

// Surface is a 2D pixel target. Coordinates start at (0, 0).
type Surface interface {
	Bounds() image.Rectangle
	// Blit draws the area of src (the whole of src when area is empty) with its
	// top-left corner at at. It returns the destination rectangle that was
	// touched after clipping; a fully clipped blit returns an empty rectangle
	// positioned at at.
	Blit(src Surface, at image.Point, area image.Rectangle, mode BlendMode) image.Rectangle
	// Fill replaces the pixels of r, limited to the clip, with c.
	Fill(r image.Rectangle, c color.Color)
	Clip() image.Rectangle
	// SetClip limits drawing to r. The zero Rectangle resets the clip to the bounds.
	SetClip(r image.Rectangle)
}

// Backend creates surfaces of one implementation.
type Backend interface {
	NewSurface(w, h int) Surface
	FromImage(img image.Image) Surface
}

type software struct{}

// Software is the Backend producing headless RGBA surfaces.
var Software Backend = software{}

func (software) NewSurface(w, h int) Surface { return New(w, h) }
func (software) FromImage(img image.Image) Surface { return FromImage(img) }

// ClampClip applies the SetClip rules shared by every implementation.
func ClampClip(r, bounds image.Rectangle) image.Rectangle {
	if r == (image.Rectangle{}) {
		return bounds
	}
	return r.Intersect(bounds)
}

// Placement computes where a blit lands. It returns the clipped destination
// rectangle and the source point matching its top-left corner. ok is false
// when nothing would be drawn.
func Placement(srcBounds image.Rectangle, at image.Point, area, clip image.Rectangle) (dst image.Rectangle, sp image.Point, ok bool) {
	if area.Empty() {
		area = srcBounds
	} else {
		area = area.Intersect(srcBounds)
	}
	full := image.Rectangle{Min: at, Max: at.Add(area.Size())}
	dst = full.Intersect(clip)
	if dst.Empty() {
		return image.Rectangle{Min: at, Max: at}, image.Point{}, false
	}
	return dst, area.Min.Add(dst.Min.Sub(full.Min)), true
}
