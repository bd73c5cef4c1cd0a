package sprite

import (
	"image"
	"math"

	"github.com/milk9111/spritegroup/mask"
)

// CollideFunc reports whether two sprites collide.
type CollideFunc func(a, b Sprite) bool

// CollideRect tests the two rects for overlap. Rects that only touch do not collide.
func CollideRect(a, b Sprite) bool {
	return a.Rect().Overlaps(b.Rect())
}

// CollideRectRatio returns a test that scales both rects by ratio around their
// centres before comparing them.
func CollideRectRatio(ratio float64) CollideFunc {
	scale := func(r image.Rectangle) image.Rectangle {
		w, h := float64(r.Dx()), float64(r.Dy())
		return Inflate(r, int(w*ratio-w), int(h*ratio-h))
	}
	return func(a, b Sprite) bool {
		return scale(a.Rect()).Overlaps(scale(b.Rect()))
	}
}

type radiuser interface {
	Radius() float64
}

// radiusOf returns the sprite's own radius when positive, otherwise half of
// its rect diagonal.
func radiusOf(s Sprite) float64 {
	if r, ok := s.(radiuser); ok {
		if v := r.Radius(); v > 0 {
			return v
		}
	}
	rect := s.Rect()
	w, h := float64(rect.Dx()), float64(rect.Dy())
	return 0.5 * math.Sqrt(w*w+h*h)
}

func circles(a, b Sprite, ratio float64) bool {
	ca, cb := Center(a.Rect()), Center(b.Rect())
	dx, dy := float64(ca.X-cb.X), float64(ca.Y-cb.Y)
	reach := (radiusOf(a) + radiusOf(b)) * ratio
	return dx*dx+dy*dy <= reach*reach
}

// CollideCircle tests whether the sprites' circles touch or overlap.
func CollideCircle(a, b Sprite) bool {
	return circles(a, b, 1)
}

// CollideCircleRatio returns a circle test with both radii scaled by ratio.
func CollideCircleRatio(ratio float64) CollideFunc {
	return func(a, b Sprite) bool {
		return circles(a, b, ratio)
	}
}

type masker interface {
	Mask() *mask.Mask
}

// MaskOf returns the sprite's own mask, or one built from its image. It
// returns nil when the sprite has neither a mask nor a readable image.
func MaskOf(s Sprite) *mask.Mask {
	if m, ok := s.(masker); ok {
		if v := m.Mask(); v != nil {
			return v
		}
	}
	img, ok := s.Image().(image.Image)
	if !ok || img == nil {
		return nil
	}
	return mask.FromImage(img, mask.DefaultThreshold)
}

// MaskOverlap returns the first pixel set in both sprites' masks, in a's mask
// coordinates.
func MaskOverlap(a, b Sprite) (image.Point, bool) {
	ma, mb := MaskOf(a), MaskOf(b)
	if ma == nil || mb == nil {
		return image.Point{}, false
	}
	return ma.Overlap(mb, b.Rect().Min.Sub(a.Rect().Min))
}

// CollideMask tests the sprites pixel by pixel.
func CollideMask(a, b Sprite) bool {
	_, ok := MaskOverlap(a, b)
	return ok
}

// SpriteCollide returns the members of g that collide with s, in group order.
// A nil collided uses CollideRect. With kill set, every hit is removed from
// all of its groups.
func SpriteCollide(s Sprite, g Container, kill bool, collided CollideFunc) []Sprite {
	if s == nil || g == nil {
		return nil
	}
	if collided == nil {
		collided = CollideRect
	}
	var hits []Sprite
	for _, other := range g.Sprites() {
		if collided(s, other) {
			hits = append(hits, other)
			if kill {
				Kill(other)
			}
		}
	}
	return hits
}

// SpriteCollideAny returns the first member of g colliding with s, or nil.
func SpriteCollideAny(s Sprite, g Container, collided CollideFunc) Sprite {
	if s == nil || g == nil {
		return nil
	}
	if collided == nil {
		collided = CollideRect
	}
	for _, other := range g.Sprites() {
		if collided(s, other) {
			return other
		}
	}
	return nil
}

// GroupCollide maps every sprite of a to the sprites of b it collides with.
// killA and killB remove the colliding sprites from their groups.
func GroupCollide(a, b Container, killA, killB bool, collided CollideFunc) map[Sprite][]Sprite {
	hits := map[Sprite][]Sprite{}
	if a == nil || b == nil {
		return hits
	}
	for _, s := range a.Sprites() {
		if c := SpriteCollide(s, b, killB, collided); len(c) > 0 {
			hits[s] = c
			if killA {
				Kill(s)
			}
		}
	}
	return hits
}
