package sprite

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/milk9111/spritegroup/surface"
)

// Container is the behaviour shared by every group type.
type Container interface {
	// Sprites returns a copy of the members in draw order.
	Sprites() []Sprite
	Len() int
	// Has reports whether every given sprite is a member. It is false when
	// called with no sprites.
	Has(sprites ...Sprite) bool
	Add(sprites ...Sprite)
	Remove(sprites ...Sprite)
	// Update calls Update on a snapshot of the members.
	Update(dt float64)
	// Draw blits every member onto dst and returns the rectangles that
	// changed. Plain groups return nil.
	Draw(dst surface.Surface) []image.Rectangle
	// Clear paints the background over every area members were last drawn to,
	// including sprites removed since the last draw.
	Clear(dst surface.Surface, bg Eraser)
	// Empty removes every member.
	Empty()
	// Copy returns a new group of the same kind holding the same sprites.
	Copy() Container

	hasInternal(s Sprite) bool
	addInternal(s Sprite) bool
	removeInternal(s Sprite)
}

// Eraser repaints the background over r.
type Eraser interface {
	Erase(dst surface.Surface, r image.Rectangle)
}

// EraseFunc adapts a function to Eraser.
type EraseFunc func(dst surface.Surface, r image.Rectangle)

func (f EraseFunc) Erase(dst surface.Surface, r image.Rectangle) { f(dst, r) }

// SurfaceEraser copies the same area of a background surface.
func SurfaceEraser(bg surface.Surface) Eraser {
	return EraseFunc(func(dst surface.Surface, r image.Rectangle) {
		dst.Blit(bg, r.Min, r, surface.BlendCopy)
	})
}

// ColorEraser fills with a solid colour.
func ColorEraser(c color.Color) Eraser {
	return EraseFunc(func(dst surface.Surface, r image.Rectangle) {
		dst.Fill(r, c)
	})
}

// core holds the members and the last rect each one was drawn to. The outer
// group type is kept in self so the shared methods dispatch to its overrides.
type core struct {
	self    Container
	kind    string
	sprites []Sprite
	drawn   map[*Base]image.Rectangle
	lost    []image.Rectangle
}

func newCore(self Container, kind string) core {
	return core{self: self, kind: kind, drawn: map[*Base]image.Rectangle{}}
}

func (c *core) Sprites() []Sprite {
	return slices.Clone(c.sprites)
}

func (c *core) Len() int {
	return len(c.sprites)
}

func (c *core) Has(sprites ...Sprite) bool {
	if len(sprites) == 0 {
		return false
	}
	for _, s := range sprites {
		if s == nil || !c.self.hasInternal(s.base().self()) {
			return false
		}
	}
	return true
}

func (c *core) Add(sprites ...Sprite) {
	for _, s := range sprites {
		join(c.self, s)
	}
}

func (c *core) Remove(sprites ...Sprite) {
	for _, s := range sprites {
		leave(c.self, s)
	}
}

func (c *core) Update(dt float64) {
	for _, s := range c.Sprites() {
		s.Update(dt)
	}
}

func (c *core) Draw(dst surface.Surface) []image.Rectangle {
	if dst == nil {
		return nil
	}
	for _, s := range c.sprites {
		c.drawn[s.base()] = blit(dst, s)
	}
	c.lost = nil
	return nil
}

func (c *core) Clear(dst surface.Surface, bg Eraser) {
	if dst == nil || bg == nil {
		return
	}
	for _, r := range c.lost {
		bg.Erase(dst, r)
	}
	for _, s := range c.sprites {
		if r := c.drawn[s.base()]; !r.Empty() {
			bg.Erase(dst, r)
		}
	}
}

func (c *core) Empty() {
	for _, s := range c.Sprites() {
		leave(c.self, s)
	}
}

func (c *core) String() string {
	return fmt.Sprintf("<%s(%d sprites)>", c.kind, len(c.sprites))
}

func (c *core) hasInternal(s Sprite) bool {
	_, ok := c.drawn[s.base()]
	return ok
}

func (c *core) addInternal(s Sprite) bool {
	c.insert(len(c.sprites), s)
	return true
}

func (c *core) removeInternal(s Sprite) {
	b := s.base()
	r, ok := c.drawn[b]
	if !ok {
		return
	}
	if !r.Empty() {
		c.lost = append(c.lost, r)
	}
	delete(c.drawn, b)
	if i := c.index(s); i >= 0 {
		c.sprites = slices.Delete(c.sprites, i, i+1)
	}
}

func (c *core) insert(i int, s Sprite) {
	c.drawn[s.base()] = image.Rectangle{}
	c.sprites = slices.Insert(c.sprites, i, s)
}

func (c *core) index(s Sprite) int {
	b := s.base()
	return slices.IndexFunc(c.sprites, func(o Sprite) bool { return o.base() == b })
}

// drawUpdates blits every member and returns the changed rects: the lost
// rects, plus for each sprite its new rect merged with its previous one when
// they overlap, or both when they do not.
func (c *core) drawUpdates(dst surface.Surface) []image.Rectangle {
	if dst == nil {
		return nil
	}
	dirty := c.lost
	c.lost = nil
	for _, s := range c.sprites {
		b := s.base()
		old := c.drawn[b]
		cur := blit(dst, s)
		switch {
		case cur.Empty():
			if !old.Empty() {
				dirty = append(dirty, old)
			}
		case old.Empty():
			dirty = append(dirty, cur)
		case cur.Overlaps(old):
			dirty = append(dirty, cur.Union(old))
		default:
			dirty = append(dirty, cur, old)
		}
		c.drawn[b] = cur
	}
	return dirty
}

type blender interface {
	BlendMode() surface.BlendMode
}

// blit draws s at its rect and returns the touched area.
func blit(dst surface.Surface, s Sprite) image.Rectangle {
	r := s.Rect()
	img := s.Image()
	if img == nil {
		return image.Rectangle{Min: r.Min, Max: r.Min}
	}
	mode := surface.BlendNormal
	if bl, ok := s.(blender); ok {
		mode = bl.BlendMode()
	}
	var area image.Rectangle
	if d, ok := s.(DirtySprite); ok {
		area = d.dirtyBase().SourceRect()
	}
	return dst.Blit(img, r.Min, area, mode)
}

// Group draws its members in insertion order.
type Group struct {
	core
}

// NewGroup creates a Group holding sprites.
func NewGroup(sprites ...Sprite) *Group {
	g := &Group{}
	g.core = newCore(g, "Group")
	g.Add(sprites...)
	return g
}

func (g *Group) Copy() Container {
	return NewGroup(g.Sprites()...)
}
