package sprite

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/milk9111/spritegroup/mask"
	"github.com/milk9111/spritegroup/surface"
)

var ErrLayerLocked = errors.New("sprite: layer cannot change while the sprite is in a group")

// Sprite is anything a group can hold. Implementations embed Base (or
// DirtyBase) and may override Image, Rect and Update.
type Sprite interface {
	Image() surface.Surface
	Rect() image.Rectangle
	Update(dt float64)
	base() *Base
}

// Base carries the state every sprite needs: an optional image, a bounding
// rectangle and the groups it belongs to. A bare *Base is itself a usable
// sprite.
//
// Types embedding Base must call Bind with themselves before using the
// membership methods on Base directly. Adding the sprite through a group binds
// it automatically.
type Base struct {
	owner    Sprite
	image    surface.Surface
	rect     image.Rectangle
	layer    int
	layerSet bool
	radius   float64
	mask     *mask.Mask
	groups   []Container
}

// NewBase creates a standalone sprite.
func NewBase(img surface.Surface, r image.Rectangle) *Base {
	return &Base{image: img, rect: r}
}

func (b *Base) base() *Base { return b }

// Bind records the outer value that embeds b so groups receive it instead of
// the bare Base.
func (b *Base) Bind(owner Sprite) {
	if b == nil || owner == nil {
		return
	}
	b.owner = owner
}

func (b *Base) self() Sprite {
	if b.owner != nil {
		return b.owner
	}
	return b
}

func (b *Base) Image() surface.Surface {
	if b == nil {
		return nil
	}
	return b.image
}

func (b *Base) SetImage(img surface.Surface) {
	if b == nil {
		return
	}
	b.image = img
}

func (b *Base) Rect() image.Rectangle {
	if b == nil {
		return image.Rectangle{}
	}
	return b.rect
}

func (b *Base) SetRect(r image.Rectangle) {
	if b == nil {
		return
	}
	b.rect = r
}

// Move shifts the rectangle by (dx, dy).
func (b *Base) Move(dx, dy int) {
	if b == nil {
		return
	}
	b.rect = b.rect.Add(image.Pt(dx, dy))
}

// Update does nothing. Embedding types override it.
func (b *Base) Update(dt float64) {}

// Layer returns the sprite's layer. Layered groups assign it on insertion.
func (b *Base) Layer() int {
	if b == nil {
		return 0
	}
	return b.layer
}

// SetLayer sets the layer used when the sprite next joins a layered group.
// Once the sprite is in a group use LayeredUpdates.ChangeLayer instead.
func (b *Base) SetLayer(layer int) error {
	if b == nil {
		return nil
	}
	if b.Alive() {
		return ErrLayerLocked
	}
	b.layer = layer
	b.layerSet = true
	return nil
}

func (b *Base) assignLayer(layer int) {
	b.layer = layer
	b.layerSet = true
}

// Radius returns the collision radius. Zero means derive it from the rect.
func (b *Base) Radius() float64 {
	if b == nil {
		return 0
	}
	return b.radius
}

func (b *Base) SetRadius(r float64) {
	if b == nil {
		return
	}
	b.radius = r
}

// Mask returns the collision mask, or nil to build one from the image.
func (b *Base) Mask() *mask.Mask {
	if b == nil {
		return nil
	}
	return b.mask
}

func (b *Base) SetMask(m *mask.Mask) {
	if b == nil {
		return
	}
	b.mask = m
}

// Add joins each group. Groups the sprite is already in are skipped.
func (b *Base) Add(groups ...Container) {
	if b == nil {
		return
	}
	s := b.self()
	for _, g := range groups {
		join(g, s)
	}
}

// Remove leaves each group.
func (b *Base) Remove(groups ...Container) {
	if b == nil {
		return
	}
	s := b.self()
	for _, g := range groups {
		leave(g, s)
	}
}

// Kill removes the sprite from every group it belongs to.
func (b *Base) Kill() {
	if b == nil {
		return
	}
	s := b.self()
	groups := b.groups
	b.groups = nil
	for _, g := range groups {
		g.removeInternal(s)
	}
}

// Alive reports whether the sprite belongs to at least one group.
func (b *Base) Alive() bool {
	return b != nil && len(b.groups) > 0
}

// Groups returns the groups holding the sprite, in the order it joined them.
func (b *Base) Groups() []Container {
	if b == nil {
		return nil
	}
	return slices.Clone(b.groups)
}

// In reports whether the sprite belongs to g.
func (b *Base) In(g Container) bool {
	return b != nil && slices.Contains(b.groups, g)
}

func (b *Base) String() string {
	if b == nil {
		return "<Sprite(nil)>"
	}
	return fmt.Sprintf("<Sprite(in %d groups)>", len(b.groups))
}

func (b *Base) addGroup(g Container) {
	if !slices.Contains(b.groups, g) {
		b.groups = append(b.groups, g)
	}
}

func (b *Base) removeGroup(g Container) {
	if i := slices.Index(b.groups, g); i >= 0 {
		b.groups = slices.Delete(b.groups, i, i+1)
	}
}

// join adds s to g and records g on s.
func join(g Container, s Sprite) {
	if g == nil || s == nil {
		return
	}
	b := s.base()
	if b == nil {
		return
	}
	if b.owner == nil {
		if _, bare := s.(*Base); !bare {
			b.owner = s
		}
	}
	s = b.self()
	if g.hasInternal(s) {
		return
	}
	if !g.addInternal(s) {
		return
	}
	b.addGroup(g)
}

// leave removes s from g and g from s.
func leave(g Container, s Sprite) {
	if g == nil || s == nil {
		return
	}
	b := s.base()
	if b == nil {
		return
	}
	s = b.self()
	if !g.hasInternal(s) {
		return
	}
	g.removeInternal(s)
	b.removeGroup(g)
}

// Kill removes s from every group.
func Kill(s Sprite) {
	if s == nil {
		return
	}
	s.base().Kill()
}

// Alive reports whether s belongs to any group.
func Alive(s Sprite) bool {
	return s != nil && s.base().Alive()
}

// GroupsOf returns the groups holding s.
func GroupsOf(s Sprite) []Container {
	if s == nil {
		return nil
	}
	return s.base().Groups()
}
