package sprite

import (
	"image"

	"github.com/milk9111/spritegroup/surface"
)

// RenderUpdates is a Group whose Draw reports the screen areas that changed,
// ready to hand to a partial display update.
type RenderUpdates struct {
	core
}

func NewRenderUpdates(sprites ...Sprite) *RenderUpdates {
	g := &RenderUpdates{}
	g.core = newCore(g, "RenderUpdates")
	g.Add(sprites...)
	return g
}

func (g *RenderUpdates) Draw(dst surface.Surface) []image.Rectangle {
	return g.drawUpdates(dst)
}

func (g *RenderUpdates) Copy() Container {
	return NewRenderUpdates(g.Sprites()...)
}

// OrderedUpdates is a RenderUpdates that always draws in the order sprites
// were added.
type OrderedUpdates struct {
	core
}

func NewOrderedUpdates(sprites ...Sprite) *OrderedUpdates {
	g := &OrderedUpdates{}
	g.core = newCore(g, "OrderedUpdates")
	g.Add(sprites...)
	return g
}

func (g *OrderedUpdates) Draw(dst surface.Surface) []image.Rectangle {
	return g.drawUpdates(dst)
}

func (g *OrderedUpdates) Copy() Container {
	return NewOrderedUpdates(g.Sprites()...)
}
