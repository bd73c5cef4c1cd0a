package sprite

import (
	"image"
	"slices"
	"sort"

	"github.com/milk9111/spritegroup/surface"
)

// LayeredUpdates keeps its members sorted by layer. Within a layer, the
// sprite added last is drawn on top.
//
// A sprite's layer comes from AddAt when given, otherwise from a layer set
// on the sprite beforehand, otherwise from the group's default layer. The
// chosen layer is written back to the sprite.
type LayeredUpdates struct {
	core
	defaultLayer int
	layers       map[*Base]int
	onChange     func(Sprite)
}

// NewLayeredUpdates creates a layered group whose unlayered sprites go on
// defaultLayer.
func NewLayeredUpdates(defaultLayer int, sprites ...Sprite) *LayeredUpdates {
	g := &LayeredUpdates{}
	g.init(g, "LayeredUpdates", defaultLayer)
	g.Add(sprites...)
	return g
}

func (g *LayeredUpdates) init(self Container, kind string, defaultLayer int) {
	g.core = newCore(self, kind)
	g.defaultLayer = defaultLayer
	g.layers = map[*Base]int{}
}

func (g *LayeredUpdates) DefaultLayer() int {
	return g.defaultLayer
}

func (g *LayeredUpdates) addInternal(s Sprite) bool {
	b := s.base()
	layer := g.defaultLayer
	if b.layerSet {
		layer = b.layer
	} else if _, ok := s.(DirtySprite); ok {
		layer = b.layer
	}
	b.assignLayer(layer)
	g.layers[b] = layer
	g.insert(g.upperBound(layer), s)
	return true
}

func (g *LayeredUpdates) removeInternal(s Sprite) {
	g.core.removeInternal(s)
	delete(g.layers, s.base())
}

// upperBound is the index of the first member above layer.
func (g *LayeredUpdates) upperBound(layer int) int {
	return sort.Search(len(g.sprites), func(i int) bool {
		return g.layers[g.sprites[i].base()] > layer
	})
}

// AddAt adds sprites on the given layer. Members are left where they are.
func (g *LayeredUpdates) AddAt(layer int, sprites ...Sprite) {
	for _, s := range sprites {
		if s == nil || g.self.hasInternal(s) {
			continue
		}
		b := s.base()
		prev, prevSet := b.layer, b.layerSet
		b.assignLayer(layer)
		join(g.self, s)
		if !g.self.hasInternal(s) {
			b.layer, b.layerSet = prev, prevSet
		}
	}
}

func (g *LayeredUpdates) Draw(dst surface.Surface) []image.Rectangle {
	return g.drawUpdates(dst)
}

func (g *LayeredUpdates) Copy() Container {
	return NewLayeredUpdates(g.defaultLayer, g.Sprites()...)
}

// SpritesAt returns the members whose rect contains pt, bottom to top.
func (g *LayeredUpdates) SpritesAt(pt image.Point) []Sprite {
	var out []Sprite
	for _, s := range g.sprites {
		if pt.In(s.Rect()) {
			out = append(out, s)
		}
	}
	return out
}

// SpriteAt returns the member at draw index i, or nil.
func (g *LayeredUpdates) SpriteAt(i int) Sprite {
	if i < 0 || i >= len(g.sprites) {
		return nil
	}
	return g.sprites[i]
}

// RemoveSpritesOfLayer removes and returns every member on layer.
func (g *LayeredUpdates) RemoveSpritesOfLayer(layer int) []Sprite {
	removed := g.SpritesFromLayer(layer)
	g.self.Remove(removed...)
	return removed
}

// Layers returns the occupied layers in ascending order.
func (g *LayeredUpdates) Layers() []int {
	var out []int
	for _, s := range g.sprites {
		l := g.layers[s.base()]
		if len(out) == 0 || out[len(out)-1] != l {
			out = append(out, l)
		}
	}
	return out
}

// ChangeLayer moves a member to the top of layer.
func (g *LayeredUpdates) ChangeLayer(s Sprite, layer int) {
	if s == nil || !g.hasInternal(s) {
		return
	}
	i := g.index(s)
	if i < 0 {
		return
	}
	member := g.sprites[i]
	g.sprites = slices.Delete(g.sprites, i, i+1)
	b := member.base()
	b.assignLayer(layer)
	g.layers[b] = layer
	g.sprites = slices.Insert(g.sprites, g.upperBound(layer), member)
	if g.onChange != nil {
		g.onChange(member)
	}
}

// LayerOf returns the layer of a member, or the default layer.
func (g *LayeredUpdates) LayerOf(s Sprite) int {
	if s == nil {
		return g.defaultLayer
	}
	if l, ok := g.layers[s.base()]; ok {
		return l
	}
	return g.defaultLayer
}

// TopLayer returns the highest occupied layer, or the default layer when empty.
func (g *LayeredUpdates) TopLayer() int {
	if len(g.sprites) == 0 {
		return g.defaultLayer
	}
	return g.layers[g.sprites[len(g.sprites)-1].base()]
}

// BottomLayer returns the lowest occupied layer, or the default layer when empty.
func (g *LayeredUpdates) BottomLayer() int {
	if len(g.sprites) == 0 {
		return g.defaultLayer
	}
	return g.layers[g.sprites[0].base()]
}

// MoveToFront puts s on top of the top layer.
func (g *LayeredUpdates) MoveToFront(s Sprite) {
	g.ChangeLayer(s, g.TopLayer())
}

// MoveToBack puts s on a new layer below the bottom one.
func (g *LayeredUpdates) MoveToBack(s Sprite) {
	g.ChangeLayer(s, g.BottomLayer()-1)
}

// TopSprite returns the member drawn last, or nil.
func (g *LayeredUpdates) TopSprite() Sprite {
	if len(g.sprites) == 0 {
		return nil
	}
	return g.sprites[len(g.sprites)-1]
}

// SpritesFromLayer returns the members of layer in draw order.
func (g *LayeredUpdates) SpritesFromLayer(layer int) []Sprite {
	var out []Sprite
	for _, s := range g.sprites {
		if g.layers[s.base()] == layer {
			out = append(out, s)
		}
	}
	return out
}

// SwitchLayer swaps the members of two layers.
func (g *LayeredUpdates) SwitchLayer(a, b int) {
	moved := g.RemoveSpritesOfLayer(a)
	for _, s := range g.SpritesFromLayer(b) {
		g.ChangeLayer(s, a)
	}
	g.AddAt(b, moved...)
}
