package sprite

import (
	"fmt"
	"image"
	"strings"

	"github.com/milk9111/spritegroup/surface"
)

// DirtyFlag tells LayeredDirty whether a sprite must be redrawn.
type DirtyFlag int

const (
	// Clean sprites are only repainted where something else changed.
	Clean DirtyFlag = iota
	// DirtyOnce sprites are redrawn on the next draw, then become Clean.
	DirtyOnce
	// AlwaysDirty sprites are redrawn on every draw.
	AlwaysDirty
)

// ParseDirtyFlag maps clean, once and always to their flags.
func ParseDirtyFlag(name string) (DirtyFlag, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "once":
		return DirtyOnce, nil
	case "clean":
		return Clean, nil
	case "always":
		return AlwaysDirty, nil
	}
	return Clean, fmt.Errorf("sprite: unknown dirty flag %q", name)
}

// DirtySprite is a sprite LayeredDirty can track.
type DirtySprite interface {
	Sprite
	dirtyBase() *DirtyBase
}

// DirtyBase is a Base with the extra state LayeredDirty needs. The zero value
// is visible, Clean, on layer 0 and drawn with BlendNormal.
type DirtyBase struct {
	Base
	dirty  DirtyFlag
	hidden bool
	blend  surface.BlendMode
	source image.Rectangle
}

// NewDirty creates a standalone dirty sprite marked DirtyOnce.
func NewDirty(img surface.Surface, r image.Rectangle) *DirtyBase {
	d := &DirtyBase{dirty: DirtyOnce}
	d.image = img
	d.rect = r
	return d
}

func (d *DirtyBase) dirtyBase() *DirtyBase { return d }

func (d *DirtyBase) Dirty() DirtyFlag {
	if d == nil {
		return Clean
	}
	return d.dirty
}

func (d *DirtyBase) SetDirty(f DirtyFlag) {
	if d == nil {
		return
	}
	d.dirty = f
}

// MarkDirty flags the sprite for one redraw unless it is AlwaysDirty.
func (d *DirtyBase) MarkDirty() {
	if d == nil || d.dirty == AlwaysDirty {
		return
	}
	d.dirty = DirtyOnce
}

func (d *DirtyBase) Visible() bool {
	return d != nil && !d.hidden
}

// SetVisible changes visibility and marks the sprite for a redraw.
func (d *DirtyBase) SetVisible(v bool) {
	if d == nil {
		return
	}
	d.hidden = !v
	d.MarkDirty()
}

func (d *DirtyBase) BlendMode() surface.BlendMode {
	if d == nil {
		return surface.BlendNormal
	}
	return d.blend
}

func (d *DirtyBase) SetBlendMode(m surface.BlendMode) {
	if d == nil {
		return
	}
	d.blend = m
}

// SourceRect is the part of the image to draw. Empty means all of it.
func (d *DirtyBase) SourceRect() image.Rectangle {
	if d == nil {
		return image.Rectangle{}
	}
	return d.source
}

func (d *DirtyBase) SetSourceRect(r image.Rectangle) {
	if d == nil {
		return
	}
	d.source = r
}

// drawRect is where the sprite lands on screen, taking the source rect into account.
func (d *DirtyBase) drawRect(r image.Rectangle) image.Rectangle {
	if d.source.Empty() {
		return r
	}
	return image.Rectangle{Min: r.Min, Max: r.Min.Add(d.source.Size())}
}

func (d *DirtyBase) String() string {
	if d == nil {
		return "<DirtySprite(nil)>"
	}
	return fmt.Sprintf("<DirtySprite(in %d groups)>", len(d.groups))
}
