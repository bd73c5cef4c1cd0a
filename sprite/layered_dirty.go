package sprite

import (
	"errors"
	"image"
	"log"
	"slices"
	"time"

	"github.com/milk9111/spritegroup/surface"
)

// DefaultTimingThreshold is the draw time above which LayeredDirty stops
// tracking dirty rects and repaints the whole clip instead.
const DefaultTimingThreshold = time.Second / 80

var ErrInvalidThreshold = errors.New("sprite: timing threshold must be positive")

// LayeredDirty is a LayeredUpdates for DirtySprite members that repaints only
// what changed. Sprites that are not DirtySprites are refused.
//
// Each draw runs in one of two modes. In dirty mode only the rects of dirty
// sprites (current and previous) are erased and repainted. In full mode the
// whole clip is erased and every visible sprite redrawn. A draw slower than
// the timing threshold makes the next draw full; a faster one makes it dirty.
type LayeredDirty struct {
	LayeredUpdates
	clip      image.Rectangle
	useUpdate bool
	threshold time.Duration
	bg        Eraser
	now       func() time.Time
}

func NewLayeredDirty(defaultLayer int, sprites ...Sprite) *LayeredDirty {
	g := &LayeredDirty{threshold: DefaultTimingThreshold, now: time.Now}
	g.init(g, "LayeredDirty", defaultLayer)
	g.onChange = func(s Sprite) {
		if d, ok := s.(DirtySprite); ok && d.dirtyBase().dirty == Clean {
			d.dirtyBase().dirty = DirtyOnce
		}
	}
	g.Add(sprites...)
	return g
}

func (g *LayeredDirty) addInternal(s Sprite) bool {
	d, ok := s.(DirtySprite)
	if !ok {
		log.Printf("sprite: LayeredDirty refused %T, it does not embed DirtyBase", s)
		return false
	}
	if db := d.dirtyBase(); db.dirty == Clean {
		db.dirty = DirtyOnce
	}
	return g.LayeredUpdates.addInternal(s)
}

func (g *LayeredDirty) Copy() Container {
	c := NewLayeredDirty(g.defaultLayer, g.Sprites()...)
	c.clip = g.clip
	c.threshold = g.threshold
	c.bg = g.bg
	return c
}

// Clear records bg as the background used by later draws. Unlike the other
// groups it paints nothing itself.
func (g *LayeredDirty) Clear(dst surface.Surface, bg Eraser) {
	g.bg = bg
}

// SetClip limits drawing to r. The zero Rectangle uses the surface clip. The
// next draw repaints the whole clip.
func (g *LayeredDirty) SetClip(r image.Rectangle) {
	g.clip = r
	g.useUpdate = false
}

func (g *LayeredDirty) Clip() image.Rectangle {
	return g.clip
}

// SetTimingThreshold changes the draw time that switches to full repaints.
func (g *LayeredDirty) SetTimingThreshold(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidThreshold
	}
	g.threshold = d
	return nil
}

func (g *LayeredDirty) TimingThreshold() time.Duration {
	return g.threshold
}

// UseUpdate reports whether the next draw runs in dirty mode.
func (g *LayeredDirty) UseUpdate() bool {
	return g.useUpdate
}

// RepaintRect queues r for repainting on the next dirty mode draw.
func (g *LayeredDirty) RepaintRect(r image.Rectangle) {
	if !g.useUpdate {
		return
	}
	if !g.clip.Empty() {
		r = r.Intersect(g.clip)
	}
	if !r.Empty() {
		g.lost = append(g.lost, r)
	}
}

// DrawWithBackground sets the background and draws.
func (g *LayeredDirty) DrawWithBackground(dst surface.Surface, bg Eraser) []image.Rectangle {
	if bg != nil {
		g.bg = bg
	}
	return g.Draw(dst)
}

func (g *LayeredDirty) Draw(dst surface.Surface) []image.Rectangle {
	if dst == nil {
		return nil
	}
	orig := dst.Clip()
	clip := g.clip
	if clip.Empty() {
		clip = orig
	}
	dst.SetClip(clip)
	defer dst.SetClip(orig)

	start := g.now()
	var changed []image.Rectangle
	if g.useUpdate {
		update := g.dirtyArea(clip)
		if g.bg != nil {
			for _, r := range update {
				g.bg.Erase(dst, r)
			}
		}
		g.drawDirty(dst, update)
		changed = slices.Clone(update)
	} else {
		if g.bg != nil {
			g.bg.Erase(dst, clip)
		}
		for _, s := range g.sprites {
			db := s.(DirtySprite).dirtyBase()
			if db.Visible() {
				g.drawn[s.base()] = blit(dst, s)
			}
		}
		changed = []image.Rectangle{clip}
	}
	g.useUpdate = g.now().Sub(start) <= g.threshold
	g.lost = nil
	return changed
}

// dirtyArea merges the rects of dirty sprites, old and new, into the queued
// rects. Any queued rect overlapping a new one is absorbed into it.
func (g *LayeredDirty) dirtyArea(clip image.Rectangle) []image.Rectangle {
	update := g.lost
	merge := func(r image.Rectangle) {
		for {
			i := slices.IndexFunc(update, r.Overlaps)
			if i < 0 {
				break
			}
			r = r.Union(update[i])
			update = slices.Delete(update, i, i+1)
		}
		if r = r.Intersect(clip); !r.Empty() {
			update = append(update, r)
		}
	}
	for _, s := range g.sprites {
		db := s.(DirtySprite).dirtyBase()
		if db.dirty == Clean {
			continue
		}
		merge(db.drawRect(s.Rect()))
		if old := g.drawn[s.base()]; !old.Empty() {
			merge(old)
		}
	}
	return update
}

// drawDirty repaints dirty visible sprites in full and the parts of clean
// visible sprites that fall inside the update rects.
func (g *LayeredDirty) drawDirty(dst surface.Surface, update []image.Rectangle) {
	for _, s := range g.sprites {
		db := s.(DirtySprite).dirtyBase()
		if db.dirty == Clean {
			if !db.Visible() {
				continue
			}
			g.repaintClean(dst, s, db, update)
			continue
		}
		if db.Visible() {
			g.drawn[s.base()] = blit(dst, s)
		}
		if db.dirty == DirtyOnce {
			db.dirty = Clean
		}
	}
}

func (g *LayeredDirty) repaintClean(dst surface.Surface, s Sprite, db *DirtyBase, update []image.Rectangle) {
	img := s.Image()
	if img == nil {
		return
	}
	at := db.drawRect(s.Rect())
	// offset maps a screen point to the image point drawn there.
	offset := image.Point{}.Sub(at.Min)
	if !db.source.Empty() {
		offset = db.source.Min.Sub(at.Min)
	}
	for _, r := range update {
		part := at.Intersect(r)
		if part.Empty() {
			continue
		}
		dst.Blit(img, part.Min, part.Add(offset), db.blend)
	}
}
