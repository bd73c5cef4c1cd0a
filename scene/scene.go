package scene

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/milk9111/spritegroup/assets"
	"github.com/milk9111/spritegroup/script"
	"github.com/milk9111/spritegroup/sprite"
	"github.com/milk9111/spritegroup/surface"
)

var ErrUnknownMode = errors.New("scene: unknown collision mode")

// Options supplies what Build needs beyond the Spec. A nil Backend uses the
// software backend.
type Options struct {
	Backend surface.Backend
	Images  *assets.Cache
	Scripts fs.FS
}

type namedGroup struct {
	name string
	g    sprite.Container
}

// Scene is a built spec: groups in declaration order plus a group holding
// every sprite.
type Scene struct {
	All *sprite.Group

	spec    *Spec
	bg      color.Color
	eraser  sprite.Eraser
	groups  []namedGroup
	byGroup map[string]sprite.Container
	sprites map[string]*script.Sprite
	names   map[*script.Sprite]string
	drawn   bool
}

// Event is a script event tagged with the sprite that emitted it.
type Event struct {
	Sprite string
	Name   string
}

// Collision pairs a sprite of the first group with one of the second.
type Collision struct {
	A, B string
}

func newGroup(g GroupSpec) (sprite.Container, error) {
	switch g.Kind {
	case "", KindGroup:
		return sprite.NewGroup(), nil
	case KindRenderUpdates:
		return sprite.NewRenderUpdates(), nil
	case KindOrderedUpdates:
		return sprite.NewOrderedUpdates(), nil
	case KindLayeredUpdates:
		return sprite.NewLayeredUpdates(g.DefaultLayer), nil
	case KindLayeredDirty:
		ld := sprite.NewLayeredDirty(g.DefaultLayer)
		ld.SetClip(g.Clip.Rect())
		if g.TimingThresholdMS > 0 {
			d := time.Duration(g.TimingThresholdMS * float64(time.Millisecond))
			if err := ld.SetTimingThreshold(d); err != nil {
				return nil, err
			}
		}
		return ld, nil
	case KindSingle:
		return sprite.NewGroupSingle(nil), nil
	}
	return nil, fmt.Errorf("unknown kind %q", g.Kind)
}

// Build validates spec and creates its groups and sprites.
func Build(spec *Spec, opts Options) (*Scene, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if opts.Backend == nil {
		opts.Backend = surface.Software
	}

	sc := &Scene{
		All:     sprite.NewGroup(),
		spec:    spec,
		bg:      color.Black,
		byGroup: map[string]sprite.Container{},
		sprites: map[string]*script.Sprite{},
		names:   map[*script.Sprite]string{},
	}
	if spec.Background != nil && spec.Background.Color != nil {
		sc.bg = spec.Background.Color
	}
	sc.eraser = sprite.ColorEraser(sc.bg)

	for _, gs := range spec.Groups {
		g, err := newGroup(gs)
		if err != nil {
			return nil, fmt.Errorf("scene: group %s: %w", gs.Name, err)
		}
		sc.groups = append(sc.groups, namedGroup{name: gs.Name, g: g})
		sc.byGroup[gs.Name] = g
	}

	programs := map[string]*script.Program{}
	for i, sp := range spec.Sprites {
		s, err := sc.buildSprite(sp, opts, programs)
		if err != nil {
			label := sp.Name
			if label == "" {
				label = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("scene: sprite %s: %w", label, err)
		}
		if sp.Name != "" {
			sc.sprites[sp.Name] = s
			sc.names[s] = sp.Name
		}
		sc.All.Add(s)
		for _, name := range sp.Groups {
			sc.byGroup[name].Add(s)
		}
	}
	return sc, nil
}

func (sc *Scene) buildSprite(sp SpriteSpec, opts Options, programs map[string]*script.Program) (*script.Sprite, error) {
	img, err := spriteImage(sp, opts)
	if err != nil {
		return nil, err
	}
	size := image.Pt(sp.Size.W, sp.Size.H)
	if size.X <= 0 || size.Y <= 0 {
		size = img.Bounds().Size()
	}
	r := image.Rectangle{Min: image.Pt(sp.Pos.X, sp.Pos.Y)}
	r.Max = r.Min.Add(size)

	var prog *script.Program
	if sp.Script != "" {
		prog, err = loadProgram(sp.Script, opts.Scripts, programs)
		if err != nil {
			return nil, err
		}
	}

	s := script.NewSprite(prog, img, r)
	if sp.Layer != nil {
		if err := s.SetLayer(*sp.Layer); err != nil {
			return nil, err
		}
	}
	s.SetRadius(sp.Radius)
	s.SetSourceRect(sp.Source.Rect())
	if sp.Hidden {
		s.SetVisible(false)
	}
	// Validate has already checked both names.
	flag, _ := sprite.ParseDirtyFlag(sp.Dirty)
	s.SetDirty(flag)
	mode, _ := surface.ParseBlendMode(sp.Blend)
	s.SetBlendMode(mode)
	return s, nil
}

func spriteImage(sp SpriteSpec, opts Options) (surface.Surface, error) {
	if sp.Image != "" {
		if opts.Images == nil {
			return nil, fmt.Errorf("image %s: no image cache", sp.Image)
		}
		img, err := opts.Images.Load(sp.Image)
		if err != nil {
			return nil, err
		}
		return opts.Backend.FromImage(img), nil
	}
	img := opts.Backend.NewSurface(sp.Size.W, sp.Size.H)
	var c color.Color = color.White
	if sp.Color != nil && sp.Color.Color != nil {
		c = sp.Color.Color
	}
	img.Fill(img.Bounds(), c)
	return img, nil
}

func loadProgram(name string, fsys fs.FS, cache map[string]*script.Program) (*script.Program, error) {
	if p, ok := cache[name]; ok {
		return p, nil
	}
	if fsys == nil {
		return nil, fmt.Errorf("script %s: no script filesystem", name)
	}
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	src, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	p, err := script.Compile(name, src)
	if err != nil {
		return nil, err
	}
	cache[name] = p
	return p, nil
}

func (sc *Scene) Name() string {
	return sc.spec.Name
}

func (sc *Scene) Size() image.Point {
	return image.Pt(sc.spec.Width, sc.spec.Height)
}

func (sc *Scene) Background() color.Color {
	return sc.bg
}

// Update advances every sprite once.
func (sc *Scene) Update(dt float64) {
	sc.All.Update(dt)
}

// Draw erases each group's previous frame with the background and returns the
// changed rects. LayeredDirty groups are drawn first, then the other groups in
// declaration order, so a full LayeredDirty repaint never covers them. The
// first draw fills the whole surface and reports its bounds.
func (sc *Scene) Draw(dst surface.Surface) []image.Rectangle {
	if dst == nil {
		return nil
	}
	var changed []image.Rectangle
	if !sc.drawn {
		dst.Fill(dst.Bounds(), sc.bg)
		changed = append(changed, dst.Bounds())
		sc.drawn = true
	}

	var (
		dirty []*sprite.LayeredDirty
		rest  []sprite.Container
	)
	for _, ng := range sc.groups {
		if ld, ok := ng.g.(*sprite.LayeredDirty); ok {
			dirty = append(dirty, ld)
		} else {
			rest = append(rest, ng.g)
		}
	}
	// Erasing a plain group's sprite may uncover clean LayeredDirty sprites.
	erase := sprite.EraseFunc(func(dst surface.Surface, r image.Rectangle) {
		sc.eraser.Erase(dst, r)
		for _, g := range dirty {
			g.RepaintRect(r)
		}
	})
	for _, g := range rest {
		g.Clear(dst, erase)
	}
	for _, g := range dirty {
		g.Clear(dst, sc.eraser)
	}
	for _, g := range dirty {
		changed = append(changed, g.Draw(dst)...)
	}
	for _, g := range rest {
		changed = append(changed, g.Draw(dst)...)
	}
	return changed
}

// Redraw makes the next Draw repaint the whole surface.
func (sc *Scene) Redraw() {
	sc.drawn = false
	for _, ng := range sc.groups {
		if ld, ok := ng.g.(*sprite.LayeredDirty); ok {
			ld.SetClip(ld.Clip())
		}
	}
}

func (sc *Scene) Group(name string) sprite.Container {
	return sc.byGroup[name]
}

// GroupNames returns the group names in declaration order.
func (sc *Scene) GroupNames() []string {
	names := make([]string, 0, len(sc.groups))
	for _, ng := range sc.groups {
		names = append(names, ng.name)
	}
	return names
}

func (sc *Scene) Sprite(name string) *script.Sprite {
	return sc.sprites[name]
}

// SpriteName returns the name s was declared with, or "".
func (sc *Scene) SpriteName(s sprite.Sprite) string {
	if ss, ok := s.(*script.Sprite); ok {
		return sc.names[ss]
	}
	return ""
}

// Events drains the events of every live sprite.
func (sc *Scene) Events() []Event {
	var out []Event
	for _, s := range sc.All.Sprites() {
		ss, ok := s.(*script.Sprite)
		if !ok {
			continue
		}
		for _, name := range ss.Events() {
			out = append(out, Event{Sprite: sc.names[ss], Name: name})
		}
	}
	return out
}

// CollideMode maps rect, circle and mask to their collision tests.
func CollideMode(mode string) (sprite.CollideFunc, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "rect":
		return sprite.CollideRect, nil
	case "circle":
		return sprite.CollideCircle, nil
	case "mask":
		return sprite.CollideMask, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMode, mode)
}

// Collisions lists the colliding pairs between groups a and b, ordered by the
// members of a.
func (sc *Scene) Collisions(a, b, mode string) ([]Collision, error) {
	ga, gb := sc.byGroup[a], sc.byGroup[b]
	if ga == nil {
		return nil, fmt.Errorf("scene: unknown group %q", a)
	}
	if gb == nil {
		return nil, fmt.Errorf("scene: unknown group %q", b)
	}
	fn, err := CollideMode(mode)
	if err != nil {
		return nil, err
	}

	hits := sprite.GroupCollide(ga, gb, false, false, fn)
	var out []Collision
	for _, s := range ga.Sprites() {
		for _, o := range hits[s] {
			out = append(out, Collision{A: sc.SpriteName(s), B: sc.SpriteName(o)})
		}
	}
	return out, nil
}
