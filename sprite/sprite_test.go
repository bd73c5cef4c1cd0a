package sprite

import (
	"image"
	"image/color"
	"testing"

	"github.com/milk9111/spritegroup/surface"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	black = color.RGBA{A: 255}
)

type box struct {
	Base
	updates int
	onTick  func(b *box)
}

func solid(w, h int, c color.Color) *surface.RGBA {
	img := surface.New(w, h)
	img.Fill(img.Bounds(), c)
	return img
}

func newBox(r image.Rectangle, c color.Color) *box {
	b := &box{}
	b.Bind(b)
	b.SetImage(solid(r.Dx(), r.Dy(), c))
	b.SetRect(r)
	return b
}

func (b *box) Update(dt float64) {
	b.updates++
	if b.onTick != nil {
		b.onTick(b)
	}
}

type dbox struct {
	DirtyBase
}

func newDirtyBox(r image.Rectangle, c color.Color) *dbox {
	d := &dbox{}
	d.Bind(d)
	d.SetImage(solid(r.Dx(), r.Dy(), c))
	d.SetRect(r)
	return d
}

func pixel(s *surface.RGBA, x, y int) color.RGBA {
	return s.Image().RGBAAt(x, y)
}

func TestMembership(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "group_side",
			run: func(t *testing.T) {
				s := newBox(image.Rect(0, 0, 2, 2), red)
				g := NewGroup()
				g.Add(s, s)
				if g.Len() != 1 {
					t.Fatalf("expected 1 member after duplicate add, got %d", g.Len())
				}
				if !s.Alive() || !s.In(g) {
					t.Fatalf("sprite should record its group")
				}
				g.Remove(s)
				if s.Alive() || g.Has(s) {
					t.Fatalf("remove should clear both sides")
				}
			},
		},
		{
			name: "sprite_side",
			run: func(t *testing.T) {
				s := newBox(image.Rect(0, 0, 2, 2), red)
				a, b := NewGroup(), NewRenderUpdates()
				s.Add(a, b)
				if !a.Has(s) || !b.Has(s) {
					t.Fatalf("sprite.Add should join both groups")
				}
				if got := s.Groups(); len(got) != 2 || got[0] != Container(a) || got[1] != Container(b) {
					t.Fatalf("unexpected groups %v", got)
				}
				s.Remove(a)
				if a.Has(s) || !b.Has(s) {
					t.Fatalf("sprite.Remove should leave only a")
				}
			},
		},
		{
			name: "kill",
			run: func(t *testing.T) {
				s := newBox(image.Rect(0, 0, 2, 2), red)
				a, b := NewGroup(s), NewOrderedUpdates(s)
				s.Kill()
				if a.Len() != 0 || b.Len() != 0 || s.Alive() {
					t.Fatalf("kill should empty every group")
				}
			},
		},
		{
			name: "has_requires_all",
			run: func(t *testing.T) {
				s1 := newBox(image.Rect(0, 0, 2, 2), red)
				s2 := newBox(image.Rect(0, 0, 2, 2), red)
				g := NewGroup(s1)
				if g.Has() {
					t.Fatalf("Has with no sprites must be false")
				}
				if g.Has(s1, s2) {
					t.Fatalf("Has must require every sprite")
				}
				if !g.Has(s1) {
					t.Fatalf("expected s1 to be a member")
				}
			},
		},
		{
			name: "embedded_value_is_stored",
			run: func(t *testing.T) {
				s := &box{}
				g := NewGroup(s)
				if got, ok := g.Sprites()[0].(*box); !ok || got != s {
					t.Fatalf("group should hold the embedding value, got %T", g.Sprites()[0])
				}
				g.Empty()
				if g.Len() != 0 || s.Alive() {
					t.Fatalf("Empty should remove every member")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, tc.run)
	}
}

func TestSetLayerLocked(t *testing.T) {
	s := newBox(image.Rect(0, 0, 1, 1), red)
	if err := s.SetLayer(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	NewGroup(s)
	if err := s.SetLayer(4); err != ErrLayerLocked {
		t.Fatalf("expected ErrLayerLocked, got %v", err)
	}
	if s.Layer() != 3 {
		t.Fatalf("layer should stay 3, got %d", s.Layer())
	}
}

func TestUpdateUsesSnapshot(t *testing.T) {
	g := NewGroup()
	a := newBox(image.Rect(0, 0, 1, 1), red)
	b := newBox(image.Rect(0, 0, 1, 1), red)
	a.onTick = func(self *box) { self.Kill() }
	g.Add(a, b)

	g.Update(1.0 / 60)
	if a.updates != 1 || b.updates != 1 {
		t.Fatalf("both sprites should update once, got %d and %d", a.updates, b.updates)
	}
	if g.Len() != 1 {
		t.Fatalf("expected killed sprite to leave, len=%d", g.Len())
	}
}

func TestGroupDrawAndClear(t *testing.T) {
	screen := surface.New(8, 8)
	s := newBox(image.Rect(2, 2, 4, 4), red)
	g := NewGroup(s, NewBase(nil, image.Rect(0, 0, 1, 1)))

	if got := g.Draw(screen); got != nil {
		t.Fatalf("plain group draw should return nil, got %v", got)
	}
	if pixel(screen, 2, 2) != red || pixel(screen, 1, 1) == red {
		t.Fatalf("sprite drawn at the wrong place")
	}

	g.Clear(screen, ColorEraser(black))
	if pixel(screen, 2, 2) != black {
		t.Fatalf("clear should paint the background over the sprite")
	}

	g.Draw(screen)
	g.Remove(s)
	screen.Fill(screen.Bounds(), red)
	g.Clear(screen, SurfaceEraser(solid(8, 8, green)))
	if pixel(screen, 3, 3) != green || pixel(screen, 5, 5) != red {
		t.Fatalf("clear should only repaint the lost rect")
	}
}

func TestRenderUpdatesChangedRects(t *testing.T) {
	screen := surface.New(32, 32)
	s := newBox(image.Rect(0, 0, 4, 4), red)
	g := NewRenderUpdates(s)

	steps := []struct {
		name string
		act  func()
		want []image.Rectangle
	}{
		{"first_draw", func() {}, []image.Rectangle{image.Rect(0, 0, 4, 4)}},
		{"overlapping_move", func() { s.Move(2, 0) }, []image.Rectangle{image.Rect(0, 0, 6, 4)}},
		{"distant_move", func() { s.Move(10, 0) }, []image.Rectangle{image.Rect(12, 0, 16, 4), image.Rect(2, 0, 6, 4)}},
		{"removed", func() { g.Remove(s) }, []image.Rectangle{image.Rect(12, 0, 16, 4)}},
		{"nothing_left", func() {}, nil},
	}

	for _, st := range steps {
		t.Run(st.name, func(t *testing.T) {
			st.act()
			got := g.Draw(screen)
			if len(got) != len(st.want) {
				t.Fatalf("expected %v, got %v", st.want, got)
			}
			for i := range got {
				if got[i] != st.want[i] {
					t.Fatalf("expected %v, got %v", st.want, got)
				}
			}
		})
	}
}

func TestOrderedUpdatesDrawOrder(t *testing.T) {
	screen := surface.New(4, 4)
	bottom := newBox(image.Rect(0, 0, 4, 4), red)
	top := newBox(image.Rect(0, 0, 4, 4), green)
	g := NewOrderedUpdates(bottom, top)
	g.Draw(screen)
	if pixel(screen, 1, 1) != green {
		t.Fatalf("last added sprite should be drawn last")
	}
	if c, ok := g.Copy().(*OrderedUpdates); !ok || c.Len() != 2 {
		t.Fatalf("copy should be an OrderedUpdates with both sprites")
	}
}

func TestGroupSingle(t *testing.T) {
	a := newBox(image.Rect(0, 0, 1, 1), red)
	b := newBox(image.Rect(0, 0, 1, 1), green)
	g := NewGroupSingle(a)

	g.Add(b)
	if g.Sprite() != Sprite(b) || g.Len() != 1 {
		t.Fatalf("adding should replace the held sprite")
	}
	if a.Alive() {
		t.Fatalf("replaced sprite should leave the group")
	}
	b.Kill()
	if g.Sprite() != nil || g.Len() != 0 {
		t.Fatalf("killing the held sprite should empty the group")
	}
	g.SetSprite(a)
	g.SetSprite(nil)
	if g.Sprite() != nil || a.Alive() {
		t.Fatalf("SetSprite(nil) should empty the group")
	}
}

func TestGroupString(t *testing.T) {
	g := NewLayeredUpdates(0, newBox(image.Rect(0, 0, 1, 1), red))
	if got := g.String(); got != "<LayeredUpdates(1 sprites)>" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestRenderUpdatesSkipsImagelessSprites(t *testing.T) {
	screen := surface.New(16, 16)
	s := NewBase(nil, image.Rect(5, 5, 9, 9))
	g := NewRenderUpdates(s)
	if got := g.Draw(screen); len(got) != 0 {
		t.Fatalf("a sprite without an image should not report a rect, got %v", got)
	}

	b := newBox(image.Rect(0, 0, 4, 4), red)
	g.Add(b)
	g.Draw(screen)
	b.SetImage(nil)
	got := g.Draw(screen)
	if len(got) != 1 || got[0] != image.Rect(0, 0, 4, 4) {
		t.Fatalf("losing the image should report the old rect only, got %v", got)
	}
}

func TestNilStrings(t *testing.T) {
	cases := []struct {
		name string
		got  func() string
		want string
	}{
		{"base", func() string { var b *Base; return b.String() }, "<Sprite(nil)>"},
		{"dirty", func() string { var d *DirtyBase; return d.String() }, "<DirtySprite(nil)>"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.got(); got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}
}
