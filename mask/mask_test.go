package mask

import (
	"image"
	"image/color"
	"testing"
)

func filled(w, h int) *Mask {
	m := New(w, h)
	m.Fill()
	return m
}

func TestMaskBits(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"small", 3, 2},
		{"word_boundary", 64, 2},
		{"spans_words", 130, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := filled(c.w, c.h)
			if got := m.Count(); got != c.w*c.h {
				t.Fatalf("expected %d set bits after Fill, got %d", c.w*c.h, got)
			}
			m.Set(c.w-1, c.h-1, false)
			if m.Get(c.w-1, c.h-1) {
				t.Fatalf("bit should be cleared")
			}
			m.Invert()
			if got := m.Count(); got != 1 {
				t.Fatalf("expected 1 bit after invert, got %d", got)
			}
			if m.Get(c.w, 0) || m.Get(-1, 0) {
				t.Fatalf("out of range reads must be false")
			}
			m.Clear()
			if m.Count() != 0 {
				t.Fatalf("expected empty mask after Clear")
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	cases := []struct {
		name    string
		a, b    *Mask
		offset  image.Point
		want    image.Point
		wantHit bool
		area    int
	}{
		{"same_place", filled(4, 4), filled(4, 4), image.Pt(0, 0), image.Pt(0, 0), true, 16},
		{"shifted", filled(4, 4), filled(4, 4), image.Pt(2, 3), image.Pt(2, 3), true, 2},
		{"negative_offset", filled(4, 4), filled(4, 4), image.Pt(-3, -3), image.Pt(0, 0), true, 1},
		{"touching_edge", filled(4, 4), filled(4, 4), image.Pt(4, 0), image.Point{}, false, 0},
		{"far_apart", filled(4, 4), filled(2, 2), image.Pt(100, 100), image.Point{}, false, 0},
		{"wide_unaligned", filled(150, 1), filled(150, 1), image.Pt(70, 0), image.Pt(70, 0), true, 80},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := c.a.Overlap(c.b, c.offset)
			if ok != c.wantHit {
				t.Fatalf("expected hit=%v, got %v", c.wantHit, ok)
			}
			if ok && got != c.want {
				t.Fatalf("expected overlap at %v, got %v", c.want, got)
			}
			if area := c.a.OverlapArea(c.b, c.offset); area != c.area {
				t.Fatalf("expected area %d, got %d", c.area, area)
			}
			if n := c.a.OverlapMask(c.b, c.offset).Count(); n != c.area {
				t.Fatalf("expected overlap mask count %d, got %d", c.area, n)
			}
		})
	}
}

func TestOverlapSparse(t *testing.T) {
	a := New(100, 5)
	b := New(10, 10)
	a.Set(90, 4, true)
	b.Set(5, 2, true)

	got, ok := a.Overlap(b, image.Pt(85, 2))
	if !ok || got != image.Pt(90, 4) {
		t.Fatalf("expected overlap at (90,4), got %v ok=%v", got, ok)
	}
	if _, ok := a.Overlap(b, image.Pt(84, 2)); ok {
		t.Fatalf("did not expect overlap one pixel off")
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 13, 12))
	img.SetNRGBA(10, 10, color.NRGBA{A: 255})
	img.SetNRGBA(11, 10, color.NRGBA{A: 127})
	img.SetNRGBA(12, 11, color.NRGBA{A: 128})

	m := FromImage(img, DefaultThreshold)
	if w, h := m.Size(); w != 3 || h != 2 {
		t.Fatalf("expected 3x2, got %dx%d", w, h)
	}
	if !m.Get(0, 0) || m.Get(1, 0) || !m.Get(2, 1) {
		t.Fatalf("threshold applied incorrectly")
	}
	if got := m.BoundingRect(); got != image.Rect(0, 0, 3, 2) {
		t.Fatalf("unexpected bounding rect %v", got)
	}
	if got := m.Centroid(); got != image.Pt(1, 0) {
		t.Fatalf("unexpected centroid %v", got)
	}
}

func TestFromColorKey(t *testing.T) {
	key := color.RGBA{R: 255, B: 255, A: 255}
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, key)
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})

	m := FromColorKey(img, key)
	if m.Get(0, 0) || !m.Get(1, 0) {
		t.Fatalf("colour key not applied")
	}
}
