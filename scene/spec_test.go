package scene

import (
	"errors"
	"image/color"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

const minimal = `
name: test
width: 32
height: 16
background: "#102030"
groups:
  - name: world
    kind: layered_dirty
    clip: {x: 0, y: 0, w: 16, h: 16}
    timing_threshold_ms: 20
  - name: enemies
sprites:
  - name: hero
    color: red
    size: {w: 4, h: 4}
    pos: {x: 2, y: 3}
    layer: 2
    groups: [world]
  - name: bat
    color: "#00ff0080"
    size: {w: 2, h: 2}
    groups: [world, enemies]
    dirty: always
    blend: add
`

func TestParse(t *testing.T) {
	spec, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if spec.Width != 32 || spec.Height != 16 || len(spec.Groups) != 2 || len(spec.Sprites) != 2 {
		t.Fatalf("unexpected spec %+v", spec)
	}
	if got := spec.Background.Color; got != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}) {
		t.Fatalf("unexpected background %v", got)
	}
	if got := spec.Sprites[1].Color.Color; got != (color.NRGBA{G: 255, A: 0x80}) {
		t.Fatalf("unexpected sprite colour %v", got)
	}
	if spec.Sprites[0].Layer == nil || *spec.Sprites[0].Layer != 2 {
		t.Fatalf("layer not parsed")
	}
	if err := spec.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}, false},
		{"00ff0010", color.NRGBA{G: 255, A: 0x10}, false},
		{"Red", color.RGBA{R: 255, A: 255}, false},
		{"#12345", nil, true},
		{"#gg0000", nil, true},
		{"notacolour", nil, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseColor(c.in)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil || got != c.want {
				t.Fatalf("expected %v, got %v err=%v", c.want, got, err)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrEmptyScene) {
		t.Fatalf("expected ErrEmptyScene, got %v", err)
	}
	if _, err := Parse([]byte("width: 1\nheigth: 2\n")); err == nil {
		t.Fatalf("unknown fields should be rejected")
	}
	if _, err := Parse([]byte("background: [1, 2]\n")); err == nil {
		t.Fatalf("non-scalar colour should be rejected")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		edit func(s *Spec)
		want string
	}{
		{"size", func(s *Spec) { s.Width = 0 }, "must be positive"},
		{"duplicate_group", func(s *Spec) { s.Groups[1].Name = "world" }, `group "world": duplicate name`},
		{"unnamed_group", func(s *Spec) { s.Groups[1].Name = "" }, "group 1: missing name"},
		{"kind", func(s *Spec) { s.Groups[0].Kind = "quadtree" }, `unknown kind "quadtree"`},
		{"threshold", func(s *Spec) { s.Groups[0].TimingThresholdMS = -1 }, "negative timing threshold"},
		{"duplicate_sprite", func(s *Spec) { s.Sprites[1].Name = "hero" }, `sprite "hero": duplicate name`},
		{"no_image", func(s *Spec) { s.Sprites[0].Size.W = 0 }, "needs an image or a positive size"},
		{"unknown_group", func(s *Spec) { s.Sprites[0].Groups = []string{"nope"} }, `unknown group "nope"`},
		{"dirty", func(s *Spec) { s.Sprites[0].Dirty = "sometimes" }, "unknown dirty flag"},
		{"blend", func(s *Spec) { s.Sprites[0].Blend = "screen" }, "screen"},
		{"radius", func(s *Spec) { s.Sprites[0].Radius = -2 }, "negative radius"},
		{"anonymous_label", func(s *Spec) { s.Sprites[1].Name = ""; s.Sprites[1].Size.H = 0 }, "sprite #1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := Parse([]byte(minimal))
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			c.edit(spec)
			err = spec.Validate()
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error containing %q, got %v", c.want, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"scenes/ok.yaml":  {Data: []byte(minimal)},
		"scenes/bad.yaml": {Data: []byte("name: bad\nwidth: 0\nheight: 1\n")},
	}
	if _, err := Load(fsys, "scenes/ok.yaml"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := Load(fsys, "scenes/missing.yaml"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	_, err := Load(fsys, "scenes/bad.yaml")
	if err == nil || !strings.HasPrefix(err.Error(), "scene: load scenes/bad.yaml:") {
		t.Fatalf("expected a wrapped validation error, got %v", err)
	}
}
