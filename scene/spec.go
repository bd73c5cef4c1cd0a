// Package scene builds sprite groups from YAML scene files.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/spritegroup/sprite"
	"github.com/milk9111/spritegroup/surface"
)

// Group kinds.
const (
	KindGroup          = "group"
	KindRenderUpdates  = "render_updates"
	KindOrderedUpdates = "ordered_updates"
	KindLayeredUpdates = "layered_updates"
	KindLayeredDirty   = "layered_dirty"
	KindSingle         = "single"
)

var ErrEmptyScene = errors.New("scene: empty document")

type Spec struct {
	Name       string       `yaml:"name"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Background *Color       `yaml:"background"`
	Groups     []GroupSpec  `yaml:"groups"`
	Sprites    []SpriteSpec `yaml:"sprites"`
}

type GroupSpec struct {
	Name              string    `yaml:"name"`
	Kind              string    `yaml:"kind"`
	DefaultLayer      int       `yaml:"default_layer"`
	Clip              *RectSpec `yaml:"clip"`
	TimingThresholdMS float64   `yaml:"timing_threshold_ms"`
}

type SpriteSpec struct {
	Name   string    `yaml:"name"`
	Image  string    `yaml:"image"`
	Color  *Color    `yaml:"color"`
	Size   SizeSpec  `yaml:"size"`
	Pos    PointSpec `yaml:"pos"`
	Layer  *int      `yaml:"layer"`
	Groups []string  `yaml:"groups"`
	Script string    `yaml:"script"`
	Radius float64   `yaml:"radius"`
	Dirty  string    `yaml:"dirty"`
	Hidden bool      `yaml:"hidden"`
	Blend  string    `yaml:"blend"`
	Source *RectSpec `yaml:"source"`
}

type PointSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type SizeSpec struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

type RectSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func (r *RectSpec) Rect() image.Rectangle {
	if r == nil {
		return image.Rectangle{}
	}
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Color accepts #rrggbb, #rrggbbaa or a CSS colour name.
type Color struct {
	color.Color
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

func ParseColor(v string) (color.Color, error) {
	v = strings.TrimSpace(v)
	if named, ok := colornames.Map[strings.ToLower(v)]; ok {
		return named, nil
	}

	s := strings.TrimPrefix(v, "#")
	if len(s) != 6 && len(s) != 8 {
		return nil, fmt.Errorf("invalid color format: %s", v)
	}
	parse := func(start int) (uint8, error) {
		n, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(n), err
	}

	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(s)/2; i++ {
		n, err := parse(i * 2)
		if err != nil {
			return nil, fmt.Errorf("invalid color format: %s", v)
		}
		ch[i] = n
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// Parse decodes a scene document. Unknown fields are errors.
func Parse(data []byte) (*Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScene
		}
		return nil, fmt.Errorf("scene: unmarshal: %w", err)
	}
	return &spec, nil
}

// Load reads, parses and validates the scene file name from fsys.
func Load(fsys fs.FS, name string) (*Spec, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", name, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", name, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", name, err)
	}
	return spec, nil
}

func knownKind(kind string) bool {
	switch kind {
	case "", KindGroup, KindRenderUpdates, KindOrderedUpdates, KindLayeredUpdates, KindLayeredDirty, KindSingle:
		return true
	}
	return false
}

// Validate reports every problem found in the scene.
func (s *Spec) Validate() error {
	if s == nil {
		return ErrEmptyScene
	}
	var errs []error
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", s.Width, s.Height))
	}

	groups := map[string]bool{}
	for i, g := range s.Groups {
		switch {
		case g.Name == "":
			errs = append(errs, fmt.Errorf("group %d: missing name", i))
		case groups[g.Name]:
			errs = append(errs, fmt.Errorf("group %q: duplicate name", g.Name))
		}
		groups[g.Name] = true
		if !knownKind(g.Kind) {
			errs = append(errs, fmt.Errorf("group %q: unknown kind %q", g.Name, g.Kind))
		}
		if g.TimingThresholdMS < 0 {
			errs = append(errs, fmt.Errorf("group %q: negative timing threshold", g.Name))
		}
	}

	sprites := map[string]bool{}
	for i, sp := range s.Sprites {
		label := sp.Name
		if label == "" {
			label = "#" + strconv.Itoa(i)
		} else if sprites[sp.Name] {
			errs = append(errs, fmt.Errorf("sprite %q: duplicate name", sp.Name))
		}
		sprites[sp.Name] = true

		if sp.Image == "" && (sp.Size.W <= 0 || sp.Size.H <= 0) {
			errs = append(errs, fmt.Errorf("sprite %s: needs an image or a positive size", label))
		}
		for _, g := range sp.Groups {
			if !groups[g] {
				errs = append(errs, fmt.Errorf("sprite %s: unknown group %q", label, g))
			}
		}
		if _, err := sprite.ParseDirtyFlag(sp.Dirty); err != nil {
			errs = append(errs, fmt.Errorf("sprite %s: %w", label, err))
		}
		if _, err := surface.ParseBlendMode(sp.Blend); err != nil {
			errs = append(errs, fmt.Errorf("sprite %s: %w", label, err))
		}
		if sp.Radius < 0 {
			errs = append(errs, fmt.Errorf("sprite %s: negative radius", label))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("scene: validate %s: %w", s.Name, errors.Join(errs...))
}
