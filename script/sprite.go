package script

import (
	"image"
	"log"
	"math"

	"github.com/milk9111/spritegroup/sprite"
	"github.com/milk9111/spritegroup/surface"
)

// Sprite is a dirty sprite whose Update runs a script. Position is tracked in
// floating point so slow movement accumulates between frames.
type Sprite struct {
	sprite.DirtyBase
	inst   *Instance
	x, y   float64
	failed bool
}

// NewSprite creates a sprite driven by p. A nil program makes a static sprite.
func NewSprite(p *Program, img surface.Surface, r image.Rectangle) *Sprite {
	s := &Sprite{inst: p.Instance()}
	s.Bind(s)
	s.SetImage(img)
	s.SetRect(r)
	s.SetDirty(sprite.DirtyOnce)
	s.x, s.y = float64(r.Min.X), float64(r.Min.Y)
	return s
}

func round(v float64) int {
	return int(math.Round(v))
}

func (s *Sprite) Update(dt float64) {
	if s.inst == nil || s.failed {
		return
	}
	r := s.Rect()
	if image.Pt(round(s.x), round(s.y)) != r.Min {
		s.x, s.y = float64(r.Min.X), float64(r.Min.Y)
	}
	in := Frame{X: s.x, Y: s.y, W: r.Dx(), H: r.Dy(), Visible: s.Visible(), Alive: true}
	out, err := s.inst.Run(in, dt)
	if err != nil {
		log.Printf("script: sprite stopped: %v", err)
		s.failed = true
		return
	}

	s.x, s.y = out.X, out.Y
	if at := image.Pt(round(s.x), round(s.y)); at != r.Min {
		s.SetRect(r.Add(at.Sub(r.Min)))
		s.MarkDirty()
	}
	if out.Visible != in.Visible {
		s.SetVisible(out.Visible)
	}
	if !out.Alive {
		s.Kill()
	}
}

// Failed reports whether the script errored and stopped running.
func (s *Sprite) Failed() bool {
	return s.failed
}

// Events returns and clears the events the script emitted.
func (s *Sprite) Events() []string {
	return s.inst.Events()
}

// State returns a copy of the script's persistent state.
func (s *Sprite) State() map[string]any {
	return s.inst.State()
}
