// Package script drives sprites with tengo programs.
//
// A program defines an update function that receives the sprite as a map and
// the frame time in seconds:
//
//	update := func(s, dt) {
//		s.x += 60 * dt
//		if s.x > 320 { s.alive = false }
//		if s.frame % 30 == 0 { s.emit("tick") }
//		if is_undefined(s.state.moves) { s.state.moves = 0 }
//		s.state.moves += 1
//	}
//
// The map exposes x, y, w, h, visible, alive, frame, a state map kept between
// frames, and emit(name) to queue an event.
package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

const dispatch = `
update(__sprite, __dt)
`

// Program is a compiled behaviour. One Program can back many sprites.
type Program struct {
	name     string
	compiled *tengo.Compiled
}

// Compile builds a program from src. name is used in errors and logs.
func Compile(name string, src []byte) (*Program, error) {
	code := make([]byte, 0, len(src)+len(dispatch)+1)
	code = append(code, src...)
	code = append(code, '\n')
	code = append(code, dispatch...)

	s := tengo.NewScript(code)
	_ = s.Add("__sprite", map[string]any{})
	_ = s.Add("__dt", 0.0)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Program{name: name, compiled: compiled}, nil
}

func (p *Program) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Instance returns a copy of the program with its own globals and state.
func (p *Program) Instance() *Instance {
	if p == nil || p.compiled == nil {
		return nil
	}
	return &Instance{
		program:  p,
		compiled: p.compiled.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
}

// Frame is the sprite data a script reads and writes.
type Frame struct {
	X, Y    float64
	W, H    int
	Visible bool
	Alive   bool
}

// Instance runs a program for one sprite.
type Instance struct {
	program  *Program
	compiled *tengo.Compiled
	state    *tengo.Map
	events   []string
	frame    int
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

// Run calls update once and returns the frame as the script left it.
func (in *Instance) Run(f Frame, dt float64) (Frame, error) {
	if in == nil || in.compiled == nil {
		return f, fmt.Errorf("script: nil instance")
	}
	in.frame++
	obj := &tengo.Map{Value: map[string]tengo.Object{
		"x":       &tengo.Float{Value: f.X},
		"y":       &tengo.Float{Value: f.Y},
		"w":       &tengo.Int{Value: int64(f.W)},
		"h":       &tengo.Int{Value: int64(f.H)},
		"visible": boolObject(f.Visible),
		"alive":   boolObject(f.Alive),
		"frame":   &tengo.Int{Value: int64(in.frame)},
		"state":   in.state,
		"emit":    &tengo.UserFunction{Name: "emit", Value: in.emit},
	}}
	if err := in.compiled.Set("__sprite", obj); err != nil {
		return f, err
	}
	if err := in.compiled.Set("__dt", dt); err != nil {
		return f, err
	}
	if err := in.compiled.Run(); err != nil {
		return f, fmt.Errorf("script: run %s: %w", in.program.name, err)
	}

	out := f
	if v, ok := tengo.ToFloat64(obj.Value["x"]); ok {
		out.X = v
	}
	if v, ok := tengo.ToFloat64(obj.Value["y"]); ok {
		out.Y = v
	}
	if v, ok := tengo.ToBool(obj.Value["visible"]); ok {
		out.Visible = v
	}
	if v, ok := tengo.ToBool(obj.Value["alive"]); ok {
		out.Alive = v
	}
	return out, nil
}

func (in *Instance) emit(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	name, ok := tengo.ToString(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "name", Expected: "string", Found: args[0].TypeName()}
	}
	in.events = append(in.events, name)
	return tengo.UndefinedValue, nil
}

// Events returns and clears the events emitted since the last call.
func (in *Instance) Events() []string {
	if in == nil {
		return nil
	}
	ev := in.events
	in.events = nil
	return ev
}

// State returns a Go copy of the script's state map.
func (in *Instance) State() map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in.state.Value))
	for k, v := range in.state.Value {
		out[k] = tengo.ToInterface(v)
	}
	return out
}
