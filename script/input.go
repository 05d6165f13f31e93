// Package script drives characters from tengo scripts. A script runs once
// per tick with the tick number and a view of the character, and leaves
// its decision in the globals axis and jump.
package script

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/system"
)

var ErrNilScript = errors.New("script: nil input script")

// maxAllocs bounds the objects one tick may allocate.
const maxAllocs = 1 << 16

// View is what a script can see of the character it drives.
type View struct {
	Grounded bool
	Phase    component.JumpPhase
	Position cp.Vector
	Velocity cp.Vector
}

// InputScript turns a compiled script into an input stream. Edges are
// derived from the jump level the script reports each tick.
type InputScript struct {
	name     string
	compiled *tengo.Compiled
	memory   *tengo.Map
	latch    system.InputLatch
}

// Load compiles a script shipped in the prefabs scripts directory.
func Load(name string) (*InputScript, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return Compile(name, src)
}

func Compile(name string, src []byte) (*InputScript, error) {
	s := tengo.NewScript(src)
	_ = s.Add("tick", 0)
	_ = s.Add("grounded", false)
	_ = s.Add("phase", "")
	_ = s.Add("x", 0.0)
	_ = s.Add("y", 0.0)
	_ = s.Add("vx", 0.0)
	_ = s.Add("vy", 0.0)
	_ = s.Add("memory", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	s.SetMaxAllocs(maxAllocs)

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &InputScript{
		name:     name,
		compiled: compiled,
		memory:   &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (is *InputScript) Name() string {
	if is == nil {
		return ""
	}
	return is.name
}

// Next runs the script for one tick. The memory map survives between
// ticks; every other global is reset by the run.
func (is *InputScript) Next(tick int, view View) (component.Input, error) {
	if is == nil || is.compiled == nil {
		return component.Input{}, ErrNilScript
	}

	globals := map[string]any{
		"tick":     tick,
		"grounded": view.Grounded,
		"phase":    view.Phase.String(),
		"x":        view.Position.X,
		"y":        view.Position.Y,
		"vx":       view.Velocity.X,
		"vy":       view.Velocity.Y,
		"memory":   is.memory,
	}
	for name, value := range globals {
		if err := is.compiled.Set(name, value); err != nil {
			return component.Input{}, fmt.Errorf("script: %s: set %s: %w", is.name, name, err)
		}
	}
	if err := is.compiled.Run(); err != nil {
		return component.Input{}, fmt.Errorf("script: %s: tick %d: %w", is.name, tick, err)
	}

	axis := is.compiled.Get("axis").Float()
	jump := is.compiled.Get("jump").Bool()
	return is.latch.Next(axis, jump), nil
}
