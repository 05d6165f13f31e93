package script

import (
	"testing"

	"github.com/milk9111/locomotion/component"
)

func TestInputScriptEdges(t *testing.T) {
	src := []byte(`
axis := 0.0
jump := false
if tick >= 1 && tick < 3 {
	jump = true
}
if grounded {
	axis = 2.0
}
`)
	is, err := Compile("test", src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := []component.Input{
		{},
		{MoveX: 1, Jump: true, JumpPressed: true},
		{MoveX: 1, Jump: true},
		{MoveX: 1, JumpReleased: true},
	}
	for tick, w := range want {
		in, err := is.Next(tick, View{Grounded: tick > 0})
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if in != w {
			t.Fatalf("tick %d: expected %+v, got %+v", tick, w, in)
		}
	}
}

func TestInputScriptMemory(t *testing.T) {
	src := []byte(`
count := is_undefined(memory.count) ? 0 : memory.count
memory.count = count + 1
jump := memory.count % 2 == 0
axis := -1
`)
	is, err := Compile("memory", src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for tick := 0; tick < 4; tick++ {
		in, err := is.Next(tick, View{})
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if in.MoveX != -1 {
			t.Fatalf("tick %d: expected an integer axis to convert, got %v", tick, in.MoveX)
		}
		if in.Jump != (tick%2 == 1) {
			t.Fatalf("tick %d: expected jump=%v, got %v", tick, tick%2 == 1, in.Jump)
		}
	}
}

func TestInputScriptErrors(t *testing.T) {
	if _, err := Compile("broken", []byte(`axis := (`)); err == nil {
		t.Fatalf("expected a compile error")
	}

	is, err := Compile("runtime", []byte(`x := 1 / (tick - tick)`))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := is.Next(0, View{}); err == nil {
		t.Fatalf("expected a runtime error")
	}

	var nilScript *InputScript
	if _, err := nilScript.Next(0, View{}); err != ErrNilScript {
		t.Fatalf("expected ErrNilScript, got %v", err)
	}
}

func TestLoadShippedScripts(t *testing.T) {
	for _, name := range []string{"hop_and_double", "ledge_walk"} {
		is, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		for tick := 0; tick < 240; tick++ {
			if _, err := is.Next(tick, View{Grounded: true, Phase: component.PhaseGrounded}); err != nil {
				t.Fatalf("%s tick %d: %v", name, tick, err)
			}
		}
	}
}
