package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/levels"
)

// testLevel is 8x4 tiles with a floor along the bottom row and a wall on
// the right edge. The floor top sits at y=32.
func testLevel(t *testing.T) *levels.Level {
	t.Helper()
	lvl, err := levels.Parse([]byte(`{
		"width": 8,
		"height": 4,
		"layers": [[
			0,0,0,0,0,0,0,1,
			0,0,0,0,0,0,0,1,
			0,0,0,0,0,0,0,1,
			1,1,1,1,1,1,1,1
		]],
		"entities": [{"type": "spawn", "x": 2, "y": 2}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return lvl
}

func TestSpaceCharacterProbes(t *testing.T) {
	space := NewSpace(testLevel(t))
	if len(space.Solids()) == 0 {
		t.Fatalf("expected solids from the level")
	}
	c := space.AddCharacter(80, 32, 20, 40)

	if !c.ProbeGround(2) {
		t.Fatalf("expected a character on the floor to probe grounded")
	}
	if c.ProbeCeiling(2) {
		t.Fatalf("expected open air above the character")
	}

	c.SetVelocity(cp.Vector{Y: 600})
	for i := 0; i < 6; i++ {
		space.Step(1.0 / 60)
	}
	if c.Position().Y <= 32+20 {
		t.Fatalf("expected the character to rise, center at %v", c.Position().Y)
	}
	if c.ProbeGround(2) {
		t.Fatalf("expected an airborne character to probe ungrounded")
	}
}

func TestSpaceProbeIgnoresWallContact(t *testing.T) {
	space := NewSpace(testLevel(t))
	// flush against the wall at x=224, hovering well above the floor
	c := space.AddCharacter(224-10, 64, 20, 20)

	if c.ProbeGround(2) || c.ProbeCeiling(2) {
		t.Fatalf("expected a wall at the side not to read as floor or ceiling")
	}
}

func TestSpaceProbeIgnoresOtherCharacters(t *testing.T) {
	space := NewSpace(testLevel(t))
	top := space.AddCharacter(80, 100, 20, 20)
	space.AddCharacter(80, 78, 20, 20)

	if top.ProbeGround(4) {
		t.Fatalf("expected characters not to stand on each other")
	}
}

func TestSpaceRemoveCharacter(t *testing.T) {
	space := NewSpace(testLevel(t))
	c := space.AddCharacter(80, 32, 20, 40)
	space.RemoveCharacter(c)
	space.Step(1.0 / 60)
}

func TestCharacterProbeBoxes(t *testing.T) {
	space := NewSpace(nil)
	c := space.AddCharacter(0, 0, 20, 40)

	ground := c.GroundBox(2)
	if ground.B != -2 || ground.T != 0 || ground.L != -10 || ground.R != 10 {
		t.Fatalf("unexpected ground box %+v", ground)
	}
	ceiling := c.CeilingBox(3)
	if ceiling.B != 40 || ceiling.T != 43 {
		t.Fatalf("unexpected ceiling box %+v", ceiling)
	}
}
