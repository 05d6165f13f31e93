package system

import (
	"math"
	"testing"

	"github.com/milk9111/locomotion/component"
)

func horizontalConfig(maxSpeed, accel float64) *component.MovementConfig {
	cfg := component.DefaultMovementConfig()
	cfg.MaxSpeed = maxSpeed
	cfg.GroundAcceleration = accel
	return &cfg
}

func TestHorizontalAcceleratesTowardMaxSpeed(t *testing.T) {
	h := NewHorizontalMotion(horizontalConfig(10, 20))

	prev := 0.0
	for tick := 0; tick < 10; tick++ {
		v := h.Update(1, true, 0.02)
		if v.X <= prev {
			t.Fatalf("tick %d: expected velocity to keep increasing, got %v after %v", tick, v.X, prev)
		}
		if v.X > 10 {
			t.Fatalf("tick %d: overshot max speed: %v", tick, v.X)
		}
		if v.Y != 0 {
			t.Fatalf("tick %d: horizontal motion touched vertical velocity: %v", tick, v.Y)
		}
		prev = v.X
	}
}

func TestHorizontalApproachIsMonotonic(t *testing.T) {
	cases := []struct {
		name     string
		axis     float64
		grounded bool
		rate     float64
		dt       float64
	}{
		{"ground_right", 1, true, 20, 0.02},
		{"ground_left", -1, true, 20, 0.02},
		{"air_half_stick", 0.5, false, 8, 1.0 / 60},
		{"full_step", 1, true, 50, 0.02},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := horizontalConfig(10, c.rate)
			cfg.AirAcceleration = c.rate
			h := NewHorizontalMotion(cfg)
			target := c.axis * cfg.MaxSpeed

			gap := math.Abs(target)
			for tick := 0; tick < 50; tick++ {
				v := h.Update(c.axis, c.grounded, c.dt)
				next := math.Abs(target - v.X)
				if next > gap {
					t.Fatalf("tick %d: moved away from target, gap %v after %v", tick, next, gap)
				}
				if math.Abs(v.X) > math.Abs(target)+1e-9 {
					t.Fatalf("tick %d: overshot target %v with %v", tick, target, v.X)
				}
				gap = next
			}
		})
	}
}

func TestHorizontalDeceleration(t *testing.T) {
	cases := []struct {
		name     string
		grounded bool
		want     float64
	}{
		// 10 * (1 - 30*0.02)
		{"ground_uses_deceleration", true, 4},
		// 10 * (1 - 8*0.02)
		{"air_uses_air_acceleration", false, 8.4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := horizontalConfig(10, 20)
			cfg.GroundDeceleration = 30
			cfg.AirAcceleration = 8
			h := NewHorizontalMotion(cfg)
			h.state.Velocity.X = 10

			v := h.Update(0, c.grounded, 0.02)
			if math.Abs(v.X-c.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", c.want, v.X)
			}
		})
	}
}

func TestHorizontalTurnEvent(t *testing.T) {
	h := NewHorizontalMotion(horizontalConfig(10, 20))
	var turns []bool
	h.OnTurn = func(facingRight bool) {
		turns = append(turns, facingRight)
	}

	axes := []float64{1, 0, -1, -0.5, 0, 1, 1}
	for _, axis := range axes {
		h.Update(axis, true, 0.02)
	}

	want := []bool{false, true}
	if len(turns) != len(want) {
		t.Fatalf("expected %d turns, got %v", len(want), turns)
	}
	for i := range want {
		if turns[i] != want[i] {
			t.Fatalf("turn %d: expected facingRight=%v, got %v", i, want[i], turns[i])
		}
	}
	if !h.State().FacingRight {
		t.Fatalf("expected to end facing right")
	}
}

func TestHorizontalIdleKeepsFacing(t *testing.T) {
	h := NewHorizontalMotion(horizontalConfig(10, 20))
	h.Update(-1, true, 0.02)
	h.Update(0, true, 0.02)
	if h.State().FacingRight {
		t.Fatalf("expected idle input to keep facing left")
	}
}
