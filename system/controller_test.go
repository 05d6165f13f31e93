package system

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/component"
)

type fakeBody struct {
	writes []cp.Vector
	log    *[]string
}

func (b *fakeBody) SetVelocity(v cp.Vector) {
	b.writes = append(b.writes, v)
	if b.log != nil {
		*b.log = append(*b.log, "apply")
	}
}

type fakeProbe struct {
	grounded   bool
	bumped     bool
	groundLen  float64
	ceilingLen float64
	grounds    int
	ceilings   int
	log        *[]string
}

func (p *fakeProbe) ProbeGround(castLength float64) bool {
	p.groundLen = castLength
	p.grounds++
	if p.log != nil {
		*p.log = append(*p.log, "sense")
	}
	return p.grounded
}

func (p *fakeProbe) ProbeCeiling(castLength float64) bool {
	p.ceilingLen = castLength
	p.ceilings++
	return p.bumped
}

func newTestController(t *testing.T, cfg *component.MovementConfig) (*MovementController, *fakeBody, *fakeProbe) {
	t.Helper()
	body := &fakeBody{}
	probe := &fakeProbe{grounded: true}
	mc, err := NewMovementController(cfg, body, probe)
	if err != nil {
		t.Fatalf("NewMovementController: %v", err)
	}
	return mc, body, probe
}

func TestNewMovementControllerRejects(t *testing.T) {
	bad := testConfig()
	bad.MaxSpeed = -1

	cases := []struct {
		name  string
		cfg   *component.MovementConfig
		body  Body
		probe GroundProbe
		want  error
	}{
		{"nil_config", nil, &fakeBody{}, &fakeProbe{}, component.ErrInvalidConfig},
		{"invalid_config", bad, &fakeBody{}, &fakeProbe{}, component.ErrInvalidConfig},
		{"nil_body", testConfig(), nil, &fakeProbe{}, ErrNilBody},
		{"nil_probe", testConfig(), &fakeBody{}, nil, ErrNilProbe},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mc, err := NewMovementController(c.cfg, c.body, c.probe)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			if mc != nil {
				t.Fatalf("expected no controller on error")
			}
		})
	}
}

func TestMovementControllerStepWritesVelocity(t *testing.T) {
	cfg := testConfig()
	mc, body, probe := newTestController(t, cfg)

	if err := mc.Step(component.Input{MoveX: 1, Jump: true, JumpPressed: true}, testDT); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(body.writes) != 1 {
		t.Fatalf("expected one velocity write, got %d", len(body.writes))
	}
	got := body.writes[0]
	if got.Y != cfg.InitialJumpVelocity {
		t.Fatalf("expected jump velocity %v, got %v", cfg.InitialJumpVelocity, got.Y)
	}
	if want := cfg.MaxSpeed * cfg.GroundAcceleration * testDT; math.Abs(got.X-want) > 1e-9 {
		t.Fatalf("expected run velocity %v, got %v", want, got.X)
	}
	if got != mc.Velocity() {
		t.Fatalf("expected Velocity() to match the write, got %v", mc.Velocity())
	}
	if probe.groundLen != cfg.GroundDetectionRayLength {
		t.Fatalf("expected ground cast length %v, got %v", cfg.GroundDetectionRayLength, probe.groundLen)
	}
	if !mc.Contacts().Grounded {
		t.Fatalf("expected grounded contacts")
	}
}

func TestMovementControllerRejectsBadDelta(t *testing.T) {
	cases := []struct {
		name string
		dt   float64
	}{
		{"negative", -testDT},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mc, body, probe := newTestController(t, testConfig())
			err := mc.Step(component.Input{JumpPressed: true}, c.dt)
			if !errors.Is(err, ErrInvalidDelta) {
				t.Fatalf("expected ErrInvalidDelta, got %v", err)
			}
			if len(body.writes) != 0 {
				t.Fatalf("expected no velocity write, got %v", body.writes)
			}
			if probe.grounds != 0 || probe.ceilings != 0 {
				t.Fatalf("expected no probe before the step was rejected, got %d ground and %d ceiling casts", probe.grounds, probe.ceilings)
			}
			if mc.Contacts() != (component.Contacts{}) {
				t.Fatalf("expected contacts untouched, got %+v", mc.Contacts())
			}
			if s := mc.Jump(); s.Phase != component.PhaseGrounded || s.JumpBufferTimer != 0 {
				t.Fatalf("expected state untouched, got %+v", s)
			}
		})
	}
}

func TestMovementControllerZeroDelta(t *testing.T) {
	mc, body, _ := newTestController(t, testConfig())
	if err := mc.Step(component.Input{}, 0); err != nil {
		t.Fatalf("expected dt=0 to be accepted, got %v", err)
	}
	if len(body.writes) != 1 || body.writes[0] != (cp.Vector{}) {
		t.Fatalf("expected a zero velocity write, got %v", body.writes)
	}
}

func TestMovementControllerCeilingProbe(t *testing.T) {
	cfg := testConfig()
	mc, _, probe := newTestController(t, cfg)
	probe.bumped = true
	mc.Sense()
	if probe.ceilings != 1 || !mc.Contacts().BumpedHead {
		t.Fatalf("expected the ceiling to be probed, got %d probes", probe.ceilings)
	}
	if probe.ceilingLen != cfg.HeadDetectionRayLength {
		t.Fatalf("expected head cast length %v, got %v", cfg.HeadDetectionRayLength, probe.ceilingLen)
	}

	cfg.HeadDetectionRayLength = 0
	mc, _, probe = newTestController(t, cfg)
	probe.bumped = true
	mc.Sense()
	if probe.ceilings != 0 || mc.Contacts().BumpedHead {
		t.Fatalf("expected no ceiling probe with a zero head ray")
	}
}

func TestMovementControllerSetConfig(t *testing.T) {
	cfg := testConfig()
	mc, body, _ := newTestController(t, cfg)

	cfg.InitialJumpVelocity = 1
	if mc.Config().InitialJumpVelocity == 1 {
		t.Fatalf("expected the controller to keep its own copy of the config")
	}

	bad := testConfig()
	bad.NumberOfJumpsAllowed = 0
	if err := mc.SetConfig(bad); !errors.Is(err, component.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if mc.Config().NumberOfJumpsAllowed != testConfig().NumberOfJumpsAllowed {
		t.Fatalf("expected a rejected config to leave the old one in place")
	}

	next := testConfig()
	next.InitialJumpVelocity = 300
	if err := mc.SetConfig(next); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if err := mc.Step(component.Input{Jump: true, JumpPressed: true}, testDT); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := body.writes[len(body.writes)-1].Y; got != 300 {
		t.Fatalf("expected the new jump velocity, got %v", got)
	}
}

func TestMovementControllerOnTurn(t *testing.T) {
	mc, _, _ := newTestController(t, testConfig())
	turned := 0
	mc.OnTurn(func(facingRight bool) {
		if facingRight {
			t.Fatalf("expected a turn to the left")
		}
		turned++
	})
	for i := 0; i < 3; i++ {
		if err := mc.Step(component.Input{MoveX: -1}, testDT); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if turned != 1 {
		t.Fatalf("expected one turn, got %d", turned)
	}
	if mc.Horizontal().FacingRight {
		t.Fatalf("expected to face left")
	}
}
