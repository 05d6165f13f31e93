package system

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/component"
)

var (
	ErrInvalidDelta = errors.New("system: invalid time step")
	ErrNilBody      = errors.New("system: body is nil")
	ErrNilProbe     = errors.New("system: ground probe is nil")
)

// Body receives the velocity computed for a step.
type Body interface {
	SetVelocity(v cp.Vector)
}

// GroundProbe casts the body footprint down (ground) or up (ceiling) by
// castLength and reports a hit against solid geometry.
type GroundProbe interface {
	ProbeGround(castLength float64) bool
	ProbeCeiling(castLength float64) bool
}

// MovementController runs one character: probe, jump state, horizontal
// motion, then the velocity write, in that order every fixed step.
type MovementController struct {
	cfg   *component.MovementConfig
	body  Body
	probe GroundProbe

	jump       *JumpStateMachine
	horizontal *HorizontalMotion

	contacts component.Contacts
	velocity cp.Vector
}

func NewMovementController(cfg *component.MovementConfig, body Body, probe GroundProbe) (*MovementController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, ErrNilBody
	}
	if probe == nil {
		return nil, ErrNilProbe
	}
	c := *cfg
	return &MovementController{
		cfg:        &c,
		body:       body,
		probe:      probe,
		jump:       NewJumpStateMachine(&c),
		horizontal: NewHorizontalMotion(&c),
	}, nil
}

// SetConfig swaps the tuning in place. Jump and run state carry over.
func (mc *MovementController) SetConfig(cfg *component.MovementConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c := *cfg
	mc.cfg = &c
	mc.jump.setConfig(&c)
	mc.horizontal.setConfig(&c)
	return nil
}

func (mc *MovementController) Config() component.MovementConfig {
	return *mc.cfg
}

// OnTurn registers the facing-change callback.
func (mc *MovementController) OnTurn(f func(facingRight bool)) {
	mc.horizontal.OnTurn = f
}

func (mc *MovementController) Jump() component.JumpState {
	return mc.jump.State()
}

func (mc *MovementController) Horizontal() component.HorizontalState {
	return mc.horizontal.State()
}

func (mc *MovementController) Contacts() component.Contacts {
	return mc.contacts
}

// Velocity is the last velocity computed by Think.
func (mc *MovementController) Velocity() cp.Vector {
	return mc.velocity
}

// Step runs a full fixed step for this character.
// A rejected dt leaves the controller untouched: no probe runs.
func (mc *MovementController) Step(in component.Input, dt float64) error {
	if err := checkDelta(dt); err != nil {
		return err
	}
	mc.Sense()
	if _, err := mc.Think(in, dt); err != nil {
		return err
	}
	mc.Apply()
	return nil
}

// Sense runs the ground and ceiling probes for this step.
func (mc *MovementController) Sense() component.Contacts {
	mc.contacts = component.Contacts{
		Grounded: mc.probe.ProbeGround(mc.cfg.GroundDetectionRayLength),
	}
	if mc.cfg.HeadDetectionRayLength > 0 {
		mc.contacts.BumpedHead = mc.probe.ProbeCeiling(mc.cfg.HeadDetectionRayLength)
	}
	return mc.contacts
}

// Think advances the state machines from the last probe result. It touches
// no physics and may run concurrently with other characters.
func (mc *MovementController) Think(in component.Input, dt float64) (cp.Vector, error) {
	if err := checkDelta(dt); err != nil {
		return mc.velocity, err
	}

	vy := mc.jump.Update(mc.contacts, in, dt)
	hv := mc.horizontal.Update(in.MoveX, mc.contacts.Grounded, dt)

	mc.velocity = cp.Vector{X: hv.X, Y: vy}
	return mc.velocity, nil
}

// Apply writes the computed velocity to the body.
func (mc *MovementController) Apply() {
	mc.body.SetVelocity(mc.velocity)
}

func checkDelta(dt float64) error {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}
	return nil
}
