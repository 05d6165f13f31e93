package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/component"
)

// HorizontalMotion smooths the run velocity toward the stick intent and
// tracks which way the character faces.
type HorizontalMotion struct {
	cfg   *component.MovementConfig
	state component.HorizontalState

	// OnTurn is called when the facing flips. It has no physical effect.
	OnTurn func(facingRight bool)
}

func NewHorizontalMotion(cfg *component.MovementConfig) *HorizontalMotion {
	return &HorizontalMotion{cfg: cfg, state: component.NewHorizontalState()}
}

func (h *HorizontalMotion) State() component.HorizontalState {
	if h == nil {
		return component.HorizontalState{}
	}
	return h.state
}

func (h *HorizontalMotion) setConfig(cfg *component.MovementConfig) {
	h.cfg = cfg
}

// Update moves the velocity toward MaxSpeed*axis. The lerp factor is
// rate*dt and is not clamped, so rate*dt > 1 overshoots the target.
// In the air the same rate is used to speed up and to slow down.
func (h *HorizontalMotion) Update(axis float64, grounded bool, dt float64) cp.Vector {
	if h == nil || h.cfg == nil {
		return cp.Vector{}
	}

	if axis != 0 {
		h.turnCheck(axis)

		target := cp.Vector{X: axis, Y: 0}.Mult(h.cfg.MaxSpeed)
		rate := h.cfg.AirAcceleration
		if grounded {
			rate = h.cfg.GroundAcceleration
		}
		h.state.Velocity = h.state.Velocity.Lerp(target, rate*dt)
		return h.state.Velocity
	}

	rate := h.cfg.AirAcceleration
	if grounded {
		rate = h.cfg.GroundDeceleration
	}
	h.state.Velocity = h.state.Velocity.Lerp(cp.Vector{}, rate*dt)
	return h.state.Velocity
}

func (h *HorizontalMotion) turnCheck(axis float64) {
	if h.state.FacingRight && axis < 0 {
		h.turn(false)
	} else if !h.state.FacingRight && axis > 0 {
		h.turn(true)
	}
}

func (h *HorizontalMotion) turn(right bool) {
	h.state.FacingRight = right
	if h.OnTurn != nil {
		h.OnTurn(right)
	}
}
