package system

import (
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

// JumpStateMachine owns the vertical velocity of a character and every
// timer of the jump lifecycle: buffering, coyote grace, ascent, apex hang,
// fast fall and landing.
type JumpStateMachine struct {
	cfg   *component.MovementConfig
	state component.JumpState
}

func NewJumpStateMachine(cfg *component.MovementConfig) *JumpStateMachine {
	return &JumpStateMachine{cfg: cfg}
}

func (m *JumpStateMachine) State() component.JumpState {
	if m == nil {
		return component.JumpState{}
	}
	return m.state
}

func (m *JumpStateMachine) setConfig(cfg *component.MovementConfig) {
	m.cfg = cfg
}

// Update advances the machine one fixed step and returns the new vertical
// velocity. The rules run in a fixed order and later rules override
// earlier ones within the same step.
func (m *JumpStateMachine) Update(contacts component.Contacts, in component.Input, dt float64) float64 {
	if m == nil || m.cfg == nil {
		return 0
	}
	s := &m.state
	grounded := contacts.Grounded

	m.countTimers(grounded, dt)

	if in.JumpPressed {
		s.JumpBufferTimer = m.cfg.JumpBufferTime
		s.JumpReleasedDuringBuffer = false
	}

	impulse := false
	if in.JumpReleased {
		impulse = m.releaseJump()
	}

	if m.tryJump(grounded) {
		impulse = true
	}

	if s.Phase != component.PhaseGrounded && grounded && s.VerticalVelocity <= 0 {
		m.land()
		impulse = true
	}

	if !impulse && s.Phase != component.PhaseGrounded {
		m.integrate(dt)
	}

	if contacts.BumpedHead && s.VerticalVelocity > 0 {
		s.VerticalVelocity = 0
		if s.Phase == component.PhaseJumping {
			s.FastFalling = true
			s.FastFallTimer = 0
			s.PastApexThreshold = false
		}
	}

	return s.VerticalVelocity
}

func (m *JumpStateMachine) countTimers(grounded bool, dt float64) {
	s := &m.state
	s.JumpBufferTimer -= dt

	if grounded {
		s.CoyoteTimer = m.cfg.JumpCoyoteTime
		return
	}
	s.CoyoteTimer -= dt

	if s.Phase == component.PhaseGrounded {
		// walked off a ledge
		s.Phase = component.PhaseFalling
	}
	if s.Phase == component.PhaseFalling && s.JumpsUsed == 0 && s.CoyoteTimer <= 0 {
		// the ground jump is forfeited once the coyote window closes
		s.JumpsUsed = 1
	}
}

// releaseJump handles a release edge. It reports whether the vertical
// velocity was taken over by a cancel.
func (m *JumpStateMachine) releaseJump() bool {
	s := &m.state
	if s.JumpBufferTimer > 0 {
		s.JumpReleasedDuringBuffer = true
	}

	if s.Phase != component.PhaseJumping || s.VerticalVelocity <= 0 {
		return false
	}

	if s.PastApexThreshold {
		s.PastApexThreshold = false
		s.FastFalling = true
		s.FastFallTimer = m.cfg.TimeForUpwardsCancel
		s.FastFallReleaseSpeed = 0
		s.VerticalVelocity = 0
		return true
	}

	s.FastFalling = true
	s.FastFallReleaseSpeed = s.VerticalVelocity
	s.FastFallTimer = m.cfg.TimeForUpwardsCancel
	return true
}

func (m *JumpStateMachine) tryJump(grounded bool) bool {
	s := &m.state
	if s.JumpBufferTimer <= 0 {
		return false
	}

	if s.Phase != component.PhaseJumping && (grounded || s.CoyoteTimer > 0) {
		if s.Phase != component.PhaseGrounded && grounded && s.VerticalVelocity <= 0 {
			m.land()
		}
		if s.JumpsUsed < m.cfg.NumberOfJumpsAllowed {
			releasedEarly := s.JumpReleasedDuringBuffer
			m.fireJump()
			s.FastFalling = false
			if releasedEarly {
				s.FastFalling = true
				s.FastFallReleaseSpeed = s.VerticalVelocity
				s.FastFallTimer = m.cfg.TimeForUpwardsCancel
			}
			return true
		}
	}

	if s.JumpsUsed >= m.cfg.NumberOfJumpsAllowed {
		return false
	}

	switch s.Phase {
	case component.PhaseJumping:
		s.FastFalling = false
		m.fireJump()
		return true
	case component.PhaseFalling:
		m.fireJump()
		s.FastFalling = false
		return true
	}
	return false
}

// fireJump is a hard impulse: residual velocity is discarded.
func (m *JumpStateMachine) fireJump() {
	s := &m.state
	s.Phase = component.PhaseJumping
	s.JumpBufferTimer = 0
	s.JumpsUsed++
	s.VerticalVelocity = m.cfg.InitialJumpVelocity
	s.JumpReleasedDuringBuffer = false
	s.FastFallTimer = 0
	s.PastApexThreshold = false
	s.TimePastApexThreshold = 0
}

// land re-seeds the velocity with a full gravity step so the next cast
// keeps the body pressed to the floor.
func (m *JumpStateMachine) land() {
	s := &m.state
	s.Phase = component.PhaseGrounded
	s.FastFalling = false
	s.FastFallTimer = 0
	s.PastApexThreshold = false
	s.TimePastApexThreshold = 0
	s.JumpsUsed = 0
	s.VerticalVelocity = m.cfg.Gravity.Y
}

func (m *JumpStateMachine) integrate(dt float64) {
	s := &m.state
	g := m.cfg.Gravity.Y

	switch {
	case s.FastFalling && s.FastFallTimer > 0:
		s.FastFallTimer -= dt
		if s.FastFallTimer < 0 {
			s.FastFallTimer = 0
		}
		t := 1.0
		if m.cfg.TimeForUpwardsCancel > 0 {
			t = 1 - s.FastFallTimer/m.cfg.TimeForUpwardsCancel
		}
		s.VerticalVelocity = common.Lerp(s.FastFallReleaseSpeed, 0, t)
	case s.FastFalling:
		s.VerticalVelocity += g * m.cfg.FastFallGravityMultiplier * dt
	case s.Phase == component.PhaseJumping || s.PastApexThreshold:
		apex := common.InverseLerp(m.cfg.InitialJumpVelocity, 0, s.VerticalVelocity)
		if apex < m.cfg.ApexThreshold {
			s.PastApexThreshold = false
			s.VerticalVelocity += g * dt
			break
		}
		if !s.PastApexThreshold {
			s.PastApexThreshold = true
			s.TimePastApexThreshold = 0
		}
		s.TimePastApexThreshold += dt
		if s.TimePastApexThreshold >= m.cfg.ApexHangTime {
			s.PastApexThreshold = false
			s.FastFalling = true
			s.FastFallTimer = 0
			s.VerticalVelocity += g * m.cfg.FastFallGravityMultiplier * dt
			break
		}
		s.VerticalVelocity += g * m.cfg.ApexGravityScale * dt
	default:
		s.VerticalVelocity += g * dt
	}

	if s.Phase == component.PhaseJumping && s.VerticalVelocity < 0 {
		s.Phase = component.PhaseFalling
	}
	if s.VerticalVelocity < -m.cfg.MaxFallSpeed {
		s.VerticalVelocity = -m.cfg.MaxFallSpeed
	}
}
