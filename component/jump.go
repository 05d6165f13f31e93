package component

// JumpPhase is the coarse vertical phase of a character.
type JumpPhase int

const (
	PhaseGrounded JumpPhase = iota
	PhaseJumping
	PhaseFalling
)

func (p JumpPhase) String() string {
	switch p {
	case PhaseGrounded:
		return "grounded"
	case PhaseJumping:
		return "jumping"
	case PhaseFalling:
		return "falling"
	default:
		return "unknown"
	}
}

// JumpState is the mutable vertical state of one character. The zero value
// is a character standing on the ground with every timer expired.
type JumpState struct {
	// VerticalVelocity is signed, positive is up.
	VerticalVelocity float64
	Phase            JumpPhase

	FastFalling           bool
	PastApexThreshold     bool
	TimePastApexThreshold float64

	JumpsUsed int

	// Timers count down; zero or below means expired.
	JumpBufferTimer float64
	CoyoteTimer     float64
	FastFallTimer   float64

	JumpReleasedDuringBuffer bool
	FastFallReleaseSpeed     float64
}

func (s JumpState) Airborne() bool {
	return s.Phase != PhaseGrounded
}
