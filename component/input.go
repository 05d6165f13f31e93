package component

// Input stores the input snapshot for one frame. It is captured once per
// tick and passed by value, so every character sees the same edges.
type Input struct {
	MoveX float64
	// Jump is true while the jump button is held.
	Jump         bool
	JumpPressed  bool
	JumpReleased bool
}

// Contacts is the probe result for one step.
type Contacts struct {
	Grounded   bool
	BumpedHead bool
}
