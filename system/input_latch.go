package system

import "github.com/milk9111/locomotion/component"

// InputLatch turns a held-button source (a script, a replay) into a
// snapshot with press and release edges.
type InputLatch struct {
	held bool
}

func (l *InputLatch) Next(moveX float64, jumpHeld bool) component.Input {
	in := component.Input{
		MoveX:        clampAxis(moveX),
		Jump:         jumpHeld,
		JumpPressed:  jumpHeld && !l.held,
		JumpReleased: !jumpHeld && l.held,
	}
	l.held = jumpHeld
	return in
}
