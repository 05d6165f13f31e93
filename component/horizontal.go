package component

import "github.com/jakecoffman/cp"

// HorizontalState is the smoothed run velocity and facing of a character.
// Only Velocity.X is ever non-zero.
type HorizontalState struct {
	Velocity    cp.Vector
	FacingRight bool
}

func NewHorizontalState() HorizontalState {
	return HorizontalState{FacingRight: true}
}
