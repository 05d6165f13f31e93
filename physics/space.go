package physics

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/levels"
)

const (
	solidCategory uint = 1 << iota
	characterCategory
)

var (
	solidFilter     = cp.NewShapeFilter(cp.NO_GROUP, solidCategory, cp.ALL_CATEGORIES)
	characterFilter = cp.NewShapeFilter(cp.NO_GROUP, characterCategory, solidCategory)
	// probes only see level geometry, never other characters
	probeFilter = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, solidCategory)
)

// Space owns the Chipmunk space and the static level geometry. Y points up.
// Gravity is zero: characters get their whole velocity from the movement
// controller, and the solver only resolves contacts.
type Space struct {
	space  *cp.Space
	solids []levels.Rect
}

func NewSpace(level *levels.Level) *Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})

	s := &Space{space: space}
	if level != nil {
		for _, r := range level.SolidRects() {
			s.AddSolid(r)
		}
		log.Printf("physics: space built with %d solid boxes", len(s.solids))
	}
	return s
}

// AddSolid adds a static box.
func (s *Space) AddSolid(r levels.Rect) {
	if s == nil || s.space == nil {
		return
	}
	bb := cp.BB{L: r.X, B: r.Y, R: r.X + r.W, T: r.Y + r.H}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetFilter(solidFilter)
	s.space.AddShape(shape)
	s.solids = append(s.solids, r)
}

func (s *Space) Solids() []levels.Rect {
	if s == nil {
		return nil
	}
	return s.solids
}

// AddCharacter creates a box body whose bottom-center sits at (x, y).
func (s *Space) AddCharacter(x, y, width, height float64) *Character {
	if s == nil || s.space == nil {
		return nil
	}
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: x, Y: y + height/2})

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetFilter(characterFilter)

	s.space.AddBody(body)
	s.space.AddShape(shape)
	return &Character{space: s, body: body, shape: shape}
}

func (s *Space) RemoveCharacter(c *Character) {
	if s == nil || s.space == nil || c == nil {
		return
	}
	s.space.RemoveShape(c.shape)
	s.space.RemoveBody(c.body)
}

// Step advances the solver by dt.
func (s *Space) Step(dt float64) {
	if s == nil || s.space == nil || dt <= 0 {
		return
	}
	s.space.Step(dt)
}

func (s *Space) hasSolid(bb cp.BB, self *cp.Body) bool {
	hit := false
	s.space.BBQuery(bb, probeFilter, func(shape *cp.Shape, data interface{}) {
		if shape.Body() == self {
			return
		}
		hit = true
	}, nil)
	return hit
}

// Character is a dynamic body with fixed rotation driven by velocity.
type Character struct {
	space *Space
	body  *cp.Body
	shape *cp.Shape
}

func (c *Character) SetVelocity(v cp.Vector) {
	if c == nil || c.body == nil {
		return
	}
	c.body.SetVelocityVector(v)
}

func (c *Character) Velocity() cp.Vector {
	if c == nil || c.body == nil {
		return cp.Vector{}
	}
	return c.body.Velocity()
}

func (c *Character) Position() cp.Vector {
	if c == nil || c.body == nil {
		return cp.Vector{}
	}
	return c.body.Position()
}

// Bounds is the current world box of the character.
func (c *Character) Bounds() cp.BB {
	if c == nil || c.shape == nil {
		return cp.BB{}
	}
	return c.shape.CacheBB()
}

// GroundBox is the region swept by the ground cast: the body footprint,
// castLength deep, directly below the lower bound.
func (c *Character) GroundBox(castLength float64) cp.BB {
	bb := c.Bounds()
	return cp.BB{L: bb.L, B: bb.B - castLength, R: bb.R, T: bb.B}
}

func (c *Character) CeilingBox(castLength float64) cp.BB {
	bb := c.Bounds()
	return cp.BB{L: bb.L, B: bb.T, R: bb.R, T: bb.T + castLength}
}

func (c *Character) ProbeGround(castLength float64) bool {
	if c == nil || c.space == nil {
		return false
	}
	return c.space.hasSolid(shrinkX(c.GroundBox(castLength)), c.body)
}

func (c *Character) ProbeCeiling(castLength float64) bool {
	if c == nil || c.space == nil {
		return false
	}
	return c.space.hasSolid(shrinkX(c.CeilingBox(castLength)), c.body)
}

// shrinkX keeps a body pressed against a wall from reading the wall as
// floor or ceiling.
func shrinkX(bb cp.BB) cp.BB {
	if bb.R-bb.L > 2*inset {
		bb.L += inset
		bb.R -= inset
	}
	return bb
}
