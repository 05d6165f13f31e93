package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/levels"
	"github.com/solarlune/resolv"
)

const (
	tagSolid     = "solid"
	tagCharacter = "character"

	gridCellSize = 16
	maxStep      = gridCellSize / 2
)

// Grid is a lightweight kinematic world on a resolv space, used where no
// rigid-body solver is wanted (headless runs, tests). Y points up.
type Grid struct {
	space  *resolv.Space
	movers []*Mover
}

func NewGrid(level *levels.Level) *Grid {
	w, h := 1024, 1024
	if level != nil {
		w, h = int(level.WorldWidth()), int(level.WorldHeight())
	}
	g := &Grid{space: resolv.NewSpace(w, h, gridCellSize, gridCellSize)}
	if level != nil {
		for _, r := range level.SolidRects() {
			g.AddSolid(r)
		}
	}
	return g
}

func (g *Grid) AddSolid(r levels.Rect) {
	if g == nil || g.space == nil {
		return
	}
	g.space.Add(resolv.NewObject(r.X, r.Y, r.W, r.H, tagSolid))
}

// AddCharacter creates a mover whose bottom-center sits at (x, y).
func (g *Grid) AddCharacter(x, y, width, height float64) *Mover {
	if g == nil || g.space == nil {
		return nil
	}
	obj := resolv.NewObject(x-width/2, y, width, height, tagCharacter)
	g.space.Add(obj)
	m := &Mover{obj: obj}
	g.movers = append(g.movers, m)
	return m
}

// Step moves every mover by its velocity, stopping at solids.
func (g *Grid) Step(dt float64) {
	if g == nil || dt <= 0 {
		return
	}
	for _, m := range g.movers {
		m.move(dt)
	}
}

// Mover is a box moved kinematically through the grid.
type Mover struct {
	obj      *resolv.Object
	velocity cp.Vector
}

func (m *Mover) SetVelocity(v cp.Vector) {
	if m == nil {
		return
	}
	m.velocity = v
}

func (m *Mover) Velocity() cp.Vector {
	if m == nil {
		return cp.Vector{}
	}
	return m.velocity
}

// Position is the bottom-center of the box.
func (m *Mover) Position() cp.Vector {
	if m == nil || m.obj == nil {
		return cp.Vector{}
	}
	return cp.Vector{X: m.obj.X + m.obj.W/2, Y: m.obj.Y}
}

func (m *Mover) ProbeGround(castLength float64) bool {
	return m.probe(0, -castLength)
}

func (m *Mover) ProbeCeiling(castLength float64) bool {
	return m.probe(0, castLength)
}

// probe reports a solid overlapping the strip swept by moving the box by
// (dx, dy), excluding the box's current footprint.
func (m *Mover) probe(dx, dy float64) bool {
	if m == nil || m.obj == nil || (dx == 0 && dy == 0) {
		return false
	}
	o := m.obj
	strip := box{L: o.X + inset, R: o.X + o.W - inset}
	if dy < 0 {
		strip.B, strip.T = o.Y+dy, o.Y
	} else {
		strip.B, strip.T = o.Y+o.H, o.Y+o.H+dy
	}
	for _, solid := range m.solidsNear(dx, dy) {
		if strip.intersects(boxOf(solid)) {
			return true
		}
	}
	return false
}

// solidsNear returns the solids sharing a cell with the box moved by
// (dx, dy). The move is padded by one unit since resolv leaves a box's
// far edge out of its cell range.
func (m *Mover) solidsNear(dx, dy float64) []*resolv.Object {
	check := m.obj.Check(dx+pad(dx), dy+pad(dy), tagSolid)
	if check == nil {
		return nil
	}
	return check.ObjectsByTags(tagSolid)
}

func pad(d float64) float64 {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return 0
}

func (m *Mover) move(dt float64) {
	if dx := m.velocity.X * dt; dx != 0 && m.travel(dx, 0) {
		m.velocity.X = 0
	}
	if dy := m.velocity.Y * dt; dy != 0 && m.travel(0, dy) {
		m.velocity.Y = 0
	}
}

// travel moves along one axis in steps of at most half a cell so a fast
// mover cannot pass through a thin solid. It reports a hit.
func (m *Mover) travel(dx, dy float64) bool {
	n := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy)) / maxStep))
	sx, sy := dx/float64(n), dy/float64(n)
	for i := 0; i < n; i++ {
		if m.sweep(sx, sy) {
			return true
		}
	}
	return false
}

// sweep moves the box by a single-axis offset, stopping it flush against
// the first solid in its way.
func (m *Mover) sweep(dx, dy float64) bool {
	o := m.obj
	x, y := o.X+dx, o.Y+dy
	moved := boxOf(o).offset(dx, dy)
	hit := false
	for _, solid := range m.solidsNear(dx, dy) {
		b := boxOf(solid)
		if !moved.overlaps(b) {
			continue
		}
		hit = true
		switch {
		case dx > 0:
			x = math.Max(o.X, math.Min(x, b.L-o.W))
		case dx < 0:
			x = math.Min(o.X, math.Max(x, b.R))
		case dy > 0:
			y = math.Max(o.Y, math.Min(y, b.B-o.H))
		case dy < 0:
			y = math.Min(o.Y, math.Max(y, b.T))
		}
	}
	o.X, o.Y = x, y
	o.Update()
	return hit
}

const inset = 0.5

type box struct {
	L, B, R, T float64
}

func boxOf(o *resolv.Object) box {
	return box{L: o.X, B: o.Y, R: o.X + o.W, T: o.Y + o.H}
}

func (a box) offset(dx, dy float64) box {
	return box{L: a.L + dx, B: a.B + dy, R: a.R + dx, T: a.T + dy}
}

// intersects counts touching edges as contact.
func (a box) intersects(b box) bool {
	return a.L <= b.R && b.L <= a.R && a.B <= b.T && b.B <= a.T
}

// overlaps requires shared area.
func (a box) overlaps(b box) bool {
	return a.L < b.R && b.L < a.R && a.B < b.T && b.B < a.T
}
