package system

import (
	"runtime"

	"github.com/milk9111/locomotion/component"
	"golang.org/x/sync/errgroup"
)

// Crowd steps several characters against the same input snapshot. Probes
// and body writes run sequentially because they touch the shared physics
// space; the state machines run in parallel since each owns its state.
type Crowd struct {
	controllers []*MovementController
}

func NewCrowd(controllers ...*MovementController) *Crowd {
	copied := append([]*MovementController(nil), controllers...)
	return &Crowd{controllers: copied}
}

func (c *Crowd) Add(mc *MovementController) {
	if mc == nil {
		return
	}
	c.controllers = append(c.controllers, mc)
}

func (c *Crowd) Controllers() []*MovementController {
	controllers := make([]*MovementController, 0, len(c.controllers))
	return append(controllers, c.controllers...)
}

func (c *Crowd) Step(in component.Input, dt float64) error {
	if err := checkDelta(dt); err != nil {
		return err
	}
	for _, mc := range c.controllers {
		mc.Sense()
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, mc := range c.controllers {
		g.Go(func() error {
			_, err := mc.Think(in, dt)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, mc := range c.controllers {
		mc.Apply()
	}
	return nil
}
