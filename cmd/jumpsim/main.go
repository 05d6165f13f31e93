// Command jumpsim runs characters headless through a level, driven by an
// input script, and prints their trajectories as CSV.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/milk9111/locomotion/levels"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/script"
	"github.com/milk9111/locomotion/system"
)

func main() {
	specName := flag.String("spec", "player.yaml", "character spec in prefabs/")
	levelName := flag.String("level", "playground", "level name in levels/ (basename, .json optional)")
	scriptName := flag.String("script", "hop_and_double", "input script in prefabs/scripts/")
	ticks := flag.Int("ticks", 240, "number of fixed steps to run")
	count := flag.Int("n", 1, "number of characters")
	spacing := flag.Float64("spacing", 0, "horizontal gap between characters")
	tps := flag.Int("tps", 60, "fixed steps per second")
	flag.Parse()

	if *ticks <= 0 || *count <= 0 || *tps <= 0 {
		log.Fatal("jumpsim: ticks, n and tps must be positive")
	}

	spec, err := prefabs.LoadCharacterSpec(*specName)
	if err != nil {
		log.Fatal(err)
	}
	level, err := levels.Load(*levelName)
	if err != nil {
		log.Fatal(err)
	}
	input, err := script.Load(*scriptName)
	if err != nil {
		log.Fatal(err)
	}

	sim, err := newSim(spec, level, *count, *spacing)
	if err != nil {
		log.Fatal(err)
	}

	out := csv.NewWriter(os.Stdout)
	if err := out.Write(header); err != nil {
		log.Fatal(err)
	}
	dt := 1 / float64(*tps)
	for tick := 0; tick < *ticks; tick++ {
		if err := sim.step(tick, input, dt); err != nil {
			log.Fatal(err)
		}
		for i := range sim.movers {
			if err := out.Write(sim.row(tick, i)); err != nil {
				log.Fatal(err)
			}
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		log.Fatal(err)
	}
	log.Printf("jumpsim: %d ticks, %d characters, script %s", *ticks, *count, input.Name())
}

var header = []string{"tick", "character", "x", "y", "vx", "vy", "phase", "grounded", "jumps_used", "facing_right"}

type sim struct {
	grid   *physics.Grid
	movers []*physics.Mover
	crowd  *system.Crowd
}

func newSim(spec *prefabs.CharacterSpec, level *levels.Level, count int, spacing float64) (*sim, error) {
	s := &sim{grid: physics.NewGrid(level), crowd: system.NewCrowd()}
	spawnX, spawnY := level.Spawn()
	for i := 0; i < count; i++ {
		x := spawnX + float64(i)*spacing
		m := s.grid.AddCharacter(x, spawnY, spec.Collider.Width, spec.Collider.Height)
		mc, err := system.NewMovementController(&spec.Movement, m, m)
		if err != nil {
			return nil, fmt.Errorf("jumpsim: character %d: %w", i, err)
		}
		s.movers = append(s.movers, m)
		s.crowd.Add(mc)
	}
	return s, nil
}

// step feeds every character the script's decision for the first one, so
// all of them see the same input edges.
func (s *sim) step(tick int, input *script.InputScript, dt float64) error {
	lead := s.crowd.Controllers()[0]
	in, err := input.Next(tick, script.View{
		Grounded: lead.Contacts().Grounded,
		Phase:    lead.Jump().Phase,
		Position: s.movers[0].Position(),
		Velocity: lead.Velocity(),
	})
	if err != nil {
		return err
	}
	if err := s.crowd.Step(in, dt); err != nil {
		return err
	}
	s.grid.Step(dt)
	return nil
}

func (s *sim) row(tick, i int) []string {
	mc := s.crowd.Controllers()[i]
	pos := s.movers[i].Position()
	vel := s.movers[i].Velocity()
	jump := mc.Jump()
	return []string{
		strconv.Itoa(tick),
		strconv.Itoa(i),
		formatFloat(pos.X),
		formatFloat(pos.Y),
		formatFloat(vel.X),
		formatFloat(vel.Y),
		jump.Phase.String(),
		strconv.FormatBool(mc.Contacts().Grounded),
		strconv.Itoa(jump.JumpsUsed),
		strconv.FormatBool(mc.Horizontal().FacingRight),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
