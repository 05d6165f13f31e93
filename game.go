package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/locomotion/levels"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/system"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	turnDuration = 0.12
	statusTicks  = 120
)

type Options struct {
	Level string
	Spec  string
	Debug bool
	Watch bool
}

type Game struct {
	opts Options

	level      *levels.Level
	space      *physics.Space
	character  *physics.Character
	controller *system.MovementController
	input      *system.InputSystem
	spec       *prefabs.CharacterSpec

	watcher   *prefabs.Watcher
	store     *tuningStore
	clipboard bool

	// facing is the horizontal flip of the drawn box, tweened between -1
	// and 1 on every turn.
	facing float32
	turn   *gween.Tween

	camX, camY float64

	paused bool
	ui     *ebitenui.UI

	status      string
	statusTimer int
	debug       bool
}

func NewGame(opts Options) (*Game, error) {
	level, err := levels.Load(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", opts.Level, err)
	}
	spec, err := prefabs.LoadCharacterSpec(opts.Spec)
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:   opts,
		level:  level,
		space:  physics.NewSpace(level),
		input:  system.NewInputSystem(),
		store:  openTuningStore(),
		facing: 1,
		debug:  opts.Debug,
	}
	if saved := g.store.Load(); saved != nil {
		log.Printf("tuning: using saved spec %q", saved.Name)
		spec = saved
	}
	g.spec = spec

	if err := g.spawn(); err != nil {
		return nil, err
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			log.Printf("prefabs: watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	g.ui = NewPauseUI(g)
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

// spawn places a fresh character at the level spawn. Jump and run state
// start over.
func (g *Game) spawn() error {
	if g.character != nil {
		g.space.RemoveCharacter(g.character)
	}
	x, y := g.level.Spawn()
	g.character = g.space.AddCharacter(x, y, g.spec.Collider.Width, g.spec.Collider.Height)

	mc, err := system.NewMovementController(&g.spec.Movement, g.character, g.character)
	if err != nil {
		return err
	}
	mc.OnTurn(g.startTurn)
	g.controller = mc
	g.facing = 1
	g.turn = nil
	return nil
}

func (g *Game) startTurn(facingRight bool) {
	target := float32(1)
	if !facingRight {
		target = -1
	}
	g.turn = gween.New(g.facing, target, turnDuration, ease.OutQuad)
}

// applySpec swaps in new tuning. A collider change needs a new body.
func (g *Game) applySpec(spec *prefabs.CharacterSpec) error {
	resize := spec.Collider != g.spec.Collider
	if err := g.controller.SetConfig(&spec.Movement); err != nil {
		return err
	}
	g.spec = spec
	if resize {
		return g.spawn()
	}
	return nil
}

func (g *Game) setStatus(format string, args ...any) {
	g.status = fmt.Sprintf(format, args...)
	g.statusTimer = statusTicks
	log.Print(g.status)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	g.drainReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.spawn(); err != nil {
			return err
		}
	}
	if g.statusTimer > 0 {
		g.statusTimer--
	}

	dt := 1 / float64(ebiten.TPS())
	in := g.input.Capture()
	if err := g.controller.Step(in, dt); err != nil {
		return err
	}
	g.space.Step(dt)

	if g.turn != nil {
		v, done := g.turn.Update(float32(dt))
		g.facing = v
		if done {
			g.turn = nil
		}
	}

	pos := g.character.Position()
	if pos.Y < -g.level.WorldHeight() {
		g.setStatus("fell out of the level, respawning")
		return g.spawn()
	}
	g.camX = follow(pos.X, baseWidth, g.level.WorldWidth())
	g.camY = follow(g.level.WorldHeight()-pos.Y, baseHeight, g.level.WorldHeight())
	return nil
}

func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case r := <-g.watcher.Reloads:
			if filepath.Base(r.Path) != filepath.Base(g.opts.Spec) {
				continue
			}
			if r.Err != nil {
				g.setStatus("reload %s: %v", r.Path, r.Err)
				continue
			}
			if err := g.applySpec(r.Spec); err != nil {
				g.setStatus("reload %s: %v", r.Path, err)
				continue
			}
			g.setStatus("reloaded %s", r.Path)
		case err := <-g.watcher.Errors:
			log.Printf("prefabs: watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) copySpec() {
	if !g.clipboard {
		g.setStatus("clipboard unavailable")
		return
	}
	data, err := prefabs.MarshalCharacterSpec(g.spec)
	if err != nil {
		g.setStatus("copy: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.setStatus("copied %s to the clipboard", g.spec.Name)
}

func (g *Game) saveSpec() {
	if err := g.store.Save(g.spec); err != nil {
		g.setStatus("save tuning: %v", err)
		return
	}
	g.setStatus("saved tuning for %s", g.spec.Name)
}

// resetSpec drops the saved tuning in favour of the spec file.
func (g *Game) resetSpec() {
	spec, err := prefabs.LoadCharacterSpec(g.opts.Spec)
	if err != nil {
		g.setStatus("reset: %v", err)
		return
	}
	if err := g.applySpec(spec); err != nil {
		g.setStatus("reset: %v", err)
		return
	}
	g.saveSpec()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, r := range g.space.Solids() {
		g.fillBox(screen, r.X, r.Y, r.W, r.H, colornames.Slategray)
	}

	bb := g.character.Bounds()
	cx := (bb.L + bb.R) / 2
	w := (bb.R - bb.L) * math.Max(0.2, math.Abs(float64(g.facing)))
	g.fillBox(screen, cx-w/2, bb.B, w, bb.T-bb.B, colornames.Crimson)
	eye := 4.0
	ex := cx + float64(g.facing)*(w/2-eye) - eye/2
	g.fillBox(screen, ex, bb.T-3*eye, eye, eye, colornames.White)

	if g.debug {
		g.drawProbes(screen)
		g.drawReadout(screen)
	}
	if g.statusTimer > 0 {
		ebitenutil.DebugPrintAt(screen, g.status, 8, baseHeight-20)
	}

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) drawProbes(screen *ebiten.Image) {
	cfg := g.controller.Config()
	contacts := g.controller.Contacts()

	ground := g.character.GroundBox(cfg.GroundDetectionRayLength)
	clr := color.RGBA{R: 255, G: 220, A: 120}
	if contacts.Grounded {
		clr = color.RGBA{G: 255, A: 160}
	}
	g.fillBox(screen, ground.L, ground.B, ground.R-ground.L, ground.T-ground.B, clr)

	if cfg.HeadDetectionRayLength > 0 {
		ceiling := g.character.CeilingBox(cfg.HeadDetectionRayLength)
		clr = color.RGBA{R: 255, G: 220, A: 120}
		if contacts.BumpedHead {
			clr = color.RGBA{R: 255, A: 160}
		}
		g.fillBox(screen, ceiling.L, ceiling.B, ceiling.R-ceiling.L, ceiling.T-ceiling.B, clr)
	}
}

func (g *Game) drawReadout(screen *ebiten.Image) {
	jump := g.controller.Jump()
	v := g.controller.Velocity()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.1f\nphase: %s  jumps: %d/%d\nvelocity: %.1f, %.1f\nfast fall: %v  apex: %v (%.3f)\nbuffer: %.3f  coyote: %.3f\n[esc] menu  [r] respawn  [f1] debug",
		ebiten.ActualFPS(),
		jump.Phase, jump.JumpsUsed, g.spec.Movement.NumberOfJumpsAllowed,
		v.X, v.Y,
		jump.FastFalling, jump.PastApexThreshold, jump.TimePastApexThreshold,
		math.Max(0, jump.JumpBufferTimer), math.Max(0, jump.CoyoteTimer),
	))
}

// fillBox draws a y-up world box.
func (g *Game) fillBox(screen *ebiten.Image, x, y, w, h float64, clr color.Color) {
	sx := x - g.camX
	sy := g.level.WorldHeight() - (y + h) - g.camY
	vector.FillRect(screen, float32(sx), float32(sy), float32(w), float32(h), clr, false)
}

// follow centers the view on center, clamped to the world. A world smaller
// than the view is centered instead.
func follow(center, view, world float64) float64 {
	if world <= view {
		return -(view - world) / 2
	}
	return math.Max(0, math.Min(center-view/2, world-view))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
