package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/tinyrender/internal/config"
	"github.com/taigrr/tinyrender/internal/scene"
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/models"
	"github.com/taigrr/tinyrender/pkg/render"
)

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis whose velocity settles to zero without
// overshoot.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState holds the model orientation.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		Roll:  NewRotationAxis(fps),
		fps:   fps,
	}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// Matrix returns the combined rotation.
func (r *RotationState) Matrix() math3d.Mat4 {
	return math3d.RotateX(r.Pitch.Position).
		Mul(math3d.RotateY(r.Yaw.Position)).
		Mul(math3d.RotateZ(r.Roll.Position))
}

// nextMode cycles shaded -> flat -> wire.
func nextMode(m config.Mode) config.Mode {
	switch m {
	case config.ModeShaded:
		return config.ModeFlat
	case config.ModeFlat:
		return config.ModeWire
	default:
		return config.ModeShaded
	}
}

// aspectCorrection keeps a unit cube square on a non-square framebuffer.
func aspectCorrection(w, h int) math3d.Mat4 {
	if w <= 0 || h <= 0 {
		return math3d.Identity()
	}
	side := float64(min(w, h))
	return math3d.Scale(math3d.V3(side/float64(w), side/float64(h), 1))
}

// viewer is the frame state shared between the event goroutine and the
// render loop.
type viewer struct {
	mu       sync.Mutex
	settings config.Settings
	rotation *RotationState
	torque   struct{ pitch, yaw, roll float64 }
	axes     bool

	termRenderer *render.TerminalRenderer
	fb           *render.Framebuffer
	rasterizer   *render.Rasterizer
}

func (v *viewer) resize(term *uv.Terminal, width, height int) {
	v.termRenderer = render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := v.termRenderer.FramebufferSize()
	v.fb = render.NewFramebuffer(fbWidth, fbHeight)
	v.rasterizer = render.NewRasterizer(v.fb)
	v.rasterizer.Strategy = v.settings.Strategy
}

func runViewer(ctx context.Context, modelPath string, settings config.Settings) error {
	mesh, err := scene.LoadMesh(modelPath)
	if err != nil {
		return err
	}
	// The viewer always centers the model; rotation happens around the origin.
	mesh = mesh.Transform(mesh.FitTransform())

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	v := &viewer{settings: settings, rotation: NewRotationState(*targetFPS)}
	v.resize(term, width, height)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go v.handleEvents(term, cancel)

	targetDuration := time.Second / time.Duration(max(*targetFPS, 1))
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		if err := v.frame(mesh, dt); err != nil {
			cleanup()
			return err
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// frame advances the rotation springs and draws one frame.
func (v *viewer) frame(mesh *models.Mesh, dt float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Key release events are unreliable, so held torque decays on its own.
	v.rotation.ApplyImpulse(v.torque.pitch*dt, v.torque.yaw*dt, v.torque.roll*dt)
	v.torque.pitch *= 0.9
	v.torque.yaw *= 0.9
	v.torque.roll *= 0.9
	v.rotation.Update()

	transform := aspectCorrection(v.fb.Width, v.fb.Height).Mul(v.rotation.Matrix())
	posed := mesh.Transform(transform)

	v.fb.Clear(v.settings.Background)
	v.rasterizer.ClearDepth()
	v.rasterizer.ResetStats()
	if v.axes {
		v.rasterizer.DrawAxes(render.ColorGray)
	}
	if err := scene.Draw(v.rasterizer, posed, v.settings); err != nil {
		return err
	}

	v.termRenderer.Render(v.fb)
	if err := v.termRenderer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func (v *viewer) handleEvents(term *uv.Terminal, cancel context.CancelFunc) {
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int

	for ev := range term.Events() {
		v.mu.Lock()
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			term.Erase()
			term.Resize(ev.Width, ev.Height)
			v.resize(term, ev.Width, ev.Height)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
				v.mu.Unlock()
				cancel()
				return
			case ev.MatchString("w", "up"):
				v.torque.pitch = -torqueStrength
			case ev.MatchString("s", "down"):
				v.torque.pitch = torqueStrength
			case ev.MatchString("a", "left"):
				v.torque.yaw = -torqueStrength
			case ev.MatchString("d", "right"):
				v.torque.yaw = torqueStrength
			case ev.MatchString("q"):
				v.torque.roll = -torqueStrength
			case ev.MatchString("e"):
				v.torque.roll = torqueStrength
			case ev.MatchString("space"):
				v.rotation.ApplyImpulse(
					(rand.Float64()-0.5)*1.5,
					(rand.Float64()-0.5)*1.5,
					(rand.Float64()-0.5)*1.5,
				)
			case ev.MatchString("r"):
				v.rotation.Reset()
			case ev.MatchString("x"):
				v.axes = !v.axes
			case ev.MatchString("m"):
				v.settings.Mode = nextMode(v.settings.Mode)
			case ev.MatchString("f"):
				if v.settings.Strategy == render.FillBarycentric {
					v.settings.Strategy = render.FillScanline
				} else {
					v.settings.Strategy = render.FillBarycentric
				}
				v.rasterizer.Strategy = v.settings.Strategy
			}

		case uv.MouseClickEvent:
			mouseDown = true
			lastMouseX, lastMouseY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			mouseDown = false

		case uv.MouseMotionEvent:
			if mouseDown {
				dx := ev.X - lastMouseX
				dy := ev.Y - lastMouseY
				v.rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
				lastMouseX, lastMouseY = ev.X, ev.Y
			}
		}
		v.mu.Unlock()
	}
}
