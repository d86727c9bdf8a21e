// Package gui implements the graphical front end rendering the framebuffer.
package gui

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/c8go/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// scale is the window size multiplier for the 64x32 framebuffer.
const scale = 10

// Game drives the window loop and translates key presses into emulator
// commands:
//
//	Space       pause or continue
//	N           step one instruction
//	R           reset the machine
//	, and .     lower and raise the execution rate
//	Escape      stop the emulator and quit
type Game struct {
	logger *log.Logger
	ctrl   *chip8.Controller

	frame *ebiten.Image
	pix   []byte
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
// The emulator is stopped on exit.
func Run(ctx context.Context, logger *log.Logger, ctrl *chip8.Controller) error {
	g := &Game{
		logger: logger,
		ctrl:   ctrl,

		frame: ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight),
		pix:   make([]byte, chip8.DisplayWidth*chip8.DisplayHeight*4),
	}

	ebiten.SetWindowTitle("c8go")
	ebiten.SetWindowSize(chip8.DisplayWidth*scale, chip8.DisplayHeight*scale)

	err := ebiten.RunGame(&ctxGame{Game: g, ctx: ctx})

	if sendErr := ctrl.Send(chip8.Stop{}); sendErr != nil && !errors.Is(sendErr, chip8.ErrStopped) {
		logger.Debug("stopping emulator", log.Err(sendErr))
	}
	if err != nil {
		return fmt.Errorf("running window loop: %w", err)
	}
	return nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	s := g.ctrl.Snapshot()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination

	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if s.State == chip8.StateRunning {
			g.send(chip8.Pause{})
		} else {
			g.send(chip8.Continue{})
		}

	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.send(chip8.Step{})

	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.send(chip8.Reset{})

	case inpututil.IsKeyJustPressed(ebiten.KeyComma):
		g.send(chip8.SetIPS{IPS: lowerIPS(s.IPS)})

	case inpututil.IsKeyJustPressed(ebiten.KeyPeriod):
		g.send(chip8.SetIPS{IPS: raiseIPS(s.IPS)})
	}

	ebiten.SetWindowTitle(fmt.Sprintf("c8go - %s - %d ips", s.State, s.IPS))
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.ctrl.Snapshot()

	for i, set := range s.Pixels {
		v := byte(0)
		if set {
			v = 0xFF
		}
		g.pix[i*4] = v
		g.pix[i*4+1] = v
		g.pix[i*4+2] = v
		g.pix[i*4+3] = 0xFF
	}

	g.frame.WritePixels(g.pix)
	screen.DrawImage(g.frame, nil)
}

// Layout implements ebiten.Game. The window scales the logical framebuffer
// resolution up on its own.
func (g *Game) Layout(_, _ int) (int, int) {
	return chip8.DisplayWidth, chip8.DisplayHeight
}

func (g *Game) send(cmd chip8.Command) {
	if err := g.ctrl.Send(cmd); err != nil {
		g.logger.Debug("sending command", log.Err(err))
	}
}

func lowerIPS(ips uint) uint {
	return max(ips/2, 1)
}

func raiseIPS(ips uint) uint {
	return ips * 2
}

// ctxGame ends the window loop when the context is cancelled.
type ctxGame struct {
	*Game
	ctx context.Context
}

func (c *ctxGame) Update() error {
	select {
	case <-c.ctx.Done():
		return ebiten.Termination
	default:
		return c.Game.Update()
	}
}
