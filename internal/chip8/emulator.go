// Package chip8 implements a CHIP-8 virtual machine with a real-time
// scheduler and an asynchronous debug command interface.
package chip8

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// DefaultIPS is the default execution rate in instructions per second.
const DefaultIPS = 10

// commandQueueSize bounds the number of commands waiting for the scheduler.
const commandQueueSize = 64

// State describes the execution state of the machine.
type State uint8

// The emulator states.
const (
	StateRunning State = iota
	StatePaused
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateHalted:
		return "halted"
	default:
		return "invalid"
	}
}

var (
	// ErrStopped is returned by Send after the emulator has shut down.
	ErrStopped = errors.New("emulator stopped")

	// ErrQueueFull is returned by Send when the command queue is saturated.
	ErrQueueFull = errors.New("command queue full")
)

// Emulator schedules CPU execution in its own goroutine at a configurable
// rate and reacts to debug commands between instructions.
//
// All machine state is owned by the scheduler goroutine. Observers read
// immutable snapshots that the scheduler publishes at every tick boundary,
// so accessors never race with execution but may be one tick stale.
type Emulator struct {
	cmds chan Command
	done chan struct{}

	snapshot atomic.Pointer[Snapshot]

	logger *log.Logger

	// owned by the scheduler goroutine after Start
	ips         uint
	state       State
	cpu         *CPU
	mem         *Memory
	display     *Display
	breakpoints set.Set[uint16]
}

// New creates an emulator for the given program. The machine starts paused
// with the program counter at ProgramStart; an ips of 0 selects DefaultIPS.
func New(logger *log.Logger, program []byte, ips uint) *Emulator {
	if ips == 0 {
		ips = DefaultIPS
	}

	mem := NewMemory(program)
	display := &Display{}

	e := &Emulator{
		cmds: make(chan Command, commandQueueSize),
		done: make(chan struct{}),

		logger: logger,

		ips:         ips,
		state:       StatePaused,
		cpu:         NewCPU(mem, display),
		mem:         mem,
		display:     display,
		breakpoints: set.New[uint16](),
	}
	e.publish()
	return e
}

// Start launches the scheduler goroutine. The emulator owns all machine
// state from this point on; interact through the Controller.
func (e *Emulator) Start() {
	go e.run()
}

// Controller returns a handle for observing and steering the emulator.
// It is safe for use from any goroutine.
func (e *Emulator) Controller() *Controller {
	return &Controller{emu: e}
}

// run is the scheduler loop. Each iteration pauses on a breakpoint at the
// current program counter, consumes at most one command, executes one
// instruction if the machine is runnable and then waits out the pacing
// interval. While paused or halted the loop blocks until a command arrives.
func (e *Emulator) run() {
	defer close(e.done)
	defer e.publish()

	pace := time.NewTicker(e.interval())
	defer pace.Stop()

	for {
		if pc := e.cpu.PC(); e.breakpoints.Contains(pc) && e.state != StatePaused {
			e.state = StatePaused
			e.logger.Info("breakpoint hit", log.String("pc", hexAddr(pc)))
		}

		e.publish()

		var cmd Command
		if e.state == StateRunning {
			select {
			case cmd = <-e.cmds:
			default:
			}
		} else {
			cmd = <-e.cmds
		}

		if cmd != nil {
			switch cmd := cmd.(type) {
			case Stop:
				return

			case SetIPS:
				if cmd.IPS == 0 {
					e.logger.Warn("ignoring zero instruction rate")
					continue
				}
				e.ips = cmd.IPS
				pace.Reset(e.interval())
				continue

			default:
				if !e.handleDebugCommand(cmd) {
					continue
				}
			}
		}

		if e.cpu.Step() {
			e.logger.Info("cpu halted", log.String("pc", hexAddr(e.cpu.PC())))
			e.state = StateHalted
		}

		<-pace.C
	}
}

// handleDebugCommand applies cmd and reports whether the machine should
// execute an instruction this tick.
func (e *Emulator) handleDebugCommand(cmd Command) bool {
	switch cmd := cmd.(type) {
	case Step:
		return true

	case Pause:
		e.state = StatePaused
		return false

	case Continue:
		e.state = StateRunning
		return true

	case Breakpoint:
		e.toggleBreakpoint(cmd.Addr)
		return false

	case Reset:
		e.cpu.Reset()
		return false

	case SetPC:
		e.cpu.SetPC(cmd.Addr)
		return false

	default:
		return false
	}
}

// toggleBreakpoint sets the breakpoint at addr, or clears it if already set.
func (e *Emulator) toggleBreakpoint(addr uint16) {
	if e.breakpoints.Contains(addr) {
		e.breakpoints.Remove(addr)
		e.logger.Info("breakpoint removed", log.String("addr", hexAddr(addr)))
	} else {
		e.breakpoints.Add(addr)
		e.logger.Info("breakpoint set", log.String("addr", hexAddr(addr)))
	}
}

func (e *Emulator) interval() time.Duration {
	return time.Second / time.Duration(e.ips)
}

// publish makes the current machine state visible to observers.
func (e *Emulator) publish() {
	breakpoints := e.breakpoints.ToSlice()
	slices.Sort(breakpoints)

	e.snapshot.Store(&Snapshot{
		State:       e.state,
		IPS:         e.ips,
		Registers:   e.cpu.Registers(),
		PC:          e.cpu.PC(),
		SP:          e.cpu.SP(),
		I:           e.cpu.I(),
		DelayTimer:  e.cpu.DelayTimer(),
		SoundTimer:  e.cpu.SoundTimer(),
		Memory:      e.mem.Image(),
		Pixels:      e.display.Pixels(),
		Breakpoints: breakpoints,
	})
}

func hexAddr(addr uint16) string {
	return fmt.Sprintf("0x%04X", addr)
}

// Snapshot is an immutable copy of the full machine state at one tick
// boundary. Fields must not be mutated by observers.
type Snapshot struct {
	State State
	IPS   uint

	Registers  [NumRegisters]uint8
	PC         uint16
	SP         uint16
	I          uint16
	DelayTimer uint8
	SoundTimer uint8

	Memory [MemSize]byte
	Pixels [DisplayWidth * DisplayHeight]bool

	Breakpoints []uint16
}

// Pixel reports whether the framebuffer pixel at (x, y) is set.
func (s *Snapshot) Pixel(x, y int) bool {
	return s.Pixels[y*DisplayWidth+x]
}

// Controller is a goroutine-safe handle to a running emulator.
type Controller struct {
	emu *Emulator
}

// Send queues cmd for the scheduler without blocking. It returns ErrStopped
// after the emulator has shut down and ErrQueueFull when the queue is
// saturated.
func (c *Controller) Send(cmd Command) error {
	select {
	case <-c.emu.done:
		return ErrStopped
	default:
	}

	select {
	case c.emu.cmds <- cmd:
		return nil
	case <-c.emu.done:
		return ErrStopped
	default:
		return ErrQueueFull
	}
}

// Snapshot returns the most recently published machine state.
func (c *Controller) Snapshot() *Snapshot {
	return c.emu.snapshot.Load()
}

// State returns the execution state from the latest snapshot.
func (c *Controller) State() State {
	return c.Snapshot().State
}

// IPS returns the execution rate from the latest snapshot.
func (c *Controller) IPS() uint {
	return c.Snapshot().IPS
}

// Done returns a channel that is closed when the scheduler has exited.
func (c *Controller) Done() <-chan struct{} {
	return c.emu.done
}
