package chip8

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// testIPS keeps scheduler ticks short so tests finish quickly.
const testIPS = 500

func startTestEmulator(t *testing.T, program ...byte) *Controller {
	t.Helper()

	emu := New(log.NewTestLogger(t), program, testIPS)
	ctrl := emu.Controller()

	emu.Start()
	t.Cleanup(func() {
		_ = ctrl.Send(Stop{})
		<-ctrl.Done()
	})

	return ctrl
}

func waitFor(t *testing.T, cond func(s *Snapshot) bool, ctrl *Controller) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond(ctrl.Snapshot()) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timeout waiting for emulator state")
}

func TestEmulatorStartsPaused(t *testing.T) {
	emu := New(log.NewTestLogger(t), []byte{0x60, 0x05}, 0)
	s := emu.Controller().Snapshot()

	assert.Equal(t, StatePaused, s.State)
	assert.Equal(t, uint(DefaultIPS), s.IPS)
	assert.Equal(t, uint16(ProgramStart), s.PC)
	assert.Equal(t, uint16(StackStart), s.SP)
	assert.Empty(t, s.Breakpoints)
}

func TestEmulatorStep(t *testing.T) {
	ctrl := startTestEmulator(t,
		0x60, 0x05, // LD V0, 0x05
		0x61, 0x03, // LD V1, 0x03
	)

	assert.NoError(t, ctrl.Send(Step{}))
	waitFor(t, func(s *Snapshot) bool { return s.PC == 0x202 }, ctrl)

	s := ctrl.Snapshot()
	assert.Equal(t, StatePaused, s.State)
	assert.Equal(t, uint8(0x05), s.Registers[V0])

	assert.NoError(t, ctrl.Send(Step{}))
	waitFor(t, func(s *Snapshot) bool { return s.PC == 0x204 }, ctrl)
	assert.Equal(t, uint8(0x03), ctrl.Snapshot().Registers[V1])
}

func TestEmulatorRunUntilHalt(t *testing.T) {
	ctrl := startTestEmulator(t,
		0x60, 0x05, // LD V0, 0x05
		0x12, 0x02, // JMP 0x202, jump to self halts
	)

	assert.NoError(t, ctrl.Send(Continue{}))
	waitFor(t, func(s *Snapshot) bool { return s.State == StateHalted }, ctrl)

	s := ctrl.Snapshot()
	assert.Equal(t, uint16(0x202), s.PC)
	assert.Equal(t, uint8(0x05), s.Registers[V0])
}

func TestEmulatorRunsArithmeticProgram(t *testing.T) {
	ctrl := startTestEmulator(t,
		0x60, 0x05, // LD V0, 0x05
		0x61, 0x03, // LD V1, 0x03
		0x80, 0x14, // ADD V0, V1
	)

	for range 3 {
		assert.NoError(t, ctrl.Send(Step{}))
	}
	waitFor(t, func(s *Snapshot) bool { return s.PC == 0x206 }, ctrl)

	s := ctrl.Snapshot()
	assert.Equal(t, uint8(8), s.Registers[V0])
	assert.Equal(t, uint8(0), s.Registers[VF])
	assert.Equal(t, StatePaused, s.State)
}

func TestEmulatorBreakpoint(t *testing.T) {
	ctrl := startTestEmulator(t,
		0x60, 0x01, // 0x200: LD V0, 0x01
		0x12, 0x00, // 0x202: JMP 0x200
	)

	assert.NoError(t, ctrl.Send(Breakpoint{Addr: 0x202}))
	waitFor(t, func(s *Snapshot) bool { return len(s.Breakpoints) == 1 }, ctrl)
	assert.Equal(t, []uint16{0x202}, ctrl.Snapshot().Breakpoints)

	assert.NoError(t, ctrl.Send(Continue{}))
	waitFor(t, func(s *Snapshot) bool {
		return s.State == StatePaused && s.PC == 0x202
	}, ctrl)

	// sending the same address again clears the breakpoint
	assert.NoError(t, ctrl.Send(Breakpoint{Addr: 0x202}))
	waitFor(t, func(s *Snapshot) bool { return len(s.Breakpoints) == 0 }, ctrl)

	// and a third toggle restores it
	assert.NoError(t, ctrl.Send(Breakpoint{Addr: 0x202}))
	waitFor(t, func(s *Snapshot) bool { return len(s.Breakpoints) == 1 }, ctrl)
	assert.Equal(t, []uint16{0x202}, ctrl.Snapshot().Breakpoints)
}

func TestEmulatorPause(t *testing.T) {
	ctrl := startTestEmulator(t,
		0x60, 0x01, // 0x200: LD V0, 0x01
		0x12, 0x00, // 0x202: JMP 0x200
	)

	assert.NoError(t, ctrl.Send(Continue{}))
	waitFor(t, func(s *Snapshot) bool { return s.State == StateRunning }, ctrl)

	assert.NoError(t, ctrl.Send(Pause{}))
	waitFor(t, func(s *Snapshot) bool { return s.State == StatePaused }, ctrl)
}

func TestEmulatorSetPCAndReset(t *testing.T) {
	ctrl := startTestEmulator(t,
		0x60, 0x2A, // LD V0, 0x2A
	)

	assert.NoError(t, ctrl.Send(Step{}))
	waitFor(t, func(s *Snapshot) bool { return s.PC == 0x202 }, ctrl)

	assert.NoError(t, ctrl.Send(SetPC{Addr: 0x280}))
	waitFor(t, func(s *Snapshot) bool { return s.PC == 0x280 }, ctrl)

	assert.NoError(t, ctrl.Send(Reset{}))
	waitFor(t, func(s *Snapshot) bool { return s.PC == ProgramStart }, ctrl)

	// registers survive the reset
	assert.Equal(t, uint8(0x2A), ctrl.Snapshot().Registers[V0])
}

func TestEmulatorSetIPS(t *testing.T) {
	ctrl := startTestEmulator(t, 0x60, 0x01)

	assert.NoError(t, ctrl.Send(SetIPS{IPS: 700}))
	waitFor(t, func(s *Snapshot) bool { return s.IPS == 700 }, ctrl)
}

func TestEmulatorStop(t *testing.T) {
	emu := New(log.NewTestLogger(t), []byte{0x60, 0x01}, testIPS)
	ctrl := emu.Controller()
	emu.Start()

	assert.NoError(t, ctrl.Send(Stop{}))
	<-ctrl.Done()

	assert.Error(t, ctrl.Send(Step{}))
	assert.ErrorIs(t, ctrl.Send(Step{}), ErrStopped)
}

func TestControllerQueueFull(t *testing.T) {
	// never started, so nothing drains the queue
	emu := New(log.NewTestLogger(t), []byte{0x60, 0x01}, testIPS)
	ctrl := emu.Controller()

	for range commandQueueSize {
		assert.NoError(t, ctrl.Send(Step{}))
	}
	assert.Equal(t, ErrQueueFull, ctrl.Send(Step{}))
}
