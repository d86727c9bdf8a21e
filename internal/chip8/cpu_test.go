package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func newTestCPU(program ...byte) *CPU {
	return NewCPU(NewMemory(program), &Display{})
}

func TestStepArithmetic(t *testing.T) {
	c := newTestCPU(
		0x60, 0x05, // LD V0, 0x05
		0x61, 0x03, // LD V1, 0x03
		0x80, 0x14, // ADD V0, V1
	)

	for range 3 {
		assert.False(t, c.Step())
	}

	assert.Equal(t, uint8(8), c.Register(V0))
	assert.Equal(t, uint8(0), c.Register(VF))
	assert.Equal(t, uint16(0x206), c.PC())
}

func TestStepHaltsOnSelfJump(t *testing.T) {
	c := newTestCPU(0x12, 0x00) // JMP 0x200

	assert.True(t, c.Step())
	assert.Equal(t, uint16(0x200), c.PC())

	// stays halted on repeated steps
	assert.True(t, c.Step())
	assert.Equal(t, uint16(0x200), c.PC())
}

func TestStepJump(t *testing.T) {
	c := newTestCPU(0x13, 0x00) // JMP 0x300

	assert.False(t, c.Step())
	assert.Equal(t, uint16(0x300), c.PC())
}

func TestStepCallRet(t *testing.T) {
	c := newTestCPU(
		0x22, 0x04, // 0x200: CALL 0x204
		0x00, 0x00, // 0x202: unused
		0x00, 0xEE, // 0x204: RET
	)

	assert.False(t, c.Step())
	assert.Equal(t, uint16(0x204), c.PC())
	assert.Equal(t, uint16(StackStart-2), c.SP())
	assert.Equal(t, uint16(0x200), c.mem.ReadWord(StackStart))

	// return resumes past the call site
	assert.False(t, c.Step())
	assert.Equal(t, uint16(0x202), c.PC())
	assert.Equal(t, uint16(StackStart), c.SP())
}

func TestStepSkips(t *testing.T) {
	tests := []struct {
		name     string
		program  []byte
		setup    func(c *CPU)
		expected uint16
	}{
		{"se imm taken", []byte{0x30, 0x05}, func(c *CPU) { c.regs[V0] = 5 }, 0x204},
		{"se imm not taken", []byte{0x30, 0x05}, func(c *CPU) { c.regs[V0] = 4 }, 0x202},
		{"sne imm taken", []byte{0x40, 0x05}, func(c *CPU) { c.regs[V0] = 4 }, 0x204},
		{"sne imm not taken", []byte{0x40, 0x05}, func(c *CPU) { c.regs[V0] = 5 }, 0x202},
		{"se reg taken", []byte{0x50, 0x10}, func(c *CPU) { c.regs[V0], c.regs[V1] = 7, 7 }, 0x204},
		{"se reg not taken", []byte{0x50, 0x10}, func(c *CPU) { c.regs[V0], c.regs[V1] = 7, 8 }, 0x202},
		{"sne reg taken", []byte{0x90, 0x10}, func(c *CPU) { c.regs[V0], c.regs[V1] = 7, 8 }, 0x204},
		{"sne reg not taken", []byte{0x90, 0x10}, func(c *CPU) { c.regs[V0], c.regs[V1] = 7, 7 }, 0x202},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCPU(tt.program...)
			tt.setup(c)

			assert.False(t, c.Step())
			assert.Equal(t, tt.expected, c.PC())
		})
	}
}

func TestStepRegisterOps(t *testing.T) {
	tests := []struct {
		name         string
		opcode       uint16
		vx, vy       uint8
		expectedVx   uint8
		expectedFlag uint8
	}{
		{"ld", 0x8010, 0x12, 0x34, 0x34, 0},
		{"or", 0x8011, 0xF0, 0x0F, 0xFF, 0},
		{"and", 0x8012, 0xF0, 0x3C, 0x30, 0},
		{"xor", 0x8013, 0xFF, 0x0F, 0xF0, 0},
		{"add no carry", 0x8014, 0x05, 0x03, 0x08, 0},
		{"add carry", 0x8014, 0xFF, 0x02, 0x01, 1},
		{"sub no borrow", 0x8015, 0x07, 0x03, 0x04, 1},
		{"sub borrow", 0x8015, 0x03, 0x07, 0xFC, 0},
		{"sub equal", 0x8015, 0x07, 0x07, 0x00, 0},
		{"shr", 0x8016, 0x00, 0x05, 0x02, 1},
		{"shr even", 0x8016, 0x00, 0x04, 0x02, 0},
		{"subn no borrow", 0x8017, 0x03, 0x07, 0x04, 1},
		{"subn borrow", 0x8017, 0x07, 0x03, 0xFC, 0},
		{"shl", 0x801E, 0x00, 0x81, 0x02, 0x80},
		{"shl no carry", 0x801E, 0x00, 0x41, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCPU(byte(tt.opcode>>8), byte(tt.opcode))
			c.regs[V0] = tt.vx
			c.regs[V1] = tt.vy

			assert.False(t, c.Step())
			assert.Equal(t, tt.expectedVx, c.Register(V0))
			assert.Equal(t, tt.expectedFlag, c.Register(VF))
			assert.Equal(t, uint16(0x202), c.PC())
		})
	}
}

func TestStepAddImmWraps(t *testing.T) {
	c := newTestCPU(0x70, 0x02) // ADD V0, 0x02
	c.regs[V0] = 0xFF
	c.regs[VF] = 0x55

	assert.False(t, c.Step())

	assert.Equal(t, uint8(0x01), c.Register(V0))
	// the flag register is untouched by the immediate add
	assert.Equal(t, uint8(0x55), c.Register(VF))
}

func TestStepJumpOffset(t *testing.T) {
	c := newTestCPU(0xB2, 0x00) // JMP V0, 0x200
	c.regs[V0] = 0x10

	assert.False(t, c.Step())
	assert.Equal(t, uint16(0x210), c.PC())
}

func TestStepIndexOps(t *testing.T) {
	c := newTestCPU(
		0xA3, 0x00, // LD I, 0x300
		0x60, 0x05, // LD V0, 0x05
		0xF0, 0x1E, // ADD I, V0
		0xF0, 0x29, // LD F, V0
	)

	assert.False(t, c.Step())
	assert.Equal(t, uint16(0x300), c.I())

	assert.False(t, c.Step())
	assert.False(t, c.Step())
	assert.Equal(t, uint16(0x305), c.I())

	assert.False(t, c.Step())
	assert.Equal(t, uint16(FontAddr+5*5), c.I())
}

func TestStepBcd(t *testing.T) {
	c := newTestCPU(0xF0, 0x33) // BCD V0
	c.regs[V0] = 234
	c.i = 0x300

	assert.False(t, c.Step())

	assert.Equal(t, byte(2), c.mem.ReadByte(0x300))
	assert.Equal(t, byte(3), c.mem.ReadByte(0x301))
	assert.Equal(t, byte(4), c.mem.ReadByte(0x302))
}

func TestStepStoreLoadRegs(t *testing.T) {
	c := newTestCPU(0xF2, 0x55) // LD [I], V2
	c.regs[V0] = 0x11
	c.regs[V1] = 0x22
	c.regs[V2] = 0x33
	c.regs[V3] = 0x44
	c.i = 0x300

	assert.False(t, c.Step())

	assert.Equal(t, byte(0x11), c.mem.ReadByte(0x300))
	assert.Equal(t, byte(0x22), c.mem.ReadByte(0x301))
	assert.Equal(t, byte(0x33), c.mem.ReadByte(0x302))
	// V3 is past the inclusive range
	assert.Equal(t, byte(0x00), c.mem.ReadByte(0x303))

	c = newTestCPU(0xF1, 0x65) // LD V1, [I]
	c.i = 0x300
	c.mem.WriteByte(0x300, 0xAA)
	c.mem.WriteByte(0x301, 0xBB)
	c.mem.WriteByte(0x302, 0xCC)

	assert.False(t, c.Step())

	assert.Equal(t, uint8(0xAA), c.Register(V0))
	assert.Equal(t, uint8(0xBB), c.Register(V1))
	assert.Equal(t, uint8(0x00), c.Register(V2))
}

func TestStepDraw(t *testing.T) {
	c := newTestCPU(
		0xD0, 0x11, // DRW V0, V1, 0x01
		0xD0, 0x11, // DRW V0, V1, 0x01
	)
	c.i = FontAddr // glyph 0 top row, 0xF0
	c.regs[V0] = 4
	c.regs[V1] = 2

	assert.False(t, c.Step())
	assert.Equal(t, uint8(0), c.Register(VF))
	assert.True(t, c.display.Pixel(4, 2))
	assert.True(t, c.display.Pixel(7, 2))
	assert.False(t, c.display.Pixel(8, 2))

	assert.False(t, c.Step())
	assert.Equal(t, uint8(1), c.Register(VF))
	assert.False(t, c.display.Pixel(4, 2))
}

func TestStepTimers(t *testing.T) {
	c := newTestCPU(
		0x60, 0x2A, // LD V0, 0x2A
		0xF0, 0x15, // LD DT, V0
		0xF0, 0x18, // LD ST, V0
		0xF1, 0x07, // LD V1, DT
	)

	for range 4 {
		assert.False(t, c.Step())
	}

	assert.Equal(t, uint8(0x2A), c.DelayTimer())
	assert.Equal(t, uint8(0x2A), c.SoundTimer())
	assert.Equal(t, uint8(0x2A), c.Register(V1))
}

func TestStepInertInstructions(t *testing.T) {
	// keypad and random instructions decode but execute as no-ops
	for _, program := range [][]byte{
		{0xC0, 0xFF}, // RND V0, 0xFF
		{0xE0, 0x9E}, // SKP V0
		{0xE0, 0xA1}, // SKNP V0
		{0xF0, 0x0A}, // LD V0, K
		{0x00, 0x00}, // unknown
	} {
		c := newTestCPU(program...)

		assert.False(t, c.Step())
		assert.Equal(t, uint16(0x202), c.PC())
		assert.Equal(t, uint8(0), c.Register(V0))
	}
}

func TestReset(t *testing.T) {
	c := newTestCPU(
		0x60, 0x07, // LD V0, 0x07
		0xA3, 0x00, // LD I, 0x300
		0x22, 0x08, // CALL 0x208
	)
	for range 3 {
		c.Step()
	}
	c.display.DrawSprite(0, 0, []byte{0xFF})

	c.Reset()

	assert.Equal(t, uint16(ProgramStart), c.PC())
	assert.Equal(t, uint16(StackStart), c.SP())
	assert.False(t, c.display.Pixel(0, 0))

	// registers and the index register survive a reset
	assert.Equal(t, uint8(0x07), c.Register(V0))
	assert.Equal(t, uint16(0x300), c.I())
}
