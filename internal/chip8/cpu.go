package chip8

// CPU executes decoded instructions against the register file, memory and
// display of the machine.
type CPU struct {
	regs [NumRegisters]uint8

	delayTimer uint8
	soundTimer uint8

	pc uint16
	sp uint16
	i  uint16

	mem     *Memory
	display *Display
}

// NewCPU returns a CPU in the power-on state, with the program counter at
// ProgramStart and the stack pointer at StackStart.
func NewCPU(mem *Memory, display *Display) *CPU {
	return &CPU{
		pc: ProgramStart,
		sp: StackStart,

		mem:     mem,
		display: display,
	}
}

// Reset returns the machine to its boot state: program counter at
// ProgramStart, stack pointer at StackStart, display cleared. Registers,
// the index register and the timers keep their values.
func (c *CPU) Reset() {
	c.pc = ProgramStart
	c.sp = StackStart
	c.display.Clear()
}

// Step fetches, decodes and executes the instruction at the program counter
// and reports whether the machine halted. The machine halts only on a jump
// to its own address, the conventional program-end idiom.
func (c *CPU) Step() bool {
	ins := Decode(c.mem.ReadWord(c.pc))

	pc, halted := c.execute(ins)
	c.pc = pc
	return halted
}

// execute runs a single instruction and returns the next program counter
// value together with the halt flag.
//
// Control flow instructions produce their target directly; a skip whose
// condition holds produces pc+4; everything else falls through to pc+2.
// Keypad and random instructions decode but execute as no-ops, as does
// Unknown.
func (c *CPU) execute(ins Instruction) (uint16, bool) {
	switch ins := ins.(type) {
	case Cls:
		c.display.Clear()

	case Ret:
		// the pushed address pointed at the Call, resume past it
		return c.popStack() + 2, false

	case Jmp:
		if ins.Addr == c.pc {
			return c.pc, true
		}
		return ins.Addr, false

	case Call:
		c.pushStack(c.pc)
		return ins.Addr, false

	case SkipEqImm:
		if c.regs[ins.Reg] == ins.Byte {
			return c.pc + 4, false
		}

	case SkipNEqImm:
		if c.regs[ins.Reg] != ins.Byte {
			return c.pc + 4, false
		}

	case SkipEqReg:
		if c.regs[ins.RegX] == c.regs[ins.RegY] {
			return c.pc + 4, false
		}

	case LdImm:
		c.regs[ins.Reg] = ins.Byte

	case AddImm:
		c.regs[ins.Reg] += ins.Byte

	case LdReg:
		c.regs[ins.RegX] = c.regs[ins.RegY]

	case Or:
		c.regs[ins.RegX] |= c.regs[ins.RegY]

	case And:
		c.regs[ins.RegX] &= c.regs[ins.RegY]

	case Xor:
		c.regs[ins.RegX] ^= c.regs[ins.RegY]

	case AddReg:
		sum := uint16(c.regs[ins.RegX]) + uint16(c.regs[ins.RegY])
		c.regs[ins.RegX] = uint8(sum)
		c.regs[VF] = uint8(sum >> 8)

	case SubReg:
		c.setFlag(c.regs[ins.RegX] > c.regs[ins.RegY])
		c.regs[ins.RegX] -= c.regs[ins.RegY]

	case Shr:
		c.regs[VF] = c.regs[ins.RegY] & 0x01
		c.regs[ins.RegX] = c.regs[ins.RegY] >> 1

	case SubN:
		c.setFlag(c.regs[ins.RegY] > c.regs[ins.RegX])
		c.regs[ins.RegX] = c.regs[ins.RegY] - c.regs[ins.RegX]

	case Shl:
		c.regs[VF] = c.regs[ins.RegY] & 0x80
		c.regs[ins.RegX] = c.regs[ins.RegY] << 1

	case SkipNEqReg:
		if c.regs[ins.RegX] != c.regs[ins.RegY] {
			return c.pc + 4, false
		}

	case LdI:
		c.i = ins.Addr

	case JmpReg:
		return ins.Addr + uint16(c.regs[V0]), false

	case Drw:
		sprite := c.mem.Read(c.i, uint16(ins.Len))
		collision := c.display.DrawSprite(c.regs[ins.RegX], c.regs[ins.RegY], sprite)
		c.setFlag(collision)

	case LdDelayTimer:
		c.regs[ins.Reg] = c.delayTimer

	case SetDelayTimer:
		c.delayTimer = c.regs[ins.Reg]

	case SetSoundTimer:
		c.soundTimer = c.regs[ins.Reg]

	case AddI:
		c.i += uint16(c.regs[ins.Reg])

	case LdFont:
		c.i = FontAddr + uint16(c.regs[ins.Reg])*5

	case Bcd:
		val := c.regs[ins.Reg]
		c.mem.WriteByte(c.i, val/100)
		c.mem.WriteByte(c.i+1, val/10%10)
		c.mem.WriteByte(c.i+2, val%10)

	case StoreRegs:
		for reg := uint16(0); reg <= uint16(ins.Reg); reg++ {
			c.mem.WriteByte(c.i+reg, c.regs[reg])
		}

	case LoadRegs:
		for reg := uint16(0); reg <= uint16(ins.Reg); reg++ {
			c.regs[reg] = c.mem.ReadByte(c.i + reg)
		}
	}

	return c.pc + 2, false
}

func (c *CPU) setFlag(cond bool) {
	if cond {
		c.regs[VF] = 1
	} else {
		c.regs[VF] = 0
	}
}

// pushStack writes addr at the stack pointer and moves it down one frame.
func (c *CPU) pushStack(addr uint16) {
	c.mem.WriteWord(c.sp, addr)
	if c.sp >= 2 {
		c.sp -= 2
	} else {
		c.sp = 0
	}
}

// popStack moves the stack pointer up one frame and reads the address there.
func (c *CPU) popStack() uint16 {
	c.sp += 2
	return c.mem.ReadWord(c.sp)
}

// Register returns the value of general purpose register r.
func (c *CPU) Register(r Register) uint8 {
	return c.regs[r]
}

// Registers returns a copy of the register file.
func (c *CPU) Registers() [NumRegisters]uint8 {
	return c.regs
}

// PC returns the program counter.
func (c *CPU) PC() uint16 {
	return c.pc
}

// SP returns the stack pointer.
func (c *CPU) SP() uint16 {
	return c.sp
}

// I returns the index register.
func (c *CPU) I() uint16 {
	return c.i
}

// DelayTimer returns the delay timer register.
func (c *CPU) DelayTimer() uint8 {
	return c.delayTimer
}

// SoundTimer returns the sound timer register.
func (c *CPU) SoundTimer() uint8 {
	return c.soundTimer
}

// SetPC sets the program counter.
func (c *CPU) SetPC(addr uint16) {
	c.pc = addr
}
