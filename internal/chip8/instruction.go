package chip8

import "fmt"

// Register identifies one of the 16 general purpose registers V0-VF.
//
// VF doubles as the flag register: arithmetic, shift and draw instructions
// overwrite it to report carry, borrow or collision.
type Register uint8

// The 16 register names.
const (
	V0 Register = iota
	V1
	V2
	V3
	V4
	V5
	V6
	V7
	V8
	V9
	VA
	VB
	VC
	VD
	VE
	VF
)

// NumRegisters is the size of the register file.
const NumRegisters = 16

func (r Register) String() string {
	return fmt.Sprintf("V%X", uint8(r))
}

// Instruction is the closed set of decodable CHIP-8 instructions.
// Opcodes that match no documented encoding decode to Unknown.
type Instruction interface {
	fmt.Stringer

	// instruction restricts implementations to this package.
	instruction()
}

// Cls - 00E0 - clear the screen.
type Cls struct{}

// Ret - 00EE - return from subroutine.
type Ret struct{}

// Jmp - 1nnn - jump to addr. A jump to its own address halts the machine,
// the conventional program-end idiom.
type Jmp struct{ Addr uint16 }

// Call - 2nnn - call subroutine at addr.
type Call struct{ Addr uint16 }

// SkipEqImm - 3xkk - skip next instruction if Vx == kk.
type SkipEqImm struct {
	Reg  Register
	Byte uint8
}

// SkipNEqImm - 4xkk - skip next instruction if Vx != kk.
type SkipNEqImm struct {
	Reg  Register
	Byte uint8
}

// SkipEqReg - 5xy0 - skip next instruction if Vx == Vy.
type SkipEqReg struct{ RegX, RegY Register }

// LdImm - 6xkk - load byte kk into Vx.
type LdImm struct {
	Reg  Register
	Byte uint8
}

// AddImm - 7xkk - add byte kk to Vx without touching the flag register.
type AddImm struct {
	Reg  Register
	Byte uint8
}

// LdReg - 8xy0 - copy Vy into Vx.
type LdReg struct{ RegX, RegY Register }

// Or - 8xy1 - Vx |= Vy.
type Or struct{ RegX, RegY Register }

// And - 8xy2 - Vx &= Vy.
type And struct{ RegX, RegY Register }

// Xor - 8xy3 - Vx ^= Vy.
type Xor struct{ RegX, RegY Register }

// AddReg - 8xy4 - Vx += Vy, VF = 1 on unsigned overflow.
type AddReg struct{ RegX, RegY Register }

// SubReg - 8xy5 - Vx -= Vy, VF = 1 iff Vx > Vy before the subtraction.
type SubReg struct{ RegX, RegY Register }

// Shr - 8xy6 - Vx = Vy >> 1, VF = least significant bit of Vy before the
// shift. The second operand is the shift source, not Vx.
type Shr struct{ RegX, RegY Register }

// SubN - 8xy7 - Vx = Vy - Vx, VF = 1 iff Vy > Vx.
type SubN struct{ RegX, RegY Register }

// Shl - 8xyE - Vx = Vy << 1, VF = high bit of Vy before the shift.
type Shl struct{ RegX, RegY Register }

// SkipNEqReg - 9xy0 - skip next instruction if Vx != Vy.
type SkipNEqReg struct{ RegX, RegY Register }

// LdI - Annn - load addr into the index register I.
type LdI struct{ Addr uint16 }

// JmpReg - Bnnn - jump to addr + V0.
type JmpReg struct{ Addr uint16 }

// Rnd - Cxkk - Vx = random byte & kk. Executes as a no-op in this core.
type Rnd struct {
	Reg  Register
	Byte uint8
}

// Drw - Dxyn - draw the n-byte sprite at memory location I at (Vx, Vy),
// VF = 1 on collision.
type Drw struct {
	RegX, RegY Register
	Len        uint8
}

// SkipPressed - Ex9E - skip if key Vx is pressed. Executes as a no-op.
type SkipPressed struct{ Reg Register }

// SkipNotPressed - ExA1 - skip if key Vx is not pressed. Executes as a no-op.
type SkipNotPressed struct{ Reg Register }

// LdDelayTimer - Fx07 - load the delay timer value into Vx.
type LdDelayTimer struct{ Reg Register }

// LdKey - Fx0A - wait for a key press and store it in Vx. Executes as a no-op.
type LdKey struct{ Reg Register }

// SetDelayTimer - Fx15 - set the delay timer to Vx.
type SetDelayTimer struct{ Reg Register }

// SetSoundTimer - Fx18 - set the sound timer to Vx.
type SetSoundTimer struct{ Reg Register }

// AddI - Fx1E - add Vx to I with wraparound.
type AddI struct{ Reg Register }

// LdFont - Fx29 - point I at the font glyph for the hex digit in Vx.
type LdFont struct{ Reg Register }

// Bcd - Fx33 - write the decimal digits of Vx to I, I+1 and I+2.
type Bcd struct{ Reg Register }

// StoreRegs - Fx55 - store V0 through Vx inclusive to memory starting at I.
type StoreRegs struct{ Reg Register }

// LoadRegs - Fx65 - load V0 through Vx inclusive from memory starting at I.
type LoadRegs struct{ Reg Register }

// Unknown is the catch-all for bit patterns matching no documented encoding.
// It executes as a no-op so malformed ROMs keep making forward progress.
type Unknown struct{ Opcode uint16 }

func (Cls) instruction()            {}
func (Ret) instruction()            {}
func (Jmp) instruction()            {}
func (Call) instruction()           {}
func (SkipEqImm) instruction()      {}
func (SkipNEqImm) instruction()     {}
func (SkipEqReg) instruction()      {}
func (LdImm) instruction()          {}
func (AddImm) instruction()         {}
func (LdReg) instruction()          {}
func (Or) instruction()             {}
func (And) instruction()            {}
func (Xor) instruction()            {}
func (AddReg) instruction()         {}
func (SubReg) instruction()         {}
func (Shr) instruction()            {}
func (SubN) instruction()           {}
func (Shl) instruction()            {}
func (SkipNEqReg) instruction()     {}
func (LdI) instruction()            {}
func (JmpReg) instruction()         {}
func (Rnd) instruction()            {}
func (Drw) instruction()            {}
func (SkipPressed) instruction()    {}
func (SkipNotPressed) instruction() {}
func (LdDelayTimer) instruction()   {}
func (LdKey) instruction()          {}
func (SetDelayTimer) instruction()  {}
func (SetSoundTimer) instruction()  {}
func (AddI) instruction()           {}
func (LdFont) instruction()         {}
func (Bcd) instruction()            {}
func (StoreRegs) instruction()      {}
func (LoadRegs) instruction()       {}
func (Unknown) instruction()        {}

// Decode splits the 16-bit opcode into its four nibbles and matches the
// documented encodings. Unmatched bit patterns decode to Unknown.
func Decode(opcode uint16) Instruction {
	op0 := uint8(opcode >> 12)
	x := Register(opcode >> 8 & 0xF)
	y := Register(opcode >> 4 & 0xF)
	n := uint8(opcode & 0xF)
	kk := uint8(opcode)
	nnn := opcode & 0xFFF

	switch op0 {
	case 0x0:
		switch opcode {
		case 0x00E0:
			return Cls{}
		case 0x00EE:
			return Ret{}
		}
	case 0x1:
		return Jmp{Addr: nnn}
	case 0x2:
		return Call{Addr: nnn}
	case 0x3:
		return SkipEqImm{Reg: x, Byte: kk}
	case 0x4:
		return SkipNEqImm{Reg: x, Byte: kk}
	case 0x5:
		if n == 0 {
			return SkipEqReg{RegX: x, RegY: y}
		}
	case 0x6:
		return LdImm{Reg: x, Byte: kk}
	case 0x7:
		return AddImm{Reg: x, Byte: kk}
	case 0x8:
		switch n {
		case 0x0:
			return LdReg{RegX: x, RegY: y}
		case 0x1:
			return Or{RegX: x, RegY: y}
		case 0x2:
			return And{RegX: x, RegY: y}
		case 0x3:
			return Xor{RegX: x, RegY: y}
		case 0x4:
			return AddReg{RegX: x, RegY: y}
		case 0x5:
			return SubReg{RegX: x, RegY: y}
		case 0x6:
			return Shr{RegX: x, RegY: y}
		case 0x7:
			return SubN{RegX: x, RegY: y}
		case 0xE:
			return Shl{RegX: x, RegY: y}
		}
	case 0x9:
		if n == 0 {
			return SkipNEqReg{RegX: x, RegY: y}
		}
	case 0xA:
		return LdI{Addr: nnn}
	case 0xB:
		return JmpReg{Addr: nnn}
	case 0xC:
		return Rnd{Reg: x, Byte: kk}
	case 0xD:
		return Drw{RegX: x, RegY: y, Len: n}
	case 0xE:
		switch kk {
		case 0x9E:
			return SkipPressed{Reg: x}
		case 0xA1:
			return SkipNotPressed{Reg: x}
		}
	case 0xF:
		switch kk {
		case 0x07:
			return LdDelayTimer{Reg: x}
		case 0x0A:
			return LdKey{Reg: x}
		case 0x15:
			return SetDelayTimer{Reg: x}
		case 0x18:
			return SetSoundTimer{Reg: x}
		case 0x1E:
			return AddI{Reg: x}
		case 0x29:
			return LdFont{Reg: x}
		case 0x33:
			return Bcd{Reg: x}
		case 0x55:
			return StoreRegs{Reg: x}
		case 0x65:
			return LoadRegs{Reg: x}
		}
	}

	return Unknown{Opcode: opcode}
}

func (Cls) String() string { return "CLS" }
func (Ret) String() string { return "RET" }

func (i Jmp) String() string  { return fmt.Sprintf("JMP 0x%04X", i.Addr) }
func (i Call) String() string { return fmt.Sprintf("CALL 0x%04X", i.Addr) }

func (i SkipEqImm) String() string  { return fmt.Sprintf("SE %s, 0x%02X", i.Reg, i.Byte) }
func (i SkipNEqImm) String() string { return fmt.Sprintf("SNE %s, 0x%02X", i.Reg, i.Byte) }
func (i SkipEqReg) String() string  { return fmt.Sprintf("SE %s, %s", i.RegX, i.RegY) }
func (i LdImm) String() string      { return fmt.Sprintf("LD %s, 0x%02X", i.Reg, i.Byte) }
func (i AddImm) String() string     { return fmt.Sprintf("ADD %s, 0x%02X", i.Reg, i.Byte) }
func (i LdReg) String() string      { return fmt.Sprintf("LD %s, %s", i.RegX, i.RegY) }
func (i Or) String() string         { return fmt.Sprintf("OR %s, %s", i.RegX, i.RegY) }
func (i And) String() string        { return fmt.Sprintf("AND %s, %s", i.RegX, i.RegY) }
func (i Xor) String() string        { return fmt.Sprintf("XOR %s, %s", i.RegX, i.RegY) }
func (i AddReg) String() string     { return fmt.Sprintf("ADD %s, %s", i.RegX, i.RegY) }
func (i SubReg) String() string     { return fmt.Sprintf("SUB %s, %s", i.RegX, i.RegY) }
func (i Shr) String() string        { return fmt.Sprintf("SHR %s, %s", i.RegX, i.RegY) }
func (i SubN) String() string       { return fmt.Sprintf("SUBN %s, %s", i.RegX, i.RegY) }
func (i Shl) String() string        { return fmt.Sprintf("SHL %s, %s", i.RegX, i.RegY) }
func (i SkipNEqReg) String() string { return fmt.Sprintf("SNE %s, %s", i.RegX, i.RegY) }

func (i LdI) String() string    { return fmt.Sprintf("LD I, 0x%04X", i.Addr) }
func (i JmpReg) String() string { return fmt.Sprintf("JMP V0, 0x%04X", i.Addr) }
func (i Rnd) String() string    { return fmt.Sprintf("RND %s, 0x%02X", i.Reg, i.Byte) }

func (i Drw) String() string {
	return fmt.Sprintf("DRW %s, %s, 0x%02X", i.RegX, i.RegY, i.Len)
}

func (i SkipPressed) String() string    { return fmt.Sprintf("SKP %s", i.Reg) }
func (i SkipNotPressed) String() string { return fmt.Sprintf("SKNP %s", i.Reg) }
func (i LdDelayTimer) String() string   { return fmt.Sprintf("LD %s, DT", i.Reg) }
func (i LdKey) String() string          { return fmt.Sprintf("LD %s, K", i.Reg) }
func (i SetDelayTimer) String() string  { return fmt.Sprintf("LD DT, %s", i.Reg) }
func (i SetSoundTimer) String() string  { return fmt.Sprintf("LD ST, %s", i.Reg) }
func (i AddI) String() string           { return fmt.Sprintf("ADD I, %s", i.Reg) }
func (i LdFont) String() string         { return fmt.Sprintf("LD F, %s", i.Reg) }
func (i Bcd) String() string            { return fmt.Sprintf("BCD %s", i.Reg) }
func (i StoreRegs) String() string      { return fmt.Sprintf("LD [I], %s", i.Reg) }
func (i LoadRegs) String() string       { return fmt.Sprintf("LD %s, [I]", i.Reg) }

func (i Unknown) String() string { return fmt.Sprintf("unknown (0x%04X)", i.Opcode) }
