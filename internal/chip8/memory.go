package chip8

// Memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: interpreter reserved area, holding the font table at
//	             FontAddr and the downward growing call stack below 0x200
//	0x200-0xFFF: user program space
const (
	// MemSize is the size of the flat CHIP-8 address space in bytes.
	MemSize = 4096

	// ProgramStart is the address where programs are loaded and begin execution.
	ProgramStart = 0x200

	// StackStart is the initial stack pointer. The stack grows downward in
	// 2-byte frames inside the reserved region.
	StackStart = 0x1FE

	// FontAddr is the base address of the built-in font table.
	FontAddr = 0x100
)

// fontSprites contains the 16 built-in hex digit glyphs, 5 bytes each.
var fontSprites = [80]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the byte addressable 4KB address space of the machine.
//
// Addresses are not bounds-checked beyond the checks the Go runtime performs:
// valid instruction encodings can only produce addresses inside the legal
// range, so an out-of-range access indicates corruption and panics.
type Memory struct {
	bytes [MemSize]byte
}

// NewMemory returns a memory image with the font table at FontAddr and the
// given program bytes at ProgramStart.
func NewMemory(program []byte) *Memory {
	m := &Memory{}
	m.Write(ProgramStart, program)
	m.Write(FontAddr, fontSprites[:])
	return m
}

// ReadByte reads the byte at addr.
func (m *Memory) ReadByte(addr uint16) byte {
	return m.bytes[addr]
}

// WriteByte writes a byte to addr.
func (m *Memory) WriteByte(addr uint16, value byte) {
	m.bytes[addr] = value
}

// ReadWord reads the big-endian 16-bit word at addr.
func (m *Memory) ReadWord(addr uint16) uint16 {
	return uint16(m.bytes[addr])<<8 | uint16(m.bytes[addr+1])
}

// WriteWord writes a 16-bit word to addr in big-endian byte order.
func (m *Memory) WriteWord(addr uint16, value uint16) {
	m.WriteByte(addr, byte(value>>8))
	m.WriteByte(addr+1, byte(value))
}

// Read returns the length bytes starting at addr. The returned slice aliases
// the memory image and must not be retained across writes.
func (m *Memory) Read(addr uint16, length uint16) []byte {
	return m.bytes[addr : addr+length]
}

// Write copies data into memory starting at addr. Data reaching past the end
// of the address space is an invariant violation and panics.
func (m *Memory) Write(addr uint16, data []byte) {
	copy(m.bytes[addr:int(addr)+len(data)], data)
}

// Image returns a copy of the full address space.
func (m *Memory) Image() [MemSize]byte {
	return m.bytes
}
