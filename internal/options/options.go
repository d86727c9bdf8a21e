// Package options contains the program options.
package options

// Program options of the emulator.
type Program struct {
	Input string

	Disassemble bool
	Hexdump     bool
	GUI         bool
	Headless    bool

	IPS uint

	Debug bool
	Quiet bool
}
