package chip8

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is the closed set of asynchronous debug commands the emulator
// scheduler accepts while running.
type Command interface {
	command()
}

// Step executes exactly one instruction, in any machine state.
type Step struct{}

// Pause suspends automatic execution.
type Pause struct{}

// Continue resumes automatic execution, also from the halted state.
type Continue struct{}

// Breakpoint toggles the breakpoint at Addr: set if absent, cleared if present.
type Breakpoint struct{ Addr uint16 }

// SetPC moves the program counter to Addr without executing anything.
type SetPC struct{ Addr uint16 }

// Reset returns the machine to its boot state.
type Reset struct{}

// SetIPS changes the execution rate to IPS instructions per second.
type SetIPS struct{ IPS uint }

// Stop shuts the emulator down.
type Stop struct{}

func (Step) command()       {}
func (Pause) command()      {}
func (Continue) command()   {}
func (Breakpoint) command() {}
func (SetPC) command()      {}
func (Reset) command()      {}
func (SetIPS) command()     {}
func (Stop) command()       {}

// ParseCommand parses a debug command line.
//
// Grammar:
//
//	step|s
//	pause|p
//	continue|c
//	break|b <addr>
//	setpc <addr>
//	reset|rs
//	ips <n>
//
// Addresses accept decimal or 0x-prefixed hex.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	name, args := fields[0], fields[1:]

	switch name {
	case "step", "s":
		if err := expectArgs(name, args, 0); err != nil {
			return nil, err
		}
		return Step{}, nil

	case "pause", "p":
		if err := expectArgs(name, args, 0); err != nil {
			return nil, err
		}
		return Pause{}, nil

	case "continue", "c":
		if err := expectArgs(name, args, 0); err != nil {
			return nil, err
		}
		return Continue{}, nil

	case "break", "b":
		if err := expectArgs(name, args, 1); err != nil {
			return nil, err
		}
		addr, err := ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		return Breakpoint{Addr: addr}, nil

	case "setpc":
		if err := expectArgs(name, args, 1); err != nil {
			return nil, err
		}
		addr, err := ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		return SetPC{Addr: addr}, nil

	case "reset", "rs":
		if err := expectArgs(name, args, 0); err != nil {
			return nil, err
		}
		return Reset{}, nil

	case "ips":
		if err := expectArgs(name, args, 1); err != nil {
			return nil, err
		}
		ips, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid instruction rate %q: %w", args[0], err)
		}
		return SetIPS{IPS: uint(ips)}, nil

	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

// ParseAddress parses a 16-bit address, accepting decimal or 0x-prefixed hex.
func ParseAddress(s string) (uint16, error) {
	base := 10
	digits := s
	if rest, ok := cutHexPrefix(s); ok {
		base = 16
		digits = rest
	}

	addr, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(addr), nil
}

func cutHexPrefix(s string) (string, bool) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		return rest, true
	}
	return strings.CutPrefix(s, "0X")
}

func expectArgs(name string, args []string, want int) error {
	if len(args) != want {
		return fmt.Errorf("command %q expects %d argument(s), got %d", name, want, len(args))
	}
	return nil
}
