// Package debugger implements the interactive debug console front end.
package debugger

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retroenv/c8go/internal/chip8"
	"github.com/retroenv/c8go/internal/disasm"
)

const prompt = "(c8go) "

const helpText = `machine commands:
  step, s            execute one instruction
  pause, p           pause execution
  continue, c        resume execution
  break, b <addr>    toggle breakpoint at address
  setpc <addr>       set the program counter
  reset, rs          reset the machine
  ips <n>            set instructions per second

inspection commands:
  cpu                show CPU state
  mem [addr] [len]   dump memory, defaults to 0x200 and 64 bytes
  dis [addr] [n]     disassemble n instructions, defaults to pc and 8
  display            render the framebuffer
  breakpoints        list breakpoints
  help               show this help
  quit, q            stop the emulator and exit

an empty line repeats the last command, addresses accept decimal or 0x hex`

// lineReader produces one input line per call.
type lineReader interface {
	ReadLine() (string, error)
}

// Debugger is the interactive console driving an emulator controller.
type Debugger struct {
	ctrl *chip8.Controller

	in  lineReader
	out io.Writer

	lastLine string
}

// New creates a console reading commands from in and writing output to out.
func New(ctrl *chip8.Controller, in io.Reader, out io.Writer) *Debugger {
	return &Debugger{
		ctrl: ctrl,
		in:   &scannerReader{scanner: bufio.NewScanner(in), out: out},
		out:  out,
	}
}

// run processes input lines until quit, end of input or context cancellation.
func (d *Debugger) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			_ = d.ctrl.Send(chip8.Stop{})
			return nil
		default:
		}

		line, err := d.in.ReadLine()
		if err != nil {
			_ = d.ctrl.Send(chip8.Stop{})
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading command: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			line = d.lastLine
			if line == "" {
				continue
			}
		}
		d.lastLine = line

		quit, err := d.dispatch(line)
		if err != nil {
			fmt.Fprintf(d.out, "%s\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

// dispatch handles one command line and reports whether the console should
// exit. Lines that are not inspection commands are parsed as machine
// commands and sent to the emulator.
func (d *Debugger) dispatch(line string) (bool, error) {
	fields := strings.Fields(line)

	switch fields[0] {
	case "quit", "q":
		_ = d.ctrl.Send(chip8.Stop{})
		return true, nil

	case "help":
		fmt.Fprintln(d.out, helpText)

	case "cpu":
		d.printCPU()

	case "mem":
		return false, d.printMemory(fields[1:])

	case "dis":
		return false, d.printDisassembly(fields[1:])

	case "display":
		d.printDisplay()

	case "breakpoints":
		d.printBreakpoints()

	default:
		cmd, err := chip8.ParseCommand(line)
		if err != nil {
			return false, err
		}
		if err := d.ctrl.Send(cmd); err != nil {
			return false, fmt.Errorf("sending command: %w", err)
		}
	}

	return false, nil
}

func (d *Debugger) printCPU() {
	s := d.ctrl.Snapshot()

	fmt.Fprintf(d.out, "state: %s  ips: %d\n", s.State, s.IPS)
	fmt.Fprintf(d.out, "pc: 0x%04X  sp: 0x%04X  i: 0x%04X\n", s.PC, s.SP, s.I)
	fmt.Fprintf(d.out, "dt: 0x%02X  st: 0x%02X\n", s.DelayTimer, s.SoundTimer)

	for row := range 4 {
		for col := range 4 {
			reg := row*4 + col
			fmt.Fprintf(d.out, "v%X: 0x%02X  ", reg, s.Registers[reg])
		}
		fmt.Fprintln(d.out)
	}
}

func (d *Debugger) printMemory(args []string) error {
	addr := uint16(chip8.ProgramStart)
	length := 64

	if len(args) > 0 {
		a, err := chip8.ParseAddress(args[0])
		if err != nil {
			return err
		}
		addr = a
	}
	if len(args) > 1 {
		l, err := strconv.Atoi(args[1])
		if err != nil || l <= 0 {
			return fmt.Errorf("invalid length %q", args[1])
		}
		length = l
	}

	if int(addr) >= chip8.MemSize {
		return fmt.Errorf("address 0x%04X is outside of memory", addr)
	}
	end := min(int(addr)+length, chip8.MemSize)

	s := d.ctrl.Snapshot()
	return disasm.HexdumpAt(d.out, s.Memory[addr:end], addr)
}

func (d *Debugger) printDisassembly(args []string) error {
	s := d.ctrl.Snapshot()

	addr := s.PC
	count := 8

	if len(args) > 0 {
		a, err := chip8.ParseAddress(args[0])
		if err != nil {
			return err
		}
		addr = a
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid instruction count %q", args[1])
		}
		count = n
	}

	for range count {
		if int(addr)+1 >= chip8.MemSize {
			break
		}

		opcode := uint16(s.Memory[addr])<<8 | uint16(s.Memory[addr+1])
		marker := "  "
		if addr == s.PC {
			marker = "> "
		}
		fmt.Fprintf(d.out, "%s0x%04X| %s\n", marker, addr, chip8.Decode(opcode))
		addr += 2
	}
	return nil
}

func (d *Debugger) printDisplay() {
	s := d.ctrl.Snapshot()

	border := "+" + strings.Repeat("-", chip8.DisplayWidth) + "+"
	fmt.Fprintln(d.out, border)

	for y := range chip8.DisplayHeight {
		var sb strings.Builder
		sb.WriteString("|")
		for x := range chip8.DisplayWidth {
			if s.Pixel(x, y) {
				sb.WriteString("█")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("|")
		fmt.Fprintln(d.out, sb.String())
	}

	fmt.Fprintln(d.out, border)
}

func (d *Debugger) printBreakpoints() {
	s := d.ctrl.Snapshot()

	if len(s.Breakpoints) == 0 {
		fmt.Fprintln(d.out, "no breakpoints set")
		return
	}
	for _, addr := range s.Breakpoints {
		fmt.Fprintf(d.out, "0x%04X\n", addr)
	}
}

// scannerReader reads lines with a printed prompt, for non-terminal input.
type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (r *scannerReader) ReadLine() (string, error) {
	fmt.Fprint(r.out, prompt)

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}
