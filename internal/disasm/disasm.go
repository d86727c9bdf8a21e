// Package disasm renders CHIP-8 ROMs as instruction listings or hex dumps.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/c8go/internal/chip8"
)

// Disassemble writes one line per 2-byte instruction word to w, addressed
// from the program load address:
//
//	0x0200| JMP 0x023A
//
// A trailing odd byte is emitted as raw data.
func Disassemble(w io.Writer, rom []byte) error {
	addr := uint16(chip8.ProgramStart)

	for i := 0; i+1 < len(rom); i += 2 {
		opcode := uint16(rom[i])<<8 | uint16(rom[i+1])

		if _, err := fmt.Fprintf(w, "0x%04X| %s\n", addr, chip8.Decode(opcode)); err != nil {
			return fmt.Errorf("writing disassembly: %w", err)
		}
		addr += 2
	}

	if len(rom)%2 != 0 {
		if _, err := fmt.Fprintf(w, "0x%04X| .byte 0x%02X\n", addr, rom[len(rom)-1]); err != nil {
			return fmt.Errorf("writing disassembly: %w", err)
		}
	}
	return nil
}

// Hexdump writes the ROM bytes to w, 16 per row with the row offset in front:
//
//	|0x0000| 0F A0 12 ...
func Hexdump(w io.Writer, rom []byte) error {
	return HexdumpAt(w, rom, 0)
}

// HexdumpAt writes data like Hexdump with row offsets starting at base.
func HexdumpAt(w io.Writer, data []byte, base uint16) error {
	for offset := 0; offset < len(data); offset += 16 {
		row := data[offset:min(offset+16, len(data))]

		var sb strings.Builder
		for _, b := range row {
			fmt.Fprintf(&sb, " %02X", b)
		}

		if _, err := fmt.Fprintf(w, "|0x%04X|%s\n", int(base)+offset, sb.String()); err != nil {
			return fmt.Errorf("writing hexdump: %w", err)
		}
	}
	return nil
}
