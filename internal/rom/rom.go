// Package rom handles ROM file loading.
package rom

import (
	"fmt"
	"os"

	"github.com/retroenv/c8go/internal/chip8"
)

// MaxSize is the largest ROM that fits into the program space.
const MaxSize = chip8.MemSize - chip8.ProgramStart

// Load reads a ROM file and validates that it fits into program space.
func Load(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file %s: %w", filename, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("ROM file %s is empty", filename)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("ROM size %d exceeds the %d byte program space", len(data), MaxSize)
	}

	return data, nil
}
