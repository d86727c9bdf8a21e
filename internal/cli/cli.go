// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/c8go/internal/chip8"
	"github.com/retroenv/c8go/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}
	if err := validateOptionCombinations(opts); err != nil {
		return opts, err
	}

	opts.Input = args[0]
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: c8go [options] <ROM file>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptionCombinations rejects options that contradict each other
func validateOptionCombinations(opts options.Program) error {
	if opts.GUI && opts.Headless {
		return fmt.Errorf("-gui and -headless are mutually exclusive")
	}
	if (opts.Disassemble || opts.Hexdump) && (opts.GUI || opts.Headless) {
		return fmt.Errorf("-dis and -x do not run the emulator and cannot be combined with -gui or -headless")
	}
	if opts.IPS == 0 {
		return fmt.Errorf("instruction rate must be at least 1")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.BoolVar(&opts.Disassemble, "dis", false, "disassemble the ROM instead of running it")
	flags.BoolVar(&opts.Hexdump, "x", false, "print a hexdump of the ROM instead of running it")
	flags.BoolVar(&opts.GUI, "gui", false, "run with the graphical front end instead of the debug console")
	flags.BoolVar(&opts.Headless, "headless", false, "run without a front end until the program halts")
	flags.UintVar(&opts.IPS, "ips", chip8.DefaultIPS, "execution rate in instructions per second")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
