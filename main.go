// Package main implements the main entry point for the c8go CHIP-8 emulator
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/retroenv/c8go/internal/chip8"
	"github.com/retroenv/c8go/internal/cli"
	"github.com/retroenv/c8go/internal/config"
	"github.com/retroenv/c8go/internal/debugger"
	"github.com/retroenv/c8go/internal/disasm"
	"github.com/retroenv/c8go/internal/gui"
	"github.com/retroenv/c8go/internal/options"
	"github.com/retroenv/c8go/internal/rom"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(logger, opts)

	if err := run(ctx, logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

// printBanner prints application version information
func printBanner(logger *log.Logger, opts options.Program) {
	if opts.Quiet {
		return
	}

	logger.Info("c8go", log.String("version", buildinfo.Version(version, commit, date)))
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	data, err := rom.Load(opts.Input)
	if err != nil {
		return err
	}

	switch {
	case opts.Hexdump:
		return disasm.Hexdump(os.Stdout, data)
	case opts.Disassemble:
		return disasm.Disassemble(os.Stdout, data)
	}

	logger.Debug("starting emulator",
		log.String("rom", opts.Input),
		log.String("ips", fmt.Sprint(opts.IPS)))

	emu := chip8.New(logger, data, opts.IPS)
	ctrl := emu.Controller()
	emu.Start()

	switch {
	case opts.Headless:
		return runHeadless(ctx, logger, ctrl)
	case opts.GUI:
		return gui.Run(ctx, logger, ctrl)
	default:
		return debugger.Run(ctx, logger, ctrl)
	}
}

// runHeadless starts execution immediately and waits until the program
// halts or the context is cancelled.
func runHeadless(ctx context.Context, logger *log.Logger, ctrl *chip8.Controller) error {
	if err := ctrl.Send(chip8.Continue{}); err != nil {
		return fmt.Errorf("starting execution: %w", err)
	}

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			stop(ctrl)
			return nil

		case <-tick.C:
			if ctrl.State() != chip8.StateHalted {
				continue
			}
			logger.Info("program halted", log.String("pc", fmt.Sprintf("0x%04X", ctrl.Snapshot().PC)))
			stop(ctrl)
			return nil
		}
	}
}

func stop(ctrl *chip8.Controller) {
	_ = ctrl.Send(chip8.Stop{})
	<-ctrl.Done()
}
