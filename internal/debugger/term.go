package debugger

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"github.com/retroenv/c8go/internal/chip8"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

// Run starts the debug console on stdin and stdout. When stdin is a terminal
// it switches into raw mode and provides a line editor with history;
// otherwise lines are read as-is, which keeps the console scriptable.
func Run(ctx context.Context, logger *log.Logger, ctrl *chip8.Controller) error {
	fd := os.Stdin.Fd()
	if !xterm.IsTerminal(int(fd)) {
		return New(ctrl, os.Stdin, os.Stdout).run(ctx)
	}

	restore, err := enableRawMode(fd)
	if err != nil {
		logger.Debug("raw mode unavailable, falling back to line mode", log.Err(err))
		return New(ctrl, os.Stdin, os.Stdout).run(ctx)
	}
	defer restore()

	t := xterm.NewTerminal(stdio{}, prompt)
	d := &Debugger{
		ctrl: ctrl,
		in:   t,
		out:  t,
	}
	return d.run(ctx)
}

// enableRawMode switches the terminal into non-canonical mode without echo
// and returns a function restoring the original configuration.
func enableRawMode(fd uintptr) (func(), error) {
	var orig unix.Termios
	if err := termios.Tcgetattr(fd, &orig); err != nil {
		return nil, fmt.Errorf("reading terminal attributes: %w", err)
	}

	raw := orig
	raw.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(fd, termios.TCSANOW, &raw); err != nil {
		return nil, fmt.Errorf("setting terminal attributes: %w", err)
	}

	return func() {
		_ = termios.Tcsetattr(fd, termios.TCSANOW, &orig)
	}, nil
}

// stdio combines stdin and stdout into the io.ReadWriter the terminal
// line editor works on.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
