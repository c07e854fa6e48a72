// SPDX-License-Identifier: MPL-2.0

// Package browser opens generated HTML pages, or reports where they are when
// opening is disabled.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// ErrNoOpener is returned when no opener command is known for the platform.
var ErrNoOpener = errors.New("no browser opener available")

type (
	// Opener shows one file to the user.
	Opener interface {
		Open(ctx context.Context, path string) error
	}

	// System opens files with a configured command or the platform opener.
	// The command is split with POSIX shell rules, so it may carry arguments.
	System struct {
		Command string
	}

	// Printer writes each path to W instead of opening it.
	Printer struct {
		W io.Writer
	}
)

// Open starts the opener and returns without waiting for the viewer to exit.
func (s System) Open(_ context.Context, path string) error {
	argv, err := s.argv(path)
	if err != nil {
		return err
	}
	// The viewer outlives this call, so it is not bound to ctx.
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	slog.Debug("opened in browser", "path", path, "opener", argv[0])
	go func() { _ = cmd.Wait() }()
	return nil
}

func (s System) argv(path string) ([]string, error) {
	if cmd := strings.TrimSpace(s.Command); cmd != "" {
		words, err := shell.Fields(cmd, nil)
		if err != nil {
			return nil, fmt.Errorf("parse browser command %q: %w", cmd, err)
		}
		if len(words) == 0 {
			return nil, ErrNoOpener
		}
		return append(words, path), nil
	}
	words := platformOpener(runtime.GOOS)
	if words == nil {
		return nil, fmt.Errorf("%w on %s", ErrNoOpener, runtime.GOOS)
	}
	return append(words, path), nil
}

func platformOpener(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return []string{"xdg-open"}
	default:
		return nil
	}
}

// Open prints path.
func (p Printer) Open(_ context.Context, path string) error {
	_, err := fmt.Fprintln(p.W, path)
	return err
}
