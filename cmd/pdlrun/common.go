package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"pdlvm/internal/canvas"
	"pdlvm/internal/graphics"
	"pdlvm/internal/history"
	"pdlvm/internal/interp"
)

// runFlags is the flag set shared by run/step/dump, grounded on the
// teacher's habit of filtering flag-like args out of a positional filename
// (cmd/sentra/main.go's `run` handler does the same by hand). Here
// flag.FlagSet does the parsing, so flags must come before the filename:
// parsing stops at the first positional argument.
type runFlags struct {
	out        string
	width      int
	height     int
	historyDSN string
	steps      int
}

func parseFlags(name string, args []string) (*runFlags, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	rf := &runFlags{}
	fs.StringVar(&rf.out, "o", "", "output PNG path")
	fs.IntVar(&rf.width, "w", 612, "canvas width in pixels")
	fs.IntVar(&rf.height, "h", 792, "canvas height in pixels")
	fs.StringVar(&rf.historyDSN, "history", "", "history store DSN")
	fs.IntVar(&rf.steps, "steps", 0, "step budget override")
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	if fs.NArg() < 1 {
		return nil, "", fmt.Errorf("missing source file")
	}
	return rf, fs.Arg(0), nil
}

// colorEnabled reports whether stderr is a real terminal (spec: diagnostics
// are plain text over a wire protocol-free embedder API; colorizing them is
// purely a CLI-local nicety, so it's gated off when output is redirected).
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func colorize(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// buildInterpreter loads source into a fresh interpreter, wiring a canvas
// (unless rf.out is empty) and an optional history.Store.
func buildInterpreter(source []byte, rf *runFlags) (*interp.Interpreter, *canvas.Canvas, *history.Store, error) {
	cfg := interp.DefaultConfig()
	if rf.steps > 0 {
		cfg.StepBudget = rf.steps
	}

	ip, err := interp.Load(source, nil, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	var cv *canvas.Canvas
	if rf.out != "" {
		meta := ip.Metadata()
		llx := 0.0
		if meta.HasBoundingBox {
			llx = meta.BoundingBox[0]
		}
		cv = canvas.New(rf.width, rf.height, llx, 0)
		ip.SetGraphics(graphics.Context(cv))
	}

	var store *history.Store
	if rf.historyDSN != "" {
		store, err = history.Open(rf.historyDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		ip.SetHistory(store)
	}

	return ip, cv, store, nil
}
