package main

import (
	"fmt"
	"image/png"
	"os"

	"pdlvm/internal/canvas"
)

func runCommand(args []string) error {
	rf, filename, err := parseFlags("run", args)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	ip, cv, store, err := buildInterpreter(source, rf)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	runErr := ip.Run()
	if runErr != nil {
		fmt.Fprintln(os.Stderr, colorize("31", runErr.Error()))
	} else {
		fmt.Println(colorize("32", fmt.Sprintf("finished after %d steps", ip.Steps())))
	}

	if cv != nil {
		if err := writePNG(rf.out, cv); err != nil {
			return err
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
	return nil
}

func writePNG(path string, cv *canvas.Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, cv.Img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
