package main

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
)

// dumpCommand runs a program to completion (or error) and pretty-prints its
// final operand stack, dictionary stack depth, and scanner metadata — a
// debug aid for inspecting what a program left behind, independent of any
// canvas output.
func dumpCommand(args []string) error {
	rf, filename, err := parseFlags("dump", args)
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

	fmt.Println("run id:", ip.RunID)
	fmt.Println("steps: ", ip.Steps())
	fmt.Println("operand stack:")
	for _, v := range ip.OperandStack().All() {
		fmt.Printf("  %# v\n", pretty.Formatter(v))
	}
	fmt.Println("dictionary stack depth:", ip.DictionaryStack().Depth())
	fmt.Printf("metadata: %# v\n", pretty.Formatter(ip.Metadata()))

	if cv != nil {
		if err := writePNG(rf.out, cv); err != nil {
			return err
		}
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, colorize("31", runErr.Error()))
		os.Exit(1)
	}
	return nil
}
