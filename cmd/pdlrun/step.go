package main

import (
	"bufio"
	"fmt"
	"os"

	"pdlvm/internal/interp"
)

// stepCommand drives the interpreter one fetch-execute step at a time
// (SPEC_FULL §6 `step(ctx)`), printing the operand stack after each step and,
// when stderr is a terminal, waiting for Enter between steps — an interactive version of `run` for
// inspecting a program's progress.
func stepCommand(args []string) error {
	rf, filename, err := parseFlags("step", args)
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

	in := bufio.NewReader(os.Stdin)
	for {
		status, stepErr := ip.Step()
		fmt.Printf("step %d: operands=%s\n", ip.Steps(), formatOperands(ip))

		if stepErr != nil {
			fmt.Fprintln(os.Stderr, colorize("31", stepErr.Error()))
			if cv != nil {
				_ = writePNG(rf.out, cv)
			}
			os.Exit(1)
		}
		if status != interp.Running {
			fmt.Println(colorize("32", "finished"))
			break
		}

		if colorEnabled() {
			fmt.Print("-- press Enter to step, q + Enter to quit -- ")
			line, _ := in.ReadString('\n')
			if len(line) > 0 && (line[0] == 'q' || line[0] == 'Q') {
				break
			}
		}
	}

	if cv != nil {
		return writePNG(rf.out, cv)
	}
	return nil
}

func formatOperands(ip *interp.Interpreter) string {
	vals := ip.OperandStack().All()
	out := "["
	for i, v := range vals {
		if i > 0 {
			out += " "
		}
		out += v.String()
	}
	return out + "]"
}
