// Command pdlrun is the embedder-facing CLI front end (SPEC_FULL §6): it
// loads a source file, drives an interp.Interpreter through Run or Step,
// and optionally rasterizes the result or records a history.Store row.
//
// Grounded on sentra/cmd/sentra/main.go's manual args[0] dispatch, command
// alias table, and showUsage/showVersion helpers.
package main

import (
	"fmt"
	"os"
)

// commandAliases mirrors the teacher's short-form dispatch table.
var commandAliases = map[string]string{
	"r": "run",
	"s": "step",
	"d": "dump",
	"v": "version",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}
	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		showVersion()
		return
	}

	switch cmd {
	case "run":
		if err := runCommand(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "pdlrun: %v\n", err)
			os.Exit(1)
		}
	case "step":
		if err := stepCommand(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "pdlrun: %v\n", err)
			os.Exit(1)
		}
	case "dump":
		if err := dumpCommand(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "pdlrun: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "pdlrun: unknown command %q\n", cmd)
		showUsage()
		os.Exit(1)
	}
}
