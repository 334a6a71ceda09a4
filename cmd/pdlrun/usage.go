package main

import "fmt"

const version = "0.1.0"

func showUsage() {
	fmt.Println("pdlrun - stack-based page description language interpreter")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pdlrun run [-o out.png] [-history dsn] <file.pdl>   Run to completion   (alias: r)")
	fmt.Println("  pdlrun step <file.pdl>                              Step interactively   (alias: s)")
	fmt.Println("  pdlrun dump <file.pdl>                              Run and dump stacks  (alias: d)")
	fmt.Println("  pdlrun version                                      Show version         (alias: v)")
	fmt.Println()
	fmt.Println("Flags (run/step/dump, given before <file.pdl>):")
	fmt.Println("  -o <file.png>       write the rendered canvas to file")
	fmt.Println("  -w <pixels>         canvas width, default 612 (US Letter @ 72dpi)")
	fmt.Println("  -h <pixels>         canvas height, default 792")
	fmt.Println("  -history <dsn>      record one row per run (sqlite://, postgres://, mysql://, sqlserver://)")
	fmt.Println("  -steps <n>          override the step budget (default 100000)")
}

func showVersion() {
	fmt.Printf("pdlrun %s\n", version)
}
