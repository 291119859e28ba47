package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/scriptrt/ccjs/pkg/ccjs"
)

// runREPL is spec.md §6's interactive surface: one line (or paste) of
// source per prompt, plus a handful of dot-commands for inspecting the
// engine without writing any script.
func runREPL(cx *ccjs.Context) {
	fmt.Println("ccjs REPL — type .help for commands, .exit to quit")
	scanner := bufio.NewScanner(os.Stdin)
	line := 0

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line++
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch input {
		case "help", ".help":
			printHelp()
			continue
		case "clear", ".clear":
			fmt.Print("\033[H\033[2J")
			continue
		case "exit", "quit", ".exit", ".quit":
			return
		case ".gc":
			cx.Runtime().GC()
			fmt.Println("ok")
			continue
		case ".stats":
			printStats(cx)
			continue
		}

		result, err := cx.Eval(input, fmt.Sprintf("<repl:%d>", line))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			continue
		}
		if !ccjs.IsUndefined(result) {
			fmt.Println(ccjs.ToGoString(result))
		}
	}
}

func printHelp() {
	fmt.Println(`Commands:
  help, .help    show this message
  clear, .clear  clear the screen
  exit/quit      leave the REPL
  .gc            force a full garbage collection
  .stats         print heap/GC statistics`)
}

func printStats(cx *ccjs.Context) {
	stats := cx.Runtime().Stats()
	phase := cx.Runtime().Phase()
	fmt.Printf("phase: %s\n", phase)
	fmt.Printf("collections: %d (minor: %d, full: %d)\n",
		stats.Collections, stats.MinorCollections, stats.FullCollections)
	fmt.Printf("allocations: %d  deallocations: %d\n", stats.Allocations, stats.Deallocations)
	fmt.Printf("bytes allocated: %d  bytes freed: %d  peak: %d\n",
		stats.BytesAllocated, stats.BytesFreed, stats.PeakUsage)
	fmt.Printf("total collection time: %s\n", stats.TotalCollectionTime)
}
