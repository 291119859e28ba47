package main

import (
	"fmt"
	"os"

	"github.com/scriptrt/ccjs/pkg/ccjs"
)

// runFile evaluates the script at path and exits the process with a
// non-zero status on any failure, printing the engine's classified
// error rather than a bare Go error.
func runFile(cx *ccjs.Context, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ccjs: %s\n", err)
		os.Exit(1)
	}
	if _, err := cx.Eval(string(src), path); err != nil {
		fmt.Fprintf(os.Stderr, "ccjs: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("ccjs: %s completed\n", path)
}

// runEval evaluates source directly and prints its result value.
func runEval(cx *ccjs.Context, source, filename string) {
	result, err := cx.Eval(source, filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ccjs: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(ccjs.ToGoString(result))
}
