package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  ember [--config ember.yml] repl")
	fmt.Fprintln(os.Stderr, "  ember [--config ember.yml] eval <expression>")
	fmt.Fprintln(os.Stderr, "  ember [--config ember.yml] fmt <value> [spec]")
	fmt.Fprintln(os.Stderr, "  ember version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Expressions:")
	fmt.Fprintln(os.Stderr, "  1 + 2 * 3        left to right over Integer, Rational, Float")
	fmt.Fprintln(os.Stderr, "  1/3 + 1/6 | f    format the result with a spec")
	fmt.Fprintln(os.Stderr, "  [3, 1, 2]        list literal")
	fmt.Fprintln(os.Stderr, "  sort [3, 1, 2]   also: len, sum, hash, marshal, range a b [step]")
}
