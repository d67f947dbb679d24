package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"
)

func main() {
	var (
		prefill = flag.Int("prefill", 0, "Number of placeholder entries to add on startup")
	)
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "reptop needs a terminal")
		os.Exit(1)
	}

	if err := runInteractive(*prefill); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
