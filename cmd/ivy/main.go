// Command ivy checks and renders bound markup from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/go-ivy/ivy/cmd/ivy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
