package main

import (
	"fmt"
	"os"

	"todolist/internal/cli"
)

func main() {
	// Configuration, logging and the store are wired once flags are parsed
	root := cli.NewRootCommand()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
