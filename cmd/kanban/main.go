// Package main is the entry point for the kanban CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/runoshun/kanban/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := cli.Execute(context.Background(), version, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
