// Package main is the gelix CLI entry point.
package main

import (
	"os"

	"github.com/gelixlang/gelix/cmd/gelix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
