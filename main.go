package main

import (
	"os"

	"github.com/bimmerbailey/drift/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
