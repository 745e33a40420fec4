package main

import (
	"os"

	"github.com/msto63/vera/cmd/vera/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
