package main

import (
	"os"

	"github.com/kindred-labs/grimoire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
