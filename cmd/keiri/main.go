package main

import (
	"os"

	"github.com/keiri-dev/keiri/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
