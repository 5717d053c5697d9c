package main

import (
	"os"

	"github.com/clearline-dev/clearline/internal/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
