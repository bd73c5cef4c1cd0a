package main

import (
	"os"

	"github.com/milk9111/spritegroup/cmd/scenetool/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
