package main

import (
	"os"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/cmd/carbonctl/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
