package main

import (
	"os"

	"github.com/ayusman/sareefit/cmd/sareefit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
