package main

import (
	"os"

	"github.com/Anubhav-singhx/cicd-platform/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
