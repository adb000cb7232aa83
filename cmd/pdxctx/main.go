package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/CWBudde/go-pdx-lsp/cmd/pdxctx/command"
)

func main() {
	app := command.App()
	if err := app.Run(os.Args); err != nil {
		if !errors.Is(err, command.ErrProblemsFound) {
			fmt.Fprintf(os.Stderr, "%s\n", err)
		}
		os.Exit(1)
	}
}
