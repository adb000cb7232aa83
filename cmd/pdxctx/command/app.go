// Package command implements the pdxctx command line tool, which runs the
// context resolution engine outside an editor.
package command

import (
	"os"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	isatty "github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
	"github.com/CWBudde/go-pdx-lsp/internal/server"
)

// ErrProblemsFound is returned when a command ran to completion but found
// invalid input, such as an unresolvable chain.
var ErrProblemsFound = errors.New("problems found")

func App() *cli.App {
	app := cli.NewApp()
	app.Name = "pdxctx"
	app.Usage = "resolves block modes and scopes in Paradox script files"
	app.Commands = []*cli.Command{
		contextCommand,
		pathCommand,
		checkCommand,
	}
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "registry",
			Usage: "YAML keyword registry layered over the built-in one",
		},
		&cli.StringFlag{
			Name:  "root-type",
			Usage: "object type of files outside known folders",
			Value: string(registry.Character),
		},
		&cli.StringFlag{
			Name:  "color",
			Usage: "colorize output: auto, always or never",
			Value: "auto",
		},
	}
	return app
}

func loadRegistry(c *cli.Context) (*registry.Registry, error) {
	reg, err := registry.LoadWithDefaults(c.String("registry"))
	if err != nil {
		return nil, errors.Wrap(err, "load registry")
	}
	return reg, nil
}

// resolveOptions picks the root type and mode of path the way the language
// server does for document URIs.
func resolveOptions(c *cli.Context, path string) analysis.ResolveOptions {
	cfg := server.Config{
		DefaultRootType: registry.ObjectType(c.String("root-type")),
		DocumentKinds:   server.DefaultDocumentKinds(),
	}
	return cfg.ResolveOptionsFor(path)
}

func colorizer(c *cli.Context) aurora.Aurora {
	switch c.String("color") {
	case "always":
		return aurora.NewAurora(true)
	case "never":
		return aurora.NewAurora(false)
	}

	f, ok := c.App.Writer.(*os.File)
	return aurora.NewAurora(ok && isatty.IsTerminal(f.Fd()))
}

// parseLineCol parses a 1-based LINE:COL argument into 0-based values.
func parseLineCol(arg string) (int, int, error) {
	lineStr, colStr, ok := strings.Cut(arg, ":")
	if !ok {
		return 0, 0, errors.Errorf("invalid position %q, expected LINE:COL", arg)
	}

	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return 0, 0, errors.Errorf("invalid line in %q", arg)
	}

	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return 0, 0, errors.Errorf("invalid column in %q", arg)
	}

	return line - 1, col - 1, nil
}
