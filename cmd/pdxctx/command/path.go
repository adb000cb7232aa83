package command

import (
	"fmt"

	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

var pathCommand = &cli.Command{
	Name:      "path",
	Usage:     "validates a dotted scope chain",
	ArgsUsage: "<chain>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "from",
			Usage: "object type the chain starts from (default: --root-type)",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("path expects exactly one chain")
		}

		reg, err := loadRegistry(c)
		if err != nil {
			return err
		}

		chain := c.Args().First()
		fallback := registry.ObjectType(c.String("root-type"))

		start := fallback
		if c.IsSet("from") {
			start = registry.ObjectType(c.String("from"))
		}

		res := analysis.ValidatePath(reg, chain, start, fallback)

		color := colorizer(c)
		w := c.App.Writer

		if res.Valid {
			fmt.Fprintf(w, "%s %s\n", color.Green("valid:"), res.FinalType)
			return nil
		}

		if res.InvalidSegment == "" {
			fmt.Fprintf(w, "%s empty chain\n", color.Red("invalid:"))
			return ErrProblemsFound
		}

		fmt.Fprintf(w, "%s unknown segment %q", color.Red("invalid:"), res.InvalidSegment)
		if s := analysis.SuggestSegment(reg, res.InvalidSegment); s != "" {
			fmt.Fprintf(w, "; did you mean %q?", s)
		}
		fmt.Fprintln(w)

		return ErrProblemsFound
	},
}
