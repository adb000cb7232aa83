package command

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
	"github.com/xlab/treeprint"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/document"
)

var contextCommand = &cli.Command{
	Name:      "context",
	Usage:     "prints the mode, scope and block path at a position",
	ArgsUsage: "<file> <line:col>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return errors.New("context expects a file and a LINE:COL position")
		}

		path := c.Args().Get(0)

		line, col, err := parseLineCol(c.Args().Get(1))
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}

		reg, err := loadRegistry(c)
		if err != nil {
			return err
		}

		lines := document.NewSnapshot(string(data))
		pos := analysis.ResolvePosition(lines, reg, line, col, resolveOptions(c, path))

		color := colorizer(c)
		w := c.App.Writer

		fmt.Fprintf(w, "%s %d\n", color.Bold("depth:"), pos.Depth)
		fmt.Fprintf(w, "%s %s\n", color.Bold("mode:"), color.Cyan(pos.Mode))
		fmt.Fprintf(w, "%s %s\n", color.Bold("scope:"), color.Green(pos.ObjectType))

		root := analysis.EnclosingBlockName(lines, line, col)
		if len(pos.Frames) > 0 {
			root = analysis.EnclosingBlockName(lines, pos.Frames[0].Line, pos.Frames[0].Char)
		}

		if root == "" {
			return nil
		}

		tree := treeprint.New()
		node := tree.AddBranch(root)
		for _, frame := range pos.Frames {
			node = node.AddMetaBranch(frame.Mode, frame.Name)
		}

		fmt.Fprint(w, tree.String())

		return nil
	},
}
