package command

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/document"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

// maxParallelChecks bounds the number of files read at once.
const maxParallelChecks = 8

var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "reports unresolvable scope chains",
	ArgsUsage: "<file>...",
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return errors.New("check expects at least one file")
		}

		reg, err := loadRegistry(c)
		if err != nil {
			return err
		}

		paths := c.Args().Slice()

		opts := make([]analysis.ResolveOptions, len(paths))
		for i, path := range paths {
			opts[i] = resolveOptions(c, path)
		}

		results, err := checkFiles(c.Context, reg, paths, opts)
		if err != nil {
			return err
		}

		color := colorizer(c)
		w := c.App.Writer
		found := 0

		for i, problems := range results {
			for _, p := range problems {
				fmt.Fprintf(w, "%s:%d:%d: %s %s\n",
					color.Bold(paths[i]), p.Line+1, p.StartChar+1, color.Yellow("warning:"), p.Message())
				found++
			}
		}

		if found > 0 {
			fmt.Fprintf(w, "%d problem(s) in %d file(s)\n", found, len(paths))
			return ErrProblemsFound
		}

		return nil
	},
}

// checkFiles runs chain diagnostics over paths concurrently. Results are
// indexed like paths.
func checkFiles(ctx context.Context, reg *registry.Registry, paths []string, opts []analysis.ResolveOptions) ([][]analysis.ChainProblem, error) {
	results := make([][]analysis.ChainProblem, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelChecks)

	for i, path := range paths {
		i, path := i, path

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}

			results[i] = analysis.ChainDiagnostics(document.NewSnapshot(string(data)), reg, opts[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
