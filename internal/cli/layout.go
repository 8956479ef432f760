package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/seqsee/pkg/io"
	"github.com/matzehuels/seqsee/pkg/pipeline"
)

// layoutCommand creates the layout command, which prints prepared layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "layout <chart>",
		Short: "Print the resolved layout of a chart or collection as JSON",
		Long: `Print the resolved layout of a chart or collection as JSON.

The layout holds absolute node and edge coordinates, inline styles, class
lists and the style sheet of every chart, the same document 'render -f json'
writes. Charts that fail are reported and left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = c.cfg().Render.Workers
			}
			return c.runLayout(cmd.Context(), args[0], output, noCache, workers)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "charts prepared in parallel (default: number of CPUs)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool, workers int) error {
	coll, err := pkgio.ImportDocument(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, coll, pipeline.Options{
		Formats: []string{pipeline.FormatJSON},
		Workers: workers,
		Logger:  loggerFromContext(ctx),
	})
	if err != nil {
		return err
	}
	data := result.Artifacts[pipeline.FormatJSON]

	if output == "" || output == stdoutPath {
		_, err := c.Out.Write(data)
		return err
	}
	if err := pkgio.WriteArtifact(output, data); err != nil {
		return err
	}
	c.reportFailures(result)
	printSuccess(c.Out, "Layout complete")
	printFile(c.Out, output)
	printStats(c.Out, len(result.Document.Charts), result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHits == len(result.Document.Charts))
	return nil
}
