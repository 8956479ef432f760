package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/seqsee/pkg/io"
	"github.com/matzehuels/seqsee/pkg/pipeline"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <chart>...",
		Short: "Check charts without writing output",
		Long: `Check charts without writing output.

Every chart is decoded, validated and fully prepared, so dangling edge
references, ambiguous targets, bad styles and unknown aliases are all
reported. The command fails if any chart is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args)
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, inputs []string) error {
	var total, failed int
	for _, input := range inputs {
		coll, err := pkgio.ImportDocument(input)
		if err != nil {
			total++
			failed++
			printError(c.Out, "%s: %v", input, err)
			continue
		}
		results, err := pipeline.PrepareCollection(ctx, coll, c.cfg().Render.Workers, nil)
		if err != nil {
			total++
			failed++
			printError(c.Out, "%s: %v", input, err)
			continue
		}

		for _, r := range results {
			total++
			if r.Err != nil {
				failed++
				printError(c.Out, "%s: %s: %v", input, r.Name, r.Err)
				continue
			}
			printSuccess(c.Out, "%s: %s", input, r.Name)
			for _, w := range r.Layout.Warnings {
				printWarning(c.Out, "%s: %s: %s", input, r.Name, w)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d charts invalid", failed, total)
	}
	printDetail(c.Out, "%s valid", plural(total, "chart"))
	return nil
}
