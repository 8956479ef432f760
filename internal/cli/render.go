package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqsee/pkg/chart"
	"github.com/matzehuels/seqsee/pkg/errors"
	pkgio "github.com/matzehuels/seqsee/pkg/io"
	"github.com/matzehuels/seqsee/pkg/pipeline"
)

// stdoutPath selects standard output instead of a file.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format), base path, or "-"
	formats  []string // html, svg, json, dot, dot-svg
	noGrid   bool     // omit grid lines
	noLabels bool     // omit node and edge labels
	noCache  bool     // bypass the cache entirely
	refresh  bool     // recompute and overwrite cached entries
	workers  int      // parallel chart preparation

	fromLayout bool // input is a layout document, not a chart
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <chart>",
		Short: "Render a chart or collection to HTML, SVG, JSON or DOT",
		Long: `Render a chart or collection document.

The input is a chart or a collection of charts in JSON, YAML or TOML. Every
chart is prepared independently; a chart that fails is reported and left out
of the output while the others are still rendered.

With a single format, -o names the output file ("-" for stdout). With several
formats, -o is a base path and each format gets its own extension.

A layout document, as written by 'seqsee layout' or '-f json', is rendered
without preparing the charts again. Files ending in .layout.json are
recognized as layouts; use --from-layout for any other name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			c.applyRenderConfig(cmd, &opts)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several formats), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames, ", ")+" (comma-separated, default html)")
	cmd.Flags().BoolVar(&opts.noGrid, "no-grid", false, "omit grid lines")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and recompute")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", 0, "charts prepared in parallel (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.fromLayout, "from-layout", false, "read the input as a layout document")

	return cmd
}

// applyRenderConfig fills options the user did not set on the command line
// from the config file.
func (c *CLI) applyRenderConfig(cmd *cobra.Command, opts *renderOpts) {
	rc := c.cfg().Render
	flags := cmd.Flags()
	if !flags.Changed("format") && len(rc.Formats) > 0 {
		opts.formats = rc.Formats
	}
	if !flags.Changed("no-grid") {
		opts.noGrid = rc.NoGrid
	}
	if !flags.Changed("no-labels") {
		opts.noLabels = rc.NoLabels
	}
	if !flags.Changed("workers") {
		opts.workers = rc.Workers
	}
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	if opts.output == stdoutPath && len(opts.formats) != 1 {
		return fmt.Errorf("-o - needs exactly one format, got %d", len(opts.formats))
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var (
		coll   *chart.Collection
		layout []byte
		err    error
	)
	if opts.fromLayout || pkgio.IsLayoutPath(input) {
		layout, err = pkgio.ReadLayoutFile(input)
	} else {
		coll, err = pkgio.ImportDocument(input)
	}
	if err != nil {
		return err
	}
	if coll != nil {
		logger.Debugf("Loaded %s: %d charts", input, len(coll.Charts))
	} else {
		logger.Debugf("Loaded layout %s: %d bytes", input, len(layout))
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{
		Formats:  opts.formats,
		NoGrid:   opts.noGrid,
		NoLabels: opts.noLabels,
		Workers:  opts.workers,
		Refresh:  opts.refresh,
		Logger:   logger,
	}
	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", input))
	spin.Start()
	var result *pipeline.Result
	if coll != nil {
		result, err = runner.Execute(ctx, coll, popts)
	} else {
		result, err = runner.RenderFromLayoutData(ctx, layout, popts)
	}
	spin.Stop()
	if result != nil {
		c.reportFailures(result)
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if opts.output == stdoutPath {
		_, err := c.Out.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	paths, err := writeOutputs(opts.output, input, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess(c.Out, "Rendered %s", input)
	for _, p := range paths {
		printFile(c.Out, p)
	}
	printStats(c.Out, len(result.Document.Charts), result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	prog.done("Render complete")
	return nil
}

// reportFailures prints one line per chart that could not be prepared and
// every warning of the charts that could.
func (c *CLI) reportFailures(result *pipeline.Result) {
	for _, ch := range result.Charts {
		if ch.Err != nil {
			printError(c.Out, "%s: %v", ch.Name, ch.Err)
			continue
		}
		for _, w := range ch.Layout.Warnings {
			printWarning(c.Out, "%s: %s", ch.Name, w)
		}
	}
}

// writeOutputs writes artifacts next to a base path. A single artifact with
// an explicit output path is written to exactly that path. No artifact may
// replace the input.
func writeOutputs(output, input string, artifacts map[string][]byte) ([]string, error) {
	if len(artifacts) == 1 && output != "" {
		if samePath(output, input) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the input", output)
		}
		for _, data := range artifacts {
			if err := pkgio.WriteArtifact(output, data); err != nil {
				return nil, err
			}
		}
		return []string{output}, nil
	}
	base := basePath(output, input)
	for f := range artifacts {
		if p := base + pkgio.Extension(f); samePath(p, input) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the input", p)
		}
	}
	return pkgio.WriteArtifacts(base, artifacts)
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// basePath derives the base output path from the output and input paths.
// Without an output the input extension is stripped; the longest known
// artifact extension on the output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return pkgio.BaseName(input)
	}
	strip := ""
	for _, f := range pipeline.FormatNames {
		if ext := pkgio.Extension(f); strings.HasSuffix(output, ext) && len(ext) > len(strip) {
			strip = ext
		}
	}
	if strip == "" && filepath.Ext(output) == ".json" {
		strip = ".json"
	}
	return strings.TrimSuffix(output, strip)
}
