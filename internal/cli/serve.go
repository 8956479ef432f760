package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqsee/internal/server"
	"github.com/matzehuels/seqsee/pkg/buildinfo"
	"github.com/matzehuels/seqsee/pkg/cache"
	"github.com/matzehuels/seqsee/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		envFiles []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API over HTTP.

Settings come from the [server] table of the config file, then from a .env
file and SEQSEE_* environment variables (SEQSEE_ADDR, SEQSEE_REDIS_URL,
SEQSEE_MONGO_URI, SEQSEE_MAX_BODY_BYTES, SEQSEE_WORKERS), then from flags.
With SEQSEE_REDIS_URL or SEQSEE_MONGO_URI set, layouts and artifacts are
cached in Redis or MongoDB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg().Server
			if err := server.LoadEnv(&cfg, envFiles...); err != nil {
				return fmt.Errorf("load environment: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid server config: %w", err)
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "dotenv file(s) to load (default: .env)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config) error {
	cacheCfg := cfg.CacheConfig()
	store, err := cache.Open(ctx, cacheCfg)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	fmt.Fprintln(c.Out, StyleTitle.Render("seqsee "+buildinfo.Version))
	printKeyValue(c.Out, "listen", cfg.Addr)
	printKeyValue(c.Out, "cache", cacheCfg.Backend())
	printKeyValue(c.Out, "metrics", "/metrics")

	return server.New(cfg, runner, c.Logger).ListenAndServe(ctx)
}
