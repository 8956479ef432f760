package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqsee/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cacheConfig(false)
			if cfg.Backend() == "file" {
				if _, err := os.Stat(cfg.Dir); os.IsNotExist(err) {
					printInfo(c.Out, "Cache is empty")
					return nil
				}
			}

			store, err := cache.Open(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printInfo(c.Out, "Nothing to clear (%s cache)", cfg.Backend())
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess(c.Out, "Cleared %s cache", cfg.Backend())
			if cfg.Backend() == "file" {
				printDetail(c.Out, "Directory: %s", cfg.Dir)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cacheConfig(false)
			if cfg.Backend() != "file" {
				return fmt.Errorf("the %s cache has no local path", cfg.Backend())
			}
			fmt.Fprintln(c.Out, cfg.Dir)
			return nil
		},
	}
}
