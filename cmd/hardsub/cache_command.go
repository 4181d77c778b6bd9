package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hardsub/internal/ocrcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Detection cache utilities",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func withCache(ctx *commandContext, fn func(cmd *cobra.Command, store *ocrcache.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return err
		}
		store, err := ocrcache.Open(cfg.CachePath())
		if err != nil {
			return fmt.Errorf("open detection cache: %w", err)
		}
		defer store.Close()
		return fn(cmd, store)
	}
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show detection cache contents and size",
		Args:  cobra.NoArgs,
		RunE: withCache(ctx, func(cmd *cobra.Command, store *ocrcache.Store) error {
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonFlag {
				return writeJSON(cmd, map[string]any{
					"entries":      stats.Entries,
					"fingerprints": stats.Fingerprints,
					"size_bytes":   stats.SizeBytes,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Entries", "Videos", "Size (bytes)"},
				[][]string{{
					strconv.FormatInt(stats.Entries, 10),
					strconv.FormatInt(stats.Fingerprints, 10),
					strconv.FormatInt(stats.SizeBytes, 10),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight},
			))
			return nil
		}),
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached detections",
		Args:  cobra.NoArgs,
		RunE: withCache(ctx, func(cmd *cobra.Command, store *ocrcache.Store) error {
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Detection cache cleared")
			return nil
		}),
	}
}
