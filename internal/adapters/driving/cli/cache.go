package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the fingerprint cache",
	Long: `Manages the on-disk cache of page fingerprints. The cache makes
repeat comparisons of unchanged documents fast; clearing it is safe and
only costs recomputation on the next run.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached fingerprints",
	RunE:  runCacheClear,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache file location",
	RunE:  runCachePath,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if cacheStore == nil {
		return errors.New("cache store not configured")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cacheStore.Clear(ctx); err != nil {
		return err
	}
	cmd.Println("Cache cleared.")
	return nil
}

func runCachePath(cmd *cobra.Command, _ []string) error {
	if cacheStore == nil {
		return errors.New("cache store not configured")
	}
	cmd.Println(cacheStore.Path())
	return nil
}
