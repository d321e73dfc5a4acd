package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shuvoedward/hadith_search/internal/service"
)

var purgePrefix string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached search pages",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cached search pages",
	Long: `Deletes every cached search page under the prefix. Run it after
reloading the corpus so stale pages are not served until they expire.`,
	Args: cobra.NoArgs,
	RunE: runCachePurge,
}

func init() {
	cachePurgeCmd.Flags().StringVar(&purgePrefix, "prefix", service.CacheKeyPrefix, "key prefix to delete")

	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	c, closeCache, err := openCache(newLogger(cmd))
	if err != nil {
		return err
	}
	defer closeCache()

	if c == nil {
		return errors.New("no cache backend configured: set cache.backend to redis or badger")
	}

	n, err := c.Purge(cmd.Context(), purgePrefix)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	cmd.Printf("Purged %d cached page(s).\n", n)
	return nil
}
