package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"shuvoedward/hadith_search/internal/cache"
	"shuvoedward/hadith_search/internal/data"
	"shuvoedward/hadith_search/internal/service"
)

var (
	configPath  string
	memoryPath  string
	dsnFlag     string
	verboseFlag bool

	cfg settings
)

var rootCmd = &cobra.Command{
	Use:   "hadithctl",
	Short: "Operate the hadith search store",
	Long: `hadithctl runs searches, topic suggestions and spelling hints directly
against the hadith store, manages schema migrations and purges cached
search pages.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&memoryPath, "memory", "", "serve an in-memory corpus from a JSON file instead of PostgreSQL")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "db-dsn", "", "PostgreSQL DSN (defaults to HADITH_DB_DSN)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log tier fallbacks and cache activity to stderr")
}

// loadSettings resolves defaults, then the config file, then explicit flags.
func loadSettings(cmd *cobra.Command, args []string) error {
	cfg = defaultSettings()

	if configPath != "" {
		fc, err := loadConfigFile(configPath)
		if err != nil {
			return err
		}
		if err := fc.apply(&cfg); err != nil {
			return err
		}
	}

	if memoryPath != "" {
		cfg.corpus = memoryPath
	}
	if dsnFlag != "" {
		cfg.dsn = dsnFlag
	}

	return nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	if !verboseFlag {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
}

// openModels opens the in-memory corpus when one is configured, PostgreSQL
// otherwise.
func openModels() (data.Models, func(), error) {
	if cfg.corpus != "" {
		f, err := os.Open(cfg.corpus)
		if err != nil {
			return data.Models{}, nil, err
		}
		defer f.Close()

		store, err := data.LoadMemoryStore(f)
		if err != nil {
			return data.Models{}, nil, fmt.Errorf("load corpus %s: %w", cfg.corpus, err)
		}
		return store.Models(), func() {}, nil
	}

	db, err := openDB()
	if err != nil {
		return data.Models{}, nil, err
	}
	return data.NewModels(db, cfg.trigramTimeout), func() { db.Close() }, nil
}

func openDB() (*sql.DB, error) {
	if cfg.dsn == "" {
		return nil, errors.New("no database configured: set --db-dsn, HADITH_DB_DSN or database.dsn")
	}

	db, err := sql.Open("postgres", cfg.dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// purgeableCache is a result cache that can also drop keys by prefix.
type purgeableCache interface {
	service.ResultCache
	Purge(ctx context.Context, prefix string) (int, error)
}

// openCache returns nil when caching is disabled.
func openCache(logger *slog.Logger) (purgeableCache, func(), error) {
	switch cfg.cacheBackend {
	case "redis":
		c, err := cache.NewRedisClient(cfg.redis, cfg.cacheTTL)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { c.Close() }, nil

	case "badger":
		c, err := cache.NewBadgerCache(cache.BadgerConfig{Dir: cfg.badgerDir}, cfg.cacheTTL, logger)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { c.Close() }, nil

	case "none", "":
		return nil, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.cacheBackend)
	}
}
