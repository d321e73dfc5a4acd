package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"shuvoedward/hadith_search/internal/cache"
	"shuvoedward/hadith_search/internal/data"
	"shuvoedward/hadith_search/internal/service"
)

// fileConfig mirrors the cmd/api flags. Durations are written as Go
// duration strings ("24h", "15s").
type fileConfig struct {
	Corpus     string `toml:"corpus"`
	Migrations string `toml:"migrations"`

	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`

	Search struct {
		Fuzzy          *bool  `toml:"fuzzy"`
		TrigramTimeout string `toml:"trigram_timeout"`
	} `toml:"search"`

	Cache struct {
		Backend   string `toml:"backend"`
		TTL       string `toml:"ttl"`
		BadgerDir string `toml:"badger_dir"`

		Redis struct {
			Host     string `toml:"host"`
			Port     string `toml:"port"`
			Password string `toml:"password"`
			DB       int    `toml:"db"`
		} `toml:"redis"`
	} `toml:"cache"`
}

// settings is the resolved configuration after the file and flags are merged.
type settings struct {
	corpus         string
	migrations     string
	dsn            string
	fuzzy          bool
	trigramTimeout time.Duration
	cacheBackend   string
	cacheTTL       time.Duration
	badgerDir      string
	redis          cache.RedisConfig
}

func defaultSettings() settings {
	return settings{
		migrations:     "file://migrations",
		dsn:            os.Getenv("HADITH_DB_DSN"),
		fuzzy:          service.FuzzyEnabledFromEnv(),
		trigramTimeout: data.DefaultTrigramTimeout,
		cacheBackend:   "none",
		cacheTTL:       service.DefaultCacheTTL,
		badgerDir:      "./tmp/badger",
		redis:          cache.RedisConfig{Host: "localhost", Port: "6379", PoolSize: 2},
	}
}

func loadConfigFile(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fc, nil
}

// apply overlays every value set in the file onto s.
func (fc *fileConfig) apply(s *settings) error {
	if fc.Corpus != "" {
		s.corpus = fc.Corpus
	}
	if fc.Migrations != "" {
		s.migrations = fc.Migrations
	}
	if fc.Database.DSN != "" {
		s.dsn = fc.Database.DSN
	}
	if fc.Search.Fuzzy != nil {
		s.fuzzy = *fc.Search.Fuzzy
	}
	if fc.Search.TrigramTimeout != "" {
		d, err := time.ParseDuration(fc.Search.TrigramTimeout)
		if err != nil {
			return fmt.Errorf("search.trigram_timeout: %w", err)
		}
		s.trigramTimeout = d
	}

	if fc.Cache.Backend != "" {
		s.cacheBackend = fc.Cache.Backend
	}
	if fc.Cache.TTL != "" {
		d, err := time.ParseDuration(fc.Cache.TTL)
		if err != nil {
			return fmt.Errorf("cache.ttl: %w", err)
		}
		s.cacheTTL = d
	}
	if fc.Cache.BadgerDir != "" {
		s.badgerDir = fc.Cache.BadgerDir
	}

	r := fc.Cache.Redis
	if r.Host != "" {
		s.redis.Host = r.Host
	}
	if r.Port != "" {
		s.redis.Port = r.Port
	}
	if r.Password != "" {
		s.redis.Password = r.Password
	}
	if r.DB != 0 {
		s.redis.DB = r.DB
	}

	return nil
}
