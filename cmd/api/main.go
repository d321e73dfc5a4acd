// @title           Hadith Search API
// @version         1.0
// @description     Fuzzy multilingual search over hadith collections with numeric reference lookup and keyboard layout correction.

// @contact.name   API Support
// @contact.email  shuvoedward@gmail.com

// @host      localhost:4000
// @BasePath  /v1

package main

import (
	"context"
	"database/sql"
	"expvar"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"shuvoedward/hadith_search/internal/cache"
	"shuvoedward/hadith_search/internal/data"
	"shuvoedward/hadith_search/internal/ratelimit"
	"shuvoedward/hadith_search/internal/service"

	_ "github.com/lib/pq"
)

var (
	version = "1.0.0"
)

type config struct {
	port            int
	env             string
	shutdownTimeout time.Duration
	corpus          string
	migrations      string
	fuzzySearch     bool
	trigramTimeout  time.Duration

	db struct {
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}

	cache struct {
		backend   string
		ttl       time.Duration
		badgerDir string
	}

	ratelimit struct {
		enabled bool
		rps     float64
		burst   int
	}

	redisConfig cache.RedisConfig
}

type application struct {
	config       config
	logger       *slog.Logger
	rateLimiter  *ratelimit.RateLimiter
	healthChecks map[string]func(context.Context) error
}

func main() {
	var cfg config

	flag.IntVar(&cfg.port, "port", 4000, "API server port")
	flag.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")
	flag.DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", 30*time.Second, "Grace period for in-flight requests on shutdown")
	flag.StringVar(&cfg.corpus, "corpus", "", "Serve a JSON corpus from memory instead of PostgreSQL")
	flag.StringVar(&cfg.migrations, "migrations", "", "Apply migrations from this source on startup (e.g. file://migrations)")
	flag.BoolVar(&cfg.fuzzySearch, "enable-fuzzy-search", service.FuzzyEnabledFromEnv(), "Use trigram and keyword tiers (defaults from ENABLE_FUZZY_SEARCH)")
	flag.DurationVar(&cfg.trigramTimeout, "trigram-timeout", data.DefaultTrigramTimeout, "Statement timeout of the trigram tier")

	flag.StringVar(&cfg.db.dsn, "db-dsn", os.Getenv("HADITH_DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max connection idle time")

	flag.StringVar(&cfg.cache.backend, "cache-backend", "redis", "Result cache (redis|badger|none)")
	flag.DurationVar(&cfg.cache.ttl, "cache-ttl", service.DefaultCacheTTL, "Result cache TTL")
	flag.StringVar(&cfg.cache.badgerDir, "badger-dir", "./data/cache", "Badger cache directory")

	flag.BoolVar(&cfg.ratelimit.enabled, "rate-limit-enabled", true, "Enable per-IP rate limiting")
	flag.Float64Var(&cfg.ratelimit.rps, "rate-limit-rps", 10, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.ratelimit.burst, "rate-limit-burst", 20, "Rate limiter maximum burst")

	flag.StringVar(&cfg.redisConfig.Host, "redis-host", "localhost", "Redis Host")
	flag.StringVar(&cfg.redisConfig.Port, "redis-port", "6379", "Redis Port")
	flag.StringVar(&cfg.redisConfig.Password, "redis-password", "", "Redis Password")
	flag.IntVar(&cfg.redisConfig.DB, "redis-db", 0, "Redis DB")
	flag.IntVar(&cfg.redisConfig.PoolSize, "redis-poolsize", 10, "Redis Pool Size")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app := &application{
		config:       cfg,
		logger:       logger,
		healthChecks: make(map[string]func(context.Context) error),
	}

	models, closeStore, err := app.openStore()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer closeStore()

	resultCache, closeCache, err := app.openCache()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer closeCache()

	if cfg.ratelimit.enabled {
		app.rateLimiter = ratelimit.NewRateLimiter(cfg.ratelimit.rps, cfg.ratelimit.burst)
	}

	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	services := service.NewServices(models, resultCache, service.SearchConfig{
		FuzzyEnabled: cfg.fuzzySearch,
		CacheTTL:     cfg.cache.ttl,
	}, logger)

	handlers := NewHandlers(app, services)

	err = app.serve(handlers)
	if err != nil {
		logger.Error(err.Error())
		closeCache()
		closeStore()
		os.Exit(1)
	}
}

// openStore returns the models backed by PostgreSQL, or by an in-memory
// corpus when -corpus is set.
func (app *application) openStore() (data.Models, func(), error) {
	cfg := app.config

	if cfg.corpus != "" {
		f, err := os.Open(cfg.corpus)
		if err != nil {
			return data.Models{}, nil, err
		}
		defer f.Close()

		store, err := data.LoadMemoryStore(f)
		if err != nil {
			return data.Models{}, nil, err
		}

		app.logger.Info("serving in-memory corpus", "path", cfg.corpus)
		return store.Models(), func() {}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return data.Models{}, nil, err
	}
	app.logger.Info("Successful connection to database")

	if cfg.migrations != "" {
		if err := data.MigrateUp(db, cfg.migrations); err != nil {
			db.Close()
			return data.Models{}, nil, err
		}
		app.logger.Info("database migrations applied", "source", cfg.migrations)
	}

	app.healthChecks["database"] = db.PingContext
	expvar.Publish("database", expvar.Func(func() any {
		return db.Stats()
	}))

	return data.NewModels(db, cfg.trigramTimeout), func() { db.Close() }, nil
}

func (app *application) openCache() (service.ResultCache, func(), error) {
	cfg := app.config

	switch cfg.cache.backend {
	case "redis":
		redisClient, err := cache.NewRedisClient(cfg.redisConfig, cfg.cache.ttl)
		if err != nil {
			return nil, nil, err
		}
		app.logger.Info("Successful connection to redis")

		app.healthChecks["cache"] = redisClient.Ping
		return redisClient, func() { redisClient.Close() }, nil

	case "badger":
		badgerCache, err := cache.NewBadgerCache(cache.BadgerConfig{Dir: cfg.cache.badgerDir}, cfg.cache.ttl, app.logger)
		if err != nil {
			return nil, nil, err
		}
		app.logger.Info("opened badger cache", "dir", cfg.cache.badgerDir)

		return badgerCache, func() { badgerCache.Close() }, nil

	case "none":
		app.logger.Warn("result cache disabled")
		return nil, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.cache.backend)
	}
}

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	db.SetMaxIdleConns(cfg.db.maxIdleConns)
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
