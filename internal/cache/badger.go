package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
)

const badgerGCInterval = 10 * time.Minute

type BadgerConfig struct {
	// Dir holds the value log and LSM tree. Ignored when InMemory is set.
	Dir      string
	InMemory bool
}

// BadgerCache is an embedded cache for single instance deployments. Entries
// carry their own TTL and expire inside Badger.
type BadgerCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewBadgerCache(cfg BadgerConfig, ttl time.Duration, logger *slog.Logger) (*BadgerCache, error) {
	opts := badger.DefaultOptions(cfg.Dir).WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}

	c := &BadgerCache{
		db:     db,
		ttl:    ttl,
		logger: logger,
		stop:   make(chan struct{}),
	}

	if !cfg.InMemory {
		c.wg.Add(1)
		go c.collectGarbage()
	}

	return c, nil
}

// collectGarbage reclaims value log space left by expired pages.
func (c *BadgerCache) collectGarbage() {
	defer c.wg.Done()

	ticker := time.NewTicker(badgerGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			for {
				err := c.db.RunValueLogGC(0.5)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						c.logger.Warn("badger value log gc failed", "error", err)
					}
					break
				}
			}
		}
	}
}

func (c *BadgerCache) Close() error {
	close(c.stop)
	c.wg.Wait()
	return c.db.Close()
}

func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %q from badger: %w", key, err)
	}

	return value, true, nil
}

func (c *BadgerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to write %q to badger: %w", key, err)
	}

	return nil
}

// Purge deletes every key with the given prefix.
func (c *BadgerCache) Purge(ctx context.Context, prefix string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	p := []byte(prefix)
	count := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = p

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(p); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan badger: %w", err)
	}

	if err := c.db.DropPrefix(p); err != nil {
		return 0, fmt.Errorf("failed to purge badger: %w", err)
	}

	return count, nil
}
