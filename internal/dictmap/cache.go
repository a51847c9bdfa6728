// Package dictmap implements the two-tier (memory + SQLite) dict-map cache.
package dictmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/shukong/internal/hanzi"
	"github.com/verte-zerg/shukong/internal/store"
)

// ErrPersistence wraps failures of the persistent tier.
var ErrPersistence = errors.New("dict-map persistence failure")

// Persistent opens scoped connections to the durable tier.
type Persistent interface {
	OpenDictMap(ctx context.Context) (*store.DictMapConn, error)
}

// Cache stores payloads keyed by Chinese-only text.
// Persistent-tier errors are logged and treated as a miss or a no-op.
type Cache struct {
	mu     sync.Mutex
	memory map[string]json.RawMessage
	db     Persistent
	log    zerolog.Logger
}

// New returns a Cache backed by db. A nil db keeps the cache memory-only.
func New(db Persistent, log zerolog.Logger) *Cache {
	return &Cache{
		memory: map[string]json.RawMessage{},
		db:     db,
		log:    log,
	}
}

// Key normalizes text into a cache key.
func Key(text string) string {
	return hanzi.Normalize(text)
}

// Get returns the payload for key, checking memory first and promoting persistent hits.
func (c *Cache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	key = Key(key)
	if key == "" {
		return nil, false
	}
	if value, ok := c.getMemory(key); ok {
		return value, true
	}
	value, ok, err := c.getPersistent(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("dict-map read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	c.setMemory(key, value)
	return value, true
}

// Put writes value to memory and then to the persistent tier.
func (c *Cache) Put(ctx context.Context, key string, value json.RawMessage) {
	key = Key(key)
	if key == "" || value == nil {
		return
	}
	c.setMemory(key, value)
	if err := c.putPersistent(ctx, key, value); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("dict-map write failed")
	}
}

// Clear empties both tiers.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.memory = map[string]json.RawMessage{}
	c.mu.Unlock()
	if err := c.clearPersistent(ctx); err != nil {
		c.log.Warn().Err(err).Msg("dict-map clear failed")
	}
}

// ClearMemory empties the memory tier only.
func (c *Cache) ClearMemory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory = map[string]json.RawMessage{}
}

// Len returns the number of memory-tier entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.memory)
}

// PersistentLen returns the number of durable entries.
func (c *Cache) PersistentLen(ctx context.Context) (int, error) {
	var n int
	err := c.withConn(ctx, func(conn *store.DictMapConn) error {
		var err error
		n, err = conn.Count(ctx)
		return err
	})
	return n, err
}

func (c *Cache) getMemory(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.memory[key]
	return value, ok
}

func (c *Cache) setMemory(key string, value json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory[key] = value
}

func (c *Cache) getPersistent(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var (
		value json.RawMessage
		found bool
	)
	err := c.withConn(ctx, func(conn *store.DictMapConn) error {
		var err error
		value, found, err = conn.Get(ctx, key)
		return err
	})
	return value, found, err
}

func (c *Cache) putPersistent(ctx context.Context, key string, value json.RawMessage) error {
	return c.withConn(ctx, func(conn *store.DictMapConn) error {
		return conn.Put(ctx, key, value)
	})
}

func (c *Cache) clearPersistent(ctx context.Context) error {
	return c.withConn(ctx, func(conn *store.DictMapConn) error {
		return conn.Clear(ctx)
	})
}

// withConn opens a scoped connection, runs fn and closes it on every path.
func (c *Cache) withConn(ctx context.Context, fn func(*store.DictMapConn) error) (err error) {
	if c.db == nil {
		return nil
	}
	conn, err := c.db.OpenDictMap(ctx)
	if err != nil {
		return fmt.Errorf("%w: open: %v", ErrPersistence, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			c.log.Debug().Err(cerr).Msg("dict-map close failed")
		}
	}()
	if err := fn(conn); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Stats reports the entry count of both tiers.
func (c *Cache) Stats(ctx context.Context) (memory, persistent int, err error) {
	persistent, err = c.PersistentLen(ctx)
	return c.Len(), persistent, err
}
