package strokedata

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/shukong/internal/hanzi"
)

// ErrDataSourceExhausted is logged when no source produced data for a character.
var ErrDataSourceExhausted = errors.New("all stroke data sources failed")

// Cache is the persistent tier consulted after memory and written on success.
type Cache interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool)
	Put(ctx context.Context, key string, value json.RawMessage)
}

// FirstSuccess tries sources strictly in order and returns the first result.
// Failures are logged per attempt and never returned.
func FirstSuccess(ctx context.Context, char string, sources []Source, log zerolog.Logger) (json.RawMessage, string, bool) {
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			log.Debug().Err(err).Str("char", char).Msg("resolution cancelled")
			return nil, "", false
		}
		data, err := src.Load(ctx, char)
		if err != nil {
			log.Debug().Err(err).Str("source", src.Name()).Str("char", char).Msg("stroke source failed")
			continue
		}
		if len(data) == 0 || string(data) == "null" {
			log.Debug().Str("source", src.Name()).Str("char", char).Msg("stroke source returned no data")
			continue
		}
		return data, src.Name(), true
	}
	return nil, "", false
}

// Resolver resolves stroke data with memoization.
type Resolver struct {
	sources []Source
	cache   Cache
	log     zerolog.Logger

	mu     sync.Mutex
	memory map[string]json.RawMessage
}

// NewResolver returns a Resolver over sources. cache may be nil.
func NewResolver(sources []Source, cache Cache, log zerolog.Logger) *Resolver {
	return &Resolver{
		sources: sources,
		cache:   cache,
		log:     log,
		memory:  map[string]json.RawMessage{},
	}
}

// Resolve returns stroke data for char, or nil when no data is available.
func (r *Resolver) Resolve(ctx context.Context, char string) json.RawMessage {
	if char == "" {
		return nil
	}
	if data, ok := r.fromMemory(char); ok {
		return data
	}
	key := hanzi.Normalize(char)
	if r.cache != nil && key != "" {
		if data, ok := r.cache.Get(ctx, key); ok {
			r.remember(char, data)
			return data
		}
	}
	data, source, ok := FirstSuccess(ctx, char, r.sources, r.log)
	if !ok {
		r.log.Error().Err(ErrDataSourceExhausted).Str("char", char).Msg("stroke data unavailable")
		return nil
	}
	r.log.Debug().Str("source", source).Str("char", char).Msg("stroke data resolved")
	r.remember(char, data)
	if r.cache != nil && key != "" {
		r.cache.Put(ctx, key, data)
	}
	return data
}

// ResolveAll resolves each ideograph of text in order. Missing data maps to nil.
func (r *Resolver) ResolveAll(ctx context.Context, text string) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	for _, ch := range hanzi.Unique(hanzi.Chars(text)) {
		out[ch] = r.Resolve(ctx, ch)
	}
	return out
}

// ForgetMemory drops memoized results.
func (r *Resolver) ForgetMemory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memory = map[string]json.RawMessage{}
}

// Memoized reports whether char is held in memory.
func (r *Resolver) Memoized(char string) bool {
	_, ok := r.fromMemory(char)
	return ok
}

func (r *Resolver) fromMemory(char string) (json.RawMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.memory[char]
	return data, ok
}

func (r *Resolver) remember(char string, data json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memory[char] = data
}
