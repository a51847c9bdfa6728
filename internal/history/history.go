// Package history implements the bounded, persisted user collections:
// query history, dict-map history, quiz history, the stroke game leaderboard,
// the wordbook and the character cart.
//
// Every store is rehydrated once at construction, mutated only through its
// methods, and written back synchronously at the end of each mutation.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Storage keys shared with the original application data.
const (
	KeyQueryHistory   = "queryHistory"
	KeyDictMapHistory = "dictmap-history"
	KeyQuizHistory    = "quizHistory"
	KeyLeaderboard    = "strokeGame_leaderboard"
	KeyWordbook       = "wordbook"
	KeyCart           = "cartItems"
)

// Default capacities.
const (
	QueryHistoryCap = 1000
	QuizHistoryCap  = 10
	LeaderboardCap  = 10
	WordbookCap     = 1000
	CartCharCap     = 1000
)

// Backend is key-scoped string storage.
type Backend interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Option customizes a store.
type Option func(*options)

type options struct {
	clock    func() time.Time
	log      zerolog.Logger
	capacity int
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithLogger sets the logger used for recoverable load problems.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithCapacity overrides the store's bound. Values <= 0 are ignored.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

func buildOptions(capacity int, opts []Option) options {
	o := options{clock: time.Now, log: zerolog.Nop(), capacity: capacity}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// record is the persisted form of one store.
type record struct {
	backend Backend
	key     string
	log     zerolog.Logger
}

// load returns the raw JSON stored under the key. Absent keys yield "".
func (r record) load(ctx context.Context) (string, error) {
	raw, ok, err := r.backend.GetItem(ctx, r.key)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", r.key, err)
	}
	if !ok {
		return "", nil
	}
	return raw, nil
}

// decode unmarshals raw into v. Corrupt data is logged and treated as empty.
func (r record) decode(raw string, v any) {
	if raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		r.log.Warn().Err(err).Str("key", r.key).Msg("discarding unreadable record")
	}
}

func (r record) save(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.key, err)
	}
	if err := r.backend.SetItem(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", r.key, err)
	}
	return nil
}

func (r record) remove(ctx context.Context) error {
	if err := r.backend.RemoveItem(ctx, r.key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", r.key, err)
	}
	return nil
}
