package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/verte-zerg/shukong/internal/dictmap"
	"github.com/verte-zerg/shukong/internal/hanzi"
	"github.com/verte-zerg/shukong/internal/model"
	"github.com/verte-zerg/shukong/internal/strokedata"
)

// ErrEmptyQuery is returned when a query has no ideographs.
var ErrEmptyQuery = errors.New("query contains no Chinese characters")

// CharLookup is the resolution result for one character.
type CharLookup struct {
	Char    string
	Strokes int
	Data    json.RawMessage
}

// Found reports whether stroke data was resolved.
func (c CharLookup) Found() bool {
	return c.Data != nil
}

// Lookup records text in the query history and resolves stroke data for each
// distinct character.
func (c *Container) Lookup(ctx context.Context, text string) ([]CharLookup, error) {
	chars := hanzi.Unique(hanzi.Chars(text))
	if len(chars) == 0 {
		return nil, ErrEmptyQuery
	}
	if err := c.Queries.Record(ctx, text); err != nil {
		return nil, fmt.Errorf("failed to record query: %w", err)
	}
	out := make([]CharLookup, 0, len(chars))
	for _, ch := range chars {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		data := c.Resolver.Resolve(ctx, ch)
		out = append(out, CharLookup{Char: ch, Strokes: strokedata.StrokeCount(data), Data: data})
	}
	return out, nil
}

// DictMap records text in the dict-map history and breaks it down into its
// characters. Stroke data comes through the resolver, so characters already
// in the two-tier cache are served without a network round trip.
func (c *Container) DictMap(ctx context.Context, text string) (model.DictMapEntry, error) {
	key := dictmap.Key(text)
	if key == "" {
		return model.DictMapEntry{}, ErrEmptyQuery
	}
	if err := c.DictMapHistory.Record(ctx, key); err != nil {
		return model.DictMapEntry{}, fmt.Errorf("failed to record dict-map query: %w", err)
	}

	entry := model.DictMapEntry{Query: key}
	for _, ch := range hanzi.Unique(hanzi.Chars(key)) {
		if err := ctx.Err(); err != nil {
			return entry, err
		}
		cached := c.Resolver.Memoized(ch)
		if !cached {
			_, cached = c.Cache.Get(ctx, ch)
		}
		raw := c.Resolver.Resolve(ctx, ch)
		if raw == nil {
			entry.Missing = append(entry.Missing, ch)
			continue
		}
		parsed, err := strokedata.Parse(raw)
		if err != nil {
			c.Log.Warn().Err(err).Str("char", ch).Msg("unreadable stroke data")
			entry.Missing = append(entry.Missing, ch)
			continue
		}
		entry.Characters = append(entry.Characters, model.DictMapChar{
			Char:           ch,
			Strokes:        len(parsed.Strokes),
			RadicalStrokes: parsed.RadStrokes,
			Cached:         cached,
		})
	}
	return entry, nil
}

// ClearCaches empties the resolver memory and both cache tiers.
func (c *Container) ClearCaches(ctx context.Context) {
	c.Resolver.ForgetMemory()
	c.Cache.Clear(ctx)
}
