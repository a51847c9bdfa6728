package history

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/shukong/internal/hanzi"
	"github.com/verte-zerg/shukong/internal/model"
)

// Wordbook is the user's list of words to review. Entries are kept oldest first.
type Wordbook struct {
	mu       sync.Mutex
	store    record
	capacity int
	clock    func() time.Time
	entries  []model.WordbookEntry
}

// NewWordbook loads the wordbook from backend.
func NewWordbook(ctx context.Context, backend Backend, opts ...Option) (*Wordbook, error) {
	o := buildOptions(WordbookCap, opts)
	w := &Wordbook{
		store:    record{backend: backend, key: KeyWordbook, log: o.log},
		capacity: o.capacity,
		clock:    o.clock,
	}
	raw, err := w.store.load(ctx)
	if err != nil {
		return nil, err
	}
	w.store.decode(raw, &w.entries)
	sort.SliceStable(w.entries, func(i, j int) bool {
		return w.entries[i].Timestamp < w.entries[j].Timestamp
	})
	w.evict()
	return w, nil
}

// Add stores word as the newest entry. Re-adding moves it to the end.
func (w *Wordbook) Add(ctx context.Context, word string) error {
	word = hanzi.Normalize(word)
	if word == "" {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.add(word)
	return w.save(ctx)
}

// AddWords adds each non-blank word in order and saves once.
func (w *Wordbook) AddWords(ctx context.Context, words []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	changed := false
	for _, word := range words {
		word = hanzi.Normalize(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		w.add(word)
		changed = true
	}
	if !changed {
		return nil
	}
	return w.save(ctx)
}

// Remove deletes word and reports whether it was present.
func (w *Wordbook) Remove(ctx context.Context, word string) (bool, error) {
	word = hanzi.Normalize(word)
	w.mu.Lock()
	defer w.mu.Unlock()
	idx := w.indexOf(word)
	if idx < 0 {
		return false, nil
	}
	w.entries = append(w.entries[:idx], w.entries[idx+1:]...)
	return true, w.save(ctx)
}

// Toggle removes word when present and adds it otherwise.
// It reports whether the word is in the wordbook afterwards.
func (w *Wordbook) Toggle(ctx context.Context, word string) (bool, error) {
	if w.Contains(word) {
		_, err := w.Remove(ctx, word)
		return false, err
	}
	if hanzi.Normalize(word) == "" {
		return false, nil
	}
	return true, w.Add(ctx, word)
}

// Contains reports whether word is in the wordbook.
func (w *Wordbook) Contains(word string) bool {
	word = hanzi.Normalize(word)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.indexOf(word) >= 0
}

// Characters returns the words, newest first.
func (w *Wordbook) Characters() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.entries))
	for i := len(w.entries) - 1; i >= 0; i-- {
		out = append(out, w.entries[i].Word)
	}
	return out
}

// Entries returns the stored entries, oldest first.
func (w *Wordbook) Entries() []model.WordbookEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]model.WordbookEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Clear empties the wordbook.
func (w *Wordbook) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = nil
	return w.save(ctx)
}

func (w *Wordbook) add(word string) {
	if idx := w.indexOf(word); idx >= 0 {
		w.entries = append(w.entries[:idx], w.entries[idx+1:]...)
	}
	w.entries = append(w.entries, model.WordbookEntry{Word: word, Timestamp: w.clock().UnixMilli()})
	w.evict()
}

func (w *Wordbook) evict() {
	if len(w.entries) > w.capacity {
		w.entries = w.entries[len(w.entries)-w.capacity:]
	}
}

func (w *Wordbook) indexOf(word string) int {
	for i, e := range w.entries {
		if e.Word == word {
			return i
		}
	}
	return -1
}

func (w *Wordbook) save(ctx context.Context) error {
	if w.entries == nil {
		return w.store.save(ctx, []model.WordbookEntry{})
	}
	return w.store.save(ctx, w.entries)
}
