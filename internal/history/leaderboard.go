package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/verte-zerg/shukong/internal/model"
)

// DateLayout renders the human-readable date kept on leaderboard records.
const DateLayout = "2006/1/2 15:04:05"

// Leaderboard keeps the highest stroke game scores.
// Equal scores are ordered by timestamp, earliest first, then by insertion.
type Leaderboard struct {
	mu       sync.Mutex
	store    record
	capacity int
	clock    func() time.Time
	records  []model.LeaderboardRecord
}

// NewLeaderboard loads the leaderboard from backend.
func NewLeaderboard(ctx context.Context, backend Backend, opts ...Option) (*Leaderboard, error) {
	o := buildOptions(LeaderboardCap, opts)
	b := &Leaderboard{
		store:    record{backend: backend, key: KeyLeaderboard, log: o.log},
		capacity: o.capacity,
		clock:    o.clock,
	}
	raw, err := b.store.load(ctx)
	if err != nil {
		return nil, err
	}
	b.store.decode(raw, &b.records)
	b.rank()
	return b, nil
}

// AddScore records score for the given player. Non-positive scores are ignored.
// It returns the 1-based rank of the new record, or 0 when it did not place.
func (b *Leaderboard) AddScore(ctx context.Context, score int, nickname, avatar string) (int, error) {
	if score <= 0 {
		return 0, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock()
	rec := model.LeaderboardRecord{
		Score:     score,
		Timestamp: now.UnixMilli(),
		Date:      now.Format(DateLayout),
		Nickname:  nickname,
		Avatar:    avatar,
	}
	b.records = append(b.records, rec)
	newIdx := len(b.records) - 1
	order := make([]int, len(b.records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return less(b.records[order[i]], b.records[order[j]])
	})
	ranked := make([]model.LeaderboardRecord, 0, len(order))
	rank := 0
	for pos, idx := range order {
		if pos >= b.capacity {
			break
		}
		if idx == newIdx {
			rank = pos + 1
		}
		ranked = append(ranked, b.records[idx])
	}
	b.records = ranked
	return rank, b.store.save(ctx, b.records)
}

// List returns the ranked records.
func (b *Leaderboard) List() []model.LeaderboardRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.LeaderboardRecord, len(b.records))
	copy(out, b.records)
	return out
}

// Clear drops every record and removes the stored key.
func (b *Leaderboard) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
	return b.store.remove(ctx)
}

func (b *Leaderboard) rank() {
	kept := b.records[:0]
	for _, r := range b.records {
		if r.Score > 0 {
			kept = append(kept, r)
		}
	}
	b.records = kept
	sort.SliceStable(b.records, func(i, j int) bool { return less(b.records[i], b.records[j]) })
	if len(b.records) > b.capacity {
		b.records = b.records[:b.capacity]
	}
}

func less(a, b model.LeaderboardRecord) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Timestamp < b.Timestamp
}
