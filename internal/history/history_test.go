package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/shukong/internal/model"
	"github.com/verte-zerg/shukong/internal/store"
)

func openBackend(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "shukong.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// stepClock returns a clock advancing one second per call.
func stepClock() func() time.Time {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// ideograph returns a distinct ideograph per index.
func ideograph(i int) string {
	return string(rune(0x4E00 + i))
}

func TestQueryHistoryNormalizesAndCounts(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	h, err := NewQueryHistory(ctx, st, WithClock(stepClock()))
	require.NoError(t, err)

	for _, q := range []string{"你好", "你好！！", "123"} {
		require.NoError(t, h.Record(ctx, q))
	}
	records := h.List()
	require.Len(t, records, 1)
	require.Equal(t, "你好", records[0].Query)
	require.Equal(t, 2, records[0].Count)

	reloaded, err := NewQueryHistory(ctx, st)
	require.NoError(t, err)
	require.Equal(t, records[0].Count, reloaded.List()[0].Count)
	require.True(t, records[0].LastQueried.Equal(reloaded.List()[0].LastQueried))
}

func TestQueryHistoryBound(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	const bound = 20
	h, err := NewQueryHistory(ctx, st, WithClock(stepClock()), WithCapacity(bound))
	require.NoError(t, err)

	for i := 0; i < bound+5; i++ {
		require.NoError(t, h.Record(ctx, ideograph(i)))
	}
	records := h.List()
	require.Len(t, records, bound)
	kept := map[string]bool{}
	for _, r := range records {
		kept[r.Query] = true
	}
	for i := 0; i < 5; i++ {
		require.False(t, kept[ideograph(i)], "oldest record %d should be evicted", i)
	}
	for i := 5; i < bound+5; i++ {
		require.True(t, kept[ideograph(i)], "recent record %d should be kept", i)
	}
}

func TestQueryHistoryViews(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	h, err := NewQueryHistory(ctx, st, WithClock(stepClock()))
	require.NoError(t, err)

	for _, q := range []string{"水", "火", "水", "木", "水", "火"} {
		require.NoError(t, h.Record(ctx, q))
	}
	latest := h.Latest(2)
	require.Equal(t, []string{"火", "水"}, queries(latest))

	frequent := h.Frequent(0)
	require.Equal(t, []string{"水", "火", "木"}, queries(frequent))
	require.Equal(t, 3, frequent[0].Count)

	require.Equal(t, []string{"火", "水", "木"}, queries(h.List()))
	require.Equal(t, []string{"水", "火", "木"}, queries(h.Frequent(0)), "views are recomputed on every call")

	require.NoError(t, h.Clear(ctx))
	require.Empty(t, h.List())
	_, ok, err := st.GetItem(ctx, KeyQueryHistory)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDictMapHistoryReadsLegacyShapes(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	legacy := `[
		{"query":"山","lastQueried":"2024-01-02T03:04:05.000Z","count":3},
		{"query":"川","queryTime":1704164646000,"queryCount":2},
		{"query":"abc","count":9},
		{"count":1}
	]`
	require.NoError(t, st.SetItem(ctx, KeyDictMapHistory, legacy))

	h, err := NewDictMapHistory(ctx, st, WithClock(stepClock()))
	require.NoError(t, err)
	list := h.List()
	require.Equal(t, []string{"川", "山"}, queries(list))
	require.Equal(t, 2, list[0].Count)

	require.NoError(t, h.Record(ctx, "山!"))
	require.Equal(t, "山", h.List()[0].Query)
	require.Equal(t, 4, h.List()[0].Count)

	raw, ok, err := st.GetItem(ctx, KeyDictMapHistory)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, raw, `"lastQueried":"2024-03-01T08:00:01.000Z"`)

	require.NoError(t, h.Clear(ctx))
	raw, _, err = st.GetItem(ctx, KeyDictMapHistory)
	require.NoError(t, err)
	require.Equal(t, "[]", raw)
}

func TestCorruptRecordStartsEmpty(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	require.NoError(t, st.SetItem(ctx, KeyWordbook, "not json"))
	w, err := NewWordbook(ctx, st)
	require.NoError(t, err)
	require.Empty(t, w.Characters())
}

func TestQuizHistory(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	h, err := NewQuizHistory(ctx, st, WithClock(stepClock()))
	require.NoError(t, err)

	content := []string{"春眠不觉晓", "处处闻啼鸟"}
	rec, err := h.Record(ctx, content, 3, false)
	require.NoError(t, err)
	require.Equal(t, ContentHash(content), rec.ID)
	require.Equal(t, 10, rec.TotalChars)

	rec, err = h.Record(ctx, content, 1, false)
	require.NoError(t, err)
	require.Len(t, h.List(), 1)
	require.Equal(t, 1, rec.ErrorCount)

	_, err = h.Record(ctx, content, 0, true)
	require.NoError(t, err)
	require.Len(t, h.List(), 2)

	for i := 0; i < QuizHistoryCap+3; i++ {
		_, err := h.Record(ctx, []string{ideograph(i)}, i, false)
		require.NoError(t, err)
	}
	list := h.List()
	require.Len(t, list, QuizHistoryCap)
	require.Equal(t, []string{ideograph(QuizHistoryCap + 2)}, list[0].Content)

	reloaded, err := NewQuizHistory(ctx, st)
	require.NoError(t, err)
	require.Equal(t, list[0].ID, reloaded.List()[0].ID)
	require.Equal(t, list[0].ErrorCount, reloaded.List()[0].ErrorCount)

	require.NoError(t, h.Clear(ctx))
	require.Empty(t, h.List())
}

func TestQuizHistoryNormalizesContent(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	h, err := NewQuizHistory(ctx, st, WithClock(stepClock()))
	require.NoError(t, err)

	rec, err := h.Record(ctx, []string{"", "abc", "  "}, 2, false)
	require.NoError(t, err)
	require.Empty(t, rec.ID)
	require.Empty(t, h.List())
	_, ok, err := st.GetItem(ctx, KeyQuizHistory)
	require.NoError(t, err)
	require.False(t, ok)

	first, err := h.Record(ctx, []string{"你好"}, 1, false)
	require.NoError(t, err)
	second, err := h.Record(ctx, []string{"你好！", "abc"}, 4, false)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, ContentHash([]string{"你好"}), second.ID)

	list := h.List()
	require.Len(t, list, 1)
	require.Equal(t, []string{"你好"}, list[0].Content)
	require.Equal(t, 2, list[0].TotalChars)
	require.Equal(t, 4, list[0].ErrorCount)
}

func TestQuizHistoryAcceptsLegacyID(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	require.NoError(t, st.SetItem(ctx, KeyQuizHistory, `[{"id":"abc","content":["一"],"totalChars":1,"errorCount":2}]`))
	h, err := NewQuizHistory(ctx, st)
	require.NoError(t, err)
	require.Equal(t, "abc", h.List()[0].ID)
}

func TestLeaderboardFiltersAndBounds(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b, err := NewLeaderboard(ctx, st, WithCapacity(2), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	for i, score := range []int{5, 30, 12, 0, -3, 30} {
		_, err := b.AddScore(ctx, score, fmt.Sprintf("p%d", i), "avatars/01.png")
		require.NoError(t, err)
	}
	list := b.List()
	require.Len(t, list, 2)
	require.Equal(t, 30, list[0].Score)
	require.Equal(t, 30, list[1].Score)
	require.Equal(t, "p1", list[0].Nickname, "ties keep insertion order")
	require.Equal(t, "p5", list[1].Nickname)
	require.Equal(t, "2024/5/1 12:00:00", list[0].Date)
}

func TestLeaderboardRankAndTieByTimestamp(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	b, err := NewLeaderboard(ctx, st, WithClock(stepClock()))
	require.NoError(t, err)

	rank, err := b.AddScore(ctx, 10, "a", "")
	require.NoError(t, err)
	require.Equal(t, 1, rank)
	rank, err = b.AddScore(ctx, 10, "b", "")
	require.NoError(t, err)
	require.Equal(t, 2, rank)
	rank, err = b.AddScore(ctx, 11, "c", "")
	require.NoError(t, err)
	require.Equal(t, 1, rank)
	rank, err = b.AddScore(ctx, 0, "d", "")
	require.NoError(t, err)
	require.Equal(t, 0, rank)

	for i := 0; i < LeaderboardCap; i++ {
		_, err := b.AddScore(ctx, 50, "x", "")
		require.NoError(t, err)
	}
	rank, err = b.AddScore(ctx, 1, "late", "")
	require.NoError(t, err)
	require.Equal(t, 0, rank)
	require.Len(t, b.List(), LeaderboardCap)

	reloaded, err := NewLeaderboard(ctx, st)
	require.NoError(t, err)
	require.Equal(t, b.List(), reloaded.List())
}

func TestWordbook(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	w, err := NewWordbook(ctx, st, WithClock(stepClock()), WithCapacity(3))
	require.NoError(t, err)

	require.NoError(t, w.AddWords(ctx, []string{" 山 ", "", "水", "abc"}))
	require.NoError(t, w.Add(ctx, "山"))
	require.Equal(t, []string{"山", "水"}, w.Characters())

	require.NoError(t, w.Add(ctx, "火"))
	require.NoError(t, w.Add(ctx, "木"))
	require.Equal(t, []string{"木", "火", "山"}, w.Characters(), "oldest entry evicted")

	in, err := w.Toggle(ctx, "火")
	require.NoError(t, err)
	require.False(t, in)
	require.False(t, w.Contains("火"))
	in, err = w.Toggle(ctx, "火")
	require.NoError(t, err)
	require.True(t, in)

	removed, err := w.Remove(ctx, "金")
	require.NoError(t, err)
	require.False(t, removed)

	reloaded, err := NewWordbook(ctx, st)
	require.NoError(t, err)
	require.Equal(t, w.Characters(), reloaded.Characters())

	require.NoError(t, w.Clear(ctx))
	require.Empty(t, w.Characters())
}

func TestCart(t *testing.T) {
	st := openBackend(t)
	ctx := context.Background()
	c, err := NewCart(ctx, st, WithCapacity(4))
	require.NoError(t, err)

	added, err := c.Add(ctx, "春天")
	require.NoError(t, err)
	require.True(t, added)
	added, err = c.Add(ctx, "春天")
	require.NoError(t, err)
	require.False(t, added, "duplicates are rejected")
	added, err = c.Add(ctx, "夏天来了")
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, 6, c.CountCharacters())
	added, err = c.Add(ctx, "秋")
	require.NoError(t, err)
	require.False(t, added, "full cart rejects additions")

	removed, err := c.Remove(ctx, "春天")
	require.NoError(t, err)
	require.True(t, removed)

	reloaded, err := NewCart(ctx, st)
	require.NoError(t, err)
	require.Equal(t, []string{"夏天来了"}, reloaded.Items())

	require.NoError(t, c.Clear(ctx))
	require.Empty(t, c.Items())
}

func queries(records []model.HistoryRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Query
	}
	return out
}
