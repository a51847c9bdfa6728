package history

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/shukong/internal/hanzi"
	"github.com/verte-zerg/shukong/internal/model"
)

// QuizHistory keeps the most recent quizzes, newest first.
type QuizHistory struct {
	mu       sync.Mutex
	store    record
	capacity int
	clock    func() time.Time
	records  []model.QuizHistoryRecord
}

type quizHistoryItem struct {
	UUID       string   `json:"uuid"`
	LegacyID   string   `json:"id,omitempty"`
	StartTime  string   `json:"startTime"`
	Content    []string `json:"content"`
	TotalChars int      `json:"totalChars"`
	ErrorCount int      `json:"errorCount"`
}

// NewQuizHistory loads quiz history from backend.
func NewQuizHistory(ctx context.Context, backend Backend, opts ...Option) (*QuizHistory, error) {
	o := buildOptions(QuizHistoryCap, opts)
	h := &QuizHistory{
		store:    record{backend: backend, key: KeyQuizHistory, log: o.log},
		capacity: o.capacity,
		clock:    o.clock,
	}
	raw, err := h.store.load(ctx)
	if err != nil {
		return nil, err
	}
	var items []quizHistoryItem
	h.store.decode(raw, &items)
	for _, item := range items {
		id := item.UUID
		if id == "" {
			id = item.LegacyID
		}
		if id == "" {
			id = ContentHash(item.Content)
		}
		started, _ := time.Parse(time.RFC3339Nano, item.StartTime)
		h.records = append(h.records, model.QuizHistoryRecord{
			ID:         id,
			StartTime:  started,
			Content:    item.Content,
			TotalChars: item.TotalChars,
			ErrorCount: item.ErrorCount,
		})
	}
	if len(h.records) > h.capacity {
		h.records = h.records[:h.capacity]
	}
	return h, nil
}

// ContentHash identifies quiz content: MD5 of the concatenated lines.
func ContentHash(content []string) string {
	sum := md5.Sum([]byte(strings.Join(content, "")))
	return hex.EncodeToString(sum[:])
}

// Record stores a quiz result. Lines are reduced to ideographs and blank lines
// dropped; content with nothing left is ignored. When the newest record has
// the same content and forceNew is false only its error count is updated;
// otherwise a new record is prepended.
func (h *QuizHistory) Record(ctx context.Context, content []string, errors int, forceNew bool) (model.QuizHistoryRecord, error) {
	content = normalizeLines(content)
	if len(content) == 0 {
		return model.QuizHistoryRecord{}, nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	id := ContentHash(content)
	if len(h.records) > 0 && h.records[0].ID == id && !forceNew {
		h.records[0].ErrorCount = errors
	} else {
		total := 0
		for _, line := range content {
			total += utf8.RuneCountInString(line)
		}
		lines := make([]string, len(content))
		copy(lines, content)
		rec := model.QuizHistoryRecord{
			ID:         id,
			StartTime:  h.clock(),
			Content:    lines,
			TotalChars: total,
			ErrorCount: errors,
		}
		h.records = append([]model.QuizHistoryRecord{rec}, h.records...)
	}
	if len(h.records) > h.capacity {
		h.records = h.records[:h.capacity]
	}
	return h.records[0], h.store.save(ctx, h.encode())
}

// List returns the records, newest first.
func (h *QuizHistory) List() []model.QuizHistoryRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.QuizHistoryRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Clear drops every record and removes the stored key.
func (h *QuizHistory) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	return h.store.remove(ctx)
}

func normalizeLines(content []string) []string {
	var out []string
	for _, line := range content {
		if line = hanzi.Normalize(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (h *QuizHistory) encode() []quizHistoryItem {
	out := make([]quizHistoryItem, len(h.records))
	for i, r := range h.records {
		out[i] = quizHistoryItem{
			UUID:       r.ID,
			StartTime:  r.StartTime.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			Content:    r.Content,
			TotalChars: r.TotalChars,
			ErrorCount: r.ErrorCount,
		}
	}
	return out
}
