package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/verte-zerg/shukong/internal/hanzi"
	"github.com/verte-zerg/shukong/internal/model"
)

// QueryHistory records stroke lookups. It is stored as
// [{"query","queryTime"(ms),"queryCount"}].
type QueryHistory struct {
	log *frequencyLog
}

// DictMapHistory records dict-map lookups. It is stored as
// [{"query","lastQueried"(ISO-8601),"count"}].
type DictMapHistory struct {
	log *frequencyLog
}

// NewQueryHistory loads the query history from backend.
func NewQueryHistory(ctx context.Context, backend Backend, opts ...Option) (*QueryHistory, error) {
	l, err := newFrequencyLog(ctx, backend, KeyQueryHistory, encodeQueryHistory, opts)
	if err != nil {
		return nil, err
	}
	return &QueryHistory{log: l}, nil
}

// NewDictMapHistory loads the dict-map history from backend.
func NewDictMapHistory(ctx context.Context, backend Backend, opts ...Option) (*DictMapHistory, error) {
	l, err := newFrequencyLog(ctx, backend, KeyDictMapHistory, encodeDictMapHistory, opts)
	if err != nil {
		return nil, err
	}
	return &DictMapHistory{log: l}, nil
}

// Record adds text or bumps its counter. Text without ideographs is ignored.
func (h *QueryHistory) Record(ctx context.Context, text string) error { return h.log.record(ctx, text) }

// List returns all records, most recent first.
func (h *QueryHistory) List() []model.HistoryRecord { return h.log.byRecency() }

// Latest returns up to n records, most recent first. n <= 0 means all.
func (h *QueryHistory) Latest(n int) []model.HistoryRecord { return limit(h.log.byRecency(), n) }

// Frequent returns up to n records with the highest counts. n <= 0 means all.
func (h *QueryHistory) Frequent(n int) []model.HistoryRecord { return limit(h.log.byFrequency(), n) }

// Clear drops every record and removes the stored key.
func (h *QueryHistory) Clear(ctx context.Context) error { return h.log.clear(ctx, true) }

// Record adds text or bumps its counter. Text without ideographs is ignored.
func (h *DictMapHistory) Record(ctx context.Context, text string) error {
	return h.log.record(ctx, text)
}

// List returns all records, most recent first.
func (h *DictMapHistory) List() []model.HistoryRecord { return h.log.byRecency() }

// Frequent returns up to n records with the highest counts. n <= 0 means all.
func (h *DictMapHistory) Frequent(n int) []model.HistoryRecord {
	return limit(h.log.byFrequency(), n)
}

// Clear drops every record, keeping an empty list in storage.
func (h *DictMapHistory) Clear(ctx context.Context) error { return h.log.clear(ctx, false) }

type frequencyLog struct {
	mu       sync.Mutex
	store    record
	capacity int
	clock    func() time.Time
	encode   func([]model.HistoryRecord) any
	records  []model.HistoryRecord
}

func newFrequencyLog(ctx context.Context, backend Backend, key string, encode func([]model.HistoryRecord) any, opts []Option) (*frequencyLog, error) {
	o := buildOptions(QueryHistoryCap, opts)
	l := &frequencyLog{
		store:    record{backend: backend, key: key, log: o.log},
		capacity: o.capacity,
		clock:    o.clock,
		encode:   encode,
	}
	raw, err := l.store.load(ctx)
	if err != nil {
		return nil, err
	}
	l.records = decodeHistoryRecords(raw)
	return l, nil
}

func (l *frequencyLog) record(ctx context.Context, text string) error {
	query := hanzi.Normalize(text)
	if query == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	found := false
	for i := range l.records {
		if l.records[i].Query == query {
			l.records[i].Count++
			l.records[i].LastQueried = now
			found = true
			break
		}
	}
	if !found {
		l.records = append(l.records, model.HistoryRecord{Query: query, LastQueried: now, Count: 1})
	}
	if len(l.records) > l.capacity {
		sortByRecency(l.records)
		l.records = l.records[:l.capacity]
	}
	return l.store.save(ctx, l.encode(l.records))
}

func (l *frequencyLog) list() []model.HistoryRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.HistoryRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *frequencyLog) byRecency() []model.HistoryRecord {
	out := l.list()
	sortByRecency(out)
	return out
}

func (l *frequencyLog) byFrequency() []model.HistoryRecord {
	out := l.list()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].LastQueried.After(out[j].LastQueried)
		}
		return out[i].Count > out[j].Count
	})
	return out
}

func (l *frequencyLog) clear(ctx context.Context, removeKey bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	if removeKey {
		return l.store.remove(ctx)
	}
	return l.store.save(ctx, []struct{}{})
}

func sortByRecency(records []model.HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastQueried.After(records[j].LastQueried)
	})
}

func limit(records []model.HistoryRecord, n int) []model.HistoryRecord {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[:n]
}

type queryHistoryItem struct {
	Query      string `json:"query"`
	QueryTime  int64  `json:"queryTime"`
	QueryCount int    `json:"queryCount"`
}

type dictMapHistoryItem struct {
	Query       string `json:"query"`
	LastQueried string `json:"lastQueried"`
	Count       int    `json:"count"`
}

func encodeQueryHistory(records []model.HistoryRecord) any {
	out := make([]queryHistoryItem, len(records))
	for i, r := range records {
		out[i] = queryHistoryItem{Query: r.Query, QueryTime: r.LastQueried.UnixMilli(), QueryCount: r.Count}
	}
	return out
}

func encodeDictMapHistory(records []model.HistoryRecord) any {
	out := make([]dictMapHistoryItem, len(records))
	for i, r := range records {
		out[i] = dictMapHistoryItem{
			Query:       r.Query,
			LastQueried: r.LastQueried.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			Count:       r.Count,
		}
	}
	return out
}

// decodeHistoryRecords accepts both stored shapes. Items without a usable
// query are skipped; duplicate queries are merged.
func decodeHistoryRecords(raw string) []model.HistoryRecord {
	if raw == "" || !gjson.Valid(raw) {
		return nil
	}
	var out []model.HistoryRecord
	index := map[string]int{}
	gjson.Parse(raw).ForEach(func(_, item gjson.Result) bool {
		query := hanzi.Normalize(item.Get("query").String())
		if query == "" {
			return true
		}
		count := int(firstOf(item, "count", "queryCount").Int())
		if count < 1 {
			count = 1
		}
		when := parseHistoryTime(firstOf(item, "lastQueried", "queryTime"))
		if i, ok := index[query]; ok {
			out[i].Count += count
			if when.After(out[i].LastQueried) {
				out[i].LastQueried = when
			}
			return true
		}
		index[query] = len(out)
		out = append(out, model.HistoryRecord{Query: query, LastQueried: when, Count: count})
		return true
	})
	return out
}

func firstOf(item gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := item.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func parseHistoryTime(v gjson.Result) time.Time {
	switch v.Type {
	case gjson.Number:
		return time.UnixMilli(v.Int())
	case gjson.String:
		if t, err := time.Parse(time.RFC3339Nano, v.String()); err == nil {
			return t
		}
	}
	return time.Time{}
}
