package report

import (
	"sort"

	"github.com/verte-zerg/shukong/internal/hanzi"
	"github.com/verte-zerg/shukong/internal/model"
)

// TopCharacters ranks the characters of history records by how often they
// were queried, summing record counts. Ties are broken by code point.
func TopCharacters(records []model.HistoryRecord, n int) []string {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	totals := map[string]int{}
	for _, r := range records {
		for _, ch := range hanzi.Chars(r.Query) {
			totals[ch] += r.Count
		}
	}
	chars := make([]string, 0, len(totals))
	for ch := range totals {
		chars = append(chars, ch)
	}
	sort.Slice(chars, func(i, j int) bool {
		if totals[chars[i]] == totals[chars[j]] {
			return chars[i] < chars[j]
		}
		return totals[chars[i]] > totals[chars[j]]
	})
	if len(chars) > n {
		chars = chars[:n]
	}
	return chars
}
