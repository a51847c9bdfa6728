package quiz

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/verte-zerg/shukong/internal/hanzi"
	"github.com/verte-zerg/shukong/internal/model"
	"github.com/verte-zerg/shukong/internal/resource"
)

// BankPath is the bundled quiz bank asset.
const BankPath = "quiz.json"

// LoadBank reads the quiz bank. Failures are logged and yield an empty bank.
func LoadBank(ctx context.Context, loader resource.Loader, log zerolog.Logger) []model.QuizBankItem {
	raw, err := loader.Load(ctx, BankPath)
	if err != nil {
		log.Warn().Err(err).Str("path", BankPath).Msg("failed to load quiz bank")
		return nil
	}
	var items []model.QuizBankItem
	gjson.GetBytes(raw, "data").ForEach(func(_, item gjson.Result) bool {
		entry := model.QuizBankItem{Title: item.Get("title").String()}
		for _, line := range item.Get("content").Array() {
			entry.Content = append(entry.Content, line.String())
		}
		items = append(items, entry)
		return true
	})
	return items
}

// WordPool is the set of characters used for random practice.
type WordPool struct {
	rnd   *rand.Rand
	chars []string
	seen  map[string]struct{}
}

// NewWordPool returns an empty pool seeded with the current time.
func NewWordPool() *WordPool {
	return NewWordPoolWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWordPoolWithRand returns an empty pool using rnd.
func NewWordPoolWithRand(rnd *rand.Rand) *WordPool {
	return &WordPool{rnd: rnd, seen: map[string]struct{}{}}
}

// AddBank adds every ideograph found in the bank.
func (p *WordPool) AddBank(items []model.QuizBankItem) {
	for _, item := range items {
		p.AddLines(item.Content)
	}
}

// AddHistory adds every ideograph found in past quizzes.
func (p *WordPool) AddHistory(records []model.QuizHistoryRecord) {
	for _, rec := range records {
		p.AddLines(rec.Content)
	}
}

// AddLines adds every ideograph of lines.
func (p *WordPool) AddLines(lines []string) {
	for _, line := range lines {
		for _, ch := range hanzi.Chars(line) {
			if _, ok := p.seen[ch]; ok {
				continue
			}
			p.seen[ch] = struct{}{}
			p.chars = append(p.chars, ch)
		}
	}
}

// Len returns the number of distinct characters.
func (p *WordPool) Len() int {
	return len(p.chars)
}

// Random returns up to n distinct characters in random order.
func (p *WordPool) Random(n int) []string {
	if n <= 0 || len(p.chars) == 0 {
		return nil
	}
	shuffled := make([]string, len(p.chars))
	copy(shuffled, p.chars)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := p.rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// Draw picks n characters with replacement. Characters in focus are weighted
// by 1+factor so they come up more often.
func (p *WordPool) Draw(n int, focus map[string]struct{}, factor float64) []string {
	if n <= 0 || len(p.chars) == 0 {
		return nil
	}
	weights := make([]float64, len(p.chars))
	total := 0.0
	for i, ch := range p.chars {
		w := 1.0
		if _, ok := focus[ch]; ok && factor > 0 {
			w += factor
		}
		weights[i] = w
		total += w
	}

	result := make([]string, 0, n)
	for i := 0; i < n; i++ {
		r := p.rnd.Float64() * total
		acc := 0.0
		idx := len(weights) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, p.chars[idx])
	}
	return result
}
