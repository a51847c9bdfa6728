package gameui

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
)

type countResolver map[string]int

func (r countResolver) Resolve(_ context.Context, char string) json.RawMessage {
	n, ok := r[char]
	if !ok {
		return nil
	}
	strokes := make([]string, n)
	for i := range strokes {
		strokes[i] = "M"
	}
	raw, _ := json.Marshal(map[string]any{"strokes": strokes})
	return raw
}

type memoryBoard struct {
	scores []int
	name   string
}

func (b *memoryBoard) AddScore(_ context.Context, score int, nickname, _ string) (int, error) {
	if score <= 0 {
		return 0, nil
	}
	b.scores = append(b.scores, score)
	b.name = nickname
	return len(b.scores), nil
}

func load(m *Model) {
	if !m.loading {
		return
	}
	cmd := m.loadRound()
	_, next := m.Update(cmd())
	for next != nil {
		msg := next()
		if _, ok := msg.(roundLoadedMsg); !ok {
			return
		}
		_, next = m.Update(msg)
	}
}

func answer(m *Model, value string) {
	m.input.SetValue(value)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		return
	}
	if msg, ok := cmd().(roundLoadedMsg); ok {
		_, next := m.Update(msg)
		for next != nil {
			msg, ok := next().(roundLoadedMsg)
			if !ok {
				return
			}
			_, next = m.Update(msg)
		}
	}
}

func newGame(chars []string, board ScoreBoard) *Model {
	m := NewModel(context.Background(), chars, countResolver{"一": 1, "十": 2, "山": 3, "木": 4}, board, Options{Nickname: "玩家"})
	m.loading = true
	load(m)
	return m
}

func TestGameScoresAndStreaks(t *testing.T) {
	board := &memoryBoard{}
	m := newGame([]string{"一", "十", "山", "木"}, board)

	answer(m, "1")
	answer(m, "2")
	answer(m, "3")
	if m.Score() != 3*PointsPerHit+StreakBonus {
		t.Fatalf("unexpected score after streak: %d", m.Score())
	}
	answer(m, "9")
	if !m.Finished() {
		t.Fatalf("expected game over after last round")
	}
	if m.Score() != 35 || m.hits != 3 || m.answered != 4 {
		t.Fatalf("unexpected tally: score=%d hits=%d answered=%d", m.Score(), m.hits, m.answered)
	}
	if len(board.scores) != 1 || board.scores[0] != 35 || board.name != "玩家" {
		t.Fatalf("unexpected board: %+v", board)
	}
	if m.Rank() != 1 {
		t.Fatalf("expected rank 1, got %d", m.Rank())
	}
	if !strings.Contains(m.View(), "Leaderboard rank #1") {
		t.Fatalf("expected rank in summary")
	}
}

func TestGameSkipsCharactersWithoutData(t *testing.T) {
	m := newGame([]string{"龘", "一"}, nil)
	if m.round != 1 || m.skipped != 1 {
		t.Fatalf("expected skip to second round, round=%d skipped=%d", m.round, m.skipped)
	}
	answer(m, "1")
	if !m.Finished() || m.Score() != PointsPerHit {
		t.Fatalf("unexpected end state: finished=%v score=%d", m.Finished(), m.Score())
	}
}

func TestGameTimeoutFinishes(t *testing.T) {
	board := &memoryBoard{}
	m := newGame([]string{"一", "十"}, board)
	answer(m, "1")
	_, _ = m.Update(timer.TimeoutMsg{ID: m.clock.ID()})
	if !m.Finished() {
		t.Fatalf("expected timeout to end the game")
	}
	if len(board.scores) != 1 || board.scores[0] != PointsPerHit {
		t.Fatalf("unexpected board: %+v", board.scores)
	}
}

func TestGameZeroScoreNotPlaced(t *testing.T) {
	board := &memoryBoard{}
	m := newGame([]string{"一"}, board)
	answer(m, "5")
	if !m.Finished() || len(board.scores) != 0 || m.Rank() != 0 {
		t.Fatalf("zero score should not place: %+v rank=%d", board.scores, m.Rank())
	}
}
