package tui

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/shukong/internal/model"
	"github.com/verte-zerg/shukong/internal/quiz"
)

// 一 is one stroke to the right, 十 is right then down.
var strokeFixtures = map[string]json.RawMessage{
	"一": json.RawMessage(`{"strokes":["M"],"medians":[[[100,500],[900,500]]]}`),
	"十": json.RawMessage(`{"strokes":["M","M"],"medians":[[[100,500],[900,500]],[[500,900],[500,100]]]}`),
}

type fixtureResolver struct{}

func (fixtureResolver) Resolve(_ context.Context, char string) json.RawMessage {
	return strokeFixtures[char]
}

type memoryRecorder struct {
	content []string
	errors  int
	calls   int
}

func (r *memoryRecorder) Record(_ context.Context, content []string, errors int, _ bool) (model.QuizHistoryRecord, error) {
	r.content = content
	r.errors = errors
	r.calls++
	return model.QuizHistoryRecord{Content: content, ErrorCount: errors}, nil
}

func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(charLoadedMsg); !ok {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(t *testing.T, m *Model, key string) {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	drain(t, m, cmd)
}

func TestQuizRunRecordsErrors(t *testing.T) {
	session := quiz.NewSession([]string{"一十"})
	rec := &memoryRecorder{}
	m := NewModel(context.Background(), session, fixtureResolver{}, rec, Options{})
	drain(t, m, m.Init())

	press(t, m, "2")
	press(t, m, "6")
	if m.cursorIndex() != 1 {
		t.Fatalf("expected to advance to second character, cursor=%d", m.cursorIndex())
	}
	if !m.missed[0] {
		t.Fatalf("expected first character marked missed")
	}

	press(t, m, "6")
	press(t, m, "2")
	if !m.Finished() {
		t.Fatalf("expected quiz finished")
	}
	if rec.calls != 1 || rec.errors != 1 || rec.content[0] != "一十" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !strings.Contains(m.View(), "Quiz complete") {
		t.Fatalf("expected summary view")
	}
}

func TestQuizSkipsCharactersWithoutData(t *testing.T) {
	session := quiz.NewSession([]string{"龘一"})
	rec := &memoryRecorder{}
	m := NewModel(context.Background(), session, fixtureResolver{}, rec, Options{})
	drain(t, m, m.Init())

	if len(m.skipped) != 1 || m.skipped[0] != "龘" {
		t.Fatalf("expected skipped character, got %v", m.skipped)
	}
	press(t, m, "6")
	if !m.Finished() || rec.errors != 0 {
		t.Fatalf("expected clean finish, finished=%v errors=%d", m.Finished(), rec.errors)
	}
}

func TestQuizHintAfterMisses(t *testing.T) {
	session := quiz.NewSession([]string{"一"})
	m := NewModel(context.Background(), session, fixtureResolver{}, nil, Options{HintAfter: 2})
	drain(t, m, m.Init())

	press(t, m, "4")
	if strings.Contains(m.renderStrokes(), "→") {
		t.Fatalf("hint shown too early")
	}
	press(t, m, "4")
	if !strings.Contains(m.renderStrokes(), "→") {
		t.Fatalf("expected hint after misses")
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !m.Finished() {
		t.Fatalf("arrow key should complete the stroke")
	}
}

func TestRenderFooterFormats(t *testing.T) {
	session := quiz.NewSession([]string{"十", "一"})
	m := NewModel(context.Background(), session, fixtureResolver{}, nil, Options{})
	drain(t, m, m.Init())
	press(t, m, "4")

	out := m.renderFooter()
	for _, needle := range []string{"Line 1/2", "Stroke 1/2", "Errors 1"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("footer missing %q: %s", needle, out)
		}
	}
}
