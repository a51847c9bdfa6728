package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/shukong/internal/model"
)

func TestFormatTableAlignsWideColumns(t *testing.T) {
	headers := []string{"Query", "Count"}
	rows := [][]string{
		{"你好", "12"},
		{"a", "3"},
	}
	lines := FormatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Query Count" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "你好     12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "a         3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFitWidth(t *testing.T) {
	lines := FitWidth([]string{"春眠不觉晓", "ok"}, 5)
	if lines[0] != "春眠…" {
		t.Fatalf("unexpected truncation: %q", lines[0])
	}
	if lines[1] != "ok" {
		t.Fatalf("short lines stay intact: %q", lines[1])
	}
}

func TestPrinterHistory(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := &Printer{W: &buf, Now: func() time.Time { return now }}
	err := p.History([]model.HistoryRecord{
		{Query: "山水", Count: 2, LastQueried: now.Add(-2 * time.Hour)},
	})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "山水") || !strings.Contains(out, "2 hours ago") {
		t.Fatalf("unexpected output: %q", out)
	}

	buf.Reset()
	if err := p.Leaderboard(nil); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if buf.String() != "No records.\n" {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}

func TestPrinterQuizHistoryTrend(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{W: &buf}
	err := p.QuizHistory([]model.QuizHistoryRecord{
		{Content: []string{"火"}, TotalChars: 1, ErrorCount: 0},
		{Content: []string{"水"}, TotalChars: 1, ErrorCount: 9},
	})
	if err != nil {
		t.Fatalf("quiz history: %v", err)
	}
	if !strings.Contains(buf.String(), "Errors trend: [@ ]") {
		t.Fatalf("unexpected trend: %q", buf.String())
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("flat series: %q", got)
	}
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("ramp: %q", got)
	}
}

func TestWordbookRowsNewestFirst(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := WordbookRows([]model.WordbookEntry{
		{Word: "山", Timestamp: now.Add(-48 * time.Hour).UnixMilli()},
		{Word: "水", Timestamp: now.Add(-time.Minute).UnixMilli()},
		{Word: "火"},
	}, now)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][1] != "火" || rows[0][2] != "-" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if rows[1][0] != "2" || rows[1][2] != "1 minute ago" {
		t.Fatalf("unexpected second row: %v", rows[1])
	}
	if rows[2][2] != "2 days ago" {
		t.Fatalf("unexpected third row: %v", rows[2])
	}
}
