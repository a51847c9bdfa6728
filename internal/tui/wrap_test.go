package tui

import (
	"strings"
	"testing"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	target := []rune("山水")
	runes := buildStyledRunes(target, nil, 1)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("山") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentLineStyle.Underline(true).Render("水") {
		t.Fatalf("expected cursor style for second rune")
	}
	if runes[0].width != 2 {
		t.Fatalf("expected double width, got %d", runes[0].width)
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	runes := buildStyledRunes([]rune("山"), nil, -1)
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("山") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesMissedCharacter(t *testing.T) {
	runes := buildStyledRunes([]rune("山水"), map[int]bool{0: true}, 1)
	if runes[0].s != incorrectStyle.Render("山") {
		t.Fatalf("expected incorrect style for missed rune")
	}
}

func TestBuildStyledRunesLineHighlighting(t *testing.T) {
	target := []rune("春眠 不觉")
	runes := buildStyledRunes(target, nil, 0)
	if runes[1].s != currentLineStyle.Render("眠") {
		t.Fatalf("expected current line style within current line")
	}
	if runes[3].s != pendingStyle.Render("不") {
		t.Fatalf("expected pending style for next line")
	}
}

func TestWrapStyledRunesBreaksAtLineSpace(t *testing.T) {
	runes := buildStyledRunes([]rune("春眠 不觉"), nil, -1)
	out := wrapStyledRunes(runes, 6)
	parts := strings.Split(out, "\n")
	if len(parts) != 2 {
		t.Fatalf("expected 2 wrapped lines, got %d: %q", len(parts), out)
	}
	if lineWidthOf(runes[:2]) != 4 {
		t.Fatalf("unexpected width")
	}
}

func TestWrapStyledRunesHardBreak(t *testing.T) {
	runes := buildStyledRunes([]rune("春眠不觉晓"), nil, -1)
	out := wrapStyledRunes(runes, 4)
	if got := len(strings.Split(out, "\n")); got != 3 {
		t.Fatalf("expected 3 wrapped lines, got %d", got)
	}
}
