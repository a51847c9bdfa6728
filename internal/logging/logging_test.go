package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn default, got %v", lvl)
	}
	if lvl, err := ParseLevel(" DEBUG "); err != nil || lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v (%v)", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Str("char", "永").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info event should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "永") {
		t.Fatalf("expected warn event with field, got %q", out)
	}
}
