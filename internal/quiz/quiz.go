// Package quiz prepares dictation quizzes and tracks their progress.
package quiz

import (
	"github.com/verte-zerg/shukong/internal/hanzi"
	"github.com/verte-zerg/shukong/internal/model"
)

// Prepare filters content to ideographs, truncates each line to
// MaxCharsPerLine, drops empty lines and keeps at most MaxLines lines.
func Prepare(content []string, settings model.QuizSettings) []string {
	out := make([]string, 0, len(content))
	for _, line := range content {
		runes := []rune(hanzi.Normalize(line))
		if settings.MaxCharsPerLine > 0 && len(runes) > settings.MaxCharsPerLine {
			runes = runes[:settings.MaxCharsPerLine]
		}
		if len(runes) == 0 {
			continue
		}
		out = append(out, string(runes))
		if settings.MaxLines > 0 && len(out) >= settings.MaxLines {
			break
		}
	}
	return out
}

// Session tracks one run through a prepared quiz.
type Session struct {
	lines      []string
	chars      [][]rune
	line       int
	char       int
	errorCount int
	errorChars map[rune]int
	finished   bool
}

// NewSession returns a Session over prepared lines, or nil when there is nothing to practise.
func NewSession(lines []string) *Session {
	if len(lines) == 0 {
		return nil
	}
	s := &Session{
		lines:      lines,
		chars:      make([][]rune, len(lines)),
		errorChars: map[rune]int{},
	}
	for i, line := range lines {
		s.chars[i] = []rune(line)
	}
	if len(s.chars[0]) == 0 {
		return nil
	}
	return s
}

// Lines returns the prepared content.
func (s *Session) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Current returns the character being written and whether the quiz is still running.
func (s *Session) Current() (rune, bool) {
	if s.finished {
		return 0, false
	}
	return s.chars[s.line][s.char], true
}

// Position returns the current line and character index.
func (s *Session) Position() (line, char int) {
	return s.line, s.char
}

// Progress returns completed lines and the total number of lines.
func (s *Session) Progress() (current, total int) {
	if s.finished {
		return len(s.lines), len(s.lines)
	}
	return s.line, len(s.lines)
}

// StrokeError records a wrong stroke on the current character.
func (s *Session) StrokeError() {
	ch, ok := s.Current()
	if !ok {
		return
	}
	s.errorCount++
	s.errorChars[ch]++
}

// Advance moves past the current character. It reports whether the quiz finished.
func (s *Session) Advance() bool {
	if s.finished {
		return true
	}
	s.char++
	if s.char >= len(s.chars[s.line]) {
		s.char = 0
		s.line++
	}
	if s.line >= len(s.chars) {
		s.finished = true
	}
	return s.finished
}

// Finished reports whether every character has been written.
func (s *Session) Finished() bool {
	return s.finished
}

// ErrorCount returns the total number of wrong strokes.
func (s *Session) ErrorCount() int {
	return s.errorCount
}

// ErrorChars returns per-character wrong stroke counts.
func (s *Session) ErrorChars() map[rune]int {
	out := make(map[rune]int, len(s.errorChars))
	for k, v := range s.errorChars {
		out[k] = v
	}
	return out
}
