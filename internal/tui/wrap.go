// Package tui provides the Bubble Tea dictation quiz.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles the quiz text. Lines are joined by single spaces;
// everything before cursorIndex has been written, missed marks positions
// that needed more than one attempt.
func buildStyledRunes(targetRunes []rune, missed map[int]bool, cursorIndex int) []styledRune {
	lines := findLines(targetRunes)
	currentLine := lineForCursor(lines, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		style := pendingStyle
		written := cursorIndex < 0 || i < cursorIndex
		switch {
		case target == ' ':
			style = pendingStyle
		case written && missed[i]:
			style = incorrectStyle
		case written:
			style = correctStyle
		case currentLine != nil && i >= currentLine.start && i < currentLine.end:
			style = currentLineStyle
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(target)),
			width:   runewidth.RuneWidth(target),
			isSpace: target == ' ',
		})
	}
	return out
}

type lineRange struct {
	start int
	end   int
}

func findLines(targetRunes []rune) []lineRange {
	lines := []lineRange{}
	start := -1
	for i, r := range targetRunes {
		if r == ' ' {
			if start != -1 {
				lines = append(lines, lineRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		lines = append(lines, lineRange{start: start, end: len(targetRunes)})
	}
	return lines
}

func lineForCursor(lines []lineRange, cursorIndex int) *lineRange {
	if len(lines) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, l := range lines {
		if cursorIndex < l.end {
			return &lines[i]
		}
	}
	return &lines[len(lines)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
