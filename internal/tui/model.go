package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/shukong/internal/model"
	"github.com/verte-zerg/shukong/internal/quiz"
	"github.com/verte-zerg/shukong/internal/strokedata"
)

// DefaultHintAfter matches the number of misses before the expected stroke is revealed.
const DefaultHintAfter = 3

// StrokeResolver returns stroke data for one character, or nil when none is available.
type StrokeResolver interface {
	Resolve(ctx context.Context, char string) json.RawMessage
}

// Recorder persists a finished quiz.
type Recorder interface {
	Record(ctx context.Context, content []string, errors int, forceNew bool) (model.QuizHistoryRecord, error)
}

// Options tune a quiz run.
type Options struct {
	ForceNew  bool
	HintAfter int
}

type charLoadedMsg struct {
	index      int
	directions []strokedata.Direction
	ok         bool
}

// Model implements the Bubble Tea dictation quiz. Each character is written
// stroke by stroke by entering the heading of every stroke in order.
type Model struct {
	ctx      context.Context
	session  *quiz.Session
	resolver StrokeResolver
	recorder Recorder
	opts     Options

	width  int
	height int

	targetRunes []rune
	lineStarts  []int
	missed      map[int]bool

	loading    bool
	directions []strokedata.Direction
	stroke     int
	misses     int
	skipped    []string

	done    bool
	result  model.QuizHistoryRecord
	saveErr error
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
)

// NewModel constructs a quiz TUI model over a non-nil session.
func NewModel(ctx context.Context, session *quiz.Session, resolver StrokeResolver, recorder Recorder, opts Options) *Model {
	if opts.HintAfter <= 0 {
		opts.HintAfter = DefaultHintAfter
	}
	m := &Model{
		ctx:      ctx,
		session:  session,
		resolver: resolver,
		recorder: recorder,
		opts:     opts,
		missed:   map[int]bool{},
	}
	for i, line := range session.Lines() {
		if i > 0 {
			m.targetRunes = append(m.targetRunes, ' ')
		}
		m.lineStarts = append(m.lineStarts, len(m.targetRunes))
		m.targetRunes = append(m.targetRunes, []rune(line)...)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadCurrent()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case charLoadedMsg:
		return m, m.handleLoaded(msg)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done {
		return m.place(m.renderSummary(), "")
	}
	styledRunes := buildStyledRunes(m.targetRunes, m.missed, m.cursorIndex())
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes) + "\n" + m.renderStrokes() + "\n" + m.renderFooter()
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped + "\n\n" + m.renderStrokes())
	return m.place(content, m.renderFooter())
}

// Finished reports whether the quiz completed and was recorded.
func (m *Model) Finished() bool {
	return m.done
}

// Result returns the stored history record and any error from saving it.
func (m *Model) Result() (model.QuizHistoryRecord, error) {
	return m.result, m.saveErr
}

func (m *Model) place(content, footer string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	}
	if m.done {
		if msg.Type == tea.KeyEnter || (msg.Type == tea.KeyRunes && string(msg.Runes) == "q") {
			return tea.Quit
		}
		return nil
	}
	if m.loading {
		return nil
	}
	var dir strokedata.Direction
	switch msg.Type {
	case tea.KeyUp:
		dir = strokedata.Up
	case tea.KeyDown:
		dir = strokedata.Down
	case tea.KeyLeft:
		dir = strokedata.Left
	case tea.KeyRight:
		dir = strokedata.Right
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return nil
		}
		d, ok := strokedata.DirectionForKey(msg.Runes[0])
		if !ok {
			return nil
		}
		dir = d
	default:
		return nil
	}
	return m.handleStroke(dir)
}

func (m *Model) handleStroke(dir strokedata.Direction) tea.Cmd {
	if m.stroke >= len(m.directions) {
		return nil
	}
	if dir != m.directions[m.stroke] {
		m.session.StrokeError()
		m.missed[m.cursorIndex()] = true
		m.misses++
		return nil
	}
	m.stroke++
	m.misses = 0
	if m.stroke < len(m.directions) {
		return nil
	}
	return m.completeChar()
}

func (m *Model) handleLoaded(msg charLoadedMsg) tea.Cmd {
	if msg.index != m.cursorIndex() {
		return nil
	}
	m.loading = false
	if !msg.ok {
		if ch, ok := m.session.Current(); ok {
			m.skipped = append(m.skipped, string(ch))
		}
		return m.completeChar()
	}
	m.directions = msg.directions
	m.stroke = 0
	m.misses = 0
	return nil
}

func (m *Model) completeChar() tea.Cmd {
	m.directions = nil
	m.stroke = 0
	m.misses = 0
	if m.session.Advance() {
		m.finish()
		return nil
	}
	return m.loadCurrent()
}

func (m *Model) loadCurrent() tea.Cmd {
	ch, ok := m.session.Current()
	if !ok {
		return nil
	}
	m.loading = true
	idx := m.cursorIndex()
	ctx := m.ctx
	resolver := m.resolver
	return func() tea.Msg {
		raw := resolver.Resolve(ctx, string(ch))
		if raw == nil {
			return charLoadedMsg{index: idx}
		}
		c, err := strokedata.Parse(raw)
		if err != nil || len(c.Medians) == 0 {
			return charLoadedMsg{index: idx}
		}
		return charLoadedMsg{index: idx, directions: c.Directions(), ok: true}
	}
}

func (m *Model) finish() {
	m.done = true
	if m.recorder == nil {
		return
	}
	rec, err := m.recorder.Record(m.ctx, m.session.Lines(), m.session.ErrorCount(), m.opts.ForceNew)
	if err != nil {
		m.saveErr = err
		logErrf("failed to save quiz history: %v\n", err)
		return
	}
	m.result = rec
}

func (m *Model) cursorIndex() int {
	if m.session.Finished() {
		return -1
	}
	line, char := m.session.Position()
	if line >= len(m.lineStarts) {
		return -1
	}
	return m.lineStarts[line] + char
}

func (m *Model) renderStrokes() string {
	if m.loading {
		return pendingStyle.Render("loading stroke data...")
	}
	if len(m.directions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.directions))
	for i, d := range m.directions {
		switch {
		case i < m.stroke:
			parts = append(parts, correctStyle.Render(d.String()))
		case i == m.stroke && m.misses >= m.opts.HintAfter:
			parts = append(parts, hintStyle.Underline(true).Render(d.String()))
		case i == m.stroke:
			parts = append(parts, currentLineStyle.Underline(true).Render("·"))
		default:
			parts = append(parts, pendingStyle.Render("·"))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderFooter() string {
	current, total := m.session.Progress()
	segments := []string{fmt.Sprintf("Line %d/%d", min(current+1, total), total)}
	if len(m.directions) > 0 {
		segments = append(segments, fmt.Sprintf("Stroke %d/%d", m.stroke+1, len(m.directions)))
	}
	segments = append(segments, fmt.Sprintf("Errors %d", m.session.ErrorCount()))
	segments = append(segments, "7 8 9 / 4 6 / 1 2 3 or arrows")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderSummary() string {
	lines := m.session.Lines()
	chars := 0
	for _, l := range lines {
		chars += len([]rune(l))
	}
	out := []string{
		currentLineStyle.Render("Quiz complete"),
		fmt.Sprintf("%d lines, %d characters, %d wrong strokes", len(lines), chars, m.session.ErrorCount()),
	}
	if worst := worstChars(m.session.ErrorChars(), 5); worst != "" {
		out = append(out, "Most missed: "+incorrectStyle.Render(worst))
	}
	if len(m.skipped) > 0 {
		out = append(out, pendingStyle.Render("No stroke data: "+strings.Join(m.skipped, "")))
	}
	if m.saveErr != nil {
		out = append(out, incorrectStyle.Render("History not saved"))
	}
	out = append(out, "", footerStyle.Render("enter or q to exit"))
	return strings.Join(out, "\n")
}

func worstChars(counts map[rune]int, n int) string {
	type entry struct {
		ch    rune
		count int
	}
	entries := make([]entry, 0, len(counts))
	for ch, count := range counts {
		entries = append(entries, entry{ch: ch, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].ch < entries[j].ch
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteRune(e.ch)
	}
	return b.String()
}

// Run starts the quiz in the alternate screen and blocks until it exits.
func Run(m *Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run quiz TUI: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
