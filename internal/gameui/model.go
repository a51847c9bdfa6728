// Package gameui provides the Bubble Tea stroke-count game.
package gameui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/shukong/internal/strokedata"
)

const (
	DefaultRounds   = 20
	DefaultDuration = 90 * time.Second
	PointsPerHit    = 10
	StreakBonus     = 5
	streakThreshold = 3
)

// StrokeResolver returns stroke data for one character, or nil when none is available.
type StrokeResolver interface {
	Resolve(ctx context.Context, char string) json.RawMessage
}

// ScoreBoard records a final score and returns its rank, or 0 when it did not place.
type ScoreBoard interface {
	AddScore(ctx context.Context, score int, nickname, avatar string) (int, error)
}

// Options configure a game.
type Options struct {
	Duration time.Duration
	Nickname string
	Avatar   string
}

type roundLoadedMsg struct {
	round   int
	strokes int
}

// Model implements the stroke-count game: a character is shown and the
// player answers how many strokes it has before the clock runs out.
type Model struct {
	ctx      context.Context
	chars    []string
	resolver StrokeResolver
	board    ScoreBoard
	opts     Options

	width  int
	height int

	input textinput.Model
	clock timer.Model

	round    int
	strokes  int
	loading  bool
	score    int
	streak   int
	hits     int
	answered int
	feedback string
	skipped  int

	done    bool
	rank    int
	saveErr error
}

var (
	charStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	hitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	missStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// NewModel constructs a game over the given characters, one per round.
func NewModel(ctx context.Context, chars []string, resolver StrokeResolver, board ScoreBoard, opts Options) *Model {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	input := textinput.New()
	input.Prompt = "Strokes: "
	input.Placeholder = "0"
	input.CharLimit = 2
	input.Validate = func(v string) error {
		if v == "" {
			return nil
		}
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("digits only")
		}
		return nil
	}
	return &Model{
		ctx:      ctx,
		chars:    chars,
		resolver: resolver,
		board:    board,
		opts:     opts,
		input:    input,
		clock:    timer.NewWithInterval(opts.Duration, time.Second),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if len(m.chars) == 0 {
		m.finish()
		return nil
	}
	return tea.Batch(m.input.Focus(), m.clock.Init(), m.loadRound())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case roundLoadedMsg:
		return m, m.handleLoaded(msg)
	case timer.TickMsg:
		var cmd tea.Cmd
		m.clock, cmd = m.clock.Update(msg)
		return m, cmd
	case timer.TimeoutMsg:
		if msg.ID == m.clock.ID() && !m.done {
			m.feedback = missStyle.Render("Time is up")
			m.finish()
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.done {
		content = m.renderSummary()
	} else {
		content = m.renderRound()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// Score returns the current score.
func (m *Model) Score() int {
	return m.score
}

// Rank returns the leaderboard placing of the final score, or 0.
func (m *Model) Rank() int {
	return m.rank
}

// Finished reports whether the game ended.
func (m *Model) Finished() bool {
	return m.done
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
	if msg.Type == tea.KeyEnter {
		return m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) submit() tea.Cmd {
	if m.loading {
		return nil
	}
	value := strings.TrimSpace(m.input.Value())
	guess, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	m.answered++
	char := m.chars[m.round]
	if guess == m.strokes {
		m.hits++
		m.streak++
		points := PointsPerHit
		if m.streak >= streakThreshold {
			points += StreakBonus
		}
		m.score += points
		m.feedback = hitStyle.Render(fmt.Sprintf("%s has %d strokes  +%d", char, m.strokes, points))
	} else {
		m.streak = 0
		m.feedback = missStyle.Render(fmt.Sprintf("%s has %d strokes, not %d", char, m.strokes, guess))
	}
	m.input.Reset()
	return m.nextRound()
}

func (m *Model) nextRound() tea.Cmd {
	m.round++
	if m.round >= len(m.chars) {
		m.finish()
		return m.clock.Stop()
	}
	return m.loadRound()
}

func (m *Model) handleLoaded(msg roundLoadedMsg) tea.Cmd {
	if msg.round != m.round || m.done {
		return nil
	}
	m.loading = false
	if msg.strokes <= 0 {
		m.skipped++
		return m.nextRound()
	}
	m.strokes = msg.strokes
	return nil
}

func (m *Model) loadRound() tea.Cmd {
	m.loading = true
	round := m.round
	char := m.chars[round]
	ctx := m.ctx
	resolver := m.resolver
	return func() tea.Msg {
		return roundLoadedMsg{round: round, strokes: strokedata.StrokeCount(resolver.Resolve(ctx, char))}
	}
}

func (m *Model) finish() {
	if m.done {
		return
	}
	m.done = true
	m.input.Blur()
	if m.board == nil {
		return
	}
	rank, err := m.board.AddScore(m.ctx, m.score, m.opts.Nickname, m.opts.Avatar)
	if err != nil {
		m.saveErr = err
		logErrf("failed to save score: %v\n", err)
		return
	}
	m.rank = rank
}

func (m *Model) renderRound() string {
	char := "…"
	if !m.loading && m.round < len(m.chars) {
		char = m.chars[m.round]
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Round %d/%d", m.round+1, len(m.chars))),
		charStyle.Render(char),
		m.input.View(),
		m.feedback,
		"",
		footerStyle.Render(fmt.Sprintf("Score %d  Streak %d  Time %s  enter: answer  esc: quit", m.score, m.streak, m.clock.View())),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderSummary() string {
	lines := []string{titleStyle.Render("Game over")}
	if m.feedback != "" {
		lines = append(lines, m.feedback)
	}
	lines = append(lines, fmt.Sprintf("Score %d  (%d/%d correct)", m.score, m.hits, m.answered))
	switch {
	case m.saveErr != nil:
		lines = append(lines, missStyle.Render("Score not saved"))
	case m.rank > 0:
		lines = append(lines, hitStyle.Render(fmt.Sprintf("Leaderboard rank #%d", m.rank)))
	case m.score > 0:
		lines = append(lines, mutedStyle.Render("Not in the top scores this time"))
	}
	if m.skipped > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d characters skipped without stroke data", m.skipped)))
	}
	lines = append(lines, "", footerStyle.Render("enter or q to exit"))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// Run starts the game in the alternate screen and blocks until it exits.
func Run(m *Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run game TUI: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
