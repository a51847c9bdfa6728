// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/shukong/internal/model"
	"github.com/verte-zerg/shukong/internal/report"
)

const (
	tabOverview = iota
	tabQueries
	tabDictMap
	tabQuizzes
	tabLeaderboard
	tabWordbook
)

const chartHeight = 6

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Data is a snapshot of every persisted collection.
type Data struct {
	Queries     []model.HistoryRecord
	DictMap     []model.HistoryRecord
	Quizzes     []model.QuizHistoryRecord
	Leaderboard []model.LeaderboardRecord
	Wordbook    []model.WordbookEntry
}

type tabTable struct {
	headers []string
	rows    [][]string
}

// Model implements the history browser.
type Model struct {
	data Data
	now  time.Time

	tabs      []string
	activeTab int
	overview  viewport.Model
	table     table.Model
	tables    map[int]tabTable

	width  int
	height int

	filterMode bool
	filter     textinput.Model
	query      string
}

// NewModel builds a browser over data, rendering relative times against now.
func NewModel(data Data, now time.Time) *Model {
	m := &Model{
		data:     data,
		now:      now,
		tabs:     []string{"Overview", "Queries", "Dict map", "Quizzes", "Leaderboard", "Wordbook"},
		overview: viewport.New(0, 0),
	}
	m.tables = map[int]tabTable{
		tabQueries:     {report.HistoryHeaders, report.HistoryRows(data.Queries, now)},
		tabDictMap:     {report.HistoryHeaders, report.HistoryRows(data.DictMap, now)},
		tabQuizzes:     {report.QuizHeaders, report.QuizRows(data.Quizzes, now)},
		tabLeaderboard: {report.LeaderboardHeaders, report.LeaderboardRows(data.Leaderboard)},
		tabWordbook:    {report.WordbookHeaders, report.WordbookRows(data.Wordbook, now)},
	}
	m.filter = textinput.New()
	m.filter.Prompt = "Filter: "
	m.filter.Placeholder = "山水"
	m.filter.Cursor.SetMode(cursor.CursorBlink)
	m.table = table.New(table.WithStyles(tableStyles()), table.WithFocused(true))
	m.renderOverview()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			if m.activeTab == tabOverview {
				return m, nil
			}
			m.filterMode = true
			m.filter.SetValue(m.query)
			return m, m.filter.Focus()
		case "g", "home":
			if m.activeTab == tabOverview {
				m.overview.GotoTop()
			} else {
				m.table.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabOverview {
				m.overview.GotoBottom()
			} else {
				m.table.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabOverview {
			m.overview, cmd = m.overview.Update(msg)
		} else {
			m.table, cmd = m.table.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, 1)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	bodyHeight = m.height - headerHeight - 1
	if m.filterMode {
		bodyHeight--
	}
	return headerHeight, max(bodyHeight, 1)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.filter.Width = max(10, m.width-lipgloss.Width(m.filter.Prompt)-2)
	m.renderOverview()
	m.applyTable()
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	m.query = ""
	m.applyTable()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filter.Blur()
		m.query = strings.TrimSpace(m.filter.Value())
		m.applyTable()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

// applyTable loads the active tab's rows into the shared table widget.
func (m *Model) applyTable() {
	tt, ok := m.tables[m.activeTab]
	if !ok {
		return
	}
	rows := filterRows(tt.rows, m.query)
	m.table.SetRows(nil)
	m.table.SetColumns(columnsFor(tt.headers, tt.rows, m.width))
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, table.Row(r))
	}
	m.table.SetRows(tableRows)
	_, bodyHeight := m.layoutHeights()
	m.table.SetWidth(max(m.width, 1))
	m.table.SetHeight(max(bodyHeight-1, 1))
	m.table.GotoTop()
}

func (m *Model) visibleRows() int {
	return len(m.table.Rows())
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	if m.activeTab == tabOverview {
		return m.overview.View()
	}
	var body string
	if m.visibleRows() == 0 {
		body = "No records."
		if m.query != "" {
			body = fmt.Sprintf("No records match %q.", m.query)
		}
	} else {
		body = tableMutedStyle.Render(m.table.View())
	}
	if m.filterMode {
		body = m.filter.View() + "\n" + body
	}
	return body
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("enter: apply  esc: cancel")
	}
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Filter: /  Quit: q"
	if m.query != "" {
		help = fmt.Sprintf("Filter %q  ", m.query) + help
	}
	return headerStyle.Render(help)
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	d := m.data
	lookups := 0
	for _, r := range d.Queries {
		lookups += r.Count
	}
	best := "-"
	if len(d.Leaderboard) > 0 {
		best = fmt.Sprintf("%d", d.Leaderboard[0].Score)
	}
	top := strings.Join(report.TopCharacters(d.Queries, 5), "")
	if top == "" {
		top = "-"
	}
	cards := []string{
		metricCard("Lookups", fmt.Sprintf("%d", lookups)),
		metricCard("Distinct queries", fmt.Sprintf("%d", len(d.Queries))),
		metricCard("Quizzes", fmt.Sprintf("%d", len(d.Quizzes))),
		metricCard("Best score", best),
		metricCard("Wordbook", fmt.Sprintf("%d", len(d.Wordbook))),
		metricCard("Top characters", top),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	sections := []string{summary}
	if len(d.Quizzes) > 1 {
		sections = append(sections, report.Chart("Wrong strokes per quiz (oldest to newest)", report.QuizErrorSeries(d.Quizzes), width, chartHeight, true))
	}
	if len(d.Leaderboard) > 1 {
		scores := make([]float64, 0, len(d.Leaderboard))
		for _, r := range d.Leaderboard {
			scores = append(scores, float64(r.Score))
		}
		sections = append(sections, report.Chart("Leaderboard scores by rank", scores, width, chartHeight, true))
	}
	m.overview.SetContent(strings.Join(sections, "\n\n"))
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// columnsFor sizes each column to its widest cell. The last column takes the
// remaining width so long quiz content stays readable.
func columnsFor(headers []string, rows [][]string, width int) []table.Column {
	cols := make([]table.Column, len(headers))
	used := 0
	for i, h := range headers {
		w := lipgloss.Width(h)
		for _, r := range rows {
			if i < len(r) {
				w = max(w, lipgloss.Width(r[i]))
			}
		}
		cols[i] = table.Column{Title: h, Width: w}
		used += w + 1
	}
	if width > used && len(cols) > 0 {
		cols[len(cols)-1].Width += width - used
	}
	return cols
}

func filterRows(rows [][]string, query string) [][]string {
	if query == "" {
		return rows
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		for _, cell := range r {
			if strings.Contains(cell, query) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// Run starts the browser in the alternate screen.
func Run(m *Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}
