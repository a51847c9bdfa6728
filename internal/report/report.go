package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/verte-zerg/shukong/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 100
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))

// Printer writes tables to an output stream.
type Printer struct {
	W     io.Writer
	Now   func() time.Time
	Width int
	Color bool
}

// NewPrinter returns a Printer sized and coloured for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{W: w, Now: time.Now, Width: terminalWidth(w), Color: shouldUseColor(w)}
}

// Column headers of each listing.
var (
	HistoryHeaders     = []string{"#", "Query", "Count", "Last queried"}
	QuizHeaders        = []string{"#", "Content", "Chars", "Errors", "Started"}
	LeaderboardHeaders = []string{"Rank", "Player", "Score", "Date"}
	WordbookHeaders    = []string{"#", "Word", "Added"}
)

// HistoryRows formats query or dict-map history records.
func HistoryRows(records []model.HistoryRecord, now time.Time) [][]string {
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Query,
			strconv.Itoa(r.Count),
			relTime(r.LastQueried, now),
		})
	}
	return rows
}

// QuizRows formats quiz history records.
func QuizRows(records []model.QuizHistoryRecord, now time.Time) [][]string {
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strings.Join(r.Content, " "),
			strconv.Itoa(r.TotalChars),
			strconv.Itoa(r.ErrorCount),
			relTime(r.StartTime, now),
		})
	}
	return rows
}

// LeaderboardRows formats ranked scores.
func LeaderboardRows(records []model.LeaderboardRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Nickname,
			humanize.Comma(int64(r.Score)),
			r.Date,
		})
	}
	return rows
}

// WordbookRows formats wordbook entries, newest first.
func WordbookRows(entries []model.WordbookEntry, now time.Time) [][]string {
	rows := make([][]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		added := "-"
		if e.Timestamp > 0 {
			added = relTime(time.UnixMilli(e.Timestamp), now)
		}
		rows = append(rows, []string{strconv.Itoa(len(rows) + 1), e.Word, added})
	}
	return rows
}

// History prints query or dict-map history records.
func (p *Printer) History(records []model.HistoryRecord) error {
	return p.table(HistoryHeaders, HistoryRows(records, p.now()), map[int]bool{0: true, 2: true})
}

// QuizHistory prints quiz records followed by an error trend, oldest to newest.
func (p *Printer) QuizHistory(records []model.QuizHistoryRecord) error {
	if err := p.table(QuizHeaders, QuizRows(records, p.now()), map[int]bool{0: true, 2: true, 3: true}); err != nil {
		return err
	}
	if len(records) < 2 {
		return nil
	}
	_, err := fmt.Fprintf(p.W, "\nErrors trend: [%s]\n", Sparkline(QuizErrorSeries(records)))
	return err
}

// QuizErrorSeries returns error counts ordered from the oldest quiz to the newest.
func QuizErrorSeries(records []model.QuizHistoryRecord) []float64 {
	out := make([]float64, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, float64(records[i].ErrorCount))
	}
	return out
}

// Leaderboard prints ranked stroke game scores.
func (p *Printer) Leaderboard(records []model.LeaderboardRecord) error {
	return p.table(LeaderboardHeaders, LeaderboardRows(records), map[int]bool{0: true, 2: true})
}

// Wordbook prints wordbook entries, newest first.
func (p *Printer) Wordbook(entries []model.WordbookEntry) error {
	return p.table(WordbookHeaders, WordbookRows(entries, p.now()), map[int]bool{0: true})
}

// Lines prints one value per line.
func (p *Printer) Lines(values []string) error {
	for _, v := range values {
		if _, err := fmt.Fprintln(p.W, v); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) table(headers []string, rows [][]string, rightAlign map[int]bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.W, "No records.")
		return err
	}
	lines := FitWidth(FormatTable(headers, rows, rightAlign), p.Width)
	for i, line := range lines {
		if i == 0 && p.Color {
			line = headerStyle.Render(line)
		}
		if _, err := fmt.Fprintln(p.W, line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func relTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
