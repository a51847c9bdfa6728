package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/shukong/internal/app"
	"github.com/verte-zerg/shukong/internal/gameui"
	"github.com/verte-zerg/shukong/internal/history"
	"github.com/verte-zerg/shukong/internal/model"
	"github.com/verte-zerg/shukong/internal/quiz"
	"github.com/verte-zerg/shukong/internal/report"
	"github.com/verte-zerg/shukong/internal/tui"
)

const (
	defaultRandomChars = 12
	focusFactor        = 2.0
)

// seedChars keeps practice possible before any bank or history exists.
const seedChars = "一二三十人大天上下山水火木日月口"

var (
	quizBank          int
	quizListBank      bool
	quizFile          string
	quizRandom        int
	quizFocusWordbook bool
	quizNew           bool
	quizHintAfter     int

	gameRounds        int
	gameDuration      time.Duration
	gameFocusWordbook bool
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz [text...]",
		Short: "Write characters stroke by stroke",
		Long: "Write each character by entering the direction of every stroke with\n" +
			"the arrow keys or the numeric keypad digits (8 up, 2 down, 4 left, 6 right,\n" +
			"7 9 1 3 for diagonals). Without text the latest quiz is replayed.",
		RunE: withContainer(runQuizCmd),
	}
	cmd.Flags().IntVar(&quizBank, "bank", 0, "use quiz bank entry N (1-based)")
	cmd.Flags().BoolVar(&quizListBank, "list-bank", false, "list the quiz bank and exit")
	cmd.Flags().StringVar(&quizFile, "file", "", "read quiz lines from a file")
	cmd.Flags().IntVar(&quizRandom, "random", 0, "practise N random characters")
	cmd.Flags().BoolVar(&quizFocusWordbook, "focus-wordbook", false, "favour wordbook characters when drawing at random")
	cmd.Flags().BoolVar(&quizNew, "new", false, "record as a new quiz even if the content was practised before")
	cmd.Flags().IntVar(&quizHintAfter, "hint-after", tui.DefaultHintAfter, "show the expected direction after N misses")
	cmd.MarkFlagsMutuallyExclusive("bank", "file", "random")
	return cmd
}

func runQuizCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, args []string) error {
	if quizBank < 0 || quizRandom < 0 {
		return fmt.Errorf("--bank and --random must be >= 0")
	}
	if quizHintAfter < 1 {
		return fmt.Errorf("--hint-after must be >= 1")
	}

	needBank := quizListBank || quizBank > 0 || quizRandom > 0 || (len(args) == 0 && quizFile == "")
	var bank []model.QuizBankItem
	if needBank {
		bank = quiz.LoadBank(ctx, c.Loader, c.Log)
	}
	if quizListBank {
		return printBank(cmd, bank)
	}

	content, err := quizContent(c, bank, args)
	if err != nil {
		return err
	}
	qs, err := c.Settings.QuizSettings(ctx)
	if err != nil {
		return err
	}
	session := quiz.NewSession(quiz.Prepare(content, qs))
	if session == nil {
		return fmt.Errorf("no Chinese characters to practise")
	}

	m := tui.NewModel(ctx, session, c.Resolver, c.Quizzes, tui.Options{ForceNew: quizNew, HintAfter: quizHintAfter})
	if err := tui.Run(m); err != nil {
		return err
	}
	if !m.Finished() {
		return nil
	}
	_, err = m.Result()
	return err
}

func quizContent(c *app.Container, bank []model.QuizBankItem, args []string) ([]string, error) {
	switch {
	case len(args) > 0:
		return args, nil
	case quizFile != "":
		return quiz.LoadLines(quizFile)
	case quizBank > 0:
		if quizBank > len(bank) {
			return nil, fmt.Errorf("quiz bank has %d entries", len(bank))
		}
		return bank[quizBank-1].Content, nil
	case quizRandom > 0:
		return randomContent(c, bank, quizRandom, quizFocusWordbook), nil
	}
	if records := c.Quizzes.List(); len(records) > 0 {
		return records[0].Content, nil
	}
	return randomContent(c, bank, defaultRandomChars, quizFocusWordbook), nil
}

func randomContent(c *app.Container, bank []model.QuizBankItem, n int, focusWordbook bool) []string {
	chars := drawChars(buildPool(c, bank), c.Wordbook, n, focusWordbook)
	return []string{strings.Join(chars, "")}
}

func buildPool(c *app.Container, bank []model.QuizBankItem) *quiz.WordPool {
	pool := quiz.NewWordPool()
	pool.AddBank(bank)
	pool.AddHistory(c.Quizzes.List())
	pool.AddLines(c.Wordbook.Characters())
	if pool.Len() == 0 {
		pool.AddLines([]string{seedChars})
	}
	return pool
}

func drawChars(pool *quiz.WordPool, wordbook *history.Wordbook, n int, focusWordbook bool) []string {
	if !focusWordbook {
		return pool.Random(n)
	}
	focus := map[string]struct{}{}
	for _, ch := range wordbook.Characters() {
		focus[ch] = struct{}{}
	}
	return pool.Draw(n, focus, focusFactor)
}

func printBank(cmd *cobra.Command, bank []model.QuizBankItem) error {
	rows := make([][]string, 0, len(bank))
	for i, item := range bank {
		preview := strings.Join(item.Content, " ")
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), item.Title, preview})
	}
	p := report.NewPrinter(cmd.OutOrStdout())
	if len(rows) == 0 {
		return p.Lines([]string{"Quiz bank is empty."})
	}
	return p.Lines(report.FormatTable([]string{"#", "Title", "Content"}, rows, map[int]bool{0: true}))
}

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Race the clock guessing stroke counts",
		Args:  cobra.NoArgs,
		RunE:  withContainer(runGameCmd),
	}
	cmd.Flags().IntVar(&gameRounds, "rounds", gameui.DefaultRounds, "number of characters")
	cmd.Flags().DurationVar(&gameDuration, "duration", gameui.DefaultDuration, "time limit")
	cmd.Flags().BoolVar(&gameFocusWordbook, "focus-wordbook", false, "favour wordbook characters")
	return cmd
}

func runGameCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, _ []string) error {
	if gameRounds <= 0 {
		return fmt.Errorf("--rounds must be > 0")
	}
	if gameDuration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	pool := buildPool(c, quiz.LoadBank(ctx, c.Loader, c.Log))
	chars := drawChars(pool, c.Wordbook, gameRounds, gameFocusWordbook)
	if !gameFocusWordbook && len(chars) < gameRounds {
		chars = pool.Draw(gameRounds, nil, 0)
	}

	profile, err := c.Settings.Profile(ctx)
	if err != nil {
		return err
	}
	m := gameui.NewModel(ctx, chars, c.Resolver, c.Leaderboard, gameui.Options{
		Duration: gameDuration,
		Nickname: profile.Nickname,
		Avatar:   profile.Avatar,
	})
	if err := gameui.Run(m); err != nil {
		return err
	}
	if m.Finished() && m.Rank() > 0 {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s placed #%d with %d points\n", profile.Nickname, m.Rank(), m.Score())
		return err
	}
	return nil
}
