package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/shukong/internal/app"
	"github.com/verte-zerg/shukong/internal/historyui"
	"github.com/verte-zerg/shukong/internal/report"
)

var (
	lookupJSON bool

	historyFrequent bool
	historyDictMap  bool
	historyQuiz     bool
	historyLimit    int
	historyClear    bool
	historyBrowse   bool

	leaderboardClear bool
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <text>...",
		Short: "Look up stroke data for Chinese characters",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withContainer(runLookupCmd),
	}
	cmd.Flags().BoolVar(&lookupJSON, "json", false, "print raw stroke data")
	return cmd
}

func runLookupCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, args []string) error {
	results, err := c.Lookup(ctx, strings.Join(args, ""))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if lookupJSON {
		payload := map[string]json.RawMessage{}
		for _, r := range results {
			payload[r.Char] = r.Data
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	rows := make([][]string, 0, len(results))
	missing := 0
	for _, r := range results {
		strokes := "-"
		if r.Found() {
			strokes = strconv.Itoa(r.Strokes)
		} else {
			missing++
		}
		marked := ""
		if c.Wordbook.Contains(r.Char) {
			marked = "★"
		}
		rows = append(rows, []string{r.Char, strokes, marked})
	}
	p := report.NewPrinter(out)
	if err := p.Lines(report.FormatTable([]string{"Char", "Strokes", "Wordbook"}, rows, map[int]bool{1: true})); err != nil {
		return err
	}
	if missing > 0 {
		logErrf("no stroke data for %d of %d characters\n", missing, len(results))
	}
	return nil
}

func newDictMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictmap <text>...",
		Short: "Break text down into characters using the local cache",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withContainer(runDictMapCmd),
	}
	cmd.Flags().BoolVar(&lookupJSON, "json", false, "print the entry as JSON")
	return cmd
}

func runDictMapCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, args []string) error {
	entry, err := c.DictMap(ctx, strings.Join(args, ""))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if lookupJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}
	rows := make([][]string, 0, len(entry.Characters))
	for _, ch := range entry.Characters {
		radical := "-"
		if len(ch.RadicalStrokes) > 0 {
			radical = strconv.Itoa(len(ch.RadicalStrokes))
		}
		source := "network"
		if ch.Cached {
			source = "cache"
		}
		rows = append(rows, []string{ch.Char, strconv.Itoa(ch.Strokes), radical, source})
	}
	p := report.NewPrinter(out)
	if _, err := fmt.Fprintf(out, "%s\n\n", entry.Query); err != nil {
		return err
	}
	if err := p.Lines(report.FormatTable([]string{"Char", "Strokes", "Radical", "From"}, rows, map[int]bool{1: true, 2: true})); err != nil {
		return err
	}
	if len(entry.Missing) > 0 {
		logErrf("no stroke data for: %s\n", strings.Join(entry.Missing, ""))
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show query, dict-map or quiz history",
		Args:  cobra.NoArgs,
		RunE:  withContainer(runHistoryCmd),
	}
	cmd.Flags().BoolVar(&historyFrequent, "frequent", false, "order by query count")
	cmd.Flags().BoolVar(&historyDictMap, "dictmap", false, "show dict-map history")
	cmd.Flags().BoolVar(&historyQuiz, "quiz", false, "show quiz history")
	cmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum records to show (0 for all)")
	cmd.Flags().BoolVar(&historyClear, "clear", false, "clear the selected history")
	cmd.Flags().BoolVar(&historyBrowse, "browse", false, "open the interactive history browser")
	cmd.MarkFlagsMutuallyExclusive("dictmap", "quiz")
	return cmd
}

func runHistoryCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, _ []string) error {
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	if historyBrowse {
		data := historyui.Data{
			Queries:     c.Queries.Latest(0),
			DictMap:     c.DictMapHistory.List(),
			Quizzes:     c.Quizzes.List(),
			Leaderboard: c.Leaderboard.List(),
			Wordbook:    c.Wordbook.Entries(),
		}
		return historyui.Run(historyui.NewModel(data, time.Now()))
	}

	p := report.NewPrinter(cmd.OutOrStdout())
	switch {
	case historyQuiz:
		if historyClear {
			return c.Quizzes.Clear(ctx)
		}
		return p.QuizHistory(c.Quizzes.List())
	case historyDictMap:
		if historyClear {
			return c.DictMapHistory.Clear(ctx)
		}
		if historyFrequent {
			return p.History(c.DictMapHistory.Frequent(historyLimit))
		}
		return p.History(limitRecords(c.DictMapHistory.List(), historyLimit))
	default:
		if historyClear {
			return c.Queries.Clear(ctx)
		}
		if historyFrequent {
			return p.History(c.Queries.Frequent(historyLimit))
		}
		return p.History(c.Queries.Latest(historyLimit))
	}
}

func limitRecords[T any](records []T, n int) []T {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[:n]
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the stroke game leaderboard",
		Args:  cobra.NoArgs,
		RunE:  withContainer(runLeaderboardCmd),
	}
	cmd.Flags().BoolVar(&leaderboardClear, "clear", false, "clear the leaderboard")
	return cmd
}

func runLeaderboardCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, _ []string) error {
	if leaderboardClear {
		return c.Leaderboard.Clear(ctx)
	}
	return report.NewPrinter(cmd.OutOrStdout()).Leaderboard(c.Leaderboard.List())
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the stroke data cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts",
		Args:  cobra.NoArgs,
		RunE: withContainer(func(ctx context.Context, c *app.Container, cmd *cobra.Command, _ []string) error {
			memory, persistent, err := c.Cache.Stats(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "memory: %s entries\npersistent: %s entries\n",
				humanize.Comma(int64(memory)), humanize.Comma(int64(persistent)))
			return err
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: withContainer(func(ctx context.Context, c *app.Container, _ *cobra.Command, _ []string) error {
			c.ClearCaches(ctx)
			logErrln("cache cleared")
			return nil
		}),
	})
	return cmd
}
