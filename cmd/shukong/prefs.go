package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/shukong/internal/app"
	"github.com/verte-zerg/shukong/internal/report"
	"github.com/verte-zerg/shukong/internal/settings"
)

var (
	profileNickname string
	profileAvatar   string

	quizContainerSize int
	quizMaxLines      int
	quizMaxChars      int
	quizDrawingWidth  int

	fontCDN  string
	fontName string
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the player profile",
		Args:  cobra.NoArgs,
		RunE:  withContainer(runProfileCmd),
	}
	cmd.Flags().StringVar(&profileNickname, "nickname", "", "set the nickname")
	cmd.Flags().StringVar(&profileAvatar, "avatar", "", "set the avatar path")
	return cmd
}

func runProfileCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("nickname") {
		if err := c.Settings.SetNickname(ctx, profileNickname); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("avatar") {
		if err := c.Settings.SetAvatar(ctx, profileAvatar); err != nil {
			return err
		}
	}
	profile, err := c.Settings.Profile(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "nickname: %s\navatar:   %s\n",
		profile.Nickname, settings.AvatarURL(c.BaseURL, profile.Avatar))
	return err
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
	}

	quizCmd := &cobra.Command{
		Use:   "quiz",
		Short: "Show or change quiz layout settings",
		Args:  cobra.NoArgs,
		RunE:  withContainer(runQuizSettingsCmd),
	}
	quizCmd.Flags().IntVar(&quizContainerSize, "container-size", 0, "writing area size")
	quizCmd.Flags().IntVar(&quizMaxLines, "max-lines", 0, "maximum quiz lines")
	quizCmd.Flags().IntVar(&quizMaxChars, "max-chars", 0, "maximum characters per line")
	quizCmd.Flags().IntVar(&quizDrawingWidth, "drawing-width", 0, "stroke width")

	fontCmd := &cobra.Command{
		Use:   "font",
		Short: "Show or change the custom font",
		Args:  cobra.NoArgs,
		RunE:  withContainer(runFontSettingsCmd),
	}
	fontCmd.Flags().StringVar(&fontCDN, "cdn", "", "font stylesheet URL")
	fontCmd.Flags().StringVar(&fontName, "name", "", "font family name")

	themeCmd := &cobra.Command{
		Use:       "theme [light|dark|system|toggle]",
		Short:     "Show or change the theme mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "system", "toggle"},
		RunE:      withContainer(runThemeCmd),
	}

	cmd.AddCommand(quizCmd, fontCmd, themeCmd)
	return cmd
}

func runQuizSettingsCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, _ []string) error {
	qs, err := c.Settings.QuizSettings(ctx)
	if err != nil {
		return err
	}
	changed := false
	for name, target := range map[string]*int{
		"container-size": &qs.ContainerSize,
		"max-lines":      &qs.MaxLines,
		"max-chars":      &qs.MaxCharsPerLine,
		"drawing-width":  &qs.DrawingWidth,
	} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, err := cmd.Flags().GetInt(name)
		if err != nil {
			return err
		}
		*target = v
		changed = true
	}
	if changed {
		if err := c.Settings.SaveQuizSettings(ctx, qs); err != nil {
			return err
		}
	}
	rows := [][]string{
		{"container-size", strconv.Itoa(qs.ContainerSize)},
		{"max-lines", strconv.Itoa(qs.MaxLines)},
		{"max-chars", strconv.Itoa(qs.MaxCharsPerLine)},
		{"drawing-width", strconv.Itoa(qs.DrawingWidth)},
	}
	return report.NewPrinter(cmd.OutOrStdout()).Lines(report.FormatTable([]string{"Setting", "Value"}, rows, map[int]bool{1: true}))
}

func runFontSettingsCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, _ []string) error {
	fs, err := c.Settings.FontSettings(ctx)
	if err != nil {
		return err
	}
	changed := false
	if cmd.Flags().Changed("cdn") {
		fs.FontCDN = fontCDN
		changed = true
	}
	if cmd.Flags().Changed("name") {
		fs.FontName = fontName
		changed = true
	}
	if changed {
		if err := c.Settings.SaveFontSettings(ctx, fs); err != nil {
			return err
		}
	}
	name, cdn := fs.FontName, fs.FontCDN
	if name == "" {
		name = "(default)"
	}
	if cdn == "" {
		cdn = "-"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "name: %s\ncdn:  %s\n", name, cdn)
	return err
}

func runThemeCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, args []string) error {
	var (
		mode settings.ThemeMode
		err  error
	)
	switch {
	case len(args) == 0:
		mode, err = c.Settings.Theme(ctx)
	case args[0] == "toggle":
		mode, err = c.Settings.ToggleTheme(ctx, lipgloss.HasDarkBackground())
	default:
		if mode, err = settings.ParseThemeMode(args[0]); err == nil {
			err = c.Settings.SetTheme(ctx, mode)
		}
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), mode)
	return err
}

func newAppsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List or pin mini apps",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List mini apps and whether they are pinned",
			Args:  cobra.NoArgs,
			RunE:  withContainer(runAppsListCmd),
		},
		&cobra.Command{
			Use:   "toggle <path>",
			Short: "Pin or unpin a mini app",
			Args:  cobra.ExactArgs(1),
			RunE: withContainer(func(ctx context.Context, c *app.Container, cmd *cobra.Command, args []string) error {
				enabled, err := c.Settings.ToggleApp(ctx, args[0])
				if err != nil {
					return err
				}
				state := "unpinned"
				if enabled {
					state = "pinned"
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], state)
				return err
			}),
		},
	)
	return cmd
}

func runAppsListCmd(ctx context.Context, c *app.Container, cmd *cobra.Command, _ []string) error {
	enabled, err := c.Settings.EnabledApps(ctx)
	if err != nil {
		return err
	}
	pinned := map[string]bool{}
	for _, a := range enabled {
		pinned[a.Path] = true
	}
	rows := make([][]string, 0, len(settings.Catalog))
	for _, a := range settings.Catalog {
		mark := ""
		if pinned[a.Path] {
			mark = "✓"
		}
		rows = append(rows, []string{a.Path, a.Title, a.Description, mark})
	}
	return report.NewPrinter(cmd.OutOrStdout()).Lines(report.FormatTable([]string{"Path", "Title", "Description", "Pinned"}, rows, nil))
}
