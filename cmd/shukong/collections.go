package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/shukong/internal/app"
	"github.com/verte-zerg/shukong/internal/history"
	"github.com/verte-zerg/shukong/internal/report"
)

func newWordbookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordbook",
		Short: "Manage saved words",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <word>...",
			Short: "Save words",
			Args:  cobra.MinimumNArgs(1),
			RunE: withContainer(func(ctx context.Context, c *app.Container, cmd *cobra.Command, args []string) error {
				if err := c.Wordbook.AddWords(ctx, args); err != nil {
					return err
				}
				return report.NewPrinter(cmd.OutOrStdout()).Wordbook(c.Wordbook.Entries())
			}),
		},
		&cobra.Command{
			Use:   "remove <word>...",
			Short: "Remove saved words",
			Args:  cobra.MinimumNArgs(1),
			RunE: withContainer(func(ctx context.Context, c *app.Container, _ *cobra.Command, args []string) error {
				for _, word := range args {
					removed, err := c.Wordbook.Remove(ctx, word)
					if err != nil {
						return err
					}
					if !removed {
						logErrf("%q is not in the wordbook\n", word)
					}
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "toggle <word>",
			Short: "Save a word, or remove it when already saved",
			Args:  cobra.ExactArgs(1),
			RunE: withContainer(func(ctx context.Context, c *app.Container, cmd *cobra.Command, args []string) error {
				saved, err := c.Wordbook.Toggle(ctx, args[0])
				if err != nil {
					return err
				}
				state := "removed"
				if saved {
					state = "saved"
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], state)
				return err
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List saved words, newest first",
			Args:  cobra.NoArgs,
			RunE: withContainer(func(_ context.Context, c *app.Container, cmd *cobra.Command, _ []string) error {
				return report.NewPrinter(cmd.OutOrStdout()).Wordbook(c.Wordbook.Entries())
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every saved word",
			Args:  cobra.NoArgs,
			RunE: withContainer(func(ctx context.Context, c *app.Container, _ *cobra.Command, _ []string) error {
				return c.Wordbook.Clear(ctx)
			}),
		},
	)
	return cmd
}

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Queue texts for practice sheets",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <text>...",
			Short: "Queue texts",
			Args:  cobra.MinimumNArgs(1),
			RunE: withContainer(func(ctx context.Context, c *app.Container, cmd *cobra.Command, args []string) error {
				for _, text := range args {
					added, err := c.Cart.Add(ctx, text)
					if err != nil {
						return err
					}
					if !added {
						logErrf("%q not added: already queued or cart holds %d characters\n", text, history.CartCharCap)
					}
				}
				return printCart(cmd, c)
			}),
		},
		&cobra.Command{
			Use:   "remove <text>...",
			Short: "Remove queued texts",
			Args:  cobra.MinimumNArgs(1),
			RunE: withContainer(func(ctx context.Context, c *app.Container, cmd *cobra.Command, args []string) error {
				for _, text := range args {
					if _, err := c.Cart.Remove(ctx, text); err != nil {
						return err
					}
				}
				return printCart(cmd, c)
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List queued texts",
			Args:  cobra.NoArgs,
			RunE: withContainer(func(_ context.Context, c *app.Container, cmd *cobra.Command, _ []string) error {
				return printCart(cmd, c)
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: withContainer(func(ctx context.Context, c *app.Container, _ *cobra.Command, _ []string) error {
				return c.Cart.Clear(ctx)
			}),
		},
	)
	return cmd
}

func printCart(cmd *cobra.Command, c *app.Container) error {
	items := c.Cart.Items()
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{strconv.Itoa(i + 1), item})
	}
	p := report.NewPrinter(cmd.OutOrStdout())
	if len(rows) == 0 {
		return p.Lines([]string{"Cart is empty."})
	}
	lines := report.FormatTable([]string{"#", "Text"}, rows, map[int]bool{0: true})
	lines = append(lines, "", fmt.Sprintf("%d/%d characters", c.Cart.CountCharacters(), history.CartCharCap))
	return p.Lines(lines)
}
