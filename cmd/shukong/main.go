// Package main provides the CLI entrypoint for shukong.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/shukong/internal/app"
	"github.com/verte-zerg/shukong/internal/config"
)

var (
	rootLogLevel    string
	rootDBPath      string
	rootBaseURL     string
	rootAppDir      string
	rootDevelopment bool
	rootNoBridge    bool
	rootTimeout     time.Duration
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shukong",
		Short:         "Chinese stroke order practice",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&rootDBPath, "db", "", "database path")
	flags.StringVar(&rootBaseURL, "base-url", "", "base URL for bundled resources")
	flags.StringVar(&rootAppDir, "app-dir", "", "packaged application directory")
	flags.BoolVar(&rootDevelopment, "dev", false, "development mode: fetch resources over HTTP")
	flags.BoolVar(&rootNoBridge, "no-bridge", false, "ignore the packaged application directory")
	flags.DurationVar(&rootTimeout, "timeout", 0, "per-request timeout for stroke data sources")

	rootCmd.AddCommand(newLookupCmd())
	rootCmd.AddCommand(newDictMapCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newQuizCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newWordbookCmd())
	rootCmd.AddCommand(newCartCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newAppsCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// openContainer loads the config file, applies flag overrides and builds the container.
func openContainer(cmd *cobra.Command) (*app.Container, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	opts := app.OptionsFromConfig(fileCfg)
	applyStringFlag(cmd, "log-level", &opts.LogLevel, rootLogLevel)
	applyStringFlag(cmd, "db", &opts.DBPath, rootDBPath)
	applyStringFlag(cmd, "base-url", &opts.BaseURL, rootBaseURL)
	applyStringFlag(cmd, "app-dir", &opts.AppDir, rootAppDir)
	applyBoolFlag(cmd, "dev", &opts.Development, rootDevelopment)
	if cmd.Flags().Changed("no-bridge") {
		opts.Bridge = !rootNoBridge
	}
	if cmd.Flags().Changed("timeout") {
		if rootTimeout <= 0 {
			return nil, fmt.Errorf("--timeout must be > 0")
		}
		opts.Timeout = rootTimeout
	}
	return app.Build(cmd.Context(), opts)
}

// withContainer runs fn against a container and closes it afterwards.
func withContainer(fn func(ctx context.Context, c *app.Container, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := c.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return fn(ctx, c, cmd, args)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if _, err := config.WriteTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// applyStringFlag overrides target with value when the flag was set explicitly.
func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, value bool) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
