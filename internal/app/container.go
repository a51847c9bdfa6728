// Package app wires storage, resolvers and stores into one container.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/shukong/internal/config"
	"github.com/verte-zerg/shukong/internal/dictmap"
	"github.com/verte-zerg/shukong/internal/history"
	"github.com/verte-zerg/shukong/internal/logging"
	"github.com/verte-zerg/shukong/internal/resource"
	"github.com/verte-zerg/shukong/internal/settings"
	"github.com/verte-zerg/shukong/internal/store"
	"github.com/verte-zerg/shukong/internal/strokedata"
)

// Options select paths and sources for a container.
type Options struct {
	DBPath      string
	AppDir      string
	BaseURL     string
	Development bool
	Bridge      bool
	Endpoints   strokedata.Endpoints
	Timeout     time.Duration
	LogLevel    string
	LogWriter   io.Writer
	Clock       func() time.Time
}

// OptionsFromConfig fills Options from the config file, falling back to defaults.
func OptionsFromConfig(cfg config.FileConfig) Options {
	opts := Options{
		DBPath:  config.DefaultDBPath(),
		AppDir:  config.DefaultAppDir(),
		Bridge:  true,
		Timeout: resource.DefaultTimeout,
	}
	if v := cfg.Resources.BaseURL; v != nil {
		opts.BaseURL = *v
	}
	if v := cfg.Resources.AppDir; v != nil {
		opts.AppDir = *v
	}
	if v := cfg.Resources.Development; v != nil {
		opts.Development = *v
	}
	if v := cfg.Resources.Bridge; v != nil {
		opts.Bridge = *v
	}
	if v := cfg.Sources.Official; v != nil {
		opts.Endpoints.Official = *v
	}
	if v := cfg.Sources.MirrorA; v != nil {
		opts.Endpoints.MirrorA = *v
	}
	if v := cfg.Sources.MirrorB; v != nil {
		opts.Endpoints.MirrorB = *v
	}
	if v := cfg.Sources.Timeout; v != nil {
		opts.Timeout = v.Duration
	}
	if v := cfg.Log.Level; v != nil {
		opts.LogLevel = *v
	}
	return opts
}

// Container holds every long-lived service of the application.
type Container struct {
	Log      zerolog.Logger
	Store    *store.Store
	BaseURL  string
	Env      resource.Env
	Loader   resource.Loader
	Cache    *dictmap.Cache
	Resolver *strokedata.Resolver

	Queries        *history.QueryHistory
	DictMapHistory *history.DictMapHistory
	Quizzes        *history.QuizHistory
	Leaderboard    *history.Leaderboard
	Wordbook       *history.Wordbook
	Cart           *history.Cart
	Settings       *settings.Settings
}

// Build opens the database and constructs the dependency graph.
func Build(ctx context.Context, opts Options) (*Container, error) {
	w := opts.LogWriter
	if w == nil {
		w = os.Stderr
	}
	log, err := logging.New(w, opts.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.DBPath == "" {
		return nil, errors.New("database path is empty")
	}
	if err := config.EnsureDir(opts.DBPath); err != nil {
		return nil, err
	}
	st, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	c, err := build(ctx, st, log, opts)
	if err != nil {
		if cerr := st.Close(); cerr != nil {
			_ = cerr
		}
		return nil, err
	}
	return c, nil
}

func build(ctx context.Context, st *store.Store, log zerolog.Logger, opts Options) (*Container, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = resource.DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	var bridge resource.Loader
	hasBridge := false
	if opts.Bridge && opts.AppDir != "" {
		host := &resource.PackagedBridge{AppDir: opts.AppDir}
		if info, err := os.Stat(host.Root()); err == nil && info.IsDir() {
			bridge = &resource.BridgeLoader{Bridge: host}
			hasBridge = true
		}
	}
	env := resource.Env{HasBridge: hasBridge, Development: opts.Development}
	fetch := &resource.FetchLoader{BaseURL: opts.BaseURL, Client: client}
	loader := &resource.EnvLoader{
		Env:    func() resource.Env { return env },
		Fetch:  fetch,
		Bridge: bridge,
	}

	cache := dictmap.New(st, log.With().Str("component", "dictmap").Logger())
	sources := resolverSources(env, loader, opts, client)
	resolver := strokedata.NewResolver(sources, cache, log.With().Str("component", "resolver").Logger())

	storeOpts := []history.Option{history.WithLogger(log.With().Str("component", "history").Logger())}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, history.WithClock(opts.Clock))
	}

	c := &Container{
		Log:      log,
		Store:    st,
		BaseURL:  opts.BaseURL,
		Env:      env,
		Loader:   loader,
		Cache:    cache,
		Resolver: resolver,
		Settings: settings.New(st, log.With().Str("component", "settings").Logger()),
	}
	var err error
	if c.Queries, err = history.NewQueryHistory(ctx, st, storeOpts...); err != nil {
		return nil, err
	}
	if c.DictMapHistory, err = history.NewDictMapHistory(ctx, st, storeOpts...); err != nil {
		return nil, err
	}
	if c.Quizzes, err = history.NewQuizHistory(ctx, st, storeOpts...); err != nil {
		return nil, err
	}
	if c.Leaderboard, err = history.NewLeaderboard(ctx, st, storeOpts...); err != nil {
		return nil, err
	}
	if c.Wordbook, err = history.NewWordbook(ctx, st, storeOpts...); err != nil {
		return nil, err
	}
	if c.Cart, err = history.NewCart(ctx, st, storeOpts...); err != nil {
		return nil, err
	}
	log.Debug().
		Bool("bridge", env.HasBridge).
		Bool("development", env.Development).
		Int("sources", len(sources)).
		Msg("container ready")
	return c, nil
}

// resolverSources builds the fallback chain. The bundled source needs either
// the packaged bridge or a base URL to fetch from; with neither it would only
// produce a guaranteed miss ahead of the CDNs.
func resolverSources(env resource.Env, loader resource.Loader, opts Options, client *http.Client) []strokedata.Source {
	local := loader
	if !env.HasBridge && strings.TrimSpace(opts.BaseURL) == "" {
		local = nil
	}
	return strokedata.DefaultSources(env, local, opts.Endpoints, client)
}

// Close releases the database.
func (c *Container) Close() error {
	return c.Store.Close()
}
