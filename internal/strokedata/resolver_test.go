package strokedata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/shukong/internal/dictmap"
	"github.com/verte-zerg/shukong/internal/resource"
	"github.com/verte-zerg/shukong/internal/store"
)

type countingSource struct {
	name  string
	data  json.RawMessage
	err   error
	calls int
}

func (s *countingSource) Name() string { return s.name }

func (s *countingSource) Load(context.Context, string) (json.RawMessage, error) {
	s.calls++
	return s.data, s.err
}

func failing(name string) *countingSource {
	return &countingSource{name: name, err: errors.New(name + " down")}
}

func newCache(t *testing.T) *dictmap.Cache {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "shukong.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return dictmap.New(st, zerolog.Nop())
}

func TestResolveFallsThroughToFirstSuccess(t *testing.T) {
	cache := newCache(t)
	a, b := failing("a"), failing("b")
	c := &countingSource{name: "c", data: json.RawMessage(`"data-X"`)}
	r := NewResolver([]Source{a, b, c}, cache, zerolog.Nop())
	ctx := context.Background()

	got := r.Resolve(ctx, "永")
	require.Equal(t, `"data-X"`, string(got))
	require.Equal(t, 1, a.calls)
	require.Equal(t, 1, b.calls)
	require.Equal(t, 1, c.calls)

	require.True(t, r.Memoized("永"))
	cached, ok := cache.Get(ctx, "永")
	require.True(t, ok)
	require.Equal(t, `"data-X"`, string(cached))
}

func TestResolveTwiceHitsSourcesOnce(t *testing.T) {
	src := &countingSource{name: "only", data: json.RawMessage(`{"strokes":["M 0 0"]}`)}
	r := NewResolver([]Source{src}, nil, zerolog.Nop())
	ctx := context.Background()

	first := r.Resolve(ctx, "水")
	second := r.Resolve(ctx, "水")
	require.Equal(t, string(first), string(second))
	require.Equal(t, 1, src.calls)
}

func TestResolveUsesPersistentTierAfterRestart(t *testing.T) {
	cache := newCache(t)
	ctx := context.Background()
	cache.Put(ctx, "火", json.RawMessage(`"cached"`))

	src := &countingSource{name: "remote", data: json.RawMessage(`"remote"`)}
	r := NewResolver([]Source{src}, cache, zerolog.Nop())
	require.Equal(t, `"cached"`, string(r.Resolve(ctx, "火")))
	require.Equal(t, 0, src.calls)
}

func TestResolveExhaustedReturnsNil(t *testing.T) {
	a, b := failing("a"), &countingSource{name: "empty", data: json.RawMessage(`null`)}
	r := NewResolver([]Source{a, b}, nil, zerolog.Nop())

	require.Nil(t, r.Resolve(context.Background(), "木"))
	require.False(t, r.Memoized("木"))

	// A failed resolution is not memoized, so the next call retries.
	require.Nil(t, r.Resolve(context.Background(), "木"))
	require.Equal(t, 2, a.calls)
}

func TestFirstSuccessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &countingSource{name: "x", data: json.RawMessage(`1`)}
	_, _, ok := FirstSuccess(ctx, "土", []Source{src}, zerolog.Nop())
	require.False(t, ok)
	require.Equal(t, 0, src.calls)
}

func TestResolveAll(t *testing.T) {
	src := SourceFunc{ID: "fn", Fn: func(_ context.Context, char string) (json.RawMessage, error) {
		if char == "口" {
			return nil, errors.New("missing")
		}
		return json.RawMessage(`"` + char + `"`), nil
	}}
	r := NewResolver([]Source{src}, nil, zerolog.Nop())
	got := r.ResolveAll(context.Background(), "日口日 a")
	require.Len(t, got, 2)
	require.Equal(t, `"日"`, string(got["日"]))
	require.Nil(t, got["口"])
}

func TestDefaultSourcesOrder(t *testing.T) {
	loader := resource.NewFetchLoader("http://localhost")

	names := func(sources []Source) []string {
		out := make([]string, len(sources))
		for i, s := range sources {
			out[i] = s.Name()
		}
		return out
	}

	dev := DefaultSources(resource.Env{Development: true}, loader, Endpoints{}, nil)
	require.Equal(t, []string{"official", "mirror-a", "mirror-b"}, names(dev))

	shell := DefaultSources(resource.Env{HasBridge: true}, loader, Endpoints{}, nil)
	require.Equal(t, []string{"local", "official", "mirror-a", "mirror-b"}, names(shell))
}

func TestHTTPSourceAndLocalSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/hanzi-writer/data/永.json" || r.URL.Path == "/npm/永.json" {
			_, _ = w.Write([]byte(`{"strokes":["a","b","c","d","e"],"medians":[[],[],[],[],[]]}`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	ctx := context.Background()

	remote := &HTTPSource{ID: "official", Template: srv.URL + "/npm/%s.json", Client: srv.Client()}
	data, err := remote.Load(ctx, "永")
	require.NoError(t, err)
	require.Equal(t, 5, StrokeCount(data))

	_, err = remote.Load(ctx, "火")
	require.ErrorIs(t, err, resource.ErrResourceUnavailable)

	local := &LocalSource{Loader: resource.NewFetchLoader(srv.URL)}
	data, err = local.Load(ctx, "永")
	require.NoError(t, err)
	ch, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, ch.Strokes, 5)

	bad := &HTTPSource{ID: "bad", Template: srv.URL + "/npm/fixed.json"}
	_, err = bad.Load(ctx, "永")
	require.Error(t, err)
}
