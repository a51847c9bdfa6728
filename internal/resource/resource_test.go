package resource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

type stubLoader struct {
	name  string
	calls int
}

func (s *stubLoader) Load(context.Context, string) (json.RawMessage, error) {
	s.calls++
	return json.RawMessage(`"` + s.name + `"`), nil
}

func TestFetchLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quiz.json":
			_, _ = w.Write([]byte(`{"data":[]}`))
		case "/broken.json":
			_, _ = w.Write([]byte(`{`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	loader := NewFetchLoader(srv.URL + "/")
	data, err := loader.Load(context.Background(), "quiz.json")
	if err != nil {
		t.Fatalf("load quiz.json: %v", err)
	}
	if string(data) != `{"data":[]}` {
		t.Fatalf("unexpected body: %s", data)
	}

	for _, path := range []string{"missing.json", "broken.json"} {
		_, err := loader.Load(context.Background(), path)
		if !errors.Is(err, ErrResourceUnavailable) {
			t.Fatalf("expected ErrResourceUnavailable for %s, got %v", path, err)
		}
	}
}

func TestPackagedBridge(t *testing.T) {
	appDir := t.TempDir()
	dataDir := filepath.Join(appDir, "dist_app", "hanzi-writer", "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "永.json"), []byte(`{"strokes":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loader := &BridgeLoader{Bridge: &PackagedBridge{AppDir: appDir}}
	data, err := loader.Load(context.Background(), "hanzi-writer/data/永.json")
	if err != nil {
		t.Fatalf("bridge load: %v", err)
	}
	if string(data) != `{"strokes":[]}` {
		t.Fatalf("unexpected data: %s", data)
	}

	if _, err := loader.Load(context.Background(), "../secret.json"); err == nil {
		t.Fatalf("expected path escape to fail")
	}
	if _, err := loader.Load(context.Background(), "hanzi-writer/data/火.json"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected host not-exist error to propagate, got %v", err)
	}
}

func TestSelect(t *testing.T) {
	fetch := &stubLoader{name: "fetch"}
	bridge := &stubLoader{name: "bridge"}
	cases := []struct {
		env  Env
		want Loader
	}{
		{Env{}, fetch},
		{Env{HasBridge: true}, bridge},
		{Env{HasBridge: true, Development: true}, fetch},
	}
	for _, tc := range cases {
		if got := Select(tc.env, fetch, bridge); got != tc.want {
			t.Fatalf("Select(%+v) picked the wrong loader", tc.env)
		}
	}

	hasBridge := false
	env := &EnvLoader{
		Env:    func() Env { return Env{HasBridge: hasBridge} },
		Fetch:  fetch,
		Bridge: bridge,
	}
	_, _ = env.Load(context.Background(), "quiz.json")
	hasBridge = true
	_, _ = env.Load(context.Background(), "quiz.json")
	if fetch.calls != 1 || bridge.calls != 1 {
		t.Fatalf("expected one call per variant, got fetch=%d bridge=%d", fetch.calls, bridge.calls)
	}
}

func TestEnvRestricted(t *testing.T) {
	if (Env{Development: true}).Restricted() {
		t.Fatalf("development browser should be unrestricted")
	}
	for _, env := range []Env{{}, {HasBridge: true, Development: true}, {MobileShell: true, Development: true}} {
		if !env.Restricted() {
			t.Fatalf("expected %+v to be restricted", env)
		}
	}
}
