// Package strokedata resolves character stroke data through an ordered chain of sources.
package strokedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/verte-zerg/shukong/internal/resource"
)

// Default endpoints for hanzi-writer-data. Each template contains one %s for the character.
const (
	OfficialURL = "https://cdn.jsdelivr.net/npm/hanzi-writer-data@2.0/%s.json"
	MirrorAURL  = "https://fastly.jsdelivr.net/npm/hanzi-writer-data@latest/%s.json"
	MirrorBURL  = "https://unpkg.com/hanzi-writer-data@latest/%s.json"
)

// LocalDataPath is the bundled asset path for a character.
func LocalDataPath(char string) string {
	return "hanzi-writer/data/" + char + ".json"
}

// Source provides stroke data for one character.
type Source interface {
	Name() string
	Load(ctx context.Context, char string) (json.RawMessage, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc struct {
	ID string
	Fn func(ctx context.Context, char string) (json.RawMessage, error)
}

// Name implements Source.
func (s SourceFunc) Name() string { return s.ID }

// Load implements Source.
func (s SourceFunc) Load(ctx context.Context, char string) (json.RawMessage, error) {
	return s.Fn(ctx, char)
}

// LocalSource reads bundled data through the resource loader.
type LocalSource struct {
	Loader resource.Loader
}

// Name implements Source.
func (s *LocalSource) Name() string { return "local" }

// Load implements Source.
func (s *LocalSource) Load(ctx context.Context, char string) (json.RawMessage, error) {
	return s.Loader.Load(ctx, LocalDataPath(char))
}

// HTTPSource fetches from a URL template.
type HTTPSource struct {
	ID       string
	Template string
	Client   *http.Client
}

// Name implements Source.
func (s *HTTPSource) Name() string { return s.ID }

// Load implements Source.
func (s *HTTPSource) Load(ctx context.Context, char string) (json.RawMessage, error) {
	if !strings.Contains(s.Template, "%s") {
		return nil, fmt.Errorf("source %s: url template %q has no %%s", s.ID, s.Template)
	}
	return resource.FetchJSON(ctx, s.Client, fmt.Sprintf(s.Template, char))
}

// Endpoints overrides the remote URL templates. Empty fields keep the defaults.
type Endpoints struct {
	Official string
	MirrorA  string
	MirrorB  string
}

// DefaultSources builds the resolution chain for env. The bundled data is tried
// first on hosts that may block third-party CDNs.
func DefaultSources(env resource.Env, loader resource.Loader, endpoints Endpoints, client *http.Client) []Source {
	var sources []Source
	if env.Restricted() && loader != nil {
		sources = append(sources, &LocalSource{Loader: loader})
	}
	sources = append(sources,
		&HTTPSource{ID: "official", Template: orDefault(endpoints.Official, OfficialURL), Client: client},
		&HTTPSource{ID: "mirror-a", Template: orDefault(endpoints.MirrorA, MirrorAURL), Client: client},
		&HTTPSource{ID: "mirror-b", Template: orDefault(endpoints.MirrorB, MirrorBURL), Client: client},
	)
	return sources
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
