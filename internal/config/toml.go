// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Resources ResourcesConfig `toml:"resources"`
	Sources   SourcesConfig   `toml:"sources"`
	Log       LogConfig       `toml:"log"`
}

// ResourcesConfig maps where bundled resources are loaded from.
type ResourcesConfig struct {
	BaseURL     *string `toml:"base-url"`
	AppDir      *string `toml:"app-dir"`
	Development *bool   `toml:"development"`
	Bridge      *bool   `toml:"bridge"`
}

// SourcesConfig maps the remote stroke-data endpoints.
type SourcesConfig struct {
	Official *string   `toml:"official"`
	MirrorA  *string   `toml:"mirror-a"`
	MirrorB  *string   `toml:"mirror-b"`
	Timeout  *Duration `toml:"timeout"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// Duration decodes TOML strings such as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	if v <= 0 {
		return fmt.Errorf("duration must be positive, got %q", string(text))
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written by `shukong config` when no file exists yet.
const Template = `# shukong configuration

[resources]
# base-url = "http://localhost:5173"
# app-dir = "/opt/shukong"
# development = false
# bridge = true

[sources]
# official = "https://cdn.jsdelivr.net/npm/hanzi-writer-data@2.0/%s.json"
# mirror-a = "https://fastly.jsdelivr.net/npm/hanzi-writer-data@latest/%s.json"
# mirror-b = "https://unpkg.com/hanzi-writer-data@latest/%s.json"
# timeout = "15s"

[log]
# level = "warn"
`

// WriteTemplate creates the config file with commented defaults unless it exists.
func WriteTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := EnsureDir(path); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
