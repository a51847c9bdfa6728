// Package settings persists the singleton user records: profile, quiz and font
// settings, theme mode and enabled mini apps.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/shukong/internal/model"
)

// Storage keys shared with the original application data.
const (
	KeyUser         = "shukong_user"
	KeyQuizSettings = "quizSettings"
	KeyFont         = "fontSettings"
	KeyBuiltinFont  = "builtinFontSettings"
	KeyTheme        = "themeMode"
	KeyAppStates    = "appStates"
)

// Profile defaults.
const (
	DefaultNickname = "匿名用户"
	DefaultAvatar   = "avatars/01.png"
)

// DefaultQuizSettings returns the built-in quiz settings.
func DefaultQuizSettings() model.QuizSettings {
	return model.QuizSettings{
		ContainerSize:   500,
		MaxLines:        40,
		MaxCharsPerLine: 10,
		DrawingWidth:    50,
	}
}

// Backend is key-scoped string storage.
type Backend interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Settings reads and writes the singleton records.
type Settings struct {
	mu      sync.Mutex
	backend Backend
	log     zerolog.Logger
}

// New returns Settings over backend.
func New(backend Backend, log zerolog.Logger) *Settings {
	return &Settings{backend: backend, log: log}
}

// Profile returns the stored profile with defaults for missing fields.
func (s *Settings) Profile(ctx context.Context) (model.UserProfile, error) {
	profile := model.UserProfile{Nickname: DefaultNickname, Avatar: DefaultAvatar}
	if err := s.load(ctx, KeyUser, &profile); err != nil {
		return profile, err
	}
	if strings.TrimSpace(profile.Nickname) == "" {
		profile.Nickname = DefaultNickname
	}
	if strings.TrimSpace(profile.Avatar) == "" {
		profile.Avatar = DefaultAvatar
	}
	return profile, nil
}

// SetNickname updates the profile nickname.
func (s *Settings) SetNickname(ctx context.Context, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return fmt.Errorf("nickname must not be empty")
	}
	return s.updateProfile(ctx, func(p *model.UserProfile) { p.Nickname = nickname })
}

// SetAvatar updates the profile avatar path.
func (s *Settings) SetAvatar(ctx context.Context, avatar string) error {
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return fmt.Errorf("avatar must not be empty")
	}
	return s.updateProfile(ctx, func(p *model.UserProfile) { p.Avatar = avatar })
}

func (s *Settings) updateProfile(ctx context.Context, fn func(*model.UserProfile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, err := s.Profile(ctx)
	if err != nil {
		return err
	}
	fn(&profile)
	return s.save(ctx, KeyUser, profile)
}

// AvatarURL joins the avatar path onto baseURL ("/" when empty).
func AvatarURL(baseURL, avatar string) string {
	if baseURL == "" {
		baseURL = "/"
	}
	return baseURL + strings.TrimPrefix(avatar, "/")
}

// QuizSettings returns stored quiz settings merged over the defaults.
func (s *Settings) QuizSettings(ctx context.Context) (model.QuizSettings, error) {
	qs := DefaultQuizSettings()
	err := s.load(ctx, KeyQuizSettings, &qs)
	return qs, err
}

// SaveQuizSettings validates and stores qs.
func (s *Settings) SaveQuizSettings(ctx context.Context, qs model.QuizSettings) error {
	if qs.ContainerSize <= 0 || qs.MaxLines <= 0 || qs.MaxCharsPerLine <= 0 || qs.DrawingWidth <= 0 {
		return fmt.Errorf("quiz settings must be positive: %+v", qs)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeyQuizSettings, qs)
}

// FontSettings returns the custom font settings.
func (s *Settings) FontSettings(ctx context.Context) (model.FontSettings, error) {
	var fs model.FontSettings
	err := s.load(ctx, KeyFont, &fs)
	return fs, err
}

// SaveFontSettings stores fs.
func (s *Settings) SaveFontSettings(ctx context.Context, fs model.FontSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeyFont, fs)
}

// BuiltinFontSettings returns the built-in font record untouched.
func (s *Settings) BuiltinFontSettings(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	err := s.load(ctx, KeyBuiltinFont, &out)
	return out, err
}

// SaveBuiltinFontSettings stores the built-in font record.
func (s *Settings) SaveBuiltinFontSettings(ctx context.Context, v map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeyBuiltinFont, v)
}

// load decodes key into v, leaving v unchanged when the key is absent or unreadable.
func (s *Settings) load(ctx context.Context, key string, v any) error {
	raw, ok, err := s.backend.GetItem(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("ignoring unreadable setting")
	}
	return nil
}

func (s *Settings) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.backend.SetItem(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
