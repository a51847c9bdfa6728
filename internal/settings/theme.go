package settings

import (
	"context"
	"fmt"
)

// ThemeMode selects the colour scheme.
type ThemeMode string

// Theme modes.
const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// ParseThemeMode validates a mode string.
func ParseThemeMode(v string) (ThemeMode, error) {
	switch ThemeMode(v) {
	case ThemeLight, ThemeDark, ThemeSystem:
		return ThemeMode(v), nil
	}
	return "", fmt.Errorf("unknown theme mode %q (want light, dark or system)", v)
}

// IsDark resolves mode against the system preference.
func (m ThemeMode) IsDark(systemDark bool) bool {
	if m == ThemeSystem {
		return systemDark
	}
	return m == ThemeDark
}

// Theme returns the stored mode, light by default. The value is stored as a
// bare string, not JSON.
func (s *Settings) Theme(ctx context.Context) (ThemeMode, error) {
	raw, ok, err := s.backend.GetItem(ctx, KeyTheme)
	if err != nil {
		return ThemeLight, fmt.Errorf("failed to load %s: %w", KeyTheme, err)
	}
	if !ok {
		return ThemeLight, nil
	}
	mode, err := ParseThemeMode(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("ignoring stored theme")
		return ThemeLight, nil
	}
	return mode, nil
}

// SetTheme stores mode.
func (s *Settings) SetTheme(ctx context.Context, mode ThemeMode) error {
	if _, err := ParseThemeMode(string(mode)); err != nil {
		return err
	}
	if err := s.backend.SetItem(ctx, KeyTheme, string(mode)); err != nil {
		return fmt.Errorf("failed to save %s: %w", KeyTheme, err)
	}
	return nil
}

// ToggleTheme flips between light and dark. In system mode the opposite of the
// current system appearance is chosen.
func (s *Settings) ToggleTheme(ctx context.Context, systemDark bool) (ThemeMode, error) {
	mode, err := s.Theme(ctx)
	if err != nil {
		return mode, err
	}
	next := ThemeDark
	if mode.IsDark(systemDark) {
		next = ThemeLight
	}
	return next, s.SetTheme(ctx, next)
}
