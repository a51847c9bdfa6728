package settings

import (
	"context"

	"github.com/verte-zerg/shukong/internal/model"
)

// App is a mini app that can be pinned to the navigation.
type App struct {
	Title       string
	NavLabel    string
	Path        string
	Description string
}

// Catalog lists the available mini apps.
var Catalog = []App{
	{Title: "导图字典", NavLabel: "字典", Path: "/dictmap", Description: "以导图形式展示汉字的关联知识"},
	{Title: "笔顺查询", NavLabel: "查询", Path: "/query", Description: "查询任意汉字的笔顺"},
	{Title: "字书", NavLabel: "字书", Path: "/book", Description: "各种孩子看了有益的开放书籍"},
	{Title: "生字本", NavLabel: "生字", Path: "/wordbook", Description: "收藏和管理你的生字"},
	{Title: "极限笔顺", NavLabel: "极限", Path: "/play/stroke", Description: "挑战自己，看看你能多快写出汉字"},
}

// AppStates returns the stored states, or every catalog app disabled.
func (s *Settings) AppStates(ctx context.Context) ([]model.AppState, error) {
	return s.appStates(ctx)
}

// ToggleApp enables a disabled or unknown app and drops an enabled one.
// It reports whether the app is enabled afterwards.
func (s *Settings) ToggleApp(ctx context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	states, err := s.appStates(ctx)
	if err != nil {
		return false, err
	}
	enabled := true
	found := false
	for i := range states {
		if states[i].Path != path {
			continue
		}
		found = true
		if states[i].Enabled {
			states = append(states[:i], states[i+1:]...)
			enabled = false
		} else {
			states[i].Enabled = true
		}
		break
	}
	if !found {
		states = append(states, model.AppState{Path: path, Enabled: true})
	}
	return enabled, s.save(ctx, KeyAppStates, states)
}

// EnabledApps returns catalog entries for enabled states, in state order.
func (s *Settings) EnabledApps(ctx context.Context) ([]App, error) {
	states, err := s.appStates(ctx)
	if err != nil {
		return nil, err
	}
	var out []App
	for _, st := range states {
		if !st.Enabled {
			continue
		}
		for _, app := range Catalog {
			if app.Path == st.Path {
				out = append(out, app)
				break
			}
		}
	}
	return out, nil
}

func (s *Settings) appStates(ctx context.Context) ([]model.AppState, error) {
	var states []model.AppState
	if err := s.load(ctx, KeyAppStates, &states); err != nil {
		return nil, err
	}
	if states == nil {
		states = make([]model.AppState, len(Catalog))
		for i, app := range Catalog {
			states[i] = model.AppState{Path: app.Path}
		}
	}
	return states, nil
}
