// Package model defines shared data structures.
package model

import "time"

// HistoryRecord tracks how often and how recently a normalized text was queried.
type HistoryRecord struct {
	Query       string
	LastQueried time.Time
	Count       int
}

// QuizHistoryRecord captures one completed (or in-progress) quiz.
type QuizHistoryRecord struct {
	ID         string    `json:"uuid"`
	StartTime  time.Time `json:"startTime"`
	Content    []string  `json:"content"`
	TotalChars int       `json:"totalChars"`
	ErrorCount int       `json:"errorCount"`
}

// LeaderboardRecord is one stroke game result.
type LeaderboardRecord struct {
	Score     int    `json:"score"`
	Timestamp int64  `json:"timestamp"`
	Date      string `json:"date"`
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
}

// WordbookEntry is a saved word with the time it was (re)added.
type WordbookEntry struct {
	Word      string `json:"word"`
	Timestamp int64  `json:"timestamp"`
}

// UserProfile is the local user identity.
type UserProfile struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// QuizSettings defines quiz layout and input limits.
type QuizSettings struct {
	ContainerSize   int `json:"containerSize"`
	MaxLines        int `json:"maxLines"`
	MaxCharsPerLine int `json:"maxCharsPerLine"`
	DrawingWidth    int `json:"drawingWidth"`
}

// FontSettings points at a custom web font.
type FontSettings struct {
	FontCDN  string `json:"fontCDN"`
	FontName string `json:"fontName"`
}

// AppState records whether a mini app is enabled.
type AppState struct {
	Path    string `json:"path"`
	Enabled bool   `json:"enabled"`
}

// QuizBankItem is one entry of the bundled quiz bank.
type QuizBankItem struct {
	Title   string
	Content []string
}

// DictMapEntry is the character breakdown for a query.
type DictMapEntry struct {
	Query      string        `json:"query"`
	Characters []DictMapChar `json:"characters"`
	Missing    []string      `json:"missing,omitempty"`
}

// DictMapChar summarises the stroke data of one character.
type DictMapChar struct {
	Char           string `json:"char"`
	Strokes        int    `json:"strokes"`
	RadicalStrokes []int  `json:"radicalStrokes,omitempty"`
	Cached         bool   `json:"cached"`
}
